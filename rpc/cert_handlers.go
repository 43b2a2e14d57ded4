package rpc

import (
	"encoding/hex"
	"errors"
	"fmt"
	"math/big"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/dpmc-io/nft-minting-smart-contract/crypto"
	"github.com/dpmc-io/nft-minting-smart-contract/native/cert"
)

type mintRequest struct {
	Payer     string `json:"payer"`
	Amount    string `json:"amount"`
	Recipient string `json:"recipient"`
	Expiry    string `json:"expiry"`
	Signature string `json:"signature"`
}

type mintResponse struct {
	TokenID uint64 `json:"tokenId"`
}

func (s *Server) handleMint(w http.ResponseWriter, r *http.Request) {
	var req mintRequest
	if err := decodeBody(r, &req); err != nil {
		s.writeError(w, r, http.StatusBadRequest, fmt.Errorf("invalid request body: %w", err))
		return
	}
	payer, err := crypto.DecodeAddress(req.Payer)
	if err != nil {
		s.writeError(w, r, http.StatusBadRequest, fmt.Errorf("payer: %w", err))
		return
	}
	recipient, err := crypto.DecodeAddress(req.Recipient)
	if err != nil {
		s.writeError(w, r, http.StatusBadRequest, fmt.Errorf("recipient: %w", err))
		return
	}
	amount, err := parseAmount("amount", req.Amount)
	if err != nil {
		s.writeError(w, r, http.StatusBadRequest, err)
		return
	}
	expiry, err := parseAmount("expiry", req.Expiry)
	if err != nil {
		s.writeError(w, r, http.StatusBadRequest, err)
		return
	}
	signature, err := parseSignature(req.Signature)
	if err != nil {
		s.writeError(w, r, http.StatusBadRequest, err)
		return
	}

	tokenID, err := s.engine.Mint(payer, amount, recipient, expiry, signature)
	if err != nil {
		s.writeEngineError(w, r, err)
		return
	}
	if s.metrics != nil {
		s.metrics.Minted.Inc()
	}
	writeJSON(w, http.StatusOK, mintResponse{TokenID: tokenID})
}

type transferRequest struct {
	Caller      string `json:"caller"`
	Destination string `json:"destination"`
	TokenID     uint64 `json:"tokenId"`
}

func (s *Server) handleTransfer(w http.ResponseWriter, r *http.Request) {
	var req transferRequest
	if err := decodeBody(r, &req); err != nil {
		s.writeError(w, r, http.StatusBadRequest, fmt.Errorf("invalid request body: %w", err))
		return
	}
	caller, err := crypto.DecodeAddress(req.Caller)
	if err != nil {
		s.writeError(w, r, http.StatusBadRequest, fmt.Errorf("caller: %w", err))
		return
	}
	destination, err := parseDestination(req.Destination)
	if err != nil {
		s.writeError(w, r, http.StatusBadRequest, err)
		return
	}
	if err := s.engine.Transfer(caller, destination, req.TokenID); err != nil {
		s.writeEngineError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "transferred"})
}

type proxiedTransferRequest struct {
	Executor    string `json:"executor"`
	Source      string `json:"source"`
	Destination string `json:"destination"`
	TokenID     uint64 `json:"tokenId"`
}

func (s *Server) handleTransferExecutedBy(w http.ResponseWriter, r *http.Request) {
	var req proxiedTransferRequest
	if err := decodeBody(r, &req); err != nil {
		s.writeError(w, r, http.StatusBadRequest, fmt.Errorf("invalid request body: %w", err))
		return
	}
	executor, err := crypto.DecodeAddress(req.Executor)
	if err != nil {
		s.writeError(w, r, http.StatusBadRequest, fmt.Errorf("executor: %w", err))
		return
	}
	source, err := crypto.DecodeAddress(req.Source)
	if err != nil {
		s.writeError(w, r, http.StatusBadRequest, fmt.Errorf("source: %w", err))
		return
	}
	destination, err := parseDestination(req.Destination)
	if err != nil {
		s.writeError(w, r, http.StatusBadRequest, err)
		return
	}
	if err := s.engine.TransferExecutedBy(executor, source, destination, req.TokenID); err != nil {
		s.writeEngineError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "transferred"})
}

type stateResponse struct {
	TotalMinted uint64 `json:"totalMinted"`
}

func (s *Server) handleState(w http.ResponseWriter, r *http.Request) {
	total, err := s.engine.TotalMinted()
	if err != nil {
		s.writeEngineError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, stateResponse{TotalMinted: total})
}

type certificateResponse struct {
	TokenID  uint64 `json:"tokenId"`
	Value    string `json:"value"`
	IssuedAt uint64 `json:"issuedAt"`
}

func (s *Server) handleCertificate(w http.ResponseWriter, r *http.Request) {
	tokenID, err := parseTokenID(r)
	if err != nil {
		s.writeError(w, r, http.StatusBadRequest, err)
		return
	}
	certificate, err := s.engine.CertificateByID(tokenID)
	if err != nil {
		s.writeEngineError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, certificateResponse{
		TokenID:  tokenID,
		Value:    certificate.Value.String(),
		IssuedAt: certificate.IssuedAt,
	})
}

func (s *Server) handleMetadata(w http.ResponseWriter, r *http.Request) {
	tokenID, err := parseTokenID(r)
	if err != nil {
		s.writeError(w, r, http.StatusBadRequest, err)
		return
	}
	uri, err := s.engine.RenderMetadata(tokenID)
	if err != nil {
		s.writeEngineError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"uri": uri})
}

// writeEngineError maps the engine's sentinel errors onto HTTP statuses.
func (s *Server) writeEngineError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, cert.ErrInvalidSignatureFormat),
		errors.Is(err, cert.ErrInvalidExpiry),
		errors.Is(err, cert.ErrInvalidAmount),
		errors.Is(err, cert.ErrInvalidMintBounds):
		s.writeError(w, r, http.StatusBadRequest, err)
	case errors.Is(err, cert.ErrUnauthorizedVoucher):
		s.writeError(w, r, http.StatusUnauthorized, err)
	case errors.Is(err, cert.ErrReplayedVoucher):
		s.writeError(w, r, http.StatusConflict, err)
	case errors.Is(err, cert.ErrTransferRestricted),
		errors.Is(err, cert.ErrNotTokenHolder):
		s.writeError(w, r, http.StatusForbidden, err)
	case errors.Is(err, cert.ErrHolderCapReached),
		errors.Is(err, cert.ErrAmountBelowMinimum),
		errors.Is(err, cert.ErrAmountAboveMaximum),
		errors.Is(err, cert.ErrInsufficientBalance),
		errors.Is(err, cert.ErrInsufficientAllowance):
		s.writeError(w, r, http.StatusUnprocessableEntity, err)
	case errors.Is(err, cert.ErrCertNotFound):
		s.writeError(w, r, http.StatusNotFound, err)
	case errors.Is(err, cert.ErrPaused):
		s.writeError(w, r, http.StatusServiceUnavailable, err)
	default:
		// Invariant violations (ownership underflow, re-entry) and
		// collaborator failures land here deliberately.
		s.writeError(w, r, http.StatusInternalServerError, err)
	}
}

func parseTokenID(r *http.Request) (uint64, error) {
	raw := chi.URLParam(r, "id")
	tokenID, err := strconv.ParseUint(raw, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid certificate id %q", raw)
	}
	return tokenID, nil
}

func parseAmount(field, raw string) (*big.Int, error) {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return nil, fmt.Errorf("%s required", field)
	}
	value, ok := new(big.Int).SetString(trimmed, 10)
	if !ok {
		return nil, fmt.Errorf("%s: invalid decimal %q", field, raw)
	}
	return value, nil
}

func parseSignature(raw string) ([]byte, error) {
	trimmed := strings.TrimPrefix(strings.TrimSpace(raw), "0x")
	if trimmed == "" {
		return nil, fmt.Errorf("signature required")
	}
	signature, err := hex.DecodeString(trimmed)
	if err != nil {
		return nil, fmt.Errorf("signature: %w", err)
	}
	return signature, nil
}

// parseDestination accepts an empty or zero string as the zero address so
// holders can park a certificate without an allow-list entry.
func parseDestination(raw string) (crypto.Address, error) {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" || trimmed == "0x0" {
		return crypto.ZeroAddress, nil
	}
	destination, err := crypto.DecodeAddress(trimmed)
	if err != nil {
		return crypto.Address{}, fmt.Errorf("destination: %w", err)
	}
	return destination, nil
}
