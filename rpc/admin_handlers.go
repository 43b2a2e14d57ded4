package rpc

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/dpmc-io/nft-minting-smart-contract/crypto"
)

type holderCapRequest struct {
	Limit uint64 `json:"limit"`
}

func (s *Server) handleSetHolderCap(w http.ResponseWriter, r *http.Request) {
	var req holderCapRequest
	if err := decodeBody(r, &req); err != nil {
		s.writeError(w, r, http.StatusBadRequest, fmt.Errorf("invalid request body: %w", err))
		return
	}
	if err := s.engine.SetHolderCap(req.Limit); err != nil {
		s.writeEngineError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "updated"})
}

type mintBoundsRequest struct {
	Min string `json:"min"`
	Max string `json:"max"`
}

func (s *Server) handleSetMintBounds(w http.ResponseWriter, r *http.Request) {
	var req mintBoundsRequest
	if err := decodeBody(r, &req); err != nil {
		s.writeError(w, r, http.StatusBadRequest, fmt.Errorf("invalid request body: %w", err))
		return
	}
	min, err := parseAmount("min", req.Min)
	if err != nil {
		s.writeError(w, r, http.StatusBadRequest, err)
		return
	}
	max, err := parseAmount("max", req.Max)
	if err != nil {
		s.writeError(w, r, http.StatusBadRequest, err)
		return
	}
	if err := s.engine.SetMintBounds(min, max); err != nil {
		s.writeEngineError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "updated"})
}

type addressRequest struct {
	Address string `json:"address"`
}

func (s *Server) handleSetSigner(w http.ResponseWriter, r *http.Request) {
	s.handleAddressUpdate(w, r, s.engine.SetSigner)
}

func (s *Server) handleSetPaymentPool(w http.ResponseWriter, r *http.Request) {
	s.handleAddressUpdate(w, r, s.engine.SetPaymentPool)
}

func (s *Server) handleAddressUpdate(w http.ResponseWriter, r *http.Request, apply func(crypto.Address) error) {
	var req addressRequest
	if err := decodeBody(r, &req); err != nil {
		s.writeError(w, r, http.StatusBadRequest, fmt.Errorf("invalid request body: %w", err))
		return
	}
	address, err := crypto.DecodeAddress(req.Address)
	if err != nil {
		s.writeError(w, r, http.StatusBadRequest, fmt.Errorf("address: %w", err))
		return
	}
	if err := apply(address); err != nil {
		s.writeEngineError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "updated"})
}

type proxiesRequest struct {
	Staking string `json:"staking"`
	Redeem  string `json:"redeem"`
}

// handleSetProxies updates either proxy address, or both. Empty fields are
// left untouched.
func (s *Server) handleSetProxies(w http.ResponseWriter, r *http.Request) {
	var req proxiesRequest
	if err := decodeBody(r, &req); err != nil {
		s.writeError(w, r, http.StatusBadRequest, fmt.Errorf("invalid request body: %w", err))
		return
	}
	if strings.TrimSpace(req.Staking) == "" && strings.TrimSpace(req.Redeem) == "" {
		s.writeError(w, r, http.StatusBadRequest, fmt.Errorf("staking or redeem address required"))
		return
	}
	if strings.TrimSpace(req.Staking) != "" {
		staking, err := crypto.DecodeAddress(req.Staking)
		if err != nil {
			s.writeError(w, r, http.StatusBadRequest, fmt.Errorf("staking: %w", err))
			return
		}
		if err := s.engine.SetStakingAddress(staking); err != nil {
			s.writeEngineError(w, r, err)
			return
		}
	}
	if strings.TrimSpace(req.Redeem) != "" {
		redeem, err := crypto.DecodeAddress(req.Redeem)
		if err != nil {
			s.writeError(w, r, http.StatusBadRequest, fmt.Errorf("redeem: %w", err))
			return
		}
		if err := s.engine.SetRedeemAddress(redeem); err != nil {
			s.writeEngineError(w, r, err)
			return
		}
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "updated"})
}

type allowlistRequest struct {
	Address string `json:"address"`
	Allowed bool   `json:"allowed"`
}

func (s *Server) handleSetAllowlisted(w http.ResponseWriter, r *http.Request) {
	var req allowlistRequest
	if err := decodeBody(r, &req); err != nil {
		s.writeError(w, r, http.StatusBadRequest, fmt.Errorf("invalid request body: %w", err))
		return
	}
	address, err := crypto.DecodeAddress(req.Address)
	if err != nil {
		s.writeError(w, r, http.StatusBadRequest, fmt.Errorf("address: %w", err))
		return
	}
	if err := s.engine.SetAllowlisted(address, req.Allowed); err != nil {
		s.writeEngineError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "updated"})
}

type flagRequest struct {
	Enabled bool `json:"enabled"`
}

func (s *Server) handleSetRestricted(w http.ResponseWriter, r *http.Request) {
	s.handleFlagUpdate(w, r, s.engine.SetTransferRestricted)
}

func (s *Server) handleSetPaused(w http.ResponseWriter, r *http.Request) {
	s.handleFlagUpdate(w, r, s.engine.SetPaused)
}

func (s *Server) handleFlagUpdate(w http.ResponseWriter, r *http.Request, apply func(bool) error) {
	var req flagRequest
	if err := decodeBody(r, &req); err != nil {
		s.writeError(w, r, http.StatusBadRequest, fmt.Errorf("invalid request body: %w", err))
		return
	}
	if err := apply(req.Enabled); err != nil {
		s.writeEngineError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "updated"})
}
