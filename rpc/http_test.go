package rpc

import (
	"bytes"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"math/big"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/dpmc-io/nft-minting-smart-contract/core/state"
	"github.com/dpmc-io/nft-minting-smart-contract/crypto"
	"github.com/dpmc-io/nft-minting-smart-contract/native/cert"
	"github.com/dpmc-io/nft-minting-smart-contract/storage"
	"github.com/dpmc-io/nft-minting-smart-contract/token"
)

const testAdminKey = "test-admin-key"

type serverEnv struct {
	server  *Server
	handler http.Handler
	payment *token.Memory

	signerKey *crypto.PrivateKey
	self      crypto.Address
	payer     crypto.Address
	recipient crypto.Address
}

func newServerEnv(t *testing.T) *serverEnv {
	t.Helper()
	db := storage.NewMemDB()
	t.Cleanup(func() { db.Close() })

	signerKey, err := crypto.GeneratePrivateKey()
	require.NoError(t, err)

	env := &serverEnv{
		payment:   token.NewMemory("USDT", 2),
		signerKey: signerKey,
	}
	env.self[19] = 0x01
	env.payer[19] = 0x03
	env.recipient[19] = 0x04

	engine := cert.NewEngine(state.NewManager(db))
	engine.SetPaymentToken(env.payment)
	engine.SetLedger(token.NewLedger())
	engine.SetSelfAddress(env.self)
	engine.SetTokenInfo(cert.TokenInfo{Name: "DPMC Certificate", Symbol: "DPMC"})
	engine.SetNowFunc(func() int64 { return 1693485296 })
	require.NoError(t, engine.SetSigner(signerKey.PubKey().Address()))

	var pool crypto.Address
	pool[19] = 0x02
	require.NoError(t, engine.SetPaymentPool(pool))

	env.server = NewServer(engine, Options{AdminAPIKey: testAdminKey})
	env.handler = env.server.Router()
	return env
}

func (env *serverEnv) fund(t *testing.T, amount int64) {
	t.Helper()
	env.payment.Mint(env.payer, big.NewInt(amount))
	env.payment.Approve(env.payer, env.self, big.NewInt(amount))
}

func (env *serverEnv) voucher(t *testing.T, expiry int64) string {
	t.Helper()
	v := cert.Voucher{Recipient: env.recipient, Expiry: big.NewInt(expiry)}
	sig, err := env.signerKey.Sign(crypto.PrefixedDigest(v.Digest()))
	require.NoError(t, err)
	return "0x" + hex.EncodeToString(sig)
}

func (env *serverEnv) do(t *testing.T, method, path string, body any, headers map[string]string) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	rec := httptest.NewRecorder()
	env.handler.ServeHTTP(rec, req)
	return rec
}

func (env *serverEnv) mintRequest(t *testing.T, amount int64, expiry int64) *httptest.ResponseRecorder {
	t.Helper()
	return env.do(t, http.MethodPost, "/v1/mint", mintRequest{
		Payer:     env.payer.String(),
		Amount:    fmt.Sprintf("%d", amount),
		Recipient: env.recipient.String(),
		Expiry:    fmt.Sprintf("%d", expiry),
		Signature: env.voucher(t, expiry),
	}, nil)
}

func TestHealthz(t *testing.T) {
	env := newServerEnv(t)
	rec := env.do(t, http.MethodGet, "/healthz", nil, nil)
	require.Equal(t, http.StatusOK, rec.Code)
}

func TestMintEndpoint(t *testing.T) {
	env := newServerEnv(t)
	env.fund(t, 500)

	rec := env.mintRequest(t, 250, 1700000000)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var resp mintResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.Equal(t, uint64(1), resp.TokenID)

	view := env.do(t, http.MethodGet, "/v1/certificates/1", nil, nil)
	require.Equal(t, http.StatusOK, view.Code)
	var cr certificateResponse
	require.NoError(t, json.Unmarshal(view.Body.Bytes(), &cr))
	require.Equal(t, "250", cr.Value)
	require.Equal(t, uint64(1693485296), cr.IssuedAt)

	state := env.do(t, http.MethodGet, "/v1/state", nil, nil)
	require.Equal(t, http.StatusOK, state.Code)
	var sr stateResponse
	require.NoError(t, json.Unmarshal(state.Body.Bytes(), &sr))
	require.Equal(t, uint64(1), sr.TotalMinted)
}

func TestMintEndpointReplayConflict(t *testing.T) {
	env := newServerEnv(t)
	env.fund(t, 500)

	body := mintRequest{
		Payer:     env.payer.String(),
		Amount:    "100",
		Recipient: env.recipient.String(),
		Expiry:    "1700000000",
		Signature: env.voucher(t, 1700000000),
	}
	first := env.do(t, http.MethodPost, "/v1/mint", body, nil)
	require.Equal(t, http.StatusOK, first.Code, first.Body.String())

	second := env.do(t, http.MethodPost, "/v1/mint", body, nil)
	require.Equal(t, http.StatusConflict, second.Code)
}

func TestMintEndpointRejectsRogueSigner(t *testing.T) {
	env := newServerEnv(t)
	env.fund(t, 500)

	rogue, err := crypto.GeneratePrivateKey()
	require.NoError(t, err)
	v := cert.Voucher{Recipient: env.recipient, Expiry: big.NewInt(1700000000)}
	sig, err := rogue.Sign(crypto.PrefixedDigest(v.Digest()))
	require.NoError(t, err)

	rec := env.do(t, http.MethodPost, "/v1/mint", mintRequest{
		Payer:     env.payer.String(),
		Amount:    "100",
		Recipient: env.recipient.String(),
		Expiry:    "1700000000",
		Signature: "0x" + hex.EncodeToString(sig),
	}, nil)
	require.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestMintEndpointRejectsMalformedSignature(t *testing.T) {
	env := newServerEnv(t)
	env.fund(t, 500)

	rec := env.do(t, http.MethodPost, "/v1/mint", mintRequest{
		Payer:     env.payer.String(),
		Amount:    "100",
		Recipient: env.recipient.String(),
		Expiry:    "1700000000",
		Signature: "0xdeadbeef",
	}, nil)
	require.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestMintEndpointRejectsOversizedExpiry(t *testing.T) {
	env := newServerEnv(t)
	env.fund(t, 500)

	rec := env.do(t, http.MethodPost, "/v1/mint", mintRequest{
		Payer:     env.payer.String(),
		Amount:    "100",
		Recipient: env.recipient.String(),
		Expiry:    "1" + strings.Repeat("0", 78),
		Signature: "0x" + strings.Repeat("00", 65),
	}, nil)
	require.Equal(t, http.StatusBadRequest, rec.Code, rec.Body.String())
}

func TestMintEndpointUnfundedPayer(t *testing.T) {
	env := newServerEnv(t)
	rec := env.mintRequest(t, 100, 1700000000)
	require.Equal(t, http.StatusUnprocessableEntity, rec.Code)
}

func TestCertificateNotFound(t *testing.T) {
	env := newServerEnv(t)
	rec := env.do(t, http.MethodGet, "/v1/certificates/42", nil, nil)
	require.Equal(t, http.StatusNotFound, rec.Code)

	meta := env.do(t, http.MethodGet, "/v1/certificates/42/metadata", nil, nil)
	require.Equal(t, http.StatusNotFound, meta.Code)
}

func TestMetadataEndpoint(t *testing.T) {
	env := newServerEnv(t)
	env.fund(t, 500)
	rec := env.mintRequest(t, 123, 1700000000)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	meta := env.do(t, http.MethodGet, "/v1/certificates/1/metadata", nil, nil)
	require.Equal(t, http.StatusOK, meta.Code)
	var resp map[string]string
	require.NoError(t, json.Unmarshal(meta.Body.Bytes(), &resp))
	require.Contains(t, resp["uri"], "data:application/json;base64,")
}

func TestTransferEndpoint(t *testing.T) {
	env := newServerEnv(t)
	env.fund(t, 500)
	rec := env.mintRequest(t, 100, 1700000000)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var dest crypto.Address
	dest[19] = 0x09
	moved := env.do(t, http.MethodPost, "/v1/transfer", transferRequest{
		Caller:      env.recipient.String(),
		Destination: dest.String(),
		TokenID:     1,
	}, nil)
	require.Equal(t, http.StatusOK, moved.Code, moved.Body.String())

	again := env.do(t, http.MethodPost, "/v1/transfer", transferRequest{
		Caller:      env.recipient.String(),
		Destination: dest.String(),
		TokenID:     1,
	}, nil)
	require.Equal(t, http.StatusForbidden, again.Code)
}

func TestAdminAuth(t *testing.T) {
	env := newServerEnv(t)
	body := holderCapRequest{Limit: 5}

	missing := env.do(t, http.MethodPost, "/v1/admin/cap", body, nil)
	require.Equal(t, http.StatusUnauthorized, missing.Code)

	wrong := env.do(t, http.MethodPost, "/v1/admin/cap", body, map[string]string{HeaderAPIKey: "nope"})
	require.Equal(t, http.StatusUnauthorized, wrong.Code)

	ok := env.do(t, http.MethodPost, "/v1/admin/cap", body, map[string]string{HeaderAPIKey: testAdminKey})
	require.Equal(t, http.StatusOK, ok.Code, ok.Body.String())
}

func TestAdminDisabledWithoutKey(t *testing.T) {
	env := newServerEnv(t)
	env.server.adminKey = ""
	rec := env.do(t, http.MethodPost, "/v1/admin/pause", flagRequest{Enabled: true}, map[string]string{HeaderAPIKey: "anything"})
	require.Equal(t, http.StatusForbidden, rec.Code)
}

func TestAdminMintBoundsValidation(t *testing.T) {
	env := newServerEnv(t)
	auth := map[string]string{HeaderAPIKey: testAdminKey}

	rec := env.do(t, http.MethodPost, "/v1/admin/bounds", mintBoundsRequest{Min: "200", Max: "100"}, auth)
	require.Equal(t, http.StatusBadRequest, rec.Code)

	rec = env.do(t, http.MethodPost, "/v1/admin/bounds", mintBoundsRequest{Min: "200", Max: "0"}, auth)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
}

func TestAdminPauseBlocksMint(t *testing.T) {
	env := newServerEnv(t)
	env.fund(t, 500)
	auth := map[string]string{HeaderAPIKey: testAdminKey}

	rec := env.do(t, http.MethodPost, "/v1/admin/pause", flagRequest{Enabled: true}, auth)
	require.Equal(t, http.StatusOK, rec.Code)

	mint := env.mintRequest(t, 100, 1700000000)
	require.Equal(t, http.StatusServiceUnavailable, mint.Code)
}

func TestRateLimiting(t *testing.T) {
	env := newServerEnv(t)
	env.server.limiter = newRateLimiter(60, 2)
	env.handler = env.server.Router()

	first := env.do(t, http.MethodGet, "/healthz", nil, nil)
	require.Equal(t, http.StatusOK, first.Code)
	second := env.do(t, http.MethodGet, "/healthz", nil, nil)
	require.Equal(t, http.StatusOK, second.Code)
	third := env.do(t, http.MethodGet, "/healthz", nil, nil)
	require.Equal(t, http.StatusTooManyRequests, third.Code)
}
