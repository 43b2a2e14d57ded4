package rpc

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/dpmc-io/nft-minting-smart-contract/native/cert"
	"github.com/dpmc-io/nft-minting-smart-contract/observability"
)

// Server exposes the certificate engine over HTTP.
type Server struct {
	engine   *cert.Engine
	logger   *slog.Logger
	metrics  *observability.ServiceMetrics
	adminKey string
	limiter  *rateLimiter
}

// Options configures the optional server collaborators.
type Options struct {
	Logger *slog.Logger
	// AdminAPIKey guards the /v1/admin routes. Empty disables them.
	AdminAPIKey string
	// RatePerMinute and RateBurst bound per-client request rates. A zero
	// rate disables limiting.
	RatePerMinute float64
	RateBurst     int
	Metrics       *observability.ServiceMetrics
}

func NewServer(engine *cert.Engine, opts Options) *Server {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	var limiter *rateLimiter
	if opts.RatePerMinute > 0 {
		limiter = newRateLimiter(opts.RatePerMinute, opts.RateBurst)
	}
	return &Server{
		engine:   engine,
		logger:   logger,
		metrics:  opts.Metrics,
		adminKey: opts.AdminAPIKey,
		limiter:  limiter,
	}
}

// Router assembles the HTTP surface.
func (s *Server) Router() http.Handler {
	r := chi.NewRouter()
	r.Use(s.requestID)
	r.Use(s.observe)
	if s.limiter != nil {
		r.Use(s.limiter.middleware)
	}

	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})
	r.Handle("/metrics", promhttp.Handler())

	r.Route("/v1", func(v chi.Router) {
		v.Get("/state", s.handleState)
		v.Post("/mint", s.handleMint)
		v.Post("/transfer", s.handleTransfer)
		v.Post("/transfer/executed", s.handleTransferExecutedBy)
		v.Get("/certificates/{id}", s.handleCertificate)
		v.Get("/certificates/{id}/metadata", s.handleMetadata)

		v.Route("/admin", func(a chi.Router) {
			a.Use(s.requireAdmin)
			a.Post("/cap", s.handleSetHolderCap)
			a.Post("/bounds", s.handleSetMintBounds)
			a.Post("/signer", s.handleSetSigner)
			a.Post("/pool", s.handleSetPaymentPool)
			a.Post("/proxies", s.handleSetProxies)
			a.Post("/allowlist", s.handleSetAllowlisted)
			a.Post("/restricted", s.handleSetRestricted)
			a.Post("/pause", s.handleSetPaused)
		})
	})
	return r
}

type errorResponse struct {
	Error string `json:"error"`
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

func (s *Server) writeError(w http.ResponseWriter, r *http.Request, status int, err error) {
	if s.metrics != nil {
		s.metrics.ObserveError(routePattern(r), http.StatusText(status))
	}
	s.logger.Warn("request failed",
		slog.String("path", r.URL.Path),
		slog.Int("status", status),
		slog.Any("error", err),
	)
	writeJSON(w, status, errorResponse{Error: err.Error()})
}

func decodeBody(r *http.Request, into any) error {
	decoder := json.NewDecoder(http.MaxBytesReader(nil, r.Body, 1<<20))
	decoder.DisallowUnknownFields()
	return decoder.Decode(into)
}

func routePattern(r *http.Request) string {
	if ctx := chi.RouteContext(r.Context()); ctx != nil {
		if pattern := ctx.RoutePattern(); pattern != "" {
			return pattern
		}
	}
	return r.URL.Path
}
