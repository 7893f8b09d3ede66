package api

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/certiblock/verifier-node/internal/core/ports"
	"github.com/certiblock/verifier-node/internal/health"
	"github.com/certiblock/verifier-node/internal/log"
)

// Server exposes the verification pipeline over HTTP
type Server struct {
	orchestrator ports.VerificationOrchestrator
	health       *health.Status
}

// NewServer creates a new instance of Server
func NewServer(orchestrator ports.VerificationOrchestrator, health *health.Status) *Server {
	return &Server{
		orchestrator: orchestrator,
		health:       health,
	}
}

// Routes mounts all server routes on a chi router
func (s *Server) Routes(ctx context.Context) *chi.Mux {
	mux := chi.NewRouter()
	mux.Use(
		middleware.RequestID,
		log.ChiMiddleware(ctx),
		cors.AllowAll().Handler,
	)

	mux.Route("/v1/verify", func(r chi.Router) {
		r.Post("/code", s.startByCode)
		r.Post("/file", s.startByFile)
		r.Get("/{runID}", s.runStatus)
		r.Delete("/{runID}", s.cancelRun)
	})
	mux.Get("/status", s.status)

	return mux
}

func (s *Server) status(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.health.Status(r.Context()))
}
