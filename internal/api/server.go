// Package api provides the HTTP server terminals talk to. It is a thin
// adapter: handlers decode plain input values (phone number, entity id,
// amount), call the application services, and render the outcome. Business
// failures travel inside the record payload, not as HTTP errors.
package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/pulso-app/pulso/internal/app/catalog"
	"github.com/pulso-app/pulso/internal/app/directory"
	"github.com/pulso-app/pulso/internal/app/ledger"
	"github.com/pulso-app/pulso/internal/domain"
)

// Server is the pulso HTTP API server.
type Server struct {
	engine         *ledger.Engine
	history        *ledger.History
	users          *directory.Service
	catalog        *catalog.Service
	metricsEnabled bool
}

// NewServer creates a new API server.
func NewServer(engine *ledger.Engine, history *ledger.History, users *directory.Service, cat *catalog.Service) *Server {
	return &Server{engine: engine, history: history, users: users, catalog: cat}
}

// EnableMetrics enables the /metrics Prometheus endpoint.
func (s *Server) EnableMetrics() { s.metricsEnabled = true }

// Handler returns the chi router with all routes mounted.
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()

	// Middleware
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(60 * time.Second))

	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})

	r.Route("/api", func(r chi.Router) {
		// Ledger operations (terminal hot path)
		r.Post("/ledger/recharge", s.handleRecharge)
		r.Post("/ledger/debit", s.handleDebit)
		r.Post("/ledger/donate", s.handleDonate)

		// History
		r.Get("/transactions", s.handleTransactions)

		// User administration
		r.Route("/users", func(r chi.Router) {
			r.Get("/", s.handleListUsers)
			r.Post("/", s.handleCreateUser)
			r.Post("/bulk", s.handleCreateUsersBulk)
			r.Get("/find", s.handleFindUser)
			r.Get("/{id}", s.handleGetUser)
			r.Patch("/{id}", s.handleUpdateUser)
			r.Delete("/{id}", s.handleDeleteUser)
			r.Post("/{id}/contacts/{contactID}", s.handleAddContact)
			r.Delete("/{id}/contacts/{contactID}", s.handleRemoveContact)
		})

		// Catalog administration
		r.Route("/catalog", func(r chi.Router) {
			r.Get("/experiences", s.handleListExperiences)
			r.Post("/experiences", s.handleCreateExperience)
			r.Patch("/experiences/{id}", s.handleUpdateExperience)
			r.Delete("/experiences/{id}", s.handleDeleteExperience)

			r.Get("/products", s.handleListProducts)
			r.Post("/products", s.handleCreateProduct)
			r.Patch("/products/{id}", s.handleUpdateProduct)
			r.Delete("/products/{id}", s.handleDeleteProduct)

			r.Get("/gallery", s.handleListGalleryWorks)
			r.Post("/gallery", s.handleCreateGalleryWork)
			r.Get("/gallery/{id}", s.handleGetGalleryWork)
			r.Patch("/gallery/{id}", s.handleUpdateGalleryWork)
			r.Delete("/gallery/{id}", s.handleDeleteGalleryWork)
			r.Post("/gallery/{id}/donations", s.handleAddDonationTotal)
		})
	})

	if s.metricsEnabled {
		r.Get("/metrics", promhttp.Handler().ServeHTTP)
	}

	return r
}

// ─── Helpers ────────────────────────────────────────────────────────────────

// writeJSON writes a JSON response.
func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

// writeError writes a JSON error response.
func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]interface{}{
		"error": msg,
	})
}

// writeServiceError maps service errors onto HTTP statuses: not-found →
// 404, invalid input → 400, anything else → 500.
func writeServiceError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, domain.ErrNotFound):
		writeError(w, http.StatusNotFound, err.Error())
	case errors.Is(err, domain.ErrInvalidInput):
		writeError(w, http.StatusBadRequest, err.Error())
	default:
		writeError(w, http.StatusInternalServerError, err.Error())
	}
}

func decodeBody(w http.ResponseWriter, r *http.Request, v interface{}) bool {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body: "+err.Error())
		return false
	}
	return true
}
