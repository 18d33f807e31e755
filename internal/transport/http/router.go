// Package http wires the services onto the REST surface. Handlers decode and
// validate transport shapes, delegate to services, and translate coded errors
// into JSON responses; no business rules live here.
package http

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"libnet/internal/audit"
	circservice "libnet/internal/circulation/service"
	invservice "libnet/internal/inventory/service"
	"libnet/internal/platform/middleware"
	"libnet/internal/readers"
	"libnet/internal/staff"
	"libnet/pkg/domain"
	"libnet/pkg/platform/httputil"
)

// Handler bundles the services behind the REST surface.
type Handler struct {
	inventory   *invservice.Service
	readers     *readers.Service
	circulation *circservice.Service
	staff       *staff.Service
	audit       *audit.Service
	tokens      TokenService
	logger      *slog.Logger
}

// TokenService mints and validates actor tokens. jwttoken.Service satisfies
// it.
type TokenService interface {
	ValidateToken(tokenString string) (domain.Actor, error)
	GenerateActorToken(actor domain.Actor, expiresIn time.Duration) (string, error)
}

func NewHandler(
	inventory *invservice.Service,
	readerSvc *readers.Service,
	circulation *circservice.Service,
	staffSvc *staff.Service,
	auditSvc *audit.Service,
	tokens TokenService,
	logger *slog.Logger,
) *Handler {
	return &Handler{
		inventory:   inventory,
		readers:     readerSvc,
		circulation: circulation,
		staff:       staffSvc,
		audit:       auditSvc,
		tokens:      tokens,
		logger:      logger,
	}
}

// Routes assembles the router. Catalog search and library listing are public;
// everything that mutates or exposes reader data sits behind the actor token.
func (h *Handler) Routes(registry *prometheus.Registry) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RequestTime)
	r.Use(middleware.Logger(h.logger))
	r.Use(middleware.Recovery(h.logger))
	r.Use(middleware.ContentTypeJSON)

	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		httputil.WriteJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})
	if registry != nil {
		r.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(registry, promhttp.HandlerOpts{}))
	}

	r.Post("/auth/login", h.login)
	r.Get("/search", h.searchTitles)
	r.Get("/libraries", h.listLibraries)

	r.Group(func(r chi.Router) {
		r.Use(middleware.RequireActor(h.tokens, h.logger))

		r.Post("/libraries", h.createLibrary)
		r.Get("/libraries/{libraryID}", h.getLibrary)

		r.Post("/titles", h.createTitle)
		r.Get("/titles", h.listTitles)

		r.Post("/libraries/{libraryID}/copies", h.addCopy)
		r.Get("/libraries/{libraryID}/copies", h.listCopies)
		r.Get("/libraries/{libraryID}/copies/available", h.listAvailableCopies)

		r.Post("/libraries/{libraryID}/readers", h.registerReader)
		r.Get("/libraries/{libraryID}/readers", h.listReaders)
		r.Get("/readers/{readerID}", h.getReader)
		r.Post("/readers/{readerID}/deactivate", h.deactivateReader)
		r.Get("/readers/{readerID}/loans", h.listReaderLoans)

		r.Post("/checkout", h.checkout)
		r.Post("/loans/{loanID}/return", h.returnLoan)
		r.Get("/libraries/{libraryID}/loans", h.listOpenLoans)

		r.Post("/staff", h.registerStaff)
		r.Get("/admin/audit", h.listAudit)
	})

	return r
}
