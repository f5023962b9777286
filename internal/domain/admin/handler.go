package admin

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/sacco-portal/sacco-api/internal/middleware"
	"github.com/sacco-portal/sacco-api/internal/pkg/response"
)

// Handler handles admin roster HTTP requests
type Handler struct {
	svc *Service
}

// NewHandler creates an admin handler
func NewHandler(svc *Service) *Handler {
	return &Handler{svc: svc}
}

// List handles GET /admins
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	admins, err := h.svc.List(r.Context())
	if err != nil {
		response.InternalError(w)
		return
	}
	response.OK(w, admins)
}

// Get handles GET /admins/{id}
func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		response.BadRequest(w, "invalid admin id")
		return
	}

	a, err := h.svc.Get(r.Context(), id)
	if err != nil {
		if errors.Is(err, ErrAdminNotFound) {
			response.NotFound(w, "admin not found")
			return
		}
		response.InternalError(w)
		return
	}
	response.OK(w, a)
}

// Routes returns admin roster routes
func (h *Handler) Routes(authMiddleware func(http.Handler) http.Handler) chi.Router {
	r := chi.NewRouter()
	r.Use(authMiddleware)
	r.Use(middleware.RequireAdmin())
	r.Get("/", h.List)
	r.Get("/{id}", h.Get)
	return r
}
