package dashboard

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/sacco-portal/sacco-api/internal/middleware"
	"github.com/sacco-portal/sacco-api/internal/pkg/response"
)

// Handler handles dashboard HTTP requests
type Handler struct {
	svc *Service
}

// NewHandler creates a dashboard handler
func NewHandler(svc *Service) *Handler {
	return &Handler{svc: svc}
}

// MemberStats handles GET /dashboard/me?timeframe=week|month|year|all
func (h *Handler) MemberStats(w http.ResponseWriter, r *http.Request) {
	memberID := middleware.GetSubjectID(r.Context())
	if memberID == uuid.Nil {
		response.Unauthorized(w, "unauthorized")
		return
	}

	stats, err := h.svc.MemberStats(r.Context(), memberID, Timeframe(r.URL.Query().Get("timeframe")))
	if err != nil {
		h.writeError(w, err)
		return
	}
	response.OK(w, stats)
}

// SystemStats handles GET /dashboard/system?timeframe=... (admin).
func (h *Handler) SystemStats(w http.ResponseWriter, r *http.Request) {
	stats, err := h.svc.SystemStats(r.Context(), Timeframe(r.URL.Query().Get("timeframe")))
	if err != nil {
		h.writeError(w, err)
		return
	}
	response.OK(w, stats)
}

func (h *Handler) writeError(w http.ResponseWriter, err error) {
	if errors.Is(err, ErrUnknownTimeframe) {
		response.BadRequest(w, "timeframe must be week, month, year, or all")
		return
	}
	response.InternalError(w)
}

// Routes returns dashboard routes
func (h *Handler) Routes(authMiddleware func(http.Handler) http.Handler) chi.Router {
	r := chi.NewRouter()
	r.Use(authMiddleware)
	r.With(middleware.RequireMember()).Get("/me", h.MemberStats)
	r.With(middleware.RequireAdmin()).Get("/system", h.SystemStats)
	return r
}
