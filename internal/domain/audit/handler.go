package audit

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/sacco-portal/sacco-api/internal/middleware"
	"github.com/sacco-portal/sacco-api/internal/pkg/response"
	"github.com/sacco-portal/sacco-api/internal/pkg/validator"
)

// RecordRequest is the body for an ad-hoc audit note.
type RecordRequest struct {
	Action  string         `json:"action" validate:"required,max=500"`
	Details map[string]any `json:"details"`
}

// Handler handles audit log HTTP requests
type Handler struct {
	svc *Service
}

// NewHandler creates an audit handler
func NewHandler(svc *Service) *Handler {
	return &Handler{svc: svc}
}

// List handles GET /audit
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	entries, err := h.svc.List(r.Context())
	if err != nil {
		response.InternalError(w)
		return
	}
	response.OK(w, entries)
}

// Record handles POST /audit. It takes an ad-hoc note from an admin for actions
// taken outside the portal (e.g. a cash correction done at the branch).
func (h *Handler) Record(w http.ResponseWriter, r *http.Request) {
	adminID := middleware.GetSubjectID(r.Context())
	if adminID == uuid.Nil {
		response.Unauthorized(w, "unauthorized")
		return
	}

	var req RecordRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "invalid JSON body")
		return
	}
	if fieldErrors := validator.Validate(req); fieldErrors != nil {
		response.ValidationError(w, fieldErrors)
		return
	}

	entry, err := h.svc.Record(r.Context(), adminID, req.Action, req.Details)
	if err != nil {
		response.InternalError(w)
		return
	}
	response.Created(w, entry)
}

// Routes returns audit log routes
func (h *Handler) Routes(authMiddleware func(http.Handler) http.Handler) chi.Router {
	r := chi.NewRouter()
	r.Use(authMiddleware)
	r.Use(middleware.RequireAdmin())
	r.Get("/", h.List)
	r.Post("/", h.Record)
	return r
}
