package loan

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/sacco-portal/sacco-api/internal/middleware"
	"github.com/sacco-portal/sacco-api/internal/pkg/response"
	"github.com/sacco-portal/sacco-api/internal/pkg/validator"
)

// Handler handles loan HTTP requests
type Handler struct {
	svc *Service
}

// NewHandler creates a loan handler
func NewHandler(svc *Service) *Handler {
	return &Handler{svc: svc}
}

// Submit handles POST /loans
func (h *Handler) Submit(w http.ResponseWriter, r *http.Request) {
	memberID := middleware.GetSubjectID(r.Context())
	if memberID == uuid.Nil {
		response.Unauthorized(w, "unauthorized")
		return
	}

	var req SubmitRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "invalid JSON body")
		return
	}
	if fieldErrors := validator.Validate(req); fieldErrors != nil {
		response.ValidationError(w, fieldErrors)
		return
	}

	loan, err := h.svc.Submit(r.Context(), memberID, req.Amount, req.Reason)
	if err != nil {
		h.writeError(w, err)
		return
	}
	response.Created(w, loan)
}

// ListMine handles GET /loans, the caller's own requests.
func (h *Handler) ListMine(w http.ResponseWriter, r *http.Request) {
	memberID := middleware.GetSubjectID(r.Context())
	if memberID == uuid.Nil {
		response.Unauthorized(w, "unauthorized")
		return
	}

	loans, err := h.svc.ListForMember(r.Context(), memberID)
	if err != nil {
		response.InternalError(w)
		return
	}
	response.OK(w, loans)
}

// ListAll handles GET /loans/all (admin).
// Kept distinct from ListMine so a member can never widen their view by
// hitting the admin path.
func (h *Handler) ListAll(w http.ResponseWriter, r *http.Request) {
	loans, err := h.svc.ListAll(r.Context())
	if err != nil {
		response.InternalError(w)
		return
	}
	response.OK(w, loans)
}

// Review handles PATCH /loans/{id}/review (admin).
func (h *Handler) Review(w http.ResponseWriter, r *http.Request) {
	adminID := middleware.GetSubjectID(r.Context())
	if adminID == uuid.Nil {
		response.Unauthorized(w, "unauthorized")
		return
	}

	loanID, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		response.BadRequest(w, "invalid loan id")
		return
	}

	var req ReviewRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "invalid JSON body")
		return
	}
	if fieldErrors := validator.Validate(req); fieldErrors != nil {
		response.ValidationError(w, fieldErrors)
		return
	}

	loan, err := h.svc.Review(r.Context(), loanID, req.Status, adminID)
	if err != nil {
		h.writeError(w, err)
		return
	}
	response.OK(w, loan)
}

func (h *Handler) writeError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, ErrInvalidAmount):
		response.BadRequest(w, "amount must be greater than zero")
	case errors.Is(err, ErrEmptyReason):
		response.BadRequest(w, "reason is required")
	case errors.Is(err, ErrInvalidStatus):
		response.BadRequest(w, "status must be pending, approved, or rejected")
	case errors.Is(err, ErrLoanNotFound):
		response.NotFound(w, "loan not found")
	case errors.Is(err, ErrMemberNotFound):
		response.NotFound(w, "member not found")
	default:
		response.InternalError(w)
	}
}

// Routes returns loan routes. Submission and own-history listing are
// member-facing; the full queue and review are admin-only.
func (h *Handler) Routes(authMiddleware func(http.Handler) http.Handler) chi.Router {
	r := chi.NewRouter()
	r.Use(authMiddleware)
	r.With(middleware.RequireMember()).Post("/", h.Submit)
	r.With(middleware.RequireMember()).Get("/", h.ListMine)
	r.With(middleware.RequireAdmin()).Get("/all", h.ListAll)
	r.With(middleware.RequireAdmin()).Patch("/{id}/review", h.Review)
	return r
}
