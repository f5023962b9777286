package member

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/sacco-portal/sacco-api/internal/ledger"
	"github.com/sacco-portal/sacco-api/internal/middleware"
	"github.com/sacco-portal/sacco-api/internal/pkg/response"
	"github.com/sacco-portal/sacco-api/internal/pkg/validator"
)

// Handler handles member HTTP requests
type Handler struct {
	svc *Service
}

// NewHandler creates a member handler
func NewHandler(svc *Service) *Handler {
	return &Handler{svc: svc}
}

// Me handles GET /me, the caller's own profile.
func (h *Handler) Me(w http.ResponseWriter, r *http.Request) {
	memberID := middleware.GetSubjectID(r.Context())
	if memberID == uuid.Nil {
		response.Unauthorized(w, "unauthorized")
		return
	}

	m, err := h.svc.Get(r.Context(), memberID)
	if err != nil {
		h.writeError(w, err)
		return
	}
	response.OK(w, m)
}

// UpdateMe handles PATCH /me, letting the caller update their own profile.
func (h *Handler) UpdateMe(w http.ResponseWriter, r *http.Request) {
	memberID := middleware.GetSubjectID(r.Context())
	if memberID == uuid.Nil {
		response.Unauthorized(w, "unauthorized")
		return
	}
	h.applyUpdate(w, r, memberID)
}

// List handles GET /members (admin).
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	members, err := h.svc.List(r.Context())
	if err != nil {
		response.InternalError(w)
		return
	}
	response.OK(w, members)
}

// Get handles GET /members/{id} (admin).
func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		response.BadRequest(w, "invalid member id")
		return
	}

	m, err := h.svc.Get(r.Context(), id)
	if err != nil {
		h.writeError(w, err)
		return
	}
	response.OK(w, m)
}

// Create handles POST /members (admin).
func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	var req CreateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "invalid JSON body")
		return
	}
	if fieldErrors := validator.Validate(req); fieldErrors != nil {
		response.ValidationError(w, fieldErrors)
		return
	}

	m, err := h.svc.Create(r.Context(), req.Username, req.DisplayName, req.PhotoURL)
	if err != nil {
		h.writeError(w, err)
		return
	}
	response.Created(w, m)
}

// Update handles PATCH /members/{id} (admin).
func (h *Handler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		response.BadRequest(w, "invalid member id")
		return
	}
	h.applyUpdate(w, r, id)
}

func (h *Handler) applyUpdate(w http.ResponseWriter, r *http.Request, id uuid.UUID) {
	var req UpdateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "invalid JSON body")
		return
	}
	if fieldErrors := validator.Validate(req); fieldErrors != nil {
		response.ValidationError(w, fieldErrors)
		return
	}

	m, err := h.svc.Update(r.Context(), id, ledger.MemberUpdate{
		Username:    req.Username,
		DisplayName: req.DisplayName,
		PhotoURL:    req.PhotoURL,
	})
	if err != nil {
		h.writeError(w, err)
		return
	}
	response.OK(w, m)
}

// Delete handles DELETE /members/{id} (admin).
func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	adminID := middleware.GetSubjectID(r.Context())
	if adminID == uuid.Nil {
		response.Unauthorized(w, "unauthorized")
		return
	}

	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		response.BadRequest(w, "invalid member id")
		return
	}

	if err := h.svc.Delete(r.Context(), adminID, id); err != nil {
		h.writeError(w, err)
		return
	}
	response.NoContent(w)
}

func (h *Handler) writeError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, ErrMemberNotFound), errors.Is(err, ledger.ErrNotFound):
		response.NotFound(w, "member not found")
	case errors.Is(err, ErrMissingUsername):
		response.BadRequest(w, "username is required")
	case errors.Is(err, ErrNothingToUpdate):
		response.BadRequest(w, "no fields to update")
	case errors.Is(err, ledger.ErrDuplicateID):
		response.Conflict(w, "member id already exists")
	default:
		response.InternalError(w)
	}
}

// Routes returns member-facing profile routes mounted at /me
func (h *Handler) Routes(authMiddleware func(http.Handler) http.Handler) chi.Router {
	r := chi.NewRouter()
	r.Use(authMiddleware)
	r.Use(middleware.RequireMember())
	r.Get("/", h.Me)
	r.Patch("/", h.UpdateMe)
	return r
}

// AdminRoutes returns admin-facing member management routes
func (h *Handler) AdminRoutes(authMiddleware func(http.Handler) http.Handler) chi.Router {
	r := chi.NewRouter()
	r.Use(authMiddleware)
	r.Use(middleware.RequireAdmin())
	r.Get("/", h.List)
	r.Post("/", h.Create)
	r.Get("/{id}", h.Get)
	r.Patch("/{id}", h.Update)
	r.Delete("/{id}", h.Delete)
	return r
}
