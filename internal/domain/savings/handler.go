package savings

import (
	"context"
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

// Handler handles savings HTTP requests
type Handler struct {
	svc *Service
}

// NewHandler creates a savings handler
func NewHandler(svc *Service) *Handler {
	return &Handler{svc: svc}
}

// Deposit handles POST /savings/deposit
func (h *Handler) Deposit(w http.ResponseWriter, r *http.Request) {
	h.handleTransaction(w, r, h.svc.Deposit)
}

// Withdraw handles POST /savings/withdraw
func (h *Handler) Withdraw(w http.ResponseWriter, r *http.Request) {
	h.handleTransaction(w, r, h.svc.Withdraw)
}

func (h *Handler) handleTransaction(w http.ResponseWriter, r *http.Request, fn func(ctx context.Context, memberID uuid.UUID, amount int64) (*ledger.SavingTransaction, error)) {
	memberID := middleware.GetSubjectID(r.Context())
	if memberID == uuid.Nil {
		response.Unauthorized(w, "unauthorized")
		return
	}

	var req TransactionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "invalid JSON body")
		return
	}
	if fieldErrors := validator.Validate(req); fieldErrors != nil {
		response.ValidationError(w, fieldErrors)
		return
	}

	txn, err := fn(r.Context(), memberID, req.Amount)
	if err != nil {
		h.writeError(w, err)
		return
	}
	response.Created(w, txn)
}

// List handles GET /savings, the caller's own history.
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	memberID := middleware.GetSubjectID(r.Context())
	if memberID == uuid.Nil {
		response.Unauthorized(w, "unauthorized")
		return
	}

	txns, err := h.svc.List(r.Context(), memberID)
	if err != nil {
		response.InternalError(w)
		return
	}
	response.OK(w, txns)
}

// ListProfits handles GET /profits, the caller's own profit entries.
func (h *Handler) ListProfits(w http.ResponseWriter, r *http.Request) {
	memberID := middleware.GetSubjectID(r.Context())
	if memberID == uuid.Nil {
		response.Unauthorized(w, "unauthorized")
		return
	}

	entries, err := h.svc.ListProfits(r.Context(), memberID)
	if err != nil {
		response.InternalError(w)
		return
	}
	response.OK(w, entries)
}

// Adjust handles POST /savings/adjustments (admin).
func (h *Handler) Adjust(w http.ResponseWriter, r *http.Request) {
	adminID := middleware.GetSubjectID(r.Context())
	if adminID == uuid.Nil {
		response.Unauthorized(w, "unauthorized")
		return
	}

	var req AdjustmentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "invalid JSON body")
		return
	}
	if fieldErrors := validator.Validate(req); fieldErrors != nil {
		response.ValidationError(w, fieldErrors)
		return
	}

	memberID, err := uuid.Parse(req.MemberID)
	if err != nil {
		response.BadRequest(w, "invalid member_id")
		return
	}

	txn, err := h.svc.AdminAdjust(r.Context(), adminID, memberID, req.Amount, ledger.TransactionKind(req.Kind), req.Note)
	if err != nil {
		h.writeError(w, err)
		return
	}
	response.Created(w, txn)
}

// ListForMember handles GET /savings/members/{id} (admin).
func (h *Handler) ListForMember(w http.ResponseWriter, r *http.Request) {
	memberID, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		response.BadRequest(w, "invalid member id")
		return
	}

	txns, err := h.svc.List(r.Context(), memberID)
	if err != nil {
		response.InternalError(w)
		return
	}
	response.OK(w, txns)
}

func (h *Handler) writeError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, ErrInvalidAmount):
		response.BadRequest(w, "amount must be greater than zero")
	case errors.Is(err, ErrMemberNotFound), errors.Is(err, ledger.ErrNotFound):
		response.NotFound(w, "member not found")
	default:
		response.InternalError(w)
	}
}

// Routes returns savings routes. Member endpoints operate on the caller's
// own history; adjustment and per-member listing are admin-only.
func (h *Handler) Routes(authMiddleware func(http.Handler) http.Handler) chi.Router {
	r := chi.NewRouter()
	r.Use(authMiddleware)
	r.With(middleware.RequireMember()).Post("/deposit", h.Deposit)
	r.With(middleware.RequireMember()).Post("/withdraw", h.Withdraw)
	r.With(middleware.RequireMember()).Get("/", h.List)
	r.With(middleware.RequireAdmin()).Post("/adjustments", h.Adjust)
	r.With(middleware.RequireAdmin()).Get("/members/{id}", h.ListForMember)
	return r
}

// ProfitRoutes returns member-facing profit routes
func (h *Handler) ProfitRoutes(authMiddleware func(http.Handler) http.Handler) chi.Router {
	r := chi.NewRouter()
	r.Use(authMiddleware)
	r.Use(middleware.RequireMember())
	r.Get("/", h.ListProfits)
	return r
}
