package loan

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/sacco-portal/sacco-api/internal/ledger"
)

// Service drives the loan request lifecycle: submit -> pending ->
// approved/rejected. Reviews from any state to any state are accepted,
// including re-reviewing an already-decided loan. That mirrors the
// portal's established behaviour; tightening it is a policy decision for
// the product owner, not this layer.
type Service struct {
	store ledger.Store
}

// NewService creates a loan service
func NewService(store ledger.Store) *Service {
	return &Service{store: store}
}

// Submit files a new loan request for the member. The request starts
// pending with no review timestamp.
func (s *Service) Submit(ctx context.Context, memberID uuid.UUID, amount int64, reason string) (*ledger.LoanRequest, error) {
	if amount <= 0 {
		return nil, ErrInvalidAmount
	}
	if strings.TrimSpace(reason) == "" {
		return nil, ErrEmptyReason
	}

	loan, err := s.store.CreateLoanRequest(ctx, memberID, amount, reason)
	if err != nil {
		if errors.Is(err, ledger.ErrNotFound) {
			return nil, ErrMemberNotFound
		}
		return nil, err
	}
	log.Info().Str("loan_id", loan.ID.String()).Str("member_id", memberID.String()).Int64("amount", amount).Msg("loan request submitted")
	return loan, nil
}

// Review records an admin decision on a loan. The store pairs the status
// change with exactly one audit entry as a single unit of work.
func (s *Service) Review(ctx context.Context, loanID uuid.UUID, decision string, adminID uuid.UUID) (*ledger.LoanRequest, error) {
	if !ledger.IsValidLoanStatus(decision) {
		return nil, ErrInvalidStatus
	}

	loan, err := s.store.TransitionLoanStatus(ctx, loanID, ledger.LoanStatus(decision), adminID)
	if err != nil {
		if errors.Is(err, ledger.ErrNotFound) {
			return nil, ErrLoanNotFound
		}
		return nil, err
	}
	log.Info().Str("loan_id", loanID.String()).Str("status", decision).Str("admin_id", adminID.String()).Msg("loan reviewed")
	return loan, nil
}

// ListForMember returns the member's loan requests, newest first.
func (s *Service) ListForMember(ctx context.Context, memberID uuid.UUID) ([]ledger.LoanRequest, error) {
	return s.store.ListLoansForMember(ctx, memberID)
}

// ListAll returns every loan request, newest first.
func (s *Service) ListAll(ctx context.Context) ([]ledger.LoanRequest, error) {
	return s.store.ListAllLoans(ctx)
}
