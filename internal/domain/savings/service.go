package savings

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/sacco-portal/sacco-api/internal/ledger"
)

// Service is the savings workflow layer. It validates before the store does:
// amounts must be positive magnitudes, members must exist. History is
// immutable; corrections are modeled as additional transactions.
type Service struct {
	store ledger.Store
}

// NewService creates a savings service
func NewService(store ledger.Store) *Service {
	return &Service{store: store}
}

// Deposit records a deposit transaction for the member.
func (s *Service) Deposit(ctx context.Context, memberID uuid.UUID, amount int64) (*ledger.SavingTransaction, error) {
	return s.record(ctx, memberID, amount, ledger.KindDeposit)
}

// Withdraw records a withdrawal transaction for the member.
//
// Note: the balance is not checked here, so withdrawals can drive a balance
// negative. Whether that should be rejected is an open product question; no
// policy is assumed.
func (s *Service) Withdraw(ctx context.Context, memberID uuid.UUID, amount int64) (*ledger.SavingTransaction, error) {
	return s.record(ctx, memberID, amount, ledger.KindWithdrawal)
}

func (s *Service) record(ctx context.Context, memberID uuid.UUID, amount int64, kind ledger.TransactionKind) (*ledger.SavingTransaction, error) {
	if amount <= 0 {
		return nil, ErrInvalidAmount
	}
	if _, err := s.store.GetMember(ctx, memberID); err != nil {
		if errors.Is(err, ledger.ErrNotFound) {
			return nil, ErrMemberNotFound
		}
		return nil, err
	}

	txn, err := s.store.RecordSavingTransaction(ctx, ledger.SavingTransaction{
		MemberID: memberID,
		Amount:   amount,
		Kind:     kind,
	})
	if err != nil {
		return nil, err
	}
	log.Info().Str("member_id", memberID.String()).Int64("amount", amount).Str("kind", string(kind)).Msg("saving transaction recorded")
	return txn, nil
}

// List returns the member's transaction history, newest first.
func (s *Service) List(ctx context.Context, memberID uuid.UUID) ([]ledger.SavingTransaction, error) {
	return s.store.ListSavingsForMember(ctx, memberID)
}

// ListProfits returns the member's profit entries, newest first.
func (s *Service) ListProfits(ctx context.Context, memberID uuid.UUID) ([]ledger.ProfitEntry, error) {
	return s.store.ListProfitsForMember(ctx, memberID)
}

// AdminAdjust records a correcting transaction on behalf of an admin and
// appends an audit entry. The audit append is best-effort: a failure is
// logged as a warning but never rolls back the recorded transaction.
func (s *Service) AdminAdjust(ctx context.Context, adminID, memberID uuid.UUID, amount int64, kind ledger.TransactionKind, note string) (*ledger.SavingTransaction, error) {
	admin, err := s.store.GetAdmin(ctx, adminID)
	if err != nil {
		return nil, err
	}

	txn, err := s.record(ctx, memberID, amount, kind)
	if err != nil {
		return nil, err
	}

	action := fmt.Sprintf("Adjusted savings: %s of %d", kind, amount)
	if note != "" {
		action += " (" + note + ")"
	}
	if _, err := s.store.AppendAuditLog(ctx, ledger.AuditLogEntry{
		AdminID:   admin.ID,
		AdminName: admin.DisplayName,
		Action:    action,
		Details: map[string]any{
			"memberId":      memberID.String(),
			"transactionId": txn.ID.String(),
			"kind":          string(kind),
			"amount":        amount,
		},
	}); err != nil {
		log.Warn().Err(err).Str("transaction_id", txn.ID.String()).Msg("audit append failed for savings adjustment")
	}

	return txn, nil
}
