package ledger

import (
	"context"

	"github.com/google/uuid"
)

// Store is the authoritative owner of all portal collections. It is always
// passed explicitly to the components that need it, never reached through
// package-level state.
//
// Reads on unknown ids return ErrNotFound; list operations on unknown ids
// return empty slices. All mutating admin flows that must pair a write with
// an audit entry go through a single Store method so the pairing is one
// logical operation (TransitionLoanStatus).
type Store interface {
	// Members
	ListMembers(ctx context.Context) ([]Member, error)
	GetMember(ctx context.Context, id uuid.UUID) (*Member, error)
	// CreateMember fails with ErrDuplicateID if the id is already taken.
	// A zero id is assigned by the store.
	CreateMember(ctx context.Context, m Member) (*Member, error)
	UpdateMember(ctx context.Context, id uuid.UUID, upd MemberUpdate) (*Member, error)
	// DeleteMember cascades: all saving transactions, profit entries and
	// loan requests owned by the member are removed. Audit entries persist.
	DeleteMember(ctx context.Context, id uuid.UUID) error

	// Admins (seeded, read-only)
	ListAdmins(ctx context.Context) ([]Admin, error)
	GetAdmin(ctx context.Context, id uuid.UUID) (*Admin, error)

	// Savings: history is immutable, adjustments are additional rows.
	ListSavingsForMember(ctx context.Context, memberID uuid.UUID) ([]SavingTransaction, error)
	RecordSavingTransaction(ctx context.Context, txn SavingTransaction) (*SavingTransaction, error)

	// Profits
	ListProfitsForMember(ctx context.Context, memberID uuid.UUID) ([]ProfitEntry, error)
	RecordProfitEntry(ctx context.Context, entry ProfitEntry) (*ProfitEntry, error)

	// Loans
	ListLoansForMember(ctx context.Context, memberID uuid.UUID) ([]LoanRequest, error)
	ListAllLoans(ctx context.Context) ([]LoanRequest, error)
	CreateLoanRequest(ctx context.Context, memberID uuid.UUID, amount int64, reason string) (*LoanRequest, error)
	// TransitionLoanStatus sets status and reviewedAt unconditionally (a
	// redundant transition, e.g. approved->approved, is permitted) and
	// appends exactly one audit entry attributed to actingAdminID. The two
	// writes are one unit of work.
	TransitionLoanStatus(ctx context.Context, loanID uuid.UUID, status LoanStatus, actingAdminID uuid.UUID) (*LoanRequest, error)

	// Audit log (append-only)
	AppendAuditLog(ctx context.Context, entry AuditLogEntry) (*AuditLogEntry, error)
	ListAuditLogs(ctx context.Context) ([]AuditLogEntry, error)
}
