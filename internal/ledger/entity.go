package ledger

import (
	"time"

	"github.com/google/uuid"
)

// TransactionKind classifies a saving transaction (matches txn_kind enum).
type TransactionKind string

const (
	KindDeposit    TransactionKind = "deposit"
	KindWithdrawal TransactionKind = "withdrawal"
)

// LoanStatus represents loan request lifecycle state (matches loan_status enum).
type LoanStatus string

const (
	LoanPending  LoanStatus = "pending"
	LoanApproved LoanStatus = "approved"
	LoanRejected LoanStatus = "rejected"
)

// IsValidLoanStatus checks if a status string is a known loan status.
func IsValidLoanStatus(s string) bool {
	switch LoanStatus(s) {
	case LoanPending, LoanApproved, LoanRejected:
		return true
	}
	return false
}

// Member represents a cooperative member account.
type Member struct {
	ID          uuid.UUID `db:"id" json:"id"`
	Username    string    `db:"username" json:"username"`
	DisplayName string    `db:"display_name" json:"display_name"`
	PhotoURL    *string   `db:"photo_url" json:"photo_url,omitempty"`
	CreatedAt   time.Time `db:"created_at" json:"created_at"`
}

// MemberUpdate carries the mutable member profile fields. Nil means unchanged.
type MemberUpdate struct {
	Username    *string
	DisplayName *string
	PhotoURL    *string
}

// Admin represents an administrator account. Admins are seeded and read-only.
type Admin struct {
	ID          uuid.UUID `db:"id" json:"id"`
	Email       string    `db:"email" json:"email"`
	DisplayName string    `db:"display_name" json:"display_name"`
}

// SavingTransaction is an immutable ledger row. Amount is a positive
// magnitude in minor currency units; Kind carries the sign.
type SavingTransaction struct {
	ID        uuid.UUID       `db:"id" json:"id"`
	MemberID  uuid.UUID       `db:"member_id" json:"member_id"`
	Amount    int64           `db:"amount" json:"amount"`
	Kind      TransactionKind `db:"kind" json:"kind"`
	CreatedAt time.Time       `db:"created_at" json:"created_at"`
}

// Signed returns the transaction's contribution to a balance.
func (t SavingTransaction) Signed() int64 {
	if t.Kind == KindWithdrawal {
		return -t.Amount
	}
	return t.Amount
}

// ProfitEntry is an immutable, always-additive profit accrual row.
type ProfitEntry struct {
	ID          uuid.UUID `db:"id" json:"id"`
	MemberID    uuid.UUID `db:"member_id" json:"member_id"`
	Amount      int64     `db:"amount" json:"amount"`
	Description string    `db:"description" json:"description"`
	CreatedAt   time.Time `db:"created_at" json:"created_at"`
}

// LoanRequest represents a member loan application.
//
// MemberName is denormalized at creation time and may go stale if the member
// is later renamed. This is a documented trade-off, not a bug: the loan
// record keeps the name under which it was filed.
type LoanRequest struct {
	ID          uuid.UUID  `db:"id" json:"id"`
	MemberID    uuid.UUID  `db:"member_id" json:"member_id"`
	MemberName  string     `db:"member_name" json:"member_name"`
	Amount      int64      `db:"amount" json:"amount"`
	Reason      string     `db:"reason" json:"reason"`
	Status      LoanStatus `db:"status" json:"status"`
	RequestedAt time.Time  `db:"requested_at" json:"requested_at"`
	// ReviewedAt is nil iff Status is pending.
	ReviewedAt *time.Time `db:"reviewed_at" json:"reviewed_at,omitempty"`
}

// AuditLogEntry is an immutable record of an administrative action.
// Entries are never mutated or deleted, and survive admin/member deletion.
type AuditLogEntry struct {
	ID        uuid.UUID      `db:"id" json:"id"`
	AdminID   uuid.UUID      `db:"admin_id" json:"admin_id"`
	AdminName string         `db:"admin_name" json:"admin_name"`
	Action    string         `db:"action" json:"action"`
	Details   map[string]any `db:"-" json:"details,omitempty"`
	CreatedAt time.Time      `db:"created_at" json:"created_at"`
}
