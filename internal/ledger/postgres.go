package ledger

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
)

// PostgresStore implements Store on a relational schema: one table per
// collection, member_id/admin_id as foreign keys. Loan transitions pair the
// status update with the audit append in a single transaction so the two
// writes are both-or-neither observable.
type PostgresStore struct {
	db *sqlx.DB
}

// NewPostgresStore creates a Postgres-backed store.
func NewPostgresStore(db *sqlx.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

// EnsureSchema creates the portal tables when they do not exist yet.
func (s *PostgresStore) EnsureSchema(ctx context.Context) error {
	_, err := s.db.ExecContext(ctx, schema)
	return err
}

const schema = `
CREATE TABLE IF NOT EXISTS members (
	id UUID PRIMARY KEY,
	username TEXT NOT NULL,
	display_name TEXT NOT NULL,
	photo_url TEXT,
	created_at TIMESTAMPTZ NOT NULL DEFAULT now()
);
CREATE TABLE IF NOT EXISTS admins (
	id UUID PRIMARY KEY,
	email TEXT NOT NULL UNIQUE,
	display_name TEXT NOT NULL
);
CREATE TABLE IF NOT EXISTS saving_transactions (
	id UUID PRIMARY KEY,
	member_id UUID NOT NULL REFERENCES members(id) ON DELETE CASCADE,
	amount BIGINT NOT NULL,
	kind TEXT NOT NULL,
	created_at TIMESTAMPTZ NOT NULL DEFAULT now()
);
CREATE TABLE IF NOT EXISTS profit_entries (
	id UUID PRIMARY KEY,
	member_id UUID NOT NULL REFERENCES members(id) ON DELETE CASCADE,
	amount BIGINT NOT NULL,
	description TEXT NOT NULL DEFAULT '',
	created_at TIMESTAMPTZ NOT NULL DEFAULT now()
);
CREATE TABLE IF NOT EXISTS loan_requests (
	id UUID PRIMARY KEY,
	member_id UUID NOT NULL REFERENCES members(id) ON DELETE CASCADE,
	member_name TEXT NOT NULL DEFAULT '',
	amount BIGINT NOT NULL,
	reason TEXT NOT NULL DEFAULT '',
	status TEXT NOT NULL DEFAULT 'pending',
	requested_at TIMESTAMPTZ NOT NULL DEFAULT now(),
	reviewed_at TIMESTAMPTZ
);
CREATE TABLE IF NOT EXISTS audit_logs (
	id UUID PRIMARY KEY,
	admin_id UUID NOT NULL,
	admin_name TEXT NOT NULL DEFAULT '',
	action TEXT NOT NULL,
	details JSONB,
	created_at TIMESTAMPTZ NOT NULL DEFAULT now()
);
CREATE INDEX IF NOT EXISTS idx_savings_member ON saving_transactions(member_id, created_at DESC);
CREATE INDEX IF NOT EXISTS idx_profits_member ON profit_entries(member_id, created_at DESC);
CREATE INDEX IF NOT EXISTS idx_loans_member ON loan_requests(member_id, requested_at DESC);
`

// --- Members ---

func (s *PostgresStore) ListMembers(ctx context.Context) ([]Member, error) {
	members := []Member{}
	err := s.db.SelectContext(ctx, &members, `
		SELECT id, username, display_name, photo_url, created_at
		FROM members ORDER BY created_at, username
	`)
	return members, err
}

func (s *PostgresStore) GetMember(ctx context.Context, id uuid.UUID) (*Member, error) {
	var m Member
	err := s.db.GetContext(ctx, &m, `
		SELECT id, username, display_name, photo_url, created_at
		FROM members WHERE id = $1
	`, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &m, nil
}

func (s *PostgresStore) CreateMember(ctx context.Context, m Member) (*Member, error) {
	if m.ID == uuid.Nil {
		m.ID = uuid.New()
	}
	if m.CreatedAt.IsZero() {
		m.CreatedAt = time.Now().UTC()
	}
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO members (id, username, display_name, photo_url, created_at)
		VALUES ($1, $2, $3, $4, $5)
	`, m.ID, m.Username, m.DisplayName, m.PhotoURL, m.CreatedAt)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == "23505" {
			return nil, ErrDuplicateID
		}
		return nil, err
	}
	return &m, nil
}

func (s *PostgresStore) UpdateMember(ctx context.Context, id uuid.UUID, upd MemberUpdate) (*Member, error) {
	var m Member
	err := s.db.GetContext(ctx, &m, `
		UPDATE members SET
			username = COALESCE($2, username),
			display_name = COALESCE($3, display_name),
			photo_url = COALESCE($4, photo_url)
		WHERE id = $1
		RETURNING id, username, display_name, photo_url, created_at
	`, id, upd.Username, upd.DisplayName, upd.PhotoURL)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &m, nil
}

func (s *PostgresStore) DeleteMember(ctx context.Context, id uuid.UUID) error {
	// Owned rows are removed by ON DELETE CASCADE; audit entries persist.
	res, err := s.db.ExecContext(ctx, `DELETE FROM members WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}

// --- Admins ---

func (s *PostgresStore) ListAdmins(ctx context.Context) ([]Admin, error) {
	admins := []Admin{}
	err := s.db.SelectContext(ctx, &admins, `SELECT id, email, display_name FROM admins ORDER BY email`)
	return admins, err
}

func (s *PostgresStore) GetAdmin(ctx context.Context, id uuid.UUID) (*Admin, error) {
	var a Admin
	err := s.db.GetContext(ctx, &a, `SELECT id, email, display_name FROM admins WHERE id = $1`, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &a, nil
}

// --- Savings ---

func (s *PostgresStore) ListSavingsForMember(ctx context.Context, memberID uuid.UUID) ([]SavingTransaction, error) {
	txns := []SavingTransaction{}
	err := s.db.SelectContext(ctx, &txns, `
		SELECT id, member_id, amount, kind, created_at
		FROM saving_transactions WHERE member_id = $1
		ORDER BY created_at DESC, id
	`, memberID)
	return txns, err
}

func (s *PostgresStore) RecordSavingTransaction(ctx context.Context, txn SavingTransaction) (*SavingTransaction, error) {
	if txn.MemberID == uuid.Nil {
		return nil, ErrMissingMember
	}
	txn.ID = uuid.New()
	if txn.CreatedAt.IsZero() {
		txn.CreatedAt = time.Now().UTC()
	}
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO saving_transactions (id, member_id, amount, kind, created_at)
		VALUES ($1, $2, $3, $4, $5)
	`, txn.ID, txn.MemberID, txn.Amount, string(txn.Kind), txn.CreatedAt)
	if err != nil {
		return nil, err
	}
	return &txn, nil
}

// --- Profits ---

func (s *PostgresStore) ListProfitsForMember(ctx context.Context, memberID uuid.UUID) ([]ProfitEntry, error) {
	entries := []ProfitEntry{}
	err := s.db.SelectContext(ctx, &entries, `
		SELECT id, member_id, amount, description, created_at
		FROM profit_entries WHERE member_id = $1
		ORDER BY created_at DESC, id
	`, memberID)
	return entries, err
}

func (s *PostgresStore) RecordProfitEntry(ctx context.Context, entry ProfitEntry) (*ProfitEntry, error) {
	if entry.MemberID == uuid.Nil {
		return nil, ErrMissingMember
	}
	entry.ID = uuid.New()
	if entry.CreatedAt.IsZero() {
		entry.CreatedAt = time.Now().UTC()
	}
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO profit_entries (id, member_id, amount, description, created_at)
		VALUES ($1, $2, $3, $4, $5)
	`, entry.ID, entry.MemberID, entry.Amount, entry.Description, entry.CreatedAt)
	if err != nil {
		return nil, err
	}
	return &entry, nil
}

// --- Loans ---

func (s *PostgresStore) ListLoansForMember(ctx context.Context, memberID uuid.UUID) ([]LoanRequest, error) {
	loans := []LoanRequest{}
	err := s.db.SelectContext(ctx, &loans, `
		SELECT id, member_id, member_name, amount, reason, status, requested_at, reviewed_at
		FROM loan_requests WHERE member_id = $1
		ORDER BY requested_at DESC, id
	`, memberID)
	return loans, err
}

func (s *PostgresStore) ListAllLoans(ctx context.Context) ([]LoanRequest, error) {
	loans := []LoanRequest{}
	err := s.db.SelectContext(ctx, &loans, `
		SELECT id, member_id, member_name, amount, reason, status, requested_at, reviewed_at
		FROM loan_requests
		ORDER BY requested_at DESC, id
	`)
	return loans, err
}

func (s *PostgresStore) CreateLoanRequest(ctx context.Context, memberID uuid.UUID, amount int64, reason string) (*LoanRequest, error) {
	member, err := s.GetMember(ctx, memberID)
	if err != nil {
		return nil, err
	}

	loan := LoanRequest{
		ID:          uuid.New(),
		MemberID:    memberID,
		MemberName:  member.DisplayName,
		Amount:      amount,
		Reason:      reason,
		Status:      LoanPending,
		RequestedAt: time.Now().UTC(),
	}
	_, err = s.db.ExecContext(ctx, `
		INSERT INTO loan_requests (id, member_id, member_name, amount, reason, status, requested_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`, loan.ID, loan.MemberID, loan.MemberName, loan.Amount, loan.Reason, string(loan.Status), loan.RequestedAt)
	if err != nil {
		return nil, err
	}
	return &loan, nil
}

func (s *PostgresStore) TransitionLoanStatus(ctx context.Context, loanID uuid.UUID, status LoanStatus, actingAdminID uuid.UUID) (*LoanRequest, error) {
	if actingAdminID == uuid.Nil {
		return nil, ErrMissingAdmin
	}

	tx, err := s.db.BeginTxx(ctx, &sql.TxOptions{Isolation: sql.LevelReadCommitted})
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	var loan LoanRequest
	err = tx.GetContext(ctx, &loan, `
		SELECT id, member_id, member_name, amount, reason, status, requested_at, reviewed_at
		FROM loan_requests WHERE id = $1 FOR UPDATE
	`, loanID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	loan.Status = status
	loan.ReviewedAt = &now
	if _, err := tx.ExecContext(ctx, `
		UPDATE loan_requests SET status = $2, reviewed_at = $3 WHERE id = $1
	`, loanID, string(status), now); err != nil {
		return nil, err
	}

	var adminName string
	_ = tx.GetContext(ctx, &adminName, `SELECT display_name FROM admins WHERE id = $1`, actingAdminID)

	details, err := json.Marshal(loanTransitionDetails(loan, status))
	if err != nil {
		return nil, err
	}
	if _, err := tx.ExecContext(ctx, `
		INSERT INTO audit_logs (id, admin_id, admin_name, action, details, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)
	`, uuid.New(), actingAdminID, adminName, loanTransitionAction(status, loan), details, now); err != nil {
		return nil, err
	}

	if err := tx.Commit(); err != nil {
		return nil, err
	}
	return &loan, nil
}

// --- Audit log ---

// auditRow maps the audit_logs table; details round-trips through jsonb.
type auditRow struct {
	ID        uuid.UUID `db:"id"`
	AdminID   uuid.UUID `db:"admin_id"`
	AdminName string    `db:"admin_name"`
	Action    string    `db:"action"`
	Details   []byte    `db:"details"`
	CreatedAt time.Time `db:"created_at"`
}

func (r auditRow) entry() AuditLogEntry {
	e := AuditLogEntry{
		ID:        r.ID,
		AdminID:   r.AdminID,
		AdminName: r.AdminName,
		Action:    r.Action,
		CreatedAt: r.CreatedAt,
	}
	if len(r.Details) > 0 {
		_ = json.Unmarshal(r.Details, &e.Details)
	}
	return e
}

func (s *PostgresStore) AppendAuditLog(ctx context.Context, entry AuditLogEntry) (*AuditLogEntry, error) {
	if entry.AdminID == uuid.Nil {
		return nil, ErrMissingAdmin
	}
	entry.ID = uuid.New()
	if entry.CreatedAt.IsZero() {
		entry.CreatedAt = time.Now().UTC()
	}

	var details []byte
	if entry.Details != nil {
		var err error
		if details, err = json.Marshal(entry.Details); err != nil {
			return nil, err
		}
	}

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO audit_logs (id, admin_id, admin_name, action, details, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)
	`, entry.ID, entry.AdminID, entry.AdminName, entry.Action, details, entry.CreatedAt)
	if err != nil {
		return nil, err
	}
	return &entry, nil
}

func (s *PostgresStore) ListAuditLogs(ctx context.Context) ([]AuditLogEntry, error) {
	rows := []auditRow{}
	err := s.db.SelectContext(ctx, &rows, `
		SELECT id, admin_id, admin_name, action, details, created_at
		FROM audit_logs ORDER BY created_at DESC, id
	`)
	if err != nil {
		return nil, err
	}
	entries := make([]AuditLogEntry, 0, len(rows))
	for _, r := range rows {
		entries = append(entries, r.entry())
	}
	return entries, nil
}

// SeedAdmins inserts the static admin accounts, skipping existing rows.
func (s *PostgresStore) SeedAdmins(ctx context.Context, admins []Admin) error {
	for _, a := range admins {
		if _, err := s.db.ExecContext(ctx, `
			INSERT INTO admins (id, email, display_name)
			VALUES ($1, $2, $3)
			ON CONFLICT (id) DO NOTHING
		`, a.ID, a.Email, a.DisplayName); err != nil {
			return err
		}
	}
	return nil
}
