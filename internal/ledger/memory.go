package ledger

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
)

// MemoryStore is the in-memory reference implementation of Store. All state
// lives behind a single RWMutex; ids are uuids so rapid sequential creation
// can never collide. An optional fixed latency per call mimics remote I/O.
type MemoryStore struct {
	mu      sync.RWMutex
	latency time.Duration

	members map[uuid.UUID]Member
	admins  []Admin
	savings []SavingTransaction
	profits []ProfitEntry
	loans   []LoanRequest
	audits  []AuditLogEntry
}

// MemoryOption configures a MemoryStore.
type MemoryOption func(*MemoryStore)

// WithLatency makes every store call block for d before touching state.
func WithLatency(d time.Duration) MemoryOption {
	return func(s *MemoryStore) { s.latency = d }
}

// WithAdmins seeds the static admin collection.
func WithAdmins(admins []Admin) MemoryOption {
	return func(s *MemoryStore) { s.admins = append(s.admins, admins...) }
}

// NewMemoryStore creates an empty in-memory store.
func NewMemoryStore(opts ...MemoryOption) *MemoryStore {
	s := &MemoryStore{members: make(map[uuid.UUID]Member)}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// simulate blocks for the configured artificial latency. Calls are never
// cancelled mid-flight; no operation here can partially fail.
func (s *MemoryStore) simulate() {
	if s.latency > 0 {
		time.Sleep(s.latency)
	}
}

// --- Members ---

func (s *MemoryStore) ListMembers(ctx context.Context) ([]Member, error) {
	s.simulate()
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]Member, 0, len(s.members))
	for _, m := range s.members {
		out = append(out, m)
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].CreatedAt.Before(out[j].CreatedAt)
		}
		return out[i].Username < out[j].Username
	})
	return out, nil
}

func (s *MemoryStore) GetMember(ctx context.Context, id uuid.UUID) (*Member, error) {
	s.simulate()
	s.mu.RLock()
	defer s.mu.RUnlock()

	m, ok := s.members[id]
	if !ok {
		return nil, ErrNotFound
	}
	return &m, nil
}

func (s *MemoryStore) CreateMember(ctx context.Context, m Member) (*Member, error) {
	s.simulate()
	s.mu.Lock()
	defer s.mu.Unlock()

	if m.ID == uuid.Nil {
		m.ID = uuid.New()
	} else if _, exists := s.members[m.ID]; exists {
		return nil, ErrDuplicateID
	}
	if m.CreatedAt.IsZero() {
		m.CreatedAt = time.Now().UTC()
	}
	s.members[m.ID] = m
	return &m, nil
}

func (s *MemoryStore) UpdateMember(ctx context.Context, id uuid.UUID, upd MemberUpdate) (*Member, error) {
	s.simulate()
	s.mu.Lock()
	defer s.mu.Unlock()

	m, ok := s.members[id]
	if !ok {
		return nil, ErrNotFound
	}
	if upd.Username != nil {
		m.Username = *upd.Username
	}
	if upd.DisplayName != nil {
		m.DisplayName = *upd.DisplayName
	}
	if upd.PhotoURL != nil {
		m.PhotoURL = upd.PhotoURL
	}
	s.members[id] = m
	return &m, nil
}

func (s *MemoryStore) DeleteMember(ctx context.Context, id uuid.UUID) error {
	s.simulate()
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.members[id]; !ok {
		return ErrNotFound
	}
	delete(s.members, id)

	// Cascade: drop everything the member owns. Audit entries stay.
	savings := s.savings[:0]
	for _, t := range s.savings {
		if t.MemberID != id {
			savings = append(savings, t)
		}
	}
	s.savings = savings

	profits := s.profits[:0]
	for _, p := range s.profits {
		if p.MemberID != id {
			profits = append(profits, p)
		}
	}
	s.profits = profits

	loans := s.loans[:0]
	for _, l := range s.loans {
		if l.MemberID != id {
			loans = append(loans, l)
		}
	}
	s.loans = loans

	return nil
}

// --- Admins ---

func (s *MemoryStore) ListAdmins(ctx context.Context) ([]Admin, error) {
	s.simulate()
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]Admin, len(s.admins))
	copy(out, s.admins)
	return out, nil
}

func (s *MemoryStore) GetAdmin(ctx context.Context, id uuid.UUID) (*Admin, error) {
	s.simulate()
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, a := range s.admins {
		if a.ID == id {
			admin := a
			return &admin, nil
		}
	}
	return nil, ErrNotFound
}

// --- Savings ---

func (s *MemoryStore) ListSavingsForMember(ctx context.Context, memberID uuid.UUID) ([]SavingTransaction, error) {
	s.simulate()
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []SavingTransaction
	for _, t := range s.savings {
		if t.MemberID == memberID {
			out = append(out, t)
		}
	}
	sortNewestFirst(out, func(t SavingTransaction) time.Time { return t.CreatedAt })
	return out, nil
}

func (s *MemoryStore) RecordSavingTransaction(ctx context.Context, txn SavingTransaction) (*SavingTransaction, error) {
	s.simulate()
	s.mu.Lock()
	defer s.mu.Unlock()

	if txn.MemberID == uuid.Nil {
		return nil, ErrMissingMember
	}
	txn.ID = uuid.New()
	if txn.CreatedAt.IsZero() {
		txn.CreatedAt = time.Now().UTC()
	}
	s.savings = append(s.savings, txn)
	return &txn, nil
}

// --- Profits ---

func (s *MemoryStore) ListProfitsForMember(ctx context.Context, memberID uuid.UUID) ([]ProfitEntry, error) {
	s.simulate()
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []ProfitEntry
	for _, p := range s.profits {
		if p.MemberID == memberID {
			out = append(out, p)
		}
	}
	sortNewestFirst(out, func(p ProfitEntry) time.Time { return p.CreatedAt })
	return out, nil
}

func (s *MemoryStore) RecordProfitEntry(ctx context.Context, entry ProfitEntry) (*ProfitEntry, error) {
	s.simulate()
	s.mu.Lock()
	defer s.mu.Unlock()

	if entry.MemberID == uuid.Nil {
		return nil, ErrMissingMember
	}
	entry.ID = uuid.New()
	if entry.CreatedAt.IsZero() {
		entry.CreatedAt = time.Now().UTC()
	}
	s.profits = append(s.profits, entry)
	return &entry, nil
}

// --- Loans ---

func (s *MemoryStore) ListLoansForMember(ctx context.Context, memberID uuid.UUID) ([]LoanRequest, error) {
	s.simulate()
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []LoanRequest
	for _, l := range s.loans {
		if l.MemberID == memberID {
			out = append(out, l)
		}
	}
	sortNewestFirst(out, func(l LoanRequest) time.Time { return l.RequestedAt })
	return out, nil
}

func (s *MemoryStore) ListAllLoans(ctx context.Context) ([]LoanRequest, error) {
	s.simulate()
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]LoanRequest, len(s.loans))
	copy(out, s.loans)
	sortNewestFirst(out, func(l LoanRequest) time.Time { return l.RequestedAt })
	return out, nil
}

func (s *MemoryStore) CreateLoanRequest(ctx context.Context, memberID uuid.UUID, amount int64, reason string) (*LoanRequest, error) {
	s.simulate()
	s.mu.Lock()
	defer s.mu.Unlock()

	member, ok := s.members[memberID]
	if !ok {
		return nil, ErrNotFound
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
	s.loans = append(s.loans, loan)
	return &loan, nil
}

func (s *MemoryStore) TransitionLoanStatus(ctx context.Context, loanID uuid.UUID, status LoanStatus, actingAdminID uuid.UUID) (*LoanRequest, error) {
	s.simulate()
	s.mu.Lock()
	defer s.mu.Unlock()

	if actingAdminID == uuid.Nil {
		return nil, ErrMissingAdmin
	}

	idx := -1
	for i := range s.loans {
		if s.loans[i].ID == loanID {
			idx = i
			break
		}
	}
	if idx == -1 {
		return nil, ErrNotFound
	}

	now := time.Now().UTC()
	s.loans[idx].Status = status
	s.loans[idx].ReviewedAt = &now
	loan := s.loans[idx]

	adminName := ""
	for _, a := range s.admins {
		if a.ID == actingAdminID {
			adminName = a.DisplayName
			break
		}
	}

	s.audits = append(s.audits, AuditLogEntry{
		ID:        uuid.New(),
		AdminID:   actingAdminID,
		AdminName: adminName,
		Action:    loanTransitionAction(status, loan),
		Details:   loanTransitionDetails(loan, status),
		CreatedAt: now,
	})

	return &loan, nil
}

// --- Audit log ---

func (s *MemoryStore) AppendAuditLog(ctx context.Context, entry AuditLogEntry) (*AuditLogEntry, error) {
	s.simulate()
	s.mu.Lock()
	defer s.mu.Unlock()

	if entry.AdminID == uuid.Nil {
		return nil, ErrMissingAdmin
	}
	entry.ID = uuid.New()
	if entry.CreatedAt.IsZero() {
		entry.CreatedAt = time.Now().UTC()
	}
	s.audits = append(s.audits, entry)
	return &entry, nil
}

func (s *MemoryStore) ListAuditLogs(ctx context.Context) ([]AuditLogEntry, error) {
	s.simulate()
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]AuditLogEntry, len(s.audits))
	copy(out, s.audits)
	sortNewestFirst(out, func(e AuditLogEntry) time.Time { return e.CreatedAt })
	return out, nil
}

// sortNewestFirst orders rows by timestamp descending. The stable sort keeps
// insertion order for equal timestamps, so repeated listings are identical.
func sortNewestFirst[T any](rows []T, at func(T) time.Time) {
	sort.SliceStable(rows, func(i, j int) bool {
		return at(rows[i]).After(at(rows[j]))
	})
}
