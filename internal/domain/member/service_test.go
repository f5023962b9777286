package member_test

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/google/uuid"

	"github.com/sacco-portal/sacco-api/internal/domain/member"
	"github.com/sacco-portal/sacco-api/internal/ledger"
)

func setup(t *testing.T) (*member.Service, *ledger.MemoryStore, ledger.Admin) {
	t.Helper()
	admin := ledger.Admin{ID: uuid.New(), Email: "ops@sacco.test", DisplayName: "Ops"}
	store := ledger.NewMemoryStore(ledger.WithAdmins([]ledger.Admin{admin}))
	return member.NewService(store), store, admin
}

func TestCreateDefaultsDisplayName(t *testing.T) {
	svc, _, _ := setup(t)
	ctx := context.Background()

	m, err := svc.Create(ctx, "jdoe", "", nil)
	if err != nil {
		t.Fatalf("create failed: %v", err)
	}
	if m.DisplayName != "jdoe" {
		t.Errorf("display name = %q, want %q", m.DisplayName, "jdoe")
	}
	if m.ID == uuid.Nil {
		t.Errorf("expected assigned id")
	}
}

func TestCreateRejectsBlankUsername(t *testing.T) {
	svc, _, _ := setup(t)

	if _, err := svc.Create(context.Background(), "   ", "Someone", nil); !errors.Is(err, member.ErrMissingUsername) {
		t.Fatalf("err = %v, want ErrMissingUsername", err)
	}
}

func TestUpdatePartial(t *testing.T) {
	svc, _, _ := setup(t)
	ctx := context.Background()

	m, err := svc.Create(ctx, "jdoe", "Jane Doe", nil)
	if err != nil {
		t.Fatalf("create failed: %v", err)
	}

	name := "Jane W. Doe"
	updated, err := svc.Update(ctx, m.ID, ledger.MemberUpdate{DisplayName: &name})
	if err != nil {
		t.Fatalf("update failed: %v", err)
	}
	if updated.DisplayName != name {
		t.Errorf("display name = %q, want %q", updated.DisplayName, name)
	}
	if updated.Username != "jdoe" {
		t.Errorf("username changed unexpectedly: %q", updated.Username)
	}
}

func TestUpdateRequiresAField(t *testing.T) {
	svc, _, _ := setup(t)
	ctx := context.Background()

	m, err := svc.Create(ctx, "jdoe", "Jane Doe", nil)
	if err != nil {
		t.Fatalf("create failed: %v", err)
	}

	if _, err := svc.Update(ctx, m.ID, ledger.MemberUpdate{}); !errors.Is(err, member.ErrNothingToUpdate) {
		t.Fatalf("err = %v, want ErrNothingToUpdate", err)
	}
}

func TestUpdateUnknownMember(t *testing.T) {
	svc, _, _ := setup(t)

	name := "Nobody"
	if _, err := svc.Update(context.Background(), uuid.New(), ledger.MemberUpdate{DisplayName: &name}); !errors.Is(err, member.ErrMemberNotFound) {
		t.Fatalf("err = %v, want ErrMemberNotFound", err)
	}
}

func TestDeleteCascadesAndAudits(t *testing.T) {
	svc, store, admin := setup(t)
	ctx := context.Background()

	m, err := svc.Create(ctx, "jdoe", "Jane Doe", nil)
	if err != nil {
		t.Fatalf("create failed: %v", err)
	}
	if _, err := store.RecordSavingTransaction(ctx, ledger.SavingTransaction{
		MemberID: m.ID, Amount: 1000, Kind: ledger.KindDeposit,
	}); err != nil {
		t.Fatalf("record txn failed: %v", err)
	}
	if _, err := store.CreateLoanRequest(ctx, m.ID, 5000, "school fees"); err != nil {
		t.Fatalf("create loan failed: %v", err)
	}

	if err := svc.Delete(ctx, admin.ID, m.ID); err != nil {
		t.Fatalf("delete failed: %v", err)
	}

	if _, err := svc.Get(ctx, m.ID); !errors.Is(err, member.ErrMemberNotFound) {
		t.Fatalf("get after delete = %v, want ErrMemberNotFound", err)
	}
	loans, err := store.ListAllLoans(ctx)
	if err != nil {
		t.Fatalf("list loans failed: %v", err)
	}
	if len(loans) != 0 {
		t.Errorf("deleted member's loans still present: %d", len(loans))
	}

	entries, err := store.ListAuditLogs(ctx)
	if err != nil {
		t.Fatalf("list audits failed: %v", err)
	}
	if len(entries) != 1 {
		t.Fatalf("audit entries = %d, want 1", len(entries))
	}
	entry := entries[0]
	if !strings.Contains(entry.Action, "Deleted member Jane Doe") {
		t.Errorf("action = %q, want mention of deleted member", entry.Action)
	}
	if entry.Details["memberId"] != m.ID.String() {
		t.Errorf("details.memberId = %v, want %s", entry.Details["memberId"], m.ID)
	}
	if entry.AdminID != admin.ID {
		t.Errorf("admin id = %s, want %s", entry.AdminID, admin.ID)
	}
}

func TestDeleteRequiresKnownAdmin(t *testing.T) {
	svc, store, _ := setup(t)
	ctx := context.Background()

	m, err := svc.Create(ctx, "jdoe", "Jane Doe", nil)
	if err != nil {
		t.Fatalf("create failed: %v", err)
	}

	if err := svc.Delete(ctx, uuid.New(), m.ID); err == nil {
		t.Fatalf("expected error for unknown admin")
	}
	if _, err := store.GetMember(ctx, m.ID); err != nil {
		t.Errorf("member should remain after failed delete: %v", err)
	}
}
