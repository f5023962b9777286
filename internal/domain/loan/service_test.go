package loan_test

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/google/uuid"

	"github.com/sacco-portal/sacco-api/internal/domain/loan"
	"github.com/sacco-portal/sacco-api/internal/ledger"
)

func setup(t *testing.T) (*loan.Service, *ledger.MemoryStore, *ledger.Member, ledger.Admin) {
	t.Helper()
	admin := ledger.Admin{ID: uuid.New(), Email: "chair@sacco.test", DisplayName: "Chairperson"}
	store := ledger.NewMemoryStore(ledger.WithAdmins([]ledger.Admin{admin}))
	member, err := store.CreateMember(context.Background(), ledger.Member{Username: "borrower", DisplayName: "Borrower B"})
	if err != nil {
		t.Fatalf("create member failed: %v", err)
	}
	return loan.NewService(store), store, member, admin
}

func TestSubmitCreatesPendingLoan(t *testing.T) {
	svc, _, member, _ := setup(t)

	l, err := svc.Submit(context.Background(), member.ID, 500, "school fees")
	if err != nil {
		t.Fatalf("submit failed: %v", err)
	}
	if l.Status != ledger.LoanPending {
		t.Errorf("status = %s, want pending", l.Status)
	}
	if l.ReviewedAt != nil {
		t.Errorf("reviewedAt must be absent on a pending loan")
	}
	if l.MemberName != member.DisplayName {
		t.Errorf("member name = %q, want %q", l.MemberName, member.DisplayName)
	}
}

func TestSubmitValidation(t *testing.T) {
	svc, _, member, _ := setup(t)
	ctx := context.Background()

	if _, err := svc.Submit(ctx, member.ID, 0, "reason"); !errors.Is(err, loan.ErrInvalidAmount) {
		t.Errorf("zero amount: expected ErrInvalidAmount, got %v", err)
	}
	if _, err := svc.Submit(ctx, member.ID, -10, "reason"); !errors.Is(err, loan.ErrInvalidAmount) {
		t.Errorf("negative amount: expected ErrInvalidAmount, got %v", err)
	}
	if _, err := svc.Submit(ctx, member.ID, 100, "   "); !errors.Is(err, loan.ErrEmptyReason) {
		t.Errorf("blank reason: expected ErrEmptyReason, got %v", err)
	}
	if _, err := svc.Submit(ctx, uuid.New(), 100, "reason"); !errors.Is(err, loan.ErrMemberNotFound) {
		t.Errorf("unknown member: expected ErrMemberNotFound, got %v", err)
	}
}

func TestApproveSetsReviewedAtAndAudits(t *testing.T) {
	svc, store, member, admin := setup(t)
	ctx := context.Background()

	l, err := svc.Submit(ctx, member.ID, 500, "stock purchase")
	if err != nil {
		t.Fatalf("submit failed: %v", err)
	}

	reviewed, err := svc.Review(ctx, l.ID, "approved", admin.ID)
	if err != nil {
		t.Fatalf("review failed: %v", err)
	}
	if reviewed.Status != ledger.LoanApproved {
		t.Errorf("status = %s, want approved", reviewed.Status)
	}
	if reviewed.ReviewedAt == nil {
		t.Fatalf("reviewedAt not set")
	}
	if reviewed.ReviewedAt.Before(reviewed.RequestedAt) {
		t.Errorf("reviewedAt before requestedAt")
	}

	audits, _ := store.ListAuditLogs(ctx)
	if len(audits) != 1 {
		t.Fatalf("expected exactly 1 audit entry, got %d", len(audits))
	}
	if !strings.Contains(audits[0].Action, "Approved") {
		t.Errorf("action %q should contain %q", audits[0].Action, "Approved")
	}
	if audits[0].Details["loanId"] != l.ID.String() {
		t.Errorf("details.loanId = %v, want %s", audits[0].Details["loanId"], l.ID)
	}
	if audits[0].Details["newStatus"] != "approved" {
		t.Errorf("details.newStatus = %v, want approved", audits[0].Details["newStatus"])
	}
}

func TestReviewValidation(t *testing.T) {
	svc, _, member, admin := setup(t)
	ctx := context.Background()

	l, _ := svc.Submit(ctx, member.ID, 100, "r")

	if _, err := svc.Review(ctx, l.ID, "frozen", admin.ID); !errors.Is(err, loan.ErrInvalidStatus) {
		t.Errorf("bad status: expected ErrInvalidStatus, got %v", err)
	}
	if _, err := svc.Review(ctx, uuid.New(), "approved", admin.ID); !errors.Is(err, loan.ErrLoanNotFound) {
		t.Errorf("unknown loan: expected ErrLoanNotFound, got %v", err)
	}
}

func TestReReviewDecidedLoan(t *testing.T) {
	svc, store, member, admin := setup(t)
	ctx := context.Background()

	l, _ := svc.Submit(ctx, member.ID, 100, "r")

	if _, err := svc.Review(ctx, l.ID, "rejected", admin.ID); err != nil {
		t.Fatalf("first review failed: %v", err)
	}
	reviewed, err := svc.Review(ctx, l.ID, "approved", admin.ID)
	if err != nil {
		t.Fatalf("re-review failed: %v", err)
	}
	if reviewed.Status != ledger.LoanApproved {
		t.Errorf("status after re-review = %s, want approved", reviewed.Status)
	}

	audits, _ := store.ListAuditLogs(ctx)
	if len(audits) != 2 {
		t.Fatalf("each review must log once, got %d entries", len(audits))
	}
}

func TestListForMemberNewestFirst(t *testing.T) {
	svc, _, member, _ := setup(t)
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		if _, err := svc.Submit(ctx, member.ID, int64(i+1)*100, "r"); err != nil {
			t.Fatalf("submit failed: %v", err)
		}
	}

	loans, err := svc.ListForMember(ctx, member.ID)
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if len(loans) != 3 {
		t.Fatalf("expected 3 loans, got %d", len(loans))
	}
	for i := 1; i < len(loans); i++ {
		if loans[i].RequestedAt.After(loans[i-1].RequestedAt) {
			t.Errorf("loans not ordered newest first at index %d", i)
		}
	}
}
