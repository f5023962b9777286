package dashboard_test

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/sacco-portal/sacco-api/internal/domain/dashboard"
	"github.com/sacco-portal/sacco-api/internal/ledger"
)

func setup(t *testing.T) (*dashboard.Service, *ledger.MemoryStore) {
	t.Helper()
	store := ledger.NewMemoryStore()
	return dashboard.NewService(store, nil, "KES", time.Monday), store
}

func addMember(t *testing.T, store *ledger.MemoryStore, name string) *ledger.Member {
	t.Helper()
	m, err := store.CreateMember(context.Background(), ledger.Member{Username: name, DisplayName: name})
	if err != nil {
		t.Fatalf("create member failed: %v", err)
	}
	return m
}

func record(t *testing.T, store *ledger.MemoryStore, memberID uuid.UUID, amount int64, kind ledger.TransactionKind, at time.Time) {
	t.Helper()
	if _, err := store.RecordSavingTransaction(context.Background(), ledger.SavingTransaction{
		MemberID: memberID, Amount: amount, Kind: kind, CreatedAt: at,
	}); err != nil {
		t.Fatalf("record txn failed: %v", err)
	}
}

func TestNetSavingsScenario(t *testing.T) {
	svc, store := setup(t)
	ctx := context.Background()
	u1 := addMember(t, store, "u1")

	now := time.Now().UTC()
	record(t, store, u1.ID, 1000, ledger.KindDeposit, now.Add(-3*time.Hour))
	record(t, store, u1.ID, 500, ledger.KindDeposit, now.Add(-2*time.Hour))
	record(t, store, u1.ID, 200, ledger.KindWithdrawal, now.Add(-time.Hour))

	net, err := svc.NetSavings(ctx, u1.ID, dashboard.Interval{})
	if err != nil {
		t.Fatalf("net savings failed: %v", err)
	}
	if net != 1300 {
		t.Fatalf("netSavings(u1) = %d, want 1300", net)
	}
}

func TestNetSavingsWindowed(t *testing.T) {
	svc, store := setup(t)
	ctx := context.Background()
	m := addMember(t, store, "windowed")

	old := time.Date(2024, 6, 1, 10, 0, 0, 0, time.UTC)
	recent := time.Date(2025, 3, 10, 10, 0, 0, 0, time.UTC)
	record(t, store, m.ID, 900, ledger.KindDeposit, old)
	record(t, store, m.ID, 400, ledger.KindDeposit, recent)
	record(t, store, m.ID, 100, ledger.KindWithdrawal, recent.Add(time.Hour))

	iv := dashboard.Interval{Start: time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)}
	net, err := svc.NetSavings(ctx, m.ID, iv)
	if err != nil {
		t.Fatalf("net savings failed: %v", err)
	}
	if net != 300 {
		t.Errorf("windowed net = %d, want 300", net)
	}

	all, _ := svc.NetSavings(ctx, m.ID, dashboard.Interval{})
	if all != 1200 {
		t.Errorf("all-time net = %d, want 1200", all)
	}
}

func TestTotalProfit(t *testing.T) {
	svc, store := setup(t)
	ctx := context.Background()
	m := addMember(t, store, "earner")

	for _, amount := range []int64{50, 70} {
		if _, err := store.RecordProfitEntry(ctx, ledger.ProfitEntry{
			MemberID: m.ID, Amount: amount, Description: "dividend",
		}); err != nil {
			t.Fatalf("record profit failed: %v", err)
		}
	}

	total, err := svc.TotalProfit(ctx, m.ID, dashboard.Interval{})
	if err != nil {
		t.Fatalf("total profit failed: %v", err)
	}
	if total != 120 {
		t.Fatalf("totalProfit = %d, want 120", total)
	}
}

func TestMemberStats(t *testing.T) {
	svc, store := setup(t)
	ctx := context.Background()
	m := addMember(t, store, "statsy")

	record(t, store, m.ID, 500, ledger.KindDeposit, time.Now().UTC())
	if _, err := store.CreateLoanRequest(ctx, m.ID, 1000, "pending loan"); err != nil {
		t.Fatalf("create loan failed: %v", err)
	}

	stats, err := svc.MemberStats(ctx, m.ID, dashboard.TimeframeAll)
	if err != nil {
		t.Fatalf("member stats failed: %v", err)
	}
	if stats.NetSavings != 500 {
		t.Errorf("net savings = %d, want 500", stats.NetSavings)
	}
	if stats.PendingLoans != 1 {
		t.Errorf("pending loans = %d, want 1", stats.PendingLoans)
	}
	if stats.Currency != "KES" {
		t.Errorf("currency = %s, want KES", stats.Currency)
	}
}

func TestSystemStatsSumsAllMembers(t *testing.T) {
	svc, store := setup(t)
	ctx := context.Background()

	a := addMember(t, store, "a")
	b := addMember(t, store, "b")
	now := time.Now().UTC()
	record(t, store, a.ID, 1000, ledger.KindDeposit, now)
	record(t, store, a.ID, 300, ledger.KindWithdrawal, now)
	record(t, store, b.ID, 250, ledger.KindDeposit, now)

	if _, err := store.RecordProfitEntry(ctx, ledger.ProfitEntry{MemberID: b.ID, Amount: 40}); err != nil {
		t.Fatalf("record profit failed: %v", err)
	}

	stats, err := svc.SystemStats(ctx, dashboard.TimeframeAll)
	if err != nil {
		t.Fatalf("system stats failed: %v", err)
	}
	if stats.Members != 2 {
		t.Errorf("members = %d, want 2", stats.Members)
	}
	if stats.TotalSavings != 950 {
		t.Errorf("total savings = %d, want 950", stats.TotalSavings)
	}
	if stats.TotalProfit != 40 {
		t.Errorf("total profit = %d, want 40", stats.TotalProfit)
	}
}

func TestMemberStatsUnknownTimeframe(t *testing.T) {
	svc, store := setup(t)
	m := addMember(t, store, "x")

	if _, err := svc.MemberStats(context.Background(), m.ID, "decade"); err == nil {
		t.Fatalf("expected error for unknown timeframe")
	}
}
