package seed

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/sacco-portal/sacco-api/internal/ledger"
)

// Admins returns the static administrator roster. Ids are fixed so that
// tokens issued by the identity service stay valid across restarts.
func Admins() []ledger.Admin {
	return []ledger.Admin{
		{
			ID:          uuid.MustParse("6f1f64a2-8c3e-4b0a-9a71-3f2db14c5a01"),
			Email:       "chair@sacco.example",
			DisplayName: "Grace Njeri",
		},
		{
			ID:          uuid.MustParse("b4c9d7e0-52aa-41f3-8d26-97e0c3a1bb02"),
			Email:       "treasurer@sacco.example",
			DisplayName: "Samuel Otieno",
		},
	}
}

// Demo populates the store with a small set of members, savings, profits and
// loans for local development. It is additive and not idempotent, so it
// should only run against a fresh store.
func Demo(ctx context.Context, store ledger.Store) error {
	members := []ledger.Member{
		{Username: "awanjiku", DisplayName: "Alice Wanjiku"},
		{Username: "bkiprop", DisplayName: "Brian Kiprop"},
		{Username: "cmuthoni", DisplayName: "Catherine Muthoni"},
	}

	for i := range members {
		m, err := store.CreateMember(ctx, members[i])
		if err != nil {
			return fmt.Errorf("seed member %s: %w", members[i].Username, err)
		}
		members[i] = *m
	}

	deposits := []int64{150000, 80000, 230000}
	for i, m := range members {
		if _, err := store.RecordSavingTransaction(ctx, ledger.SavingTransaction{
			MemberID: m.ID,
			Amount:   deposits[i],
			Kind:     ledger.KindDeposit,
		}); err != nil {
			return fmt.Errorf("seed deposit for %s: %w", m.Username, err)
		}
		if _, err := store.RecordProfitEntry(ctx, ledger.ProfitEntry{
			MemberID:    m.ID,
			Amount:      deposits[i] / 20,
			Description: "Quarterly dividend",
		}); err != nil {
			return fmt.Errorf("seed profit for %s: %w", m.Username, err)
		}
	}

	if _, err := store.RecordSavingTransaction(ctx, ledger.SavingTransaction{
		MemberID: members[0].ID,
		Amount:   20000,
		Kind:     ledger.KindWithdrawal,
	}); err != nil {
		return fmt.Errorf("seed withdrawal: %w", err)
	}

	if _, err := store.CreateLoanRequest(ctx, members[1].ID, 500000, "Motorbike purchase"); err != nil {
		return fmt.Errorf("seed loan: %w", err)
	}

	log.Info().Int("members", len(members)).Msg("demo data seeded")
	return nil
}
