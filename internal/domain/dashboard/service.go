package dashboard

import (
	"context"
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"

	"github.com/sacco-portal/sacco-api/internal/ledger"
)

// systemStatsTTL bounds staleness of the cached system-wide figures.
const systemStatsTTL = 30 * time.Second

// MemberStats are the derived figures behind the member dashboard.
// Amounts are minor currency units.
type MemberStats struct {
	MemberID     uuid.UUID `json:"member_id"`
	Timeframe    Timeframe `json:"timeframe"`
	Currency     string    `json:"currency"`
	NetSavings   int64     `json:"net_savings"`
	TotalProfit  int64     `json:"total_profit"`
	PendingLoans int       `json:"pending_loans"`
}

// SystemStats are the derived figures behind the admin dashboard.
type SystemStats struct {
	Timeframe    Timeframe `json:"timeframe"`
	Currency     string    `json:"currency"`
	Members      int       `json:"members"`
	TotalSavings int64     `json:"total_savings"`
	TotalProfit  int64     `json:"total_profit"`
	PendingLoans int       `json:"pending_loans"`
}

// Service computes derived values from the store. It only ever reads.
// System-wide figures iterate every member, which is fine at portal scale; a cache
// sits in front so repeated admin dashboard loads don't rescan.
type Service struct {
	store     ledger.Store
	cache     *redis.Client // optional, nil disables caching
	currency  string
	weekStart time.Weekday
}

// NewService creates a dashboard service. cache may be nil.
func NewService(store ledger.Store, cache *redis.Client, currency string, weekStart time.Weekday) *Service {
	return &Service{store: store, cache: cache, currency: currency, weekStart: weekStart}
}

// NetSavings is the member's deposits minus withdrawals inside the interval.
func (s *Service) NetSavings(ctx context.Context, memberID uuid.UUID, iv Interval) (int64, error) {
	txns, err := s.store.ListSavingsForMember(ctx, memberID)
	if err != nil {
		return 0, err
	}
	var total int64
	for _, t := range txns {
		if iv.Contains(t.CreatedAt) {
			total += t.Signed()
		}
	}
	return total, nil
}

// TotalProfit is the member's accrued profit inside the interval.
func (s *Service) TotalProfit(ctx context.Context, memberID uuid.UUID, iv Interval) (int64, error) {
	entries, err := s.store.ListProfitsForMember(ctx, memberID)
	if err != nil {
		return 0, err
	}
	var total int64
	for _, e := range entries {
		if iv.Contains(e.CreatedAt) {
			total += e.Amount
		}
	}
	return total, nil
}

// MemberStats assembles the member dashboard for a timeframe.
func (s *Service) MemberStats(ctx context.Context, memberID uuid.UUID, tf Timeframe) (*MemberStats, error) {
	iv, err := Resolve(tf, time.Now(), s.weekStart)
	if err != nil {
		return nil, err
	}

	stats := &MemberStats{MemberID: memberID, Timeframe: tf, Currency: s.currency}
	if tf == "" {
		stats.Timeframe = TimeframeAll
	}

	if stats.NetSavings, err = s.NetSavings(ctx, memberID, iv); err != nil {
		return nil, err
	}
	if stats.TotalProfit, err = s.TotalProfit(ctx, memberID, iv); err != nil {
		return nil, err
	}

	loans, err := s.store.ListLoansForMember(ctx, memberID)
	if err != nil {
		return nil, err
	}
	for _, l := range loans {
		if l.Status == ledger.LoanPending {
			stats.PendingLoans++
		}
	}
	return stats, nil
}

// SystemStats assembles the admin dashboard for a timeframe, summing every
// member's aggregates.
func (s *Service) SystemStats(ctx context.Context, tf Timeframe) (*SystemStats, error) {
	if cached := s.cachedSystemStats(ctx, tf); cached != nil {
		return cached, nil
	}

	iv, err := Resolve(tf, time.Now(), s.weekStart)
	if err != nil {
		return nil, err
	}

	members, err := s.store.ListMembers(ctx)
	if err != nil {
		return nil, err
	}

	stats := &SystemStats{Timeframe: tf, Currency: s.currency, Members: len(members)}
	if tf == "" {
		stats.Timeframe = TimeframeAll
	}
	for _, m := range members {
		net, err := s.NetSavings(ctx, m.ID, iv)
		if err != nil {
			return nil, err
		}
		stats.TotalSavings += net

		profit, err := s.TotalProfit(ctx, m.ID, iv)
		if err != nil {
			return nil, err
		}
		stats.TotalProfit += profit
	}

	loans, err := s.store.ListAllLoans(ctx)
	if err != nil {
		return nil, err
	}
	for _, l := range loans {
		if l.Status == ledger.LoanPending {
			stats.PendingLoans++
		}
	}

	s.storeSystemStats(ctx, tf, stats)
	return stats, nil
}

func systemStatsKey(tf Timeframe) string {
	if tf == "" {
		tf = TimeframeAll
	}
	return "dashboard:system:" + string(tf)
}

func (s *Service) cachedSystemStats(ctx context.Context, tf Timeframe) *SystemStats {
	if s.cache == nil {
		return nil
	}
	raw, err := s.cache.Get(ctx, systemStatsKey(tf)).Bytes()
	if err != nil {
		return nil
	}
	var stats SystemStats
	if err := json.Unmarshal(raw, &stats); err != nil {
		return nil
	}
	return &stats
}

func (s *Service) storeSystemStats(ctx context.Context, tf Timeframe, stats *SystemStats) {
	if s.cache == nil {
		return
	}
	raw, err := json.Marshal(stats)
	if err != nil {
		return
	}
	if err := s.cache.Set(ctx, systemStatsKey(tf), raw, systemStatsTTL).Err(); err != nil {
		log.Warn().Err(err).Msg("failed to cache system stats")
	}
}
