package audit

import (
	"context"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/sacco-portal/sacco-api/internal/ledger"
)

// Service is a thin layer over the append-only audit log. Entries are written
// by the admin workflows that perform the audited action; this service covers
// reading the trail and recording ad-hoc actions.
type Service struct {
	store ledger.Store
}

// NewService creates an audit service
func NewService(store ledger.Store) *Service {
	return &Service{store: store}
}

// List returns all audit entries, newest first.
func (s *Service) List(ctx context.Context) ([]ledger.AuditLogEntry, error) {
	return s.store.ListAuditLogs(ctx)
}

// Record appends an entry attributed to the given admin. Unlike the
// best-effort appends inside other workflows, a direct record either lands or
// reports its error to the caller.
func (s *Service) Record(ctx context.Context, adminID uuid.UUID, action string, details map[string]any) (*ledger.AuditLogEntry, error) {
	admin, err := s.store.GetAdmin(ctx, adminID)
	if err != nil {
		return nil, err
	}

	entry, err := s.store.AppendAuditLog(ctx, ledger.AuditLogEntry{
		AdminID:   admin.ID,
		AdminName: admin.DisplayName,
		Action:    action,
		Details:   details,
	})
	if err != nil {
		return nil, err
	}
	log.Info().Str("admin_id", adminID.String()).Str("action", action).Msg("audit entry recorded")
	return entry, nil
}
