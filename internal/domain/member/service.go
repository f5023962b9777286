package member

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/sacco-portal/sacco-api/internal/ledger"
)

// Service owns member account management. Member-facing calls operate on the
// caller's own profile; admin calls manage the whole roster.
type Service struct {
	store ledger.Store
}

// NewService creates a member service
func NewService(store ledger.Store) *Service {
	return &Service{store: store}
}

// Get returns a member by id.
func (s *Service) Get(ctx context.Context, id uuid.UUID) (*ledger.Member, error) {
	m, err := s.store.GetMember(ctx, id)
	if err != nil {
		if errors.Is(err, ledger.ErrNotFound) {
			return nil, ErrMemberNotFound
		}
		return nil, err
	}
	return m, nil
}

// List returns all members.
func (s *Service) List(ctx context.Context) ([]ledger.Member, error) {
	return s.store.ListMembers(ctx)
}

// Create registers a new member account. The display name defaults to the
// username when not provided; photo URLs are external references only.
func (s *Service) Create(ctx context.Context, username, displayName string, photoURL *string) (*ledger.Member, error) {
	username = strings.TrimSpace(username)
	if username == "" {
		return nil, ErrMissingUsername
	}
	if strings.TrimSpace(displayName) == "" {
		displayName = username
	}

	m, err := s.store.CreateMember(ctx, ledger.Member{
		Username:    username,
		DisplayName: displayName,
		PhotoURL:    photoURL,
	})
	if err != nil {
		return nil, err
	}
	log.Info().Str("member_id", m.ID.String()).Str("username", m.Username).Msg("member created")
	return m, nil
}

// Update applies a partial profile update. At least one field must be set.
func (s *Service) Update(ctx context.Context, id uuid.UUID, upd ledger.MemberUpdate) (*ledger.Member, error) {
	if upd.Username == nil && upd.DisplayName == nil && upd.PhotoURL == nil {
		return nil, ErrNothingToUpdate
	}
	if upd.Username != nil && strings.TrimSpace(*upd.Username) == "" {
		return nil, ErrMissingUsername
	}

	m, err := s.store.UpdateMember(ctx, id, upd)
	if err != nil {
		if errors.Is(err, ledger.ErrNotFound) {
			return nil, ErrMemberNotFound
		}
		return nil, err
	}
	return m, nil
}

// Delete removes a member and all their savings, profits and loans, and
// appends an audit entry for the acting admin. The audit append is
// best-effort: a failure is logged but the deletion stands.
func (s *Service) Delete(ctx context.Context, adminID, memberID uuid.UUID) error {
	admin, err := s.store.GetAdmin(ctx, adminID)
	if err != nil {
		return err
	}

	m, err := s.store.GetMember(ctx, memberID)
	if err != nil {
		if errors.Is(err, ledger.ErrNotFound) {
			return ErrMemberNotFound
		}
		return err
	}

	if err := s.store.DeleteMember(ctx, memberID); err != nil {
		return err
	}

	if _, err := s.store.AppendAuditLog(ctx, ledger.AuditLogEntry{
		AdminID:   admin.ID,
		AdminName: admin.DisplayName,
		Action:    fmt.Sprintf("Deleted member %s", m.DisplayName),
		Details: map[string]any{
			"memberId": memberID.String(),
			"username": m.Username,
		},
	}); err != nil {
		log.Warn().Err(err).Str("member_id", memberID.String()).Msg("audit append failed for member deletion")
	}

	log.Info().Str("member_id", memberID.String()).Str("admin_id", adminID.String()).Msg("member deleted")
	return nil
}
