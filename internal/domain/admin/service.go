package admin

import (
	"context"
	"errors"

	"github.com/google/uuid"

	"github.com/sacco-portal/sacco-api/internal/ledger"
)

var ErrAdminNotFound = errors.New("admin not found")

// Service exposes the seeded administrator roster. Admins are static: there
// is no self-service creation or mutation.
type Service struct {
	store ledger.Store
}

// NewService creates an admin service
func NewService(store ledger.Store) *Service {
	return &Service{store: store}
}

// List returns all administrators.
func (s *Service) List(ctx context.Context) ([]ledger.Admin, error) {
	return s.store.ListAdmins(ctx)
}

// Get returns an administrator by id.
func (s *Service) Get(ctx context.Context, id uuid.UUID) (*ledger.Admin, error) {
	a, err := s.store.GetAdmin(ctx, id)
	if err != nil {
		if errors.Is(err, ledger.ErrNotFound) {
			return nil, ErrAdminNotFound
		}
		return nil, err
	}
	return a, nil
}
