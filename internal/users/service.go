package users

import "context"

// Store is the persistence surface the service needs.
type Store interface {
	Create(ctx context.Context, name, role, passwordHash string) error
	GetByName(ctx context.Context, name string) (*User, error)
	GetByID(ctx context.Context, id int64) (*User, error)
	List(ctx context.Context) ([]User, error)
	HasRole(ctx context.Context, id int64, role string) (bool, error)
}

// Service owns account creation and credential checks.
type Service struct {
	store Store
}

// NewService creates a service backed by a store.
func NewService(store Store) *Service {
	return &Service{store: store}
}

// Authenticate verifies a username/password pair. It returns ErrNotFound for
// an unknown name and ErrBadCredentials for a wrong password, so the handler
// can keep the original 404/401 split.
func (s *Service) Authenticate(ctx context.Context, username, password string) (*User, error) {
	u, err := s.store.GetByName(ctx, username)
	if err != nil {
		return nil, err
	}
	if !CheckPassword(u.PasswordHash, password) {
		return nil, ErrBadCredentials
	}
	return u, nil
}

// Create hashes the password and inserts the account.
func (s *Service) Create(ctx context.Context, username, password, role string) error {
	hash, err := HashPassword(password)
	if err != nil {
		return err
	}
	return s.store.Create(ctx, username, role, hash)
}

// Profile returns id/name/role for a user.
func (s *Service) Profile(ctx context.Context, id int64) (*User, error) {
	return s.store.GetByID(ctx, id)
}

// List returns all users.
func (s *Service) List(ctx context.Context) ([]User, error) {
	return s.store.List(ctx)
}

// IsAgent reports whether the user exists with the Agent role.
func (s *Service) IsAgent(ctx context.Context, id int64) (bool, error) {
	return s.store.HasRole(ctx, id, "Agent")
}
