package users

import (
	"context"
	"database/sql"
	"errors"
)

// Repository persists users in Postgres.
type Repository struct {
	db *sql.DB
}

// NewRepository creates a repo.
func NewRepository(db *sql.DB) *Repository {
	return &Repository{db: db}
}

// Create inserts a user with a pre-hashed password.
func (r *Repository) Create(ctx context.Context, name, role, passwordHash string) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO users (name, role, password)
		VALUES ($1, $2, $3)
	`, name, role, passwordHash)
	return err
}

// GetByName returns a user by login name.
func (r *Repository) GetByName(ctx context.Context, name string) (*User, error) {
	row := r.db.QueryRowContext(ctx, `
		SELECT id, name, role, password FROM users WHERE name = $1
	`, name)
	var u User
	if err := row.Scan(&u.ID, &u.Name, &u.Role, &u.PasswordHash); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &u, nil
}

// GetByID returns a user by id.
func (r *Repository) GetByID(ctx context.Context, id int64) (*User, error) {
	row := r.db.QueryRowContext(ctx, `
		SELECT id, name, role, password FROM users WHERE id = $1
	`, id)
	var u User
	if err := row.Scan(&u.ID, &u.Name, &u.Role, &u.PasswordHash); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &u, nil
}

// List returns all users without password hashes.
func (r *Repository) List(ctx context.Context) ([]User, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT id, name, role FROM users ORDER BY id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var res []User
	for rows.Next() {
		var u User
		if err := rows.Scan(&u.ID, &u.Name, &u.Role); err != nil {
			return nil, err
		}
		res = append(res, u)
	}
	return res, rows.Err()
}

// HasRole reports whether the user exists with the given role.
func (r *Repository) HasRole(ctx context.Context, id int64, role string) (bool, error) {
	row := r.db.QueryRowContext(ctx, `
		SELECT 1 FROM users WHERE id = $1 AND role = $2
	`, id, role)
	var one int
	if err := row.Scan(&one); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return false, nil
		}
		return false, err
	}
	return true, nil
}
