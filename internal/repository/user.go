// Package repository provides PostgreSQL persistence for accounts,
// projects and tasks.
package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/atinyakov/ProjectTracker/internal/apperrors"
	"github.com/atinyakov/ProjectTracker/internal/models"
	"github.com/lib/pq"
)

// PostgresUserRepository implements account persistence using a PostgreSQL database.
type PostgresUserRepository struct {
	// DB is the database handle for executing queries.
	DB *sql.DB
}

// NewPostgresUserRepository creates a new PostgresUserRepository with the given
// database connection. db must be a valid *sql.DB connected to a PostgreSQL instance.
func NewPostgresUserRepository(db *sql.DB) *PostgresUserRepository {
	return &PostgresUserRepository{DB: db}
}

// FindByUsername retrieves the account with the given username.
// Returns apperrors.ErrNotFound if no such account exists.
func (r *PostgresUserRepository) FindByUsername(ctx context.Context, username string) (*models.Account, error) {
	var account models.Account
	err := r.DB.QueryRowContext(
		ctx,
		`SELECT id, username, password_hash FROM users WHERE username = $1`,
		username,
	).Scan(&account.ID, &account.Username, &account.PasswordHash)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, apperrors.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("find user: %w", err)
	}
	return &account, nil
}

// ExistsByUsername checks whether an account with the specified username exists.
// It returns true if the account exists, false otherwise.
func (r *PostgresUserRepository) ExistsByUsername(ctx context.Context, username string) (bool, error) {
	var exists bool
	err := r.DB.QueryRowContext(
		ctx,
		`SELECT EXISTS(SELECT 1 FROM users WHERE username = $1)`,
		username,
	).Scan(&exists)
	return exists, err
}

// Create inserts a new account with the given username and password hash.
// The unique index on username is the last line of defense against two
// concurrent registrations; a violation surfaces as apperrors.ErrConflict.
func (r *PostgresUserRepository) Create(ctx context.Context, username string, passwordHash []byte) (*models.Account, error) {
	var id int64
	err := r.DB.QueryRowContext(
		ctx,
		`INSERT INTO users (username, password_hash) VALUES ($1, $2) RETURNING id`,
		username, passwordHash,
	).Scan(&id)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code.Name() == "unique_violation" {
			return nil, apperrors.ErrConflict
		}
		return nil, fmt.Errorf("create user: %w", err)
	}
	return &models.Account{ID: id, Username: username, PasswordHash: passwordHash}, nil
}
