// Package repository provides PostgreSQL persistence for credentials and
// user profiles.
package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/atinyakov/SmartBrain/internal/db"
	"github.com/atinyakov/SmartBrain/internal/models"
)

// PostgresCredentialRepository stores email/hash pairs in the login table.
type PostgresCredentialRepository struct {
	// DB is either the pool or an open transaction.
	DB db.DBTX
}

// NewPostgresCredentialRepository creates a credential repository on top of
// a pool or a transaction.
func NewPostgresCredentialRepository(conn db.DBTX) *PostgresCredentialRepository {
	return &PostgresCredentialRepository{DB: conn}
}

// StoreCredential inserts a new login row. A duplicate email yields
// models.ErrConflict.
func (r *PostgresCredentialRepository) StoreCredential(ctx context.Context, email, hash string) error {
	_, err := r.DB.ExecContext(
		ctx,
		`INSERT INTO login (hash, email) VALUES ($1, $2)`,
		hash, email,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return models.ErrConflict
		}
		return fmt.Errorf("store credential: %w", err)
	}
	return nil
}

// FindCredential looks up the login row for email. It returns
// models.ErrNotFound when there is none.
func (r *PostgresCredentialRepository) FindCredential(ctx context.Context, email string) (*models.Credential, error) {
	c := &models.Credential{}
	err := r.DB.QueryRowContext(
		ctx,
		`SELECT email, hash FROM login WHERE email = $1`,
		email,
	).Scan(&c.Email, &c.Hash)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, models.ErrNotFound
		}
		return nil, fmt.Errorf("find credential: %w", err)
	}
	return c, nil
}
