package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/atinyakov/SmartBrain/internal/db"
	"github.com/atinyakov/SmartBrain/internal/models"
)

// PostgresAuthRepository combines the credential and profile stores for
// registration and sign-in.
type PostgresAuthRepository struct {
	// DB is the database handle for executing queries and transactions.
	DB *sql.DB
}

// NewPostgresAuthRepository creates a new PostgresAuthRepository with the given database connection.
// db must be a valid *sql.DB connected to a PostgreSQL instance.
func NewPostgresAuthRepository(conn *sql.DB) *PostgresAuthRepository {
	return &PostgresAuthRepository{DB: conn}
}

// Register stores the credential and creates the profile in one
// transaction. If either insert fails neither row is kept. A duplicate
// email in either table yields models.ErrConflict.
func (r *PostgresAuthRepository) Register(ctx context.Context, email, name, hash string) (*models.Profile, error) {
	var profile *models.Profile
	err := db.WithTx(ctx, r.DB, func(ctx context.Context, tx db.DBTX) error {
		if err := NewPostgresCredentialRepository(tx).StoreCredential(ctx, email, hash); err != nil {
			return err
		}
		p, err := NewPostgresProfileRepository(tx).CreateProfile(ctx, email, name)
		if err != nil {
			return err
		}
		profile = p
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("register: %w", err)
	}
	return profile, nil
}

// FindCredential looks up the stored hash for email.
func (r *PostgresAuthRepository) FindCredential(ctx context.Context, email string) (*models.Credential, error) {
	return NewPostgresCredentialRepository(r.DB).FindCredential(ctx, email)
}

// GetProfileByEmail returns the profile linked to email.
func (r *PostgresAuthRepository) GetProfileByEmail(ctx context.Context, email string) (*models.Profile, error) {
	return NewPostgresProfileRepository(r.DB).GetProfileByEmail(ctx, email)
}
