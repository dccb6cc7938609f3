package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/atinyakov/SmartBrain/internal/db"
	"github.com/atinyakov/SmartBrain/internal/models"
)

const profileColumns = `id, name, email, entries, joined`

// PostgresProfileRepository stores user profiles in the users table.
type PostgresProfileRepository struct {
	// DB is either the pool or an open transaction.
	DB db.DBTX
}

// NewPostgresProfileRepository creates a profile repository on top of a pool
// or a transaction.
func NewPostgresProfileRepository(conn db.DBTX) *PostgresProfileRepository {
	return &PostgresProfileRepository{DB: conn}
}

// CreateProfile inserts a profile with zero entries joined now and returns
// the stored row.
func (r *PostgresProfileRepository) CreateProfile(ctx context.Context, email, name string) (*models.Profile, error) {
	p, err := scanProfile(r.DB.QueryRowContext(
		ctx,
		`INSERT INTO users (email, name, entries, joined)
		 VALUES ($1, $2, 0, NOW())
		 RETURNING `+profileColumns,
		email, name,
	))
	if err != nil {
		if isUniqueViolation(err) {
			return nil, models.ErrConflict
		}
		return nil, fmt.Errorf("create profile: %w", err)
	}
	return p, nil
}

// GetProfileByID returns the profile with the given id or models.ErrNotFound.
func (r *PostgresProfileRepository) GetProfileByID(ctx context.Context, id int64) (*models.Profile, error) {
	p, err := scanProfile(r.DB.QueryRowContext(
		ctx,
		`SELECT `+profileColumns+` FROM users WHERE id = $1`,
		id,
	))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, models.ErrNotFound
		}
		return nil, fmt.Errorf("get profile by id: %w", err)
	}
	return p, nil
}

// GetProfileByEmail returns the profile registered with email or models.ErrNotFound.
func (r *PostgresProfileRepository) GetProfileByEmail(ctx context.Context, email string) (*models.Profile, error) {
	p, err := scanProfile(r.DB.QueryRowContext(
		ctx,
		`SELECT `+profileColumns+` FROM users WHERE email = $1`,
		email,
	))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, models.ErrNotFound
		}
		return nil, fmt.Errorf("get profile by email: %w", err)
	}
	return p, nil
}

// IncrementEntries bumps the entries counter by one in a single statement
// and returns the new value. Concurrent calls for the same id never lose an
// update because the read-modify-write happens inside PostgreSQL.
func (r *PostgresProfileRepository) IncrementEntries(ctx context.Context, id int64) (int64, error) {
	var entries int64
	err := r.DB.QueryRowContext(
		ctx,
		`UPDATE users SET entries = entries + 1 WHERE id = $1 RETURNING entries`,
		id,
	).Scan(&entries)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return 0, models.ErrNotFound
		}
		return 0, fmt.Errorf("increment entries: %w", err)
	}
	return entries, nil
}

func scanProfile(row *sql.Row) (*models.Profile, error) {
	var (
		p    models.Profile
		name sql.NullString
	)
	if err := row.Scan(&p.ID, &name, &p.Email, &p.Entries, &p.Joined); err != nil {
		return nil, err
	}
	p.Name = name.String
	return &p, nil
}
