package db

import (
	"context"
	"database/sql"
	"time"

	"go.uber.org/zap"
)

const deleteOrphanCredentials = `
DELETE FROM login
 WHERE NOT EXISTS (SELECT 1 FROM users WHERE users.email = login.email)
`

// StartOrphanCredentialCleaner periodically deletes login rows that have no
// matching users row. Registrations made before sign-up became transactional
// could leave such rows behind, and they block the email from registering again.
// The goroutine stops when ctx is cancelled.
func StartOrphanCredentialCleaner(
	ctx context.Context,
	db *sql.DB,
	interval time.Duration,
	log *zap.Logger,
) {
	if interval <= 0 {
		return
	}
	ticker := time.NewTicker(interval)
	go func() {
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				res, err := db.ExecContext(ctx, deleteOrphanCredentials)
				if err != nil {
					log.Error("failed to clean orphan credentials", zap.Error(err))
					continue
				}
				if rows, _ := res.RowsAffected(); rows > 0 {
					log.Info("cleaned orphan credentials", zap.Int64("removed", rows))
				}
			}
		}
	}()
}
