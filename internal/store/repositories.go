package store

import (
	"context"
	"fmt"

	"github.com/MKhiriev/lks-registry/internal/config"
	"github.com/MKhiriev/lks-registry/internal/logger"
)

// Repositories groups the server-side repositories.
type Repositories struct {
	DocumentRepository DocumentRepository

	db *DB
}

// NewRepositories connects to PostgreSQL, applies migrations and builds the
// repositories on top of the connection.
func NewRepositories(ctx context.Context, cfg config.DB, log *logger.Logger) (*Repositories, error) {
	log.Info().Msg("creating new repositories...")

	db, err := NewConnectPostgres(ctx, cfg, log)
	if err != nil {
		return nil, fmt.Errorf("postgres connection error: %w", err)
	}

	if err := db.Migrate(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("migration failed: %w", err)
	}

	return &Repositories{
		DocumentRepository: NewDocumentRepository(db, log),
		db:                 db,
	}, nil
}

// Close releases the database connection pool.
func (r *Repositories) Close() error {
	if r.db == nil {
		return nil
	}
	return r.db.Close()
}
