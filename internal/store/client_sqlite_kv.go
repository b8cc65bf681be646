package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/MKhiriev/lks-registry/internal/logger"
	"github.com/mattn/go-sqlite3"
)

const (
	selectKVValue = `SELECT value FROM kv WHERE key = ?;`
	selectKVSizes = `SELECT key, LENGTH(CAST(key AS BLOB)) + LENGTH(CAST(value AS BLOB)) FROM kv;`
	upsertKV      = `INSERT INTO kv (key, value, updated_at) VALUES (?, ?, CURRENT_TIMESTAMP)
		ON CONFLICT(key) DO UPDATE SET value = excluded.value, updated_at = excluded.updated_at;`
)

// sqliteKV is the default [LocalStorage] backend.
type sqliteKV struct {
	db         *DB
	quotaBytes int64
	logger     *logger.Logger
}

// NewSQLiteStorage wraps an open client database. quotaBytes <= 0 disables
// the quota check.
func NewSQLiteStorage(db *DB, quotaBytes int64, log *logger.Logger) LocalStorage {
	return &sqliteKV{db: db, quotaBytes: quotaBytes, logger: log}
}

func (s *sqliteKV) Load(ctx context.Context, key string) (string, error) {
	var value string
	err := s.db.QueryRowContext(ctx, selectKVValue, key).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return "", ErrKeyNotFound
	}
	if err != nil {
		return "", fmt.Errorf("%w: %w", ErrExecutingQuery, err)
	}

	return value, nil
}

func (s *sqliteKV) SaveAll(ctx context.Context, values map[string]string) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrBeginningTransaction, mapSQLiteError(err))
	}
	defer tx.Rollback()

	if s.quotaBytes > 0 {
		existing, err := s.sizes(ctx, tx)
		if err != nil {
			return err
		}
		if total := projectedSize(existing, values); total > s.quotaBytes {
			s.logger.Warn().
				Str("func", "sqliteKV.SaveAll").
				Int64("projected_bytes", total).
				Int64("quota_bytes", s.quotaBytes).
				Msg("local save rejected by quota")
			return ErrQuotaExceeded
		}
	}

	for key, value := range values {
		if _, err := tx.ExecContext(ctx, upsertKV, key, value); err != nil {
			return fmt.Errorf("%w: %w", ErrExecutingStatement, mapSQLiteError(err))
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("%w: %w", ErrCommitingTransaction, mapSQLiteError(err))
	}

	return nil
}

func (s *sqliteKV) sizes(ctx context.Context, tx *sql.Tx) (map[string]int64, error) {
	rows, err := tx.QueryContext(ctx, selectKVSizes)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrExecutingQuery, err)
	}
	defer rows.Close()

	sizes := make(map[string]int64)
	for rows.Next() {
		var (
			key  string
			size int64
		)
		if err := rows.Scan(&key, &size); err != nil {
			return nil, fmt.Errorf("%w: %w", ErrScanningRow, err)
		}
		sizes[key] = size
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrScanningRows, err)
	}

	return sizes, nil
}

func (s *sqliteKV) Close() error {
	return s.db.Close()
}

// mapSQLiteError turns SQLITE_FULL into [ErrQuotaExceeded].
func mapSQLiteError(err error) error {
	var sqliteErr sqlite3.Error
	if errors.As(err, &sqliteErr) && sqliteErr.Code == sqlite3.ErrFull {
		return fmt.Errorf("%w: %w", ErrQuotaExceeded, err)
	}
	return err
}

// projectedSize is the store size after values replace their keys in
// existing.
func projectedSize(existing map[string]int64, values map[string]string) int64 {
	var total int64
	for key, size := range existing {
		if _, replaced := values[key]; !replaced {
			total += size
		}
	}
	for key, value := range values {
		total += int64(len(key) + len(value))
	}
	return total
}
