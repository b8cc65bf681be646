package store

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"syscall"
	"time"

	"github.com/MKhiriev/lks-registry/internal/logger"
	"go.etcd.io/bbolt"
)

var kvBucket = []byte("kv")

// boltKV is the bbolt [LocalStorage] backend, selected with the "bolt"
// driver.
type boltKV struct {
	db         *bbolt.DB
	quotaBytes int64
	logger     *logger.Logger
}

// NewBoltStorage opens (or creates) the bolt file at path.
func NewBoltStorage(path string, quotaBytes int64, log *logger.Logger) (LocalStorage, error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("error creating bolt dir: %w", err)
		}
	}

	db, err := bbolt.Open(path, 0o600, &bbolt.Options{Timeout: time.Second})
	if err != nil {
		return nil, fmt.Errorf("error opening bolt file: %w", err)
	}

	if err := db.Update(func(tx *bbolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists(kvBucket)
		return err
	}); err != nil {
		db.Close()
		return nil, fmt.Errorf("error creating bolt bucket: %w", err)
	}

	return &boltKV{db: db, quotaBytes: quotaBytes, logger: log}, nil
}

func (s *boltKV) Load(_ context.Context, key string) (string, error) {
	var value string
	err := s.db.View(func(tx *bbolt.Tx) error {
		v := tx.Bucket(kvBucket).Get([]byte(key))
		if v == nil {
			return ErrKeyNotFound
		}
		value = string(v)
		return nil
	})

	return value, err
}

func (s *boltKV) SaveAll(_ context.Context, values map[string]string) error {
	err := s.db.Update(func(tx *bbolt.Tx) error {
		bucket := tx.Bucket(kvBucket)

		if s.quotaBytes > 0 {
			existing := make(map[string]int64)
			if err := bucket.ForEach(func(k, v []byte) error {
				existing[string(k)] = int64(len(k) + len(v))
				return nil
			}); err != nil {
				return err
			}
			if total := projectedSize(existing, values); total > s.quotaBytes {
				s.logger.Warn().
					Str("func", "boltKV.SaveAll").
					Int64("projected_bytes", total).
					Int64("quota_bytes", s.quotaBytes).
					Msg("local save rejected by quota")
				return ErrQuotaExceeded
			}
		}

		for key, value := range values {
			if err := bucket.Put([]byte(key), []byte(value)); err != nil {
				return err
			}
		}
		return nil
	})

	if err != nil && !errors.Is(err, ErrQuotaExceeded) && errors.Is(err, syscall.ENOSPC) {
		return fmt.Errorf("%w: %w", ErrQuotaExceeded, err)
	}
	return err
}

func (s *boltKV) Close() error {
	return s.db.Close()
}
