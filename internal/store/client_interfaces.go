package store

import (
	"context"
)

//go:generate mockgen -source=client_interfaces.go -destination=../mock/client_store_mock.go -package=mock

// LocalStorage is the client's durable key-value store. Values are JSON
// documents kept as strings.
type LocalStorage interface {
	// Load returns the value of key or [ErrKeyNotFound].
	Load(ctx context.Context, key string) (string, error)

	// SaveAll writes every key of values atomically: either all keys are
	// updated or none is. It returns [ErrQuotaExceeded] when the store would
	// grow beyond its quota.
	SaveAll(ctx context.Context, values map[string]string) error

	Close() error
}
