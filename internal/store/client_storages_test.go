package store

import (
	"context"
	"path/filepath"
	"strings"
	"testing"

	"github.com/MKhiriev/lks-registry/internal/config"
	"github.com/MKhiriev/lks-registry/internal/logger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openLocalStorages(t *testing.T, quota int64) map[string]LocalStorage {
	t.Helper()
	dir := t.TempDir()
	ctx := context.Background()

	sqliteStorages, err := NewClientStorages(ctx, config.ClientStorage{
		Driver: DriverSQLite, DSN: filepath.Join(dir, "local.db"), QuotaBytes: quota,
	}, logger.Nop())
	require.NoError(t, err)

	boltStorages, err := NewClientStorages(ctx, config.ClientStorage{
		Driver: DriverBolt, DSN: filepath.Join(dir, "local.bolt"), QuotaBytes: quota,
	}, logger.Nop())
	require.NoError(t, err)

	t.Cleanup(func() {
		sqliteStorages.LocalStorage.Close()
		boltStorages.LocalStorage.Close()
	})

	return map[string]LocalStorage{
		DriverSQLite: sqliteStorages.LocalStorage,
		DriverBolt:   boltStorages.LocalStorage,
	}
}

func TestLocalStorage_SaveAllAndLoad(t *testing.T) {
	for name, s := range openLocalStorages(t, 0) {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()

			_, err := s.Load(ctx, "app_name")
			assert.ErrorIs(t, err, ErrKeyNotFound)

			require.NoError(t, s.SaveAll(ctx, map[string]string{
				"app_name": `"Dinsos"`,
				"lks":      `[]`,
			}))
			require.NoError(t, s.SaveAll(ctx, map[string]string{"app_name": `"Dinsos Kota"`}))

			v, err := s.Load(ctx, "app_name")
			require.NoError(t, err)
			assert.Equal(t, `"Dinsos Kota"`, v)

			v, err = s.Load(ctx, "lks")
			require.NoError(t, err)
			assert.Equal(t, `[]`, v)
		})
	}
}

func TestLocalStorage_QuotaExceededWritesNothing(t *testing.T) {
	for name, s := range openLocalStorages(t, 64) {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()

			require.NoError(t, s.SaveAll(ctx, map[string]string{"app_name": `"Dinsos"`}))

			err := s.SaveAll(ctx, map[string]string{
				"app_name": `"Renamed"`,
				"lks":      `"` + strings.Repeat("x", 100) + `"`,
			})
			assert.ErrorIs(t, err, ErrQuotaExceeded)

			v, err := s.Load(ctx, "app_name")
			require.NoError(t, err)
			assert.Equal(t, `"Dinsos"`, v, "a rejected save must not update any key")

			_, err = s.Load(ctx, "lks")
			assert.ErrorIs(t, err, ErrKeyNotFound)
		})
	}
}

func TestLocalStorage_QuotaCountsReplacedKeysOnce(t *testing.T) {
	for name, s := range openLocalStorages(t, 40) {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			value := `"` + strings.Repeat("x", 20) + `"`

			require.NoError(t, s.SaveAll(ctx, map[string]string{"k": value}))
			// rewriting the same key must not double count
			require.NoError(t, s.SaveAll(ctx, map[string]string{"k": value}))
		})
	}
}

func TestLocalStorage_QuotaCountsBytesNotCharacters(t *testing.T) {
	for name, s := range openLocalStorages(t, 40) {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()

			// 3 + 22 bytes but only 15 characters
			require.NoError(t, s.SaveAll(ctx, map[string]string{"lks": `"` + strings.Repeat("é", 10) + `"`}))

			err := s.SaveAll(ctx, map[string]string{"pm": `"` + strings.Repeat("x", 12) + `"`})
			assert.ErrorIs(t, err, ErrQuotaExceeded, "25 stored + 16 new bytes exceed 40")
		})
	}
}

func TestNewClientStorages_UnknownDriver(t *testing.T) {
	_, err := NewClientStorages(context.Background(), config.ClientStorage{Driver: "leveldb", DSN: "x"}, logger.Nop())
	assert.ErrorIs(t, err, ErrUnknownDriver)
}

func TestProjectedSize(t *testing.T) {
	existing := map[string]int64{"a": 10, "b": 20}
	values := map[string]string{"b": "xyz", "c": "12"}

	// a stays (10), b is replaced by len("b")+len("xyz") = 4, c adds 3
	assert.Equal(t, int64(17), projectedSize(existing, values))
}
