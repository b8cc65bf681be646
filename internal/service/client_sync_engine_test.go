package service

import (
	"context"
	"encoding/json"
	"fmt"
	"testing"

	"github.com/MKhiriev/lks-registry/internal/adapter"
	"github.com/MKhiriev/lks-registry/internal/logger"
	"github.com/MKhiriev/lks-registry/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func institution(id, name string) models.Institution {
	return models.Institution{ID: id, Name: name}
}

func beneficiaries(n int) []models.Beneficiary {
	out := make([]models.Beneficiary, n)
	for i := range out {
		out[i] = models.Beneficiary{ID: fmt.Sprintf("pm-%03d", i), InstitutionID: "lks-a", Name: fmt.Sprintf("PM %d", i)}
	}
	return out
}

// applyResult mirrors what the controller does with a push result.
func applyResult(base syncBaselines, res pushResult) syncBaselines {
	if res.institutions != nil {
		base.institutions = *res.institutions
	}
	if res.beneficiaries != nil {
		base.beneficiaries = *res.beneficiaries
	}
	return base
}

func TestDiffCollection_OnlyEditedRecord(t *testing.T) {
	a, b := institution("lks-a", "Panti A"), institution("lks-b", "Panti B")
	base, err := baselineOf(models.CollectionInstitutions, []models.Institution{a, b})
	require.NoError(t, err)

	a.Address = "Jl. Merdeka 1"
	ops, next, err := diffCollection(models.CollectionInstitutions, []models.Institution{a, b}, base)
	require.NoError(t, err)

	require.Len(t, ops, 1)
	assert.Equal(t, "lks-a", ops[0].ID)
	assert.Equal(t, models.CollectionInstitutions, ops[0].Collection)
	assert.False(t, ops[0].Delete)

	var pushed models.Institution
	require.NoError(t, json.Unmarshal(ops[0].Data, &pushed))
	assert.Equal(t, a, pushed)

	want, err := baselineOf(models.CollectionInstitutions, []models.Institution{a, b})
	require.NoError(t, err)
	assert.Equal(t, want, next)
}

func TestDiffCollection_Unchanged(t *testing.T) {
	records := []models.Institution{institution("lks-a", "Panti A")}
	base, err := baselineOf(models.CollectionInstitutions, records)
	require.NoError(t, err)

	ops, next, err := diffCollection(models.CollectionInstitutions, records, base)
	require.NoError(t, err)
	assert.Empty(t, ops)
	assert.Equal(t, base, next)
}

func TestDiffCollection_DeletedRecords(t *testing.T) {
	all := []models.Institution{institution("lks-a", "A"), institution("lks-b", "B"), institution("lks-c", "C")}
	base, err := baselineOf(models.CollectionInstitutions, all)
	require.NoError(t, err)

	ops, _, err := diffCollection(models.CollectionInstitutions, all[1:2], base)
	require.NoError(t, err)
	assert.Equal(t, []string{"-lks-a", "-lks-c"}, opIDs(ops))
}

func TestDiffCollection_EmptyBaselinePushesAll(t *testing.T) {
	ops, next, err := diffCollection(models.CollectionBeneficiaries, beneficiaries(3), collectionBaseline{})
	require.NoError(t, err)
	assert.Len(t, ops, 3)
	assert.True(t, next.synced)
	assert.Len(t, next.records, 3)

	// пустая коллекция без базовой линии не даёт записей
	ops, _, err = diffCollection[models.Beneficiary](models.CollectionBeneficiaries, nil, collectionBaseline{})
	require.NoError(t, err)
	assert.Empty(t, ops)
}

func TestSyncEngine_BatchesBeneficiariesInChunksOf50(t *testing.T) {
	remote := newFakeRemote()
	engine := newSyncEngine(50, logger.Nop())

	state := models.AppState{Beneficiaries: beneficiaries(120)}
	res := engine.push(context.Background(), remote, state, syncBaselines{})

	require.NoError(t, res.err)
	assert.Equal(t, []int{50, 50, 20}, remote.batchSizes())
	assert.Equal(t, 120, res.writes)
	assert.Empty(t, remote.documentOps())
}

func TestSyncEngine_SecondRunWritesNothing(t *testing.T) {
	remote := newFakeRemote()
	engine := newSyncEngine(50, logger.Nop())
	state := models.AppState{
		AppName:       "Dinas Sosial",
		Institutions:  []models.Institution{institution("lks-a", "A"), institution("lks-b", "B")},
		Beneficiaries: beneficiaries(7),
	}

	first := engine.push(context.Background(), remote, state, syncBaselines{})
	require.NoError(t, first.err)
	assert.Equal(t, 9, first.writes)

	second := engine.push(context.Background(), remote, state, applyResult(syncBaselines{}, first))
	require.NoError(t, second.err)
	assert.Equal(t, 0, second.writes)
	assert.Len(t, remote.documentOps(), 2)
	assert.Equal(t, []int{7}, remote.batchSizes())

	// the config blob is written on every cycle
	assert.Equal(t, 2, remote.configCount())
}

func TestSyncEngine_ConfigBlob(t *testing.T) {
	remote := newFakeRemote()
	engine := newSyncEngine(50, logger.Nop())
	state := models.AppState{
		AppName: "Dinas Sosial",
		AppLogo: "data:image/png;base64,AA==",
		Users:   []models.User{{Username: "admin", Role: models.RoleAdmin, PasswordHash: "$2a$"}},
	}

	require.NoError(t, engine.push(context.Background(), remote, state, syncBaselines{}).err)

	var blob map[string]any
	require.NoError(t, json.Unmarshal(remote.lastConfig(), &blob))
	assert.Equal(t, "Dinas Sosial", blob["appName"])
	assert.EqualValues(t, models.ConfigSchemaVersion, blob["schemaVersion"])
	assert.Equal(t, []any{}, blob["letters"])
	assert.Equal(t, []any{}, blob["notifications"])
	assert.Len(t, blob["users"], 1)
}

func TestSyncEngine_FailureKeepsBaseline(t *testing.T) {
	remote := newFakeRemote()
	engine := newSyncEngine(50, logger.Nop())
	state := models.AppState{
		Institutions:  []models.Institution{institution("lks-a", "A")},
		Beneficiaries: beneficiaries(2),
	}

	remote.setErr("batch", fmt.Errorf("commit: %w", adapter.ErrPayloadTooLarge))
	res := engine.push(context.Background(), remote, state, syncBaselines{})

	require.ErrorIs(t, res.err, adapter.ErrPayloadTooLarge)
	assert.NotNil(t, res.institutions, "institutions were pushed before the failure")
	assert.Nil(t, res.beneficiaries)

	remote.setErr("batch", nil)
	base := applyResult(syncBaselines{}, res)
	retry := engine.push(context.Background(), remote, state, base)
	require.NoError(t, retry.err)
	assert.Equal(t, 2, retry.writes, "the same beneficiaries are sent again")
	assert.Len(t, remote.documentOps(), 1, "institutions are not sent twice")
}

func TestSyncEngine_StopsAtConfigFailure(t *testing.T) {
	remote := newFakeRemote()
	engine := newSyncEngine(50, logger.Nop())
	remote.setErr("config", adapter.ErrForbidden)

	res := engine.push(context.Background(), remote, models.AppState{
		Institutions: []models.Institution{institution("lks-a", "A")},
	}, syncBaselines{})

	require.ErrorIs(t, res.err, adapter.ErrForbidden)
	assert.Nil(t, res.institutions)
	assert.Nil(t, res.beneficiaries)
	assert.Empty(t, remote.documentOps())
}

func TestNewSyncEngine_ClampsBatchSize(t *testing.T) {
	assert.Equal(t, models.MaxBatchWrites, newSyncEngine(0, logger.Nop()).batchSize)
	assert.Equal(t, models.MaxBatchWrites, newSyncEngine(500, logger.Nop()).batchSize)
	assert.Equal(t, 10, newSyncEngine(10, logger.Nop()).batchSize)
}

func TestKeepUnsynced(t *testing.T) {
	a, b, c := institution("lks-a", "A"), institution("lks-b", "B"), institution("lks-c", "C")
	edited := a
	edited.Phone = "0271-555"
	remoteEdit := b
	remoteEdit.Head = "Bu Sri"

	synced, err := baselineOf(models.CollectionInstitutions, []models.Institution{a, b, c})
	require.NoError(t, err)

	tests := []struct {
		name   string
		local  []models.Institution
		remote []models.Institution
		base   collectionBaseline
		want   []models.Institution
		owed   bool
	}{
		{
			name:   "no synced base takes the snapshot",
			local:  []models.Institution{edited, institution("lks-x", "X")},
			remote: []models.Institution{b},
			want:   []models.Institution{b},
		},
		{
			name:   "clean local follows remote edits and deletes",
			local:  []models.Institution{a, b, c},
			remote: []models.Institution{a, remoteEdit},
			base:   synced,
			want:   []models.Institution{a, remoteEdit},
		},
		{
			name:   "new local record is appended",
			local:  []models.Institution{a, b, c, institution("lks-x", "X")},
			remote: []models.Institution{a, b, c},
			base:   synced,
			want:   []models.Institution{a, b, c, institution("lks-x", "X")},
			owed:   true,
		},
		{
			name:   "local edit wins over the snapshot",
			local:  []models.Institution{edited, b, c},
			remote: []models.Institution{a, remoteEdit, c},
			base:   synced,
			want:   []models.Institution{edited, remoteEdit, c},
			owed:   true,
		},
		{
			name:   "echo of the local edit owes nothing",
			local:  []models.Institution{edited, b, c},
			remote: []models.Institution{edited, b, c},
			base:   synced,
			want:   []models.Institution{edited, b, c},
		},
		{
			name:   "local delete stays deleted",
			local:  []models.Institution{a, b},
			remote: []models.Institution{a, b, c},
			base:   synced,
			want:   []models.Institution{a, b},
			owed:   true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, owed := keepUnsynced(tt.local, tt.remote, tt.base)
			assert.Equal(t, tt.want, got)
			assert.Equal(t, tt.owed, owed)
		})
	}
}
