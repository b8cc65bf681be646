package service

import (
	"context"
	"encoding/json"
	"fmt"
	"maps"
	"slices"

	"github.com/MKhiriev/lks-registry/internal/adapter"
	"github.com/MKhiriev/lks-registry/internal/logger"
	"github.com/MKhiriev/lks-registry/internal/utils"
	"github.com/MKhiriev/lks-registry/models"
)

// collectionBaseline is the last state of a collection known to match the
// remote store: a hash of the whole serialized collection plus one hash per
// record. The zero value means nothing is known to be synced.
type collectionBaseline struct {
	synced  bool
	digest  uint64
	records map[string]uint64
}

// syncBaselines holds one baseline per diffed collection. Values are
// replaced, never mutated, so copies can be handed to a push goroutine.
type syncBaselines struct {
	institutions  collectionBaseline
	beneficiaries collectionBaseline
}

// pushResult reports the outcome of one sync cycle. A baseline pointer is set
// only for collections whose push completed.
type pushResult struct {
	institutions  *collectionBaseline
	beneficiaries *collectionBaseline
	writes        int
	err           error
}

// syncEngine pushes local changes to the remote store. It holds no state of
// its own; the controller owns the baselines.
type syncEngine struct {
	batchSize int
	logger    *logger.Logger
}

func newSyncEngine(batchSize int, logger *logger.Logger) *syncEngine {
	if batchSize <= 0 || batchSize > models.MaxBatchWrites {
		batchSize = models.MaxBatchWrites
	}
	return &syncEngine{batchSize: batchSize, logger: logger}
}

// push runs one cycle: config, then institutions record by record, then
// beneficiaries in batches. It stops at the first failure.
func (e *syncEngine) push(ctx context.Context, remote adapter.DocumentStore, state models.AppState, base syncBaselines) pushResult {
	var res pushResult

	config, err := json.Marshal(state.Config())
	if err != nil {
		res.err = fmt.Errorf("encode config: %w", err)
		return res
	}
	if err = remote.MergeConfig(ctx, config); err != nil {
		res.err = fmt.Errorf("push config: %w", err)
		return res
	}

	ops, next, err := diffCollection(models.CollectionInstitutions, state.Institutions, base.institutions)
	if err != nil {
		res.err = err
		return res
	}
	for _, op := range ops {
		if op.Delete {
			err = remote.DeleteDocument(ctx, op.Collection, op.ID)
		} else {
			err = remote.MergeDocument(ctx, op.Collection, op.ID, op.Data)
		}
		if err != nil {
			res.err = fmt.Errorf("push %s/%s: %w", op.Collection, op.ID, err)
			return res
		}
		res.writes++
	}
	res.institutions = &next

	ops, next, err = diffCollection(models.CollectionBeneficiaries, state.Beneficiaries, base.beneficiaries)
	if err != nil {
		res.err = err
		return res
	}
	for _, chunk := range utils.Chunk(ops, e.batchSize) {
		if err = remote.CommitBatch(ctx, chunk); err != nil {
			res.err = fmt.Errorf("push %s batch: %w", models.CollectionBeneficiaries, err)
			return res
		}
		res.writes += len(chunk)
	}
	res.beneficiaries = &next

	e.logger.Debug().
		Str("project", remote.ProjectID()).
		Int("writes", res.writes).
		Msg("sync cycle pushed")

	return res
}

// diffCollection returns the writes that bring the remote collection from
// base to records, and the baseline describing records. Records that are new
// or whose hash differs are merged; records gone since base are deleted.
func diffCollection[T models.Record](collection string, records []T, base collectionBaseline) ([]models.WriteOp, collectionBaseline, error) {
	whole, err := json.Marshal(nonNilSlice(records))
	if err != nil {
		return nil, base, fmt.Errorf("encode %s: %w", collection, err)
	}

	next := collectionBaseline{
		synced:  true,
		digest:  utils.HashBytes(whole),
		records: make(map[string]uint64, len(records)),
	}
	if base.synced && base.digest == next.digest {
		return nil, base, nil
	}

	var ops []models.WriteOp
	for _, r := range records {
		data, err := json.Marshal(r)
		if err != nil {
			return nil, base, fmt.Errorf("encode %s/%s: %w", collection, r.RecordID(), err)
		}

		hash := utils.HashBytes(data)
		next.records[r.RecordID()] = hash
		if prev, ok := base.records[r.RecordID()]; ok && prev == hash {
			continue
		}
		ops = append(ops, models.WriteOp{Collection: collection, ID: r.RecordID(), Data: data})
	}

	for _, id := range slices.Sorted(maps.Keys(base.records)) {
		if _, ok := next.records[id]; !ok {
			ops = append(ops, models.WriteOp{Collection: collection, ID: id, Delete: true})
		}
	}

	return ops, next, nil
}

// baselineOf describes records as fully synced.
func baselineOf[T models.Record](collection string, records []T) (collectionBaseline, error) {
	_, next, err := diffCollection(collection, records, collectionBaseline{})
	return next, err
}

// keepUnsynced lays the local changes that base does not cover over a remote
// snapshot. A local record missing from base or hashing differently is kept in
// its local version; a record in base but gone locally stays deleted. The
// second result reports whether the outcome differs from remote, i.e. whether
// a push is still owed. Without a synced base the snapshot wins as a whole.
func keepUnsynced[T models.Record](local, remote []T, base collectionBaseline) ([]T, bool) {
	if !base.synced {
		return remote, false
	}

	present := make(map[string]bool, len(local))
	changed := make(map[string]T)
	var order []string
	for _, r := range local {
		id := r.RecordID()
		present[id] = true
		if prev, ok := base.records[id]; ok && prev == recordHash(r) {
			continue
		}
		changed[id] = r
		order = append(order, id)
	}

	merged := make([]T, 0, len(remote)+len(changed))
	seen := make(map[string]bool, len(remote))
	owed := false
	for _, r := range remote {
		id := r.RecordID()
		seen[id] = true

		if mine, ok := changed[id]; ok {
			owed = owed || recordHash(mine) != recordHash(r)
			merged = append(merged, mine)
			continue
		}
		if _, synced := base.records[id]; synced && !present[id] {
			owed = true
			continue
		}
		merged = append(merged, r)
	}
	for _, id := range order {
		if !seen[id] {
			merged = append(merged, changed[id])
			owed = true
		}
	}

	return merged, owed
}

// recordHash hashes the serialized record. Records that do not encode hash to
// zero and therefore always count as changed.
func recordHash[T models.Record](r T) uint64 {
	data, err := json.Marshal(r)
	if err != nil {
		return 0
	}
	return utils.HashBytes(data)
}
