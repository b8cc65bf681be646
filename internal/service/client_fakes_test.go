package service

import (
	"context"
	"encoding/json"
	"slices"
	"sync"

	"github.com/MKhiriev/lks-registry/internal/adapter"
	"github.com/MKhiriev/lks-registry/internal/store"
	"github.com/MKhiriev/lks-registry/models"
)

// fakeRemote is an in-memory DocumentStore recording every write.
type fakeRemote struct {
	adapter.DocumentStore

	mu           sync.Mutex
	configs      []json.RawMessage
	docOps       []models.WriteOp
	batches      [][]models.WriteOp
	errs         map[string]error
	subs         map[models.SubscriptionTarget]fakeSubscription
	subscribeErr map[models.SubscriptionTarget]error
	probeErr     error

	// block, when set, holds MergeConfig until it is closed.
	block chan struct{}

	// docs is what the store holds per collection. With echo set every
	// successful record write publishes a fresh snapshot of its collection,
	// the way the server does.
	docs map[models.SubscriptionTarget][]models.Document
	echo bool
}

type fakeSubscription struct {
	onEvent func(models.ChangeEvent)
	onError func(error)
}

func newFakeRemote() *fakeRemote {
	return &fakeRemote{
		errs:         make(map[string]error),
		subs:         make(map[models.SubscriptionTarget]fakeSubscription),
		subscribeErr: make(map[models.SubscriptionTarget]error),
		docs:         make(map[models.SubscriptionTarget][]models.Document),
	}
}

func (r *fakeRemote) ProjectID() string { return "dinsos-kota" }

func (r *fakeRemote) GetConfig(context.Context) (json.RawMessage, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.probeErr != nil {
		return nil, r.probeErr
	}
	return json.RawMessage(`{}`), nil
}

func (r *fakeRemote) MergeConfig(_ context.Context, data json.RawMessage) error {
	r.mu.Lock()
	block := r.block
	r.mu.Unlock()
	if block != nil {
		<-block
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if err := r.errs["config"]; err != nil {
		return err
	}
	r.configs = append(r.configs, data)
	return nil
}

func (r *fakeRemote) MergeDocument(_ context.Context, collection, id string, data json.RawMessage) error {
	op := models.WriteOp{Collection: collection, ID: id, Data: data}
	if err := r.write(op); err != nil {
		return err
	}
	r.echoCollections(op)
	return nil
}

func (r *fakeRemote) DeleteDocument(_ context.Context, collection, id string) error {
	op := models.WriteOp{Collection: collection, ID: id, Delete: true}
	if err := r.write(op); err != nil {
		return err
	}
	r.echoCollections(op)
	return nil
}

func (r *fakeRemote) write(op models.WriteOp) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if err := r.opErr("merge", op.ID); err != nil {
		return err
	}
	r.docOps = append(r.docOps, op)
	r.apply(op)
	return nil
}

func (r *fakeRemote) CommitBatch(_ context.Context, writes []models.WriteOp) error {
	r.mu.Lock()
	for _, op := range writes {
		if err := r.opErr("batch", op.ID); err != nil {
			r.mu.Unlock()
			return err
		}
	}
	r.batches = append(r.batches, append([]models.WriteOp(nil), writes...))
	for _, op := range writes {
		r.apply(op)
	}
	r.mu.Unlock()

	r.echoCollections(writes...)
	return nil
}

// opErr returns the error set for kind, or for kind:id. Callers hold mu.
func (r *fakeRemote) opErr(kind, id string) error {
	if err := r.errs[kind]; err != nil {
		return err
	}
	return r.errs[kind+":"+id]
}

// apply updates the stored documents. Callers hold mu.
func (r *fakeRemote) apply(op models.WriteOp) {
	target := models.SubscriptionTarget(op.Collection)
	docs := slices.DeleteFunc(r.docs[target], func(d models.Document) bool { return d.ID == op.ID })
	if !op.Delete {
		docs = append(docs, models.Document{ID: op.ID, Data: op.Data})
	}
	r.docs[target] = docs
}

func (r *fakeRemote) echoCollections(ops ...models.WriteOp) {
	r.mu.Lock()
	echo := r.echo
	var events []models.ChangeEvent
	for _, op := range ops {
		target := models.SubscriptionTarget(op.Collection)
		if !echo || slices.ContainsFunc(events, func(e models.ChangeEvent) bool { return e.Target == target }) {
			continue
		}
		events = append(events, models.ChangeEvent{Target: target, Documents: slices.Clone(r.docs[target])})
	}
	r.mu.Unlock()

	for _, e := range events {
		r.emit(e)
	}
}

// publish stores the documents of event as the remote state and emits it.
func (r *fakeRemote) publish(event models.ChangeEvent) bool {
	r.mu.Lock()
	r.docs[event.Target] = slices.Clone(event.Documents)
	r.mu.Unlock()
	return r.emit(event)
}

func (r *fakeRemote) setEcho(echo bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.echo = echo
}

func (r *fakeRemote) Subscribe(_ context.Context, target models.SubscriptionTarget,
	onEvent func(models.ChangeEvent), onError func(error)) (func(), error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if err := r.subscribeErr[target]; err != nil {
		return nil, err
	}
	r.subs[target] = fakeSubscription{onEvent: onEvent, onError: onError}

	return func() {
		r.mu.Lock()
		defer r.mu.Unlock()
		delete(r.subs, target)
	}, nil
}

func (r *fakeRemote) setErr(op string, err error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.errs[op] = err
}

func (r *fakeRemote) emit(event models.ChangeEvent) bool {
	r.mu.Lock()
	sub, ok := r.subs[event.Target]
	r.mu.Unlock()
	if ok {
		sub.onEvent(event)
	}
	return ok
}

func (r *fakeRemote) breakSubscription(target models.SubscriptionTarget, err error) bool {
	r.mu.Lock()
	sub, ok := r.subs[target]
	r.mu.Unlock()
	if ok {
		sub.onError(err)
	}
	return ok
}

func (r *fakeRemote) activeSubscriptions() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.subs)
}

func (r *fakeRemote) configCount() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.configs)
}

func (r *fakeRemote) lastConfig() json.RawMessage {
	r.mu.Lock()
	defer r.mu.Unlock()
	if len(r.configs) == 0 {
		return nil
	}
	return r.configs[len(r.configs)-1]
}

func (r *fakeRemote) documentOps() []models.WriteOp {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]models.WriteOp(nil), r.docOps...)
}

func (r *fakeRemote) batchSizes() []int {
	r.mu.Lock()
	defer r.mu.Unlock()
	sizes := make([]int, len(r.batches))
	for i, b := range r.batches {
		sizes[i] = len(b)
	}
	return sizes
}

func opIDs(ops []models.WriteOp) []string {
	ids := make([]string, len(ops))
	for i, op := range ops {
		ids[i] = op.ID
		if op.Delete {
			ids[i] = "-" + op.ID
		}
	}
	return ids
}

// fakeConnector hands out one fakeRemote.
type fakeConnector struct {
	remote *fakeRemote
	err    error

	mu    sync.Mutex
	calls int
}

func (c *fakeConnector) Connect(_ context.Context, cloud models.CloudConfig) (adapter.DocumentStore, error) {
	c.mu.Lock()
	c.calls++
	err := c.err
	c.mu.Unlock()

	if cloud.IsEmpty() {
		return nil, ErrRemoteNotConfigured
	}
	if err != nil {
		return nil, err
	}
	return c.remote, nil
}

func (c *fakeConnector) setErr(err error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.err = err
}

func (c *fakeConnector) callCount() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.calls
}

// memStorage is a LocalStorage kept in a map. A positive quota caps the sum
// of value sizes.
type memStorage struct {
	mu     sync.Mutex
	values map[string]string
	quota  int
	saves  int
}

func newMemStorage() *memStorage {
	return &memStorage{values: make(map[string]string)}
}

func (m *memStorage) Load(_ context.Context, key string) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	v, ok := m.values[key]
	if !ok {
		return "", store.ErrKeyNotFound
	}
	return v, nil
}

func (m *memStorage) SaveAll(_ context.Context, values map[string]string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.quota > 0 {
		size := 0
		for k, v := range m.values {
			if _, replaced := values[k]; !replaced {
				size += len(v)
			}
		}
		for _, v := range values {
			size += len(v)
		}
		if size > m.quota {
			return store.ErrQuotaExceeded
		}
	}

	for k, v := range values {
		m.values[k] = v
	}
	m.saves++
	return nil
}

func (m *memStorage) Close() error { return nil }

func (m *memStorage) setQuota(quota int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.quota = quota
}

func (m *memStorage) value(key string) string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.values[key]
}
