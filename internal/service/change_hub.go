package service

import (
	"sync"

	"github.com/MKhiriev/lks-registry/models"
)

type hubKey struct {
	projectID string
	target    models.SubscriptionTarget
}

// hubSubscriber holds at most one pending snapshot. A newer snapshot
// replaces an unread one since every snapshot is complete.
type hubSubscriber struct {
	ch chan models.ChangeEvent
}

// changeHub fans snapshots out to the live subscriptions of this process.
type changeHub struct {
	mu   sync.Mutex
	subs map[hubKey]map[*hubSubscriber]struct{}

	// publishMu serialises load+publish per key so snapshots are delivered
	// in write order.
	publishMu sync.Map
}

func newChangeHub() *changeHub {
	return &changeHub{subs: make(map[hubKey]map[*hubSubscriber]struct{})}
}

func (h *changeHub) subscribe(key hubKey) (*hubSubscriber, func()) {
	sub := &hubSubscriber{ch: make(chan models.ChangeEvent, 1)}

	h.mu.Lock()
	if h.subs[key] == nil {
		h.subs[key] = make(map[*hubSubscriber]struct{})
	}
	h.subs[key][sub] = struct{}{}
	h.mu.Unlock()

	var once sync.Once
	return sub, func() {
		once.Do(func() {
			h.mu.Lock()
			delete(h.subs[key], sub)
			if len(h.subs[key]) == 0 {
				delete(h.subs, key)
			}
			h.mu.Unlock()
		})
	}
}

func (h *changeHub) hasSubscribers(key hubKey) bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.subs[key]) > 0
}

func (h *changeHub) lockKey(key hubKey) func() {
	m, _ := h.publishMu.LoadOrStore(key, &sync.Mutex{})
	mu := m.(*sync.Mutex)
	mu.Lock()
	return mu.Unlock
}

func (h *changeHub) publish(key hubKey, event models.ChangeEvent) {
	h.mu.Lock()
	defer h.mu.Unlock()

	for sub := range h.subs[key] {
		select {
		case sub.ch <- event:
		default:
			select {
			case <-sub.ch:
			default:
			}
			select {
			case sub.ch <- event:
			default:
			}
		}
	}
}
