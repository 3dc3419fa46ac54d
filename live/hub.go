package live

import (
	"sync"

	"github.com/google/uuid"
)

// Table names a storage table whose changes can be watched.
type Table string

const (
	Users         Table = "users"
	Clients       Table = "clients"
	Houses        Table = "houses"
	Notifications Table = "notifications"
	AuditLogs     Table = "audit_logs"
)

type watcher struct {
	tables map[Table]struct{}
	notify chan struct{}
}

// Hub fans table change signals out to watchers. Signals coalesce: a watcher
// that has not yet consumed its pending signal is not signalled again.
type Hub struct {
	mu       sync.RWMutex
	seq      uint64
	watchers map[uuid.UUID]*watcher
}

func NewHub() *Hub {
	return &Hub{watchers: make(map[uuid.UUID]*watcher)}
}

// Seq returns the number of changes published so far.
func (h *Hub) Seq() uint64 {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.seq
}

// Publish records one change touching the given tables and marks every
// watcher of any of them dirty. It never blocks on watchers.
func (h *Hub) Publish(tables ...Table) uint64 {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.seq++
	for _, w := range h.watchers {
		if !w.watches(tables) {
			continue
		}
		select {
		case w.notify <- struct{}{}:
		default:
		}
	}
	return h.seq
}

// Watchers returns the number of registered watchers.
func (h *Hub) Watchers() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.watchers)
}

func (h *Hub) register(tables []Table) (uuid.UUID, <-chan struct{}) {
	w := &watcher{
		tables: make(map[Table]struct{}, len(tables)),
		notify: make(chan struct{}, 1),
	}
	for _, t := range tables {
		w.tables[t] = struct{}{}
	}
	id := uuid.New()

	h.mu.Lock()
	h.watchers[id] = w
	h.mu.Unlock()
	return id, w.notify
}

func (h *Hub) unregister(id uuid.UUID) {
	h.mu.Lock()
	delete(h.watchers, id)
	h.mu.Unlock()
}

func (w *watcher) watches(tables []Table) bool {
	for _, t := range tables {
		if _, ok := w.tables[t]; ok {
			return true
		}
	}
	return false
}
