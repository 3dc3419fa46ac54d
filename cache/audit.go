package cache

import (
	"sort"
	"sync"
	"time"

	"security-monitor/entities"
)

type AuditEntry struct {
	Entry    entities.AuditLog
	QueuedAt time.Time
}

// AuditBuffer holds audit entries in memory until they are written in bulk.
// Once limit entries are pending, new ones are dropped and counted.
type AuditBuffer struct {
	mu      sync.RWMutex
	pending map[uint][]AuditEntry // map[userID][]entries
	limit   int
	size    int
	dropped int
}

func NewAuditBuffer(limit int) *AuditBuffer {
	return &AuditBuffer{
		pending: make(map[uint][]AuditEntry),
		limit:   limit,
	}
}

// Add queues an entry and reports whether it was kept.
func (b *AuditBuffer) Add(entry entities.AuditLog) bool {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.limit > 0 && b.size >= b.limit {
		b.dropped++
		return false
	}
	if entry.ActionDate.IsZero() {
		entry.ActionDate = time.Now()
	}
	b.pending[entry.UserID] = append(b.pending[entry.UserID], AuditEntry{Entry: entry, QueuedAt: time.Now()})
	b.size++
	return true
}

// Drain empties the buffer and returns its entries in queue order.
func (b *AuditBuffer) Drain() []entities.AuditLog {
	b.mu.Lock()
	all := make([]AuditEntry, 0, b.size)
	for _, entries := range b.pending {
		all = append(all, entries...)
	}
	b.pending = make(map[uint][]AuditEntry)
	b.size = 0
	b.mu.Unlock()

	sort.SliceStable(all, func(i, j int) bool { return all[i].QueuedAt.Before(all[j].QueuedAt) })
	out := make([]entities.AuditLog, len(all))
	for i, e := range all {
		out[i] = e.Entry
	}
	return out
}

// Requeue puts back entries whose write failed. The limit is not applied.
func (b *AuditBuffer) Requeue(entries []entities.AuditLog) {
	b.mu.Lock()
	defer b.mu.Unlock()
	now := time.Now()
	for _, e := range entries {
		b.pending[e.UserID] = append(b.pending[e.UserID], AuditEntry{Entry: e, QueuedAt: now})
		b.size++
	}
}

func (b *AuditBuffer) Pending() int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.size
}

func (b *AuditBuffer) Stats() map[string]interface{} {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return map[string]interface{}{
		"users":   len(b.pending),
		"pending": b.size,
		"dropped": b.dropped,
		"limit":   b.limit,
	}
}
