package services

import (
	"context"
	"log"
	"sync"
	"time"

	"security-monitor/cache"
	"security-monitor/entities"
	"security-monitor/repositories"
)

// maxPendingAudit bounds the in-memory backlog when the store is unavailable.
const maxPendingAudit = 10_000

// flushChunk is how many entries one CreateBatch call receives.
const flushChunk = 500

// AuditProcessor buffers audit entries and writes them in batches on a
// ticker, pruning entries older than the retention window.
type AuditProcessor struct {
	buffer    *cache.AuditBuffer
	repo      repositories.AuditLogRepository
	interval  time.Duration
	retention time.Duration

	wg sync.WaitGroup
}

func NewAuditProcessor(repo repositories.AuditLogRepository, interval, retention time.Duration) *AuditProcessor {
	if interval <= 0 {
		interval = 30 * time.Second
	}
	return &AuditProcessor{
		buffer:    cache.NewAuditBuffer(maxPendingAudit),
		repo:      repo,
		interval:  interval,
		retention: retention,
	}
}

func (ap *AuditProcessor) Record(entry entities.AuditLog) {
	if !ap.buffer.Add(entry) {
		log.Printf("Audit buffer full, dropping %s entry for user %d", entry.Action, entry.UserID)
	}
}

// Start flushes on every tick until ctx is done, then flushes once more.
func (ap *AuditProcessor) Start(ctx context.Context) {
	ap.wg.Add(1)
	go func() {
		defer ap.wg.Done()
		ticker := time.NewTicker(ap.interval)
		defer ticker.Stop()

		ap.Prune(ctx)
		for {
			select {
			case <-ticker.C:
				ap.Flush(ctx)
				ap.Prune(ctx)
			case <-ctx.Done():
				ap.Flush(context.WithoutCancel(ctx))
				return
			}
		}
	}()
}

// Wait blocks until the goroutine started by Start has finished.
func (ap *AuditProcessor) Wait() {
	ap.wg.Wait()
}

// Flush writes all pending entries in chunks of flushChunk. A chunk that
// fails is retried row by row so one bad entry cannot hold back the rest.
// Rows that still fail are dropped when anything else was written and
// requeued otherwise, since then the store itself is likely unavailable.
func (ap *AuditProcessor) Flush(ctx context.Context) int {
	entries := ap.buffer.Drain()
	if len(entries) == 0 {
		return 0
	}

	written := 0
	var failed []entities.AuditLog
	for start := 0; start < len(entries); start += flushChunk {
		chunk := entries[start:min(start+flushChunk, len(entries))]
		err := ap.repo.CreateBatch(ctx, chunk)
		if err == nil {
			written += len(chunk)
			continue
		}
		log.Printf("Error inserting %d audit entries, retrying one by one: %v", len(chunk), err)
		for i := range chunk {
			if _, err := ap.repo.Create(ctx, &chunk[i]); err != nil {
				failed = append(failed, chunk[i])
				continue
			}
			written++
		}
	}

	if len(failed) > 0 {
		if written == 0 {
			log.Printf("Requeueing %d audit entries", len(failed))
			ap.buffer.Requeue(failed)
		} else {
			log.Printf("Dropping %d audit entries that could not be stored", len(failed))
		}
	}
	if written > 0 {
		log.Printf("Inserted %d audit entries", written)
	}
	return written
}

// Prune deletes entries older than the retention window. A zero window
// keeps everything.
func (ap *AuditProcessor) Prune(ctx context.Context) int64 {
	if ap.retention <= 0 {
		return 0
	}
	n, err := ap.repo.DeleteOlderThan(ctx, time.Now().Add(-ap.retention))
	if err != nil {
		log.Printf("Error pruning audit log: %v", err)
		return 0
	}
	if n > 0 {
		log.Printf("Pruned %d audit entries older than %s", n, ap.retention)
	}
	return n
}

func (ap *AuditProcessor) GetBufferStats() map[string]interface{} {
	return ap.buffer.Stats()
}
