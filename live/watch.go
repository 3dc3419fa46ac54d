package live

import "context"

// Snapshot is one delivery of a live query. Seq is the hub sequence observed
// before the query ran, so every change up to Seq is reflected in Data.
type Snapshot[T any] struct {
	Seq  uint64
	Data T
	Err  error
}

// Subscription delivers a fresh Snapshot after every change to its tables.
type Subscription[T any] struct {
	updates chan Snapshot[T]
	cancel  context.CancelFunc
	done    chan struct{}
}

// Watch runs query immediately and again after each change published on any
// of tables, until ctx is cancelled or Close is called. Changes that land
// while a query runs trigger one more run, so the last snapshot is never
// stale. Snapshots are delivered in order with non-decreasing Seq.
func Watch[T any](ctx context.Context, hub *Hub, query func(context.Context) (T, error), tables ...Table) *Subscription[T] {
	ctx, cancel := context.WithCancel(ctx)
	s := &Subscription[T]{
		updates: make(chan Snapshot[T]),
		cancel:  cancel,
		done:    make(chan struct{}),
	}

	// register before the first query so no change is missed in between
	id, dirty := hub.register(tables)

	go func() {
		defer close(s.done)
		defer close(s.updates)
		defer hub.unregister(id)

		for {
			seq := hub.Seq()
			data, err := query(ctx)
			if ctx.Err() != nil {
				return
			}

			select {
			case s.updates <- Snapshot[T]{Seq: seq, Data: data, Err: err}:
			case <-ctx.Done():
				return
			}

			select {
			case <-dirty:
			case <-ctx.Done():
				return
			}
		}
	}()
	return s
}

// Updates is closed once the subscription stops.
func (s *Subscription[T]) Updates() <-chan Snapshot[T] { return s.updates }

// Done is closed once the subscription goroutine has exited.
func (s *Subscription[T]) Done() <-chan struct{} { return s.done }

// Close cancels the subscription and waits for it to stop.
func (s *Subscription[T]) Close() {
	s.cancel()
	<-s.done
}
