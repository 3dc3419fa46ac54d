package live

import (
	"context"
	"errors"
	"sync"

	"golang.org/x/sync/errgroup"
)

type Closer interface {
	Close()
}

// Scope owns the subscriptions and helper goroutines of one screen or
// connection. Closing it cancels all of them and waits for them to exit.
type Scope struct {
	ctx    context.Context
	cancel context.CancelFunc
	group  *errgroup.Group

	mu      sync.Mutex
	closers []Closer
	closed  bool
	once    sync.Once
	err     error
}

func NewScope(parent context.Context) *Scope {
	ctx, cancel := context.WithCancel(parent)
	group, ctx := errgroup.WithContext(ctx)
	return &Scope{ctx: ctx, cancel: cancel, group: group}
}

// Context is cancelled when the scope closes or one of its goroutines fails.
func (s *Scope) Context() context.Context { return s.ctx }

// Go runs fn in the scope. A non-nil error cancels the whole scope.
// Cancellation caused by the scope itself is not reported.
func (s *Scope) Go(fn func(ctx context.Context) error) {
	s.group.Go(func() error {
		err := fn(s.ctx)
		if errors.Is(err, context.Canceled) && s.ctx.Err() != nil {
			return nil
		}
		return err
	})
}

// Add hands c to the scope. Adding to a closed scope closes c at once.
func (s *Scope) Add(c Closer) {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		c.Close()
		return
	}
	s.closers = append(s.closers, c)
	s.mu.Unlock()
}

// Close cancels everything in the scope and returns the first goroutine
// error, ignoring cancellation. Further calls return the same result.
func (s *Scope) Close() error {
	s.once.Do(func() {
		s.cancel()

		s.mu.Lock()
		s.closed = true
		closers := s.closers
		s.closers = nil
		s.mu.Unlock()

		for _, c := range closers {
			c.Close()
		}
		if err := s.group.Wait(); err != nil && !errors.Is(err, context.Canceled) {
			s.err = err
		}
	})
	return s.err
}

// Forward opens a subscription bound to the scope and calls fn for every
// snapshot until the scope closes.
func Forward[T any](s *Scope, open func(ctx context.Context) *Subscription[T], fn func(Snapshot[T])) *Subscription[T] {
	sub := open(s.ctx)
	s.Add(sub)
	s.Go(func(ctx context.Context) error {
		for snap := range sub.Updates() {
			fn(snap)
		}
		return nil
	})
	return sub
}
