package live

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func next[T any](t *testing.T, sub *Subscription[T]) Snapshot[T] {
	t.Helper()
	select {
	case snap, ok := <-sub.Updates():
		require.True(t, ok, "subscription closed")
		return snap
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for snapshot")
	}
	return Snapshot[T]{}
}

func TestPublishSignalsOnlyMatchingWatchers(t *testing.T) {
	hub := NewHub()
	_, usersCh := hub.register([]Table{Users})
	_, notifCh := hub.register([]Table{Notifications, Clients})

	assert.Equal(t, uint64(1), hub.Publish(Clients))
	assert.Len(t, notifCh, 1)
	assert.Len(t, usersCh, 0)

	// pending signal coalesces
	hub.Publish(Notifications)
	assert.Len(t, notifCh, 1)
	assert.Equal(t, uint64(2), hub.Seq())
	assert.Equal(t, 2, hub.Watchers())
}

func TestWatchRedeliversAfterPublish(t *testing.T) {
	hub := NewHub()
	var value atomic.Int64
	value.Store(1)

	sub := Watch(context.Background(), hub, func(context.Context) (int64, error) {
		return value.Load(), nil
	}, Notifications)
	defer sub.Close()

	first := next(t, sub)
	assert.Equal(t, int64(1), first.Data)

	value.Store(2)
	hub.Publish(Notifications)
	second := next(t, sub)
	assert.Equal(t, int64(2), second.Data)
	assert.GreaterOrEqual(t, second.Seq, first.Seq)
	assert.Equal(t, uint64(1), second.Seq)
}

func TestWatchIgnoresOtherTables(t *testing.T) {
	hub := NewHub()
	var calls atomic.Int32
	sub := Watch(context.Background(), hub, func(context.Context) (int32, error) {
		return calls.Add(1), nil
	}, Houses)
	defer sub.Close()

	next(t, sub)
	hub.Publish(Users, AuditLogs)

	select {
	case <-sub.Updates():
		t.Fatal("unexpected snapshot")
	case <-time.After(50 * time.Millisecond):
	}
	assert.Equal(t, int32(1), calls.Load())
}

func TestWatchDeliversQueryErrors(t *testing.T) {
	hub := NewHub()
	boom := errors.New("boom")
	sub := Watch(context.Background(), hub, func(context.Context) ([]string, error) {
		return nil, boom
	}, Clients)
	defer sub.Close()

	snap := next(t, sub)
	assert.ErrorIs(t, snap.Err, boom)
}

func TestCloseStopsSubscription(t *testing.T) {
	hub := NewHub()
	sub := Watch(context.Background(), hub, func(context.Context) (int, error) { return 0, nil }, Users)
	next(t, sub)

	sub.Close()
	_, ok := <-sub.Updates()
	assert.False(t, ok)
	assert.Equal(t, 0, hub.Watchers())

	// publishing after close must not block or panic
	hub.Publish(Users)
}

func TestCancelledContextStopsSubscriptionWithoutReader(t *testing.T) {
	hub := NewHub()
	ctx, cancel := context.WithCancel(context.Background())
	sub := Watch(ctx, hub, func(context.Context) (int, error) { return 0, nil }, Users)

	cancel()
	select {
	case <-sub.Done():
	case <-time.After(2 * time.Second):
		t.Fatal("subscription did not stop")
	}
}

func TestScopeCloseCancelsEverything(t *testing.T) {
	hub := NewHub()
	scope := NewScope(context.Background())

	var mu sync.Mutex
	var got []int
	var n atomic.Int64
	Forward(scope, func(ctx context.Context) *Subscription[int64] {
		return Watch(ctx, hub, func(context.Context) (int64, error) { return n.Load(), nil }, Notifications)
	}, func(s Snapshot[int64]) {
		mu.Lock()
		got = append(got, int(s.Data))
		mu.Unlock()
	})

	assert.Eventually(t, func() bool {
		mu.Lock()
		defer mu.Unlock()
		return len(got) == 1
	}, 2*time.Second, 5*time.Millisecond)

	n.Store(7)
	hub.Publish(Notifications)
	assert.Eventually(t, func() bool {
		mu.Lock()
		defer mu.Unlock()
		return len(got) == 2 && got[1] == 7
	}, 2*time.Second, 5*time.Millisecond)

	require.NoError(t, scope.Close())
	assert.Equal(t, 0, hub.Watchers())
	assert.Error(t, scope.Context().Err())
	require.NoError(t, scope.Close())

	late := Watch(scope.Context(), hub, func(context.Context) (int, error) { return 0, nil }, Users)
	scope.Add(late)
	_, ok := <-late.Updates()
	assert.False(t, ok)
}

func TestScopeReportsGoroutineError(t *testing.T) {
	scope := NewScope(context.Background())
	boom := errors.New("boom")
	scope.Go(func(ctx context.Context) error { return boom })
	scope.Go(func(ctx context.Context) error {
		<-ctx.Done()
		return ctx.Err()
	})
	assert.ErrorIs(t, scope.Close(), boom)
}
