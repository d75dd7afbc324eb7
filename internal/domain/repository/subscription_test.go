package repository

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"
)

func TestSubscriptionDeliversLatestSnapshot(t *testing.T) {
	release := make(chan struct{})
	sub := NewSubscription(context.Background(), func(ctx context.Context, emit func([]int) bool) error {
		emit([]int{1})
		emit([]int{1, 2})
		emit([]int{1, 2, 3})
		close(release)
		<-ctx.Done()
		return ctx.Err()
	})
	defer sub.Unsubscribe()

	<-release
	select {
	case snap := <-sub.Updates():
		if len(snap) != 3 {
			t.Fatalf("expected newest snapshot, got %v", snap)
		}
	case <-time.After(time.Second):
		t.Fatalf("no snapshot delivered")
	}
}

func TestUnsubscribeIsIdempotent(t *testing.T) {
	var stops int32
	sub := NewSubscription(context.Background(), func(ctx context.Context, emit func([]string) bool) error {
		<-ctx.Done()
		atomic.AddInt32(&stops, 1)
		return nil
	})

	sub.Unsubscribe()
	sub.Unsubscribe()
	sub.Unsubscribe()

	if n := atomic.LoadInt32(&stops); n != 1 {
		t.Fatalf("listener stopped %d times", n)
	}
	if _, ok := <-sub.Updates(); ok {
		t.Fatalf("updates should be closed after unsubscribe")
	}
	if sub.Err() != nil {
		t.Fatalf("unsubscribe is not an error: %v", sub.Err())
	}
}

func TestSubscriptionEndsWithContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	sub := NewSubscription(ctx, func(ctx context.Context, emit func([]int) bool) error {
		<-ctx.Done()
		return ctx.Err()
	})

	cancel()
	select {
	case <-sub.Done():
	case <-time.After(time.Second):
		t.Fatalf("subscription did not stop with its context")
	}
}

func TestSubscriptionReportsListenerError(t *testing.T) {
	boom := errors.New("listen failed")
	sub := NewSubscription(context.Background(), func(ctx context.Context, emit func([]int) bool) error {
		return boom
	})

	<-sub.Done()
	if !errors.Is(sub.Err(), boom) {
		t.Fatalf("expected listener error, got %v", sub.Err())
	}
	sub.Unsubscribe()
}

func TestDateRangeContains(t *testing.T) {
	day := time.Date(2026, 3, 10, 0, 0, 0, 0, time.UTC)
	r := DateRange{From: day, To: day.Add(24 * time.Hour)}

	if !r.Contains(day) || !r.Contains(day.Add(time.Hour)) {
		t.Fatalf("range should include its bounds")
	}
	if r.Contains(day.Add(-time.Second)) || r.Contains(day.Add(25*time.Hour)) {
		t.Fatalf("range should exclude outside times")
	}
	if !(DateRange{}).Contains(day) {
		t.Fatalf("open range includes everything")
	}
}
