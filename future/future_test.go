package future

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"
)

func waitReady[T any](t *testing.T, f *Future[T]) {
	t.Helper()
	select {
	case <-f.Done():
	case <-time.After(2 * time.Second):
		t.Fatalf("future did not settle")
	}
}

func TestFutureLifecycle(t *testing.T) {
	t.Run("pending_then_resolved", func(t *testing.T) {
		f, resolve := New[int]()
		if f.Ready() {
			t.Fatalf("new future should be pending")
		}
		if _, err := f.Result(); !errors.Is(err, ErrPending) {
			t.Fatalf("expected ErrPending, got %v", err)
		}
		resolve(7, nil)
		resolve(9, errors.New("ignored"))
		v, err := f.Result()
		if err != nil || v != 7 {
			t.Fatalf("Result = %v, %v", v, err)
		}
		if f.Progress() != 1 {
			t.Fatalf("resolved future should report full progress, got %v", f.Progress())
		}
	})

	t.Run("rejected", func(t *testing.T) {
		boom := errors.New("boom")
		f := Rejected[string](boom)
		if _, err := f.Result(); !errors.Is(err, boom) {
			t.Fatalf("expected boom, got %v", err)
		}
	})

	t.Run("go_reports_progress", func(t *testing.T) {
		release := make(chan struct{})
		reported := make(chan struct{})
		f := Go(context.Background(), func(_ context.Context, report Reporter) (string, error) {
			report(0.25)
			close(reported)
			<-release
			return "ok", nil
		})
		<-reported
		if p := f.Progress(); p != 0.25 {
			t.Fatalf("progress = %v", p)
		}
		close(release)
		waitReady(t, f)
		if v, err := f.Result(); err != nil || v != "ok" {
			t.Fatalf("Result = %v, %v", v, err)
		}
	})

	t.Run("go_cancelled", func(t *testing.T) {
		ctx, cancel := context.WithCancel(context.Background())
		cancel()
		f := Go(ctx, func(context.Context, Reporter) (int, error) { return 1, nil })
		waitReady(t, f)
		if _, err := f.Result(); !errors.Is(err, ErrCancelled) {
			t.Fatalf("expected ErrCancelled, got %v", err)
		}
	})
}

func TestGroupSharesInFlightLoad(t *testing.T) {
	var g Group[[]byte]
	var calls atomic.Int32
	release := make(chan struct{})

	load := func(context.Context, Reporter) ([]byte, error) {
		calls.Add(1)
		<-release
		return []byte("pcm"), nil
	}

	a := g.Do(context.Background(), "track", load)
	b := g.Do(context.Background(), "track", load)
	close(release)
	waitReady(t, a)
	waitReady(t, b)

	if n := calls.Load(); n != 1 {
		t.Fatalf("expected one load, got %d", n)
	}
	va, _ := a.Result()
	vb, _ := b.Result()
	if string(va) != "pcm" || string(vb) != "pcm" {
		t.Fatalf("unexpected values %q %q", va, vb)
	}
}

func TestGroupFailureAllowsRetry(t *testing.T) {
	var g Group[int]
	var calls atomic.Int32
	release := make(chan struct{})
	boom := errors.New("decode failed")

	failing := func(context.Context, Reporter) (int, error) {
		calls.Add(1)
		<-release
		return 0, boom
	}

	a := g.Do(context.Background(), "track", failing)
	b := g.Do(context.Background(), "track", failing)
	close(release)
	waitReady(t, a)
	waitReady(t, b)
	for _, f := range []*Future[int]{a, b} {
		if _, err := f.Result(); !errors.Is(err, boom) {
			t.Fatalf("expected every waiter to see the failure, got %v", err)
		}
	}

	retry := g.Do(context.Background(), "track", func(context.Context, Reporter) (int, error) {
		calls.Add(1)
		return 42, nil
	})
	waitReady(t, retry)
	if v, err := retry.Result(); err != nil || v != 42 {
		t.Fatalf("retry Result = %v, %v", v, err)
	}
	if n := calls.Load(); n != 2 {
		t.Fatalf("expected a second load after failure, got %d", n)
	}
}
