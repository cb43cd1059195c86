package future

import (
	"context"
	"sync"

	"golang.org/x/sync/singleflight"
)

// Group de-duplicates loads by key: callers that arrive while a load for the
// same key is in flight share that load instead of starting another. Once the
// load settles the key is forgotten, so a failed load can be retried.
//
// The shared call runs with the first caller's context.
type Group[T any] struct {
	flight singleflight.Group

	mu       sync.Mutex
	watchers map[string][]*Future[T]
}

// Do returns a future for key, joining an in-flight load when there is one.
func (g *Group[T]) Do(ctx context.Context, key string, fn func(ctx context.Context, report Reporter) (T, error)) *Future[T] {
	f, resolve := New[T]()

	g.mu.Lock()
	if g.watchers == nil {
		g.watchers = make(map[string][]*Future[T])
	}
	g.watchers[key] = append(g.watchers[key], f)
	g.mu.Unlock()

	ch := g.flight.DoChan(key, func() (any, error) {
		return fn(ctx, func(p float64) { g.report(key, p) })
	})

	go func() {
		res := <-ch
		g.forget(key, f)
		v, _ := res.Val.(T)
		resolve(v, res.Err)
	}()
	return f
}

func (g *Group[T]) report(key string, p float64) {
	g.mu.Lock()
	defer g.mu.Unlock()
	for _, f := range g.watchers[key] {
		f.setProgress(p)
	}
}

func (g *Group[T]) forget(key string, f *Future[T]) {
	g.mu.Lock()
	defer g.mu.Unlock()
	list := g.watchers[key]
	for i, w := range list {
		if w == f {
			list = append(list[:i], list[i+1:]...)
			break
		}
	}
	if len(list) == 0 {
		delete(g.watchers, key)
		return
	}
	g.watchers[key] = list
}
