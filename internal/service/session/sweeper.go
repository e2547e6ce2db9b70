package session

import (
	"context"
	"log"
	"sync"
	"time"
)

// Sweeper drives the periodic expiry sweep of a Store. It runs on its own
// ticker with an interval equal to the session TTL; cleanup is best-effort,
// missed or delayed runs are acceptable.
type Sweeper struct {
	store *Store
	ttl   time.Duration

	startOnce sync.Once
	stopOnce  sync.Once
	cancel    context.CancelFunc
	done      chan struct{}
}

// NewSweeper builds a sweeper for the given store and TTL.
func NewSweeper(store *Store, ttl time.Duration) *Sweeper {
	return &Sweeper{
		store: store,
		ttl:   ttl,
		done:  make(chan struct{}),
	}
}

// Start launches the sweep loop. Subsequent calls are no-ops. The loop exits
// when Stop is called or ctx is cancelled.
func (sw *Sweeper) Start(ctx context.Context) {
	sw.startOnce.Do(func() {
		ctx, sw.cancel = context.WithCancel(ctx)
		go sw.run(ctx)
	})
}

// Stop terminates the sweep loop and waits for the in-flight sweep, if any,
// to finish.
func (sw *Sweeper) Stop() {
	sw.stopOnce.Do(func() {
		if sw.cancel != nil {
			sw.cancel()
			<-sw.done
		}
	})
}

// run executes at most one sweep at a time; the ticker serializes runs on a
// single goroutine.
func (sw *Sweeper) run(ctx context.Context) {
	defer close(sw.done)

	ticker := time.NewTicker(sw.ttl)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case now := <-ticker.C:
			if removed := sw.store.SweepExpired(now, sw.ttl); removed > 0 {
				log.Printf("[sweeper] cleared %d expired session(s)", removed)
			}
		}
	}
}
