// Package clock abstracts blocking delays so the control loop can be driven
// in tests without real sleeps.
package clock

import (
	"context"
	"sync"
	"time"
)

// Sleeper blocks for a duration or until ctx is done.
type Sleeper interface {
	Sleep(ctx context.Context, d time.Duration) error
}

// Real sleeps on the wall clock.
type Real struct{}

func (Real) Sleep(ctx context.Context, d time.Duration) error {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}

// Fake records requested sleeps and returns immediately.
type Fake struct {
	mu    sync.Mutex
	slept []time.Duration
	hook  func(n int, d time.Duration)
}

func NewFake() *Fake { return &Fake{} }

// OnSleep registers fn to run on every sleep with the 1-based call count.
// It may cancel the context passed to Sleep; Sleep then reports the error.
func (f *Fake) OnSleep(fn func(n int, d time.Duration)) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.hook = fn
}

func (f *Fake) Sleep(ctx context.Context, d time.Duration) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	f.mu.Lock()
	f.slept = append(f.slept, d)
	n, hook := len(f.slept), f.hook
	f.mu.Unlock()
	if hook != nil {
		hook(n, d)
	}
	return ctx.Err()
}

// Slept returns every requested duration in order.
func (f *Fake) Slept() []time.Duration {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]time.Duration(nil), f.slept...)
}
