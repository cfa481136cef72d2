package views

import (
	"context"
	"sync/atomic"
	"time"
)

// Transition is the visual half of a mode switch: it marks the card as
// animating, holds for Delay, then runs flip. Overlapping runs keep the card
// animating until the last one ends.
type Transition struct {
	Delay     time.Duration
	animating atomic.Int32
}

func (t *Transition) Animating() bool { return t.animating.Load() > 0 }

// Run returns ctx.Err() without calling flip if ctx ends during the hold.
func (t *Transition) Run(ctx context.Context, flip func() error) error {
	t.animating.Add(1)
	defer t.animating.Add(-1)

	if t.Delay > 0 {
		timer := time.NewTimer(t.Delay)
		defer timer.Stop()
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-timer.C:
		}
	}
	return flip()
}
