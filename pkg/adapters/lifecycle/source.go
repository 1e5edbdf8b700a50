package lifecycle

import (
	"context"

	"github.com/aretw0/lifecycle"

	"github.com/aretw0/drip/pkg/core"
)

type dripSource struct {
	events <-chan core.Event
	out    chan lifecycle.Event
}

// NewSource creates a lifecycle.Source that emits drip store events.
// It bridges the typed event channel to the generic lifecycle Event
// interface, so a unit-change subscription can join a supervised runtime.
func NewSource(events <-chan core.Event) lifecycle.Source {
	return &dripSource{
		events: events,
		out:    make(chan lifecycle.Event),
	}
}

func (s *dripSource) Events() <-chan lifecycle.Event {
	return s.out
}

func (s *dripSource) Start(ctx context.Context) error {
	// Uses lifecycle.Go so the bridge itself is tracked and safe.
	lifecycle.Go(ctx, func(ctx context.Context) error {
		defer close(s.out)
		for {
			select {
			case <-ctx.Done():
				return nil
			case e, ok := <-s.events:
				if !ok {
					return nil
				}
				// core.Event implements lifecycle.Event (has String())
				select {
				case s.out <- e:
				case <-ctx.Done():
					return nil
				}
			}
		}
	})
	return nil
}
