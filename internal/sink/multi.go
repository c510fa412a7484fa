package sink

import (
	"github.com/pkg/errors"

	"github.com/iburimskiy/led-ring/internal/ring"
)

// Target is the frame sink contract, repeated here so this package stays
// below the render loop in the import graph.
type Target interface {
	Clear(bg ring.Color) error
	DrawCircle(x, y, radius float64, c ring.Color) error
	Present() error
	PollShutdown() bool
}

// Multi mirrors every call onto several sinks, e.g. a preview window and a
// physical strip. The first failing sink aborts the call.
type Multi []Target

func (m Multi) Clear(bg ring.Color) error {
	for i, t := range m {
		if err := t.Clear(bg); err != nil {
			return errors.Wrapf(err, "sink %d", i)
		}
	}
	return nil
}

func (m Multi) DrawCircle(x, y, radius float64, c ring.Color) error {
	for i, t := range m {
		if err := t.DrawCircle(x, y, radius, c); err != nil {
			return errors.Wrapf(err, "sink %d", i)
		}
	}
	return nil
}

func (m Multi) Present() error {
	for i, t := range m {
		if err := t.Present(); err != nil {
			return errors.Wrapf(err, "sink %d", i)
		}
	}
	return nil
}

// PollShutdown is true as soon as any sink wants to stop. Every sink is
// still polled so none misses its own close event.
func (m Multi) PollShutdown() bool {
	stop := false
	for _, t := range m {
		if t.PollShutdown() {
			stop = true
		}
	}
	return stop
}
