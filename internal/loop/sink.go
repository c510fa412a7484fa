package loop

import (
	"fmt"

	"github.com/iburimskiy/led-ring/internal/ring"
)

// FrameSink is where rendered frames go: a window, a terminal, an LED strip
// or a test buffer.
type FrameSink interface {
	Clear(bg ring.Color) error
	DrawCircle(x, y, radius float64, c ring.Color) error
	Present() error
	// PollShutdown reports whether the sink wants the loop to stop. It must
	// not block.
	PollShutdown() bool
}

// SinkError wraps a failure from the frame sink. It ends the loop.
type SinkError struct {
	Op  string
	Err error
}

func (e *SinkError) Error() string {
	return fmt.Sprintf("frame sink %s: %v", e.Op, e.Err)
}

func (e *SinkError) Unwrap() error { return e.Err }

// canvas adapts a FrameSink to ring.Canvas and tags draw errors.
type canvas struct {
	sink FrameSink
}

func (c canvas) DrawCircle(x, y, radius float64, col ring.Color) error {
	if err := c.sink.DrawCircle(x, y, radius, col); err != nil {
		return &SinkError{Op: "draw", Err: err}
	}
	return nil
}
