// Package animation holds the pattern state machine that decides, frame by
// frame, which color every ring pixel shows.
package animation

import (
	"github.com/pkg/errors"

	"github.com/iburimskiy/led-ring/internal/ring"
)

// State is the engine's observable state.
type State struct {
	Kind   Kind
	Colors []ring.Color
	Frame  uint64
}

// DefaultPalette is the red, green, blue cycle shown at startup.
func DefaultPalette() []ring.Color {
	return []ring.Color{ring.Red, ring.Green, ring.Blue}
}

// Engine owns the active pattern, its palette and the frame counter. It is
// not safe for concurrent use; the render loop is its only caller.
type Engine struct {
	kind   Kind
	colors []ring.Color
	frame  uint64
}

// NewEngine starts in Loop mode over DefaultPalette at frame 0.
func NewEngine() *Engine {
	e := &Engine{}
	e.Reset()
	return e
}

// Reset restores the startup state.
func (e *Engine) Reset() {
	e.kind = Loop
	e.colors = DefaultPalette()
	e.frame = 0
}

// Apply replaces the pattern and palette. The frame counter keeps running and
// nothing is rendered until the next Render call.
func (e *Engine) Apply(cmd Command) error {
	if !cmd.Kind.Valid() {
		return errors.Wrapf(ErrInvalidCommand, "unknown pattern kind %d", cmd.Kind)
	}
	e.kind = cmd.Kind
	e.colors = cmd.Colors
	return nil
}

// Render computes the current frame into pixels.
func (e *Engine) Render(pixels []ring.Pixel) error {
	return patterns[e.kind](e.frame, e.colors, pixels)
}

// Advance moves to the next frame.
func (e *Engine) Advance() {
	e.frame++
}

// Frame returns the frame counter.
func (e *Engine) Frame() uint64 { return e.frame }

// State returns a copy of the current state.
func (e *Engine) State() State {
	return State{
		Kind:   e.kind,
		Colors: append([]ring.Color(nil), e.colors...),
		Frame:  e.frame,
	}
}
