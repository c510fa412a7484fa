// Package sink has frame sinks that need no display: an in-memory buffer
// and a fan-out over several sinks.
package sink

import (
	"sync"
	"sync/atomic"

	"github.com/iburimskiy/led-ring/internal/ring"
)

// Circle is one DrawCircle call.
type Circle struct {
	X, Y, Radius float64
	Color        ring.Color
}

// Frame is everything drawn between a Clear and a Present.
type Frame struct {
	Background ring.Color
	Circles    []Circle
}

// Memory keeps the last presented frame in memory. It is the headless sink
// and the one tests drive.
type Memory struct {
	mu        sync.Mutex
	back      Frame
	last      *Frame
	presented int

	// StopAfter, when positive, requests shutdown once that many frames
	// have been presented.
	StopAfter int

	stop atomic.Bool
}

func NewMemory() *Memory {
	return &Memory{}
}

func (m *Memory) Clear(bg ring.Color) error {
	m.mu.Lock()
	m.back = Frame{Background: bg}
	m.mu.Unlock()
	return nil
}

func (m *Memory) DrawCircle(x, y, radius float64, c ring.Color) error {
	m.mu.Lock()
	m.back.Circles = append(m.back.Circles, Circle{X: x, Y: y, Radius: radius, Color: c})
	m.mu.Unlock()
	return nil
}

func (m *Memory) Present() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	f := m.back
	m.last = &f
	m.back = Frame{}
	m.presented++
	if m.StopAfter > 0 && m.presented >= m.StopAfter {
		m.stop.Store(true)
	}
	return nil
}

func (m *Memory) PollShutdown() bool {
	return m.stop.Load()
}

// Stop makes the next PollShutdown return true.
func (m *Memory) Stop() {
	m.stop.Store(true)
}

// Last returns the most recently presented frame, or nil.
func (m *Memory) Last() *Frame {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.last == nil {
		return nil
	}
	f := *m.last
	f.Circles = append([]Circle(nil), m.last.Circles...)
	return &f
}

// Presented counts Present calls.
func (m *Memory) Presented() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.presented
}
