package sink

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iburimskiy/led-ring/internal/ring"
)

type failing struct {
	Memory
	err error
}

func (f *failing) Present() error { return f.err }

func TestMemoryFrames(t *testing.T) {
	m := NewMemory()
	assert.Nil(t, m.Last())

	require.NoError(t, m.Clear(ring.Black))
	require.NoError(t, m.DrawCircle(1, 2, 3, ring.Red))
	require.NoError(t, m.DrawCircle(4, 5, 3, ring.Blue))
	require.NoError(t, m.Present())

	last := m.Last()
	require.NotNil(t, last)
	assert.Equal(t, ring.Black, last.Background)
	assert.Equal(t, []Circle{{1, 2, 3, ring.Red}, {4, 5, 3, ring.Blue}}, last.Circles)
	assert.Equal(t, 1, m.Presented())

	require.NoError(t, m.Clear(ring.White))
	assert.Len(t, m.Last().Circles, 2, "back buffer must not leak before Present")
}

func TestMemoryStopAfter(t *testing.T) {
	m := &Memory{StopAfter: 2}
	require.NoError(t, m.Present())
	assert.False(t, m.PollShutdown())
	require.NoError(t, m.Present())
	assert.True(t, m.PollShutdown())

	m2 := NewMemory()
	m2.Stop()
	assert.True(t, m2.PollShutdown())
}

func TestMultiFansOut(t *testing.T) {
	a, b := NewMemory(), NewMemory()
	m := Multi{a, b}

	require.NoError(t, m.Clear(ring.Black))
	require.NoError(t, m.DrawCircle(1, 1, 1, ring.Green))
	require.NoError(t, m.Present())
	assert.Equal(t, a.Last(), b.Last())

	assert.False(t, m.PollShutdown())
	b.Stop()
	assert.True(t, m.PollShutdown())
}

func TestMultiStopsAtFirstError(t *testing.T) {
	bad := &failing{err: assert.AnError}
	after := NewMemory()
	m := Multi{bad, after}

	err := m.Present()
	assert.ErrorIs(t, err, assert.AnError)
	assert.Zero(t, after.Presented())
}
