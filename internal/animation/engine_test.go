package animation

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iburimskiy/led-ring/internal/ring"
)

func TestEngineDefaults(t *testing.T) {
	e := NewEngine()
	st := e.State()
	assert.Equal(t, Loop, st.Kind)
	assert.Equal(t, []ring.Color{ring.Red, ring.Green, ring.Blue}, st.Colors)
	assert.Zero(t, st.Frame)

	px := pixels(8)
	require.NoError(t, e.Render(px))
	for _, p := range px {
		assert.Equal(t, ring.Red, p.Color)
	}
}

func TestEngineApplyKeepsFrame(t *testing.T) {
	e := NewEngine()
	for range 5 {
		e.Advance()
	}
	require.NoError(t, e.Apply(NewCommand(Solid, []ring.Color{ring.Blue})))
	assert.Equal(t, uint64(5), e.Frame())
	assert.Equal(t, Solid, e.State().Kind)
}

func TestEngineApplyTwiceIsIdempotent(t *testing.T) {
	cmd := NewCommand(Breath, []ring.Color{{R: 9, G: 8, B: 7}})

	once := NewEngine()
	require.NoError(t, once.Apply(cmd))

	twice := NewEngine()
	require.NoError(t, twice.Apply(cmd))
	require.NoError(t, twice.Apply(cmd))

	assert.Equal(t, once.State(), twice.State())
}

func TestEngineRendersOnlyOnRequest(t *testing.T) {
	e := NewEngine()
	px := pixels(4)
	require.NoError(t, e.Render(px))

	require.NoError(t, e.Apply(NewCommand(Solid, []ring.Color{ring.Blue})))
	assert.Equal(t, ring.Red, px[0].Color, "apply must not repaint")

	require.NoError(t, e.Render(px))
	assert.Equal(t, ring.Blue, px[0].Color)
}

func TestEngineEmptyPalette(t *testing.T) {
	e := NewEngine()
	require.NoError(t, e.Apply(NewCommand(Loop, nil)))

	px := pixels(4)
	px[0].Color = ring.Green
	assert.ErrorIs(t, e.Render(px), ErrInvalidCommand)
	assert.Equal(t, ring.Green, px[0].Color)
}

func TestEngineRejectsUnknownKind(t *testing.T) {
	e := NewEngine()
	err := e.Apply(Command{Kind: Kind(42)})
	assert.ErrorIs(t, err, ErrInvalidCommand)
	assert.Equal(t, Loop, e.State().Kind)
}

func TestEngineStateIsACopy(t *testing.T) {
	e := NewEngine()
	st := e.State()
	st.Colors[0] = ring.Black
	assert.Equal(t, ring.Red, e.State().Colors[0])
}
