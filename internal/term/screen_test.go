package term

import (
	"testing"
	"time"

	"github.com/gdamore/tcell/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iburimskiy/led-ring/internal/ring"
)

func newSimScreen(t *testing.T) (tcell.SimulationScreen, *Screen) {
	t.Helper()
	sim := tcell.NewSimulationScreen("UTF-8")
	require.NoError(t, sim.Init())
	sim.SetSize(60, 30)
	s := New(sim, 600, 600)
	t.Cleanup(s.Close)
	return sim, s
}

func TestCellMapping(t *testing.T) {
	_, s := newSimScreen(t)

	col, row, ok := s.Cell(500, 300)
	require.True(t, ok)
	assert.Equal(t, 50, col)
	assert.Equal(t, 15, row)

	_, _, ok = s.Cell(600, 10)
	assert.False(t, ok)
	_, _, ok = s.Cell(-1, 10)
	assert.False(t, ok)
}

func TestDrawsColoredGlyph(t *testing.T) {
	sim, s := newSimScreen(t)

	require.NoError(t, s.Clear(ring.Black))
	require.NoError(t, s.DrawCircle(500, 300, 10, ring.Color{R: 255, G: 0, B: 0}))
	require.NoError(t, s.DrawCircle(10000, 300, 10, ring.Blue), "off-grid pixels are dropped")
	require.NoError(t, s.Present())

	mainc, _, style, _ := sim.GetContent(50, 15)
	assert.Equal(t, pixelRune, mainc)
	fg, bg, _ := style.Decompose()
	assert.Equal(t, tcell.NewRGBColor(255, 0, 0), fg)
	assert.Equal(t, tcell.NewRGBColor(0, 0, 0), bg)

	mainc, _, _, _ = sim.GetContent(0, 0)
	assert.Equal(t, ' ', mainc)
}

func TestQuitKeys(t *testing.T) {
	tests := []struct {
		name string
		ev   *tcell.EventKey
		quit bool
	}{
		{"escape", tcell.NewEventKey(tcell.KeyEscape, 0, tcell.ModNone), true},
		{"ctrl-c", tcell.NewEventKey(tcell.KeyCtrlC, 0, tcell.ModCtrl), true},
		{"q", tcell.NewEventKey(tcell.KeyRune, 'q', tcell.ModNone), true},
		{"x", tcell.NewEventKey(tcell.KeyRune, 'x', tcell.ModNone), false},
		{"enter", tcell.NewEventKey(tcell.KeyEnter, 0, tcell.ModNone), false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.quit, quitKey(tt.ev))
		})
	}
}

func TestEscapeRequestsShutdown(t *testing.T) {
	sim, s := newSimScreen(t)
	assert.False(t, s.PollShutdown())

	require.NoError(t, sim.PostEvent(tcell.NewEventKey(tcell.KeyEscape, 0, tcell.ModNone)))
	assert.Eventually(t, s.PollShutdown, time.Second, 5*time.Millisecond)
}
