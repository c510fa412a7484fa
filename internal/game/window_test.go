package game

import (
	"io"
	"sync"
	"testing"
	"time"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iburimskiy/led-ring/internal/animation"
	"github.com/iburimskiy/led-ring/internal/ring"
)

type recorder struct {
	mu   sync.Mutex
	cmds []animation.Command
}

func (r *recorder) Submit(kind animation.Kind, colors []ring.Color) animation.Command {
	cmd := animation.NewCommand(kind, colors)
	r.mu.Lock()
	r.cmds = append(r.cmds, cmd)
	r.mu.Unlock()
	return cmd
}

func (r *recorder) all() []animation.Command {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]animation.Command(nil), r.cmds...)
}

func newTestWindow(sub Submitter, pick PickFunc) *Window {
	log := logrus.New()
	log.SetOutput(io.Discard)
	return NewWindow(600, 600, sub, pick, log)
}

func TestPresentSwapsBuffers(t *testing.T) {
	w := newTestWindow(&recorder{}, nil)

	require.NoError(t, w.Clear(ring.Black))
	require.NoError(t, w.DrawCircle(1, 2, 10, ring.Red))
	assert.Empty(t, w.front.circles, "nothing visible before Present")

	require.NoError(t, w.Present())
	assert.Equal(t, []circle{{1, 2, 10, ring.Red}}, w.front.circles)
	assert.Equal(t, ring.Black, w.front.bg)

	require.NoError(t, w.Clear(ring.White))
	require.NoError(t, w.DrawCircle(3, 4, 10, ring.Blue))
	assert.Equal(t, []circle{{1, 2, 10, ring.Red}}, w.front.circles, "back buffer writes stay hidden")

	require.NoError(t, w.Present())
	assert.Equal(t, []circle{{3, 4, 10, ring.Blue}}, w.front.circles)
}

func TestShutdownAndFinish(t *testing.T) {
	w := newTestWindow(&recorder{}, nil)
	assert.False(t, w.PollShutdown())
	w.stop.Store(true)
	assert.True(t, w.PollShutdown())

	w.Finish()
	assert.ErrorIs(t, w.Update(), ebiten.Termination)
}

func TestCommandForKey(t *testing.T) {
	picked := ring.Color{R: 1, G: 2, B: 3}
	tests := []struct {
		key    ebiten.Key
		kind   animation.Kind
		colors []ring.Color
	}{
		{ebiten.Key1, animation.Solid, []ring.Color{picked}},
		{ebiten.Key2, animation.Rainbow, nil},
		{ebiten.Key3, animation.Breath, []ring.Color{picked}},
		{ebiten.Key4, animation.Loop, animation.DefaultPalette()},
	}
	for _, tt := range tests {
		kind, colors, ok := commandForKey(tt.key, picked)
		require.True(t, ok)
		assert.Equal(t, tt.kind, kind)
		assert.Equal(t, tt.colors, colors)
	}
	_, _, ok := commandForKey(ebiten.KeyZ, picked)
	assert.False(t, ok)
}

func TestShortcutUsesPickedColor(t *testing.T) {
	rec := &recorder{}
	w := newTestWindow(rec, nil)
	w.setPicked(ring.Green)
	w.shortcut(ebiten.Key3)

	cmds := rec.all()
	require.Len(t, cmds, 1)
	assert.Equal(t, animation.Breath, cmds[0].Kind)
	assert.Equal(t, []ring.Color{ring.Green}, cmds[0].Colors)
}

func TestPickerSubmitsSolid(t *testing.T) {
	rec := &recorder{}
	w := newTestWindow(rec, func(initial ring.Color) (ring.Color, bool, error) {
		assert.Equal(t, ring.White, initial)
		return ring.Color{R: 9, G: 9, B: 9}, true, nil
	})

	w.openPicker()
	require.Eventually(t, func() bool { return len(rec.all()) == 1 }, time.Second, time.Millisecond)
	assert.Equal(t, animation.Solid, rec.all()[0].Kind)
	assert.Equal(t, ring.Color{R: 9, G: 9, B: 9}, w.Picked())
}

func TestPickerCancelled(t *testing.T) {
	rec := &recorder{}
	returned := make(chan struct{})
	w := newTestWindow(rec, func(initial ring.Color) (ring.Color, bool, error) {
		defer close(returned)
		return initial, false, nil
	})

	w.openPicker()
	<-returned
	require.Eventually(t, func() bool { return !w.picking.Load() }, time.Second, time.Millisecond)
	assert.Empty(t, rec.all())
	assert.Equal(t, ring.White, w.Picked())
}

func TestToneLengthAndLevel(t *testing.T) {
	sr := chimeSampleRate
	s := tone(sr, 440, 10*time.Millisecond)
	buf := make([][2]float64, 1024)

	total := 0
	for {
		n, ok := s.Stream(buf)
		for _, smp := range buf[:n] {
			assert.LessOrEqual(t, smp[0], chimeVolume)
			assert.GreaterOrEqual(t, smp[0], -chimeVolume)
			assert.Equal(t, smp[0], smp[1])
		}
		total += n
		if !ok {
			break
		}
	}
	assert.Equal(t, sr.N(10*time.Millisecond), total)
}
