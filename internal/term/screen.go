// Package term renders the ring into a terminal with tcell, for machines
// without a display.
package term

import (
	"math"
	"sync/atomic"

	"github.com/gdamore/tcell/v2"
	"github.com/pkg/errors"

	"github.com/iburimskiy/led-ring/internal/ring"
)

const pixelRune = '●'

// Screen maps the logical canvas onto the terminal grid. Each pixel becomes
// one glyph colored with its RGB value; the circle radius is ignored since a
// cell is the smallest thing a terminal can draw.
type Screen struct {
	screen        tcell.Screen
	width, height float64
	stop          atomic.Bool
	done          chan struct{}
}

// Open initialises the controlling terminal.
func Open(width, height float64) (*Screen, error) {
	s, err := tcell.NewScreen()
	if err != nil {
		return nil, errors.Wrap(err, "open terminal")
	}
	if err := s.Init(); err != nil {
		return nil, errors.Wrap(err, "init terminal")
	}
	return New(s, width, height), nil
}

// New wraps an initialised tcell screen and starts reading its input.
func New(s tcell.Screen, width, height float64) *Screen {
	t := &Screen{
		screen: s,
		width:  width,
		height: height,
		done:   make(chan struct{}),
	}
	go t.pollEvents()
	return t
}

func (t *Screen) pollEvents() {
	defer close(t.done)
	for {
		switch ev := t.screen.PollEvent().(type) {
		case nil:
			// Fini was called.
			return
		case *tcell.EventKey:
			if quitKey(ev) {
				t.stop.Store(true)
			}
		case *tcell.EventResize:
			t.screen.Sync()
		}
	}
}

func quitKey(ev *tcell.EventKey) bool {
	switch ev.Key() {
	case tcell.KeyEscape, tcell.KeyCtrlC:
		return true
	case tcell.KeyRune:
		return ev.Rune() == 'q' || ev.Rune() == 'Q'
	}
	return false
}

func rgb(c ring.Color) tcell.Color {
	return tcell.NewRGBColor(int32(c.R), int32(c.G), int32(c.B))
}

// Cell converts canvas coordinates to a terminal cell, reporting false when
// the point falls outside the grid.
func (t *Screen) Cell(x, y float64) (col, row int, ok bool) {
	cols, rows := t.screen.Size()
	col = int(math.Floor(x / t.width * float64(cols)))
	row = int(math.Floor(y / t.height * float64(rows)))
	ok = col >= 0 && col < cols && row >= 0 && row < rows
	return col, row, ok
}

func (t *Screen) Clear(bg ring.Color) error {
	t.screen.Fill(' ', tcell.StyleDefault.Background(rgb(bg)))
	return nil
}

func (t *Screen) DrawCircle(x, y, _ float64, c ring.Color) error {
	col, row, ok := t.Cell(x, y)
	if !ok {
		return nil
	}
	_, _, style, _ := t.screen.GetContent(col, row)
	t.screen.SetContent(col, row, pixelRune, nil, style.Foreground(rgb(c)))
	return nil
}

func (t *Screen) Present() error {
	t.screen.Show()
	return nil
}

func (t *Screen) PollShutdown() bool {
	return t.stop.Load()
}

// Close restores the terminal and waits for the input reader to exit.
func (t *Screen) Close() {
	t.screen.Fini()
	<-t.done
}
