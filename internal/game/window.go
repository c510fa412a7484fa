package game

import (
	"errors"
	"sync"
	"sync/atomic"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"github.com/hajimehoshi/ebiten/v2/vector"
	"github.com/sirupsen/logrus"

	"github.com/iburimskiy/led-ring/internal/animation"
	"github.com/iburimskiy/led-ring/internal/ring"
)

// Submitter accepts pattern changes from the window's keyboard shortcuts.
type Submitter interface {
	Submit(kind animation.Kind, colors []ring.Color) animation.Command
}

// PickFunc asks the user for a color. ok is false when the dialog was
// dismissed.
type PickFunc func(initial ring.Color) (c ring.Color, ok bool, err error)

type circle struct {
	x, y, r float32
	c       ring.Color
}

type frame struct {
	bg      ring.Color
	circles []circle
}

// Window shows the ring in a desktop window. The render loop writes into a
// back buffer from its own goroutine and Present hands it to ebiten's Draw.
type Window struct {
	width, height int
	submit        Submitter
	pick          PickFunc
	log           logrus.FieldLogger

	back frame // render loop only

	mu     sync.Mutex
	front  frame
	picked ring.Color

	stop    atomic.Bool // user asked to quit
	done    atomic.Bool // render loop has returned
	picking atomic.Bool
}

// NewWindow builds a width x height window. pick may be nil to disable the
// color picker.
func NewWindow(width, height int, submit Submitter, pick PickFunc, log logrus.FieldLogger) *Window {
	return &Window{
		width:  width,
		height: height,
		submit: submit,
		pick:   pick,
		log:    log.WithField("component", "window"),
		picked: ring.White,
	}
}

// Run opens the window and blocks until it closes. It must be called from
// the main goroutine.
func (w *Window) Run(title string) error {
	ebiten.SetWindowSize(w.width, w.height)
	ebiten.SetWindowTitle(title)
	ebiten.SetWindowClosingHandled(true)

	if err := ebiten.RunGame(w); err != nil && !errors.Is(err, ebiten.Termination) {
		return err
	}
	return nil
}

// Finish tells the window the render loop is gone so it can close.
func (w *Window) Finish() {
	w.done.Store(true)
}

func (w *Window) Clear(bg ring.Color) error {
	w.back.bg = bg
	w.back.circles = w.back.circles[:0]
	return nil
}

func (w *Window) DrawCircle(x, y, radius float64, c ring.Color) error {
	w.back.circles = append(w.back.circles, circle{float32(x), float32(y), float32(radius), c})
	return nil
}

func (w *Window) Present() error {
	w.mu.Lock()
	w.front, w.back = w.back, w.front
	w.mu.Unlock()
	return nil
}

func (w *Window) PollShutdown() bool {
	return w.stop.Load()
}

func (w *Window) Update() error {
	if w.done.Load() {
		return ebiten.Termination
	}
	if ebiten.IsWindowBeingClosed() ||
		inpututil.IsKeyJustPressed(ebiten.KeyEscape) ||
		inpututil.IsKeyJustPressed(ebiten.KeyQ) {
		w.stop.Store(true)
		return nil
	}

	for _, k := range shortcutKeys {
		if inpututil.IsKeyJustPressed(k) {
			w.shortcut(k)
		}
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyC) {
		w.openPicker()
	}
	return nil
}

func (w *Window) Draw(screen *ebiten.Image) {
	w.mu.Lock()
	defer w.mu.Unlock()

	screen.Fill(w.front.bg)
	for _, c := range w.front.circles {
		vector.DrawFilledCircle(screen, c.x, c.y, c.r, c.c, true)
	}
}

func (w *Window) Layout(_, _ int) (int, int) {
	return w.width, w.height
}

var shortcutKeys = []ebiten.Key{ebiten.Key1, ebiten.Key2, ebiten.Key3, ebiten.Key4}

// commandForKey maps the number keys onto patterns. Solid and Breath use
// the last picked color.
func commandForKey(k ebiten.Key, picked ring.Color) (animation.Kind, []ring.Color, bool) {
	switch k {
	case ebiten.Key1:
		return animation.Solid, []ring.Color{picked}, true
	case ebiten.Key2:
		return animation.Rainbow, nil, true
	case ebiten.Key3:
		return animation.Breath, []ring.Color{picked}, true
	case ebiten.Key4:
		return animation.Loop, animation.DefaultPalette(), true
	}
	return 0, nil, false
}

func (w *Window) shortcut(k ebiten.Key) {
	w.mu.Lock()
	picked := w.picked
	w.mu.Unlock()

	kind, colors, ok := commandForKey(k, picked)
	if !ok {
		return
	}
	cmd := w.submit.Submit(kind, colors)
	w.log.WithFields(logrus.Fields{"command_id": cmd.ID, "pattern": kind}).Debug("shortcut")
}

// openPicker runs the dialog off the ebiten goroutine so the window keeps
// drawing, then submits a Solid command with the choice.
func (w *Window) openPicker() {
	if w.pick == nil || !w.picking.CompareAndSwap(false, true) {
		return
	}
	w.mu.Lock()
	initial := w.picked
	w.mu.Unlock()

	go func() {
		defer w.picking.Store(false)
		c, ok, err := w.pick(initial)
		if err != nil {
			w.log.WithError(err).Warn("color picker failed")
			return
		}
		if !ok {
			return
		}
		w.setPicked(c)
		w.submit.Submit(animation.Solid, []ring.Color{c})
	}()
}

func (w *Window) setPicked(c ring.Color) {
	w.mu.Lock()
	w.picked = c
	w.mu.Unlock()
}

// Picked is the color used by the Solid and Breath shortcuts.
func (w *Window) Picked() ring.Color {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.picked
}
