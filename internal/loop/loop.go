// Package loop drives the ring: on every tick it drains pending commands,
// renders one frame and hands it to a frame sink.
package loop

import (
	"context"
	"sync/atomic"
	"time"

	"github.com/oklog/ulid/v2"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"

	"github.com/iburimskiy/led-ring/internal/animation"
	"github.com/iburimskiy/led-ring/internal/queue"
	"github.com/iburimskiy/led-ring/internal/ring"
)

// Status is the lifecycle stage of a Loop.
type Status int32

const (
	Starting Status = iota
	Running
	Stopped
)

func (s Status) String() string {
	switch s {
	case Starting:
		return "starting"
	case Running:
		return "running"
	case Stopped:
		return "stopped"
	}
	return "unknown"
}

// ErrAlreadyStarted is returned by a second call to Run.
var ErrAlreadyStarted = errors.New("render loop already started")

// Options tune a Loop. Zero fields fall back to the defaults below.
type Options struct {
	Geometry    ring.Geometry
	PixelRadius float64
	TickRate    int // ticks per second
	Background  ring.Color
	Logger      logrus.FieldLogger
	// OnApply runs on the loop goroutine after each command takes effect.
	OnApply func(animation.Command)
}

const (
	defaultPixelRadius = 10
	defaultTickRate    = 60
)

func (o Options) withDefaults() Options {
	if o.Geometry.Size <= 0 {
		o.Geometry = ring.DefaultGeometry()
	}
	if o.PixelRadius <= 0 {
		o.PixelRadius = defaultPixelRadius
	}
	if o.TickRate <= 0 {
		o.TickRate = defaultTickRate
	}
	if o.Logger == nil {
		o.Logger = logrus.StandardLogger()
	}
	return o
}

// Snapshot is the last frame the loop presented.
type Snapshot struct {
	Pattern animation.Kind `json:"pattern"`
	Colors  []ring.Color   `json:"colors"`
	Frame   uint64         `json:"frame"`
	Pixels  []ring.Color   `json:"pixels"`
	At      time.Time      `json:"at"`
}

// Loop owns the animation engine and the pixel ring. Only Submit, Status
// and Snapshot may be called from other goroutines.
type Loop struct {
	opts  Options
	log   logrus.FieldLogger
	queue *queue.Queue
	sink  FrameSink

	engine *animation.Engine
	ring   *ring.Ring

	// current is the command whose palette is active; warned is the last
	// one reported as unrenderable, so a bad palette is logged once.
	current ulid.ULID
	warned  ulid.ULID

	started  atomic.Bool
	status   atomic.Int32
	snapshot atomic.Pointer[Snapshot]
}

// New builds a loop that reads commands from q and renders into sink.
func New(sink FrameSink, q *queue.Queue, opts Options) *Loop {
	opts = opts.withDefaults()
	return &Loop{
		opts:   opts,
		log:    opts.Logger.WithField("component", "loop"),
		queue:  q,
		sink:   sink,
		engine: animation.NewEngine(),
		ring:   ring.New(opts.Geometry),
	}
}

// Submit queues a pattern change for the next tick. Safe from any goroutine.
func (l *Loop) Submit(kind animation.Kind, colors []ring.Color) animation.Command {
	cmd := animation.NewCommand(kind, colors)
	l.queue.Push(cmd)
	return cmd
}

// Status reports the lifecycle stage.
func (l *Loop) Status() Status {
	return Status(l.status.Load())
}

// Snapshot returns the last presented frame, or nil before the first one.
func (l *Loop) Snapshot() *Snapshot {
	return l.snapshot.Load()
}

// Interval is the tick budget.
func (l *Loop) Interval() time.Duration {
	return time.Second / time.Duration(l.opts.TickRate)
}

// Run blocks until the sink asks to stop, ctx is cancelled or the sink
// fails. Only sink failures are returned.
func (l *Loop) Run(ctx context.Context) error {
	if !l.started.CompareAndSwap(false, true) {
		return ErrAlreadyStarted
	}
	defer l.status.Store(int32(Stopped))

	l.engine.Reset()
	l.ring = ring.New(l.opts.Geometry)
	l.status.Store(int32(Running))
	l.log.WithFields(logrus.Fields{
		"pixels":    l.ring.Len(),
		"tick_rate": l.opts.TickRate,
	}).Info("render loop running")

	ticker := time.NewTicker(l.Interval())
	defer ticker.Stop()

	for {
		if l.sink.PollShutdown() {
			l.log.Info("frame sink requested shutdown")
			return nil
		}
		if ctx.Err() != nil {
			l.log.WithError(ctx.Err()).Info("render loop cancelled")
			return nil
		}

		if err := l.step(); err != nil {
			l.log.WithError(err).Error("render loop stopped")
			return err
		}

		select {
		case <-ticker.C:
		case <-ctx.Done():
		}
		l.engine.Advance()
	}
}

// step is one tick without the wait: drain, render, draw, present.
func (l *Loop) step() error {
	l.applyPending()

	if err := l.engine.Render(l.ring.Pixels); err != nil {
		if !errors.Is(err, animation.ErrInvalidCommand) {
			return err
		}
		if l.warned != l.current {
			l.warned = l.current
			l.log.WithError(err).WithField("command_id", l.current).Warn("skipping render")
		}
		return nil
	}

	if err := l.sink.Clear(l.opts.Background); err != nil {
		return &SinkError{Op: "clear", Err: err}
	}
	if err := l.ring.Draw(canvas{l.sink}, l.opts.PixelRadius); err != nil {
		return err
	}
	if err := l.sink.Present(); err != nil {
		return &SinkError{Op: "present", Err: err}
	}

	st := l.engine.State()
	l.snapshot.Store(&Snapshot{
		Pattern: st.Kind,
		Colors:  st.Colors,
		Frame:   st.Frame,
		Pixels:  l.ring.Colors(),
		At:      time.Now(),
	})
	return nil
}

// applyPending applies every queued command in order; only the last one is
// visible in the frame that follows.
func (l *Loop) applyPending() {
	for _, cmd := range l.queue.Drain() {
		entry := l.log.WithFields(logrus.Fields{
			"command_id": cmd.ID,
			"pattern":    cmd.Kind,
			"colors":     len(cmd.Colors),
			"frame":      l.engine.Frame(),
		})
		if err := l.engine.Apply(cmd); err != nil {
			entry.WithError(err).Warn("command rejected")
			continue
		}
		l.current = cmd.ID
		entry.Info("command applied")
		if l.opts.OnApply != nil {
			l.opts.OnApply(cmd)
		}
	}
}
