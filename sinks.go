package main

import (
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"

	"github.com/iburimskiy/led-ring/internal/config"
	"github.com/iburimskiy/led-ring/internal/game"
	"github.com/iburimskiy/led-ring/internal/loop"
	"github.com/iburimskiy/led-ring/internal/opc"
	"github.com/iburimskiy/led-ring/internal/sink"
	"github.com/iburimskiy/led-ring/internal/term"
)

// outputs is the set of opened sinks plus their teardown.
type outputs struct {
	sink    loop.FrameSink
	window  *game.Window
	closers []func()
}

func (o *outputs) Close() {
	for i := len(o.closers) - 1; i >= 0; i-- {
		o.closers[i]()
	}
}

// openSinks opens every configured output. A single output is used as is;
// several are combined with sink.Multi.
func openSinks(cfg config.Config, submit game.Submitter, log logrus.FieldLogger) (*outputs, error) {
	out := &outputs{}
	var targets sink.Multi

	for _, name := range cfg.SinkNames() {
		switch name {
		case config.SinkWindow:
			out.window = game.NewWindow(int(cfg.Ring.Width), int(cfg.Ring.Height), submit, game.PickColor, log)
			targets = append(targets, out.window)

		case config.SinkTerminal:
			t, err := term.Open(cfg.Ring.Width, cfg.Ring.Height)
			if err != nil {
				out.Close()
				return nil, err
			}
			out.closers = append(out.closers, t.Close)
			targets = append(targets, t)

		case config.SinkOPC:
			s, err := opc.Dial(cfg.OPC.Addr, cfg.OPC.Channel, log)
			if err != nil {
				out.Close()
				return nil, err
			}
			out.closers = append(out.closers, func() {
				if err := s.Close(); err != nil {
					log.WithError(err).Debug("closing opc sink")
				}
			})
			targets = append(targets, s)

		case config.SinkHeadless:
			targets = append(targets, sink.NewMemory())

		default:
			out.Close()
			return nil, errors.Errorf("unknown sink %q", name)
		}
	}

	switch len(targets) {
	case 0:
		return nil, errors.New("no frame sink configured")
	case 1:
		out.sink = targets[0]
	default:
		out.sink = targets
	}
	return out, nil
}
