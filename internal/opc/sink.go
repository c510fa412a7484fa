// Package opc streams ring frames to an Open Pixel Control server, such as
// the fadecandy fcserver driving a physical LED strip.
package opc

import (
	"net"
	"sync/atomic"
	"time"

	goopc "github.com/kellydunn/go-opc"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"

	"github.com/iburimskiy/led-ring/internal/ring"
)

const (
	// maxPixels is the most RGB triples a 16 bit length field can carry.
	maxPixels = 0xffff / 3

	writeTimeout = 100 * time.Millisecond
)

// Sink sends one "set pixel colours" message per presented frame. Pixels go
// out in draw order, which the render loop guarantees is ring index order.
type Sink struct {
	client  *goopc.Client
	channel uint8
	log     logrus.FieldLogger

	pixels []ring.Color
	closed atomic.Bool
}

// Dial connects to addr over TCP.
func Dial(addr string, channel uint8, log logrus.FieldLogger) (*Sink, error) {
	client := goopc.NewClient()
	if err := client.Connect("tcp", addr); err != nil {
		return nil, errors.Wrapf(err, "dial opc server %s", addr)
	}
	log.WithField("addr", addr).Info("connected to opc server")
	return newSink(client, channel, log), nil
}

// New uses an existing connection.
func New(conn net.Conn, channel uint8, log logrus.FieldLogger) *Sink {
	return newSink(&goopc.Client{Sock: conn}, channel, log)
}

func newSink(client *goopc.Client, channel uint8, log logrus.FieldLogger) *Sink {
	return &Sink{
		client:  client,
		channel: channel,
		log:     log.WithField("component", "opc"),
		pixels:  make([]ring.Color, 0, 64),
	}
}

// Clear starts a new frame. The strip has no background, so bg is unused.
func (s *Sink) Clear(_ ring.Color) error {
	s.pixels = s.pixels[:0]
	return nil
}

func (s *Sink) DrawCircle(_, _, _ float64, c ring.Color) error {
	if len(s.pixels) >= maxPixels {
		return errors.Errorf("opc frame holds at most %d pixels", maxPixels)
	}
	s.pixels = append(s.pixels, c)
	return nil
}

// message packs the pending frame.
func (s *Sink) message() *goopc.Message {
	m := goopc.NewMessage(s.channel)
	m.SetLength(uint16(3 * len(s.pixels)))
	for i, c := range s.pixels {
		m.SetPixelColor(i, c.R, c.G, c.B)
	}
	return m
}

func (s *Sink) Present() error {
	if err := s.client.Sock.SetWriteDeadline(time.Now().Add(writeTimeout)); err != nil {
		return errors.Wrap(err, "set opc write deadline")
	}
	if err := s.client.Send(s.message()); err != nil {
		return errors.Wrap(err, "write opc frame")
	}
	return nil
}

// PollShutdown is always false; a strip cannot ask to stop.
func (s *Sink) PollShutdown() bool {
	return false
}

// Close blanks the strip and drops the connection.
func (s *Sink) Close() error {
	if !s.closed.CompareAndSwap(false, true) {
		return nil
	}
	if len(s.pixels) > 0 {
		for i := range s.pixels {
			s.pixels[i] = ring.Black
		}
		if err := s.Present(); err != nil {
			s.log.WithError(err).Debug("blanking strip on close")
		}
	}
	return s.client.Sock.Close()
}
