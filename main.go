package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/iburimskiy/led-ring/internal/animation"
	"github.com/iburimskiy/led-ring/internal/config"
	"github.com/iburimskiy/led-ring/internal/game"
	"github.com/iburimskiy/led-ring/internal/loop"
	"github.com/iburimskiy/led-ring/internal/queue"
	"github.com/iburimskiy/led-ring/internal/ring"
	"github.com/iburimskiy/led-ring/internal/server"
)

var version = "dev"

// options holds the command line. Flags left unset do not override the
// config file.
type options struct {
	configPath  string
	sinks       string
	addr        string
	opcAddr     string
	size        int
	fps         int
	chime       bool
	noServer    bool
	verbose     bool
	showVersion bool

	set map[string]bool
}

func parseFlags(args []string) (options, error) {
	var o options
	fs := flag.NewFlagSet("led-ring", flag.ContinueOnError)
	fs.StringVar(&o.configPath, "config", "", "YAML config file")
	fs.StringVar(&o.sinks, "sink", "", "comma separated outputs: window, terminal, opc, headless")
	fs.StringVar(&o.addr, "addr", "", "command server listen address")
	fs.StringVar(&o.opcAddr, "opc", "", "Open Pixel Control server address")
	fs.IntVar(&o.size, "size", 0, "number of pixels on the ring")
	fs.IntVar(&o.fps, "fps", 0, "ticks per second")
	fs.BoolVar(&o.chime, "chime", false, "play a short tone when the pattern changes")
	fs.BoolVar(&o.noServer, "no-server", false, "do not start the command server")
	fs.BoolVar(&o.verbose, "v", false, "debug logging")
	fs.BoolVar(&o.showVersion, "version", false, "print version and exit")

	if err := fs.Parse(args); err != nil {
		return o, err
	}
	o.set = map[string]bool{}
	fs.Visit(func(f *flag.Flag) { o.set[f.Name] = true })
	return o, nil
}

// buildConfig layers flags over the config file over the defaults.
func buildConfig(o options) (config.Config, error) {
	cfg := config.Default()
	if o.configPath != "" {
		var err error
		if cfg, err = config.Load(o.configPath); err != nil {
			return cfg, err
		}
	}
	if o.set["sink"] {
		cfg.Sinks = o.sinks
	}
	if o.set["addr"] {
		cfg.Server.Addr = o.addr
	}
	if o.set["opc"] {
		cfg.OPC.Addr = o.opcAddr
	}
	if o.set["size"] {
		cfg.Ring.Size = o.size
	}
	if o.set["fps"] {
		cfg.TickRate = o.fps
	}
	if o.set["chime"] {
		cfg.Chime = o.chime
	}
	if o.noServer {
		cfg.Server.Enabled = false
	}
	if o.verbose {
		cfg.Log.Level = "debug"
	}
	return cfg, cfg.Validate()
}

func newLogger(c config.Log, quiet bool) (*logrus.Logger, io.Closer, error) {
	log := logrus.New()
	level, err := logrus.ParseLevel(c.Level)
	if err != nil {
		return nil, nil, err
	}
	log.SetLevel(level)
	if c.Format == "json" {
		log.SetFormatter(&logrus.JSONFormatter{})
	} else {
		log.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	}

	switch {
	case c.File != "":
		f, err := os.OpenFile(c.File, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
		if err != nil {
			return nil, nil, err
		}
		log.SetOutput(f)
		return log, f, nil
	case quiet:
		// The terminal sink owns the screen.
		log.SetOutput(io.Discard)
	}
	return log, io.NopCloser(nil), nil
}

// submitFunc lets sinks built before the loop submit commands to it.
type submitFunc func(animation.Kind, []ring.Color) animation.Command

func (f submitFunc) Submit(kind animation.Kind, colors []ring.Color) animation.Command {
	return f(kind, colors)
}

func main() {
	o, err := parseFlags(os.Args[1:])
	if err != nil {
		if errors.Is(err, flag.ErrHelp) {
			os.Exit(0)
		}
		os.Exit(2)
	}
	if o.showVersion {
		fmt.Printf("led-ring %s\n", version)
		os.Exit(0)
	}
	os.Exit(run(o))
}

// run wires the ring and blocks until it stops. It returns the exit code.
func run(o options) int {
	cfg, err := buildConfig(o)
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		return 2
	}
	usesTerminal := false
	for _, n := range cfg.SinkNames() {
		usesTerminal = usesTerminal || n == config.SinkTerminal
	}
	log, logFile, err := newLogger(cfg.Log, usesTerminal)
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		return 2
	}
	defer logFile.Close()

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	var l *loop.Loop
	submit := submitFunc(func(kind animation.Kind, colors []ring.Color) animation.Command {
		return l.Submit(kind, colors)
	})

	out, err := openSinks(cfg, submit, log)
	if err != nil {
		log.WithError(err).Error("cannot open frame sink")
		return 1
	}
	defer out.Close()

	opts := loop.Options{
		Geometry:    cfg.Geometry(),
		PixelRadius: cfg.Ring.PixelRadius,
		TickRate:    cfg.TickRate,
		Background:  ring.Black,
		Logger:      log,
	}
	if cfg.Chime {
		chime, err := game.NewChime()
		if err != nil {
			log.WithError(err).Warn("chime disabled")
		} else {
			opts.OnApply = chime.Play
		}
	}
	l = loop.New(out.sink, queue.New(), opts)

	if cfg.Server.Enabled {
		stop := serve(cfg.Server, server.New(l, cfg.Server.MCPPath, version, log), log)
		defer stop()
	}

	if err := runLoop(ctx, cancel, l, out.window); err != nil {
		log.WithError(err).Error("ring stopped")
		return 1
	}
	log.Info("ring stopped")
	return 0
}

// runLoop blocks until the loop is Stopped. ebiten needs the main
// goroutine, so with a window the loop moves to a background goroutine.
func runLoop(ctx context.Context, cancel context.CancelFunc, l *loop.Loop, window *game.Window) error {
	if window == nil {
		return l.Run(ctx)
	}

	errc := make(chan error, 1)
	go func() {
		err := l.Run(ctx)
		window.Finish()
		errc <- err
	}()

	winErr := window.Run(config.WindowTitle)
	// The window may die on its own; make sure the loop follows.
	cancel()
	loopErr := <-errc
	if loopErr != nil {
		return loopErr
	}
	return winErr
}

func serve(c config.Server, h http.Handler, log logrus.FieldLogger) (stop func()) {
	srv := &http.Server{
		Addr:              c.Addr,
		Handler:           h,
		ReadHeaderTimeout: 5 * time.Second,
	}
	go func() {
		log.WithFields(logrus.Fields{"addr": c.Addr, "mcp": c.MCPPath}).Info("command server listening")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.WithError(err).Error("command server failed")
		}
	}()
	return func() {
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		if err := srv.Shutdown(ctx); err != nil {
			_ = srv.Close()
		}
	}
}
