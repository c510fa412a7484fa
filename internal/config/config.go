package config

import (
	"bytes"
	"os"
	"strings"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"

	"github.com/iburimskiy/led-ring/internal/ring"
)

const (
	WindowTitle = "LED Ring - 1..4: pattern, C: pick color, Esc/Q: quit"

	SinkWindow   = "window"
	SinkTerminal = "terminal"
	SinkOPC      = "opc"
	SinkHeadless = "headless"
)

// Ring describes the simulated strip and how it is drawn.
type Ring struct {
	Size        int     `yaml:"size"`
	Width       float64 `yaml:"width"`
	Height      float64 `yaml:"height"`
	Radius      float64 `yaml:"radius"`
	PixelRadius float64 `yaml:"pixel_radius"`
}

// Server is the network command surface.
type Server struct {
	Enabled bool   `yaml:"enabled"`
	Addr    string `yaml:"addr"`
	MCPPath string `yaml:"mcp_path"`
}

// OPC points at an Open Pixel Control server such as fcserver.
type OPC struct {
	Addr    string `yaml:"addr"`
	Channel uint8  `yaml:"channel"`
}

// Log controls logrus output. An empty File means stderr.
type Log struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
	File   string `yaml:"file"`
}

type Config struct {
	Ring     Ring   `yaml:"ring"`
	TickRate int    `yaml:"tick_rate"`
	Sinks    string `yaml:"sinks"`
	OPC      OPC    `yaml:"opc"`
	Server   Server `yaml:"server"`
	Chime    bool   `yaml:"chime"`
	Log      Log    `yaml:"log"`
}

// Default is a 50 pixel ring on a 600x600 window at 60 ticks per second with
// the command server on port 8000.
func Default() Config {
	g := ring.DefaultGeometry()
	return Config{
		Ring: Ring{
			Size:        g.Size,
			Width:       g.Width,
			Height:      g.Height,
			Radius:      g.Radius,
			PixelRadius: 10,
		},
		TickRate: 60,
		Sinks:    SinkWindow,
		OPC: OPC{
			Addr:    "127.0.0.1:7890",
			Channel: 0,
		},
		Server: Server{
			Enabled: true,
			Addr:    "127.0.0.1:8000",
			MCPPath: "/mcp",
		},
		Log: Log{
			Level:  "info",
			Format: "text",
		},
	}
}

// Load reads a YAML file on top of Default. Unknown keys are an error.
func Load(path string) (Config, error) {
	cfg := Default()
	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, errors.Wrap(err, "read config")
	}
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&cfg); err != nil {
		return cfg, errors.Wrapf(err, "parse config %s", path)
	}
	return cfg, cfg.Validate()
}

// Geometry converts the ring section for ring.New.
func (c Config) Geometry() ring.Geometry {
	return ring.Geometry{
		Size:   c.Ring.Size,
		Width:  c.Ring.Width,
		Height: c.Ring.Height,
		Radius: c.Ring.Radius,
	}
}

// SinkNames splits the comma separated sink list.
func (c Config) SinkNames() []string {
	var out []string
	for _, s := range strings.Split(c.Sinks, ",") {
		if s = strings.TrimSpace(strings.ToLower(s)); s != "" {
			out = append(out, s)
		}
	}
	return out
}

func (c Config) Validate() error {
	switch {
	case c.Ring.Size <= 0:
		return errors.Errorf("ring size must be positive, got %d", c.Ring.Size)
	case c.Ring.Width <= 0 || c.Ring.Height <= 0:
		return errors.Errorf("canvas must be positive, got %vx%v", c.Ring.Width, c.Ring.Height)
	case c.Ring.Radius <= 0:
		return errors.Errorf("ring radius must be positive, got %v", c.Ring.Radius)
	case c.Ring.PixelRadius <= 0:
		return errors.Errorf("pixel radius must be positive, got %v", c.Ring.PixelRadius)
	case c.TickRate <= 0:
		return errors.Errorf("tick rate must be positive, got %d", c.TickRate)
	}

	names := c.SinkNames()
	if len(names) == 0 {
		return errors.New("at least one sink is required")
	}
	seen := map[string]bool{}
	for _, n := range names {
		switch n {
		case SinkWindow, SinkTerminal, SinkOPC, SinkHeadless:
		default:
			return errors.Errorf("unknown sink %q", n)
		}
		if seen[n] {
			return errors.Errorf("sink %q listed twice", n)
		}
		seen[n] = true
	}
	if seen[SinkWindow] && seen[SinkTerminal] {
		return errors.New("window and terminal sinks cannot run together")
	}
	if seen[SinkOPC] && c.OPC.Addr == "" {
		return errors.New("opc sink needs an address")
	}
	switch c.Log.Format {
	case "text", "json":
	default:
		return errors.Errorf("unknown log format %q", c.Log.Format)
	}
	if c.Server.Enabled && c.Server.Addr == "" {
		return errors.New("server address is empty")
	}
	return nil
}
