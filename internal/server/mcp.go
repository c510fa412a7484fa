package server

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/pkg/errors"

	"github.com/iburimskiy/led-ring/internal/animation"
	"github.com/iburimskiy/led-ring/internal/ring"
)

// ColorArgs carries one RGB color.
type ColorArgs struct {
	Color []int `json:"color" jsonschema:"the color as [red, green, blue], each 0-255"`
}

// PaletteArgs carries the colors a loop fades through.
type PaletteArgs struct {
	Colors [][]int `json:"colors" jsonschema:"colors to cycle through, each [red, green, blue] with channels 0-255"`
}

// NoArgs is the input of tools without parameters.
type NoArgs struct{}

func (s *Server) newMCPServer(version string) *mcp.Server {
	srv := mcp.NewServer(&mcp.Implementation{Name: "led-ring", Version: version}, nil)

	mcp.AddTool(srv, &mcp.Tool{
		Name:        "set_solid",
		Description: "Light the whole LED ring with one steady color.",
	}, s.toolSolid)
	mcp.AddTool(srv, &mcp.Tool{
		Name:        "set_rainbow",
		Description: "Run a rainbow that rotates around the LED ring.",
	}, s.toolRainbow)
	mcp.AddTool(srv, &mcp.Tool{
		Name:        "set_breath",
		Description: "Slowly pulse the LED ring in one color, like breathing.",
	}, s.toolBreath)
	mcp.AddTool(srv, &mcp.Tool{
		Name:        "set_loop",
		Description: "Smoothly fade the LED ring from one color to the next, looping over the list.",
	}, s.toolLoop)
	mcp.AddTool(srv, &mcp.Tool{
		Name:        "get_state",
		Description: "Report the current pattern, its colors and the frame counter.",
	}, s.toolState)

	return srv
}

func (s *Server) toolSolid(_ context.Context, _ *mcp.CallToolRequest, in ColorArgs) (*mcp.CallToolResult, any, error) {
	c, err := ring.FromInts(in.Color)
	if err != nil {
		return nil, nil, err
	}
	return s.toolSubmit(animation.Solid, []ring.Color{c})
}

func (s *Server) toolRainbow(_ context.Context, _ *mcp.CallToolRequest, _ NoArgs) (*mcp.CallToolResult, any, error) {
	return s.toolSubmit(animation.Rainbow, nil)
}

func (s *Server) toolBreath(_ context.Context, _ *mcp.CallToolRequest, in ColorArgs) (*mcp.CallToolResult, any, error) {
	c, err := ring.FromInts(in.Color)
	if err != nil {
		return nil, nil, err
	}
	return s.toolSubmit(animation.Breath, []ring.Color{c})
}

func (s *Server) toolLoop(_ context.Context, _ *mcp.CallToolRequest, in PaletteArgs) (*mcp.CallToolResult, any, error) {
	colors := make([]ring.Color, 0, len(in.Colors))
	for i, raw := range in.Colors {
		c, err := ring.FromInts(raw)
		if err != nil {
			return nil, nil, errors.Wrapf(err, "colors[%d]", i)
		}
		colors = append(colors, c)
	}
	return s.toolSubmit(animation.Loop, colors)
}

func (s *Server) toolState(_ context.Context, _ *mcp.CallToolRequest, _ NoArgs) (*mcp.CallToolResult, any, error) {
	snap := s.ctl.Snapshot()
	if snap == nil {
		return nil, nil, errors.New("no frame rendered yet")
	}
	b, err := json.Marshal(snap)
	if err != nil {
		return nil, nil, errors.Wrap(err, "encode state")
	}
	return textResult(string(b)), nil, nil
}

func (s *Server) toolSubmit(kind animation.Kind, colors []ring.Color) (*mcp.CallToolResult, any, error) {
	cmd, err := s.submit(kind, colors)
	if err != nil {
		return nil, nil, err
	}
	return textResult(fmt.Sprintf("%s pattern queued (command %s)", kind, cmd.ID)), nil, nil
}

func textResult(text string) *mcp.CallToolResult {
	return &mcp.CallToolResult{
		Content: []mcp.Content{&mcp.TextContent{Text: text}},
	}
}
