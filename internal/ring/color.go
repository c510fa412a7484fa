package ring

import (
	"encoding/json"
	"fmt"

	"github.com/lucasb-eyer/go-colorful"
	"github.com/pkg/errors"
)

// Color is an 8-bit RGB triple.
type Color struct {
	R, G, B uint8
}

var (
	Black = Color{0, 0, 0}
	White = Color{255, 255, 255}
	Red   = Color{255, 0, 0}
	Green = Color{0, 255, 0}
	Blue  = Color{0, 0, 255}
)

// RGBA implements color.Color so a ring color can be handed straight to
// image and drawing APIs.
func (c Color) RGBA() (r, g, b, a uint32) {
	r = uint32(c.R)
	r |= r << 8
	g = uint32(c.G)
	g |= g << 8
	b = uint32(c.B)
	b |= b << 8
	return r, g, b, 0xffff
}

func (c Color) String() string {
	return fmt.Sprintf("(%d, %d, %d)", c.R, c.G, c.B)
}

// MarshalJSON encodes the color as [r, g, b].
func (c Color) MarshalJSON() ([]byte, error) {
	return json.Marshal([3]int{int(c.R), int(c.G), int(c.B)})
}

// UnmarshalJSON accepts exactly three integer channels in 0..255, or a
// "#rrggbb" string.
func (c *Color) UnmarshalJSON(data []byte) error {
	var hex string
	if json.Unmarshal(data, &hex) == nil {
		parsed, err := ParseHex(hex)
		if err != nil {
			return err
		}
		*c = parsed
		return nil
	}

	var channels []int
	if err := json.Unmarshal(data, &channels); err != nil {
		return errors.Wrap(err, "color must be a list of three integers")
	}
	parsed, err := FromInts(channels)
	if err != nil {
		return err
	}
	*c = parsed
	return nil
}

// FromInts builds a Color from a three element channel list, rejecting
// anything outside 0..255.
func FromInts(channels []int) (Color, error) {
	if len(channels) != 3 {
		return Color{}, errors.Errorf("color needs 3 channels, got %d", len(channels))
	}
	for i, v := range channels {
		if v < 0 || v > 255 {
			return Color{}, errors.Errorf("color channel %d out of range: %d", i, v)
		}
	}
	return Color{uint8(channels[0]), uint8(channels[1]), uint8(channels[2])}, nil
}

// ParseHex reads a "#rrggbb" color.
func ParseHex(s string) (Color, error) {
	col, err := colorful.Hex(s)
	if err != nil {
		return Color{}, errors.Wrapf(err, "color %q", s)
	}
	r, g, b := col.RGB255()
	return Color{r, g, b}, nil
}

// Hex formats the color as "#rrggbb".
func (c Color) Hex() string {
	return colorful.Color{
		R: float64(c.R) / 255,
		G: float64(c.G) / 255,
		B: float64(c.B) / 255,
	}.Hex()
}
