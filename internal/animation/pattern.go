package animation

import (
	"math"

	"github.com/pkg/errors"

	"github.com/iburimskiy/led-ring/internal/ring"
)

// ErrInvalidCommand marks a palette that the active pattern cannot render,
// e.g. an empty color list for Solid.
var ErrInvalidCommand = errors.New("invalid command")

const (
	rainbowCycle = 120 // frames per full hue sweep
	breathPeriod = 15  // divisor applied to the frame counter before sin
	loopHold     = 60  // frames spent fading from one palette entry to the next
)

// pattern fills every pixel for one frame. Implementations are pure in
// (frame, colors) and only write pixel colors.
type pattern func(frame uint64, colors []ring.Color, pixels []ring.Pixel) error

var patterns = [...]pattern{
	Solid:   renderSolid,
	Rainbow: renderRainbow,
	Breath:  renderBreath,
	Loop:    renderLoop,
}

func renderSolid(_ uint64, colors []ring.Color, pixels []ring.Pixel) error {
	c, err := SolidColor(colors)
	if err != nil {
		return err
	}
	fill(pixels, c)
	return nil
}

func renderRainbow(frame uint64, _ []ring.Color, pixels []ring.Pixel) error {
	for i := range pixels {
		pixels[i].Color = RainbowColor(frame, i, len(pixels))
	}
	return nil
}

func renderBreath(frame uint64, colors []ring.Color, pixels []ring.Pixel) error {
	c, err := BreathColor(frame, colors)
	if err != nil {
		return err
	}
	fill(pixels, c)
	return nil
}

func renderLoop(frame uint64, colors []ring.Color, pixels []ring.Pixel) error {
	c, err := LoopColor(frame, colors)
	if err != nil {
		return err
	}
	fill(pixels, c)
	return nil
}

func fill(pixels []ring.Pixel, c ring.Color) {
	for i := range pixels {
		pixels[i].Color = c
	}
}

func requireColors(kind Kind, colors []ring.Color) error {
	if len(colors) == 0 {
		return errors.Wrapf(ErrInvalidCommand, "%s needs at least one color", kind)
	}
	return nil
}

// SolidColor is the first palette entry, unchanged.
func SolidColor(colors []ring.Color) (ring.Color, error) {
	if err := requireColors(Solid, colors); err != nil {
		return ring.Color{}, err
	}
	return colors[0], nil
}

// RainbowColor returns the color of pixel i out of n. The hue advances by a
// full turn every rainbowCycle frames and is offset by the pixel's share of
// the ring.
func RainbowColor(frame uint64, i, n int) ring.Color {
	move := float64(frame%rainbowCycle) / rainbowCycle
	hue := math.Mod(float64(i)/float64(n)+move, 1.0)
	r, g, b := hueToRGB(hue)
	return ring.Color{
		R: channel(r * 255),
		G: channel(g * 255),
		B: channel(b * 255),
	}
}

// hueToRGB converts a fully saturated, full value hue in [0, 1) using the
// six-sector integer/fraction split. Channels near .5 depend on this exact
// float path.
func hueToRGB(h float64) (r, g, b float64) {
	sector := int(h * 6)
	f := float64(h*6) - float64(sector)
	q := 1 - f
	t := 1 - (1 - f)
	switch sector % 6 {
	case 0:
		return 1, t, 0
	case 1:
		return q, 1, 0
	case 2:
		return 0, 1, t
	case 3:
		return 0, q, 1
	case 4:
		return t, 0, 1
	}
	return 1, 0, q
}

// BreathColor scales the first palette entry by (sin(frame/15)+1)/2,
// flooring each channel.
func BreathColor(frame uint64, colors []ring.Color) (ring.Color, error) {
	if err := requireColors(Breath, colors); err != nil {
		return ring.Color{}, err
	}
	v := (math.Sin(float64(frame)/breathPeriod) + 1) / 2
	base := colors[0]
	return ring.Color{
		R: floorChannel(float64(base.R) * v),
		G: floorChannel(float64(base.G) * v),
		B: floorChannel(float64(base.B) * v),
	}, nil
}

// LoopColor cross-fades linearly through the palette, spending loopHold
// frames on each transition and wrapping back to the first entry.
func LoopColor(frame uint64, colors []ring.Color) (ring.Color, error) {
	if err := requireColors(Loop, colors); err != nil {
		return ring.Color{}, err
	}
	const k = loopHold
	n := uint64(k * len(colors))
	m := frame % n
	i := m / k
	j := (i + 1) % uint64(len(colors))
	v2 := m % k
	v1 := k - v2
	w1 := float64(v1) / k
	w2 := float64(v2) / k
	c1, c2 := colors[i], colors[j]
	return ring.Color{
		R: floorChannel(mix(w1, c1.R, w2, c2.R)),
		G: floorChannel(mix(w1, c1.G, w2, c2.G)),
		B: floorChannel(mix(w1, c1.B, w2, c2.B)),
	}, nil
}

// mix is w1*a + w2*b with each product rounded before the sum.
func mix(w1 float64, a uint8, w2 float64, b uint8) float64 {
	return float64(w1*float64(a)) + float64(w2*float64(b))
}

// channel rounds half away from zero and clamps to 0..255.
func channel(v float64) uint8 {
	return clamp(math.Round(v))
}

func floorChannel(v float64) uint8 {
	return clamp(math.Floor(v))
}

func clamp(v float64) uint8 {
	switch {
	case v <= 0:
		return 0
	case v >= 255:
		return 255
	}
	return uint8(v)
}
