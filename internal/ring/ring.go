// Package ring models the circular strip of pixels: where each pixel sits on
// the canvas and what color it currently shows.
package ring

import "math"

// Geometry describes the logical canvas and the circle the pixels sit on.
type Geometry struct {
	Size   int     // number of pixels
	Width  float64 // canvas width
	Height float64 // canvas height
	Radius float64 // ring radius
}

// DefaultGeometry is a 50 pixel ring of radius 200 centred on a 600x600 canvas.
func DefaultGeometry() Geometry {
	return Geometry{
		Size:   50,
		Width:  600,
		Height: 600,
		Radius: 200,
	}
}

// Pixel is one addressable light. X and Y are fixed at construction.
type Pixel struct {
	Index int
	X, Y  float64
	Color Color
}

// Canvas is anything a pixel can paint itself onto.
type Canvas interface {
	DrawCircle(x, y, radius float64, c Color) error
}

// Draw paints the pixel as a filled circle at its position.
func (p *Pixel) Draw(dst Canvas, radius float64) error {
	return dst.DrawCircle(p.X, p.Y, radius, p.Color)
}

// Ring is the full set of pixels in index order.
type Ring struct {
	Geometry Geometry
	Pixels   []Pixel
}

// New lays out g.Size pixels counter-clockwise from the 3 o'clock position.
// Screen y grows downwards, hence the negated sine term.
func New(g Geometry) *Ring {
	r := &Ring{
		Geometry: g,
		Pixels:   make([]Pixel, g.Size),
	}
	for i := range r.Pixels {
		x, y := g.Position(i)
		r.Pixels[i] = Pixel{Index: i, X: x, Y: y, Color: White}
	}
	return r
}

// Position returns the canvas coordinates of pixel i.
func (g Geometry) Position(i int) (x, y float64) {
	angle := 2 * math.Pi / float64(g.Size) * float64(i)
	x = g.Radius*math.Cos(angle) + g.Width/2
	y = -g.Radius*math.Sin(angle) + g.Height/2
	return x, y
}

// Len is the number of pixels.
func (r *Ring) Len() int { return len(r.Pixels) }

// Fill sets every pixel to c.
func (r *Ring) Fill(c Color) {
	for i := range r.Pixels {
		r.Pixels[i].Color = c
	}
}

// Colors copies the current pixel colors in index order.
func (r *Ring) Colors() []Color {
	out := make([]Color, len(r.Pixels))
	for i, p := range r.Pixels {
		out[i] = p.Color
	}
	return out
}

// Draw asks every pixel to paint itself, stopping at the first error.
func (r *Ring) Draw(dst Canvas, pixelRadius float64) error {
	for i := range r.Pixels {
		if err := r.Pixels[i].Draw(dst, pixelRadius); err != nil {
			return err
		}
	}
	return nil
}
