package game

import (
	"errors"

	"github.com/ncruces/zenity"

	"github.com/iburimskiy/led-ring/internal/ring"
)

// PickColor opens the native color chooser seeded with initial.
func PickColor(initial ring.Color) (ring.Color, bool, error) {
	c, err := zenity.SelectColor(
		zenity.Title("Ring color"),
		zenity.Color(initial),
		zenity.ShowPalette(),
	)
	if err != nil {
		if errors.Is(err, zenity.ErrCanceled) {
			return initial, false, nil
		}
		return initial, false, err
	}
	r, g, b, _ := c.RGBA()
	return ring.Color{R: uint8(r >> 8), G: uint8(g >> 8), B: uint8(b >> 8)}, true, nil
}
