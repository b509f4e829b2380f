// Package region defines the user selected regions and their export modes.
package region

import (
	"fmt"
	"strings"

	"github.com/example/imageselector/internal/geometry"
)

// Mode tags what a region contains.
type Mode string

const (
	// Foto regions are exported as a cropped PNG.
	Foto Mode = "foto"
	// Text regions are exported as a PNG plus OCR text.
	Text Mode = "text"
)

// ParseMode accepts "foto" or "text" in any case.
func ParseMode(s string) (Mode, error) {
	switch Mode(strings.ToLower(strings.TrimSpace(s))) {
	case Foto:
		return Foto, nil
	case Text:
		return Text, nil
	}
	return "", fmt.Errorf("unknown region mode %q", s)
}

// Label is the upper case form shown in lists and summaries.
func (m Mode) Label() string { return strings.ToUpper(string(m)) }

// Region is a saved selection in display coordinates.
type Region struct {
	Rect geometry.Rect
	Mode Mode
}

// Label renders the region list entry, e.g. "1. FOTO (120x80)".
func (r Region) Label(index int) string {
	return fmt.Sprintf("%d. %s (%dx%d)", index, r.Mode.Label(), int(r.Rect.Width()), int(r.Rect.Height()))
}

// Original is a region mapped to original image pixels, ready for export.
type Original struct {
	Rect geometry.IntRect
	Mode Mode
}

// ToOriginal maps every region through geometry.TransformCoords.
func ToOriginal(regions []Region, scale float64) ([]Original, error) {
	out := make([]Original, 0, len(regions))
	for _, r := range regions {
		rect, err := geometry.TransformCoords(r.Rect, scale)
		if err != nil {
			return nil, err
		}
		out = append(out, Original{Rect: rect, Mode: r.Mode})
	}
	return out, nil
}
