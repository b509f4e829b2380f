// Package geometry maps rectangles between display space and original image
// space.
package geometry

import (
	"errors"
	"image"
	"math"
)

// MinSelection is the smallest accepted side of a selection, in display
// pixels. Selections with a side at or below it are discarded.
const MinSelection = 5

// DefaultScaleCap allows mild upscaling of small images.
const DefaultScaleCap = 1.25

// DefaultCanvas is used for scaling until the window has been laid out.
var DefaultCanvas = image.Pt(1600, 1280)

// ErrZeroScale is returned when a transform is asked to divide by zero.
var ErrZeroScale = errors.New("scale factor must be non-zero")

// Rect is a rectangle in display coordinates.
type Rect struct {
	X1, Y1, X2, Y2 float64
}

// RectFromPoints builds the rectangle spanned by two corners in any order.
func RectFromPoints(ax, ay, bx, by float64) Rect {
	return Rect{X1: ax, Y1: ay, X2: bx, Y2: by}.Normalize()
}

// Normalize orders the corners so that X1 <= X2 and Y1 <= Y2.
func (r Rect) Normalize() Rect {
	return Rect{
		X1: math.Min(r.X1, r.X2),
		Y1: math.Min(r.Y1, r.Y2),
		X2: math.Max(r.X1, r.X2),
		Y2: math.Max(r.Y1, r.Y2),
	}
}

// Width of the rectangle.
func (r Rect) Width() float64 { return r.X2 - r.X1 }

// Height of the rectangle.
func (r Rect) Height() float64 { return r.Y2 - r.Y1 }

// Selectable reports whether a normalized rectangle is large enough to keep.
func (r Rect) Selectable() bool {
	return r.Width() > MinSelection && r.Height() > MinSelection
}

// Image converts the rectangle to an image.Rectangle, truncating each corner.
func (r Rect) Image() image.Rectangle {
	return image.Rect(int(r.X1), int(r.Y1), int(r.X2), int(r.Y2))
}

// Scaled multiplies every corner by s.
func (r Rect) Scaled(s float64) Rect {
	return Rect{X1: r.X1 * s, Y1: r.Y1 * s, X2: r.X2 * s, Y2: r.Y2 * s}
}

// IntRect is a rectangle in original image pixels.
type IntRect struct {
	X1, Y1, X2, Y2 int
}

// Image returns the equivalent image.Rectangle.
func (r IntRect) Image() image.Rectangle {
	return image.Rect(r.X1, r.Y1, r.X2, r.Y2)
}

// ComputeScale returns the factor that fits an iw x ih image into a cw x ch
// canvas, never exceeding limit. Non-positive image dimensions give 1.
func ComputeScale(iw, ih, cw, ch int, limit float64) float64 {
	if iw <= 0 || ih <= 0 {
		return 1.0
	}
	sx := float64(cw) / float64(iw)
	sy := float64(ch) / float64(ih)
	return math.Min(math.Min(sx, sy), limit)
}

// TransformCoords maps a display rectangle back to original pixels by dividing
// by scale and truncating toward zero.
func TransformCoords(r Rect, scale float64) (IntRect, error) {
	if scale == 0 {
		return IntRect{}, ErrZeroScale
	}
	return IntRect{
		X1: int(r.X1 / scale),
		Y1: int(r.Y1 / scale),
		X2: int(r.X2 / scale),
		Y2: int(r.Y2 / scale),
	}, nil
}

// DisplaySize returns the dimensions of a w x h image shown at scale. Both
// sides are at least one pixel.
func DisplaySize(w, h int, scale float64) (int, int) {
	dw := int(float64(w) * scale)
	dh := int(float64(h) * scale)
	if dw < 1 {
		dw = 1
	}
	if dh < 1 {
		dh = 1
	}
	return dw, dh
}
