// Package render prepares small preview images, such as notification icons.
package render

import (
	"image"
	"image/color"

	"github.com/disintegration/imaging"
)

// IconSize bounds the longer side of a notification icon.
const IconSize = 128

// ShadowOptions configures the drop shadow effect applied to an image.
type ShadowOptions struct {
	Radius  int
	Offset  image.Point
	Opacity float64
}

// ShadowResult captures the output of ApplyShadow.
type ShadowResult struct {
	// Image is the composited image that includes the blurred shadow.
	Image *image.NRGBA
	// Offset is where the original image's top-left corner ended up inside
	// the expanded canvas.
	Offset image.Point
}

// DefaultShadowOptions returns a subtle shadow sized for icons.
func DefaultShadowOptions() ShadowOptions {
	return ShadowOptions{
		Radius:  6,
		Offset:  image.Pt(4, 4),
		Opacity: 0.5,
	}
}

// ApplyShadow composites img over a blurred drop shadow. The result has a
// zero origin and is large enough to hold both.
func ApplyShadow(img image.Image, opts ShadowOptions) ShadowResult {
	if img == nil {
		return ShadowResult{}
	}
	src := imaging.Clone(img)
	if src.Bounds().Empty() || opts.Opacity <= 0 {
		return ShadowResult{Image: src}
	}
	opacity := opts.Opacity
	if opacity > 1 {
		opacity = 1
	}
	radius := opts.Radius
	if radius < 0 {
		radius = 0
	}

	b := src.Bounds()
	padded := b.Inset(-radius)
	shadowRect := padded.Add(opts.Offset)
	composite := b.Union(shadowRect)

	silhouette := image.NewNRGBA(padded.Sub(padded.Min))
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			a := src.NRGBAAt(x, y).A
			if a == 0 {
				continue
			}
			silhouette.SetNRGBA(x+radius, y+radius, color.NRGBA{A: uint8(float64(a)*opacity + 0.5)})
		}
	}
	var shadow image.Image = silhouette
	if radius > 0 {
		shadow = imaging.Blur(silhouette, float64(radius)/2)
	}

	dst := imaging.New(composite.Dx(), composite.Dy(), color.NRGBA{})
	dst = imaging.Overlay(dst, shadow, shadowRect.Min.Sub(composite.Min), 1)
	shift := b.Min.Sub(composite.Min)
	dst = imaging.Overlay(dst, src, shift, 1)
	return ShadowResult{Image: dst, Offset: shift}
}

// Thumbnail scales img down to fit a size x size box. Smaller images are
// returned unscaled.
func Thumbnail(img image.Image, size int) *image.NRGBA {
	return imaging.Fit(img, size, size, imaging.Lanczos)
}

// Icon is a thumbnail of img with the default drop shadow.
func Icon(img image.Image) *image.NRGBA {
	return ApplyShadow(Thumbnail(img, IconSize), DefaultShadowOptions()).Image
}
