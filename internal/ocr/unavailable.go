//go:build !tesseract

package ocr

import (
	"context"
	"image"
)

// Available reports whether this build can recognize text.
const Available = false

type unavailable struct{}

// New returns an engine that always fails with ErrUnavailable. Build with
// -tags tesseract for real recognition.
func New(string) Engine { return unavailable{} }

func (unavailable) Text(context.Context, image.Image) (string, error) {
	return "", ErrUnavailable
}
