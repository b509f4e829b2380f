// Package ocr recognizes text in exported text regions.
package ocr

import (
	"context"
	"errors"
	"fmt"
	"image"
	"strings"
)

// DefaultLanguage is German plus English, in tesseract notation.
const DefaultLanguage = "deu+eng"

// Placeholders written instead of recognized text.
const (
	NoTextPlaceholder      = "[no text recognized]"
	UnavailablePlaceholder = "[OCR unavailable - build with -tags tesseract]"
)

// ErrUnavailable is returned by the engine of builds without tesseract.
var ErrUnavailable = errors.New("OCR engine not compiled in")

// Engine turns an image into text.
type Engine interface {
	Text(ctx context.Context, img image.Image) (string, error)
}

// EngineFunc adapts a function to Engine.
type EngineFunc func(ctx context.Context, img image.Image) (string, error)

// Text calls f.
func (f EngineFunc) Text(ctx context.Context, img image.Image) (string, error) {
	return f(ctx, img)
}

// Recognize runs engine on img and returns the text to store for a region:
// the trimmed result, or a placeholder when there is nothing to store.
func Recognize(ctx context.Context, engine Engine, img image.Image) string {
	if engine == nil {
		return UnavailablePlaceholder
	}
	text, err := engine.Text(ctx, img)
	return Placeholder(text, err)
}

// Placeholder maps an engine result to the stored text.
func Placeholder(text string, err error) string {
	switch {
	case errors.Is(err, ErrUnavailable):
		return UnavailablePlaceholder
	case err != nil:
		return fmt.Sprintf("[OCR error: %v]", err)
	}
	if text = strings.TrimSpace(text); text == "" {
		return NoTextPlaceholder
	}
	return text
}

// languages splits "deu+eng" into tesseract language codes.
func languages(lang string) []string {
	var out []string
	for _, l := range strings.Split(lang, "+") {
		if l = strings.TrimSpace(l); l != "" {
			out = append(out, l)
		}
	}
	if len(out) == 0 {
		return languages(DefaultLanguage)
	}
	return out
}
