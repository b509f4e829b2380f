//go:build tesseract

package ocr

import (
	"bytes"
	"context"
	"fmt"
	"image"

	"github.com/disintegration/imaging"
	"github.com/otiai10/gosseract/v2"
)

// Available reports whether this build can recognize text.
const Available = true

// Tesseract recognizes text through libtesseract.
type Tesseract struct {
	Language string
}

// New returns a tesseract engine for lang, e.g. "deu+eng".
func New(lang string) Engine {
	return &Tesseract{Language: lang}
}

func (t *Tesseract) Text(ctx context.Context, img image.Image) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	var buf bytes.Buffer
	if err := imaging.Encode(&buf, img, imaging.PNG); err != nil {
		return "", fmt.Errorf("encode crop: %w", err)
	}

	client := gosseract.NewClient()
	defer client.Close()
	if err := client.SetLanguage(languages(t.Language)...); err != nil {
		return "", fmt.Errorf("set language %q: %w", t.Language, err)
	}
	if err := client.SetImageFromBytes(buf.Bytes()); err != nil {
		return "", fmt.Errorf("load image: %w", err)
	}
	return client.Text()
}
