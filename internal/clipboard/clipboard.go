// Package clipboard publishes exported crops and summaries to the system
// clipboard.
package clipboard

import (
	"bytes"
	"errors"
	"image"
	"os"

	"github.com/disintegration/imaging"
)

var (
	errNoDisplay   = errors.New("clipboard initialization requires DISPLAY or WAYLAND_DISPLAY")
	errUnsupported = errors.New("clipboard is not supported in this build")
)

func hasDisplay() bool {
	return os.Getenv("DISPLAY") != "" || os.Getenv("WAYLAND_DISPLAY") != ""
}

// WriteImage encodes img as PNG and publishes it to the clipboard.
func WriteImage(img image.Image) error {
	if img == nil || img.Bounds().Empty() {
		return errors.New("clipboard: empty image")
	}
	var buf bytes.Buffer
	if err := imaging.Encode(&buf, img, imaging.PNG); err != nil {
		return err
	}
	return write(formatImage, buf.Bytes())
}

// WriteText publishes UTF-8 text to the clipboard.
func WriteText(text string) error {
	return write(formatText, []byte(text))
}
