//go:build (linux || freebsd || openbsd || netbsd || dragonfly || darwin || windows) && cgo

package clipboard

import (
	"sync"

	"golang.design/x/clipboard"
)

const (
	formatText  = clipboard.FmtText
	formatImage = clipboard.FmtImage
)

var (
	initOnce sync.Once
	initErr  error
)

func ensureInit() error {
	initOnce.Do(func() {
		if needsDisplay && !hasDisplay() {
			initErr = errNoDisplay
			return
		}
		initErr = clipboard.Init()
	})
	return initErr
}

func write(format clipboard.Format, data []byte) error {
	if err := ensureInit(); err != nil {
		return err
	}
	clipboard.Write(format, data)
	return nil
}
