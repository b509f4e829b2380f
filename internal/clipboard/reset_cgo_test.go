//go:build (linux || freebsd || openbsd || netbsd || dragonfly || darwin || windows) && cgo

package clipboard

import "sync"

func resetInit() {
	initOnce = sync.Once{}
	initErr = nil
}
