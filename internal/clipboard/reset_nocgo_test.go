//go:build !((linux || freebsd || openbsd || netbsd || dragonfly || darwin || windows) && cgo)

package clipboard

func resetInit() {}
