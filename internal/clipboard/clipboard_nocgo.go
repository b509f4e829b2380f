//go:build !((linux || freebsd || openbsd || netbsd || dragonfly || darwin || windows) && cgo)

package clipboard

type format int

const (
	formatText format = iota
	formatImage
)

func write(format, []byte) error {
	if needsDisplay && !hasDisplay() {
		return errNoDisplay
	}
	return errUnsupported
}
