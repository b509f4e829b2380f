// Package session holds the images of one selection session and the
// controller that turns user input into region edits.
package session

import (
	"errors"
	"fmt"
	"image"
	"path/filepath"

	"github.com/disintegration/imaging"

	"github.com/example/imageselector/internal/geometry"
	"github.com/example/imageselector/internal/region"
)

var (
	// ErrNoSelection is returned when saving without a pending selection.
	ErrNoSelection = errors.New("no pending selection")
	// ErrNoRegions is returned when finishing a session without regions.
	ErrNoRegions = errors.New("no regions selected")
	// ErrInvalidAngle is returned for rotations other than 90, -90 and 180.
	ErrInvalidAngle = errors.New("rotation angle must be 90, -90 or 180")
	// ErrIndexOutOfRange is returned when switching to a missing image.
	ErrIndexOutOfRange = errors.New("image index out of range")
)

// ImageEntry is one image loaded into the session.
type ImageEntry struct {
	// OriginalPath is the path as the user gave it.
	OriginalPath string
	// SourcePath is where pixels are read from; the extracted image for PDFs.
	SourcePath    string
	IsPDF         bool
	ExtractedPath string

	// Pixels is decoded on first display and replaced by rotation.
	Pixels  image.Image
	Display *image.NRGBA
	Scale   float64
	Regions []region.Region
	// Rotation in degrees clockwise, for display only.
	Rotation int
}

// Name is the base name of OriginalPath.
func (e *ImageEntry) Name() string { return filepath.Base(e.OriginalPath) }

// Loaded reports whether the display buffer exists.
func (e *ImageEntry) Loaded() bool { return e.Display != nil }

// Originals maps the regions to original pixel coordinates.
func (e *ImageEntry) Originals() ([]region.Original, error) {
	return region.ToOriginal(e.Regions, e.Scale)
}

// Label renders the image list entry, e.g. "▶ scan.pdf (PDF) [2 regions]".
func (e *ImageEntry) Label(active bool) string {
	marker := "  "
	if active {
		marker = "▶ "
	}
	name := e.Name()
	if e.IsPDF {
		name += " (PDF)"
	}
	return fmt.Sprintf("%s%s [%d regions]", marker, name, len(e.Regions))
}

// Store holds the entries of a session and the index of the active one.
type Store struct {
	entries []*ImageEntry
	active  int
}

// Add appends entry and returns its index. The active index is unchanged.
func (s *Store) Add(entry *ImageEntry) int {
	s.entries = append(s.entries, entry)
	return len(s.entries) - 1
}

// Len is the number of entries.
func (s *Store) Len() int { return len(s.entries) }

// Entries returns the entries in insertion order.
func (s *Store) Entries() []*ImageEntry { return s.entries }

// ActiveIndex is the index of the active entry.
func (s *Store) ActiveIndex() int { return s.active }

// TotalRegions counts the regions across all entries.
func (s *Store) TotalRegions() int {
	n := 0
	for _, e := range s.entries {
		n += len(e.Regions)
	}
	return n
}

// Active returns a handle to the active entry, or nil for an empty store.
func (s *Store) Active() *ActiveImageSession {
	if len(s.entries) == 0 {
		return nil
	}
	return &ActiveImageSession{Index: s.active, Entry: s.entries[s.active]}
}

// Session returns a handle to entry i without activating it.
func (s *Store) Session(i int) (*ActiveImageSession, error) {
	if i < 0 || i >= len(s.entries) {
		return nil, fmt.Errorf("%w: %d of %d", ErrIndexOutOfRange, i+1, len(s.entries))
	}
	return &ActiveImageSession{Index: i, Entry: s.entries[i]}, nil
}

// Activate makes entry i the active one.
func (s *Store) Activate(i int) error {
	if _, err := s.Session(i); err != nil {
		return err
	}
	s.active = i
	return nil
}

// ActiveImageSession operates on one entry of a Store.
type ActiveImageSession struct {
	Index int
	Entry *ImageEntry
}

var openImage = func(path string) (image.Image, error) {
	return imaging.Open(path)
}

// Load decodes the pixels if needed and rebuilds the display buffer for a
// canvas of the given size. An empty canvas means the default canvas.
// Saved regions follow a change of scale.
func (a *ActiveImageSession) Load(canvas image.Point, limit float64) error {
	e := a.Entry
	if e.Pixels == nil {
		img, err := openImage(e.SourcePath)
		if err != nil {
			return fmt.Errorf("load image %s: %w", e.SourcePath, err)
		}
		e.Pixels = img
	}
	if canvas.X <= 1 || canvas.Y <= 1 {
		canvas = geometry.DefaultCanvas
	}
	size := e.Pixels.Bounds().Size()
	scale := geometry.ComputeScale(size.X, size.Y, canvas.X, canvas.Y, limit)
	if e.Loaded() && scale == e.Scale {
		return nil
	}
	if e.Loaded() && e.Scale != 0 {
		ratio := scale / e.Scale
		for i := range e.Regions {
			e.Regions[i].Rect = e.Regions[i].Rect.Scaled(ratio)
		}
	}
	w, h := geometry.DisplaySize(size.X, size.Y, scale)
	e.Display = imaging.Resize(e.Pixels, w, h, imaging.Lanczos)
	e.Scale = scale
	return nil
}

// Rotate turns the pixels by angle degrees, 90 being clockwise, and drops
// every saved region. The display is rebuilt by the next Load.
func (a *ActiveImageSession) Rotate(angle int) error {
	e := a.Entry
	if e.Pixels == nil {
		return fmt.Errorf("rotate %s: image not loaded", e.Name())
	}
	switch angle {
	case 90:
		e.Pixels = imaging.Rotate270(e.Pixels)
	case -90:
		e.Pixels = imaging.Rotate90(e.Pixels)
	case 180:
		e.Pixels = imaging.Rotate180(e.Pixels)
	default:
		return fmt.Errorf("%w: %d", ErrInvalidAngle, angle)
	}
	e.Rotation = ((e.Rotation+angle)%360 + 360) % 360
	e.Regions = nil
	e.Display = nil
	return nil
}

// AddRegion appends r and returns its 1-based number.
func (a *ActiveImageSession) AddRegion(r region.Region) int {
	a.Entry.Regions = append(a.Entry.Regions, r)
	return len(a.Entry.Regions)
}

// ClearRegions drops the saved regions and returns how many there were.
func (a *ActiveImageSession) ClearRegions() int {
	n := len(a.Entry.Regions)
	a.Entry.Regions = nil
	return n
}
