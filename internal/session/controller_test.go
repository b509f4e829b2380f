package session

import (
	"errors"
	"fmt"
	"image"
	"image/color"
	"path/filepath"
	"testing"

	"github.com/disintegration/imaging"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/example/imageselector/internal/geometry"
	"github.com/example/imageselector/internal/logging"
	"github.com/example/imageselector/internal/pdfextract"
	"github.com/example/imageselector/internal/region"
)

func writeImage(t *testing.T, dir, name string, w, h int) string {
	t.Helper()
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	img.Set(0, 0, color.NRGBA{255, 0, 0, 255})
	path := filepath.Join(dir, name)
	require.NoError(t, imaging.Save(img, path))
	return path
}

type fakeExtractor struct {
	out   string
	ok    bool
	calls []string
}

func (f *fakeExtractor) ExtractFile(path string) (string, error) {
	f.calls = append(f.calls, path)
	if !f.ok {
		return "", fmt.Errorf("%w: %s", pdfextract.ErrNoImage, path)
	}
	return f.out, nil
}

func newController(t *testing.T, opts ...Option) *Controller {
	t.Helper()
	return NewController(append([]Option{WithLogger(logging.Nop), WithCanvas(image.Pt(1000, 1000))}, opts...)...)
}

func handle(t *testing.T, c *Controller, ev Event) Reaction {
	t.Helper()
	r, err := c.Handle(ev)
	require.NoError(t, err)
	return r
}

func drag(t *testing.T, c *Controller, x1, y1, x2, y2 float64) Reaction {
	t.Helper()
	handle(t, c, PointerDown{X: x1, Y: y1})
	handle(t, c, PointerDrag{X: (x1 + x2) / 2, Y: (y1 + y2) / 2})
	return handle(t, c, PointerUp{X: x2, Y: y2})
}

func TestAddImageLoadsFirst(t *testing.T) {
	dir := t.TempDir()
	c := newController(t)
	assert.Equal(t, StatusReady, c.Status())

	handle(t, c, AddImage{Path: writeImage(t, dir, "a.png", 400, 200)})
	a := c.Store.Active()
	require.NotNil(t, a)
	assert.True(t, a.Entry.Loaded())
	assert.Equal(t, 1.25, a.Entry.Scale)
	assert.Equal(t, image.Pt(500, 250), a.Entry.Display.Bounds().Size())

	r := handle(t, c, AddImage{Path: writeImage(t, dir, "b.png", 10, 10)})
	assert.Equal(t, "✓ Image added: b.png", r.Status)
	assert.False(t, c.Store.Entries()[1].Loaded())
	assert.Equal(t, 0, c.Store.ActiveIndex())
	assert.Equal(t, "Image 1/2", c.NavLabel())
}

func TestAddImageMissingFile(t *testing.T) {
	c := newController(t)
	_, err := c.Handle(AddImage{Path: filepath.Join(t.TempDir(), "nope.png")})
	require.Error(t, err)
	assert.Zero(t, c.Store.Len())
}

func TestAddPDF(t *testing.T) {
	dir := t.TempDir()
	x := &fakeExtractor{out: writeImage(t, dir, "doc_rendered.png", 100, 100), ok: true}
	c := newController(t, WithExtractor(x), WithWorkingDir(dir))

	handle(t, c, AddImage{Path: "Doc.PDF"})
	assert.Equal(t, []string{filepath.Join(dir, "Doc.PDF")}, x.calls)
	e := c.Store.Entries()[0]
	assert.True(t, e.IsPDF)
	assert.Equal(t, x.out, e.SourcePath)
	assert.Equal(t, x.out, e.ExtractedPath)
	assert.Equal(t, []string{"▶ Doc.PDF (PDF) [0 regions]"}, c.ImageLabels())

	x.ok = false
	_, err := c.Handle(AddImage{Path: "/abs/other.pdf"})
	assert.ErrorIs(t, err, pdfextract.ErrNoImage)
	assert.Equal(t, "/abs/other.pdf", x.calls[1])
	assert.Equal(t, 1, c.Store.Len())
}

func TestSelectionLifecycle(t *testing.T) {
	c := newController(t)
	handle(t, c, AddImage{Path: writeImage(t, t.TempDir(), "a.png", 800, 800)})

	handle(t, c, PointerDown{X: 100, Y: 100})
	handle(t, c, PointerDrag{X: 50, Y: 160})
	p, ok := c.Preview()
	require.True(t, ok)
	assert.Equal(t, geometry.Rect{X1: 50, Y1: 100, X2: 100, Y2: 160}, p)

	r := handle(t, c, PointerUp{X: 20, Y: 180})
	assert.Equal(t, "Selection: 80x80 px - press S to save", r.Status)
	_, ok = c.Preview()
	assert.False(t, ok)
	pending, ok := c.Pending()
	require.True(t, ok)
	assert.Equal(t, geometry.Rect{X1: 20, Y1: 100, X2: 100, Y2: 180}, pending)

	handle(t, c, ModeSelected{Mode: region.Text})
	r = handle(t, c, SaveSelection{})
	assert.Equal(t, "✓ Region 1 saved (text)", r.Status)
	_, ok = c.Pending()
	assert.False(t, ok)
	assert.Equal(t, []string{"1. TEXT (80x80)"}, c.RegionLabels())
	assert.Equal(t, []string{"▶ a.png [1 regions]"}, c.ImageLabels())
}

func TestSmallSelectionDiscarded(t *testing.T) {
	c := newController(t)
	handle(t, c, AddImage{Path: writeImage(t, t.TempDir(), "a.png", 800, 800)})

	drag(t, c, 10, 10, 15, 200)
	_, ok := c.Pending()
	assert.False(t, ok)

	r, err := c.Handle(SaveSelection{})
	assert.ErrorIs(t, err, ErrNoSelection)
	assert.Equal(t, WarnNoSelection, r.Warning)
	assert.Empty(t, c.RegionLabels())
}

func TestPointerWithoutImage(t *testing.T) {
	c := newController(t)
	r := drag(t, c, 0, 0, 100, 100)
	assert.False(t, r.Redraw)
	_, ok := c.Pending()
	assert.False(t, ok)
}

func TestClearRegionsConfirm(t *testing.T) {
	c := newController(t)
	assert.Equal(t, Reaction{}, handle(t, c, ClearRegions{}))

	handle(t, c, AddImage{Path: writeImage(t, t.TempDir(), "a.png", 800, 800)})
	drag(t, c, 0, 0, 50, 50)
	handle(t, c, SaveSelection{})

	r := handle(t, c, ClearRegions{})
	assert.Equal(t, PromptClear, r.Confirm)
	assert.Equal(t, ClearRegions{Confirmed: true}, r.OnConfirm)
	assert.Len(t, c.RegionLabels(), 1)

	r = handle(t, c, r.OnConfirm)
	assert.Equal(t, StatusCleared, r.Status)
	assert.Empty(t, c.RegionLabels())
}

func TestClearOnlyActiveImage(t *testing.T) {
	dir := t.TempDir()
	c := newController(t)
	handle(t, c, AddImage{Path: writeImage(t, dir, "a.png", 800, 800)})
	handle(t, c, AddImage{Path: writeImage(t, dir, "b.png", 800, 800)})
	drag(t, c, 0, 0, 50, 50)
	handle(t, c, SaveSelection{})
	handle(t, c, SwitchImage{Index: 1})
	drag(t, c, 0, 0, 60, 60)
	handle(t, c, SaveSelection{})

	handle(t, c, ClearRegions{Confirmed: true})
	assert.Equal(t, 1, c.Store.TotalRegions())
	assert.Len(t, c.Store.Entries()[0].Regions, 1)
}

func TestRotate(t *testing.T) {
	tests := []struct {
		angle    int
		w, h     int
		rotation int
		status   string
	}{
		{90, 200, 300, 90, "Image rotated 90° right - regions were reset"},
		{-90, 200, 300, 270, "Image rotated 90° left - regions were reset"},
		{180, 300, 200, 180, "Image rotated 180° - regions were reset"},
	}
	for _, tt := range tests {
		t.Run(tt.status, func(t *testing.T) {
			c := newController(t)
			handle(t, c, AddImage{Path: writeImage(t, t.TempDir(), "a.png", 300, 200)})
			drag(t, c, 0, 0, 50, 50)
			handle(t, c, SaveSelection{})
			drag(t, c, 10, 10, 90, 90)

			r := handle(t, c, Rotate{Angle: tt.angle})
			assert.Equal(t, tt.status, r.Status)
			e := c.Store.Active().Entry
			assert.Equal(t, image.Pt(tt.w, tt.h), e.Pixels.Bounds().Size())
			assert.Equal(t, tt.rotation, e.Rotation)
			assert.Empty(t, e.Regions)
			_, ok := c.Pending()
			assert.False(t, ok)
			assert.True(t, e.Loaded())
		})
	}
}

func TestRotateClockwise(t *testing.T) {
	path := filepath.Join(t.TempDir(), "marker.png")
	img := image.NewNRGBA(image.Rect(0, 0, 3, 2))
	img.Set(0, 0, color.NRGBA{255, 0, 0, 255})
	require.NoError(t, imaging.Save(img, path))

	c := newController(t)
	handle(t, c, AddImage{Path: path})
	handle(t, c, Rotate{Angle: 90})
	px := imaging.Clone(c.Store.Active().Entry.Pixels)
	// top-left moves to top-right on a clockwise turn
	assert.Equal(t, uint8(255), px.NRGBAAt(1, 0).R)
}

func TestRotateFullTurn(t *testing.T) {
	c := newController(t)
	handle(t, c, AddImage{Path: writeImage(t, t.TempDir(), "a.png", 300, 200)})

	sizes := []image.Point{{200, 300}, {300, 200}, {200, 300}, {300, 200}}
	for i, want := range sizes {
		handle(t, c, Rotate{Angle: 90})
		e := c.Store.Active().Entry
		require.Equal(t, want, e.Pixels.Bounds().Size(), "after turn %d", i+1)
	}
	e := c.Store.Active().Entry
	assert.Equal(t, 0, e.Rotation)
	assert.True(t, e.Loaded())
}

func TestRotateInvalidAngle(t *testing.T) {
	c := newController(t)
	handle(t, c, AddImage{Path: writeImage(t, t.TempDir(), "a.png", 30, 20)})
	_, err := c.Handle(Rotate{Angle: 45})
	assert.ErrorIs(t, err, ErrInvalidAngle)
}

func TestSwitchImage(t *testing.T) {
	dir := t.TempDir()
	c := newController(t)
	handle(t, c, AddImage{Path: writeImage(t, dir, "a.png", 800, 800)})
	handle(t, c, AddImage{Path: writeImage(t, dir, "b.png", 2000, 1000)})
	drag(t, c, 0, 0, 50, 50)

	r := handle(t, c, SwitchImage{Index: 1})
	assert.Equal(t, "Switched to: b.png", r.Status)
	_, ok := c.Pending()
	assert.False(t, ok)
	assert.Equal(t, 0.5, c.Store.Active().Entry.Scale)
	assert.Equal(t, "Image 2/2", c.NavLabel())
	assert.Equal(t, []string{"  a.png [0 regions]", "▶ b.png [0 regions]"}, c.ImageLabels())

	_, err := c.Handle(SwitchImage{Index: 2})
	assert.ErrorIs(t, err, ErrIndexOutOfRange)
	assert.Equal(t, 1, c.Store.ActiveIndex())
}

func TestCanvasResizeRescalesRegions(t *testing.T) {
	c := newController(t)
	handle(t, c, AddImage{Path: writeImage(t, t.TempDir(), "a.png", 2000, 2000)})
	assert.Equal(t, 0.5, c.Store.Active().Entry.Scale)
	drag(t, c, 100, 100, 200, 200)
	handle(t, c, SaveSelection{})

	handle(t, c, CanvasResized{W: 500, H: 500})
	e := c.Store.Active().Entry
	assert.Equal(t, 0.25, e.Scale)
	assert.Equal(t, geometry.Rect{X1: 50, Y1: 50, X2: 100, Y2: 100}, e.Regions[0].Rect)
	orig, err := e.Originals()
	require.NoError(t, err)
	assert.Equal(t, geometry.IntRect{X1: 200, Y1: 200, X2: 400, Y2: 400}, orig[0].Rect)
}

func TestFinish(t *testing.T) {
	dir := t.TempDir()
	c := newController(t)
	handle(t, c, AddImage{Path: writeImage(t, dir, "a.png", 800, 800)})
	handle(t, c, AddImage{Path: writeImage(t, dir, "b.png", 800, 800)})

	r, err := c.Handle(Finish{})
	assert.ErrorIs(t, err, ErrNoRegions)
	assert.Equal(t, WarnNoRegions, r.Warning)

	drag(t, c, 0, 0, 50, 50)
	handle(t, c, SaveSelection{})
	drag(t, c, 60, 60, 120, 120)
	handle(t, c, SaveSelection{})

	r = handle(t, c, Finish{})
	assert.Equal(t, "Export 2 regions from 2 image(s)?", r.Confirm)
	assert.False(t, c.Done())

	r = handle(t, c, r.OnConfirm)
	assert.True(t, r.Done)
	out := c.Outcome()
	assert.True(t, out.Completed)
	assert.Len(t, out.Images, 2)

	assert.Equal(t, Reaction{}, handle(t, c, PointerDown{}))
}

func TestClose(t *testing.T) {
	c := newController(t)
	handle(t, c, AddImage{Path: writeImage(t, t.TempDir(), "a.png", 80, 80)})
	drag(t, c, 0, 0, 50, 50)
	handle(t, c, SaveSelection{})

	r := handle(t, c, Close{})
	assert.Equal(t, PromptClose, r.Confirm)
	assert.False(t, c.Done())

	r = handle(t, c, Close{Confirmed: true})
	assert.True(t, r.Done)
	out := c.Outcome()
	assert.False(t, out.Completed)
	assert.Nil(t, out.Images)
}

func TestActiveSessionRotateNotLoaded(t *testing.T) {
	s := &Store{}
	s.Add(&ImageEntry{OriginalPath: "x.png", SourcePath: "x.png"})
	err := s.Active().Rotate(90)
	require.Error(t, err)
	assert.False(t, errors.Is(err, ErrInvalidAngle))
}
