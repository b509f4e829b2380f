package session

import (
	"fmt"
	"image"
	"path/filepath"

	"github.com/example/imageselector/internal/geometry"
	"github.com/example/imageselector/internal/logging"
	"github.com/example/imageselector/internal/pdfextract"
	"github.com/example/imageselector/internal/region"
)

// Status and prompt texts.
const (
	StatusReady      = "Ready - drag to select a region"
	WarnNoSelection  = "No selection: draw a region first"
	WarnNoRegions    = "Select at least one region"
	PromptClear      = "Delete all regions of this image?"
	PromptClose      = "Quit? Regions that were not exported are lost."
	StatusCleared    = "All regions cleared"
	promptFinishFmt  = "Export %d regions from %d image(s)?"
	statusSelectFmt  = "Selection: %dx%d px - press S to save"
	statusSavedFmt   = "✓ Region %d saved (%s)"
	statusSwitchFmt  = "Switched to: %s"
	statusAddedFmt   = "✓ Image added: %s"
	statusRotatedFmt = "Image rotated %s - regions were reset"
)

// Extractor produces a displayable image for a PDF. A PDF without a usable
// image is reported as pdfextract.ErrNoImage.
type Extractor interface {
	ExtractFile(pdfPath string) (string, error)
}

// Outcome is the result of a finished session. Images is nil when the
// session was cancelled.
type Outcome struct {
	Completed bool
	Images    []*ImageEntry
}

// Controller is the state machine behind the selection window. It is not
// safe for concurrent use; the window's event loop owns it.
type Controller struct {
	Store      *Store
	Extractor  Extractor
	WorkingDir string
	ScaleCap   float64
	Log        logging.Logger

	canvas   image.Point
	mode     region.Mode
	dragging bool
	anchorX  float64
	anchorY  float64
	preview  *geometry.Rect
	pending  *geometry.Rect
	status   string
	done     bool
	complete bool
}

// Option configures a Controller.
type Option func(*Controller)

// WithExtractor sets the PDF extractor.
func WithExtractor(x Extractor) Option { return func(c *Controller) { c.Extractor = x } }

// WithWorkingDir sets the directory relative PDF paths are resolved against.
func WithWorkingDir(dir string) Option { return func(c *Controller) { c.WorkingDir = dir } }

// WithScaleCap sets the largest display scale.
func WithScaleCap(limit float64) Option { return func(c *Controller) { c.ScaleCap = limit } }

// WithLogger sets the logger.
func WithLogger(l logging.Logger) Option { return func(c *Controller) { c.Log = l } }

// WithCanvas sets the initial canvas size.
func WithCanvas(size image.Point) Option { return func(c *Controller) { c.canvas = size } }

// NewController returns a controller with an empty store.
func NewController(opts ...Option) *Controller {
	c := &Controller{
		Store:    &Store{},
		ScaleCap: geometry.DefaultScaleCap,
		mode:     region.Foto,
		status:   StatusReady,
	}
	for _, o := range opts {
		o(c)
	}
	return c
}

func (c *Controller) log() logging.Logger { return logging.OrDefault(c.Log) }

// Handle applies ev and reports what the view has to update.
func (c *Controller) Handle(ev Event) (Reaction, error) {
	if c.done {
		return Reaction{}, nil
	}
	switch ev := ev.(type) {
	case AddImage:
		return c.addImage(ev.Path)
	case CanvasResized:
		return c.resize(image.Pt(ev.W, ev.H))
	case ModeSelected:
		c.mode = ev.Mode
		return Reaction{Redraw: c.dragging}, nil
	case PointerDown:
		return c.pointerDown(ev.X, ev.Y), nil
	case PointerDrag:
		return c.pointerDrag(ev.X, ev.Y), nil
	case PointerUp:
		return c.pointerUp(ev.X, ev.Y), nil
	case SaveSelection:
		return c.saveSelection()
	case ClearRegions:
		return c.clearRegions(ev.Confirmed), nil
	case Rotate:
		return c.rotate(ev.Angle)
	case SwitchImage:
		return c.switchImage(ev.Index)
	case Finish:
		return c.finish(ev.Confirmed)
	case Close:
		return c.close(ev.Confirmed), nil
	}
	return Reaction{}, fmt.Errorf("unknown event %T", ev)
}

func (c *Controller) setStatus(s string) Reaction {
	c.status = s
	c.log().Info(s)
	return Reaction{Status: s, Redraw: true}
}

func (c *Controller) addImage(path string) (Reaction, error) {
	entry := &ImageEntry{OriginalPath: path, SourcePath: path, Scale: 1}
	if pdfextract.IsPDF(path) {
		entry.IsPDF = true
		src := path
		if !filepath.IsAbs(src) && c.WorkingDir != "" {
			src = filepath.Join(c.WorkingDir, src)
		}
		if c.Extractor == nil {
			return Reaction{}, fmt.Errorf("%w: %s", pdfextract.ErrNoImage, path)
		}
		out, err := c.Extractor.ExtractFile(src)
		if err != nil {
			return Reaction{}, err
		}
		entry.SourcePath = out
		entry.ExtractedPath = out
	}
	idx := c.Store.Add(entry)
	if idx == 0 {
		if err := c.LoadActive(); err != nil {
			c.Store.entries = nil
			return Reaction{}, err
		}
		return Reaction{Status: c.status, Redraw: true}, nil
	}
	return c.setStatus(fmt.Sprintf(statusAddedFmt, entry.Name())), nil
}

// LoadActive decodes and scales the active image for the current canvas.
func (c *Controller) LoadActive() error {
	a := c.Store.Active()
	if a == nil {
		return nil
	}
	return a.Load(c.canvas, c.ScaleCap)
}

func (c *Controller) resize(size image.Point) (Reaction, error) {
	if size == c.canvas {
		return Reaction{}, nil
	}
	c.canvas = size
	a := c.Store.Active()
	if a == nil || !a.Entry.Loaded() {
		return Reaction{Redraw: true}, nil
	}
	before := a.Entry.Scale
	if err := a.Load(size, c.ScaleCap); err != nil {
		return Reaction{}, err
	}
	if a.Entry.Scale != before {
		c.resetSelection()
	}
	return Reaction{Redraw: true}, nil
}

func (c *Controller) hasImage() bool {
	a := c.Store.Active()
	return a != nil && a.Entry.Loaded()
}

func (c *Controller) pointerDown(x, y float64) Reaction {
	if !c.hasImage() {
		return Reaction{}
	}
	c.dragging = true
	c.anchorX, c.anchorY = x, y
	c.preview = nil
	c.pending = nil
	return Reaction{Redraw: true}
}

func (c *Controller) pointerDrag(x, y float64) Reaction {
	if !c.dragging {
		return Reaction{}
	}
	r := geometry.RectFromPoints(c.anchorX, c.anchorY, x, y)
	c.preview = &r
	return Reaction{Redraw: true}
}

func (c *Controller) pointerUp(x, y float64) Reaction {
	if !c.dragging {
		return Reaction{}
	}
	c.dragging = false
	c.preview = nil
	r := geometry.RectFromPoints(c.anchorX, c.anchorY, x, y)
	if !r.Selectable() {
		c.pending = nil
		return Reaction{Redraw: true}
	}
	c.pending = &r
	return c.setStatus(fmt.Sprintf(statusSelectFmt, int(r.Width()), int(r.Height())))
}

func (c *Controller) saveSelection() (Reaction, error) {
	a := c.Store.Active()
	if c.pending == nil || a == nil {
		return Reaction{Warning: WarnNoSelection}, ErrNoSelection
	}
	n := a.AddRegion(region.Region{Rect: *c.pending, Mode: c.mode})
	c.pending = nil
	return c.setStatus(fmt.Sprintf(statusSavedFmt, n, c.mode)), nil
}

func (c *Controller) clearRegions(confirmed bool) Reaction {
	a := c.Store.Active()
	if a == nil || len(a.Entry.Regions) == 0 {
		return Reaction{}
	}
	if !confirmed {
		return Reaction{Confirm: PromptClear, OnConfirm: ClearRegions{Confirmed: true}}
	}
	a.ClearRegions()
	return c.setStatus(StatusCleared)
}

func rotationName(angle int) string {
	switch angle {
	case 90:
		return "90° right"
	case -90:
		return "90° left"
	}
	return "180°"
}

func (c *Controller) rotate(angle int) (Reaction, error) {
	a := c.Store.Active()
	if a == nil || !a.Entry.Loaded() {
		return Reaction{}, nil
	}
	if err := a.Rotate(angle); err != nil {
		return Reaction{}, err
	}
	c.resetSelection()
	if err := a.Load(c.canvas, c.ScaleCap); err != nil {
		return Reaction{}, err
	}
	return c.setStatus(fmt.Sprintf(statusRotatedFmt, rotationName(angle))), nil
}

func (c *Controller) switchImage(index int) (Reaction, error) {
	target, err := c.Store.Session(index)
	if err != nil {
		return Reaction{}, err
	}
	c.resetSelection()
	if err := target.Load(c.canvas, c.ScaleCap); err != nil {
		return Reaction{}, err
	}
	if err := c.Store.Activate(index); err != nil {
		return Reaction{}, err
	}
	return c.setStatus(fmt.Sprintf(statusSwitchFmt, target.Entry.Name())), nil
}

func (c *Controller) finish(confirmed bool) (Reaction, error) {
	total := c.Store.TotalRegions()
	if total == 0 {
		return Reaction{Warning: WarnNoRegions}, ErrNoRegions
	}
	if !confirmed {
		return Reaction{
			Confirm:   fmt.Sprintf(promptFinishFmt, total, c.Store.Len()),
			OnConfirm: Finish{Confirmed: true},
		}, nil
	}
	c.done = true
	c.complete = true
	return Reaction{Done: true}, nil
}

func (c *Controller) close(confirmed bool) Reaction {
	if !confirmed {
		return Reaction{Confirm: PromptClose, OnConfirm: Close{Confirmed: true}}
	}
	c.Cancel()
	return Reaction{Done: true}
}

// Cancel ends the session without export, e.g. when the window is
// destroyed by the window manager.
func (c *Controller) Cancel() {
	c.done = true
	c.complete = false
}

func (c *Controller) resetSelection() {
	c.dragging = false
	c.preview = nil
	c.pending = nil
}

// Done reports whether the session has ended.
func (c *Controller) Done() bool { return c.done }

// Outcome returns the result of the session.
func (c *Controller) Outcome() Outcome {
	if !c.complete {
		return Outcome{}
	}
	return Outcome{Completed: true, Images: c.Store.Entries()}
}

// Mode is the mode of the next saved region.
func (c *Controller) Mode() region.Mode { return c.mode }

// Canvas is the last reported canvas size.
func (c *Controller) Canvas() image.Point { return c.canvas }

// Status is the status bar text.
func (c *Controller) Status() string { return c.status }

// Preview is the rectangle being dragged.
func (c *Controller) Preview() (geometry.Rect, bool) {
	if c.preview == nil {
		return geometry.Rect{}, false
	}
	return *c.preview, true
}

// Pending is the finished but unsaved selection.
func (c *Controller) Pending() (geometry.Rect, bool) {
	if c.pending == nil {
		return geometry.Rect{}, false
	}
	return *c.pending, true
}

// ImageLabels renders the image list.
func (c *Controller) ImageLabels() []string {
	out := make([]string, c.Store.Len())
	for i, e := range c.Store.Entries() {
		out[i] = e.Label(i == c.Store.ActiveIndex())
	}
	return out
}

// RegionLabels renders the region list of the active image.
func (c *Controller) RegionLabels() []string {
	a := c.Store.Active()
	if a == nil {
		return nil
	}
	out := make([]string, len(a.Entry.Regions))
	for i, r := range a.Entry.Regions {
		out[i] = r.Label(i + 1)
	}
	return out
}

// NavLabel renders "Image i/N".
func (c *Controller) NavLabel() string {
	if c.Store.Len() == 0 {
		return "Image 0/0"
	}
	return fmt.Sprintf("Image %d/%d", c.Store.ActiveIndex()+1, c.Store.Len())
}
