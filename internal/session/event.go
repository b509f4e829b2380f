package session

import "github.com/example/imageselector/internal/region"

// Event is an input to Controller.Handle.
type Event interface {
	event()
}

// AddImage appends an image or PDF to the session.
type AddImage struct{ Path string }

// CanvasResized reports the size of the drawing area.
type CanvasResized struct{ W, H int }

// ModeSelected changes the mode of the next saved region.
type ModeSelected struct{ Mode region.Mode }

// PointerDown starts a drag at a display coordinate.
type PointerDown struct{ X, Y float64 }

// PointerDrag moves the free corner of the preview.
type PointerDrag struct{ X, Y float64 }

// PointerUp ends the drag.
type PointerUp struct{ X, Y float64 }

// SaveSelection turns the pending selection into a region.
type SaveSelection struct{}

// ClearRegions deletes the regions of the active image.
type ClearRegions struct{ Confirmed bool }

// Rotate turns the active image; 90 is clockwise.
type Rotate struct{ Angle int }

// SwitchImage activates another image.
type SwitchImage struct{ Index int }

// Finish ends the session for export.
type Finish struct{ Confirmed bool }

// Close ends the session without export.
type Close struct{ Confirmed bool }

func (AddImage) event()      {}
func (CanvasResized) event() {}
func (ModeSelected) event()  {}
func (PointerDown) event()   {}
func (PointerDrag) event()   {}
func (PointerUp) event()     {}
func (SaveSelection) event() {}
func (ClearRegions) event()  {}
func (Rotate) event()        {}
func (SwitchImage) event()   {}
func (Finish) event()        {}
func (Close) event()         {}

// Reaction tells the view what changed after an event.
type Reaction struct {
	// Status replaces the status bar text when non-empty.
	Status string
	// Warning is shown as a transient message.
	Warning string
	// Confirm is a yes/no question. On yes the view sends OnConfirm.
	Confirm   string
	OnConfirm Event
	// Done means the window should close.
	Done bool
	// Redraw means the canvas content changed.
	Redraw bool
}
