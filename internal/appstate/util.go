package appstate

import (
	"image"
	"unicode"

	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/mobile/event/key"
)

const (
	toolbarHeight = 28
	statusHeight  = 24
	sidebarWidth  = 280
	headerHeight  = 22
	rowHeight     = 18
	buttonGap     = 4
)

// layout splits the window into toolbar, canvas, sidebar and status bar.
type layout struct {
	width, height int
	toolbar       image.Rectangle
	canvas        image.Rectangle
	sidebar       image.Rectangle
	status        image.Rectangle
}

func newLayout(width, height int) layout {
	right := width - sidebarWidth
	if right < 1 {
		right = 1
	}
	bottom := height - statusHeight
	if bottom < toolbarHeight+1 {
		bottom = toolbarHeight + 1
	}
	return layout{
		width:   width,
		height:  height,
		toolbar: image.Rect(0, 0, width, toolbarHeight),
		canvas:  image.Rect(0, toolbarHeight, right, bottom),
		sidebar: image.Rect(right, toolbarHeight, width, bottom),
		status:  image.Rect(0, bottom, width, height),
	}
}

// imageHeader is the title row above the image list.
func (l layout) imageHeader() image.Rectangle {
	return image.Rect(l.sidebar.Min.X, l.sidebar.Min.Y, l.sidebar.Max.X, l.sidebar.Min.Y+headerHeight)
}

func (l layout) imageRows(n int) []image.Rectangle {
	return rows(l.sidebar.Min.X, l.imageHeader().Max.Y, l.sidebar.Max.X, n)
}

// navRect holds the "Image i/N" label below the image list.
func (l layout) navRect(images int) image.Rectangle {
	y := l.imageHeader().Max.Y + images*rowHeight
	return image.Rect(l.sidebar.Min.X, y, l.sidebar.Max.X, y+rowHeight)
}

func (l layout) regionHeader(images int) image.Rectangle {
	y := l.navRect(images).Max.Y + buttonGap
	return image.Rect(l.sidebar.Min.X, y, l.sidebar.Max.X, y+headerHeight)
}

func (l layout) regionRows(images, regions int) []image.Rectangle {
	return rows(l.sidebar.Min.X, l.regionHeader(images).Max.Y, l.sidebar.Max.X, regions)
}

func rows(x0, y0, x1, n int) []image.Rectangle {
	out := make([]image.Rectangle, n)
	for i := range out {
		out[i] = image.Rect(x0, y0+i*rowHeight, x1, y0+(i+1)*rowHeight)
	}
	return out
}

// rowAt returns the index of the rectangle containing p, or -1.
func rowAt(rects []image.Rectangle, p image.Point) int {
	for i, r := range rects {
		if p.In(r) {
			return i
		}
	}
	return -1
}

// toDisplay converts a window position to display image coordinates.
func (l layout) toDisplay(x, y float32, scroll image.Point) (float64, float64) {
	return float64(x) - float64(l.canvas.Min.X) + float64(scroll.X),
		float64(y) - float64(l.canvas.Min.Y) + float64(scroll.Y)
}

// fromDisplay converts a display image position to window coordinates.
func (l layout) fromDisplay(p image.Point, scroll image.Point) image.Point {
	return p.Add(l.canvas.Min).Sub(scroll)
}

// clampScroll keeps the scroll offset inside the part of a display of the
// given size that does not fit the canvas.
func clampScroll(scroll, display image.Point, canvas image.Rectangle) image.Point {
	maxX := display.X - canvas.Dx()
	maxY := display.Y - canvas.Dy()
	return image.Pt(clamp(scroll.X, 0, maxX), clamp(scroll.Y, 0, maxY))
}

func clamp(v, lo, hi int) int {
	if hi < lo {
		hi = lo
	}
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// toolbarRects lays the labels out left to right, sized to their text.
func toolbarRects(labels []string) []image.Rectangle {
	d := &font.Drawer{Face: basicfont.Face7x13}
	out := make([]image.Rectangle, len(labels))
	x := buttonGap
	for i, lbl := range labels {
		w := d.MeasureString(lbl).Ceil() + 12
		out[i] = image.Rect(x, 3, x+w, toolbarHeight-3)
		x += w + buttonGap
	}
	return out
}

// lookupShortcut finds the action of a key press, matching either the
// lower cased rune or the key code together with the modifiers.
func lookupShortcut(actions map[KeyShortcut]string, e key.Event) (string, bool) {
	mods := e.Modifiers &^ key.ModShift
	if e.Rune > 0 {
		if name, ok := actions[KeyShortcut{Rune: unicode.ToLower(e.Rune), Modifiers: mods}]; ok {
			return name, true
		}
	}
	name, ok := actions[KeyShortcut{Code: e.Code, Modifiers: mods}]
	return name, ok
}

// confirmButtons returns the yes and no buttons of a dialog box.
func confirmButtons(box image.Rectangle) (yes, no image.Rectangle) {
	y := box.Max.Y - 34
	mid := (box.Min.X + box.Max.X) / 2
	yes = image.Rect(mid-110, y, mid-10, y+24)
	no = image.Rect(mid+10, y, mid+110, y+24)
	return yes, no
}

// dialogBox centres a w x h box in the window.
func (l layout) dialogBox(w, h int) image.Rectangle {
	if w > l.width-20 {
		w = l.width - 20
	}
	if h > l.height-20 {
		h = l.height - 20
	}
	x := (l.width - w) / 2
	y := (l.height - h) / 2
	return image.Rect(x, y, x+w, y+h)
}
