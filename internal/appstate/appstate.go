package appstate

import (
	"context"
	"image"
	"image/color"
	"image/draw"
	"math"
	"strings"
	"time"

	"golang.org/x/exp/shiny/screen"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/font/gofont/goregular"
	"golang.org/x/image/font/opentype"
	"golang.org/x/image/math/fixed"
	"golang.org/x/mobile/event/key"

	"github.com/example/imageselector/internal/geometry"
	"github.com/example/imageselector/internal/logging"
	"github.com/example/imageselector/internal/region"
	"github.com/example/imageselector/internal/theme"
)

// frameDropThreshold specifies how many consecutive frames can be canceled
// before a draw is allowed to complete to keep the UI responsive.
const frameDropThreshold = 10

const (
	strokeWidth = 3
	dashLength  = 5
)

var uiFace font.Face
var messageFace font.Face

func init() {
	f, err := opentype.Parse(goregular.TTF)
	if err != nil {
		logging.Default.Errorf("parse font: %v", err)
		uiFace, messageFace = basicfont.Face7x13, basicfont.Face7x13
		return
	}
	uiFace, err = opentype.NewFace(f, &opentype.FaceOptions{Size: 13, DPI: 72, Hinting: font.HintingFull})
	if err != nil {
		logging.Default.Errorf("font face: %v", err)
		uiFace = basicfont.Face7x13
	}
	messageFace, err = opentype.NewFace(f, &opentype.FaceOptions{Size: 24, DPI: 72, Hinting: font.HintingFull})
	if err != nil {
		logging.Default.Errorf("font face: %v", err)
		messageFace = uiFace
	}
}

// KeyShortcut describes a keyboard combination that triggers an action.
type KeyShortcut struct {
	Rune      rune
	Code      key.Code
	Modifiers key.Modifiers
}

// KeyboardShortcuts returns the shortcuts associated with an action.
type KeyboardShortcuts interface {
	KeyboardShortcuts() []KeyShortcut
}

// shortcutList is a helper to easily satisfy the KeyboardShortcuts interface.
type shortcutList []KeyShortcut

func (s shortcutList) KeyboardShortcuts() []KeyShortcut { return []KeyShortcut(s) }

// ButtonState describes the visual state of a button.
type ButtonState int

const (
	StateDefault ButtonState = iota
	StateHover
	StatePressed
)

// Button represents an interactive UI element.
// Activate performs the button's action when clicked.
type Button interface {
	Draw(dst *image.RGBA, state ButtonState)
	Rect() image.Rectangle
	SetRect(r image.Rectangle)
	Activate()
}

// CacheButton wraps another Button and caches its rendered states.
type CacheButton struct {
	Button
	cache [3]*image.RGBA
}

var _ Button = (*CacheButton)(nil)

func (cb *CacheButton) Draw(dst *image.RGBA, state ButtonState) {
	if cb.cache[state] == nil {
		rect := cb.Button.Rect()
		img := image.NewRGBA(rect)
		cb.Button.Draw(img, state)
		cb.cache[state] = img
	}
	draw.Draw(dst, cb.Button.Rect(), cb.cache[state], cb.Button.Rect().Min, draw.Src)
}

func (cb *CacheButton) Rect() image.Rectangle { return cb.Button.Rect() }

func (cb *CacheButton) SetRect(r image.Rectangle) {
	if r != cb.Button.Rect() {
		cb.Button.SetRect(r)
		cb.cache = [3]*image.RGBA{}
	}
}

func (cb *CacheButton) Activate() { cb.Button.Activate() }

// ActionButton is a labelled toolbar button bound to a named action.
type ActionButton struct {
	label  string
	action string
	theme  *theme.Theme
	rect   image.Rectangle
	// onActivate is called when the button is clicked.
	onActivate func()
}

func (ab *ActionButton) Draw(dst *image.RGBA, state ButtonState) {
	c := ab.theme.ButtonBackground
	switch state {
	case StateHover:
		c = ab.theme.ButtonBackgroundHover
	case StatePressed:
		c = ab.theme.ButtonBackgroundPress
	}
	draw.Draw(dst, ab.rect, &image.Uniform{c}, image.Point{}, draw.Src)
	drawRect(dst, ab.rect, ab.theme.ButtonBorder, 1)
	d := &font.Drawer{Dst: dst, Src: image.NewUniform(ab.theme.ButtonText), Face: basicfont.Face7x13,
		Dot: fixed.P(ab.rect.Min.X+6, ab.rect.Min.Y+15)}
	d.DrawString(ab.label)
}

func (ab *ActionButton) Rect() image.Rectangle { return ab.rect }

func (ab *ActionButton) SetRect(r image.Rectangle) {
	if r != ab.rect {
		ab.rect = r
	}
}

func (ab *ActionButton) Activate() {
	if ab.onActivate != nil {
		ab.onActivate()
	}
}

type toolbarItem struct {
	label  string
	action string
}

var toolbarItems = []toolbarItem{
	{"A:Add", "add"},
	{"F:Foto", "foto"},
	{"T:Text", "text"},
	{"S:Save", "save"},
	{"Del:Clear", "clear"},
	{"[:Left", "left"},
	{"]:Right", "right"},
	{"R:180", "flip"},
	{"Enter:Finish", "finish"},
	{"H:Help", "help"},
	{"I:About", "about"},
	{"Q:Quit", "quit"},
}

func newToolbarButtons(th *theme.Theme, trigger func(string)) []*CacheButton {
	labels := make([]string, len(toolbarItems))
	for i, it := range toolbarItems {
		labels[i] = it.label
	}
	rects := toolbarRects(labels)
	out := make([]*CacheButton, len(toolbarItems))
	for i, it := range toolbarItems {
		action := it.action
		ab := &ActionButton{label: it.label, action: action, theme: th, onActivate: func() { trigger(action) }}
		ab.SetRect(rects[i])
		out[i] = &CacheButton{Button: ab}
	}
	return out
}

func setThickPixel(img *image.RGBA, x, y, thick int, col color.Color) {
	r := thick / 2
	for dx := -r; dx <= r; dx++ {
		for dy := -r; dy <= r; dy++ {
			px := x + dx
			py := y + dy
			if image.Pt(px, py).In(img.Bounds()) {
				img.Set(px, py, col)
			}
		}
	}
}

func drawLine(img *image.RGBA, x0, y0, x1, y1 int, col color.Color, thick int) {
	dx := math.Abs(float64(x1 - x0))
	dy := math.Abs(float64(y1 - y0))
	sx := -1
	if x0 < x1 {
		sx = 1
	}
	sy := -1
	if y0 < y1 {
		sy = 1
	}
	err := dx - dy
	for {
		setThickPixel(img, x0, y0, thick, col)
		if x0 == x1 && y0 == y1 {
			break
		}
		e2 := 2 * err
		if e2 > -dy {
			err -= dy
			x0 += sx
		}
		if e2 < dx {
			err += dx
			y0 += sy
		}
	}
}

func drawRect(img *image.RGBA, rect image.Rectangle, col color.Color, thick int) {
	drawLine(img, rect.Min.X, rect.Min.Y, rect.Max.X-1, rect.Min.Y, col, thick)
	drawLine(img, rect.Max.X-1, rect.Min.Y, rect.Max.X-1, rect.Max.Y-1, col, thick)
	drawLine(img, rect.Max.X-1, rect.Max.Y-1, rect.Min.X, rect.Max.Y-1, col, thick)
	drawLine(img, rect.Min.X, rect.Max.Y-1, rect.Min.X, rect.Min.Y, col, thick)
}

// drawDashedLine draws an axis aligned line of dash long segments separated
// by gaps of the same length.
func drawDashedLine(img *image.RGBA, x0, y0, x1, y1, dash, thick int, col color.Color) {
	horiz := y0 == y1
	length := x1 - x0
	if !horiz {
		length = y1 - y0
	}
	step := 1
	if length < 0 {
		length = -length
		step = -1
	}
	for i := 0; i <= length; i += dash * 2 {
		for j := 0; j < dash && i+j <= length; j++ {
			if horiz {
				setThickPixel(img, x0+step*(i+j), y0, thick, col)
			} else {
				setThickPixel(img, x0, y0+step*(i+j), thick, col)
			}
		}
	}
}

func drawDashedRect(img *image.RGBA, rect image.Rectangle, dash, thick int, col color.Color) {
	drawDashedLine(img, rect.Min.X, rect.Min.Y, rect.Max.X, rect.Min.Y, dash, thick, col)
	drawDashedLine(img, rect.Max.X, rect.Min.Y, rect.Max.X, rect.Max.Y, dash, thick, col)
	drawDashedLine(img, rect.Max.X, rect.Max.Y, rect.Min.X, rect.Max.Y, dash, thick, col)
	drawDashedLine(img, rect.Min.X, rect.Max.Y, rect.Min.X, rect.Min.Y, dash, thick, col)
}

func fill(dst *image.RGBA, r image.Rectangle, c color.Color) {
	draw.Draw(dst, r, &image.Uniform{c}, image.Point{}, draw.Src)
}

func drawString(dst *image.RGBA, face font.Face, x, y int, s string, col color.Color) {
	d := &font.Drawer{Dst: dst, Src: image.NewUniform(col), Face: face, Dot: fixed.P(x, y)}
	d.DrawString(s)
}

// drawRow draws text vertically centred in r, clipped to r.
func drawRow(dst *image.RGBA, r image.Rectangle, s string, col color.Color) {
	clip, ok := dst.SubImage(r).(*image.RGBA)
	if !ok {
		return
	}
	drawString(clip, uiFace, r.Min.X+6, r.Min.Y+r.Dy()/2+5, s, col)
}

func strokeColor(th *theme.Theme, m region.Mode) color.RGBA {
	if m == region.Text {
		return th.TextStroke
	}
	return th.FotoStroke
}

type overlayKind int

const (
	overlayNone overlayKind = iota
	overlayConfirm
	overlayHelp
	overlayAbout
	overlayInput
)

type overlay struct {
	kind  overlayKind
	text  string
	input string
}

type paintState struct {
	log          logging.Logger
	layout       layout
	theme        *theme.Theme
	display      *image.NRGBA
	scroll       image.Point
	regions      []region.Region
	preview      geometry.Rect
	hasPreview   bool
	pending      geometry.Rect
	hasPending   bool
	mode         region.Mode
	imageLabels  []string
	activeImage  int
	regionLabels []string
	nav          string
	status       string
	buttons      []*CacheButton
	hoverButton  int
	hoverImage   int
	overlay      overlay
	message      string
	messageUntil time.Time
}

func drawFrame(ctx context.Context, s screen.Screen, w screen.Window, st paintState) {
	l := st.layout
	b, err := s.NewBuffer(image.Point{l.width, l.height})
	if err != nil {
		logging.OrDefault(st.log).Errorf("new buffer: %v", err)
		return
	}
	defer b.Release()
	dst := b.RGBA()
	th := st.theme

	fill(dst, l.canvas, th.Background)
	if canvas, ok := dst.SubImage(l.canvas).(*image.RGBA); ok && st.display != nil {
		origin := l.fromDisplay(image.Point{}, st.scroll)
		draw.Draw(canvas, st.display.Bounds().Add(origin), st.display, image.Point{}, draw.Src)
		if ctx.Err() != nil {
			return
		}
		toWindow := func(r geometry.Rect) image.Rectangle {
			return r.Image().Add(origin)
		}
		for _, r := range st.regions {
			drawRect(canvas, toWindow(r.Rect), strokeColor(th, r.Mode), strokeWidth)
		}
		if st.hasPending {
			drawDashedRect(canvas, toWindow(st.pending), dashLength, strokeWidth, strokeColor(th, st.mode))
		}
		if st.hasPreview {
			drawDashedRect(canvas, toWindow(st.preview), dashLength, strokeWidth, strokeColor(th, st.mode))
		}
	}
	if ctx.Err() != nil {
		return
	}

	drawToolbar(dst, st)
	drawSidebar(dst, st)
	fill(dst, l.status, th.StatusBackground)
	drawRow(dst, l.status, st.status, th.Foreground)
	if ctx.Err() != nil {
		return
	}

	drawOverlay(dst, st)

	if st.message != "" && time.Now().Before(st.messageUntil) {
		d := &font.Drawer{Dst: dst, Src: image.NewUniform(th.Foreground), Face: messageFace}
		wmsg := d.MeasureString(st.message).Ceil()
		ascent := messageFace.Metrics().Ascent.Ceil()
		descent := messageFace.Metrics().Descent.Ceil()
		px := (l.width - wmsg) / 2
		py := (l.height-ascent-descent)/2 + ascent
		rect := image.Rect(px-8, py-ascent-8, px+wmsg+8, py+descent+8)
		draw.Draw(dst, rect, &image.Uniform{th.OverlayBackground}, image.Point{}, draw.Over)
		drawRect(dst, rect, th.ButtonBorder, 2)
		d.Dot = fixed.P(px, py)
		d.DrawString(st.message)
	}

	if ctx.Err() != nil {
		return
	}
	w.Upload(image.Point{}, b, b.Bounds())
	w.Publish()
}

func drawToolbar(dst *image.RGBA, st paintState) {
	fill(dst, st.layout.toolbar, st.theme.ToolbarBackground)
	for i, cb := range st.buttons {
		state := StateDefault
		if ab, ok := cb.Button.(*ActionButton); ok && ab.action == string(st.mode) {
			state = StatePressed
		} else if i == st.hoverButton {
			state = StateHover
		}
		cb.Draw(dst, state)
	}
}

func drawSidebar(dst *image.RGBA, st paintState) {
	l, th := st.layout, st.theme
	fill(dst, l.sidebar, th.SidebarBackground)
	drawLine(dst, l.sidebar.Min.X, l.sidebar.Min.Y, l.sidebar.Min.X, l.sidebar.Max.Y-1, th.ButtonBorder, 1)

	drawRow(dst, l.imageHeader(), "Images", th.Foreground)
	for i, r := range l.imageRows(len(st.imageLabels)) {
		switch {
		case i == st.activeImage:
			fill(dst, r, th.ListSelected)
		case i == st.hoverImage:
			fill(dst, r, th.ButtonBackgroundHover)
		}
		drawRow(dst, r, st.imageLabels[i], th.Foreground)
	}
	drawRow(dst, l.navRect(len(st.imageLabels)), st.nav, th.Foreground)

	drawRow(dst, l.regionHeader(len(st.imageLabels)), "Regions", th.Foreground)
	for i, r := range l.regionRows(len(st.imageLabels), len(st.regionLabels)) {
		col := th.Foreground
		if i < len(st.regions) {
			col = strokeColor(th, st.regions[i].Mode)
		}
		drawRow(dst, r, st.regionLabels[i], col)
	}
}

func drawTextBox(dst *image.RGBA, st paintState, box image.Rectangle, text string) {
	draw.Draw(dst, box, &image.Uniform{st.theme.OverlayBackground}, image.Point{}, draw.Over)
	drawRect(dst, box, st.theme.ButtonBorder, 2)
	clip, ok := dst.SubImage(box.Inset(8)).(*image.RGBA)
	if !ok {
		return
	}
	lh := uiFace.Metrics().Height.Ceil() + 2
	y := box.Min.Y + 8 + lh
	for _, line := range strings.Split(text, "\n") {
		drawString(clip, uiFace, box.Min.X+12, y, line, st.theme.Foreground)
		y += lh
	}
}

func drawOverlay(dst *image.RGBA, st paintState) {
	l, th := st.layout, st.theme
	switch st.overlay.kind {
	case overlayConfirm:
		box := l.dialogBox(460, 120)
		drawTextBox(dst, st, box, st.overlay.text)
		yes, no := confirmButtons(box)
		for _, b := range []struct {
			r     image.Rectangle
			label string
		}{{yes, "Y:Yes"}, {no, "N:No"}} {
			(&ActionButton{label: b.label, theme: th, rect: b.r}).Draw(dst, StateDefault)
		}
	case overlayHelp:
		drawTextBox(dst, st, l.dialogBox(520, 560), st.overlay.text)
	case overlayAbout:
		drawTextBox(dst, st, l.dialogBox(420, 180), st.overlay.text)
	case overlayInput:
		box := l.dialogBox(640, 90)
		drawTextBox(dst, st, box, "Add image or PDF (Enter to add, Esc to cancel):\n\n"+st.overlay.input+"|")
	}
}
