package appstate

import (
	"context"
	"errors"
	"fmt"
	"image"
	"path/filepath"
	"time"

	"github.com/disintegration/imaging"
	"golang.org/x/exp/shiny/screen"
	"golang.org/x/mobile/event/key"
	"golang.org/x/mobile/event/lifecycle"
	"golang.org/x/mobile/event/mouse"
	"golang.org/x/mobile/event/paint"
	"golang.org/x/mobile/event/size"

	"github.com/example/imageselector/internal/clipboard"
	"github.com/example/imageselector/internal/geometry"
	"github.com/example/imageselector/internal/logging"
	"github.com/example/imageselector/internal/notify"
	"github.com/example/imageselector/internal/region"
	"github.com/example/imageselector/internal/session"
	"github.com/example/imageselector/internal/theme"
)

// DefaultWindowSize is the size of a new selector window.
var DefaultWindowSize = image.Pt(1280, 960)

const scrollStep = 40

// AppState runs one selection window for a session controller.
type AppState struct {
	Controller *session.Controller
	Theme      *theme.Theme
	Log        logging.Logger
	Title      string
	Version    string
	// InputDir pre-fills the add image prompt.
	InputDir string
	Notifier *notify.Notifier

	// cancel closes the window from outside the event loop.
	cancel <-chan struct{}
}

// Option modifies an AppState during creation.
type Option func(*AppState)

// WithTheme sets the window palette.
func WithTheme(th *theme.Theme) Option { return func(a *AppState) { a.Theme = th } }

// WithLogger sets the logger.
func WithLogger(l logging.Logger) Option { return func(a *AppState) { a.Log = l } }

// WithTitle sets the window title.
func WithTitle(title string) Option { return func(a *AppState) { a.Title = title } }

// WithVersion sets the version shown in the about box.
func WithVersion(v string) Option { return func(a *AppState) { a.Version = v } }

// WithInputDir sets the directory offered when adding images.
func WithInputDir(dir string) Option { return func(a *AppState) { a.InputDir = dir } }

// WithNotifier announces clipboard copies through n.
func WithNotifier(n *notify.Notifier) Option { return func(a *AppState) { a.Notifier = n } }

// New creates an AppState for c with the provided options.
func New(c *session.Controller, opts ...Option) *AppState {
	a := &AppState{Controller: c, Title: "Image Selector"}
	for _, o := range opts {
		o(a)
	}
	if a.Theme == nil {
		a.Theme = theme.Default()
	}
	return a
}

// cancelEvent asks the event loop to end the session.
type cancelEvent struct{}

// Main runs the event loop on s until the session is finished, closed or
// cancelled.
func (a *AppState) Main(s screen.Screen) (session.Outcome, error) {
	c := a.Controller
	if c == nil {
		return session.Outcome{}, errors.New("no session controller")
	}
	log := logging.OrDefault(a.Log)
	th := a.Theme
	if th == nil {
		th = theme.Default()
	}

	width, height := DefaultWindowSize.X, DefaultWindowSize.Y
	w, err := s.NewWindow(&screen.NewWindowOptions{Width: width, Height: height, Title: a.Title})
	if err != nil {
		return session.Outcome{}, fmt.Errorf("new window: %w", err)
	}
	defer w.Release()

	if a.cancel != nil {
		done := make(chan struct{})
		go func() {
			select {
			case <-a.cancel:
				w.Send(cancelEvent{})
			case <-done:
			}
		}()
		defer close(done)
	}

	// Deferred after w.Release so it runs first: no frame touches the
	// window once it is released.
	pt := newPainter(func(ctx context.Context, st paintState) { drawFrame(ctx, s, w, st) })
	defer pt.stop()

	lay := newLayout(width, height)
	var scroll image.Point
	var dragging bool
	var message string
	var messageUntil time.Time
	var ov overlay
	var onConfirm session.Event
	hoverButton, hoverImage := -1, -1

	showMessage := func(msg string) {
		message = msg
		log.Info(msg)
		messageUntil = time.Now().Add(2 * time.Second)
	}

	activeDisplay := func() image.Point {
		if act := c.Store.Active(); act != nil && act.Entry.Display != nil {
			return act.Entry.Display.Bounds().Size()
		}
		return image.Point{}
	}

	apply := func(ev session.Event) {
		r, err := c.Handle(ev)
		switch {
		case r.Warning != "":
			showMessage(r.Warning)
		case err != nil:
			log.Errorf("%T: %v", ev, err)
			showMessage("Error: " + err.Error())
		}
		if r.Confirm != "" {
			ov = overlay{kind: overlayConfirm, text: r.Confirm}
			onConfirm = r.OnConfirm
		}
		scroll = clampScroll(scroll, activeDisplay(), lay.canvas)
		w.Send(paint.Event{})
	}

	copySelection := func() {
		act := c.Store.Active()
		sel, ok := c.Pending()
		if act == nil || act.Entry.Pixels == nil || !ok {
			showMessage(session.WarnNoSelection)
			return
		}
		rect, err := geometry.TransformCoords(sel, act.Entry.Scale)
		if err != nil {
			showMessage("Error: " + err.Error())
			return
		}
		if err := clipboard.WriteImage(imaging.Crop(act.Entry.Pixels, rect.Image())); err != nil {
			log.Errorf("copy: %v", err)
			showMessage("Error: " + err.Error())
			return
		}
		showMessage("selection copied to clipboard")
		a.Notifier.Copy(fmt.Sprintf("%dx%d selection", rect.X2-rect.X1, rect.Y2-rect.Y1))
	}

	switchBy := func(delta int) {
		n := c.Store.Len()
		if n < 2 {
			return
		}
		apply(session.SwitchImage{Index: (c.Store.ActiveIndex() + delta + n) % n})
	}

	actions := map[string]func(){}
	keyboardAction := map[KeyShortcut]string{}
	register := func(name string, keys KeyboardShortcuts, fn func()) {
		actions[name] = fn
		if keys != nil {
			for _, sc := range keys.KeyboardShortcuts() {
				keyboardAction[sc] = name
			}
		}
	}

	register("add", shortcutList{{Rune: 'a'}}, func() {
		dir := a.InputDir
		if dir != "" {
			dir += string(filepath.Separator)
		}
		ov = overlay{kind: overlayInput, input: dir}
	})
	register("foto", shortcutList{{Rune: 'f'}}, func() { apply(session.ModeSelected{Mode: region.Foto}) })
	register("text", shortcutList{{Rune: 't'}}, func() { apply(session.ModeSelected{Mode: region.Text}) })
	register("save", shortcutList{{Rune: 's'}}, func() { apply(session.SaveSelection{}) })
	register("clear", shortcutList{{Code: key.CodeDeleteForward}, {Code: key.CodeDeleteBackspace}}, func() {
		apply(session.ClearRegions{})
	})
	register("left", shortcutList{{Rune: '['}}, func() { apply(session.Rotate{Angle: -90}) })
	register("right", shortcutList{{Rune: ']'}}, func() { apply(session.Rotate{Angle: 90}) })
	register("flip", shortcutList{{Rune: 'r'}}, func() { apply(session.Rotate{Angle: 180}) })
	register("finish", shortcutList{{Code: key.CodeReturnEnter}}, func() { apply(session.Finish{}) })
	register("quit", shortcutList{{Rune: 'q'}, {Code: key.CodeEscape}}, func() { apply(session.Close{}) })
	register("help", shortcutList{{Rune: 'h'}, {Code: key.CodeF1}}, func() {
		ov = overlay{kind: overlayHelp, text: session.HelpText}
	})
	register("about", shortcutList{{Rune: 'i'}}, func() {
		ov = overlay{kind: overlayAbout, text: session.AboutText(a.Version)}
	})
	register("copy", shortcutList{{Rune: 'c', Modifiers: key.ModControl}, {Code: key.CodeC, Modifiers: key.ModControl}}, copySelection)
	register("prev", shortcutList{{Code: key.CodePageUp}}, func() { switchBy(-1) })
	register("next", shortcutList{{Code: key.CodePageDown}, {Code: key.CodeTab}}, func() { switchBy(1) })

	handleShortcut := func(action string) {
		if fn, ok := actions[action]; ok {
			fn()
		}
		w.Send(paint.Event{})
	}
	buttons := newToolbarButtons(th, handleShortcut)

	answer := func(yes bool) {
		ev := onConfirm
		ov, onConfirm = overlay{}, nil
		if yes && ev != nil {
			apply(ev)
		}
		w.Send(paint.Event{})
	}

	for {
		if c.Done() {
			return c.Outcome(), nil
		}
		e := w.NextEvent()
		switch e := e.(type) {
		case cancelEvent:
			c.Cancel()
		case lifecycle.Event:
			if e.To == lifecycle.StageDead {
				c.Cancel()
			}
		case size.Event:
			width, height = e.WidthPx, e.HeightPx
			lay = newLayout(width, height)
			apply(session.CanvasResized{W: lay.canvas.Dx(), H: lay.canvas.Dy()})
		case paint.Event:
			st := paintState{
				log:          log,
				layout:       lay,
				theme:        th,
				scroll:       scroll,
				mode:         c.Mode(),
				imageLabels:  c.ImageLabels(),
				activeImage:  c.Store.ActiveIndex(),
				regionLabels: c.RegionLabels(),
				nav:          c.NavLabel(),
				status:       c.Status(),
				buttons:      buttons,
				hoverButton:  hoverButton,
				hoverImage:   hoverImage,
				overlay:      ov,
				message:      message,
				messageUntil: messageUntil,
			}
			if act := c.Store.Active(); act != nil {
				st.display = act.Entry.Display
				st.regions = append([]region.Region(nil), act.Entry.Regions...)
			}
			st.preview, st.hasPreview = c.Preview()
			st.pending, st.hasPending = c.Pending()
			pt.submit(st)
		case mouse.Event:
			p := image.Pt(int(e.X), int(e.Y))
			press := e.Button == mouse.ButtonLeft && e.Direction == mouse.DirPress
			if message != "" && time.Now().Before(messageUntil) && press {
				messageUntil = time.Time{}
				w.Send(paint.Event{})
				continue
			}
			switch ov.kind {
			case overlayConfirm:
				if press {
					yes, no := confirmButtons(lay.dialogBox(460, 120))
					if p.In(yes) {
						answer(true)
					} else if p.In(no) {
						answer(false)
					}
				}
				continue
			case overlayHelp, overlayAbout:
				if press {
					ov = overlay{}
					w.Send(paint.Event{})
				}
				continue
			case overlayInput:
				continue
			}

			if e.Button == mouse.ButtonWheelUp || e.Button == mouse.ButtonWheelDown {
				if e.Direction == mouse.DirPress || e.Direction == mouse.DirStep {
					dy := scrollStep
					if e.Button == mouse.ButtonWheelUp {
						dy = -scrollStep
					}
					scroll = clampScroll(scroll.Add(image.Pt(0, dy)), activeDisplay(), lay.canvas)
					w.Send(paint.Event{})
				}
				continue
			}

			if p.In(lay.toolbar) {
				hoverButton = -1
				for i, cb := range buttons {
					if p.In(cb.Rect()) {
						hoverButton = i
						if press {
							cb.Activate()
						}
						break
					}
				}
				if e.Direction == mouse.DirNone {
					w.Send(paint.Event{})
				}
				continue
			}
			if hoverButton != -1 {
				hoverButton = -1
				w.Send(paint.Event{})
			}

			if p.In(lay.sidebar) && !dragging {
				idx := rowAt(lay.imageRows(c.Store.Len()), p)
				if idx != hoverImage {
					hoverImage = idx
					w.Send(paint.Event{})
				}
				if press && idx >= 0 && idx != c.Store.ActiveIndex() {
					apply(session.SwitchImage{Index: idx})
				}
				continue
			}
			hoverImage = -1

			x, y := lay.toDisplay(e.X, e.Y, scroll)
			switch {
			case press && p.In(lay.canvas):
				dragging = true
				apply(session.PointerDown{X: x, Y: y})
			case dragging && e.Direction == mouse.DirNone:
				apply(session.PointerDrag{X: x, Y: y})
			case dragging && e.Button == mouse.ButtonLeft && e.Direction == mouse.DirRelease:
				dragging = false
				apply(session.PointerUp{X: x, Y: y})
			}
		case key.Event:
			if e.Direction != key.DirPress {
				continue
			}
			switch ov.kind {
			case overlayConfirm:
				switch {
				case e.Rune == 'y' || e.Rune == 'Y' || e.Code == key.CodeReturnEnter:
					answer(true)
				case e.Rune == 'n' || e.Rune == 'N' || e.Code == key.CodeEscape:
					answer(false)
				}
				continue
			case overlayHelp, overlayAbout:
				ov = overlay{}
				w.Send(paint.Event{})
				continue
			case overlayInput:
				switch e.Code {
				case key.CodeReturnEnter:
					path := ov.input
					ov = overlay{}
					if path != "" {
						apply(session.AddImage{Path: path})
					}
				case key.CodeEscape:
					ov = overlay{}
				case key.CodeDeleteBackspace:
					if r := []rune(ov.input); len(r) > 0 {
						ov.input = string(r[:len(r)-1])
					}
				default:
					if e.Rune > 0 && e.Modifiers&key.ModControl == 0 {
						ov.input += string(e.Rune)
					}
				}
				w.Send(paint.Event{})
				continue
			}
			if action, ok := lookupShortcut(keyboardAction, e); ok {
				handleShortcut(action)
				continue
			}
			var d image.Point
			switch e.Code {
			case key.CodeLeftArrow:
				d.X = -scrollStep
			case key.CodeRightArrow:
				d.X = scrollStep
			case key.CodeUpArrow:
				d.Y = -scrollStep
			case key.CodeDownArrow:
				d.Y = scrollStep
			default:
				continue
			}
			scroll = clampScroll(scroll.Add(d), activeDisplay(), lay.canvas)
			w.Send(paint.Event{})
		}
	}
}
