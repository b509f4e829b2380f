// Package notify sends desktop notifications when regions are exported or
// copied.
package notify

import (
	"fmt"
	"image"
	"os"
	"strings"

	"github.com/disintegration/imaging"

	"github.com/example/imageselector/internal/logging"
	"github.com/example/imageselector/internal/platform"
	"github.com/example/imageselector/internal/render"
)

// Event identifies a notification trigger.
type Event string

const (
	// EventExport fires after a selection has been exported to disk.
	EventExport Event = "export"
	// EventCopy fires when a crop or summary is copied to the clipboard.
	EventCopy Event = "copy"
)

// Environment variables overriding the notification texts.
const (
	EnvTitle      = "IMAGE_SELECTOR_NOTIFY_TITLE"
	EnvExportText = "IMAGE_SELECTOR_NOTIFY_EXPORT_TEXT"
	EnvCopyText   = "IMAGE_SELECTOR_NOTIFY_COPY_TEXT"
)

// EventPreference describes formatting for a notification event.
type EventPreference struct {
	Template string
}

// Preferences describes notification behaviour loaded from configuration.
type Preferences struct {
	Title  string
	Events map[Event]EventPreference
}

// DefaultPreferences returns the default notification settings.
func DefaultPreferences() Preferences {
	return Preferences{
		Title: platform.AppName,
		Events: map[Event]EventPreference{
			EventExport: {Template: "Exported %s"},
			EventCopy:   {Template: "Copied %s to clipboard"},
		},
	}
}

// LoadPreferences applies environment overrides to the defaults.
func LoadPreferences(lookup func(string) (string, bool)) Preferences {
	if lookup == nil {
		lookup = os.LookupEnv
	}
	get := func(key string) string {
		v, _ := lookup(key)
		return strings.TrimSpace(v)
	}
	prefs := DefaultPreferences()
	if v := get(EnvTitle); v != "" {
		prefs.Title = v
	}
	for key, event := range map[string]Event{EnvExportText: EventExport, EnvCopyText: EventCopy} {
		if v := get(key); v != "" {
			prefs.Events[event] = EventPreference{Template: v}
		}
	}
	return prefs
}

// SendFunc delivers a rendered notification.
type SendFunc func(title, body string, opts platform.Options) error

// Notifier sends OS-level notifications based on the configured preferences.
// A nil Notifier is valid and does nothing.
type Notifier struct {
	prefs   Preferences
	enabled map[Event]bool
	send    SendFunc
	log     logging.Logger
}

// New creates a Notifier with every event disabled.
func New(prefs Preferences, log logging.Logger) *Notifier {
	cloned := Preferences{Title: prefs.Title, Events: make(map[Event]EventPreference, len(prefs.Events))}
	for k, v := range prefs.Events {
		cloned.Events[k] = v
	}
	return &Notifier{
		prefs:   cloned,
		enabled: make(map[Event]bool),
		send:    platform.Notify,
		log:     logging.OrDefault(log),
	}
}

// WithSender replaces the delivery function.
func (n *Notifier) WithSender(send SendFunc) *Notifier {
	if n != nil && send != nil {
		n.send = send
	}
	return n
}

// Enable toggles the notifier for the provided event.
func (n *Notifier) Enable(event Event, enabled bool) {
	if n == nil {
		return
	}
	n.enabled[event] = enabled
}

// Export announces an export. When img is set a shadowed thumbnail of it is
// shown as the icon.
func (n *Notifier) Export(detail string, img image.Image) {
	if !n.enabledFor(EventExport) {
		return
	}
	opts := platform.Options{}
	if img != nil && !img.Bounds().Empty() {
		path, cleanup, err := n.createPreview(img)
		if err != nil {
			n.log.Warnf("notification preview: %v", err)
		} else {
			defer cleanup()
			opts.IconPath = path
		}
	}
	n.dispatch(EventExport, detail, opts)
}

// Copy sends a clipboard notification.
func (n *Notifier) Copy(detail string) {
	if strings.TrimSpace(detail) == "" {
		detail = "image"
	}
	n.dispatch(EventCopy, detail, platform.Options{})
}

func (n *Notifier) enabledFor(event Event) bool {
	return n != nil && n.enabled[event]
}

func (n *Notifier) dispatch(event Event, detail string, opts platform.Options) {
	if !n.enabledFor(event) {
		return
	}
	body := n.body(event, detail)
	if body == "" {
		return
	}
	if err := n.send(n.prefs.Title, body, opts); err != nil {
		n.log.Warnf("notification %s: %v", event, err)
	}
}

func (n *Notifier) body(event Event, detail string) string {
	template := strings.TrimSpace(n.prefs.Events[event].Template)
	if template == "" {
		return ""
	}
	if !strings.Contains(template, "%") {
		return template
	}
	return strings.TrimSpace(fmt.Sprintf(template, strings.TrimSpace(detail)))
}

func (n *Notifier) createPreview(img image.Image) (string, func(), error) {
	f, err := os.CreateTemp("", "imageselector-preview-*.png")
	if err != nil {
		return "", nil, err
	}
	path := f.Name()
	if err := imaging.Encode(f, render.Icon(img), imaging.PNG); err != nil {
		_ = f.Close()
		_ = os.Remove(path)
		return "", nil, err
	}
	if err := f.Close(); err != nil {
		_ = os.Remove(path)
		return "", nil, err
	}
	cleanup := func() {
		if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
			n.log.Warnf("remove preview: %v", err)
		}
	}
	return path, cleanup, nil
}
