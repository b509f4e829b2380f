package config

import (
	"fmt"
	"sort"
	"strings"

	"github.com/example/imageselector/internal/geometry"
	"github.com/example/imageselector/internal/theme"
)

// Notify holds notification settings.
type Notify struct {
	Export bool
}

// Config holds the application configuration.
type Config struct {
	WorkingDir   string
	Theme        string
	ScaleCap     float64
	CanvasWidth  int
	CanvasHeight int
	OCRLanguage  string
	LogLevel     string
	Notify       Notify
	Themes       map[string]*theme.Theme
}

// DefaultOCRLanguage recognizes German and English text.
const DefaultOCRLanguage = "deu+eng"

// New creates a new Config with defaults.
func New() *Config {
	return &Config{
		Theme:        "", // empty lets env and the built in default apply
		ScaleCap:     geometry.DefaultScaleCap,
		CanvasWidth:  geometry.DefaultCanvas.X,
		CanvasHeight: geometry.DefaultCanvas.Y,
		OCRLanguage:  DefaultOCRLanguage,
		LogLevel:     "info",
		Themes:       make(map[string]*theme.Theme),
	}
}

// Validate rejects values the selector cannot work with.
func (c *Config) Validate() error {
	if c.ScaleCap <= 0 {
		return fmt.Errorf("scale_cap must be positive, got %v", c.ScaleCap)
	}
	if c.CanvasWidth <= 0 || c.CanvasHeight <= 0 {
		return fmt.Errorf("canvas size must be positive, got %dx%d", c.CanvasWidth, c.CanvasHeight)
	}
	return nil
}

// String implements fmt.Stringer and returns the configuration in RC format.
func (c *Config) String() string {
	var sb strings.Builder

	if c.WorkingDir != "" {
		fmt.Fprintf(&sb, "working_dir = %s\n", c.WorkingDir)
	}
	if c.Theme != "" {
		fmt.Fprintf(&sb, "theme = %s\n", c.Theme)
	}
	fmt.Fprintf(&sb, "scale_cap = %g\n", c.ScaleCap)
	fmt.Fprintf(&sb, "canvas_width = %d\n", c.CanvasWidth)
	fmt.Fprintf(&sb, "canvas_height = %d\n", c.CanvasHeight)
	fmt.Fprintf(&sb, "ocr_language = %s\n", c.OCRLanguage)
	fmt.Fprintf(&sb, "log_level = %s\n", c.LogLevel)
	sb.WriteString("\n")

	sb.WriteString("[notify]\n")
	fmt.Fprintf(&sb, "export = %v\n", c.Notify.Export)
	sb.WriteString("\n")

	names := make([]string, 0, len(c.Themes))
	for name := range c.Themes {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		t := c.Themes[name]
		fmt.Fprintf(&sb, "[theme.%s]\n", name)
		fmt.Fprintf(&sb, "Name: %s\n", t.Name)
		for _, kv := range t.Fields() {
			fmt.Fprintf(&sb, "%s: %s\n", kv[0], kv[1])
		}
		sb.WriteString("\n")
	}
	return sb.String()
}
