package theme

import (
	"image/color"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestParseOverridesDefaults(t *testing.T) {
	th, err := Parse(strings.NewReader("Name: Mine\n# comment\nfotostroke: #112233\nTextStroke: #44556680\nUnknown: #000000\n"))
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}
	if th.Name != "Mine" {
		t.Fatalf("unexpected name %q", th.Name)
	}
	if th.FotoStroke != (color.RGBA{0x11, 0x22, 0x33, 0xFF}) {
		t.Fatalf("unexpected foto stroke %v", th.FotoStroke)
	}
	if th.TextStroke != (color.RGBA{0x44, 0x55, 0x66, 0x80}) {
		t.Fatalf("unexpected text stroke %v", th.TextStroke)
	}
	if th.Background != Default().Background {
		t.Fatalf("missing keys should keep defaults")
	}
}

func TestParseRejectsBadColor(t *testing.T) {
	if _, err := Parse(strings.NewReader("Background: 123456\n")); err == nil {
		t.Fatalf("expected error for color without #")
	}
	if _, err := Parse(strings.NewReader("Background: #12345\n")); err == nil {
		t.Fatalf("expected error for short color")
	}
}

func TestLoaderSources(t *testing.T) {
	l := &Loader{ConfigDir: t.TempDir()}

	th, err := l.Load("")
	if err != nil || th.Name != "Default" {
		t.Fatalf("empty name should load Default, got %v, %v", th, err)
	}

	th, err = l.Load("dark")
	if err != nil {
		t.Fatalf("embedded theme: %v", err)
	}
	if th.Name != "Dark" {
		t.Fatalf("unexpected embedded theme %q", th.Name)
	}

	path := filepath.Join(l.ConfigDir, "custom.theme")
	if err := os.WriteFile(path, []byte("Name: Custom\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	th, err = l.Load("custom")
	if err != nil || th.Name != "Custom" {
		t.Fatalf("config dir theme: %v, %v", th, err)
	}

	if _, err := l.Load("missing"); err == nil {
		t.Fatalf("expected error for unknown theme")
	}
}

func TestFieldsRoundTrip(t *testing.T) {
	var sb strings.Builder
	for _, kv := range Default().Fields() {
		sb.WriteString(kv[0] + ": " + kv[1] + "\n")
	}
	th, err := Parse(strings.NewReader(sb.String()))
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}
	if *th != *Default() {
		t.Fatalf("round trip mismatch: %+v", th)
	}
}
