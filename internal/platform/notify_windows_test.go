//go:build windows

package platform

import (
	"strings"
	"testing"
)

func TestToastScript(t *testing.T) {
	s := toastScript("Title", "it's done", Options{})
	if !strings.Contains(s, "ToastText02") || strings.Contains(s, `"image"`) {
		t.Fatalf("text toast expected:\n%s", s)
	}
	if !strings.Contains(s, "'it''s done'") {
		t.Fatalf("body not quoted:\n%s", s)
	}
	s = toastScript("Title", "body", Options{IconPath: `C:\tmp\icon.png`})
	if !strings.Contains(s, "ToastImageAndText02") || !strings.Contains(s, `C:\tmp\icon.png`) {
		t.Fatalf("image toast expected:\n%s", s)
	}
}
