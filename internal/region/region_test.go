package region

import (
	"errors"
	"testing"

	"github.com/example/imageselector/internal/geometry"
)

func TestParseMode(t *testing.T) {
	for in, want := range map[string]Mode{"foto": Foto, "TEXT": Text, " Foto ": Foto} {
		got, err := ParseMode(in)
		if err != nil || got != want {
			t.Fatalf("ParseMode(%q) = %q, %v; want %q", in, got, err, want)
		}
	}
	if _, err := ParseMode("photo"); err == nil {
		t.Fatalf("expected error for unknown mode")
	}
}

func TestLabel(t *testing.T) {
	r := Region{Rect: geometry.Rect{X1: 10, Y1: 10, X2: 130.7, Y2: 90}, Mode: Foto}
	if got, want := r.Label(1), "1. FOTO (120x80)"; got != want {
		t.Fatalf("Label = %q, want %q", got, want)
	}
}

func TestToOriginal(t *testing.T) {
	regions := []Region{
		{Rect: geometry.Rect{X1: 10, Y1: 10, X2: 20, Y2: 20}, Mode: Foto},
		{Rect: geometry.Rect{X1: 1, Y1: 2, X2: 3, Y2: 4}, Mode: Text},
	}
	got, err := ToOriginal(regions, 0.5)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(got) != 2 || got[0].Rect != (geometry.IntRect{X1: 20, Y1: 20, X2: 40, Y2: 40}) || got[1].Mode != Text {
		t.Fatalf("unexpected result %+v", got)
	}
	if _, err := ToOriginal(regions, 0); !errors.Is(err, geometry.ErrZeroScale) {
		t.Fatalf("expected ErrZeroScale, got %v", err)
	}
}
