package geometry

import (
	"errors"
	"math/rand"
	"testing"
)

func TestComputeScale(t *testing.T) {
	tests := []struct {
		name           string
		iw, ih, cw, ch int
		limit          float64
		want           float64
	}{
		{"small image capped", 100, 100, 1600, 1280, 1.25, 1.25},
		{"no upscale cap", 100, 100, 1600, 1280, 1.0, 1.0},
		{"wide image", 3200, 1000, 1600, 1280, 1.25, 0.5},
		{"tall image", 1000, 2560, 1600, 1280, 1.25, 0.5},
		{"exact fit", 1600, 1280, 1600, 1280, 1.25, 1.0},
		{"zero width", 0, 100, 1600, 1280, 1.25, 1.0},
		{"negative height", 100, -3, 1600, 1280, 1.25, 1.0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ComputeScale(tt.iw, tt.ih, tt.cw, tt.ch, tt.limit); got != tt.want {
				t.Fatalf("ComputeScale = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestComputeScaleBounds(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	for i := 0; i < 500; i++ {
		iw, ih := rng.Intn(5000)+1, rng.Intn(5000)+1
		cw, ch := rng.Intn(3000)+1, rng.Intn(3000)+1
		s := ComputeScale(iw, ih, cw, ch, DefaultScaleCap)
		if s <= 0 || s > DefaultScaleCap {
			t.Fatalf("scale %v out of (0, %v] for %dx%d in %dx%d", s, DefaultScaleCap, iw, ih, cw, ch)
		}
		if float64(iw)*DefaultScaleCap <= float64(cw) && float64(ih)*DefaultScaleCap <= float64(ch) && s != DefaultScaleCap {
			t.Fatalf("image %dx%d fits %dx%d at cap but got %v", iw, ih, cw, ch, s)
		}
	}
}

func TestTransformCoords(t *testing.T) {
	got, err := TransformCoords(Rect{X1: 10, Y1: 21, X2: 99.9, Y2: 50}, 0.5)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := IntRect{X1: 20, Y1: 42, X2: 199, Y2: 100}
	if got != want {
		t.Fatalf("TransformCoords = %+v, want %+v", got, want)
	}

	got, err = TransformCoords(Rect{X1: 10, Y1: 10, X2: 20, Y2: 20}, 3)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if want := (IntRect{X1: 3, Y1: 3, X2: 6, Y2: 6}); got != want {
		t.Fatalf("truncation gave %+v, want %+v", got, want)
	}
}

func TestTransformCoordsZeroScale(t *testing.T) {
	if _, err := TransformCoords(Rect{X2: 10, Y2: 10}, 0); !errors.Is(err, ErrZeroScale) {
		t.Fatalf("expected ErrZeroScale, got %v", err)
	}
}

func TestNormalizeAndSelectable(t *testing.T) {
	r := RectFromPoints(50, 40, 10, 5)
	if r != (Rect{X1: 10, Y1: 5, X2: 50, Y2: 40}) {
		t.Fatalf("unexpected normalized rect %+v", r)
	}
	if !r.Selectable() {
		t.Fatalf("expected %+v to be selectable", r)
	}
	if RectFromPoints(0, 0, 5, 100).Selectable() {
		t.Fatalf("a 5px wide drag must be discarded")
	}
	if RectFromPoints(0, 0, 100, 3).Selectable() {
		t.Fatalf("a 3px tall drag must be discarded")
	}
}

func TestDisplaySize(t *testing.T) {
	w, h := DisplaySize(1000, 3, 0.1)
	if w != 100 || h != 1 {
		t.Fatalf("DisplaySize = %dx%d, want 100x1", w, h)
	}
}
