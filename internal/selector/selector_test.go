package selector

import (
	"context"
	"errors"
	"image"
	"image/color"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/disintegration/imaging"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/example/imageselector/internal/config"
	"github.com/example/imageselector/internal/export"
	"github.com/example/imageselector/internal/logging"
	"github.com/example/imageselector/internal/region"
	"github.com/example/imageselector/internal/session"
	"github.com/example/imageselector/internal/workdir"
)

var fixedNow = func() time.Time { return time.Date(2024, 3, 9, 14, 5, 7, 0, time.UTC) }

func newWorkflow(t *testing.T, runner Runner) (*Workflow, string) {
	t.Helper()
	wd := t.TempDir()
	env := map[string]string{config.EnvWorkingDir: wd}
	return &Workflow{
		Resolver: &workdir.Resolver{
			Lookup: func(k string) (string, bool) { v, ok := env[k]; return v, ok },
			Log:    logging.Nop,
		},
		Runner: runner,
		Canvas: image.Pt(1000, 1000),
		Log:    logging.Nop,
		Now:    fixedNow,
	}, wd
}

func writeImage(t *testing.T, path string, w, h int) {
	t.Helper()
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	img.Set(1, 1, color.NRGBA{R: 255, A: 255})
	require.NoError(t, imaging.Save(img, path))
}

func selectRegions(t *testing.T, c *session.Controller, modes ...region.Mode) {
	t.Helper()
	for i, m := range modes {
		x := float64(10 + i*60)
		steps := []session.Event{
			session.ModeSelected{Mode: m},
			session.PointerDown{X: x, Y: 10},
			session.PointerDrag{X: x + 20, Y: 20},
			session.PointerUp{X: x + 40, Y: 50},
			session.SaveSelection{},
		}
		for _, ev := range steps {
			_, err := c.Handle(ev)
			require.NoError(t, err)
		}
	}
}

func finish(t *testing.T, c *session.Controller) session.Outcome {
	t.Helper()
	_, err := c.Handle(session.Finish{Confirmed: true})
	require.NoError(t, err)
	return c.Outcome()
}

func TestSelectExportsRegions(t *testing.T) {
	var runs int
	w, wd := newWorkflow(t, RunnerFunc(func(ctx context.Context, c *session.Controller) (session.Outcome, error) {
		runs++
		selectRegions(t, c, region.Foto, region.Text)
		return finish(t, c), nil
	}))
	writeImage(t, filepath.Join(wd, "scan.png"), 400, 200)

	tmp := filepath.Join(wd, workdir.TmpName)
	require.NoError(t, os.MkdirAll(tmp, 0o755))
	stale := filepath.Join(tmp, "old_region01_foto.png")
	require.NoError(t, os.WriteFile(stale, []byte("x"), 0o644))

	sum, err := w.Select(context.Background(), "scan.png")
	require.NoError(t, err)
	assert.Equal(t, 1, runs)
	assert.NoFileExists(t, stale)

	assert.True(t, sum.Completed)
	assert.Equal(t, 1, sum.Images)
	assert.Equal(t, tmp, sum.OutputDir)
	require.Len(t, sum.Records, 2)
	assert.Equal(t, export.FileNames(tmp, "scan", "20240309_140507", 1, region.Foto), sum.Records[0])
	assert.Equal(t, export.FileNames(tmp, "scan", "20240309_140507", 2, region.Text), sum.Records[1])
	for _, r := range sum.Records {
		for _, p := range r.Paths() {
			assert.FileExists(t, p)
		}
	}

	want := "✓ Exported 2 regions from 1 image(s):\n\n" +
		"  Region 1 (FOTO): scan_20240309_140507_region01_foto.png\n" +
		"  Region 2 (TEXT):\n" +
		"    - Image: scan_20240309_140507_region02_text.png\n" +
		"    - Text: scan_20240309_140507_region02_text.txt\n" +
		"\nOutput directory: " + tmp
	assert.Equal(t, want, FormatSummary(sum))
}

func TestSelectCountsAllImages(t *testing.T) {
	var second string
	w, wd := newWorkflow(t, RunnerFunc(func(ctx context.Context, c *session.Controller) (session.Outcome, error) {
		_, err := c.Handle(session.AddImage{Path: second})
		require.NoError(t, err)
		selectRegions(t, c, region.Foto)
		return finish(t, c), nil
	}))
	writeImage(t, filepath.Join(wd, "a.png"), 300, 300)
	second = filepath.Join(wd, "b.png")
	writeImage(t, second, 300, 300)

	sum, err := w.Select(context.Background(), filepath.Join(wd, "a.png"))
	require.NoError(t, err)
	assert.Equal(t, 2, sum.Images)
	require.Len(t, sum.Records, 1)
	assert.Contains(t, FormatSummary(sum), "from 2 image(s)")
}

func TestSelectCancelled(t *testing.T) {
	w, wd := newWorkflow(t, RunnerFunc(func(ctx context.Context, c *session.Controller) (session.Outcome, error) {
		selectRegions(t, c, region.Foto)
		_, err := c.Handle(session.Close{Confirmed: true})
		require.NoError(t, err)
		return c.Outcome(), nil
	}))
	writeImage(t, filepath.Join(wd, "scan.png"), 100, 100)

	sum, err := w.Select(context.Background(), "scan.png")
	require.NoError(t, err)
	assert.False(t, sum.Completed)
	assert.Equal(t, TextCancelled, FormatSummary(sum))
	names, err := ListExported(sum.OutputDir)
	require.NoError(t, err)
	assert.Empty(t, names)
}

func TestSelectPresetMode(t *testing.T) {
	var seen region.Mode
	w, wd := newWorkflow(t, RunnerFunc(func(ctx context.Context, c *session.Controller) (session.Outcome, error) {
		seen = c.Mode()
		_, err := c.Handle(session.Close{Confirmed: true})
		require.NoError(t, err)
		return c.Outcome(), nil
	}))
	w.Mode = region.Text
	writeImage(t, filepath.Join(wd, "scan.png"), 100, 100)

	_, err := w.Select(context.Background(), "scan.png")
	require.NoError(t, err)
	assert.Equal(t, region.Text, seen)
}

func TestSelectErrors(t *testing.T) {
	boom := errors.New("no display")
	w, wd := newWorkflow(t, RunnerFunc(func(context.Context, *session.Controller) (session.Outcome, error) {
		return session.Outcome{}, boom
	}))

	_, err := w.Select(context.Background(), " ")
	assert.ErrorIs(t, err, ErrPathRequired)

	_, err = w.Select(context.Background(), "missing.png")
	assert.ErrorIs(t, err, workdir.ErrNotFound)
	assert.Contains(t, err.Error(), filepath.Join(wd, "missing.png"))

	writeImage(t, filepath.Join(wd, "scan.png"), 100, 100)
	_, err = w.Select(context.Background(), "scan.png")
	assert.ErrorIs(t, err, boom)
}

func TestFormatSummaryNoRegions(t *testing.T) {
	assert.Equal(t, TextNoRegions, FormatSummary(Summary{Completed: true, Images: 1}))
}

func TestListExported(t *testing.T) {
	dir := t.TempDir()
	for _, n := range []string{"b.txt", "a.png", "notes.md", "c.PNG"} {
		require.NoError(t, os.WriteFile(filepath.Join(dir, n), nil, 0o644))
	}
	require.NoError(t, os.Mkdir(filepath.Join(dir, "sub.png"), 0o755))

	names, err := ListExported(dir)
	require.NoError(t, err)
	assert.Equal(t, []string{"a.png", "b.txt", "c.PNG"}, names)
	assert.Equal(t, "Exported files in "+dir+":\n\n  - a.png\n  - b.txt\n  - c.PNG", FormatListing(dir, names))

	names, err = ListExported(filepath.Join(dir, "missing"))
	require.NoError(t, err)
	assert.Equal(t, "Exported files in x:\n\n  (no files found)", FormatListing("x", names))
}
