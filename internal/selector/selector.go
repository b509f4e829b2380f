// Package selector runs one selection session end to end: it prepares the
// export directory, opens the window, and exports what the user selected.
// The CLI and the MCP server share it.
package selector

import (
	"context"
	"errors"
	"fmt"
	"image"
	"strings"
	"time"

	"github.com/example/imageselector/internal/export"
	"github.com/example/imageselector/internal/geometry"
	"github.com/example/imageselector/internal/logging"
	"github.com/example/imageselector/internal/notify"
	"github.com/example/imageselector/internal/ocr"
	"github.com/example/imageselector/internal/pdfextract"
	"github.com/example/imageselector/internal/region"
	"github.com/example/imageselector/internal/session"
	"github.com/example/imageselector/internal/workdir"
)

// ErrPathRequired is returned by Select for an empty path.
var ErrPathRequired = errors.New("image_path required")

// Runner shows the selection window for c and blocks until it closes.
type Runner interface {
	Run(ctx context.Context, c *session.Controller) (session.Outcome, error)
}

// RunnerFunc adapts a function to Runner.
type RunnerFunc func(ctx context.Context, c *session.Controller) (session.Outcome, error)

// Run calls f.
func (f RunnerFunc) Run(ctx context.Context, c *session.Controller) (session.Outcome, error) {
	return f(ctx, c)
}

// Summary is the result of Select.
type Summary struct {
	// Completed is false when the user closed the window without finishing.
	Completed bool
	// Images counts every image of the session, with or without regions.
	Images    int
	Records   []export.Record
	OutputDir string
}

// Workflow holds what a session needs besides the user.
type Workflow struct {
	Resolver *workdir.Resolver
	Runner   Runner
	OCR      ocr.Engine
	ScaleCap float64
	Canvas   image.Point
	// Mode preselects the region mode; empty keeps the session default.
	Mode     region.Mode
	Notifier *notify.Notifier
	Log      logging.Logger
	// Now stamps export file names; nil means time.Now.
	Now func() time.Time
}

func (w *Workflow) log() logging.Logger { return logging.OrDefault(w.Log) }

// Select opens path in a new session and exports the regions once the user
// finishes. The tmp directory is emptied before the window opens.
func (w *Workflow) Select(ctx context.Context, path string) (Summary, error) {
	if strings.TrimSpace(path) == "" {
		return Summary{}, ErrPathRequired
	}
	abs, err := w.Resolver.ResolveExisting(path)
	if err != nil {
		return Summary{}, err
	}
	wd, err := w.Resolver.WorkingDir()
	if err != nil {
		return Summary{}, err
	}
	tmp, err := w.Resolver.TmpDir()
	if err != nil {
		return Summary{}, err
	}
	if err := w.Resolver.CleanupTmp(); err != nil {
		return Summary{}, err
	}

	log := w.log()
	c := w.newController(wd, tmp)
	if _, err := c.Handle(session.AddImage{Path: abs}); err != nil {
		return Summary{}, fmt.Errorf("add %s: %w", abs, err)
	}
	if w.Mode != "" {
		if _, err := c.Handle(session.ModeSelected{Mode: w.Mode}); err != nil {
			return Summary{}, err
		}
	}
	log.Infof("session started for %s", abs)
	if w.Runner == nil {
		return Summary{}, errors.New("no session runner")
	}

	out, err := w.Runner.Run(ctx, c)
	if err != nil {
		return Summary{}, err
	}
	if !out.Completed {
		log.Info("session cancelled")
		return Summary{OutputDir: tmp}, nil
	}
	return w.export(ctx, out, tmp)
}

func (w *Workflow) newController(wd, tmp string) *session.Controller {
	limit := w.ScaleCap
	if limit <= 0 {
		limit = geometry.DefaultScaleCap
	}
	opts := []session.Option{
		session.WithExtractor(pdfextract.New(tmp, w.Log)),
		session.WithWorkingDir(wd),
		session.WithScaleCap(limit),
		session.WithLogger(w.Log),
	}
	if w.Canvas.X > 0 && w.Canvas.Y > 0 {
		opts = append(opts, session.WithCanvas(w.Canvas))
	}
	return session.NewController(opts...)
}

func (w *Workflow) export(ctx context.Context, out session.Outcome, tmp string) (Summary, error) {
	sum := Summary{Completed: true, Images: len(out.Images), OutputDir: tmp}
	exp := export.New(tmp, w.OCR, w.Log)
	if w.Now != nil {
		exp.Now = w.Now
	}
	var preview image.Image
	for _, e := range out.Images {
		if len(e.Regions) == 0 {
			continue
		}
		originals, err := e.Originals()
		if err != nil {
			return Summary{}, fmt.Errorf("map regions of %s: %w", e.Name(), err)
		}
		// Pixels holds the rotated buffer; the base name follows the file
		// the user picked, not the extracted PDF image.
		res, err := exp.Export(ctx, e.OriginalPath, originals, e.Pixels)
		if err != nil {
			return Summary{}, err
		}
		if preview == nil && res.ExportedCount > 0 {
			preview = e.Pixels
		}
		sum.Records = append(sum.Records, res.Files...)
	}
	if len(sum.Records) > 0 {
		w.Notifier.Export(fmt.Sprintf("%d regions to %s", len(sum.Records), tmp), preview)
	}
	return sum, nil
}
