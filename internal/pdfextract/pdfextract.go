// Package pdfextract turns the first page of a PDF into an image file the
// selector can display.
package pdfextract

import (
	"errors"
	"fmt"
	"image"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/disintegration/imaging"
	"github.com/gen2brain/go-fitz"
	"github.com/pdfcpu/pdfcpu/pkg/api"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/model"

	"github.com/example/imageselector/internal/logging"
)

// RenderDPI rasterizes at twice the 72 DPI PDF user space.
const RenderDPI = 144.0

// ErrNoImage is returned by callers that require a result.
var ErrNoImage = errors.New("could not extract image from PDF")

// Document is the part of a fitz document the extractor uses.
type Document interface {
	NumPage() int
	ImageDPI(pageNumber int, dpi float64) (*image.RGBA, error)
	Close() error
}

var openDocument = func(path string) (Document, error) {
	doc, err := fitz.New(path)
	if err != nil {
		return nil, err
	}
	return doc, nil
}

// extractEmbedded writes the raster images of page 1 into dir untouched.
var extractEmbedded = func(pdfPath, dir string) error {
	return api.ExtractImagesFile(pdfPath, dir, []string{"1"}, model.NewDefaultConfiguration())
}

// IsPDF reports whether path has a .pdf extension in any case.
func IsPDF(path string) bool {
	return strings.EqualFold(filepath.Ext(path), ".pdf")
}

// Extractor writes extracted pages into OutDir.
type Extractor struct {
	OutDir string
	Log    logging.Logger
}

// New returns an Extractor writing into outDir.
func New(outDir string, log logging.Logger) *Extractor {
	return &Extractor{OutDir: outDir, Log: log}
}

// Extract returns the path of an image for the first page of pdfPath. The
// first embedded raster image is copied verbatim as <base>_extracted.png;
// without one the page is rendered as <base>_rendered.png. Failures are
// logged and reported as false.
func (e *Extractor) Extract(pdfPath string) (string, bool) {
	out, err := e.extract(pdfPath)
	if err != nil {
		logging.OrDefault(e.Log).Errorf("extract image from PDF %s: %v", pdfPath, err)
		return "", false
	}
	return out, out != ""
}

// ExtractFile is Extract for callers that treat no result as fatal.
func (e *Extractor) ExtractFile(pdfPath string) (string, error) {
	out, ok := e.Extract(pdfPath)
	if !ok {
		return "", fmt.Errorf("%w: %s", ErrNoImage, pdfPath)
	}
	return out, nil
}

func (e *Extractor) extract(pdfPath string) (string, error) {
	doc, err := openDocument(pdfPath)
	if err != nil {
		return "", fmt.Errorf("open: %w", err)
	}
	defer doc.Close()

	if doc.NumPage() == 0 {
		return "", nil
	}
	if err := os.MkdirAll(e.OutDir, 0o755); err != nil {
		return "", fmt.Errorf("create output dir: %w", err)
	}
	base := strings.TrimSuffix(filepath.Base(pdfPath), filepath.Ext(pdfPath))

	data, err := e.firstEmbedded(pdfPath)
	if err != nil {
		return "", err
	}
	if data != nil {
		out := filepath.Join(e.OutDir, base+"_extracted.png")
		if err := os.WriteFile(out, data, 0o644); err != nil {
			return "", fmt.Errorf("write extracted image: %w", err)
		}
		return out, nil
	}

	page, err := doc.ImageDPI(0, RenderDPI)
	if err != nil {
		return "", fmt.Errorf("render page 1: %w", err)
	}
	out := filepath.Join(e.OutDir, base+"_rendered.png")
	if err := imaging.Save(page, out); err != nil {
		return "", fmt.Errorf("save rendered page: %w", err)
	}
	return out, nil
}

// firstEmbedded returns the bytes of the first image on page 1, or nil when
// the page has none.
func (e *Extractor) firstEmbedded(pdfPath string) ([]byte, error) {
	scratch, err := os.MkdirTemp("", "imageselector-pdf-*")
	if err != nil {
		return nil, fmt.Errorf("scratch dir: %w", err)
	}
	defer os.RemoveAll(scratch)

	if err := extractEmbedded(pdfPath, scratch); err != nil {
		// pdfcpu rejects some files fitz can still render.
		logging.OrDefault(e.Log).Warnf("embedded image scan of %s failed, rendering instead: %v", pdfPath, err)
		return nil, nil
	}
	entries, err := os.ReadDir(scratch)
	if err != nil {
		return nil, fmt.Errorf("read scratch dir: %w", err)
	}
	var names []string
	for _, entry := range entries {
		if entry.Type().IsRegular() {
			names = append(names, entry.Name())
		}
	}
	if len(names) == 0 {
		return nil, nil
	}
	sort.Strings(names)
	data, err := os.ReadFile(filepath.Join(scratch, names[0]))
	if err != nil {
		return nil, fmt.Errorf("read embedded image: %w", err)
	}
	return data, nil
}
