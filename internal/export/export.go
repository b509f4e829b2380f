// Package export writes selected regions to disk as PNG crops, with OCR text
// files for text regions.
package export

import (
	"context"
	"fmt"
	"image"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/disintegration/imaging"

	"github.com/example/imageselector/internal/logging"
	"github.com/example/imageselector/internal/ocr"
	"github.com/example/imageselector/internal/region"
)

// TimestampLayout is shared by every file of one Export call.
const TimestampLayout = "20060102_150405"

// Record describes the files written for one region. Foto regions set File,
// text regions set ImageFile and TextFile.
type Record struct {
	Type      region.Mode
	Region    int
	File      string
	ImageFile string
	TextFile  string
}

// Paths lists the files of the record.
func (r Record) Paths() []string {
	if r.Type == region.Foto {
		return []string{r.File}
	}
	return []string{r.ImageFile, r.TextFile}
}

// Result summarizes an Export call.
type Result struct {
	Success       bool
	ExportedCount int
	Files         []Record
	WorkingDir    string
}

// Exporter writes crops into Dir.
type Exporter struct {
	Dir string
	OCR ocr.Engine
	Log logging.Logger
	Now func() time.Time
}

// New returns an Exporter for dir using engine for text regions.
func New(dir string, engine ocr.Engine, log logging.Logger) *Exporter {
	return &Exporter{Dir: dir, OCR: engine, Log: log, Now: time.Now}
}

// FileNames returns the record for region i (1-based) without touching disk.
func FileNames(dir, base, timestamp string, i int, mode region.Mode) Record {
	prefix := filepath.Join(dir, fmt.Sprintf("%s_%s_region%02d_%s", base, timestamp, i, mode))
	if mode == region.Foto {
		return Record{Type: mode, Region: i, File: prefix + ".png"}
	}
	return Record{Type: mode, Region: i, ImageFile: prefix + ".png", TextFile: prefix + ".txt"}
}

// Export crops every region out of img and writes it to Dir. When img is nil
// the image at sourcePath is opened. Regions are in original pixel
// coordinates; a failing region is logged and skipped.
func (e *Exporter) Export(ctx context.Context, sourcePath string, regions []region.Original, img image.Image) (Result, error) {
	log := logging.OrDefault(e.Log)
	res := Result{Success: true, WorkingDir: e.Dir}
	if len(regions) == 0 {
		return res, nil
	}
	if img == nil {
		var err error
		img, err = imaging.Open(sourcePath)
		if err != nil {
			return Result{}, fmt.Errorf("open source image %s: %w", sourcePath, err)
		}
	}
	if err := os.MkdirAll(e.Dir, 0o755); err != nil {
		return Result{}, fmt.Errorf("create export dir: %w", err)
	}

	now := time.Now
	if e.Now != nil {
		now = e.Now
	}
	timestamp := now().Format(TimestampLayout)
	base := strings.TrimSuffix(filepath.Base(sourcePath), filepath.Ext(sourcePath))

	for i, r := range regions {
		rec := FileNames(e.Dir, base, timestamp, i+1, r.Mode)
		if err := e.write(ctx, sourcePath, img, r, rec); err != nil {
			log.Errorf("export region %d of %s: %v", i+1, sourcePath, err)
			continue
		}
		res.Files = append(res.Files, rec)
	}
	res.ExportedCount = len(res.Files)
	log.Infof("exported %d of %d regions from %s", res.ExportedCount, len(regions), sourcePath)
	return res, nil
}

func (e *Exporter) write(ctx context.Context, sourcePath string, img image.Image, r region.Original, rec Record) error {
	crop := imaging.Crop(img, r.Rect.Image())
	if crop.Bounds().Empty() {
		return fmt.Errorf("region %v lies outside the %v image", r.Rect, img.Bounds().Size())
	}
	if r.Mode == region.Foto {
		return imaging.Save(crop, rec.File)
	}
	if err := imaging.Save(crop, rec.ImageFile); err != nil {
		return err
	}
	text := ocr.Recognize(ctx, e.OCR, crop)
	body := fmt.Sprintf("Text region %d\nImage file: %s\nSource: %s\n\n%s\n", rec.Region, rec.ImageFile, sourcePath, text)
	return os.WriteFile(rec.TextFile, []byte(body), 0o644)
}
