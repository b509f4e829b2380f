package selector

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/example/imageselector/internal/region"
)

// Result texts shared by the CLI and the MCP tools.
const (
	TextCancelled = "Selection cancelled - no regions exported"
	TextNoRegions = "No regions selected for export"
	textNoFiles   = "  (no files found)"
)

// FormatSummary renders s the way the select tool reports it.
func FormatSummary(s Summary) string {
	if !s.Completed {
		return TextCancelled
	}
	if len(s.Records) == 0 {
		return TextNoRegions
	}
	var sb strings.Builder
	fmt.Fprintf(&sb, "✓ Exported %d regions from %d image(s):\n\n", len(s.Records), s.Images)
	for _, r := range s.Records {
		if r.Type == region.Foto {
			fmt.Fprintf(&sb, "  Region %d (%s): %s\n", r.Region, r.Type.Label(), filepath.Base(r.File))
			continue
		}
		fmt.Fprintf(&sb, "  Region %d (%s):\n", r.Region, r.Type.Label())
		fmt.Fprintf(&sb, "    - Image: %s\n", filepath.Base(r.ImageFile))
		fmt.Fprintf(&sb, "    - Text: %s\n", filepath.Base(r.TextFile))
	}
	fmt.Fprintf(&sb, "\nOutput directory: %s", s.OutputDir)
	return sb.String()
}

// ListExported returns the sorted names of the .png and .txt files in dir.
// A missing directory has no files.
func ListExported(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("read %s: %w", dir, err)
	}
	var names []string
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		switch strings.ToLower(filepath.Ext(e.Name())) {
		case ".png", ".txt":
			names = append(names, e.Name())
		}
	}
	return names, nil
}

// FormatListing renders the list tool's reply for dir.
func FormatListing(dir string, names []string) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "Exported files in %s:\n\n", dir)
	if len(names) == 0 {
		sb.WriteString(textNoFiles)
		return sb.String()
	}
	for i, n := range names {
		if i > 0 {
			sb.WriteString("\n")
		}
		sb.WriteString("  - " + n)
	}
	return sb.String()
}
