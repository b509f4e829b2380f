package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

// Environment variables understood by imageselector.
const (
	EnvWorkingDir = "IMAGE_SELECTOR_WORKING_DIR"
	EnvScaleCap   = "IMAGE_SELECTOR_SCALE_CAP"
	EnvOCRLang    = "IMAGE_SELECTOR_OCR_LANG"
	EnvTheme      = "IMAGE_SELECTOR_THEME"
	EnvLogLevel   = "IMAGE_SELECTOR_LOG_LEVEL"
)

// LookupFunc matches os.LookupEnv.
type LookupFunc func(key string) (string, bool)

// LoadDotEnv reads the given .env files (default ".env") into the process
// environment. Variables that are already set win. Missing files are not an
// error.
func LoadDotEnv(files ...string) error {
	if len(files) == 0 {
		files = []string{".env"}
	}
	for _, f := range files {
		if _, err := os.Stat(f); err != nil {
			continue
		}
		if err := godotenv.Load(f); err != nil {
			return fmt.Errorf("load %s: %w", f, err)
		}
	}
	return nil
}

// ApplyEnv overrides cfg from the environment. The working directory variable
// is not copied into cfg; workdir.Resolver reads it directly so it always
// takes precedence over the config file.
func ApplyEnv(cfg *Config, lookup LookupFunc) error {
	get := func(key string) (string, bool) {
		v, ok := lookup(key)
		v = strings.TrimSpace(v)
		return v, ok && v != ""
	}
	if v, ok := get(EnvScaleCap); ok {
		f, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return fmt.Errorf("%s: %w", EnvScaleCap, err)
		}
		cfg.ScaleCap = f
	}
	if v, ok := get(EnvOCRLang); ok {
		cfg.OCRLanguage = v
	}
	if v, ok := get(EnvTheme); ok {
		cfg.Theme = v
	}
	if v, ok := get(EnvLogLevel); ok {
		cfg.LogLevel = v
	}
	return nil
}
