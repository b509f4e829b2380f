// Package workdir resolves the output root and manages its tmp export
// directory.
package workdir

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/example/imageselector/internal/config"
	"github.com/example/imageselector/internal/logging"
)

// TmpName is the export directory below the working directory.
const TmpName = "tmp"

// InputName is the conventional inbox offered when asking for a file.
const InputName = "Eingang"

// ErrNotFound reports a missing input file.
var ErrNotFound = errors.New("image not found")

// Resolver locates the working directory. The environment variable wins over
// Fallback, which wins over the process working directory.
type Resolver struct {
	Lookup   config.LookupFunc
	Fallback string
	Log      logging.Logger
}

// New returns a Resolver reading the process environment.
func New(fallback string, log logging.Logger) *Resolver {
	return &Resolver{Lookup: os.LookupEnv, Fallback: fallback, Log: log}
}

func (r *Resolver) logger() logging.Logger {
	if r == nil {
		return logging.Default
	}
	return logging.OrDefault(r.Log)
}

// WorkingDir returns the working directory, creating it if needed.
func (r *Resolver) WorkingDir() (string, error) {
	dir := ""
	lookup := os.LookupEnv
	if r != nil && r.Lookup != nil {
		lookup = r.Lookup
	}
	if v, ok := lookup(config.EnvWorkingDir); ok && v != "" {
		dir = v
	} else if r != nil && r.Fallback != "" {
		dir = r.Fallback
	} else {
		wd, err := os.Getwd()
		if err != nil {
			return "", fmt.Errorf("get cwd: %w", err)
		}
		dir = wd
	}
	abs, err := filepath.Abs(dir)
	if err != nil {
		return "", fmt.Errorf("resolve working dir %s: %w", dir, err)
	}
	if err := os.MkdirAll(abs, 0o755); err != nil {
		return "", fmt.Errorf("create working dir: %w", err)
	}
	return abs, nil
}

// TmpDir returns <working dir>/tmp, creating it if needed.
func (r *Resolver) TmpDir() (string, error) {
	wd, err := r.WorkingDir()
	if err != nil {
		return "", err
	}
	dir := filepath.Join(wd, TmpName)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("create tmp dir: %w", err)
	}
	return dir, nil
}

// CleanupTmp removes the regular files directly inside the tmp directory.
// Subdirectories are left alone. A file that cannot be removed is logged and
// skipped.
func (r *Resolver) CleanupTmp() error {
	dir, err := r.TmpDir()
	if err != nil {
		return err
	}
	entries, err := os.ReadDir(dir)
	if err != nil {
		return fmt.Errorf("read tmp dir: %w", err)
	}
	for _, e := range entries {
		if !e.Type().IsRegular() {
			continue
		}
		path := filepath.Join(dir, e.Name())
		if err := os.Remove(path); err != nil {
			r.logger().Errorf("cleanup: remove %s: %v", path, err)
		}
	}
	return nil
}

// InputDir is <working dir>/Eingang when it exists, otherwise the working
// directory.
func (r *Resolver) InputDir() (string, error) {
	wd, err := r.WorkingDir()
	if err != nil {
		return "", err
	}
	in := filepath.Join(wd, InputName)
	if fi, err := os.Stat(in); err == nil && fi.IsDir() {
		return in, nil
	}
	return wd, nil
}

// Resolve makes path absolute against the working directory.
func (r *Resolver) Resolve(path string) (string, error) {
	if filepath.IsAbs(path) {
		return path, nil
	}
	wd, err := r.WorkingDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(wd, path), nil
}

// ResolveExisting resolves path and checks that it exists.
func (r *Resolver) ResolveExisting(path string) (string, error) {
	abs, err := r.Resolve(path)
	if err != nil {
		return "", err
	}
	if _, err := os.Stat(abs); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return abs, fmt.Errorf("%w: %s", ErrNotFound, abs)
		}
		return abs, err
	}
	return abs, nil
}
