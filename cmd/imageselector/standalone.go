package main

import (
	"bufio"
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"strings"

	"github.com/example/imageselector/internal/clipboard"
	"github.com/example/imageselector/internal/region"
	"github.com/example/imageselector/internal/selector"
)

type standaloneCmd struct {
	*root
	fs          *flag.FlagSet
	path        string
	copySummary bool
	mode        region.Mode
}

func (s *standaloneCmd) FlagSet() *flag.FlagSet {
	return s.fs
}

func (s *standaloneCmd) Program() string {
	return s.root.subProgram("standalone")
}

func parseStandaloneCmd(args []string, r *root) (*standaloneCmd, error) {
	fs := flag.NewFlagSet("standalone", flag.ExitOnError)
	cmd := &standaloneCmd{root: r, fs: fs}
	fs.Usage = usageFunc(cmd)
	fs.BoolVar(&cmd.copySummary, "copy-summary", false, "copy the export summary to the clipboard")
	modeName := fs.String("mode", "", "initial region mode: foto or text")
	if err := fs.Parse(args); err != nil {
		return nil, err
	}
	if *modeName != "" {
		m, err := region.ParseMode(*modeName)
		if err != nil {
			return nil, err
		}
		cmd.mode = m
	}
	if fs.NArg() > 1 {
		return nil, &UsageError{of: cmd}
	}
	cmd.path = fs.Arg(0)
	return cmd, nil
}

func (s *standaloneCmd) Run() error {
	path := s.path
	if path == "" {
		dir, err := s.resolver.InputDir()
		if err != nil {
			return err
		}
		if path, err = promptPath(s.stdin, s.stdout, dir); err != nil {
			return err
		}
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	var sum selector.Summary
	err := runUIFn(s.root, func(runner selector.Runner) error {
		var err error
		wf := s.workflow(runner)
		wf.Mode = s.mode
		sum, err = wf.Select(ctx, path)
		return err
	})
	if err != nil {
		return fmt.Errorf("select regions: %w", err)
	}
	text := selector.FormatSummary(sum)
	fmt.Fprintln(s.stdout, text)
	if s.copySummary && len(sum.Records) > 0 {
		if err := clipboard.WriteText(text); err != nil {
			fmt.Fprintf(s.stderr, "warning: copy summary: %v\n", err)
		} else {
			s.notifier.Copy("export summary")
		}
	}
	return nil
}

var errNoPath = errors.New("no image path given")

// promptPath asks for a file on out and reads one line from in. Relative
// answers are joined onto dir.
func promptPath(in io.Reader, out io.Writer, dir string) (string, error) {
	fmt.Fprintf(out, "Image or PDF to open (relative to %s): ", dir)
	line, err := bufio.NewReader(in).ReadString('\n')
	if err != nil && !errors.Is(err, io.EOF) {
		return "", err
	}
	line = strings.Trim(strings.TrimSpace(line), `"'`)
	if line == "" {
		return "", errNoPath
	}
	if !filepath.IsAbs(line) {
		line = filepath.Join(dir, line)
	}
	return line, nil
}
