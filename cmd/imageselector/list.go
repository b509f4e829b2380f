package main

import (
	"flag"
	"fmt"

	"github.com/example/imageselector/internal/selector"
)

type listCmd struct {
	*root
	fs *flag.FlagSet
}

func (l *listCmd) FlagSet() *flag.FlagSet {
	return l.fs
}

func (l *listCmd) Program() string {
	return l.root.subProgram("list")
}

func parseListCmd(args []string, r *root) (*listCmd, error) {
	fs := flag.NewFlagSet("list", flag.ExitOnError)
	cmd := &listCmd{root: r, fs: fs}
	fs.Usage = usageFunc(cmd)
	if err := fs.Parse(args); err != nil {
		return nil, err
	}
	return cmd, nil
}

func (l *listCmd) Run() error {
	dir, err := l.resolver.TmpDir()
	if err != nil {
		return err
	}
	names, err := selector.ListExported(dir)
	if err != nil {
		return err
	}
	fmt.Fprintln(l.stdout, selector.FormatListing(dir, names))
	return nil
}

type workdirCmd struct {
	*root
}

func (w *workdirCmd) Run() error {
	wd, err := w.resolver.WorkingDir()
	if err != nil {
		return err
	}
	fmt.Fprintf(w.stdout, "Working Directory: %s\n", wd)
	return nil
}
