package main

import (
	"flag"

	"github.com/example/imageselector/internal/logging"
	"github.com/example/imageselector/internal/mcpserver"
	"github.com/example/imageselector/internal/selector"
)

type serveCmd struct {
	*root
	fs *flag.FlagSet
}

func (s *serveCmd) FlagSet() *flag.FlagSet {
	return s.fs
}

func (s *serveCmd) Program() string {
	return s.root.subProgram("serve")
}

func parseServeCmd(args []string, r *root) (*serveCmd, error) {
	fs := flag.NewFlagSet("serve", flag.ExitOnError)
	cmd := &serveCmd{root: r, fs: fs}
	fs.Usage = usageFunc(cmd)
	if err := fs.Parse(args); err != nil {
		return nil, err
	}
	if fs.NArg() > 0 {
		return nil, &UsageError{of: cmd}
	}
	return cmd, nil
}

// Run serves MCP on stdio until the client disconnects. Tool calls that
// open a window wait for the main thread to run it.
func (s *serveCmd) Run() error {
	return runUIFn(s.root, func(runner selector.Runner) error {
		h := &mcpserver.Handlers{Workflow: s.workflow(runner), Log: logging.Named("mcp")}
		s.log.Infof("%s %s serving on stdio", mcpserver.Name, version)
		return mcpserver.New(version, h).Start()
	})
}
