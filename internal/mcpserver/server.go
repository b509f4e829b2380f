// Package mcpserver exposes the selection workflow as MCP tools over stdio.
package mcpserver

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	mcp "trpc.group/trpc-go/trpc-mcp-go"

	"github.com/example/imageselector/internal/logging"
	"github.com/example/imageselector/internal/selector"
	"github.com/example/imageselector/internal/workdir"
)

// Name is the server name announced to clients.
const Name = "image-selector"

// Tool names.
const (
	ToolWorkingDir = "get_working_directory"
	ToolList       = "list_exported_regions"
	ToolSelect     = "select_image_regions"
)

const argImagePath = "image_path"

// Handler is the signature of a tool implementation.
type Handler = func(ctx context.Context, req *mcp.CallToolRequest) (*mcp.CallToolResult, error)

// Tool pairs a tool definition with its handler.
type Tool struct {
	Def     *mcp.Tool
	Handler Handler
}

// Handlers implements the tools on top of a selector.Workflow. Every
// failure is reported as result text; handlers never return an error.
type Handlers struct {
	Workflow *selector.Workflow
	Log      logging.Logger
}

func (h *Handlers) log() logging.Logger { return logging.OrDefault(h.Log) }

func (h *Handlers) serverLog() logging.Logger {
	if h.Log != nil {
		return h.Log
	}
	return logging.Named("mcp")
}

// serverLogger routes the library's log output through logging. Fatal
// messages are logged as errors; the server never exits the process.
type serverLogger struct {
	logging.Logger
}

func (l serverLogger) Fatal(args ...any) { l.Error(args...) }

func (l serverLogger) Fatalf(format string, args ...any) { l.Errorf(format, args...) }

var _ mcp.Logger = serverLogger{}

// Tools returns the tool set in registration order.
func (h *Handlers) Tools() []Tool {
	return []Tool{
		{
			Def: mcp.NewTool(ToolSelect,
				mcp.WithDescription("Open an image or PDF in a window, let the user select foto and text regions, "+
					"and export them as PNG crops with OCR text for text regions. Blocks until the window is closed."),
				mcp.WithString(argImagePath, mcp.Required(),
					mcp.Description("Image or PDF path, absolute or relative to the working directory")),
			),
			Handler: h.SelectRegions,
		},
		{
			Def:     mcp.NewTool(ToolWorkingDir, mcp.WithDescription("Show the working directory used for relative paths and exports")),
			Handler: h.WorkingDirectory,
		},
		{
			Def:     mcp.NewTool(ToolList, mcp.WithDescription("List the files exported by the last selection")),
			Handler: h.ListExported,
		},
	}
}

// New returns a stdio server with every tool registered.
func New(version string, h *Handlers) *mcp.StdioServer {
	server := mcp.NewStdioServer(Name, version,
		mcp.WithStdioServerLogger(serverLogger{h.serverLog()}),
	)
	for _, t := range h.Tools() {
		server.RegisterTool(t.Def, t.Handler)
	}
	return server
}

// SelectRegions opens the selection window for image_path and reports what
// was exported.
func (h *Handlers) SelectRegions(ctx context.Context, req *mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	path, _ := req.Params.Arguments[argImagePath].(string)
	id := uuid.NewString()
	log := h.log()
	log.Infof("select %s: %q", id, path)

	sum, err := h.Workflow.Select(ctx, path)
	switch {
	case errors.Is(err, selector.ErrPathRequired):
		return mcp.NewTextResult("Error: image_path required"), nil
	case errors.Is(err, workdir.ErrNotFound):
		return mcp.NewTextResult("Error: " + err.Error()), nil
	case err != nil:
		log.Errorf("select %s: %v", id, err)
		return mcp.NewTextResult(fmt.Sprintf("Error opening GUI: %v", err)), nil
	}
	log.Infof("select %s: completed=%v exported=%d", id, sum.Completed, len(sum.Records))
	return mcp.NewTextResult(selector.FormatSummary(sum)), nil
}

// WorkingDirectory reports the resolved working directory.
func (h *Handlers) WorkingDirectory(ctx context.Context, req *mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	wd, err := h.Workflow.Resolver.WorkingDir()
	if err != nil {
		return mcp.NewTextResult("Error: " + err.Error()), nil
	}
	return mcp.NewTextResult("Working Directory: " + wd), nil
}

// ListExported lists the .png and .txt files in the tmp directory.
func (h *Handlers) ListExported(ctx context.Context, req *mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	dir, err := h.Workflow.Resolver.TmpDir()
	if err != nil {
		return mcp.NewTextResult("Error: " + err.Error()), nil
	}
	names, err := selector.ListExported(dir)
	if err != nil {
		return mcp.NewTextResult("Error: " + err.Error()), nil
	}
	return mcp.NewTextResult(selector.FormatListing(dir, names)), nil
}
