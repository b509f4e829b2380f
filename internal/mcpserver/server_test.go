package mcpserver

import (
	"context"
	"errors"
	"fmt"
	"image"
	"os"
	"path/filepath"
	"testing"

	"github.com/disintegration/imaging"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	mcp "trpc.group/trpc-go/trpc-mcp-go"

	"github.com/example/imageselector/internal/config"
	"github.com/example/imageselector/internal/logging"
	"github.com/example/imageselector/internal/selector"
	"github.com/example/imageselector/internal/session"
	"github.com/example/imageselector/internal/workdir"
)

func newHandlers(t *testing.T, run selector.RunnerFunc) (*Handlers, string) {
	t.Helper()
	wd := t.TempDir()
	env := map[string]string{config.EnvWorkingDir: wd}
	wf := &selector.Workflow{
		Resolver: &workdir.Resolver{
			Lookup: func(k string) (string, bool) { v, ok := env[k]; return v, ok },
			Log:    logging.Nop,
		},
		Runner: run,
		Log:    logging.Nop,
	}
	return &Handlers{Workflow: wf, Log: logging.Nop}, wd
}

func call(t *testing.T, h Handler, args map[string]any) string {
	t.Helper()
	req := &mcp.CallToolRequest{}
	req.Params.Arguments = args
	res, err := h(context.Background(), req)
	require.NoError(t, err)
	require.NotNil(t, res)
	require.Len(t, res.Content, 1)
	text, ok := res.Content[0].(mcp.TextContent)
	require.True(t, ok, "unexpected content %T", res.Content[0])
	return text.Text
}

func TestTools(t *testing.T) {
	h, _ := newHandlers(t, nil)
	var names []string
	for _, tool := range h.Tools() {
		require.NotNil(t, tool.Handler)
		names = append(names, tool.Def.Name)
	}
	assert.Equal(t, []string{ToolSelect, ToolWorkingDir, ToolList}, names)
}

func TestWorkingDirectory(t *testing.T) {
	h, wd := newHandlers(t, nil)
	assert.Equal(t, "Working Directory: "+wd, call(t, h.WorkingDirectory, nil))
}

func TestListExported(t *testing.T) {
	h, wd := newHandlers(t, nil)
	tmp := filepath.Join(wd, workdir.TmpName)
	assert.Equal(t, "Exported files in "+tmp+":\n\n  (no files found)", call(t, h.ListExported, nil))

	require.NoError(t, os.WriteFile(filepath.Join(tmp, "b_region01_text.txt"), nil, 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(tmp, "a_region01_foto.png"), nil, 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(tmp, "ignore.json"), nil, 0o644))
	assert.Equal(t, "Exported files in "+tmp+":\n\n  - a_region01_foto.png\n  - b_region01_text.txt",
		call(t, h.ListExported, nil))
}

func TestSelectRegionsErrors(t *testing.T) {
	h, wd := newHandlers(t, func(context.Context, *session.Controller) (session.Outcome, error) {
		return session.Outcome{}, errors.New("no display")
	})

	assert.Equal(t, "Error: image_path required", call(t, h.SelectRegions, nil))
	assert.Equal(t, "Error: image_path required", call(t, h.SelectRegions, map[string]any{argImagePath: ""}))
	assert.Equal(t, "Error: image not found: "+filepath.Join(wd, "nope.png"),
		call(t, h.SelectRegions, map[string]any{argImagePath: "nope.png"}))

	require.NoError(t, imaging.Save(image.NewNRGBA(image.Rect(0, 0, 50, 50)), filepath.Join(wd, "a.png")))
	assert.Equal(t, "Error opening GUI: no display", call(t, h.SelectRegions, map[string]any{argImagePath: "a.png"}))
}

func TestSelectRegionsOutcomes(t *testing.T) {
	var finish bool
	h, wd := newHandlers(t, func(ctx context.Context, c *session.Controller) (session.Outcome, error) {
		if finish {
			for _, ev := range []session.Event{
				session.PointerDown{X: 5, Y: 5},
				session.PointerUp{X: 40, Y: 40},
				session.SaveSelection{},
				session.Finish{Confirmed: true},
			} {
				_, err := c.Handle(ev)
				require.NoError(t, err)
			}
		} else {
			c.Cancel()
		}
		return c.Outcome(), nil
	})
	require.NoError(t, imaging.Save(image.NewNRGBA(image.Rect(0, 0, 80, 60)), filepath.Join(wd, "scan.png")))
	args := map[string]any{argImagePath: "scan.png"}

	assert.Equal(t, selector.TextCancelled, call(t, h.SelectRegions, args))

	finish = true
	got := call(t, h.SelectRegions, args)
	assert.Contains(t, got, "✓ Exported 1 regions from 1 image(s):\n\n  Region 1 (FOTO): scan_")
	assert.Contains(t, got, "\nOutput directory: "+filepath.Join(wd, workdir.TmpName))
}

type recordLog struct {
	logging.Logger
	errors []string
}

func (r *recordLog) Errorf(format string, args ...any) {
	r.errors = append(r.errors, fmt.Sprintf(format, args...))
}

func TestServerLoggerFatalLogsError(t *testing.T) {
	rec := &recordLog{Logger: logging.Nop}
	var l mcp.Logger = serverLogger{rec}
	l.Fatalf("read %s: %v", "stdin", "closed")
	assert.Equal(t, []string{"read stdin: closed"}, rec.errors)

	h := &Handlers{Log: rec}
	assert.Same(t, rec, h.serverLog())
	assert.NotNil(t, (&Handlers{}).serverLog())
}
