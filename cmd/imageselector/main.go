package main

import (
	"errors"
	"flag"
	"fmt"
	"image"
	"io"
	"os"
	"runtime"
	"strings"

	"github.com/example/imageselector/internal/appstate"
	"github.com/example/imageselector/internal/config"
	"github.com/example/imageselector/internal/logging"
	"github.com/example/imageselector/internal/notify"
	"github.com/example/imageselector/internal/ocr"
	"github.com/example/imageselector/internal/selector"
	"github.com/example/imageselector/internal/session"
	"github.com/example/imageselector/internal/theme"
	"github.com/example/imageselector/internal/workdir"
)

var (
	version = "dev"
	commit  = ""
	date    = ""
)

// The window toolkit must own the main OS thread.
func init() {
	runtime.LockOSThread()
}

type runnable interface{ Run() error }

type root struct {
	fs      *flag.FlagSet
	program string

	stdin  io.Reader
	stdout io.Writer
	stderr io.Writer

	configPath   string
	exportAlerts bool
	copyAlerts   bool
	themeName    string
	logLevel     string
	scaleCap     float64

	config      *config.Config
	activeTheme *theme.Theme
	notifier    *notify.Notifier
	resolver    *workdir.Resolver
	log         logging.Logger
}

func (r *root) Program() string {
	return r.program
}

func (r *root) FlagSet() *flag.FlagSet {
	return r.fs
}

func newRoot() *root {
	r := &root{
		fs:      flag.NewFlagSet("imageselector", flag.ExitOnError),
		program: "imageselector",
		stdin:   os.Stdin,
		stdout:  os.Stdout,
		stderr:  os.Stderr,
	}
	r.fs.StringVar(&r.configPath, "config", "", "path to the config file")
	r.fs.BoolVar(&r.exportAlerts, "notify-export", false, "show a desktop notification after exporting regions")
	r.fs.BoolVar(&r.copyAlerts, "notify-copy", false, "show a desktop notification after copying to the clipboard")
	// Precedence: CLI > Env > Config > Default. Empty or zero flags fall through.
	r.fs.StringVar(&r.themeName, "theme", "", "color theme to use (default, dark, high_contrast)")
	r.fs.StringVar(&r.logLevel, "log-level", "", "log level: debug, info, warn or error")
	r.fs.Float64Var(&r.scaleCap, "scale-cap", 0, "largest display scale, 1 disables upscaling")
	r.fs.Usage = usageFunc(r)
	return r
}

// setup loads the config and everything derived from it. Flags given on the
// command line win over the config file.
func (r *root) setup() error {
	cfg, err := config.NewLoader(version, r.configPath).Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	set := map[string]bool{}
	r.fs.Visit(func(f *flag.Flag) { set[f.Name] = true })
	if !set["notify-export"] {
		r.exportAlerts = cfg.Notify.Export
	}
	if r.scaleCap > 0 {
		cfg.ScaleCap = r.scaleCap
	} else if set["scale-cap"] {
		return fmt.Errorf("-scale-cap must be positive, got %v", r.scaleCap)
	}
	if r.logLevel != "" {
		cfg.LogLevel = r.logLevel
	}
	if r.themeName != "" {
		cfg.Theme = r.themeName
	}
	r.config = cfg

	logging.SetLevel(cfg.LogLevel)
	if r.log == nil {
		r.log = logging.Default
	}
	r.activeTheme = r.loadTheme(cfg.Theme)
	r.resolver = workdir.New(cfg.WorkingDir, logging.Named("workdir"))
	r.notifier = notify.New(notify.LoadPreferences(os.LookupEnv), logging.Named("notify"))
	r.notifier.Enable(notify.EventExport, r.exportAlerts)
	r.notifier.Enable(notify.EventCopy, r.copyAlerts)
	return nil
}

func (r *root) loadTheme(name string) *theme.Theme {
	if t, ok := r.config.Themes[name]; ok {
		return t
	}
	t, err := theme.NewLoader().Load(name)
	if err != nil {
		if name != "" && name != "default" {
			fmt.Fprintf(r.stderr, "warning: failed to load theme '%s': %v. using default.\n", name, err)
		}
		return theme.Default()
	}
	return t
}

func (r *root) workflow(runner selector.Runner) *selector.Workflow {
	return &selector.Workflow{
		Resolver: r.resolver,
		Runner:   runner,
		OCR:      ocr.New(r.config.OCRLanguage),
		ScaleCap: r.config.ScaleCap,
		Canvas:   image.Pt(r.config.CanvasWidth, r.config.CanvasHeight),
		Notifier: r.notifier,
		Log:      logging.Named("selector"),
	}
}

func (r *root) newState(c *session.Controller) *appstate.AppState {
	opts := []appstate.Option{
		appstate.WithTheme(r.activeTheme),
		appstate.WithLogger(logging.Named("ui")),
		appstate.WithVersion(version),
		appstate.WithNotifier(r.notifier),
	}
	if dir, err := r.resolver.InputDir(); err == nil {
		opts = append(opts, appstate.WithInputDir(dir))
	}
	return appstate.New(c, opts...)
}

func (r *root) Run(args []string) error {
	if err := r.fs.Parse(args); err != nil {
		return err
	}
	if r.fs.NArg() < 1 {
		return &UsageError{of: r}
	}
	if err := r.setup(); err != nil {
		return err
	}

	cmdName := r.fs.Arg(0)
	subArgs := r.fs.Args()[1:]

	var (
		cmd runnable
		err error
	)
	switch cmdName {
	case "standalone":
		cmd, err = parseStandaloneCmd(subArgs, r)
	case "serve":
		cmd, err = parseServeCmd(subArgs, r)
	case "list":
		cmd, err = parseListCmd(subArgs, r)
	case "workdir":
		cmd = &workdirCmd{root: r}
	case "config":
		cmd, err = parseConfigCmd(subArgs, r)
	case "version":
		cmd = &versionCmd{r: r}
	default:
		err = &UsageError{of: r}
	}
	if err != nil {
		return err
	}
	return cmd.Run()
}

func (r *root) subProgram(name string) string {
	return strings.TrimSpace(strings.Join([]string{r.program, name}, " "))
}

func main() {
	if err := config.LoadDotEnv(); err != nil {
		fmt.Fprintf(os.Stderr, "warning: %v\n", err)
	}
	r := newRoot()
	if err := r.Run(os.Args[1:]); err != nil {
		var uerr *UsageError
		if errors.As(err, &uerr) {
			fmt.Fprintln(os.Stderr, uerr.Error())
			os.Exit(2)
		}
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
