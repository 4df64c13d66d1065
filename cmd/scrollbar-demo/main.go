// scrollbar-demo shows draggable scrollbars in a terminal.
//
// Drag a thumb with the mouse to scroll its list, use the wheel over a list
// (hold the swap modifier to scroll the other axis) and page up/down to
// change the UI scale. The scene comes from a YAML file or the built-in
// demo with one vertical and one horizontal list.
package main

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/spf13/pflag"

	"github.com/xqrs/scrollbar/host"
	"github.com/xqrs/scrollbar/keybind"
	"github.com/xqrs/scrollbar/scene"
)

type options struct {
	scenePath  string
	scale      float64
	cellWidth  float64
	cellHeight float64
	fps        int
	logFile    string
	logLevel   string
	swap       string
	unicode    bool
	noHelp     bool
	watch      bool
}

func main() {
	if err := run(os.Args[1:]); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run(args []string) error {
	var opts options
	flagSet := newFlagSet(&opts)
	if err := flagSet.Parse(args); err != nil {
		if err == pflag.ErrHelp {
			return nil
		}
		return err
	}
	if rest := flagSet.Args(); len(rest) > 0 {
		return fmt.Errorf("unexpected argument: %s", rest[0])
	}

	logger, closeLog, err := newLogger(opts.logFile, opts.logLevel)
	if err != nil {
		return err
	}
	defer closeLog()

	appOptions, err := opts.hostOptions(logger)
	if err != nil {
		return err
	}

	sc, err := loadScene(opts.scenePath)
	if err != nil {
		return err
	}
	logger.Info("scene loaded", "path", opts.scenePath, "nodes", sc.Tree.Len())

	app := host.NewApplication(sc, appOptions...)
	if opts.watch {
		if opts.scenePath == "" {
			return fmt.Errorf("--watch needs --scene")
		}
		stop, err := watchScene(app, opts.scenePath, logger)
		if err != nil {
			return err
		}
		defer stop()
	}
	return app.Run()
}

// watchScene reloads the scene file into app whenever it changes. Files that
// fail to load are logged and the current scene is kept.
func watchScene(app *host.Application, path string, logger *slog.Logger) (func(), error) {
	changes, stop, err := scene.Watch(path, 200*time.Millisecond)
	if err != nil {
		return nil, err
	}
	go func() {
		for range changes {
			sc, err := scene.Load(path)
			if err != nil {
				logger.Warn("scene reload failed", "path", path, "err", err)
				continue
			}
			app.QueueUpdateDraw(func() {
				app.SetScene(sc)
			})
		}
	}()
	return stop, nil
}

func newFlagSet(opts *options) *pflag.FlagSet {
	flagSet := pflag.NewFlagSet("scrollbar-demo", pflag.ContinueOnError)
	flagSet.StringVar(&opts.scenePath, "scene", "", "path to a YAML scene file (default: built-in demo)")
	flagSet.Float64Var(&opts.scale, "scale", 1, "initial UI scale, clamped to [0.25, 3]")
	flagSet.Float64Var(&opts.cellWidth, "cell-width", 8, "physical pixels per terminal cell, horizontally")
	flagSet.Float64Var(&opts.cellHeight, "cell-height", 16, "physical pixels per terminal cell, vertically")
	flagSet.IntVar(&opts.fps, "fps", 30, "frames drawn per second")
	flagSet.StringVar(&opts.logFile, "log-file", "", "append log records to this file (default: discard)")
	flagSet.StringVar(&opts.logLevel, "log-level", "info", "log level: debug, info, warn or error")
	flagSet.StringVar(&opts.swap, "swap-modifier", "ctrl", "modifier that scrolls the other axis (ctrl, alt, shift, meta or none)")
	flagSet.BoolVar(&opts.unicode, "unicode", false, "draw thumbs with standard unicode blocks only")
	flagSet.BoolVar(&opts.noHelp, "no-help", false, "hide the key help status line")
	flagSet.BoolVar(&opts.watch, "watch", false, "reload the --scene file when it changes")
	return flagSet
}

func (o *options) hostOptions(logger *slog.Logger) ([]host.Option, error) {
	if o.cellWidth <= 0 || o.cellHeight <= 0 {
		return nil, fmt.Errorf("cell size must be positive, got %gx%g", o.cellWidth, o.cellHeight)
	}
	if o.fps <= 0 {
		return nil, fmt.Errorf("fps must be positive, got %d", o.fps)
	}
	swap, err := keybind.ParseModifier(o.swap)
	if err != nil {
		return nil, fmt.Errorf("--swap-modifier: %w", err)
	}

	glyphs := host.LegacyComputingGlyphSet()
	if o.unicode {
		glyphs = host.UnicodeGlyphSet()
	}
	return []host.Option{
		host.WithLogger(logger),
		host.WithScale(o.scale),
		host.WithCellSize(o.cellWidth, o.cellHeight),
		host.WithFPS(o.fps),
		host.WithSwapModifier(swap),
		host.WithGlyphs(glyphs),
		host.WithHelp(!o.noHelp),
		host.WithTitle("scrollbar-demo"),
	}, nil
}

func loadScene(path string) (*scene.Scene, error) {
	if path == "" {
		return scene.Default()
	}
	return scene.Load(path)
}

// newLogger returns a text logger writing to path, or discarding records when
// path is empty. The terminal belongs to the UI while the demo runs.
func newLogger(path, level string) (*slog.Logger, func(), error) {
	var lvl slog.Level
	if err := lvl.UnmarshalText([]byte(strings.ToLower(level))); err != nil {
		return nil, nil, fmt.Errorf("invalid log level %q", level)
	}

	var w io.Writer = io.Discard
	closeLog := func() {}
	if path != "" {
		f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to open log file: %w", err)
		}
		w = f
		closeLog = func() { f.Close() }
	}
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: lvl})), closeLog, nil
}
