package commands

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/alecthomas/kong"

	"git.home.luguber.info/inful/kicadexport/internal/config"
)

// Global carries process-wide state into command Run methods.
type Global struct {
	Ctx    context.Context
	Stdout io.Writer
	Stderr io.Writer
}

// CLI definition & global flags.
type CLI struct {
	ConfigFile      string           `name:"config-file" short:"c" help:"Path to the YAML configuration file"`
	GenerateExample bool             `name:"generate-example" help:"Generate an example YAML configuration file (${example_file})"`
	Verbose         bool             `short:"v" help:"Enable verbose logging"`
	LogFormat       string           `name:"log-format" enum:"text,json" default:"text" help:"Log format (text|json)"`
	Version         kong.VersionFlag `name:"version" help:"Show version and exit"`

	Export ExportCmd `cmd:"" default:"withargs" help:"Export fabrication, assembly and BOM outputs (default)"`
	Init   InitCmd   `cmd:"" help:"Write an example configuration file"`
	Watch  WatchCmd  `cmd:"" help:"Re-run the export when the configuration or project files change"`
}

// AfterApply runs after flag parsing; setup logging once.
// nolint:unparam // AfterApply currently never returns an error.
func (c *CLI) AfterApply() error {
	slog.SetDefault(NewLogger(os.Stderr, c.Verbose, c.LogFormat))
	return nil
}

// NewLogger builds the process logger.
func NewLogger(w io.Writer, verbose bool, format string) *slog.Logger {
	level := slog.LevelInfo
	if verbose {
		level = slog.LevelDebug
	}
	opts := &slog.HandlerOptions{Level: level}
	if format == "json" {
		return slog.New(slog.NewJSONHandler(w, opts))
	}
	return slog.New(slog.NewTextHandler(w, opts))
}

// writeExample writes the example configuration to path and tells the user.
func writeExample(stdout io.Writer, path string) error {
	if err := config.WriteExample(path); err != nil {
		return err
	}
	_, _ = fmt.Fprintf(stdout, "Example YAML configuration file '%s' generated.\n", path)
	return nil
}
