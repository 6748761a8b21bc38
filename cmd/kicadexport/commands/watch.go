package commands

import (
	"context"
	"time"

	"git.home.luguber.info/inful/kicadexport/internal/config"
	ferrors "git.home.luguber.info/inful/kicadexport/internal/foundation/errors"
	"git.home.luguber.info/inful/kicadexport/internal/watch"
)

// WatchCmd implements the 'watch' command.
type WatchCmd struct {
	ExportCmd `embed:""`

	Debounce time.Duration `name:"debounce" default:"2s" help:"Quiet period after the last change before re-running"`
}

func (w *WatchCmd) Run(g *Global, root *CLI) error {
	if root.GenerateExample {
		return writeExample(g.Stdout, config.ExampleFileName)
	}
	if root.ConfigFile == "" {
		return ferrors.ValidationError("watch requires --config-file").Build()
	}

	// The first load fixes the watched directories; each run reloads.
	cfg, err := config.Load(root.ConfigFile)
	if err != nil {
		return err
	}

	opts := watch.Options{
		ConfigPath: root.ConfigFile,
		ProjectDir: cfg.ProjectDir,
		OutputDir:  cfg.OutputDir,
		Debounce:   w.Debounce,
	}
	return watch.Run(g.Ctx, opts, func(ctx context.Context) error {
		_, err := w.runOnce(ctx, g.Stdout, root.ConfigFile)
		return err
	})
}
