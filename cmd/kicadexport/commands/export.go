package commands

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	prom "github.com/prometheus/client_golang/prometheus"

	"git.home.luguber.info/inful/kicadexport/internal/config"
	"git.home.luguber.info/inful/kicadexport/internal/console"
	"git.home.luguber.info/inful/kicadexport/internal/export"
	ferrors "git.home.luguber.info/inful/kicadexport/internal/foundation/errors"
	"git.home.luguber.info/inful/kicadexport/internal/kicad"
	"git.home.luguber.info/inful/kicadexport/internal/logfields"
	"git.home.luguber.info/inful/kicadexport/internal/metrics"
)

// MissingConfigMessage is printed when no configuration file was given.
const MissingConfigMessage = "Please provide a YAML configuration file with the --config-file parameter."

// ExportCmd implements the default 'export' command.
type ExportCmd struct {
	FailFast    bool   `name:"fail-fast" help:"Skip the remaining steps after the first failure"`
	Parallel    bool   `name:"parallel" help:"Run the export steps concurrently"`
	DryRun      bool   `name:"dry-run" help:"Print the kicad-cli commands without running them or touching the output directory"`
	Report      string `name:"report" help:"Write the run report as JSON to this path"`
	MetricsFile string `name:"metrics-file" help:"Write Prometheus metrics in text format to this path"`
	StrictExit  bool   `name:"strict-exit" help:"Exit non-zero when any export step did not succeed"`
	KiCadCLI    string `name:"kicad-cli" help:"kicad-cli binary to use (overrides config and KICAD_CLI)"`
}

func (e *ExportCmd) Run(g *Global, root *CLI) error {
	if root.GenerateExample {
		return writeExample(g.Stdout, config.ExampleFileName)
	}
	if root.ConfigFile == "" {
		_, _ = fmt.Fprintln(g.Stdout, MissingConfigMessage)
		return nil
	}

	report, err := e.runOnce(g.Ctx, g.Stdout, root.ConfigFile)
	if err != nil {
		return err
	}
	if !e.StrictExit || report.Outcome == export.OutcomeSuccess {
		return nil
	}
	if report.ToolUnavailable() {
		b := ferrors.ToolError("kicad-cli could not be executed").
			WithContext("run_id", report.RunID)
		if len(report.Steps) > 0 && len(report.Steps[0].Command) > 0 {
			b = b.WithContext("binary", report.Steps[0].Command[0])
		}
		return b.Build()
	}
	return ferrors.BuildError("one or more export steps did not succeed").
		WithContext("run_id", report.RunID).
		WithContext("outcome", string(report.Outcome)).
		Build()
}

// applyOverrides lets command-line flags switch on behaviour the
// configuration leaves off.
func (e *ExportCmd) applyOverrides(cfg *config.Config) {
	if e.FailFast {
		cfg.FailFast = true
	}
	if e.Parallel {
		cfg.Parallel = true
	}
	if e.KiCadCLI != "" {
		cfg.KiCadCLI = e.KiCadCLI
	}
}

// runOnce loads the configuration and performs one export run.
func (e *ExportCmd) runOnce(ctx context.Context, stdout io.Writer, configPath string) (*export.Report, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, err
	}
	e.applyOverrides(cfg)
	slog.Debug("Loaded configuration", logfields.File(configPath), slog.String("config", cfg.String()))
	for _, w := range cfg.Warnings {
		slog.Warn(w, logfields.File(configPath))
	}

	var runner kicad.Runner
	if e.DryRun {
		runner = &kicad.DryRunner{Binary: cfg.KiCadCLI, Out: stdout}
	} else {
		runner = kicad.NewBinaryRunner(cfg.KiCadCLI)
	}

	var recorder metrics.Recorder = metrics.NoopRecorder{}
	var registry *prom.Registry
	if e.MetricsFile != "" {
		registry = prom.NewRegistry()
		recorder = metrics.NewPrometheusRecorder(registry)
	}

	orc := export.NewOrchestrator(runner,
		export.WithObserver(console.NewPrinter(stdout)),
		export.WithRecorder(recorder),
		export.WithDryRun(e.DryRun),
	)
	report, runErr := orc.Run(ctx, cfg)

	if report != nil {
		slog.Info(report.Summary())
		if e.Report != "" {
			if err := report.Persist(e.Report); err != nil {
				return report, ferrors.FileSystemError("failed to write run report").
					WithCause(err).WithContext("path", e.Report).Build()
			}
		}
	}
	if registry != nil {
		if err := metrics.WriteTextfile(e.MetricsFile, registry); err != nil {
			slog.Warn("Metrics not written", logfields.Path(e.MetricsFile), logfields.Error(err))
		}
	}
	return report, runErr
}
