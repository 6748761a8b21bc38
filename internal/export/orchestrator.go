package export

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"golang.org/x/sync/errgroup"

	"git.home.luguber.info/inful/kicadexport/internal/archive"
	"git.home.luguber.info/inful/kicadexport/internal/config"
	"git.home.luguber.info/inful/kicadexport/internal/extras"
	ferrors "git.home.luguber.info/inful/kicadexport/internal/foundation/errors"
	"git.home.luguber.info/inful/kicadexport/internal/kicad"
	"git.home.luguber.info/inful/kicadexport/internal/logfields"
	"git.home.luguber.info/inful/kicadexport/internal/metrics"
	"git.home.luguber.info/inful/kicadexport/internal/revision"
	"git.home.luguber.info/inful/kicadexport/internal/workspace"
)

var errStepFailed = errors.New("step failed")

// Orchestrator runs the export pipeline for a configuration.
type Orchestrator struct {
	runner   kicad.Runner
	observer Observer
	recorder metrics.Recorder
	dryRun   bool

	lookupRevision func(dir string) (*revision.Info, error)
	detectVersion  func(ctx context.Context, binary string) string
}

// Option configures an Orchestrator.
type Option func(*Orchestrator)

// WithObserver attaches a progress observer.
func WithObserver(o Observer) Option {
	return func(orc *Orchestrator) { orc.observer = o }
}

// WithRecorder attaches a metrics recorder.
func WithRecorder(r metrics.Recorder) Option {
	return func(orc *Orchestrator) { orc.recorder = r }
}

// WithDryRun leaves the filesystem untouched: the tree is not reset, extra
// files are not copied and no archive is written. Combine with a
// kicad.DryRunner to print the commands instead of running them.
func WithDryRun(dry bool) Option {
	return func(orc *Orchestrator) { orc.dryRun = dry }
}

// WithRevisionLookup replaces the git revision lookup.
func WithRevisionLookup(fn func(dir string) (*revision.Info, error)) Option {
	return func(orc *Orchestrator) { orc.lookupRevision = fn }
}

// WithVersionDetector replaces the kicad-cli version probe.
func WithVersionDetector(fn func(ctx context.Context, binary string) string) Option {
	return func(orc *Orchestrator) { orc.detectVersion = fn }
}

// NewOrchestrator returns an orchestrator executing steps with runner.
func NewOrchestrator(runner kicad.Runner, opts ...Option) *Orchestrator {
	o := &Orchestrator{
		runner:         runner,
		observer:       NoopObserver{},
		recorder:       metrics.NoopRecorder{},
		lookupRevision: revision.Lookup,
		detectVersion:  kicad.DetectVersion,
	}
	for _, opt := range opts {
		opt(o)
	}
	o.observer = multiObserver{o.observer, RecorderObserver{Recorder: o.recorder}}
	return o
}

// Run performs one export. Step failures are recorded in the report and
// never returned as an error; the error is reserved for conditions that
// stop the run (filesystem or archive failures). The report is returned
// even when err is non-nil.
func (o *Orchestrator) Run(ctx context.Context, cfg *config.Config) (*Report, error) {
	if cfg == nil {
		return nil, ferrors.InternalError("export run without configuration").Build()
	}

	report := NewReport(cfg.ProjectName, cfg.OutputDir)
	report.Parallel = cfg.Parallel
	report.FailFast = cfg.FailFast
	report.DryRun = o.dryRun
	report.Warnings = append(report.Warnings, cfg.Warnings...)

	log := slog.With(logfields.RunID(report.RunID), logfields.Project(cfg.ProjectName))
	log.Info("Starting export", logfields.Path(cfg.OutputDir),
		slog.Bool("parallel", cfg.Parallel), slog.Bool("fail_fast", cfg.FailFast), slog.Bool("dry_run", o.dryRun))

	o.stampProvenance(ctx, cfg, report, log)

	tree := workspace.NewTree(cfg.OutputDir, cfg.ProjectName)
	if err := o.prepareTree(tree); err != nil {
		return o.finish(report, log), err
	}

	steps := StandardSteps(cfg, tree)
	if cfg.Parallel {
		report.Steps = o.runParallel(ctx, cfg, steps, log)
	} else {
		report.Steps = o.runSequential(ctx, cfg, steps, log)
	}

	if err := o.copyExtras(cfg, tree, report, log); err != nil {
		return o.finish(report, log), err
	}

	allOK := report.AllSucceeded()
	o.observer.OnStepsComplete(allOK)

	if err := o.archive(cfg, tree, report, allOK, log); err != nil {
		return o.finish(report, log), err
	}
	return o.finish(report, log), nil
}

func (o *Orchestrator) stampProvenance(ctx context.Context, cfg *config.Config, report *Report, log *slog.Logger) {
	if o.lookupRevision != nil {
		info, err := o.lookupRevision(cfg.ProjectDir)
		if err != nil {
			log.Warn("Could not determine project revision", logfields.Error(err))
		}
		report.Revision = info
	}
	// A dry run executes nothing external, the version probe included.
	if o.detectVersion != nil && !o.dryRun {
		report.KiCadVersion = o.detectVersion(ctx, cfg.KiCadCLI)
	}
}

func (o *Orchestrator) prepareTree(tree *workspace.Tree) error {
	if o.dryRun {
		return nil
	}
	o.observer.OnPhase(PhaseReset)
	if err := tree.Remove(); err != nil {
		return ferrors.FileSystemError("failed to remove existing output").
			WithCause(err).WithContext("path", tree.Root).Build()
	}
	o.observer.OnPhase(PhaseCreateTree)
	if err := tree.Create(); err != nil {
		return ferrors.FileSystemError("failed to create output tree").
			WithCause(err).WithContext("path", tree.Root).Build()
	}
	return nil
}

// runSequential executes steps in order. In best-effort mode every step
// runs; with fail-fast the steps after the first failure are skipped.
func (o *Orchestrator) runSequential(ctx context.Context, cfg *config.Config, steps []Step, log *slog.Logger) []StepResult {
	results := make([]StepResult, len(steps))
	failed := false
	for i, st := range steps {
		switch {
		case ctx.Err() != nil:
			results[i] = o.notRun(st, StatusCanceled, ctx.Err().Error())
		case failed && cfg.FailFast:
			results[i] = o.notRun(st, StatusSkipped, "")
		default:
			o.observer.OnStepStart(st)
			results[i] = o.execStep(ctx, cfg, st, log)
			o.observer.OnStepComplete(results[i])
		}
		if !results[i].Succeeded() {
			failed = true
		}
	}
	return results
}

// runParallel executes all steps concurrently. Results are stored by step
// index. With fail-fast the first failure cancels the shared context and
// the steps still running are recorded as canceled.
func (o *Orchestrator) runParallel(ctx context.Context, cfg *config.Config, steps []Step, log *slog.Logger) []StepResult {
	results := make([]StepResult, len(steps))
	g, gctx := errgroup.WithContext(ctx)
	for i, st := range steps {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				results[i] = o.notRun(st, StatusCanceled, err.Error())
				return nil
			}
			o.observer.OnStepStart(st)
			results[i] = o.execStep(gctx, cfg, st, log)
			o.observer.OnStepComplete(results[i])
			if !results[i].Succeeded() && cfg.FailFast {
				return errStepFailed
			}
			return nil
		})
	}
	_ = g.Wait()
	return results
}

func (o *Orchestrator) execStep(ctx context.Context, cfg *config.Config, st Step, log *slog.Logger) StepResult {
	stepCtx := ctx
	if d := cfg.StepTimeout.Std(); d > 0 {
		var cancel context.CancelFunc
		stepCtx, cancel = context.WithTimeout(ctx, d)
		defer cancel()
	}

	res := StepResult{
		Name:    st.Name,
		Command: append([]string{cfg.KiCadCLI}, st.Args...),
	}
	start := time.Now()
	out, err := o.runner.Run(stepCtx, st.Args)
	res.Duration = time.Since(start)
	res.ExitCode = out.ExitCode

	switch {
	case err != nil && errors.Is(err, kicad.ErrCanceled):
		res.Status = StatusCanceled
		res.Error = err.Error()
	case err != nil:
		res.Status = StatusFailed
		res.ExitCode = -1
		res.Error = err.Error()
	case out.ExitCode != 0:
		res.Status = StatusFailed
	default:
		res.Status = StatusSuccess
	}

	attrs := []any{
		logfields.Step(string(st.Name)),
		logfields.StepStatus(string(res.Status)),
		logfields.ExitCode(res.ExitCode),
		logfields.DurationMS(millis(res.Duration)),
	}
	if err != nil {
		attrs = append(attrs, logfields.Error(err))
	}
	if res.Succeeded() {
		log.Debug("Step finished", attrs...)
	} else {
		log.Warn("Step finished", attrs...)
	}
	return res
}

func (o *Orchestrator) notRun(st Step, status StepStatus, reason string) StepResult {
	res := StepResult{Name: st.Name, Status: status, ExitCode: -1, Error: reason}
	o.observer.OnStepComplete(res)
	return res
}

func (o *Orchestrator) copyExtras(cfg *config.Config, tree *workspace.Tree, report *Report, log *slog.Logger) error {
	files := cfg.ExtraFileList()
	if len(files) == 0 || o.dryRun {
		return nil
	}
	o.observer.OnPhase(PhaseCopyExtras)
	res, err := extras.Copy(files, tree.Root)
	report.CopiedExtras = res.Copied
	report.MissingExtras = res.Missing
	for _, m := range res.Missing {
		report.AddWarning("extra file %s not found", m)
	}
	if err != nil {
		return ferrors.FileSystemError("failed to copy extra files").
			WithCause(err).WithContext("path", tree.Root).Build()
	}
	log.Debug("Copied extra files", slog.Int("copied", len(res.Copied)), slog.Int("missing", len(res.Missing)))
	return nil
}

func (o *Orchestrator) archive(cfg *config.Config, tree *workspace.Tree, report *Report, allOK bool, log *slog.Logger) error {
	if cfg.ZipFile == "" {
		return nil
	}
	switch {
	case o.dryRun:
		report.ArchiveSkipped = "dry run"
		return nil
	case !allOK:
		report.ArchiveSkipped = "one or more steps failed"
		log.Info("Skipping archive", slog.String("reason", report.ArchiveSkipped))
		return nil
	}

	o.observer.OnPhase(PhaseArchive)
	info, err := archive.Create(tree.Root, cfg.ZipFile)
	if err != nil {
		return ferrors.ArchiveError("failed to write project archive").
			WithCause(err).WithContext("path", cfg.ZipFile).Build()
	}
	report.Archive = &info
	o.observer.OnArchive(info)
	log.Info("Created project archive", logfields.Path(info.Path), slog.Int("entries", info.Entries))
	return nil
}

func (o *Orchestrator) finish(report *Report, log *slog.Logger) *Report {
	report.Finish()
	report.DeriveOutcome()
	o.observer.OnRunComplete(report)
	log.Info("Export finished", logfields.Outcome(string(report.Outcome)),
		logfields.DurationMS(millis(report.End.Sub(report.Start))))
	return report
}

func millis(d time.Duration) float64 { return float64(d) / float64(time.Millisecond) }
