package export

import (
	"git.home.luguber.info/inful/kicadexport/internal/archive"
	"git.home.luguber.info/inful/kicadexport/internal/metrics"
)

// Phase identifies the non-step parts of a run.
type Phase string

const (
	PhaseReset      Phase = "reset"
	PhaseCreateTree Phase = "create_tree"
	PhaseCopyExtras Phase = "copy_extras"
	PhaseArchive    Phase = "archive"
)

// Observer receives callbacks around step execution and the run lifecycle.
// In parallel mode step callbacks arrive from several goroutines.
type Observer interface {
	OnPhase(phase Phase)
	OnStepStart(step Step)
	OnStepComplete(result StepResult)
	// OnStepsComplete fires once all steps have a result; allSucceeded is
	// the AND of their exit codes being zero.
	OnStepsComplete(allSucceeded bool)
	OnArchive(info archive.Info)
	OnRunComplete(report *Report)
}

// NoopObserver is a no-op implementation.
type NoopObserver struct{}

func (NoopObserver) OnPhase(Phase)             {}
func (NoopObserver) OnStepStart(Step)          {}
func (NoopObserver) OnStepComplete(StepResult) {}
func (NoopObserver) OnStepsComplete(bool)      {}
func (NoopObserver) OnArchive(archive.Info)    {}
func (NoopObserver) OnRunComplete(*Report)     {}

// RecorderObserver adapts metrics.Recorder into an Observer.
type RecorderObserver struct {
	NoopObserver
	Recorder metrics.Recorder
}

func (r RecorderObserver) OnStepComplete(res StepResult) {
	if r.Recorder == nil {
		return
	}
	if res.Status != StatusSkipped {
		r.Recorder.ObserveStepDuration(string(res.Name), res.Duration)
	}
	r.Recorder.IncStepResult(string(res.Name), resultLabel(res.Status))
}

func (r RecorderObserver) OnArchive(info archive.Info) {
	if r.Recorder != nil {
		r.Recorder.SetArchiveEntries(info.Entries)
	}
}

func (r RecorderObserver) OnRunComplete(report *Report) {
	if r.Recorder != nil {
		r.Recorder.ObserveRunDuration(report.End.Sub(report.Start))
		r.Recorder.IncRunOutcome(string(report.Outcome))
	}
}

func resultLabel(s StepStatus) metrics.ResultLabel {
	switch s {
	case StatusSuccess:
		return metrics.ResultSuccess
	case StatusSkipped:
		return metrics.ResultSkipped
	case StatusCanceled:
		return metrics.ResultCanceled
	default:
		return metrics.ResultFailed
	}
}

// multiObserver fans callbacks out in order.
type multiObserver []Observer

func (m multiObserver) OnPhase(p Phase) {
	for _, o := range m {
		o.OnPhase(p)
	}
}

func (m multiObserver) OnStepStart(s Step) {
	for _, o := range m {
		o.OnStepStart(s)
	}
}

func (m multiObserver) OnStepComplete(r StepResult) {
	for _, o := range m {
		o.OnStepComplete(r)
	}
}

func (m multiObserver) OnStepsComplete(ok bool) {
	for _, o := range m {
		o.OnStepsComplete(ok)
	}
}

func (m multiObserver) OnArchive(info archive.Info) {
	for _, o := range m {
		o.OnArchive(info)
	}
}

func (m multiObserver) OnRunComplete(r *Report) {
	for _, o := range m {
		o.OnRunComplete(r)
	}
}
