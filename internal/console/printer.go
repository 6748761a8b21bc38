// Package console prints human-readable export progress.
package console

import (
	"fmt"
	"io"
	"os"
	"sync"

	"git.home.luguber.info/inful/kicadexport/internal/archive"
	"git.home.luguber.info/inful/kicadexport/internal/export"
)

// Printer writes one line per progress event. It implements export.Observer
// and is safe for the concurrent callbacks of a parallel run.
type Printer struct {
	mu          sync.Mutex
	out         io.Writer
	styles      Styles
	lastStarted export.StepName
}

var _ export.Observer = (*Printer)(nil)

// blankAfter lists the steps whose result is followed by an empty line.
var blankAfter = map[export.StepName]bool{
	export.StepGerbers:   true,
	export.StepDrill:     true,
	export.StepPosBottom: true,
}

// NewPrinter returns a printer for w, coloured when w is a terminal.
func NewPrinter(w io.Writer) *Printer {
	if w == nil {
		w = os.Stdout
	}
	return &Printer{out: w, styles: NewStyles(w, ColorEnabled(w))}
}

func (p *Printer) line(s string) {
	_, _ = fmt.Fprintln(p.out, s)
}

func (p *Printer) OnPhase(phase export.Phase) {
	p.mu.Lock()
	defer p.mu.Unlock()
	switch phase {
	case export.PhaseReset:
		p.line("Removing existing data")
	case export.PhaseCreateTree:
		p.line("Creating file tree")
	}
}

func (p *Printer) OnStepStart(step export.Step) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.lastStarted = step.Name
	p.line(p.styles.Title.Render(step.Title))
}

func (p *Printer) OnStepComplete(res export.StepResult) {
	p.mu.Lock()
	defer p.mu.Unlock()

	var msg string
	switch res.Status {
	case export.StatusSuccess:
		msg = p.styles.Success.Render("Success.")
	case export.StatusSkipped:
		msg = p.styles.Muted.Render("Skipped.")
	case export.StatusCanceled:
		msg = p.styles.Warning.Render("Canceled.")
	default:
		msg = p.styles.Error.Render(fmt.Sprintf("Failed with return code: %d", res.ExitCode))
	}
	// Label the line when it does not directly follow its own title.
	if res.Name != p.lastStarted {
		msg = p.styles.Muted.Render("["+string(res.Name)+"]") + " " + msg
	}
	p.lastStarted = ""
	p.line(msg)
	if blankAfter[res.Name] {
		p.line("")
	}
}

func (p *Printer) OnStepsComplete(allSucceeded bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if allSucceeded {
		p.line("")
		p.line(p.styles.Success.Render("All jobs completed successfully."))
		return
	}
	p.line(p.styles.Error.Render("Some jobs encountered errors."))
}

func (p *Printer) OnArchive(info archive.Info) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.line(fmt.Sprintf("Created project archive %s.", info.Path))
}

func (p *Printer) OnRunComplete(report *export.Report) {
	p.mu.Lock()
	defer p.mu.Unlock()
	for _, w := range report.Warnings {
		p.line(p.styles.Warning.Render("Warning: " + w))
	}
}
