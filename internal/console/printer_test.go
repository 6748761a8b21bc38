package console

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"

	"git.home.luguber.info/inful/kicadexport/internal/archive"
	"git.home.luguber.info/inful/kicadexport/internal/export"
)

func newPlainPrinter(buf *bytes.Buffer) *Printer {
	return &Printer{out: buf, styles: NewStyles(buf, false)}
}

func TestPrinterSequentialRun(t *testing.T) {
	var buf bytes.Buffer
	p := newPlainPrinter(&buf)

	p.OnPhase(export.PhaseReset)
	p.OnPhase(export.PhaseCreateTree)
	p.OnStepStart(export.Step{Name: export.StepGerbers, Title: "Plotting gerbers..."})
	p.OnStepComplete(export.StepResult{Name: export.StepGerbers, Status: export.StatusSuccess})
	p.OnStepStart(export.Step{Name: export.StepDrill, Title: "Plotting drills...."})
	p.OnStepComplete(export.StepResult{Name: export.StepDrill, Status: export.StatusFailed, ExitCode: 2})
	p.OnStepComplete(export.StepResult{Name: export.StepBOM, Status: export.StatusSkipped, ExitCode: -1})
	p.OnStepsComplete(false)

	want := "Removing existing data\n" +
		"Creating file tree\n" +
		"Plotting gerbers...\n" +
		"Success.\n" +
		"\n" +
		"Plotting drills....\n" +
		"Failed with return code: 2\n" +
		"\n" +
		"[bom] Skipped.\n" +
		"Some jobs encountered errors.\n"
	assert.Equal(t, want, buf.String())
}

func TestPrinterSuccessAndArchive(t *testing.T) {
	var buf bytes.Buffer
	p := newPlainPrinter(&buf)

	p.OnStepsComplete(true)
	p.OnArchive(archive.Info{Path: "project-archive.zip", Entries: 3})
	p.OnPhase(export.PhaseArchive)
	p.OnRunComplete(&export.Report{Warnings: []string{"extra file a.txt not found"}})

	assert.Equal(t, "\nAll jobs completed successfully.\n"+
		"Created project archive project-archive.zip.\n"+
		"Warning: extra file a.txt not found\n", buf.String())
}

func TestPrinterLabelsInterleavedResults(t *testing.T) {
	var buf bytes.Buffer
	p := newPlainPrinter(&buf)

	p.OnStepStart(export.Step{Name: export.StepGerbers, Title: "Plotting gerbers..."})
	p.OnStepStart(export.Step{Name: export.StepDrill, Title: "Plotting drills...."})
	p.OnStepComplete(export.StepResult{Name: export.StepGerbers, Status: export.StatusSuccess})
	p.OnStepComplete(export.StepResult{Name: export.StepDrill, Status: export.StatusCanceled})

	assert.Equal(t, "Plotting gerbers...\nPlotting drills....\n[gerbers] Success.\n\n[drill] Canceled.\n\n", buf.String())
}

func TestPrinterPlacementAndBOMSpacing(t *testing.T) {
	var buf bytes.Buffer
	p := newPlainPrinter(&buf)

	steps := []export.Step{
		{Name: export.StepPosTop, Title: "Printing top component placements..."},
		{Name: export.StepPosBottom, Title: "Printing bottom component placements..."},
		{Name: export.StepBOM, Title: "Printing BoM..."},
	}
	for _, st := range steps {
		p.OnStepStart(st)
		p.OnStepComplete(export.StepResult{Name: st.Name, Status: export.StatusSuccess})
	}
	p.OnStepsComplete(true)

	want := "Printing top component placements...\n" +
		"Success.\n" +
		"Printing bottom component placements...\n" +
		"Success.\n" +
		"\n" +
		"Printing BoM...\n" +
		"Success.\n" +
		"\n" +
		"All jobs completed successfully.\n"
	assert.Equal(t, want, buf.String())
}

func TestColorDisabledForNonTerminal(t *testing.T) {
	assert.False(t, ColorEnabled(&bytes.Buffer{}))
	t.Setenv("NO_COLOR", "1")
	assert.False(t, ColorEnabled(nil))
}
