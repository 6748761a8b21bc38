package export

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"

	"git.home.luguber.info/inful/kicadexport/internal/archive"
	"git.home.luguber.info/inful/kicadexport/internal/revision"
	"git.home.luguber.info/inful/kicadexport/internal/version"
)

// Outcome is the final state of a run.
type Outcome string

const (
	OutcomeSuccess  Outcome = "success"
	OutcomeFailed   Outcome = "failed"
	OutcomeCanceled Outcome = "canceled"
)

const reportSchemaVersion = 1

// Report captures everything that happened during one export run.
type Report struct {
	SchemaVersion int            `json:"schema_version"`
	RunID         string         `json:"run_id"`
	Project       string         `json:"project"`
	OutputDir     string         `json:"output_dir"`
	Revision      *revision.Info `json:"revision,omitempty"`
	KiCadVersion  string         `json:"kicad_version,omitempty"`
	ToolVersion   string         `json:"tool_version"`
	Parallel      bool           `json:"parallel"`
	FailFast      bool           `json:"fail_fast"`
	DryRun        bool           `json:"dry_run,omitempty"`
	Start         time.Time      `json:"start"`
	End           time.Time      `json:"end"`
	Steps         []StepResult   `json:"steps"`
	CopiedExtras  []string       `json:"copied_extra_files,omitempty"`
	MissingExtras []string       `json:"missing_extra_files,omitempty"`
	Warnings      []string       `json:"warnings,omitempty"`
	Archive       *archive.Info  `json:"archive,omitempty"`
	// ArchiveSkipped explains why no archive was written, if one was configured.
	ArchiveSkipped string  `json:"archive_skipped,omitempty"`
	Outcome        Outcome `json:"outcome"`
}

// NewReport starts a report with a fresh run id.
func NewReport(project, outputDir string) *Report {
	return &Report{
		SchemaVersion: reportSchemaVersion,
		RunID:         uuid.NewString(),
		Project:       project,
		OutputDir:     outputDir,
		ToolVersion:   version.Version,
		Start:         time.Now(),
		Steps:         []StepResult{},
	}
}

// AddWarning records a non-fatal problem.
func (r *Report) AddWarning(format string, args ...any) {
	r.Warnings = append(r.Warnings, fmt.Sprintf(format, args...))
}

// AllSucceeded is the logical AND of every step exiting zero. A report
// without steps has not succeeded.
func (r *Report) AllSucceeded() bool {
	if len(r.Steps) == 0 {
		return false
	}
	for _, s := range r.Steps {
		if !s.Succeeded() {
			return false
		}
	}
	return true
}

// ToolUnavailable reports whether kicad-cli never produced an exit status:
// at least one step failed to start and no step ran to completion.
func (r *Report) ToolUnavailable() bool {
	notStarted := 0
	for _, s := range r.Steps {
		switch {
		case s.Status == StatusFailed && s.ExitCode == -1:
			notStarted++
		case s.Status == StatusSkipped:
		default:
			return false
		}
	}
	return notStarted > 0
}

// ExitCodes returns the exit code of every step in order.
func (r *Report) ExitCodes() []int {
	out := make([]int, len(r.Steps))
	for i, s := range r.Steps {
		out[i] = s.ExitCode
	}
	return out
}

// Step returns the result for name.
func (r *Report) Step(name StepName) (StepResult, bool) {
	for _, s := range r.Steps {
		if s.Name == name {
			return s, true
		}
	}
	return StepResult{}, false
}

// Finish sets the end time of the report.
func (r *Report) Finish() { r.End = time.Now() }

// DeriveOutcome sets Outcome from the step results.
func (r *Report) DeriveOutcome() {
	canceled := false
	for _, s := range r.Steps {
		if s.Status == StatusCanceled {
			canceled = true
		}
	}
	switch {
	case canceled:
		r.Outcome = OutcomeCanceled
	case r.AllSucceeded():
		r.Outcome = OutcomeSuccess
	default:
		r.Outcome = OutcomeFailed
	}
}

// Summary returns a human-readable single-line summary.
func (r *Report) Summary() string {
	counts := map[StepStatus]int{}
	for _, s := range r.Steps {
		counts[s.Status]++
	}
	var b strings.Builder
	fmt.Fprintf(&b, "project=%s run=%s duration=%s steps=%d success=%d failed=%d skipped=%d canceled=%d warnings=%d",
		r.Project, r.RunID, r.End.Sub(r.Start).Truncate(time.Millisecond), len(r.Steps),
		counts[StatusSuccess], counts[StatusFailed], counts[StatusSkipped], counts[StatusCanceled], len(r.Warnings))
	if r.Archive != nil {
		fmt.Fprintf(&b, " archive=%s", r.Archive.Path)
	}
	fmt.Fprintf(&b, " outcome=%s", r.Outcome)
	return b.String()
}

// Persist writes the report as indented JSON to path via a temporary file
// and rename.
func (r *Report) Persist(path string) error {
	if r.End.IsZero() {
		r.Finish()
		r.DeriveOutcome()
	}
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o750); err != nil {
			return fmt.Errorf("ensure directory for report: %w", err)
		}
	}
	data, err := json.MarshalIndent(r, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal report json: %w", err)
	}
	tmp, err := os.CreateTemp(filepath.Dir(path), "."+filepath.Base(path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("create temp report json: %w", err)
	}
	tmpName := tmp.Name()
	if _, err := tmp.Write(append(data, '\n')); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmpName)
		return fmt.Errorf("write temp report json: %w", err)
	}
	if err := tmp.Close(); err != nil {
		_ = os.Remove(tmpName)
		return fmt.Errorf("close temp report json: %w", err)
	}
	if err := os.Rename(tmpName, path); err != nil {
		_ = os.Remove(tmpName)
		return fmt.Errorf("atomic rename report json: %w", err)
	}
	return nil
}
