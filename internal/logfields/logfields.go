package logfields

import "log/slog"

// Canonical log field name constants to avoid drift across packages.
const (
	KeyRunID      = "run_id"
	KeyProject    = "project"
	KeyStep       = "step"
	KeyStepStatus = "step_status"
	KeyExitCode   = "exit_code"
	KeyCommand    = "command"
	KeyPath       = "path"
	KeyFile       = "file"
	KeyDurationMS = "duration_ms"
	KeyOutcome    = "outcome"
	KeyError      = "error"
)

func RunID(id string) slog.Attr         { return slog.String(KeyRunID, id) }
func Project(name string) slog.Attr     { return slog.String(KeyProject, name) }
func Step(name string) slog.Attr        { return slog.String(KeyStep, name) }
func StepStatus(s string) slog.Attr     { return slog.String(KeyStepStatus, s) }
func ExitCode(code int) slog.Attr       { return slog.Int(KeyExitCode, code) }
func Command(argv []string) slog.Attr   { return slog.Any(KeyCommand, argv) }
func Path(p string) slog.Attr           { return slog.String(KeyPath, p) }
func File(f string) slog.Attr           { return slog.String(KeyFile, f) }
func DurationMS(ms float64) slog.Attr   { return slog.Float64(KeyDurationMS, ms) }
func Outcome(outcome string) slog.Attr  { return slog.String(KeyOutcome, outcome) }
func Error(err error) slog.Attr {
	if err == nil {
		return slog.String(KeyError, "")
	}
	return slog.String(KeyError, err.Error())
}
