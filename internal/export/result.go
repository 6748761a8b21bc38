package export

import "time"

// StepStatus is the outcome of a single step.
type StepStatus string

const (
	StatusSuccess  StepStatus = "success"
	StatusFailed   StepStatus = "failed"
	StatusSkipped  StepStatus = "skipped"
	StatusCanceled StepStatus = "canceled"
)

// StepResult records what happened to one step.
type StepResult struct {
	Name     StepName      `json:"name"`
	Status   StepStatus    `json:"status"`
	ExitCode int           `json:"exit_code"`
	Duration time.Duration `json:"duration_ns"`
	Command  []string      `json:"command,omitempty"`
	Error    string        `json:"error,omitempty"`
}

// Succeeded reports whether the step ran and exited zero.
func (r StepResult) Succeeded() bool { return r.Status == StatusSuccess }
