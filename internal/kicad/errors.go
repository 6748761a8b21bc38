package kicad

import "errors"

var (
	// ErrBinaryNotFound indicates the kicad-cli executable was not found on PATH.
	ErrBinaryNotFound = errors.New("kicad-cli binary not found")
	// ErrExecutionFailed indicates the process could not be started or waited on.
	ErrExecutionFailed = errors.New("kicad-cli execution failed")
	// ErrCanceled indicates the invocation was interrupted by context cancellation or timeout.
	ErrCanceled = errors.New("kicad-cli invocation canceled")
)
