package kicad

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/exec"
	"strconv"
	"strings"
	"time"

	"git.home.luguber.info/inful/kicadexport/internal/logfields"
)

// Result is the outcome of one kicad-cli invocation.
type Result struct {
	ExitCode int
	Duration time.Duration
}

// Runner executes kicad-cli with the given arguments.
//
// A non-zero exit status is not an error: it is reported in Result.ExitCode.
// The error is reserved for invocations that never produced an exit status
// (binary missing, start failure, cancellation); ExitCode is then -1.
type Runner interface {
	Run(ctx context.Context, args []string) (Result, error)
}

// BinaryRunner invokes the kicad-cli binary. Child output is streamed to
// Stdout/Stderr, defaulting to the process's own.
type BinaryRunner struct {
	Binary string
	Dir    string
	Stdout io.Writer
	Stderr io.Writer
}

// NewBinaryRunner returns a runner for binary (a name on PATH or a path).
func NewBinaryRunner(binary string) *BinaryRunner {
	return &BinaryRunner{Binary: binary, Stdout: os.Stdout, Stderr: os.Stderr}
}

func (b *BinaryRunner) Run(ctx context.Context, args []string) (Result, error) {
	path, err := exec.LookPath(b.Binary)
	if err != nil {
		return Result{ExitCode: -1}, fmt.Errorf("%w: %s: %w", ErrBinaryNotFound, b.Binary, err)
	}

	// #nosec G204 -- binary and args come from the operator's configuration
	cmd := exec.CommandContext(ctx, path, args...)
	cmd.Dir = b.Dir
	cmd.Stdout = writerOr(b.Stdout, os.Stdout)
	cmd.Stderr = writerOr(b.Stderr, os.Stderr)
	cmd.WaitDelay = 5 * time.Second

	slog.Debug("Invoking kicad-cli", logfields.Command(append([]string{b.Binary}, args...)))

	start := time.Now()
	err = cmd.Run()
	res := Result{Duration: time.Since(start)}

	if ctxErr := ctx.Err(); ctxErr != nil {
		res.ExitCode = -1
		return res, fmt.Errorf("%w: %w", ErrCanceled, ctxErr)
	}
	if err != nil {
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			res.ExitCode = exitErr.ExitCode()
			return res, nil
		}
		res.ExitCode = -1
		return res, fmt.Errorf("%w: %w", ErrExecutionFailed, err)
	}
	return res, nil
}

// DryRunner prints the command line it would execute and reports success.
type DryRunner struct {
	Binary string
	Out    io.Writer
}

func (d *DryRunner) Run(ctx context.Context, args []string) (Result, error) {
	if err := ctx.Err(); err != nil {
		return Result{ExitCode: -1}, fmt.Errorf("%w: %w", ErrCanceled, err)
	}
	_, _ = fmt.Fprintln(writerOr(d.Out, os.Stdout), FormatCommand(d.Binary, args))
	return Result{}, nil
}

// FormatCommand renders binary and args as a copy-pasteable shell line.
func FormatCommand(binary string, args []string) string {
	parts := make([]string, 0, len(args)+1)
	parts = append(parts, quoteArg(binary))
	for _, a := range args {
		parts = append(parts, quoteArg(a))
	}
	return strings.Join(parts, " ")
}

func quoteArg(s string) string {
	if s == "" || strings.ContainsAny(s, " \t\"'$\\") {
		return strconv.Quote(s)
	}
	return s
}

func writerOr(w, fallback io.Writer) io.Writer {
	if w == nil {
		return fallback
	}
	return w
}
