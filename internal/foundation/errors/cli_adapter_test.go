package errors

import (
	"bytes"
	"log/slog"
	"strings"
	"testing"
)

func TestCLIErrorAdapter_ExitCodeFor(t *testing.T) {
	adapter := NewCLIErrorAdapter(false, slog.Default())

	tests := []struct {
		name     string
		err      error
		expected int
	}{
		{name: "nil error", err: nil, expected: ExitSuccess},
		{name: "validation", err: ValidationError("bad").Build(), expected: ExitValidation},
		{name: "config", err: ConfigError("bad config").Build(), expected: ExitConfig},
		{name: "tool", err: ToolError("kicad-cli missing").Build(), expected: ExitTool},
		{name: "build", err: BuildError("steps failed").Build(), expected: ExitBuild},
		{name: "archive", err: ArchiveError("zip").Build(), expected: ExitBuild},
		{name: "internal", err: InternalError("bug").Build(), expected: ExitInternal},
		{name: "unclassified error", err: &customError{msg: "unknown error"}, expected: ExitFailure},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := adapter.ExitCodeFor(tt.err); got != tt.expected {
				t.Errorf("ExitCodeFor() = %v, want %v", got, tt.expected)
			}
		})
	}
}

func TestCLIErrorAdapter_FormatError(t *testing.T) {
	err := ConfigError("missing required configuration keys").
		WithContext("keys", "layers").
		Build()

	quiet := NewCLIErrorAdapter(false, slog.Default())
	if got := quiet.FormatError(err); got != "Error: missing required configuration keys" {
		t.Errorf("unexpected quiet message: %q", got)
	}

	verbose := NewCLIErrorAdapter(true, slog.Default())
	if got := verbose.FormatError(err); !strings.Contains(got, "keys: layers") {
		t.Errorf("verbose message should include context, got %q", got)
	}

	if got := quiet.FormatError(&customError{msg: "boom"}); got != "Error: boom" {
		t.Errorf("unexpected unclassified message: %q", got)
	}
}

func TestCLIErrorAdapter_HandleError(t *testing.T) {
	var logs, stderr bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&logs, nil))
	adapter := NewCLIErrorAdapter(false, logger)
	adapter.stderr = &stderr
	code := -1
	adapter.exit = func(c int) { code = c }

	adapter.HandleError(ConfigError("no such file").Build())

	if code != ExitConfig {
		t.Errorf("exit code = %d, want %d", code, ExitConfig)
	}
	if !strings.Contains(stderr.String(), "no such file") {
		t.Errorf("stderr missing message: %q", stderr.String())
	}
	if !strings.Contains(logs.String(), "category=config") {
		t.Errorf("expected fatal error to be logged with category, got %q", logs.String())
	}
}

type customError struct{ msg string }

func (e *customError) Error() string { return e.msg }
