package main

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"git.home.luguber.info/inful/kicadexport/cmd/kicadexport/commands"
	"git.home.luguber.info/inful/kicadexport/internal/config"
	ferrors "git.home.luguber.info/inful/kicadexport/internal/foundation/errors"
)

func runCLI(t *testing.T, args ...string) (int, string, string) {
	t.Helper()
	var stdout, stderr bytes.Buffer
	code := run(context.Background(), args, &stdout, &stderr)
	return code, stdout.String(), stderr.String()
}

// writeProject creates a config pointing at a missing kicad-cli so every
// step fails without spawning anything.
func writeProject(t *testing.T) (string, string) {
	t.Helper()
	dir := t.TempDir()
	t.Chdir(dir)
	t.Setenv("KICAD_CLI", "")
	require.NoError(t, os.Unsetenv("KICAD_CLI"))

	cfg := strings.Join([]string{
		"project_name: board",
		"project_dir: ./src",
		"output_dir: ./build",
		"layers: F.Cu,B.Cu",
		"bom_fields: Reference,Value",
		"bom_labels: Refs,Value",
		"zip_file: board.zip",
		"kicad_cli: " + filepath.Join(dir, "no-such-kicad-cli"),
	}, "\n") + "\n"
	path := filepath.Join(dir, "kicad.yaml")
	require.NoError(t, os.WriteFile(path, []byte(cfg), 0o600))
	return dir, path
}

func TestNoConfigPrintsHint(t *testing.T) {
	t.Chdir(t.TempDir())
	code, stdout, _ := runCLI(t)
	assert.Equal(t, 0, code)
	assert.Equal(t, commands.MissingConfigMessage+"\n", stdout)
}

func TestGenerateExample(t *testing.T) {
	dir := t.TempDir()
	t.Chdir(dir)
	require.NoError(t, os.WriteFile(config.ExampleFileName, []byte("stale"), 0o600))

	code, stdout, _ := runCLI(t, "--generate-example")
	assert.Equal(t, 0, code)
	assert.Contains(t, stdout, "Example YAML configuration file 'config-example.yaml' generated.")

	cfg, err := config.Load(filepath.Join(dir, config.ExampleFileName))
	require.NoError(t, err)
	assert.Equal(t, "bugg-main-r5", cfg.ProjectName)
}

func TestInitWritesToOutput(t *testing.T) {
	dir := t.TempDir()
	t.Chdir(dir)
	target := filepath.Join(dir, "my.yaml")

	code, _, _ := runCLI(t, "init", "-o", target)
	assert.Equal(t, 0, code)
	assert.FileExists(t, target)
}

func TestMissingConfigFileExitsWithConfigCode(t *testing.T) {
	t.Chdir(t.TempDir())
	code, _, stderr := runCLI(t, "--config-file", "nope.yaml")
	assert.Equal(t, ferrors.ExitConfig, code)
	assert.Contains(t, stderr, "Error:")
}

func TestExportFailedStepsStillExitZero(t *testing.T) {
	dir, cfgPath := writeProject(t)
	reportPath := filepath.Join(dir, "report.json")

	code, stdout, _ := runCLI(t, "-c", cfgPath, "--report", reportPath)
	assert.Equal(t, 0, code)
	assert.Contains(t, stdout, "Removing existing data")
	assert.Contains(t, stdout, "Plotting gerbers...")
	assert.Contains(t, stdout, "Failed with return code: -1")
	assert.Contains(t, stdout, "Some jobs encountered errors.")
	assert.NoFileExists(t, filepath.Join(dir, "board.zip"))
	assert.DirExists(t, filepath.Join(dir, "build", "board-fabrication"))

	data, err := os.ReadFile(reportPath)
	require.NoError(t, err)
	var report map[string]any
	require.NoError(t, json.Unmarshal(data, &report))
	assert.Equal(t, "failed", report["outcome"])
	assert.Len(t, report["steps"], 5)
}

func TestExportStrictExitMissingBinary(t *testing.T) {
	_, cfgPath := writeProject(t)
	code, _, stderr := runCLI(t, "export", "-c", cfgPath, "--strict-exit", "--fail-fast")
	assert.Equal(t, ferrors.ExitTool, code)
	assert.Contains(t, stderr, "kicad-cli could not be executed")
}

func TestExportStrictExitFailedStep(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("shell scripts not supported on windows")
	}
	dir, cfgPath := writeProject(t)
	bin := filepath.Join(dir, "failing-kicad-cli")
	require.NoError(t, os.WriteFile(bin, []byte("#!/bin/sh\nexit 3\n"), 0o700)) // #nosec G306 -- test helper script

	code, stdout, stderr := runCLI(t, "export", "-c", cfgPath, "--strict-exit", "--kicad-cli", bin)
	assert.Equal(t, ferrors.ExitBuild, code)
	assert.Contains(t, stdout, "Failed with return code: 3")
	assert.Contains(t, stderr, "did not succeed")
}

func TestExportDryRun(t *testing.T) {
	dir, cfgPath := writeProject(t)
	metricsPath := filepath.Join(dir, "kicadexport.prom")

	code, stdout, _ := runCLI(t, "-c", cfgPath, "--dry-run", "--metrics-file", metricsPath, "--kicad-cli", "kicad-cli")
	assert.Equal(t, 0, code)
	assert.Contains(t, stdout, "kicad-cli pcb export gerbers")
	assert.Contains(t, stdout, "kicad-cli sch export bom")
	assert.Contains(t, stdout, "All jobs completed successfully.")
	assert.NoDirExists(t, filepath.Join(dir, "build"))

	data, err := os.ReadFile(metricsPath)
	require.NoError(t, err)
	assert.Contains(t, string(data), `kicadexport_step_results_total{result="success",step="gerbers"} 1`)
}

func TestInvalidFlag(t *testing.T) {
	code, _, stderr := runCLI(t, "--log-format", "xml")
	assert.Equal(t, ferrors.ExitValidation, code)
	assert.Contains(t, stderr, "log-format")
}
