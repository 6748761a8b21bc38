// Package config loads and validates the export configuration file.
package config

import (
	"fmt"
	"os"
	"regexp"
	"time"

	"gopkg.in/yaml.v3"

	ferrors "git.home.luguber.info/inful/kicadexport/internal/foundation/errors"
)

// Defaults applied after decoding.
const (
	DefaultBOMGroupBy = "Value"
	DefaultKiCadCLI   = "kicad-cli-nightly"

	// KiCadCLIEnv overrides the kicad_cli key when set.
	KiCadCLIEnv = "KICAD_CLI"
)

// Config is the flat export configuration document.
type Config struct {
	ProjectName string `yaml:"project_name"`
	ZipFile     string `yaml:"zip_file,omitempty"`
	ProjectDir  string `yaml:"project_dir"`
	OutputDir   string `yaml:"output_dir"`
	Layers      string `yaml:"layers"`
	BOMFields   string `yaml:"bom_fields"`
	BOMLabels   string `yaml:"bom_labels"`
	BOMGroupBy  string `yaml:"bom_groupby,omitempty"`
	ExtraFiles  string `yaml:"extra_files,omitempty"`

	KiCadCLI    string   `yaml:"kicad_cli,omitempty"`
	FailFast    bool     `yaml:"fail_fast,omitempty"`
	Parallel    bool     `yaml:"parallel,omitempty"`
	StrictBOM   bool     `yaml:"strict_bom,omitempty"`
	StepTimeout Duration `yaml:"step_timeout,omitempty"`

	// Warnings collects non-fatal problems found while loading.
	Warnings []string `yaml:"-"`
}

// Duration is a time.Duration decoded from strings like "90s" or "5m".
type Duration time.Duration

// UnmarshalYAML implements yaml.Unmarshaler.
func (d *Duration) UnmarshalYAML(value *yaml.Node) error {
	var raw string
	if err := value.Decode(&raw); err != nil {
		return err
	}
	if raw == "" {
		*d = 0
		return nil
	}
	parsed, err := time.ParseDuration(raw)
	if err != nil {
		return fmt.Errorf("invalid duration %q: %w", raw, err)
	}
	if parsed < 0 {
		return fmt.Errorf("invalid duration %q: must not be negative", raw)
	}
	*d = Duration(parsed)
	return nil
}

// MarshalYAML implements yaml.Marshaler.
func (d Duration) MarshalYAML() (any, error) {
	return time.Duration(d).String(), nil
}

// Std returns the value as a time.Duration.
func (d Duration) Std() time.Duration { return time.Duration(d) }

// Load reads, expands, decodes, defaults and validates the configuration at path.
// .env files in the working directory are loaded first.
func Load(path string) (*Config, error) {
	loadEnvFiles(".")

	if _, err := os.Stat(path); os.IsNotExist(err) {
		return nil, ferrors.ConfigError("configuration file not found").
			WithContext("file", path).
			Build()
	}

	data, err := os.ReadFile(path) // #nosec G304 -- path comes from the operator
	if err != nil {
		return nil, ferrors.WrapError(err, ferrors.CategoryConfig, "read configuration file").
			Fatal().
			WithContext("file", path).
			Build()
	}

	cfg, err := Parse(data)
	if err != nil {
		if ce, ok := ferrors.AsClassified(err); ok {
			return nil, ce.WithContext("file", path)
		}
		return nil, err
	}
	return cfg, nil
}

// Parse decodes a configuration document held in memory.
func Parse(data []byte) (*Config, error) {
	expanded := expandEnv(string(data))

	var cfg Config
	if err := yaml.Unmarshal([]byte(expanded), &cfg); err != nil {
		return nil, ferrors.WrapError(err, ferrors.CategoryConfig, "decode configuration").Fatal().Build()
	}

	cfg.applyDefaults()

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) applyDefaults() {
	if c.BOMGroupBy == "" {
		c.BOMGroupBy = DefaultBOMGroupBy
	}
	if env := os.Getenv(KiCadCLIEnv); env != "" {
		c.KiCadCLI = env
	}
	if c.KiCadCLI == "" {
		c.KiCadCLI = DefaultKiCadCLI
	}
}

// envRef matches a ${NAME} reference with a shell-style variable name.
var envRef = regexp.MustCompile(`\$\{([A-Za-z_][A-Za-z0-9_]*)\}`)

// expandEnv substitutes ${NAME} references that are set in the environment.
// Everything else, including unset references such as ${QUANTITY}, bare
// $name and malformed ${ sequences, is kept verbatim.
func expandEnv(s string) string {
	return envRef.ReplaceAllStringFunc(s, func(ref string) string {
		if v, ok := os.LookupEnv(ref[2 : len(ref)-1]); ok {
			return v
		}
		return ref
	})
}
