package config

import (
	"fmt"
	"strings"

	ferrors "git.home.luguber.info/inful/kicadexport/internal/foundation/errors"
)

// Validate checks required keys and the field/label cardinality invariant.
// A cardinality mismatch is a warning unless strict_bom is set.
func (c *Config) Validate() error {
	var missing []string
	required := []struct {
		key   string
		value string
	}{
		{"project_name", c.ProjectName},
		{"project_dir", c.ProjectDir},
		{"output_dir", c.OutputDir},
		{"layers", c.Layers},
		{"bom_fields", c.BOMFields},
		{"bom_labels", c.BOMLabels},
	}
	for _, r := range required {
		if strings.TrimSpace(r.value) == "" {
			missing = append(missing, r.key)
		}
	}
	if len(missing) > 0 {
		return ferrors.ConfigError("missing required configuration keys: " + strings.Join(missing, ", ")).
			WithContext("keys", missing).
			Build()
	}

	if len(c.LayerList()) == 0 {
		return ferrors.ValidationError("layers lists no layer names").Build()
	}

	fields, labels := c.BOMFieldList(), c.BOMLabelList()
	if len(fields) != len(labels) {
		msg := fmt.Sprintf("bom_fields has %d entries but bom_labels has %d", len(fields), len(labels))
		if c.StrictBOM {
			return ferrors.ValidationError(msg).
				WithContext("fields", len(fields)).
				WithContext("labels", len(labels)).
				Build()
		}
		c.Warnings = append(c.Warnings, msg)
	}
	return nil
}
