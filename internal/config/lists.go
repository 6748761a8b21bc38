package config

import (
	"path/filepath"
	"strings"
)

// LayerList returns the configured layers, trimmed, in order, without empty entries.
func (c *Config) LayerList() []string { return splitNonEmpty(c.Layers) }

// BOMFieldList returns the BOM fields trimmed. Empty entries are kept so
// fields and labels stay positionally aligned.
func (c *Config) BOMFieldList() []string { return splitTrim(c.BOMFields) }

// BOMLabelList returns the BOM labels trimmed, empty entries kept.
func (c *Config) BOMLabelList() []string { return splitTrim(c.BOMLabels) }

// GroupBy returns the group-by fields re-joined with commas.
func (c *Config) GroupBy() string {
	groups := splitNonEmpty(c.BOMGroupBy)
	if len(groups) == 0 {
		return DefaultBOMGroupBy
	}
	return strings.Join(groups, ",")
}

// ExtraFileList returns the extra file names, empty entries dropped.
func (c *Config) ExtraFileList() []string { return splitNonEmpty(c.ExtraFiles) }

// BoardFile is the .kicad_pcb path derived from project_dir and project_name.
func (c *Config) BoardFile() string {
	return filepath.Join(c.ProjectDir, c.ProjectName+".kicad_pcb")
}

// SchematicFile is the root .kicad_sch path.
func (c *Config) SchematicFile() string {
	return filepath.Join(c.ProjectDir, c.ProjectName+".kicad_sch")
}

func splitTrim(s string) []string {
	if strings.TrimSpace(s) == "" {
		return nil
	}
	parts := strings.Split(s, ",")
	for i := range parts {
		parts[i] = strings.TrimSpace(parts[i])
	}
	return parts
}

func splitNonEmpty(s string) []string {
	var out []string
	for _, p := range strings.Split(s, ",") {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
