package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	ferrors "git.home.luguber.info/inful/kicadexport/internal/foundation/errors"
)

// ExampleFileName is where --generate-example writes its document.
const ExampleFileName = "config-example.yaml"

// Example returns the documented example configuration. Only the nine
// documented keys are set so the marshaled document lists exactly those.
func Example() Config {
	return Config{
		ProjectName: "bugg-main-r5",
		ZipFile:     "project-archive.zip",
		ProjectDir:  "./src",
		OutputDir:   "./build",
		Layers:      "F.Cu,B.Cu,In1.Cu,In2.Cu,In3.Cu,In4.Cu,F.Silkscreen,B.Silkscreen,F.Mask,B.Mask,F.Paste,B.Paste,Edge.Cuts,User.1",
		BOMFields:   "Reference,Value,Voltage,Tempco,Tolerance,Footprint,Manufacturer,MPN,Mouser,Digikey,${QUANTITY}",
		BOMLabels:   "Reference,Value,Voltage,Tempco,Tolerance,Footprint,Manufacturer,MPN,Mouser,Digikey,Qty",
		BOMGroupBy:  "Value",
		ExtraFiles:  "file1.txt,file2.txt",
	}
}

// WriteExample writes the example configuration to path, replacing any existing file.
func WriteExample(path string) error {
	example := Example()
	data, err := yaml.Marshal(&example)
	if err != nil {
		return ferrors.WrapError(err, ferrors.CategoryInternal, "marshal example configuration").Fatal().Build()
	}
	if err := os.WriteFile(path, data, 0o644); err != nil { // #nosec G306 -- config is meant to be shared
		return ferrors.WrapError(err, ferrors.CategoryFileSystem, "write example configuration").
			Fatal().
			WithContext("file", path).
			Build()
	}
	return nil
}

// String renders a short identification of the config for logs.
func (c *Config) String() string {
	return fmt.Sprintf("project=%s project_dir=%s output_dir=%s", c.ProjectName, c.ProjectDir, c.OutputDir)
}
