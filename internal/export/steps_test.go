package export

import (
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"

	"git.home.luguber.info/inful/kicadexport/internal/config"
	"git.home.luguber.info/inful/kicadexport/internal/workspace"
)

func TestStandardSteps(t *testing.T) {
	cfg := &config.Config{
		ProjectName: "p",
		ProjectDir:  "src",
		OutputDir:   "build",
		Layers:      " F.Cu , B.Cu,,Edge.Cuts ",
		BOMFields:   "Reference, Value",
		BOMLabels:   "Refs,Value",
		BOMGroupBy:  "Value, Footprint",
	}
	steps := StandardSteps(cfg, workspace.NewTree(cfg.OutputDir, cfg.ProjectName))

	names := make([]StepName, len(steps))
	for i, s := range steps {
		names[i] = s.Name
	}
	if diff := cmp.Diff([]StepName{StepGerbers, StepDrill, StepPosTop, StepPosBottom, StepBOM}, names); diff != "" {
		t.Fatalf("step order mismatch (-want +got):\n%s", diff)
	}

	assert.Equal(t, "Plotting gerbers...", steps[0].Title)
	assert.Contains(t, steps[0].Args, "F.Cu,B.Cu,Edge.Cuts")
	assert.Equal(t, filepath.Join("src", "p.kicad_pcb"), steps[0].Args[len(steps[0].Args)-1])
	assert.Contains(t, steps[2].Args, filepath.Join("build", "p-assembly", "p-top.pos"))
	assert.Contains(t, steps[3].Args, filepath.Join("build", "p-assembly", "p-bottom.pos"))
	assert.Contains(t, steps[4].Args, "Value,Footprint")
	assert.Contains(t, steps[4].Args, "Reference,Value")
	assert.Equal(t, filepath.Join("src", "p.kicad_sch"), steps[4].Args[len(steps[4].Args)-1])
}

func TestPipelineBuildReturnsCopy(t *testing.T) {
	p := NewPipeline().
		Add(StepGerbers, "g", nil).
		Add(StepBOM, "b", nil)
	steps := p.Build()
	steps[0].Name = StepDrill

	again := p.Build()
	assert.Len(t, again, 2)
	assert.Equal(t, StepGerbers, again[0].Name)
	assert.Equal(t, StepBOM, again[1].Name)
}
