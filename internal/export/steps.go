package export

import (
	"git.home.luguber.info/inful/kicadexport/internal/config"
	"git.home.luguber.info/inful/kicadexport/internal/kicad"
	"git.home.luguber.info/inful/kicadexport/internal/workspace"
)

// StepName is a strongly-typed identifier for an export step.
type StepName string

// Canonical step names, in execution order.
const (
	StepGerbers   StepName = "gerbers"
	StepDrill     StepName = "drill"
	StepPosTop    StepName = "pos_top"
	StepPosBottom StepName = "pos_bottom"
	StepBOM       StepName = "bom"
)

// Step is one kicad-cli invocation.
type Step struct {
	Name StepName
	// Title is the progress line printed before the step runs.
	Title string
	Args  []string
}

// Pipeline is a fluent builder for ordered step definitions.
type Pipeline struct{ steps []Step }

// NewPipeline creates an empty pipeline.
func NewPipeline() *Pipeline { return &Pipeline{steps: make([]Step, 0, 5)} }

// Add appends a step unconditionally.
func (p *Pipeline) Add(name StepName, title string, args []string) *Pipeline {
	p.steps = append(p.steps, Step{Name: name, Title: title, Args: args})
	return p
}

// Build returns a copy of the step definitions.
func (p *Pipeline) Build() []Step {
	out := make([]Step, len(p.steps))
	copy(out, p.steps)
	return out
}

// StandardSteps returns the five export steps for cfg writing into tree.
func StandardSteps(cfg *config.Config, tree *workspace.Tree) []Step {
	board := cfg.BoardFile()
	return NewPipeline().
		Add(StepGerbers, "Plotting gerbers...", kicad.GerbersArgs(board, tree.Fabrication, cfg.LayerList())).
		Add(StepDrill, "Plotting drills....", kicad.DrillArgs(board, tree.Fabrication)).
		Add(StepPosTop, "Printing top component placements...", kicad.PositionArgs(board, tree.TopPositions(), kicad.SideFront)).
		Add(StepPosBottom, "Printing bottom component placements...", kicad.PositionArgs(board, tree.BottomPositions(), kicad.SideBack)).
		Add(StepBOM, "Printing BoM...", kicad.BOMArgs(cfg.SchematicFile(), tree.BOMFile(), kicad.BOMOptions{
			Fields:  cfg.BOMFieldList(),
			Labels:  cfg.BOMLabelList(),
			GroupBy: cfg.GroupBy(),
		})).
		Build()
}
