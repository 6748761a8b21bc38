package kicad

import (
	"os"
	"strings"
)

// Side selects the board face for component position exports.
type Side string

const (
	SideFront Side = "front"
	SideBack  Side = "back"
)

// GerbersArgs plots the given layers of board into outDir.
func GerbersArgs(board, outDir string, layers []string) []string {
	return []string{
		"pcb", "export", "gerbers",
		"--output", dirArg(outDir),
		"--layers", strings.Join(layers, ","),
		board,
	}
}

// DrillArgs writes Excellon drill files with plated and non-plated holes separated.
func DrillArgs(board, outDir string) []string {
	return []string{
		"pcb", "export", "drill",
		"--output", dirArg(outDir),
		board,
		"--excellon-separate-th",
	}
}

// PositionArgs writes a pick-and-place .pos file for one side of the board,
// in millimetres relative to the drill origin, without DNP parts.
func PositionArgs(board, outFile string, side Side) []string {
	return []string{
		"pcb", "export", "pos",
		"--output", outFile,
		"--units", "mm",
		"--use-drill-file-origin",
		"--exclude-dnp",
		board,
		"--side", string(side),
	}
}

// BOMOptions controls the schematic BOM export. Fields and Labels are
// positional: Labels[i] is the column header for Fields[i].
type BOMOptions struct {
	Fields            []string
	Labels            []string
	GroupBy           string
	RefRangeDelimiter string
}

// BOMArgs exports the schematic BOM as CSV into outFile.
func BOMArgs(schematic, outFile string, opts BOMOptions) []string {
	return []string{
		"sch", "export", "bom",
		"--output", outFile,
		"--fields", strings.Join(opts.Fields, ","),
		"--labels", strings.Join(opts.Labels, ","),
		"--group-by", opts.GroupBy,
		"--ref-range-delimiter", opts.RefRangeDelimiter,
		schematic,
	}
}

// dirArg keeps a trailing separator so kicad-cli treats the output as a directory.
func dirArg(dir string) string {
	if strings.HasSuffix(dir, string(os.PathSeparator)) {
		return dir
	}
	return dir + string(os.PathSeparator)
}
