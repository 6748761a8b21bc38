// Package export runs the KiCad manufacturing export.
//
// A run resets the output tree, executes the five kicad-cli steps
// (gerbers, drill, pos_top, pos_bottom, bom), copies extra files into the
// output root and, when every step succeeded, zips the tree.
//
// Steps are an ordered list of named definitions. The same list is driven
// sequentially or concurrently, in best-effort or fail-fast mode; every
// step's outcome is captured in a Report. Observers receive progress
// callbacks (console output, metrics) without the orchestrator knowing
// about either.
package export
