// Package kicad wraps the kicad-cli command-line tool.
//
// Argument builders produce the exact argument vectors for each export;
// a Runner executes them. BinaryRunner shells out to the real binary,
// DryRunner only prints what would run, and tests substitute their own.
package kicad
