package workspace

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"git.home.luguber.info/inful/kicadexport/internal/logfields"
)

// Tree describes the output directory layout for one project.
type Tree struct {
	Project     string
	Root        string
	Fabrication string
	Assembly    string
	BOM         string
}

// NewTree derives the layout for project under root. Nothing is created.
func NewTree(root, project string) *Tree {
	return &Tree{
		Project:     project,
		Root:        root,
		Fabrication: filepath.Join(root, project+"-fabrication"),
		Assembly:    filepath.Join(root, project+"-assembly"),
		BOM:         filepath.Join(root, project+"-bom"),
	}
}

// Dirs returns the three subdirectories in creation order.
func (t *Tree) Dirs() []string {
	return []string{t.Fabrication, t.Assembly, t.BOM}
}

// TopPositions is the pick-and-place file for the front side.
func (t *Tree) TopPositions() string {
	return filepath.Join(t.Assembly, t.Project+"-top.pos")
}

// BottomPositions is the pick-and-place file for the back side.
func (t *Tree) BottomPositions() string {
	return filepath.Join(t.Assembly, t.Project+"-bottom.pos")
}

// BOMFile is the CSV bill of materials.
func (t *Tree) BOMFile() string {
	return filepath.Join(t.BOM, t.Project+".csv")
}

// Remove deletes the output root and everything beneath it.
// A missing root is not an error.
func (t *Tree) Remove() error {
	if t.Root == "" {
		return fmt.Errorf("output root not set")
	}
	if err := os.RemoveAll(t.Root); err != nil {
		return fmt.Errorf("failed to remove output tree: %w", err)
	}
	slog.Debug("Removed output tree", logfields.Path(t.Root))
	return nil
}

// Create makes the root and the three subdirectories.
func (t *Tree) Create() error {
	for _, dir := range t.Dirs() {
		if err := os.MkdirAll(dir, 0o750); err != nil {
			return fmt.Errorf("failed to create output directory %s: %w", dir, err)
		}
	}
	slog.Debug("Created output tree", logfields.Path(t.Root))
	return nil
}
