// Package extras copies operator-supplied files (README, fab notes, ...)
// into the root of the export output directory.
package extras

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"

	"git.home.luguber.info/inful/kicadexport/internal/logfields"
)

// Result lists what happened to each configured file.
type Result struct {
	Copied  []string `json:"copied,omitempty"`
	Missing []string `json:"missing,omitempty"`
}

// Copy copies each file in files into destDir, keeping only its base name.
// Relative names resolve against the working directory. Missing files and
// directories are logged and recorded in Missing; an existing destination
// file is overwritten.
func Copy(files []string, destDir string) (Result, error) {
	var res Result
	for _, name := range files {
		if name == "" {
			continue
		}
		src, err := filepath.Abs(name)
		if err != nil {
			return res, fmt.Errorf("failed to resolve extra file %s: %w", name, err)
		}

		info, err := os.Stat(src)
		switch {
		case os.IsNotExist(err):
			slog.Warn("Extra file not found, skipping", logfields.File(name))
			res.Missing = append(res.Missing, name)
			continue
		case err != nil:
			return res, fmt.Errorf("failed to stat extra file %s: %w", name, err)
		case info.IsDir():
			slog.Warn("Extra file is a directory, skipping", logfields.File(name))
			res.Missing = append(res.Missing, name)
			continue
		}

		dst := filepath.Join(destDir, filepath.Base(src))
		if err := copyFile(src, dst, info.Mode()); err != nil {
			return res, fmt.Errorf("failed to copy extra file %s: %w", name, err)
		}
		slog.Debug("Copied extra file", logfields.File(name), logfields.Path(dst))
		res.Copied = append(res.Copied, filepath.Base(src))
	}
	return res, nil
}

func copyFile(src, dst string, mode os.FileMode) error {
	srcFile, err := os.Open(src) // #nosec G304 -- path comes from configuration
	if err != nil {
		return err
	}
	defer func() {
		_ = srcFile.Close()
	}()

	dstFile, err := os.Create(dst) // #nosec G304 -- destination inside the output tree
	if err != nil {
		return err
	}
	defer func() {
		_ = dstFile.Close()
	}()

	if _, err := io.Copy(dstFile, srcFile); err != nil {
		return err
	}
	if err := dstFile.Close(); err != nil {
		return err
	}
	return os.Chmod(dst, mode.Perm())
}
