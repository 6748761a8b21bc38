// Package archive bundles the export output tree into a zip file.
package archive

import (
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/klauspost/compress/zip"

	"git.home.luguber.info/inful/kicadexport/internal/logfields"
)

// Info describes a written archive.
type Info struct {
	Path    string `json:"path"`
	Entries int    `json:"entries"`
}

// Create walks srcDir and writes every regular file into a deflate zip at
// dest. Entry names are "<base of srcDir>/<slash-separated relative path>".
// If dest lies inside srcDir it is not archived into itself. The archive is
// assembled in a temporary file next to dest and renamed into place.
func Create(srcDir, dest string) (Info, error) {
	root, err := filepath.Abs(filepath.Clean(srcDir))
	if err != nil {
		return Info{}, fmt.Errorf("failed to resolve archive source: %w", err)
	}
	destAbs, err := filepath.Abs(dest)
	if err != nil {
		return Info{}, fmt.Errorf("failed to resolve archive path: %w", err)
	}

	tmp, err := os.CreateTemp(filepath.Dir(destAbs), filepath.Base(destAbs)+".tmp-*")
	if err != nil {
		return Info{}, fmt.Errorf("failed to create temporary archive: %w", err)
	}
	tmpPath := tmp.Name()
	cleanup := func() {
		_ = tmp.Close()
		_ = os.Remove(tmpPath)
	}

	prefix := filepath.Base(root)
	zw := zip.NewWriter(tmp)
	entries := 0
	walkErr := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.Type().IsRegular() {
			return nil
		}
		if path == destAbs || path == tmpPath {
			return nil
		}
		rel, err := filepath.Rel(root, path)
		if err != nil {
			return err
		}
		if err := addFile(zw, path, prefix+"/"+filepath.ToSlash(rel)); err != nil {
			return err
		}
		entries++
		return nil
	})
	if walkErr != nil {
		_ = zw.Close()
		cleanup()
		return Info{}, fmt.Errorf("failed to archive %s: %w", srcDir, walkErr)
	}
	if err := zw.Close(); err != nil {
		cleanup()
		return Info{}, fmt.Errorf("failed to finalize archive: %w", err)
	}
	if err := tmp.Close(); err != nil {
		_ = os.Remove(tmpPath)
		return Info{}, fmt.Errorf("failed to close archive: %w", err)
	}
	if err := os.Rename(tmpPath, destAbs); err != nil {
		_ = os.Remove(tmpPath)
		return Info{}, fmt.Errorf("failed to move archive into place: %w", err)
	}

	slog.Debug("Wrote archive", logfields.Path(dest), slog.Int("entries", entries))
	return Info{Path: dest, Entries: entries}, nil
}

func addFile(zw *zip.Writer, path, name string) error {
	info, err := os.Stat(path)
	if err != nil {
		return err
	}
	hdr, err := zip.FileInfoHeader(info)
	if err != nil {
		return err
	}
	hdr.Name = name
	hdr.Method = zip.Deflate

	w, err := zw.CreateHeader(hdr)
	if err != nil {
		return err
	}
	f, err := os.Open(path) // #nosec G304 -- walking our own output tree
	if err != nil {
		return err
	}
	defer func() {
		_ = f.Close()
	}()
	_, err = io.Copy(w, f)
	return err
}
