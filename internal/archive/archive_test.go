package archive

import (
	"io"
	"os"
	"path/filepath"
	"sort"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/klauspost/compress/zip"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeTree(t *testing.T, root string, files map[string]string) {
	t.Helper()
	for rel, body := range files {
		p := filepath.Join(root, filepath.FromSlash(rel))
		require.NoError(t, os.MkdirAll(filepath.Dir(p), 0o750))
		require.NoError(t, os.WriteFile(p, []byte(body), 0o600))
	}
}

func readArchive(t *testing.T, path string) map[string]string {
	t.Helper()
	r, err := zip.OpenReader(path)
	require.NoError(t, err)
	defer func() { _ = r.Close() }()

	out := map[string]string{}
	for _, f := range r.File {
		assert.Equal(t, zip.Deflate, f.Method, f.Name)
		rc, err := f.Open()
		require.NoError(t, err)
		data, err := io.ReadAll(rc)
		require.NoError(t, err)
		_ = rc.Close()
		out[f.Name] = string(data)
	}
	return out
}

func TestCreateRoundTrip(t *testing.T) {
	base := t.TempDir()
	root := filepath.Join(base, "build")
	files := map[string]string{
		"p-fabrication/p-F_Cu.gbr": "G04*",
		"p-fabrication/p.drl":      "M48",
		"p-assembly/p-top.pos":     "top",
		"p-bom/p.csv":              "Reference,Value",
		"README.md":                "readme",
	}
	writeTree(t, root, files)
	dest := filepath.Join(base, "project-archive.zip")

	info, err := Create(root, dest)
	require.NoError(t, err)
	assert.Equal(t, dest, info.Path)
	assert.Equal(t, len(files), info.Entries)

	want := map[string]string{}
	for rel, body := range files {
		want["build/"+rel] = body
	}
	if diff := cmp.Diff(want, readArchive(t, dest)); diff != "" {
		t.Fatalf("archive contents mismatch (-want +got):\n%s", diff)
	}
}

func TestCreateExcludesItselfInsideTree(t *testing.T) {
	root := filepath.Join(t.TempDir(), "out")
	writeTree(t, root, map[string]string{"a.txt": "a"})
	dest := filepath.Join(root, "bundle.zip")

	info, err := Create(root, dest)
	require.NoError(t, err)
	assert.Equal(t, 1, info.Entries)

	names := make([]string, 0)
	for name := range readArchive(t, dest) {
		names = append(names, name)
	}
	sort.Strings(names)
	assert.Equal(t, []string{"out/a.txt"}, names)

	leftovers, err := filepath.Glob(filepath.Join(root, "bundle.zip.tmp-*"))
	require.NoError(t, err)
	assert.Empty(t, leftovers)
}

func TestCreateOverwritesExistingArchive(t *testing.T) {
	base := t.TempDir()
	root := filepath.Join(base, "build")
	writeTree(t, root, map[string]string{"x.txt": "new"})
	dest := filepath.Join(base, "a.zip")
	require.NoError(t, os.WriteFile(dest, []byte("not a zip"), 0o600))

	_, err := Create(root, dest)
	require.NoError(t, err)
	assert.Equal(t, map[string]string{"build/x.txt": "new"}, readArchive(t, dest))
}

func TestCreateMissingSource(t *testing.T) {
	base := t.TempDir()
	_, err := Create(filepath.Join(base, "missing"), filepath.Join(base, "a.zip"))
	require.Error(t, err)
	assert.NoFileExists(t, filepath.Join(base, "a.zip"))
}
