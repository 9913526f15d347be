// Package pathutil provides the filesystem primitives used by test resolution
// and coverage mapping. All access goes through an afero.Fs so callers can
// substitute an in-memory filesystem.
package pathutil

import (
	"bytes"
	"os/exec"
	"path/filepath"
	"strings"

	"github.com/spf13/afero"
)

// lookPath is swapped out in tests.
var lookPath = exec.LookPath

// ResolvePath returns path as an absolute, cleaned path. Relative paths are
// resolved against root.
func ResolvePath(path, root string) string {
	if filepath.IsAbs(path) {
		return filepath.Clean(path)
	}
	return filepath.Join(root, path)
}

// Exists reports whether path exists on fs. Stat errors count as absent.
func Exists(fs afero.Fs, path string) bool {
	ok, err := afero.Exists(fs, path)
	return err == nil && ok
}

// IsDir reports whether path exists on fs and is a directory.
func IsDir(fs afero.Fs, path string) bool {
	ok, err := afero.IsDir(fs, path)
	return err == nil && ok
}

// IsDescendant reports whether path equals root or lies beneath it.
// Both arguments are compared lexically after cleaning.
func IsDescendant(path, root string) bool {
	rel, err := filepath.Rel(filepath.Clean(root), filepath.Clean(path))
	if err != nil {
		return false
	}
	if rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return false
	}
	return !filepath.IsAbs(rel)
}

// WalkToRoot returns dir followed by each of its ancestors, ending with the
// filesystem root.
func WalkToRoot(dir string) []string {
	dir = filepath.Clean(dir)
	dirs := []string{dir}
	for {
		parent := filepath.Dir(dir)
		if parent == dir {
			return dirs
		}
		dirs = append(dirs, parent)
		dir = parent
	}
}

// BinaryExists reports whether name can be found on PATH.
func BinaryExists(name string) bool {
	_, err := lookPath(name)
	return err == nil
}

// CountLines returns the number of lines in the file, counting a trailing
// line without a newline terminator.
func CountLines(fs afero.Fs, path string) (int, error) {
	data, err := afero.ReadFile(fs, path)
	if err != nil {
		return 0, err
	}
	if len(data) == 0 {
		return 0, nil
	}
	n := bytes.Count(data, []byte{'\n'})
	if data[len(data)-1] != '\n' {
		n++
	}
	return n, nil
}

// RelativeTo returns path relative to root when path lies beneath root,
// otherwise path unchanged.
func RelativeTo(path, root string) string {
	if !IsDescendant(path, root) {
		return path
	}
	rel, err := filepath.Rel(root, path)
	if err != nil {
		return path
	}
	return rel
}
