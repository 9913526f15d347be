// Package resolver locates the PHPUnit test file covering a changed source
// file by searching conventional test directory layouts.
package resolver

import (
	"path/filepath"
	"strings"

	"github.com/spf13/afero"

	"github.com/AndreyAkinshin/arcphpunit/internal/pathutil"
)

const (
	// Extension is the source file extension considered for resolution.
	Extension = ".php"

	// TestSuffix is appended to a class name to form its test class name.
	TestSuffix = "Test"
)

// DefaultTestDirs are the directory names searched when none are configured.
var DefaultTestDirs = []string{"tests", "Tests"}

// Resolver finds test files for source files inside a project.
type Resolver struct {
	fs       afero.Fs
	root     string
	testDirs []string
}

// New creates a Resolver for the project at root. An empty testDirs falls
// back to DefaultTestDirs.
func New(fs afero.Fs, root string, testDirs []string) *Resolver {
	if len(testDirs) == 0 {
		testDirs = DefaultTestDirs
	}
	dirs := make([]string, len(testDirs))
	copy(dirs, testDirs)
	return &Resolver{
		fs:       fs,
		root:     filepath.Clean(root),
		testDirs: dirs,
	}
}

// TestDirs returns the directory names the resolver searches for.
func (r *Resolver) TestDirs() []string {
	dirs := make([]string, len(r.testDirs))
	copy(dirs, r.testDirs)
	return dirs
}

// IsTestFile reports whether path follows the FooTest.php naming convention.
func IsTestFile(path string) bool {
	return strings.HasSuffix(path, TestSuffix+Extension)
}

// Identifier returns the test identifier for a test file: its base name
// without the extension.
func Identifier(path string) string {
	return strings.TrimSuffix(filepath.Base(path), Extension)
}

// Resolve returns the first existing test file for path. The path is
// resolved against the project root. Candidates outside the root and the
// input file itself (compared case-insensitively) are never returned.
func (r *Resolver) Resolve(path string) (string, bool) {
	path = pathutil.ResolvePath(path, r.root)
	if !strings.HasSuffix(path, Extension) {
		return "", false
	}

	for _, dir := range r.SearchLocations(path) {
		for _, name := range candidateNames(path) {
			full := dir + name
			if !pathutil.Exists(r.fs, full) {
				continue
			}
			if !pathutil.IsDescendant(full, r.root) {
				continue
			}
			if strings.EqualFold(filepath.Clean(full), path) {
				continue
			}
			return full, true
		}
	}
	return "", false
}

// candidateNames returns the file names a test for path may have: the same
// name, then the name with the Test suffix.
func candidateNames(path string) []string {
	file := filepath.Base(path)
	return []string{
		file,
		strings.TrimSuffix(file, Extension) + TestSuffix + Extension,
	}
}

// SearchLocations returns the directories to look in for tests covering
// path, each ending with a separator. For /a/b/c/X.php the order is:
//
//	/a/b/c/                              the file's own directory
//	/a/b/c/tests/ /a/b/tests/ ... /tests/ a tests dir in every ancestor
//	/a/b/tests/ /a/tests/c/ /tests/b/c/  each component replaced
//	/a/b/tests/c/ /a/tests/b/c/ ...      a tests dir inserted at each level
//
// Every test directory name is tried at each step. Duplicates keep their
// first position. The list is filesystem-agnostic; Resolve prunes it.
func (r *Resolver) SearchLocations(path string) []string {
	sep := string(filepath.Separator)
	dir := filepath.Dir(filepath.Clean(path))
	set := newOrderedSet()
	add := func(parts ...string) {
		set.add(strings.Join(parts, sep) + sep)
	}

	add(anchor(dir))

	for _, parent := range pathutil.WalkToRoot(dir) {
		for _, name := range r.testDirs {
			add(anchor(parent), name)
		}
	}

	var parts []string
	if trimmed := strings.Trim(dir, sep); trimmed != "" {
		parts = strings.Split(trimmed, sep)
	}

	for i := len(parts) - 1; i >= 0; i-- {
		for _, name := range r.testDirs {
			try := append([]string{""}, parts...)
			try[i+1] = name
			add(try...)
		}
	}

	for i := len(parts) - 1; i >= 0; i-- {
		for _, name := range r.testDirs {
			try := append([]string{""}, parts...)
			try[i+1] = name + sep + try[i+1]
			add(try...)
		}
	}

	return set.values()
}

// anchor maps the filesystem root to an empty prefix so joining does not
// produce a doubled separator.
func anchor(dir string) string {
	if dir == string(filepath.Separator) {
		return ""
	}
	return dir
}
