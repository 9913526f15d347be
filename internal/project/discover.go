package project

import (
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// excludedDirs are never scanned for tests.
var excludedDirs = map[string]bool{
	"vendor":       true,
	"node_modules": true,
	".git":         true,
	".arc":         true,
}

// DiscoverTestDirs finds directories within the first two levels of root that
// directly contain *Test.php files. Paths are relative to root and sorted.
func DiscoverTestDirs(root string) []string {
	var dirs []string
	scan := func(rel string) {
		if hasTestFiles(filepath.Join(root, rel)) {
			dirs = append(dirs, rel)
		}
	}

	for _, first := range subdirs(root) {
		scan(first)
		for _, second := range subdirs(filepath.Join(root, first)) {
			scan(filepath.Join(first, second))
		}
	}

	sort.Strings(dirs)
	return dirs
}

func subdirs(dir string) []string {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil
	}
	var names []string
	for _, entry := range entries {
		if !entry.IsDir() || excludedDirs[entry.Name()] || strings.HasPrefix(entry.Name(), ".") {
			continue
		}
		names = append(names, entry.Name())
	}
	return names
}

func hasTestFiles(dir string) bool {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return false
	}
	for _, entry := range entries {
		if !entry.IsDir() && strings.HasSuffix(entry.Name(), "Test.php") {
			return true
		}
	}
	return false
}
