// Package coverage maps PHPUnit's Clover XML report onto per-line coverage
// strings for the source files under test.
package coverage

import (
	"bytes"
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/afero"

	"github.com/AndreyAkinshin/arcphpunit/internal/errors"
	"github.com/AndreyAkinshin/arcphpunit/internal/pathutil"
	"github.com/AndreyAkinshin/arcphpunit/internal/xmltree"
)

// Line markers.
const (
	NotExecutable = 'N'
	Covered       = 'C'
	Uncovered     = 'U'
)

// statementType is the Clover line type that carries statement coverage.
const statementType = "stmt"

// Map holds one coverage string per project-relative source path. Each
// string has one marker per line of the file.
type Map map[string]string

// Mapper builds coverage maps for a project.
type Mapper struct {
	fs   afero.Fs
	root string
}

// New creates a Mapper that reads source files from fs and keys results
// relative to root.
func New(fs afero.Fs, root string) *Mapper {
	return &Mapper{fs: fs, root: root}
}

// Build parses a Clover report. Only files that are keys of affected are
// mapped, and files without a single covered line are dropped. Empty
// content yields an empty map.
func (m *Mapper) Build(content []byte, affected map[string]string) (Map, error) {
	result := Map{}
	if len(bytes.TrimSpace(content)) == 0 {
		return result, nil
	}

	root, err := xmltree.Parse(content)
	if err != nil {
		return nil, errors.MalformedReport(
			fmt.Sprintf("Failed to load Clover report; Input starts with:\n\n%s", xmltree.Preview(content, 150)),
			err,
		)
	}

	for _, file := range root.Descendants("file") {
		path := file.Attr("name")
		if _, ok := affected[path]; !ok {
			continue
		}

		lines, anyCovered, err := m.fileCoverage(path, file)
		if err != nil {
			return nil, err
		}
		if !anyCovered {
			continue
		}
		result[pathutil.RelativeTo(path, m.root)] = lines
	}
	return result, nil
}

// fileCoverage returns the marker string for one <file> element and whether
// any line in it was covered.
func (m *Mapper) fileCoverage(path string, file *xmltree.Node) (string, bool, error) {
	count, err := pathutil.CountLines(m.fs, path)
	if err != nil {
		return "", false, errors.FileError(path, "failed to read covered source file", err)
	}

	markers := []byte(strings.Repeat(string(NotExecutable), count))
	anyCovered := false
	for _, line := range file.Descendants("line") {
		if line.Attr("type") != statementType {
			continue
		}
		num, err := strconv.Atoi(line.Attr("num"))
		if err != nil || num < 1 || num > count {
			continue
		}
		hits, _ := strconv.ParseInt(line.Attr("count"), 10, 64)
		if hits > 0 {
			markers[num-1] = Covered
			anyCovered = true
		} else {
			markers[num-1] = Uncovered
		}
	}
	return string(markers), anyCovered, nil
}
