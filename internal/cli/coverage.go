package cli

import (
	"sort"

	"github.com/AndreyAkinshin/arcphpunit/internal/coverage"
	"github.com/AndreyAkinshin/arcphpunit/internal/report"
)

// fileCoverage summarizes one coverage string.
type fileCoverage struct {
	path       string
	covered    int
	statements int
}

func (f fileCoverage) percent() float64 {
	if f.statements == 0 {
		return 0
	}
	return 100 * float64(f.covered) / float64(f.statements)
}

// coveredFiles summarizes the run-wide coverage map carried by outcomes,
// sorted by path.
func coveredFiles(outcomes []report.Outcome) []fileCoverage {
	var cov map[string]string
	for _, o := range outcomes {
		if len(o.Coverage) > 0 {
			cov = o.Coverage
			break
		}
	}

	files := make([]fileCoverage, 0, len(cov))
	for path, lines := range cov {
		f := fileCoverage{path: path}
		for _, m := range lines {
			switch m {
			case coverage.Covered:
				f.covered++
				f.statements++
			case coverage.Uncovered:
				f.statements++
			}
		}
		files = append(files, f)
	}
	sort.Slice(files, func(i, j int) bool { return files[i].path < files[j].path })
	return files
}
