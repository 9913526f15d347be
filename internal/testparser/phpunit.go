package testparser

import (
	"regexp"
	"strconv"
	"strings"
)

var (
	phpunitOKRegex      = regexp.MustCompile(`OK \((\d+) tests?, \d+ assertions?\)`)
	phpunitSummaryRegex = regexp.MustCompile(`(?m)^Tests: (\d+), Assertions: \d+(.*)$`)
	phpunitFieldRegex   = regexp.MustCompile(`(Errors|Failures|Warnings|Skipped|Incomplete): (\d+)`)
)

// PHPUnitParser parses the summary PHPUnit prints after a run.
type PHPUnitParser struct{}

// Name returns the parser name.
func (p *PHPUnitParser) Name() string {
	return "phpunit"
}

// Parse extracts test counts from PHPUnit output.
// PHPUnit ends a run with one of:
//
//	OK (5 tests, 10 assertions)
//
//	OK, but incomplete, skipped, or risky tests!
//	Tests: 5, Assertions: 8, Skipped: 1, Risky: 1.
//
//	FAILURES!
//	Tests: 5, Assertions: 8, Errors: 1, Failures: 1, Incomplete: 1.
//
// Only the last summary is used when the output holds several.
func (p *PHPUnitParser) Parse(output string) TestCounts {
	counts := TestCounts{}

	if all := phpunitSummaryRegex.FindAllStringSubmatch(output, -1); len(all) > 0 {
		match := all[len(all)-1]
		counts.Total, _ = strconv.Atoi(match[1])
		for _, field := range phpunitFieldRegex.FindAllStringSubmatch(match[2], -1) {
			n, _ := strconv.Atoi(field[2])
			switch field[1] {
			case "Errors", "Failures":
				counts.Failed += n
			case "Skipped", "Incomplete", "Warnings":
				counts.Skipped += n
			}
		}
		counts.Passed = max(counts.Total-counts.Failed-counts.Skipped, 0)
		counts.Parsed = true
		return counts
	}

	if all := phpunitOKRegex.FindAllStringSubmatch(output, -1); len(all) > 0 {
		counts.Total, _ = strconv.Atoi(all[len(all)-1][1])
		counts.Passed = counts.Total
		counts.Parsed = true
		return counts
	}

	if strings.Contains(output, "No tests executed!") {
		counts.Parsed = true
	}
	return counts
}
