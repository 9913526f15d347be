package report

import (
	"bytes"
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/AndreyAkinshin/arcphpunit/internal/errors"
	"github.com/AndreyAkinshin/arcphpunit/internal/xmltree"
)

// PreviewLength bounds the report excerpt included in parse errors.
const PreviewLength = 150

// anonymousWarning is the test name PHPUnit uses for framework-level
// warnings that do not belong to a real test method.
const anonymousWarning = "Warning"

// Parser converts JUnit XML into outcomes.
type Parser struct{}

// NewParser creates a Parser.
func NewParser() *Parser {
	return &Parser{}
}

// Parse converts a JUnit report into outcomes. Empty content means the run
// produced no report; the result is a single broken outcome named after
// filter carrying stderr. A non-nil cov is attached to every outcome.
func (p *Parser) Parse(content []byte, cov map[string]string, filter, stderr string) ([]Outcome, error) {
	if len(bytes.TrimSpace(content)) == 0 {
		return []Outcome{Broken(filter, stderr)}, nil
	}

	root, err := xmltree.Parse(content)
	if err != nil {
		return nil, errors.MalformedReport(
			fmt.Sprintf("Failed to load XUnit report; Input starts with:\n\n%s", xmltree.Preview(content, PreviewLength)),
			err,
		)
	}

	testcases := root.Descendants("testcase")
	if root.Name == "testcase" {
		testcases = append([]*xmltree.Node{root}, testcases...)
	}

	outcomes := make([]Outcome, 0, len(testcases))
	for _, tc := range testcases {
		o := outcome(tc)
		if cov != nil {
			o.Coverage = cov
		}
		outcomes = append(outcomes, o)
	}
	return outcomes, nil
}

// Broken returns the outcome reported when a run produced no report.
func Broken(name, stderr string) Outcome {
	return Outcome{
		Name:    name,
		Status:  StatusBroken,
		Message: stderr,
	}
}

// outcome builds the result for one <testcase>. Each marker category is
// checked in order of increasing severity, so the last one present wins.
func outcome(tc *xmltree.Node) Outcome {
	o := Outcome{
		Status:   StatusPass,
		Duration: parseDuration(tc.Attr("time")),
	}

	var msg strings.Builder
	if texts := markerTexts(tc, "skipped"); texts != nil {
		o.Status = StatusSkip
		msg.WriteString(strings.Join(texts, "\n"))
	}
	if texts := markerTexts(tc, "warning"); texts != nil {
		o.Status = StatusSkip
		msg.WriteString(strings.Join(texts, "\n"))
	}
	if texts := markerTexts(tc, "failure"); texts != nil {
		o.Status = StatusFail
		msg.WriteString(strings.Join(texts, "\n") + "\n")
	}
	if texts := markerTexts(tc, "error"); texts != nil {
		o.Status = StatusBroken
		msg.WriteString(strings.Join(texts, "\n") + "\n")
	}
	o.Message = msg.String()

	if name := tc.Attr("name"); name != anonymousWarning {
		o.Name = tc.Attr("class") + "::" + name
	}
	return o
}

// markerTexts returns the trimmed text of every name element below tc, or
// nil when there is none.
func markerTexts(tc *xmltree.Node, name string) []string {
	nodes := tc.Descendants(name)
	if len(nodes) == 0 {
		return nil
	}
	texts := make([]string, len(nodes))
	for i, n := range nodes {
		texts[i] = strings.Trim(n.Text(), " \n")
	}
	return texts
}

// parseDuration reads a time attribute in seconds; missing or invalid
// values are zero.
func parseDuration(s string) float64 {
	d, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil || math.IsNaN(d) || math.IsInf(d, 0) {
		return 0
	}
	return d
}
