package cli

import (
	"encoding/json"
	"fmt"
	"io"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
	"gopkg.in/yaml.v3"

	"github.com/AndreyAkinshin/arcphpunit/internal/errors"
	"github.com/AndreyAkinshin/arcphpunit/internal/report"
)

// Output formats.
const (
	formatText = "text"
	formatJSON = "json"
	formatYAML = "yaml"
)

func validateFormat(format string) error {
	switch format {
	case formatText, formatJSON, formatYAML:
		return nil
	default:
		return errors.Configf("invalid --format %q (want text, json or yaml)", format)
	}
}

// encode writes v as JSON or YAML.
func encode(w io.Writer, format string, v interface{}) error {
	switch format {
	case formatJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(v)
	case formatYAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(v); err != nil {
			return err
		}
		return enc.Close()
	default:
		return fmt.Errorf("unsupported format %q", format)
	}
}

// runResult is the machine-readable result of run and parse.
type runResult struct {
	Outcomes []report.Outcome `json:"outcomes" yaml:"outcomes"`
	Summary  report.Summary   `json:"summary" yaml:"summary"`
}

// renderOutcomes prints outcomes in the requested format and returns
// errTestsFailed when any test failed or broke.
func renderOutcomes(w io.Writer, format string, outcomes []report.Outcome) error {
	summary := report.Summarize(outcomes)

	if format == formatText {
		printOutcomes(outcomes, &summary)
	} else {
		if outcomes == nil {
			outcomes = []report.Outcome{}
		}
		if err := encode(w, format, runResult{Outcomes: outcomes, Summary: summary}); err != nil {
			return errors.Wrap(err, "failed to write results")
		}
	}

	if !summary.OK() {
		return errTestsFailed
	}
	return nil
}

var title = cases.Title(language.English)

// printOutcomes prints a human-readable report.
func printOutcomes(outcomes []report.Outcome, summary *report.Summary) {
	for _, o := range outcomes {
		message := o.Message
		if o.Status == report.StatusPass {
			message = ""
		}
		out.Status(string(o.Status), o.Name, o.Duration, message)
	}

	if covered := coveredFiles(outcomes); len(covered) > 0 {
		out.Section("Coverage")
		rows := make([][]string, 0, len(covered))
		for _, c := range covered {
			rows = append(rows, []string{c.path, fmt.Sprintf("%d/%d", c.covered, c.statements), fmt.Sprintf("%.1f%%", c.percent())})
		}
		out.Table([]string{"FILE", "LINES", "COVERED"}, rows)
	}

	if suites := report.SummarizeBySuite(outcomes); len(suites) > 1 {
		out.Section("Suites")
		rows := make([][]string, 0, len(suites))
		for _, s := range suites {
			rows = append(rows, []string{
				s.Suite,
				fmt.Sprintf("%d", s.Passed),
				fmt.Sprintf("%d", s.Failed+s.Broken),
				fmt.Sprintf("%d", s.Skipped),
				fmt.Sprintf("%.3fs", s.Duration),
			})
		}
		out.Table([]string{"SUITE", "PASSED", "FAILED", "SKIPPED", "TIME"}, rows)
	}

	out.Section("Test Summary")
	counts := []struct {
		status report.Status
		n      int
	}{
		{report.StatusPass, summary.Passed},
		{report.StatusFail, summary.Failed},
		{report.StatusSkip, summary.Skipped},
		{report.StatusBroken, summary.Broken},
	}
	for _, c := range counts {
		if c.n == 0 && c.status != report.StatusPass {
			continue
		}
		label := title.String(string(c.status))
		value := fmt.Sprintf("%d", c.n)
		if c.status.Failed() {
			out.SummaryFailed(label, value)
		} else if c.status == report.StatusPass {
			out.SummaryPassed(label, value)
		} else {
			out.SummaryItem(label, value)
		}
	}
	out.SummaryItem("Total", fmt.Sprintf("%d", summary.Total))
	out.SummaryItem("Time", fmt.Sprintf("%.3fs", summary.Duration))

	if summary.OK() {
		out.FinalSuccess("All %d tests passed.", summary.Passed)
	} else {
		out.FinalFailure("%d of %d tests failed.", summary.Failed+summary.Broken, summary.Total)
	}
}
