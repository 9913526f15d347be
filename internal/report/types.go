// Package report turns PHPUnit's JUnit XML report into normalized test
// outcomes.
package report

import "strings"

// Status is the result of a single test case.
type Status string

// Outcome statuses, from least to most severe.
const (
	StatusPass   Status = "pass"
	StatusSkip   Status = "skip"
	StatusFail   Status = "fail"
	StatusBroken Status = "broken"
)

// Failed reports whether s should fail the run.
func (s Status) Failed() bool {
	return s == StatusFail || s == StatusBroken
}

// Outcome is one test case as reported to the host.
type Outcome struct {
	Name     string            `json:"name" yaml:"name"`
	Status   Status            `json:"status" yaml:"status"`
	Duration float64           `json:"duration" yaml:"duration"`
	Message  string            `json:"message,omitempty" yaml:"message,omitempty"`
	Coverage map[string]string `json:"coverage,omitempty" yaml:"coverage,omitempty"`
}

// FailedTest holds information about a single failed or broken test.
type FailedTest struct {
	Name   string `json:"name" yaml:"name"`
	Reason string `json:"reason" yaml:"reason"`
}

// Summary holds aggregated outcome counts.
type Summary struct {
	Passed      int          `json:"passed" yaml:"passed"`
	Failed      int          `json:"failed" yaml:"failed"`
	Skipped     int          `json:"skipped" yaml:"skipped"`
	Broken      int          `json:"broken" yaml:"broken"`
	Total       int          `json:"total" yaml:"total"`
	Duration    float64      `json:"duration" yaml:"duration"`
	FailedTests []FailedTest `json:"failed_tests,omitempty" yaml:"failed_tests,omitempty"`
}

// SuiteSummary is the Summary of one test class.
type SuiteSummary struct {
	Suite string `json:"suite" yaml:"suite"`
	Summary
}

// Suite returns the class part of a "Class::method" outcome name, or the
// whole name when it has no method part.
func Suite(name string) string {
	suite, _, _ := strings.Cut(name, "::")
	return suite
}

// SummarizeBySuite counts outcomes per suite, in order of first appearance.
func SummarizeBySuite(outcomes []Outcome) []SuiteSummary {
	var suites []SuiteSummary
	index := make(map[string]int)
	for _, o := range outcomes {
		name := Suite(o.Name)
		i, ok := index[name]
		if !ok {
			i = len(suites)
			index[name] = i
			suites = append(suites, SuiteSummary{Suite: name})
		}
		suites[i].record(o)
	}
	return suites
}

// Summarize counts outcomes by status. Failed tests are grouped by suite.
func Summarize(outcomes []Outcome) Summary {
	var s Summary
	for _, suite := range SummarizeBySuite(outcomes) {
		s.Add(&suite.Summary)
	}
	return s
}

func (s *Summary) record(o Outcome) {
	s.Total++
	s.Duration += o.Duration
	switch o.Status {
	case StatusPass:
		s.Passed++
	case StatusSkip:
		s.Skipped++
	case StatusFail:
		s.Failed++
	case StatusBroken:
		s.Broken++
	}
	if o.Status.Failed() {
		s.FailedTests = append(s.FailedTests, FailedTest{Name: o.Name, Reason: o.Message})
	}
}

// Add adds another Summary to this one, aggregating the counts.
func (s *Summary) Add(other *Summary) {
	if other == nil {
		return
	}
	s.Passed += other.Passed
	s.Failed += other.Failed
	s.Skipped += other.Skipped
	s.Broken += other.Broken
	s.Total += other.Total
	s.Duration += other.Duration
	s.FailedTests = append(s.FailedTests, other.FailedTests...)
}

// OK reports whether no test failed or broke.
func (s *Summary) OK() bool {
	return s.Failed == 0 && s.Broken == 0
}
