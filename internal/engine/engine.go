// Package engine runs PHPUnit for a set of changed files and returns the
// normalized outcomes.
package engine

import (
	"bytes"
	"context"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/sirupsen/logrus"
	"github.com/spf13/afero"

	"github.com/AndreyAkinshin/arcphpunit/internal/config"
	"github.com/AndreyAkinshin/arcphpunit/internal/coverage"
	"github.com/AndreyAkinshin/arcphpunit/internal/errors"
	"github.com/AndreyAkinshin/arcphpunit/internal/report"
	"github.com/AndreyAkinshin/arcphpunit/internal/resolver"
	"github.com/AndreyAkinshin/arcphpunit/internal/runner"
	"github.com/AndreyAkinshin/arcphpunit/internal/runspec"
	"github.com/AndreyAkinshin/arcphpunit/internal/testparser"
	"github.com/AndreyAkinshin/arcphpunit/internal/version"
)

// Options holds the collaborators an Engine is built from.
type Options struct {
	// Root is the absolute project root.
	Root   string
	Config *config.Config
	// Fs is used for project files and temporary reports. Defaults to the
	// OS filesystem.
	Fs     afero.Fs
	Runner runner.Runner
	Logger logrus.FieldLogger
	// Env is appended to the PHPUnit process environment.
	Env []string
}

// Engine ties test resolution, the PHPUnit process and report parsing
// together.
type Engine struct {
	root     string
	cfg      *config.Config
	fs       afero.Fs
	runner   runner.Runner
	log      logrus.FieldLogger
	env      []string
	resolver *resolver.Resolver
	builder  *runspec.Builder
	mapper   *coverage.Mapper
	parser   *report.Parser
	console  testparser.Parser
}

// New creates an Engine. Missing options get defaults: the OS filesystem,
// the exec runner, the default configuration and the standard logger.
func New(opts Options) *Engine {
	if opts.Fs == nil {
		opts.Fs = afero.NewOsFs()
	}
	if opts.Runner == nil {
		opts.Runner = runner.NewExec()
	}
	if opts.Config == nil {
		opts.Config = config.Default()
	}
	if opts.Logger == nil {
		opts.Logger = logrus.StandardLogger()
	}
	root := filepath.Clean(opts.Root)
	res := resolver.New(opts.Fs, root, opts.Config.TestDirs)

	return &Engine{
		root:     root,
		cfg:      opts.Config,
		fs:       opts.Fs,
		runner:   opts.Runner,
		log:      opts.Logger,
		env:      opts.Env,
		resolver: res,
		builder:  runspec.New(opts.Fs, root, res),
		mapper:   coverage.New(opts.Fs, root),
		parser:   report.NewParser(),
		console:  &testparser.PHPUnitParser{},
	}
}

// Resolve returns the test file covering path.
func (e *Engine) Resolve(path string) (string, bool) {
	return e.resolver.Resolve(path)
}

// SearchLocations returns the directories Resolve looks in for path.
func (e *Engine) SearchLocations(path string) []string {
	return e.resolver.SearchLocations(path)
}

// Affected maps changed paths to the tests that cover them.
func (e *Engine) Affected(paths []string) (runspec.AffectedTests, error) {
	affected, err := e.builder.Build(paths)
	if err != nil {
		return nil, err
	}
	for path, id := range affected {
		e.log.WithFields(logrus.Fields{"path": path, "test": id}).Debug("Affected test")
	}
	return affected, nil
}

// Run executes PHPUnit for the tests affected by paths and parses its
// reports. It fails with a NoEffect error when no test is affected and with
// a configuration error before starting PHPUnit when the runner
// configuration file is missing.
func (e *Engine) Run(ctx context.Context, paths []string) ([]report.Outcome, error) {
	affected, err := e.Affected(paths)
	if err != nil {
		return nil, err
	}

	spec, err := e.builder.Prepare(e.cfg, affected)
	if err != nil {
		return nil, err
	}

	outputs, err := runspec.NewOutputs(e.fs, spec.Coverage)
	if err != nil {
		return nil, errors.Wrap(err, "failed to prepare report files")
	}
	defer func() {
		if err := outputs.Close(); err != nil {
			e.log.WithError(err).Warn("Failed to remove temporary report files")
		}
	}()

	inv := Invocation(spec, outputs, e.root)
	inv.Env = e.env
	e.log.WithField("command", inv.String()).Debug("Running PHPUnit")

	res, err := e.runner.Run(ctx, inv)
	if err != nil {
		return nil, err
	}
	e.log.WithFields(logrus.Fields{
		"exit_code":    res.ExitCode,
		"stderr_bytes": len(res.Stderr),
	}).Debug("PHPUnit finished")

	junit, err := outputs.ReadReport()
	if err != nil {
		return nil, errors.Wrap(err, "failed to read JUnit report")
	}
	clover, err := outputs.ReadCoverage()
	if err != nil {
		return nil, errors.Wrap(err, "failed to read Clover report")
	}
	e.log.WithFields(logrus.Fields{
		"junit_bytes":  len(junit),
		"clover_bytes": len(clover),
	}).Debug("Read reports")

	// A run that wrote no report is broken whatever the coverage file holds.
	if len(bytes.TrimSpace(junit)) == 0 {
		return []report.Outcome{report.Broken(spec.Filter(), res.Stderr)}, nil
	}

	var cov coverage.Map
	if spec.Coverage {
		cov, err = e.mapper.Build(clover, affected)
		if err != nil {
			return nil, err
		}
	}

	outcomes, err := e.parser.Parse(junit, cov, spec.Filter(), res.Stderr)
	if err != nil {
		return nil, err
	}
	e.checkConsoleSummary(res.Stdout, outcomes)
	return outcomes, nil
}

// checkConsoleSummary compares the counts PHPUnit printed with the parsed
// report and logs a warning when they disagree.
func (e *Engine) checkConsoleSummary(stdout string, outcomes []report.Outcome) {
	counts := e.console.Parse(stdout)
	if !counts.Parsed {
		return
	}
	summary := report.Summarize(outcomes)
	fields := logrus.Fields{
		"console_total":  counts.Total,
		"console_failed": counts.Failed,
		"report_total":   summary.Total,
		"report_failed":  summary.Failed + summary.Broken,
	}
	if counts.Total != summary.Total || counts.Failed != summary.Failed+summary.Broken {
		e.log.WithFields(fields).Warn("PHPUnit console summary disagrees with the JUnit report")
		return
	}
	e.log.WithFields(fields).Debug("PHPUnit console summary matches the JUnit report")
}

// Probe describes the PHPUnit executable a run would use.
type Probe struct {
	Binary  string          `json:"binary" yaml:"binary"`
	Version *version.Semver `json:"version,omitempty" yaml:"version,omitempty"`
	Output  string          `json:"output,omitempty" yaml:"output,omitempty"`
}

// Probe runs "phpunit --version" with the configured executable. A binary
// that starts but prints no recognizable banner yields a Probe without a
// version and an environment error.
func (e *Engine) Probe(ctx context.Context) (*Probe, error) {
	probe := &Probe{Binary: e.builder.Binary(e.cfg.Binary)}

	inv := runner.Invocation{Binary: probe.Binary, Args: []string{"--version"}, Dir: e.root, Env: e.env}
	e.log.WithField("command", inv.String()).Debug("Probing PHPUnit")

	res, err := e.runner.Run(ctx, inv)
	if err != nil {
		return probe, err
	}
	probe.Output = strings.TrimSpace(res.Stdout)

	v, err := version.FromOutput(res.Stdout)
	if err != nil {
		return probe, errors.Environment(fmt.Sprintf("%s did not report a PHPUnit version", probe.Binary), err)
	}
	probe.Version = v
	return probe, nil
}

// ParseReports parses existing JUnit and Clover content without running
// PHPUnit. Coverage is mapped only for the files among paths that have a
// test; a nil clover disables coverage.
func (e *Engine) ParseReports(junit, clover []byte, paths []string) ([]report.Outcome, error) {
	var affected runspec.AffectedTests
	if len(paths) > 0 {
		var err error
		affected, err = e.Affected(paths)
		if err != nil && !errors.IsNoEffect(err) {
			return nil, err
		}
	}

	filter := (&runspec.Spec{Tests: affected}).Filter()
	if len(bytes.TrimSpace(junit)) == 0 {
		return []report.Outcome{report.Broken(filter, "")}, nil
	}

	var cov coverage.Map
	if clover != nil {
		var err error
		cov, err = e.mapper.Build(clover, affected)
		if err != nil {
			return nil, err
		}
	}

	return e.parser.Parse(junit, cov, filter, "")
}

// Invocation builds the PHPUnit command line for spec:
//
//	phpunit [-c config] -d display_errors=stderr --log-junit <report>
//	        [--coverage-clover <coverage> --whitelist <scope>] --filter <tests>
func Invocation(spec *runspec.Spec, outputs *runspec.Outputs, dir string) runner.Invocation {
	var args []string
	if spec.RunnerConfig != "" {
		args = append(args, "-c", spec.RunnerConfig)
	}
	args = append(args, "-d", "display_errors=stderr")
	args = append(args, "--log-junit", outputs.ReportPath)
	if spec.Coverage && outputs.CoveragePath != "" {
		args = append(args, "--coverage-clover", outputs.CoveragePath, "--whitelist", spec.CoverageScope)
	}
	args = append(args, "--filter", spec.Filter())

	return runner.Invocation{
		Binary: spec.Binary,
		Args:   args,
		Dir:    dir,
	}
}
