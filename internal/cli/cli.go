// Package cli provides the arcphpunit command-line interface.
package cli

import (
	stderrors "errors"
	"io"
	"os"
	"strings"

	"github.com/sirupsen/logrus"
	"github.com/spf13/afero"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/AndreyAkinshin/arcphpunit/internal/errors"
	"github.com/AndreyAkinshin/arcphpunit/internal/output"
	"github.com/AndreyAkinshin/arcphpunit/internal/runner"
)

// Version is set at build time.
var Version = "dev"

var out = output.New()

// Collaborators swapped out in tests.
var (
	newFs     = func() afero.Fs { return afero.NewOsFs() }
	newRunner = func(stream io.Writer) runner.Runner { return &runner.Exec{Stream: stream} }
	logOutput = io.Writer(os.Stderr)
)

// errTestsFailed marks a run that completed with failing or broken tests.
var errTestsFailed = stderrors.New("tests failed")

// Run executes the CLI with the given arguments and returns an exit code.
func Run(args []string) int {
	root := newRootCmd()
	root.SetArgs(args)
	root.SetOut(out.Out())

	err := root.Execute()
	switch {
	case err == nil:
		return errors.ExitSuccess
	case stderrors.Is(err, errTestsFailed):
		return errors.ExitRuntimeError
	case errors.IsNoEffect(err):
		out.Info("%s", noEffectMessage(err))
		return errors.ExitSuccess
	}

	out.ErrorPrefix("%v", err)
	var ae *errors.AdapterError
	if stderrors.As(err, &ae) {
		return ae.ExitCode()
	}
	// Flag and argument errors come from cobra as plain errors.
	return errors.ExitConfigError
}

func noEffectMessage(err error) string {
	var ae *errors.AdapterError
	if stderrors.As(err, &ae) && ae.Message != "" {
		return ae.Message
	}
	return "No tests to run."
}

// globalOptions holds persistent flags shared by all commands.
type globalOptions struct {
	root     string
	format   string
	logLevel string
	verbose  bool
	quiet    bool
	noColor  bool
}

func newRootCmd() *cobra.Command {
	opts := &globalOptions{}

	cmd := &cobra.Command{
		Use:   "arcphpunit",
		Short: "Run the PHPUnit tests affected by a change",
		Long: `arcphpunit maps changed PHP files to their PHPUnit tests, runs PHPUnit for
exactly those tests, and reports normalized results with line coverage.

Settings are read from the unit.phpunit.* keys of the project's .arcconfig.`,
		Example: `  arcphpunit run src/Billing/Invoice.php
  arcphpunit run --format json $(git diff --name-only HEAD~1)
  arcphpunit resolve --explain src/Billing/Invoice.php
  arcphpunit parse --junit build/junit.xml --clover build/clover.xml src/Billing/Invoice.php`,
		Version:       Version,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			out.SetQuiet(opts.quiet)
			if opts.noColor {
				out.SetColor(false)
			}
			return validateFormat(opts.format)
		},
	}

	flags := cmd.PersistentFlags()
	flags.StringVar(&opts.root, "root", "", "Project root (default: nearest directory with .arcconfig)")
	flags.StringVar(&opts.format, "format", formatText, "Output format (text|json|yaml)")
	flags.StringVar(&opts.logLevel, "log-level", logrus.WarnLevel.String(), "Log level (panic|fatal|error|warning|info|debug|trace)")
	flags.BoolVarP(&opts.verbose, "verbose", "v", false, "Enable debug logging")
	flags.BoolVarP(&opts.quiet, "quiet", "q", false, "Suppress informational output")
	flags.BoolVar(&opts.noColor, "no-color", false, "Disable colored output")

	cmd.AddCommand(
		newRunCmd(opts),
		newResolveCmd(opts),
		newParseCmd(opts),
		newConfigCmd(opts),
		newDoctorCmd(opts),
		newVersionCmd(),
	)
	cmd.SetGlobalNormalizationFunc(normalizeFlag)
	return cmd
}

// normalizeFlag accepts underscores in flag names: --phpunit_config is
// --phpunit-config.
func normalizeFlag(_ *pflag.FlagSet, name string) pflag.NormalizedName {
	return pflag.NormalizedName(strings.ReplaceAll(name, "_", "-"))
}

// newLogger builds the logger for a command from the global flags.
func newLogger(opts *globalOptions) (*logrus.Logger, error) {
	logger := logrus.New()
	logger.SetOutput(logOutput)
	logger.SetFormatter(&logrus.TextFormatter{DisableTimestamp: true})

	level, err := logrus.ParseLevel(opts.logLevel)
	if err != nil {
		return nil, errors.Configf("invalid --log-level %q", opts.logLevel)
	}
	if opts.verbose {
		level = logrus.DebugLevel
	}
	logger.SetLevel(level)
	return logger, nil
}
