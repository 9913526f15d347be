package cli

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"

	"github.com/AndreyAkinshin/arcphpunit/internal/config"
	"github.com/AndreyAkinshin/arcphpunit/internal/errors"
	"github.com/AndreyAkinshin/arcphpunit/internal/pathutil"
	"github.com/AndreyAkinshin/arcphpunit/internal/schema"
	"github.com/AndreyAkinshin/arcphpunit/internal/version"
)

func newRunCmd(opts *globalOptions) *cobra.Command {
	flags := &configFlags{}
	var timeout time.Duration

	cmd := &cobra.Command{
		Use:   "run <path>...",
		Short: "Run the tests affected by the given files",
		Long: `Run resolves every changed PHP file to its PHPUnit test, runs PHPUnit once
with a --filter selecting those tests, and reports one result per test case.

Files that are not PHP, directories, and files without a test are ignored.
When nothing is left to run, "No tests to run." is printed and the exit
code is 0.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			eng, _, err := setup(cmd, opts, flags)
			if err != nil {
				return err
			}

			ctx := cmd.Context()
			if ctx == nil {
				ctx = context.Background()
			}
			if timeout > 0 {
				var cancel context.CancelFunc
				ctx, cancel = context.WithTimeout(ctx, timeout)
				defer cancel()
			}

			outcomes, err := eng.Run(ctx, args)
			if err != nil {
				return err
			}
			return renderOutcomes(cmd.OutOrStdout(), opts.format, outcomes)
		},
	}

	flags.register(cmd)
	cmd.Flags().DurationVar(&timeout, "timeout", 0, "Kill PHPUnit after this long (0 disables)")
	return cmd
}

// resolution is the machine-readable result of resolve.
type resolution struct {
	Path      string   `json:"path" yaml:"path"`
	Test      string   `json:"test,omitempty" yaml:"test,omitempty"`
	Locations []string `json:"locations,omitempty" yaml:"locations,omitempty"`
}

func newResolveCmd(opts *globalOptions) *cobra.Command {
	flags := &configFlags{}
	var explain bool

	cmd := &cobra.Command{
		Use:   "resolve <path>...",
		Short: "Show the test file each source file maps to",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			eng, proj, err := setup(cmd, opts, flags)
			if err != nil {
				return err
			}

			results := make([]resolution, 0, len(args))
			for _, arg := range args {
				r := resolution{Path: arg}
				if test, ok := eng.Resolve(arg); ok {
					r.Test = pathutil.RelativeTo(test, proj.Root)
				}
				if explain {
					abs := arg
					if !filepath.IsAbs(abs) {
						abs = filepath.Join(proj.Root, abs)
					}
					r.Locations = eng.SearchLocations(abs)
				}
				results = append(results, r)
			}

			if opts.format != formatText {
				return encode(cmd.OutOrStdout(), opts.format, results)
			}

			rows := make([][]string, 0, len(results))
			unresolved := false
			for _, r := range results {
				test := r.Test
				if test == "" {
					test = "-"
					unresolved = true
				}
				rows = append(rows, []string{r.Path, test})
			}
			out.Table([]string{"SOURCE", "TEST"}, rows)
			if unresolved && !explain {
				out.Hint("Run with --explain to list the directories searched.")
			}
			for _, r := range results {
				if len(r.Locations) == 0 {
					continue
				}
				out.Section("Search order for " + r.Path)
				out.List(r.Locations)
			}
			return nil
		},
	}

	flags.register(cmd)
	cmd.Flags().BoolVar(&explain, "explain", false, "List every directory searched, in order")
	return cmd
}

func newParseCmd(opts *globalOptions) *cobra.Command {
	var junitPath, cloverPath string

	cmd := &cobra.Command{
		Use:   "parse --junit <file> [--clover <file>] [<path>...]",
		Short: "Parse existing PHPUnit reports without running PHPUnit",
		Long: `Parse reads a JUnit report written by "phpunit --log-junit" and prints the
normalized results. With --clover, line coverage is mapped for the given
changed paths that have a test.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			eng, _, err := setup(cmd, opts, nil)
			if err != nil {
				return err
			}

			junit, err := os.ReadFile(junitPath)
			if err != nil {
				return errors.FileError(junitPath, "cannot read JUnit report", err)
			}
			var clover []byte
			if cloverPath != "" {
				clover, err = os.ReadFile(cloverPath)
				if err != nil {
					return errors.FileError(cloverPath, "cannot read Clover report", err)
				}
			}

			outcomes, err := eng.ParseReports(junit, clover, args)
			if err != nil {
				return err
			}
			return renderOutcomes(cmd.OutOrStdout(), opts.format, outcomes)
		},
	}

	cmd.Flags().StringVar(&junitPath, "junit", "", "JUnit XML report")
	cmd.Flags().StringVar(&cloverPath, "clover", "", "Clover XML coverage report")
	_ = cmd.MarkFlagRequired("junit")
	return cmd
}

func newConfigCmd(opts *globalOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Inspect the unit.phpunit.* settings",
	}

	validate := &cobra.Command{
		Use:   "validate",
		Short: "Validate .arcconfig",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			logger, err := newLogger(opts)
			if err != nil {
				return err
			}
			proj, err := loadProject(opts, logger)
			if err != nil {
				return err
			}

			for _, w := range proj.Warnings {
				out.Warning("%s", w)
			}
			for _, name := range proj.MissingTestDirs() {
				out.Warning("test directory %q not found near the project root", name)
			}

			out.Println("Configuration is valid.")
			out.SummaryItem("Root", proj.Root)
			out.SummaryItem("Test dirs", fmt.Sprintf("%v", proj.Config.TestDirs))
			if len(proj.Warnings) > 0 {
				out.SummaryItem("Warnings", fmt.Sprintf("%d", len(proj.Warnings)))
			}
			return nil
		},
	}

	show := &cobra.Command{
		Use:   "show",
		Short: "Print the effective configuration",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			logger, err := newLogger(opts)
			if err != nil {
				return err
			}
			proj, err := loadProject(opts, logger)
			if err != nil {
				return err
			}

			format := opts.format
			if format == formatText {
				format = formatYAML
			}
			return encode(cmd.OutOrStdout(), format, effective(proj.Config))
		},
	}

	schemaCmd := &cobra.Command{
		Use:   "schema",
		Short: "Print the JSON schema for the unit.phpunit.* keys",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := schema.Arcconfig()
			if err != nil {
				return err
			}
			_, err = cmd.OutOrStdout().Write(data)
			return err
		},
	}

	cmd.AddCommand(validate, show, schemaCmd)
	return cmd
}

// whitelistRemoved is the first PHPUnit release without --whitelist.
var whitelistRemoved = version.MustParse("10.0.0")

func newDoctorCmd(opts *globalOptions) *cobra.Command {
	flags := &configFlags{}

	cmd := &cobra.Command{
		Use:   "doctor",
		Short: "Check that the configured PHPUnit executable works",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			eng, proj, err := setup(cmd, opts, flags)
			if err != nil {
				return err
			}

			probe, err := eng.Probe(cmd.Context())
			if err != nil {
				return err
			}
			if opts.format != formatText {
				return encode(cmd.OutOrStdout(), opts.format, probe)
			}

			out.SummaryItem("Root", proj.Root)
			out.SummaryItem("PHPUnit", probe.Binary)
			out.SummaryItem("Version", probe.Version.String())
			if proj.Config.CoverageEnabled() && probe.Version.AtLeast(whitelistRemoved) {
				out.Warning("PHPUnit %s does not accept --whitelist; set unit.phpunit.coverage to false", probe.Version)
			}
			return nil
		},
	}

	flags.register(cmd)
	return cmd
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the version",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "arcphpunit %s\n", Version)
		},
	}
}

// effectiveConfig is the configuration after defaults, as printed by
// config show.
type effectiveConfig struct {
	TestDirs     []string `json:"test-dirs" yaml:"test-dirs"`
	RunnerConfig string   `json:"config,omitempty" yaml:"config,omitempty"`
	Binary       string   `json:"binary" yaml:"binary"`
	Coverage     bool     `json:"coverage" yaml:"coverage"`
	CoveragePath string   `json:"coverage-path" yaml:"coverage-path"`
}

func effective(cfg *config.Config) effectiveConfig {
	binary := cfg.Binary
	if binary == "" {
		binary = config.DefaultBinary
	}
	return effectiveConfig{
		TestDirs:     cfg.TestDirs,
		RunnerConfig: cfg.RunnerConfig,
		Binary:       binary,
		Coverage:     cfg.CoverageEnabled(),
		CoveragePath: cfg.CoveragePath,
	}
}
