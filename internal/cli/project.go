package cli

import (
	"io"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/AndreyAkinshin/arcphpunit/internal/config"
	"github.com/AndreyAkinshin/arcphpunit/internal/engine"
	"github.com/AndreyAkinshin/arcphpunit/internal/errors"
	"github.com/AndreyAkinshin/arcphpunit/internal/project"
)

// configFlags are per-command overrides of .arcconfig settings.
type configFlags struct {
	testDirs     []string
	runnerConfig string
	binary       string
	coverage     bool
	noCoverage   bool
	coveragePath string
}

func (f *configFlags) register(cmd *cobra.Command) {
	flags := cmd.Flags()
	flags.StringSliceVar(&f.testDirs, "test-dirs", nil, "Test directory names (overrides unit.phpunit.test-dirs)")
	flags.StringVar(&f.runnerConfig, "phpunit-config", "", "PHPUnit configuration file relative to the root (overrides unit.phpunit.config)")
	flags.StringVar(&f.binary, "binary", "", "PHPUnit executable (overrides unit.phpunit.binary)")
	flags.BoolVar(&f.coverage, "coverage", false, "Collect Clover coverage")
	flags.BoolVar(&f.noCoverage, "no-coverage", false, "Do not collect coverage")
	flags.StringVar(&f.coveragePath, "coverage-path", "", "Source directory whitelisted for coverage (overrides unit.phpunit.coverage-path)")
	cmd.MarkFlagsMutuallyExclusive("coverage", "no-coverage")
}

// apply overrides cfg with the flags the user set.
func (f *configFlags) apply(cmd *cobra.Command, cfg *config.Config) error {
	flags := cmd.Flags()
	if flags.Changed("test-dirs") {
		for _, name := range f.testDirs {
			if err := config.ValidateTestDirName(name); err != nil {
				return errors.Configf("--test-dirs: %v", err)
			}
		}
		cfg.TestDirs = f.testDirs
	}
	if flags.Changed("phpunit-config") {
		cfg.RunnerConfig = f.runnerConfig
	}
	if flags.Changed("binary") {
		cfg.Binary = f.binary
	}
	if flags.Changed("coverage") {
		enabled := f.coverage
		cfg.Coverage = &enabled
	}
	if flags.Changed("no-coverage") {
		enabled := !f.noCoverage
		cfg.Coverage = &enabled
	}
	if flags.Changed("coverage-path") {
		cfg.CoveragePath = f.coveragePath
	}
	return nil
}

// loadProject finds the project from --root or the working directory and
// reports configuration warnings through the logger.
func loadProject(opts *globalOptions, logger logrus.FieldLogger) (*project.Project, error) {
	var proj *project.Project
	var err error
	if opts.root != "" {
		proj, err = project.LoadProjectFrom(opts.root)
	} else {
		proj, err = project.LoadProject()
	}
	if err != nil {
		return nil, errors.WrapConfig(err, "cannot load project")
	}

	for _, w := range proj.Warnings {
		logger.WithField("file", proj.ConfigPath()).Warn(w)
	}
	return proj, nil
}

// setup loads the project, applies flag overrides and builds the engine.
func setup(cmd *cobra.Command, opts *globalOptions, flags *configFlags) (*engine.Engine, *project.Project, error) {
	logger, err := newLogger(opts)
	if err != nil {
		return nil, nil, err
	}
	proj, err := loadProject(opts, logger)
	if err != nil {
		return nil, nil, err
	}
	if flags != nil {
		if err := flags.apply(cmd, proj.Config); err != nil {
			return nil, nil, err
		}
	}

	var stream io.Writer
	if opts.verbose {
		stream = cmd.ErrOrStderr()
	}
	eng := engine.New(engine.Options{
		Root:   proj.Root,
		Config: proj.Config,
		Fs:     newFs(),
		Runner: newRunner(stream),
		Logger: logger.WithField("root", proj.Root),
	})
	return eng, proj, nil
}
