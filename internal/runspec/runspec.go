// Package runspec decides which PHPUnit tests a change affects and prepares
// everything a run needs: the filter, the runner configuration, the binary
// and the report destinations.
package runspec

import (
	"path/filepath"
	"sort"
	"strings"

	"github.com/spf13/afero"

	"github.com/AndreyAkinshin/arcphpunit/internal/config"
	"github.com/AndreyAkinshin/arcphpunit/internal/errors"
	"github.com/AndreyAkinshin/arcphpunit/internal/pathutil"
	"github.com/AndreyAkinshin/arcphpunit/internal/resolver"
)

// AffectedTests maps an absolute changed path to the identifier of the test
// class that covers it.
type AffectedTests map[string]string

// Identifiers returns the unique test identifiers, sorted.
func (a AffectedTests) Identifiers() []string {
	seen := make(map[string]bool, len(a))
	ids := make([]string, 0, len(a))
	for _, id := range a {
		if !seen[id] {
			seen[id] = true
			ids = append(ids, id)
		}
	}
	sort.Strings(ids)
	return ids
}

// Builder builds run specifications for one project.
type Builder struct {
	fs       afero.Fs
	root     string
	resolver *resolver.Resolver
}

// New creates a Builder. Test lookups go through r.
func New(fs afero.Fs, root string, r *resolver.Resolver) *Builder {
	return &Builder{fs: fs, root: filepath.Clean(root), resolver: r}
}

// Build maps changed paths to the tests they affect. Directories and
// non-PHP files are skipped. A test file maps to itself; any other file
// maps to the test the resolver finds for it. An empty result is a NoEffect
// error.
func (b *Builder) Build(paths []string) (AffectedTests, error) {
	affected := AffectedTests{}
	for _, p := range paths {
		path := pathutil.ResolvePath(p, b.root)

		if pathutil.IsDir(b.fs, path) {
			continue
		}
		if !strings.HasSuffix(path, resolver.Extension) {
			continue
		}
		if resolver.IsTestFile(path) {
			affected[path] = resolver.Identifier(path)
			continue
		}
		if test, ok := b.resolver.Resolve(path); ok && pathutil.Exists(b.fs, test) {
			affected[path] = resolver.Identifier(test)
		}
	}

	if len(affected) == 0 {
		return nil, errors.NoEffect("No tests to run.")
	}
	return affected, nil
}

// Spec is a fully prepared PHPUnit run.
type Spec struct {
	Tests AffectedTests
	// Binary is the PHPUnit executable: a PATH name or an absolute path.
	Binary string
	// RunnerConfig is the absolute path of the PHPUnit configuration file,
	// or empty to let PHPUnit discover its own.
	RunnerConfig string
	Coverage     bool
	// CoverageScope is the absolute directory whitelisted for coverage.
	CoverageScope string
}

// Filter returns the --filter expression selecting every affected test.
func (s *Spec) Filter() string {
	return strings.Join(s.Tests.Identifiers(), "|")
}

// Prepare resolves the runner configuration file and binary from cfg. A
// configured runner configuration file that does not exist is a
// configuration error.
func (b *Builder) Prepare(cfg *config.Config, tests AffectedTests) (*Spec, error) {
	spec := &Spec{
		Tests:    tests,
		Binary:   b.Binary(cfg.Binary),
		Coverage: cfg.CoverageEnabled(),
	}

	if cfg.RunnerConfig != "" {
		path := filepath.Join(b.root, cfg.RunnerConfig)
		if !pathutil.Exists(b.fs, path) {
			return nil, errors.Configf("PHPUnit configuration file was not found in %s", path)
		}
		spec.RunnerConfig = path
	}

	if spec.Coverage {
		scope := cfg.CoveragePath
		if scope == "" {
			scope = config.DefaultCoveragePath
		}
		spec.CoverageScope = pathutil.ResolvePath(scope, b.root)
	}

	return spec, nil
}

// Binary picks the PHPUnit executable. A configured name found on PATH is
// used as is; anything else is a path relative to the project root. Without
// configuration a Composer-installed vendor/bin/phpunit wins over PATH.
func (b *Builder) Binary(configured string) string {
	if configured != "" {
		if pathutil.BinaryExists(configured) {
			return configured
		}
		return pathutil.ResolvePath(configured, b.root)
	}

	vendor := filepath.Join(b.root, filepath.FromSlash(config.DefaultVendorBinary))
	if pathutil.Exists(b.fs, vendor) {
		return vendor
	}
	return config.DefaultBinary
}
