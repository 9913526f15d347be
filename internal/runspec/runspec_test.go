package runspec

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AndreyAkinshin/arcphpunit/internal/config"
	"github.com/AndreyAkinshin/arcphpunit/internal/errors"
	"github.com/AndreyAkinshin/arcphpunit/internal/resolver"
)

func newBuilder(t *testing.T, files ...string) (*Builder, afero.Fs) {
	t.Helper()
	fs := afero.NewMemMapFs()
	for _, f := range files {
		require.NoError(t, afero.WriteFile(fs, f, []byte("<?php\n"), 0o644))
	}
	return New(fs, "/proj", resolver.New(fs, "/proj", nil)), fs
}

func TestBuild_ResolvesSourceFile(t *testing.T) {
	b, _ := newBuilder(t, "/proj/src/Foo.php", "/proj/tests/FooTest.php")

	got, err := b.Build([]string{"src/Foo.php"})
	require.NoError(t, err)
	assert.Equal(t, AffectedTests{"/proj/src/Foo.php": "FooTest"}, got)
}

func TestBuild_TestFileMapsToItself(t *testing.T) {
	// BarTestTest.php would be the resolved test for BarTest.php; a test file
	// must still run itself.
	b, _ := newBuilder(t, "/proj/src/Tests/BarTest.php", "/proj/src/Tests/BarTestTest.php")
	sibling, ok := b.resolver.Resolve("/proj/src/Tests/BarTest.php")
	require.True(t, ok)
	require.Equal(t, "/proj/src/Tests/BarTestTest.php", sibling)

	got, err := b.Build([]string{"src/Tests/BarTest.php"})
	require.NoError(t, err)
	assert.Equal(t, AffectedTests{"/proj/src/Tests/BarTest.php": "BarTest"}, got)
}

func TestBuild_SkipsDirectoriesAndNonPHP(t *testing.T) {
	b, fs := newBuilder(t,
		"/proj/src/Foo.php",
		"/proj/tests/FooTest.php",
		"/proj/assets/app.js",
		"/proj/tests/app.jsTest.js",
	)
	require.NoError(t, fs.MkdirAll("/proj/lib/Thing.php", 0o755))

	_, err := b.Build([]string{"assets/app.js", "lib/Thing.php", "README.md"})
	require.Error(t, err)
	assert.True(t, errors.IsNoEffect(err))

	got, err := b.Build([]string{"assets/app.js", "src/Foo.php", "lib/Thing.php"})
	require.NoError(t, err)
	assert.Equal(t, AffectedTests{"/proj/src/Foo.php": "FooTest"}, got)
}

func TestBuild_DropsFilesWithoutTests(t *testing.T) {
	b, _ := newBuilder(t, "/proj/src/Foo.php", "/proj/src/Bar.php", "/proj/tests/BarTest.php")

	got, err := b.Build([]string{"/proj/src/Foo.php", "/proj/src/Bar.php"})
	require.NoError(t, err)
	assert.Equal(t, AffectedTests{"/proj/src/Bar.php": "BarTest"}, got)
}

func TestBuild_NoEffect(t *testing.T) {
	b, _ := newBuilder(t, "/proj/src/Foo.php")

	got, err := b.Build([]string{"src/Foo.php"})
	assert.Nil(t, got)
	require.Error(t, err)
	assert.True(t, errors.IsNoEffect(err))
	assert.Equal(t, errors.ExitSuccess, errors.GetExitCode(err))
}

func TestAffectedTests_Identifiers(t *testing.T) {
	a := AffectedTests{
		"/proj/src/B.php":       "BTest",
		"/proj/tests/BTest.php": "BTest",
		"/proj/src/A.php":       "ATest",
	}
	assert.Equal(t, []string{"ATest", "BTest"}, a.Identifiers())

	spec := &Spec{Tests: a}
	assert.Equal(t, "ATest|BTest", spec.Filter())
}

func TestPrepare_Defaults(t *testing.T) {
	b, _ := newBuilder(t)

	spec, err := b.Prepare(config.Default(), AffectedTests{"/proj/src/A.php": "ATest"})
	require.NoError(t, err)

	want := &Spec{
		Tests:         AffectedTests{"/proj/src/A.php": "ATest"},
		Binary:        "phpunit",
		Coverage:      true,
		CoverageScope: "/proj/src",
	}
	if diff := cmp.Diff(want, spec); diff != "" {
		t.Errorf("Prepare() mismatch (-want +got):\n%s", diff)
	}
}

func TestPrepare_VendorBinary(t *testing.T) {
	b, _ := newBuilder(t, "/proj/vendor/bin/phpunit")

	spec, err := b.Prepare(config.Default(), nil)
	require.NoError(t, err)
	assert.Equal(t, "/proj/vendor/bin/phpunit", spec.Binary)
}

func TestPrepare_ConfiguredBinaryNotOnPath(t *testing.T) {
	b, _ := newBuilder(t)
	cfg := config.Default()
	cfg.Binary = "tools/phpunit-not-on-path-3f9c"

	spec, err := b.Prepare(cfg, nil)
	require.NoError(t, err)
	assert.Equal(t, "/proj/tools/phpunit-not-on-path-3f9c", spec.Binary)
}

func TestPrepare_RunnerConfig(t *testing.T) {
	b, _ := newBuilder(t, "/proj/phpunit.xml.dist")
	cfg := config.Default()
	cfg.RunnerConfig = "phpunit.xml.dist"

	spec, err := b.Prepare(cfg, nil)
	require.NoError(t, err)
	assert.Equal(t, "/proj/phpunit.xml.dist", spec.RunnerConfig)
}

func TestPrepare_MissingRunnerConfig(t *testing.T) {
	b, _ := newBuilder(t)
	cfg := config.Default()
	cfg.RunnerConfig = "phpunit.xml"

	_, err := b.Prepare(cfg, nil)
	require.Error(t, err)
	assert.True(t, errors.IsKind(err, errors.KindConfig))
	assert.Equal(t, "PHPUnit configuration file was not found in /proj/phpunit.xml", err.Error())
}

func TestPrepare_CoverageDisabled(t *testing.T) {
	b, _ := newBuilder(t)
	off := false
	cfg := config.Default()
	cfg.Coverage = &off

	spec, err := b.Prepare(cfg, nil)
	require.NoError(t, err)
	assert.False(t, spec.Coverage)
	assert.Empty(t, spec.CoverageScope)
}

func TestPrepare_CustomCoveragePath(t *testing.T) {
	b, _ := newBuilder(t)
	cfg := config.Default()
	cfg.CoveragePath = "lib"

	spec, err := b.Prepare(cfg, nil)
	require.NoError(t, err)
	assert.Equal(t, "/proj/lib", spec.CoverageScope)
}
