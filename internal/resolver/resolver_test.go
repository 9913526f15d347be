package resolver

import (
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newFs(t *testing.T, files ...string) afero.Fs {
	t.Helper()
	fs := afero.NewMemMapFs()
	for _, f := range files {
		require.NoError(t, afero.WriteFile(fs, f, []byte("<?php\n"), 0o644))
	}
	return fs
}

func TestSearchLocations_Order(t *testing.T) {
	r := New(afero.NewMemMapFs(), "/a", nil)

	want := []string{
		"/a/b/c/",
		"/a/b/c/tests/", "/a/b/c/Tests/",
		"/a/b/tests/", "/a/b/Tests/",
		"/a/tests/", "/a/Tests/",
		"/tests/", "/Tests/",
		"/a/tests/c/", "/a/Tests/c/",
		"/tests/b/c/", "/Tests/b/c/",
		"/a/b/tests/c/", "/a/b/Tests/c/",
		"/a/tests/b/c/", "/a/Tests/b/c/",
		"/tests/a/b/c/", "/Tests/a/b/c/",
	}

	got := r.SearchLocations("/a/b/c/X.php")
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("SearchLocations() mismatch (-want +got):\n%s", diff)
	}
}

func TestSearchLocations_Deterministic(t *testing.T) {
	r := New(afero.NewMemMapFs(), "/proj", []string{"tests", "spec", "Tests"})
	first := r.SearchLocations("/proj/src/Domain/User/Account.php")
	for i := 0; i < 20; i++ {
		assert.Equal(t, first, r.SearchLocations("/proj/src/Domain/User/Account.php"))
	}
}

func TestSearchLocations_NoDoubleSeparators(t *testing.T) {
	r := New(afero.NewMemMapFs(), "/", nil)

	for _, path := range []string{"/Foo.php", "/src/Foo.php"} {
		for _, loc := range r.SearchLocations(path) {
			assert.False(t, strings.Contains(loc, "//"), "location %q for %s", loc, path)
			assert.True(t, strings.HasSuffix(loc, "/"), "location %q for %s", loc, path)
		}
	}
}

func TestSearchLocations_FileAtRoot(t *testing.T) {
	r := New(afero.NewMemMapFs(), "/", []string{"tests"})
	assert.Equal(t, []string{"/", "/tests/"}, r.SearchLocations("/Foo.php"))
}

func TestSearchLocations_Unique(t *testing.T) {
	r := New(afero.NewMemMapFs(), "/proj", nil)
	locs := r.SearchLocations("/proj/src/tests/Foo.php")
	seen := make(map[string]bool)
	for _, loc := range locs {
		assert.False(t, seen[loc], "duplicate location %q", loc)
		seen[loc] = true
	}
}

func TestResolve_SiblingTestsDirectory(t *testing.T) {
	fs := newFs(t, "/proj/src/Foo.php", "/proj/tests/FooTest.php")
	r := New(fs, "/proj", nil)

	got, ok := r.Resolve("/proj/src/Foo.php")
	require.True(t, ok)
	assert.Equal(t, "/proj/tests/FooTest.php", got)
}

func TestResolve_RelativeInput(t *testing.T) {
	fs := newFs(t, "/proj/src/Foo.php", "/proj/tests/FooTest.php")
	r := New(fs, "/proj", nil)

	got, ok := r.Resolve("src/Foo.php")
	require.True(t, ok)
	assert.Equal(t, "/proj/tests/FooTest.php", got)
}

func TestResolve_SameDirectoryFirst(t *testing.T) {
	fs := newFs(t,
		"/proj/src/Foo.php",
		"/proj/src/FooTest.php",
		"/proj/tests/FooTest.php",
	)
	r := New(fs, "/proj", nil)

	got, ok := r.Resolve("/proj/src/Foo.php")
	require.True(t, ok)
	assert.Equal(t, "/proj/src/FooTest.php", got)
}

func TestResolve_ExactNameBeforeTestSuffix(t *testing.T) {
	fs := newFs(t,
		"/proj/src/Foo.php",
		"/proj/tests/Foo.php",
		"/proj/tests/FooTest.php",
	)
	r := New(fs, "/proj", nil)

	got, ok := r.Resolve("/proj/src/Foo.php")
	require.True(t, ok)
	assert.Equal(t, "/proj/tests/Foo.php", got)
}

func TestResolve_MirroredTree(t *testing.T) {
	fs := newFs(t,
		"/proj/src/Billing/Invoice.php",
		"/proj/tests/Billing/InvoiceTest.php",
	)
	r := New(fs, "/proj", nil)

	got, ok := r.Resolve("/proj/src/Billing/Invoice.php")
	require.True(t, ok)
	assert.Equal(t, "/proj/tests/Billing/InvoiceTest.php", got)
}

func TestResolve_InsertedTestsDirectory(t *testing.T) {
	fs := newFs(t,
		"/proj/lib/Billing/Invoice.php",
		"/proj/lib/tests/Billing/InvoiceTest.php",
	)
	r := New(fs, "/proj", nil)

	got, ok := r.Resolve("/proj/lib/Billing/Invoice.php")
	require.True(t, ok)
	assert.Equal(t, "/proj/lib/tests/Billing/InvoiceTest.php", got)
}

func TestResolve_CustomTestDirs(t *testing.T) {
	fs := newFs(t, "/proj/src/Foo.php", "/proj/spec/FooTest.php", "/proj/tests/FooTest.php")
	r := New(fs, "/proj", []string{"spec"})

	got, ok := r.Resolve("/proj/src/Foo.php")
	require.True(t, ok)
	assert.Equal(t, "/proj/spec/FooTest.php", got)
}

func TestResolve_NeverReturnsInput(t *testing.T) {
	// Only the input itself matches the exact-name candidate.
	fs := newFs(t, "/proj/tests/Foo.php")
	r := New(fs, "/proj", nil)

	_, ok := r.Resolve("/proj/tests/Foo.php")
	assert.False(t, ok)
}

func TestResolve_NeverReturnsInputCaseInsensitive(t *testing.T) {
	// On a case-insensitive filesystem /proj/tests/Foo.php is the input file.
	fs := newFs(t, "/proj/Tests/Foo.php", "/proj/tests/Foo.php")
	r := New(fs, "/proj", nil)

	got, ok := r.Resolve("/proj/Tests/Foo.php")
	assert.False(t, ok, "returned %q", got)
}

func TestResolve_StaysInsideRoot(t *testing.T) {
	fs := newFs(t, "/proj/src/Foo.php", "/tests/FooTest.php")
	r := New(fs, "/proj", nil)

	_, ok := r.Resolve("/proj/src/Foo.php")
	assert.False(t, ok, "candidate above the project root must be rejected")
}

func TestResolve_NonPHP(t *testing.T) {
	fs := newFs(t, "/proj/src/Foo.js", "/proj/tests/FooTest.js")
	r := New(fs, "/proj", nil)

	_, ok := r.Resolve("/proj/src/Foo.js")
	assert.False(t, ok)
}

func TestResolve_NotFound(t *testing.T) {
	fs := newFs(t, "/proj/src/Foo.php")
	r := New(fs, "/proj", nil)

	_, ok := r.Resolve("/proj/src/Foo.php")
	assert.False(t, ok)
}

func TestIsTestFile(t *testing.T) {
	assert.True(t, IsTestFile("/proj/tests/FooTest.php"))
	assert.False(t, IsTestFile("/proj/src/Foo.php"))
	assert.False(t, IsTestFile("/proj/src/Test.js"))
}

func TestIdentifier(t *testing.T) {
	assert.Equal(t, "FooTest", Identifier("/proj/tests/FooTest.php"))
	assert.Equal(t, "BarTest", Identifier("src/Tests/BarTest.php"))
}

func TestNew_DefaultTestDirs(t *testing.T) {
	r := New(afero.NewMemMapFs(), "/proj", nil)
	assert.Equal(t, []string{"tests", "Tests"}, r.TestDirs())
}
