package runspec

import (
	"testing"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewOutputs_WithCoverage(t *testing.T) {
	fs := afero.NewMemMapFs()

	o, err := NewOutputs(fs, true)
	require.NoError(t, err)
	require.NotEmpty(t, o.ReportPath)
	require.NotEmpty(t, o.CoveragePath)
	assert.NotEqual(t, o.ReportPath, o.CoveragePath)

	for _, p := range []string{o.ReportPath, o.CoveragePath} {
		ok, err := afero.Exists(fs, p)
		require.NoError(t, err)
		assert.True(t, ok, p)
	}

	require.NoError(t, afero.WriteFile(fs, o.ReportPath, []byte("<testsuites/>"), 0o644))
	report, err := o.ReadReport()
	require.NoError(t, err)
	assert.Equal(t, "<testsuites/>", string(report))

	cov, err := o.ReadCoverage()
	require.NoError(t, err)
	assert.Empty(t, cov)

	require.NoError(t, o.Close())
	for _, p := range []string{o.ReportPath, o.CoveragePath} {
		ok, _ := afero.Exists(fs, p)
		assert.False(t, ok, "%s should be removed", p)
	}
	assert.NoError(t, o.Close(), "second Close is a no-op")
}

func TestNewOutputs_WithoutCoverage(t *testing.T) {
	fs := afero.NewMemMapFs()

	o, err := NewOutputs(fs, false)
	require.NoError(t, err)
	defer o.Close()

	assert.Empty(t, o.CoveragePath)
	cov, err := o.ReadCoverage()
	require.NoError(t, err)
	assert.Nil(t, cov)
}

func TestOutputs_MissingReportReadsEmpty(t *testing.T) {
	fs := afero.NewMemMapFs()

	o, err := NewOutputs(fs, false)
	require.NoError(t, err)
	require.NoError(t, fs.Remove(o.ReportPath))

	report, err := o.ReadReport()
	require.NoError(t, err)
	assert.Empty(t, report)
	assert.NoError(t, o.Close())
}

func TestNewOutputs_ReadOnlyFs(t *testing.T) {
	_, err := NewOutputs(afero.NewReadOnlyFs(afero.NewMemMapFs()), true)
	assert.Error(t, err)
}
