package runspec

import (
	stderrors "errors"
	"fmt"
	"os"

	"github.com/spf13/afero"
)

// Outputs are the temporary files PHPUnit writes its reports to. They live
// for one run; Close removes them.
type Outputs struct {
	fs afero.Fs
	// ReportPath receives the JUnit report.
	ReportPath string
	// CoveragePath receives the Clover report; empty when coverage is off.
	CoveragePath string
}

// NewOutputs creates the report file and, when withCoverage is set, the
// coverage file in the system temporary directory.
func NewOutputs(fs afero.Fs, withCoverage bool) (*Outputs, error) {
	o := &Outputs{fs: fs}

	report, err := createTemp(fs, "arcphpunit-junit-*.xml")
	if err != nil {
		return nil, err
	}
	o.ReportPath = report

	if withCoverage {
		cov, err := createTemp(fs, "arcphpunit-clover-*.xml")
		if err != nil {
			_ = o.Close()
			return nil, err
		}
		o.CoveragePath = cov
	}
	return o, nil
}

func createTemp(fs afero.Fs, pattern string) (string, error) {
	f, err := afero.TempFile(fs, "", pattern)
	if err != nil {
		return "", fmt.Errorf("failed to create temporary report file: %w", err)
	}
	name := f.Name()
	if err := f.Close(); err != nil {
		_ = fs.Remove(name)
		return "", fmt.Errorf("failed to create temporary report file: %w", err)
	}
	return name, nil
}

// ReadReport returns the JUnit report content. A missing file reads as empty.
func (o *Outputs) ReadReport() ([]byte, error) {
	return o.read(o.ReportPath)
}

// ReadCoverage returns the Clover report content, empty when coverage is off
// or the file is missing.
func (o *Outputs) ReadCoverage() ([]byte, error) {
	return o.read(o.CoveragePath)
}

func (o *Outputs) read(path string) ([]byte, error) {
	if path == "" {
		return nil, nil
	}
	data, err := afero.ReadFile(o.fs, path)
	if stderrors.Is(err, os.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}
	return data, nil
}

// Close removes the temporary files. It is safe to call more than once.
func (o *Outputs) Close() error {
	var errs []error
	for _, path := range []string{o.ReportPath, o.CoveragePath} {
		if path == "" {
			continue
		}
		if err := o.fs.Remove(path); err != nil && !stderrors.Is(err, os.ErrNotExist) {
			errs = append(errs, err)
		}
	}
	return stderrors.Join(errs...)
}
