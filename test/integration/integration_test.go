// Package integration contains end-to-end tests for arcphpunit against
// fixture PHP projects.
package integration

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"sync"
	"testing"

	"github.com/sirupsen/logrus"
	logtest "github.com/sirupsen/logrus/hooks/test"
	"github.com/spf13/afero"

	"github.com/AndreyAkinshin/arcphpunit/internal/engine"
	"github.com/AndreyAkinshin/arcphpunit/internal/project"
	"github.com/AndreyAkinshin/arcphpunit/internal/runner"
)

var (
	fixturesDirOnce sync.Once
	fixturesDirPath string
)

// fixturesDir returns the path to the test fixtures directory.
func fixturesDir() string {
	fixturesDirOnce.Do(func() {
		_, filename, _, _ := runtime.Caller(0)
		fixturesDirPath = filepath.Join(filepath.Dir(filename), "..", "fixtures")
	})
	return fixturesDirPath
}

func fixture(name string) string {
	return filepath.Join(fixturesDir(), name)
}

func readFixture(t *testing.T, name string) []byte {
	t.Helper()
	data, err := os.ReadFile(fixture(name))
	if err != nil {
		t.Fatalf("failed to read fixture %s: %v", name, err)
	}
	return data
}

// loadEngine loads a fixture project and builds an engine around r.
func loadEngine(t *testing.T, name string, r runner.Runner, env ...string) (*engine.Engine, *project.Project, *logtest.Hook) {
	t.Helper()
	proj, err := project.LoadProjectFrom(fixture(name))
	if err != nil {
		t.Fatalf("failed to load %s project: %v", name, err)
	}
	logger, hook := logtest.NewNullLogger()
	logger.SetLevel(logrus.DebugLevel)
	eng := engine.New(engine.Options{
		Root:   proj.Root,
		Config: proj.Config,
		Fs:     afero.NewOsFs(),
		Runner: r,
		Logger: logger,
		Env:    env,
	})
	return eng, proj, hook
}

// cloverFor builds a Clover report for a file under root. PHPUnit writes
// absolute paths, so fixtures cannot store it verbatim.
func cloverFor(root, rel string, lines map[int]int) string {
	body := ""
	for num := 1; num <= 20; num++ {
		if count, ok := lines[num]; ok {
			body += fmt.Sprintf("      <line num=\"%d\" type=\"stmt\" count=\"%d\"/>\n", num, count)
		}
	}
	return fmt.Sprintf(`<?xml version="1.0" encoding="UTF-8"?>
<coverage generated="1700000000">
  <project timestamp="1700000000">
    <file name="%s">
      <class name="Billing\Invoice" namespace="Billing">
        <metrics complexity="2" methods="2" coveredmethods="1"/>
      </class>
      <line num="9" type="method" name="add" count="1"/>
%s    </file>
  </project>
</coverage>
`, filepath.Join(root, rel), body)
}
