package project

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/AndreyAkinshin/arcphpunit/internal/config"
)

// Project represents a loaded PHP project.
type Project struct {
	Root     string
	Config   *config.Config
	Warnings []string
}

// LoadProject finds and loads a project from the current directory.
func LoadProject() (*Project, error) {
	root, err := FindRoot()
	if err != nil {
		return nil, err
	}
	return LoadProjectFrom(root)
}

// LoadProjectFrom loads a project from a specified root directory.
// A root without .arcconfig gets the default configuration.
func LoadProjectFrom(root string) (*Project, error) {
	abs, err := filepath.Abs(root)
	if err != nil {
		return nil, err
	}

	info, err := os.Stat(abs)
	if err != nil {
		return nil, fmt.Errorf("project root: %w", err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("project root %s is not a directory", abs)
	}

	cfg, warnings, err := config.LoadAndValidate(filepath.Join(abs, config.FileName))
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}

	return &Project{
		Root:     abs,
		Config:   cfg,
		Warnings: warnings,
	}, nil
}

// ConfigPath returns the full path to the project configuration file.
func (p *Project) ConfigPath() string {
	return filepath.Join(p.Root, config.FileName)
}

// MissingTestDirs returns the configured test directory names when none of
// them appears on a path discovered by DiscoverTestDirs. Finding any one
// name is enough: the defaults list both "tests" and "Tests" and a project
// normally has only one of them.
func (p *Project) MissingTestDirs() []string {
	found := make(map[string]bool)
	for _, dir := range DiscoverTestDirs(p.Root) {
		for _, part := range strings.Split(dir, string(filepath.Separator)) {
			found[part] = true
		}
	}

	for _, name := range p.Config.TestDirs {
		if found[name] {
			return nil
		}
	}
	return append([]string(nil), p.Config.TestDirs...)
}
