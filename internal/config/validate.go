package config

import (
	"fmt"
	"path/filepath"
	"strings"
)

// ValidationError represents a configuration validation error.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// Validate checks a configuration for errors and returns warnings for non-fatal issues.
func Validate(cfg *Config) (warnings []string, err error) {
	for i, name := range cfg.TestDirs {
		if err := ValidateTestDirName(name); err != nil {
			return nil, &ValidationError{
				Field:   fmt.Sprintf("%stest-dirs[%d]", KeyPrefix, i),
				Message: err.Error(),
			}
		}
	}

	if cfg.RunnerConfig != "" && filepath.IsAbs(cfg.RunnerConfig) {
		warnings = append(warnings, fmt.Sprintf("%sconfig is absolute; it is resolved against the project root", KeyPrefix))
	}
	if cfg.CoveragePath != "" && !cfg.CoverageEnabled() {
		if cfg.CoveragePath != DefaultCoveragePath {
			warnings = append(warnings, fmt.Sprintf("%scoverage-path is set but coverage is disabled", KeyPrefix))
		}
	}

	return warnings, nil
}

// ValidateTestDirName checks that a test directory name is a single path segment.
func ValidateTestDirName(name string) error {
	if strings.TrimSpace(name) == "" {
		return fmt.Errorf("is required")
	}
	if strings.ContainsAny(name, `/\`) {
		return fmt.Errorf("must be a directory name, not a path: %q", name)
	}
	if name == "." || name == ".." {
		return fmt.Errorf("must not be %q", name)
	}
	return nil
}
