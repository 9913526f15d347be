// Package config provides loading and validation of the arcphpunit settings
// stored in a project's .arcconfig file.
package config

// Config holds the unit.phpunit.* keys of .arcconfig. The file is shared
// with other tools; keys outside this prefix are ignored.
type Config struct {
	TestDirs     []string `json:"unit.phpunit.test-dirs,omitempty" yaml:"test-dirs,omitempty"`
	RunnerConfig string   `json:"unit.phpunit.config,omitempty" yaml:"config,omitempty"`
	Binary       string   `json:"unit.phpunit.binary,omitempty" yaml:"binary,omitempty"`
	Coverage     *bool    `json:"unit.phpunit.coverage,omitempty" yaml:"coverage,omitempty"`
	CoveragePath string   `json:"unit.phpunit.coverage-path,omitempty" yaml:"coverage-path,omitempty"`
}

// KeyPrefix is the .arcconfig key namespace owned by arcphpunit.
const KeyPrefix = "unit.phpunit."

// CoverageEnabled reports whether Clover coverage should be collected.
// Coverage is on unless explicitly disabled.
func (c *Config) CoverageEnabled() bool {
	return c.Coverage == nil || *c.Coverage
}
