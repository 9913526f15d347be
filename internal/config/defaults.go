package config

// Default configuration values.
const (
	DefaultBinary       = "phpunit"
	DefaultCoveragePath = "src"
	DefaultVendorBinary = "vendor/bin/phpunit"
)

// DefaultTestDirs lists the test directory names used when none are configured.
var DefaultTestDirs = []string{"tests", "Tests"}

// Default returns a configuration with every default applied.
func Default() *Config {
	cfg := &Config{}
	applyDefaults(cfg)
	return cfg
}

// applyDefaults fills in default values for unset configuration fields.
// Binary is left empty so the run can prefer a project-local vendor/bin/phpunit.
func applyDefaults(cfg *Config) {
	if len(cfg.TestDirs) == 0 {
		cfg.TestDirs = append([]string(nil), DefaultTestDirs...)
	}
	if cfg.CoveragePath == "" {
		cfg.CoveragePath = DefaultCoveragePath
	}
}
