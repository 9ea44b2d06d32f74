// Package config loads cplx configuration from YAML.
package config

// Config represents the complete cplx configuration
type Config struct {
	BaseDir          string        `yaml:"-"`                 // Directory containing config file, for resolving relative paths
	DefaultOperation string        `yaml:"default_operation"` // Selector applied when no operation flag is given
	Output           OutputConfig  `yaml:"output"`
	History          HistoryConfig `yaml:"history"`
	REPL             REPLConfig    `yaml:"repl"`
}

// OutputConfig holds result rendering settings
type OutputConfig struct {
	Format    string `yaml:"format"`    // "text" or "json"
	Precision int    `yaml:"precision"` // Significant digits, 0 for minimal round-trip digits
}

// HistoryConfig holds evaluation history settings
type HistoryConfig struct {
	Enabled bool   `yaml:"enabled"`
	Path    string `yaml:"path"` // SQLite database file (default: ~/.config/cplx/history.db)
}

// REPLConfig holds interactive-mode settings
type REPLConfig struct {
	Prompt      string `yaml:"prompt"`
	HistoryFile string `yaml:"history_file"` // liner line-history file
}

// Defaults returns the configuration used when no config file is present.
func Defaults() *Config {
	return &Config{
		DefaultOperation: "conjugate",
		Output: OutputConfig{
			Format:    "text",
			Precision: 0,
		},
		History: HistoryConfig{
			Enabled: true,
		},
		REPL: REPLConfig{
			Prompt: ">> ",
		},
	}
}
