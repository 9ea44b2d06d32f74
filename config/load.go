package config

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"

	"gopkg.in/yaml.v3"
)

// Load reads configuration from a file with ENV interpolation. If configPath
// is empty, it searches default locations; unlike a server, the calculator
// runs fine without a config file, so "nothing found" returns Defaults().
func Load(configPath string, getenv func(string) string) (*Config, error) {
	path := resolveConfigPath(configPath, getenv)
	if path == "" {
		if configPath != "" {
			return nil, fmt.Errorf("config file not found: %s", configPath)
		}
		return Defaults(), nil
	}

	// Get absolute path and directory for resolving relative paths
	absPath, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve config path: %w", err)
	}
	baseDir := filepath.Dir(absPath)

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config: %w", err)
	}

	// Interpolate environment variables
	data = interpolateEnv(data, getenv)

	cfg := Defaults()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	cfg.BaseDir = baseDir

	// Resolve relative file paths against the config file's directory
	if cfg.History.Path != "" && !filepath.IsAbs(cfg.History.Path) {
		cfg.History.Path = filepath.Join(baseDir, cfg.History.Path)
	}
	if cfg.REPL.HistoryFile != "" && !filepath.IsAbs(cfg.REPL.HistoryFile) {
		cfg.REPL.HistoryFile = filepath.Join(baseDir, cfg.REPL.HistoryFile)
	}

	if err := Validate(cfg); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Validate checks configuration for errors.
func Validate(cfg *Config) error {
	if cfg.Output.Format != "text" && cfg.Output.Format != "json" {
		return fmt.Errorf("invalid output.format: %q (must be \"text\" or \"json\")", cfg.Output.Format)
	}
	if cfg.Output.Precision < 0 || cfg.Output.Precision > 17 {
		return fmt.Errorf("invalid output.precision: %d (must be 0-17)", cfg.Output.Precision)
	}
	return nil
}

// resolveConfigPath finds the config file to use.
// Search order: explicit path > CPLX_CONFIG env > ./cplx.yaml > ~/.config/cplx/cplx.yaml
func resolveConfigPath(explicit string, getenv func(string) string) string {
	if explicit != "" {
		if _, err := os.Stat(explicit); err != nil {
			return ""
		}
		return explicit
	}

	// Try CPLX_CONFIG environment variable
	if envPath := getenv("CPLX_CONFIG"); envPath != "" {
		if _, err := os.Stat(envPath); err == nil {
			return envPath
		}
	}

	// Try ./cplx.yaml
	if _, err := os.Stat("cplx.yaml"); err == nil {
		return "cplx.yaml"
	}

	// Try ~/.config/cplx/cplx.yaml
	home, err := os.UserHomeDir()
	if err == nil {
		xdgPath := filepath.Join(home, ".config", "cplx", "cplx.yaml")
		if _, err := os.Stat(xdgPath); err == nil {
			return xdgPath
		}
	}

	return ""
}

// envPattern matches ${VAR} or ${VAR:-default}
var envPattern = regexp.MustCompile(`\$\{([^}:]+)(?::-([^}]*))?\}`)

// interpolateEnv replaces ${VAR} and ${VAR:-default} patterns with environment values.
func interpolateEnv(data []byte, getenv func(string) string) []byte {
	return envPattern.ReplaceAllFunc(data, func(match []byte) []byte {
		parts := envPattern.FindSubmatch(match)
		if len(parts) < 2 {
			return match
		}

		varName := string(parts[1])
		value := getenv(varName)

		if value == "" && len(parts) >= 3 && len(parts[2]) > 0 {
			value = string(parts[2])
		}

		return []byte(value)
	})
}
