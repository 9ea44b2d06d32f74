package config

import (
	"os"
	"path/filepath"
	"testing"
)

func noEnv(string) string { return "" }

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "cplx.yaml")
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("writing config: %v", err)
	}
	return path
}

func TestLoad_NoConfigFileUsesDefaults(t *testing.T) {
	// Run from an empty directory so ./cplx.yaml cannot be found.
	t.Chdir(t.TempDir())

	cfg, err := Load("", noEnv)
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if cfg.DefaultOperation != "conjugate" {
		t.Errorf("DefaultOperation = %q, want conjugate", cfg.DefaultOperation)
	}
	if cfg.Output.Format != "text" {
		t.Errorf("Output.Format = %q, want text", cfg.Output.Format)
	}
	if !cfg.History.Enabled {
		t.Error("History.Enabled should default to true")
	}
}

func TestLoad_ExplicitMissingFileIsAnError(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"), noEnv)
	if err == nil {
		t.Fatal("Load() with an explicit missing path should fail")
	}
}

func TestLoad_ParsesAndMergesDefaults(t *testing.T) {
	path := writeConfig(t, `
default_operation: negate
output:
  format: json
  precision: 6
`)

	cfg, err := Load(path, noEnv)
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if cfg.DefaultOperation != "negate" {
		t.Errorf("DefaultOperation = %q, want negate", cfg.DefaultOperation)
	}
	if cfg.Output.Format != "json" || cfg.Output.Precision != 6 {
		t.Errorf("Output = %+v", cfg.Output)
	}
	// Untouched keys keep their defaults.
	if cfg.REPL.Prompt != ">> " {
		t.Errorf("REPL.Prompt = %q, want default", cfg.REPL.Prompt)
	}
}

func TestLoad_EnvInterpolation(t *testing.T) {
	path := writeConfig(t, `
history:
  path: ${CPLX_HISTORY:-fallback.db}
repl:
  prompt: "${CPLX_PROMPT}"
`)

	getenv := func(name string) string {
		if name == "CPLX_PROMPT" {
			return "z> "
		}
		return ""
	}

	cfg, err := Load(path, getenv)
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if cfg.REPL.Prompt != "z> " {
		t.Errorf("REPL.Prompt = %q, want interpolated value", cfg.REPL.Prompt)
	}
	if filepath.Base(cfg.History.Path) != "fallback.db" {
		t.Errorf("History.Path = %q, want :- fallback applied", cfg.History.Path)
	}
}

func TestLoad_ResolvesRelativePaths(t *testing.T) {
	path := writeConfig(t, `
history:
  path: history.db
`)

	cfg, err := Load(path, noEnv)
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if !filepath.IsAbs(cfg.History.Path) {
		t.Errorf("History.Path = %q, want absolute", cfg.History.Path)
	}
	if filepath.Dir(cfg.History.Path) != filepath.Dir(path) {
		t.Errorf("History.Path = %q, want sibling of config file", cfg.History.Path)
	}
}

func TestLoad_CPLXConfigEnv(t *testing.T) {
	t.Chdir(t.TempDir())
	path := writeConfig(t, "default_operation: sqrt\n")

	getenv := func(name string) string {
		if name == "CPLX_CONFIG" {
			return path
		}
		return ""
	}

	cfg, err := Load("", getenv)
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if cfg.DefaultOperation != "sqrt" {
		t.Errorf("DefaultOperation = %q, want sqrt", cfg.DefaultOperation)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr bool
	}{
		{"defaults are valid", func(*Config) {}, false},
		{"json format", func(c *Config) { c.Output.Format = "json" }, false},
		{"bad format", func(c *Config) { c.Output.Format = "xml" }, true},
		{"negative precision", func(c *Config) { c.Output.Precision = -1 }, true},
		{"excessive precision", func(c *Config) { c.Output.Precision = 30 }, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Defaults()
			tt.mutate(cfg)
			err := Validate(cfg)
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}
