package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestLoadMissingDefaultPath(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "nope.toml"), false)
	if err != nil {
		t.Fatalf("missing default config must not error: %v", err)
	}
	if cfg.ServerURL != Default().ServerURL {
		t.Errorf("got %q, want default server url", cfg.ServerURL)
	}
}

func TestLoadMissingExplicitPathFatal(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.toml"), true)
	if err == nil {
		t.Fatal("explicitly named missing config must error")
	}
}

func TestLoadOverridesDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	content := `
server_url = "http://stt.local:9000"
output_mode = "direct_type"
tray = true
use_ollama = true
ollama_model = "llama3"
ollama_prompt = "Fix punctuation:"
`
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}
	cfg, err := Load(path, true)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.ServerURL != "http://stt.local:9000" {
		t.Errorf("server_url = %q", cfg.ServerURL)
	}
	if cfg.OutputMode != "direct_type" || !cfg.Tray || !cfg.UseOllama {
		t.Errorf("overrides not applied: %+v", cfg)
	}
	if cfg.Format != "wav" {
		t.Errorf("unset field should keep default, format = %q", cfg.Format)
	}
}

func TestLoadMalformed(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	os.WriteFile(path, []byte("server_url = ["), 0644)
	if _, err := Load(path, true); err == nil {
		t.Fatal("expected parse error")
	}
}

func TestValidate(t *testing.T) {
	good := Default()
	if err := good.Validate(); err != nil {
		t.Fatalf("default config should validate: %v", err)
	}

	cases := []struct {
		name   string
		mutate func(*Config)
		want   string
	}{
		{"bad scheme", func(c *Config) { c.ServerURL = "ftp://host" }, "scheme"},
		{"no host", func(c *Config) { c.ServerURL = "http://" }, "host"},
		{"bad output mode", func(c *Config) { c.OutputMode = "teleport" }, "output_mode"},
		{"bad format", func(c *Config) { c.Format = "mp3" }, "format"},
		{"empty pid file", func(c *Config) { c.PidFile = "" }, "pid_file"},
	}
	for _, tc := range cases {
		cfg := Default()
		tc.mutate(&cfg)
		err := cfg.Validate()
		if err == nil {
			t.Errorf("%s: expected error", tc.name)
			continue
		}
		if !strings.Contains(err.Error(), tc.want) {
			t.Errorf("%s: error %q does not mention %q", tc.name, err, tc.want)
		}
	}
}
