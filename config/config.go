// Package config loads the daemon configuration file. Command-line flags
// override file values; the file itself is optional unless named
// explicitly.
package config

import (
	"fmt"
	"net/url"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
)

type Config struct {
	ServerURL    string `toml:"server_url"`
	OutputMode   string `toml:"output_mode"`
	Tray         bool   `toml:"tray"`
	Hotkey       bool   `toml:"hotkey"`
	Format       string `toml:"format"`
	UseOllama    bool   `toml:"use_ollama"`
	OllamaModel  string `toml:"ollama_model"`
	OllamaPrompt string `toml:"ollama_prompt"`
	PidFile      string `toml:"pid_file"`
}

func Default() Config {
	return Config{
		ServerURL:  "http://localhost:18031",
		OutputMode: "clipboard",
		Format:     "wav",
		PidFile:    "/tmp/voxtyped.pid",
	}
}

// DefaultPath is where Load looks when no -config flag is given.
func DefaultPath() string {
	xdgConfig := os.Getenv("XDG_CONFIG_HOME")
	if xdgConfig == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return ""
		}
		xdgConfig = filepath.Join(home, ".config")
	}
	return filepath.Join(xdgConfig, "voxtyped", "config.toml")
}

// Load reads the TOML file at path on top of the defaults. A missing file
// is fatal only when the user named it explicitly.
func Load(path string, explicit bool) (Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}
	if _, err := os.Stat(path); os.IsNotExist(err) {
		if explicit {
			return cfg, fmt.Errorf("config file not found: %s", path)
		}
		return cfg, nil
	}
	if _, err := toml.DecodeFile(path, &cfg); err != nil {
		return cfg, fmt.Errorf("parsing %s: %w", path, err)
	}
	return cfg, nil
}

func (c *Config) Validate() error {
	u, err := url.Parse(c.ServerURL)
	if err != nil {
		return fmt.Errorf("invalid server_url %q: %w", c.ServerURL, err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("invalid server_url scheme %q (use http or https)", u.Scheme)
	}
	if u.Host == "" {
		return fmt.Errorf("server_url %q has no host", c.ServerURL)
	}
	switch c.OutputMode {
	case "clipboard", "direct_type":
	default:
		return fmt.Errorf("invalid output_mode %q (use clipboard or direct_type)", c.OutputMode)
	}
	switch c.Format {
	case "wav", "flac":
	default:
		return fmt.Errorf("invalid format %q (use wav or flac)", c.Format)
	}
	if c.PidFile == "" {
		return fmt.Errorf("pid_file must not be empty")
	}
	return nil
}
