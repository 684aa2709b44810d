// internal/config/config.go
package config

import (
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// Config holds resolved paths plus the settings loaded from the optional
// config file at ~/.pageforge/config.yaml.
type Config struct {
	HomeDir      string `yaml:"-"`
	PageforgeDir string `yaml:"-"`
	DatabasePath string `yaml:"-"`

	Server   Server   `yaml:"server"`
	Services Services `yaml:"services"`
	Keymap   Keymap   `yaml:"keymap"`
}

// Server configures the websocket endpoint the browser clients connect to.
type Server struct {
	Listen  string `yaml:"listen"`
	AuthKey string `yaml:"authKey"`
}

// Services names the external collaborators. When StoreURL is empty the
// embedded development version store is used instead.
type Services struct {
	GenerateURL string `yaml:"generateUrl"`
	StoreURL    string `yaml:"storeUrl"`
}

// Keymap holds the user's shortcut chords. Empty fields fall back to the
// built-in defaults.
type Keymap struct {
	Open string `yaml:"open"`
	Undo string `yaml:"undo"`
	Redo string `yaml:"redo"`
}

// Load resolves paths, reads the config file if present, and applies
// environment overrides.
func Load() (*Config, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return nil, err
	}

	pageforgeDir := filepath.Join(home, ".pageforge")
	if err := os.MkdirAll(pageforgeDir, 0755); err != nil {
		return nil, err
	}

	cfg := &Config{
		HomeDir:      home,
		PageforgeDir: pageforgeDir,
		DatabasePath: filepath.Join(pageforgeDir, "versions.db"),
		Server: Server{
			Listen: "127.0.0.1:7420",
		},
		Services: Services{
			GenerateURL: "http://127.0.0.1:7421",
		},
	}

	if err := cfg.readFile(filepath.Join(pageforgeDir, "config.yaml")); err != nil {
		return nil, err
	}
	cfg.applyEnv()
	return cfg, nil
}

func (c *Config) readFile(path string) error {
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return nil
	}
	if err != nil {
		return err
	}
	return yaml.Unmarshal(data, c)
}

func (c *Config) applyEnv() {
	if v := os.Getenv("PAGEFORGE_LISTEN"); v != "" {
		c.Server.Listen = v
	}
	if v := os.Getenv("PAGEFORGE_AUTH_KEY"); v != "" {
		c.Server.AuthKey = v
	}
	if v := os.Getenv("PAGEFORGE_GENERATE_URL"); v != "" {
		c.Services.GenerateURL = v
	}
	if v := os.Getenv("PAGEFORGE_STORE_URL"); v != "" {
		c.Services.StoreURL = v
	}
}
