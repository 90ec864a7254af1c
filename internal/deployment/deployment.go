// Package deployment reads the deployment configuration that decides whether
// the application is installed, and therefore whether module commands can be
// offered.
//
// The file is JSON that may contain comments and trailing commas:
//
//	{
//	  // set by the installer
//	  "installed": true,
//	  "mode": "production",
//	}
package deployment

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/tidwall/jsonc"

	apperrors "github.com/Aman-CERP/appcli/internal/errors"
)

// Config is the subset of the deployment file appcli cares about.
type Config struct {
	Installed bool            `json:"installed"`
	Mode      string          `json:"mode"`
	Modules   map[string]bool `json:"modules"`
}

// Load reads the deployment file at path. A missing file is reported as
// (nil, nil): an uninstalled application is a normal state.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("read deployment config %s: %w", path, err)
	}

	var cfg Config
	if err := json.Unmarshal(jsonc.ToJSON(data), &cfg); err != nil {
		return nil, apperrors.ConfigError("invalid deployment config", err).
			WithDetail("path", path)
	}
	return &cfg, nil
}

// Available reports whether the deployment file exists and marks the
// application as installed. Unreadable or malformed files are errors.
func Available(path string) (bool, error) {
	cfg, err := Load(path)
	if err != nil {
		return false, err
	}
	return cfg != nil && cfg.Installed, nil
}

// ModuleEnabled reports whether the named module may contribute commands.
// Modules not listed in the file are enabled.
func (c *Config) ModuleEnabled(name string) bool {
	if c == nil || c.Modules == nil {
		return true
	}
	enabled, listed := c.Modules[name]
	return !listed || enabled
}
