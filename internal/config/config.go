package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/adrg/xdg"
	"github.com/caarlos0/env/v11"
	"gopkg.in/yaml.v3"

	apperrors "github.com/Aman-CERP/appcli/internal/errors"
	"github.com/Aman-CERP/appcli/internal/source"
)

const (
	// AppName names the user config and state directories.
	AppName = "appcli"

	// ProjectFileName is the project-level config file in the project root.
	ProjectFileName = ".appcli.yaml"

	// LogFileAuto selects the default log file in the XDG state directory.
	LogFileAuto = "auto"
)

// Policies accepted by sources.on_error.
const (
	OnErrorHalt     = "halt"
	OnErrorContinue = "continue"
)

// Config represents the complete appcli configuration.
type Config struct {
	Version int           `yaml:"version" json:"version"`
	Paths   PathsConfig   `yaml:"paths" json:"paths"`
	Sources SourcesConfig `yaml:"sources" json:"sources"`
	Vendor  VendorConfig  `yaml:"vendor" json:"vendor"`
	Logging LoggingConfig `yaml:"logging" json:"logging"`
}

// PathsConfig locates the project's working files. Relative paths are
// resolved against Root.
type PathsConfig struct {
	Root              string `yaml:"root" json:"root"`
	Generation        string `yaml:"generation" json:"generation"`
	Deployment        string `yaml:"deployment" json:"deployment"`
	InstallerManifest string `yaml:"installer_manifest" json:"installer_manifest"`
	ModulesDir        string `yaml:"modules_dir" json:"modules_dir"`
}

// SourcesConfig controls command discovery.
type SourcesConfig struct {
	// Order lists source identifiers in priority order. Later sources
	// override commands of earlier ones.
	Order []string `yaml:"order" json:"order"`
	// OnError is "halt" (stop at the first failing source) or "continue".
	OnError string `yaml:"on_error" json:"on_error"`
}

// VendorConfig lists third-party command providers.
type VendorConfig struct {
	Providers []ProviderConfig `yaml:"providers" json:"providers"`
}

// ProviderConfig is one vendor command manifest.
type ProviderConfig struct {
	Name     string `yaml:"name" json:"name"`
	Manifest string `yaml:"manifest" json:"manifest"`
	// Optional providers are skipped when their manifest is missing.
	Optional bool `yaml:"optional" json:"optional"`
}

// LoggingConfig configures diagnostic logging.
type LoggingConfig struct {
	Level     string `yaml:"level" json:"level"`
	File      string `yaml:"file" json:"file"`
	MaxSizeMB int    `yaml:"max_size_mb" json:"max_size_mb"`
	MaxFiles  int    `yaml:"max_files" json:"max_files"`
}

// envOverrides holds APPCLI_* variables, which take precedence over files.
type envOverrides struct {
	Root          string   `env:"APPCLI_ROOT"`
	GenerationDir string   `env:"APPCLI_GENERATION_DIR"`
	Sources       []string `env:"APPCLI_SOURCES" envSeparator:","`
	OnError       string   `env:"APPCLI_ON_ERROR"`
	LogLevel      string   `env:"APPCLI_LOG_LEVEL"`
	LogFile       string   `env:"APPCLI_LOG_FILE"`
	Debug         bool     `env:"APPCLI_DEBUG"`
}

// NewConfig returns a configuration with default values.
func NewConfig() *Config {
	return &Config{
		Version: 1,
		Paths: PathsConfig{
			Root:              ".",
			Generation:        filepath.Join("var", "generation"),
			Deployment:        filepath.Join("etc", "env.json"),
			InstallerManifest: filepath.Join("setup", "commands.yaml"),
			ModulesDir:        "modules",
		},
		Sources: SourcesConfig{
			Order:   append([]string(nil), source.DefaultOrder...),
			OnError: OnErrorHalt,
		},
		Logging: LoggingConfig{
			Level:     "warn",
			MaxSizeMB: 10,
			MaxFiles:  5,
		},
	}
}

// GetUserConfigPath returns the path to the user configuration file,
// $XDG_CONFIG_HOME/appcli/config.yaml.
func GetUserConfigPath() string {
	xdg.Reload()
	return filepath.Join(xdg.ConfigHome, AppName, "config.yaml")
}

// UserConfigExists returns true if the user configuration file exists.
func UserConfigExists() bool {
	return fileExists(GetUserConfigPath())
}

// Load loads configuration for the project rooted at dir.
// It applies configuration in order of increasing precedence:
//  1. Hardcoded defaults
//  2. User config ($XDG_CONFIG_HOME/appcli/config.yaml)
//  3. Project config (.appcli.yaml in dir)
//  4. Environment variables (APPCLI_*)
func Load(dir string) (*Config, error) {
	absDir, err := filepath.Abs(dir)
	if err != nil {
		return nil, apperrors.ConfigError("failed to resolve project directory", err)
	}

	cfg := NewConfig()
	cfg.Paths.Root = absDir

	if userPath := GetUserConfigPath(); fileExists(userPath) {
		if err := cfg.loadYAML(userPath); err != nil {
			return nil, err
		}
	}

	if projectPath := filepath.Join(absDir, ProjectFileName); fileExists(projectPath) {
		if err := cfg.loadYAML(projectPath); err != nil {
			return nil, err
		}
	}

	if err := cfg.applyEnvOverrides(); err != nil {
		return nil, err
	}

	if !filepath.IsAbs(cfg.Paths.Root) {
		cfg.Paths.Root = filepath.Join(absDir, cfg.Paths.Root)
	}
	cfg.Paths.Root = filepath.Clean(cfg.Paths.Root)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// loadYAML merges the non-zero values of a YAML file into c.
func (c *Config) loadYAML(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return apperrors.ConfigError("failed to read config file", err).WithDetail("path", path)
	}

	var parsed Config
	if err := yaml.Unmarshal(data, &parsed); err != nil {
		return apperrors.New(apperrors.ErrCodeConfigInvalid, "failed to parse config file", err).
			WithDetail("path", path)
	}

	c.mergeWith(&parsed)
	return nil
}

// mergeWith merges non-zero values from other into c.
func (c *Config) mergeWith(other *Config) {
	if other.Version != 0 {
		c.Version = other.Version
	}

	if other.Paths.Root != "" {
		c.Paths.Root = other.Paths.Root
	}
	if other.Paths.Generation != "" {
		c.Paths.Generation = other.Paths.Generation
	}
	if other.Paths.Deployment != "" {
		c.Paths.Deployment = other.Paths.Deployment
	}
	if other.Paths.InstallerManifest != "" {
		c.Paths.InstallerManifest = other.Paths.InstallerManifest
	}
	if other.Paths.ModulesDir != "" {
		c.Paths.ModulesDir = other.Paths.ModulesDir
	}

	if len(other.Sources.Order) > 0 {
		c.Sources.Order = other.Sources.Order
	}
	if other.Sources.OnError != "" {
		c.Sources.OnError = other.Sources.OnError
	}

	// Providers replace rather than append: the order is significant.
	if len(other.Vendor.Providers) > 0 {
		c.Vendor.Providers = other.Vendor.Providers
	}

	if other.Logging.Level != "" {
		c.Logging.Level = other.Logging.Level
	}
	if other.Logging.File != "" {
		c.Logging.File = other.Logging.File
	}
	if other.Logging.MaxSizeMB != 0 {
		c.Logging.MaxSizeMB = other.Logging.MaxSizeMB
	}
	if other.Logging.MaxFiles != 0 {
		c.Logging.MaxFiles = other.Logging.MaxFiles
	}
}

// applyEnvOverrides applies APPCLI_* environment variable overrides.
func (c *Config) applyEnvOverrides() error {
	var ov envOverrides
	if err := env.Parse(&ov); err != nil {
		return apperrors.New(apperrors.ErrCodeConfigInvalid, "invalid APPCLI_* environment variable", err)
	}

	if ov.Root != "" {
		c.Paths.Root = ov.Root
	}
	if ov.GenerationDir != "" {
		c.Paths.Generation = ov.GenerationDir
	}
	if len(ov.Sources) > 0 {
		order := make([]string, 0, len(ov.Sources))
		for _, s := range ov.Sources {
			if s = strings.TrimSpace(s); s != "" {
				order = append(order, s)
			}
		}
		if len(order) > 0 {
			c.Sources.Order = order
		}
	}
	if ov.OnError != "" {
		c.Sources.OnError = ov.OnError
	}
	if ov.LogLevel != "" {
		c.Logging.Level = ov.LogLevel
	}
	if ov.LogFile != "" {
		c.Logging.File = ov.LogFile
	}
	if ov.Debug {
		c.Logging.Level = "debug"
		if c.Logging.File == "" {
			c.Logging.File = LogFileAuto
		}
	}
	return nil
}

// Validate checks the configuration for values that cannot work.
// Unknown source identifiers are not rejected here; they fail at their
// position during discovery.
func (c *Config) Validate() error {
	if strings.TrimSpace(c.Paths.Generation) == "" {
		return apperrors.New(apperrors.ErrCodeConfigInvalid, "paths.generation must not be empty", nil)
	}

	switch strings.ToLower(c.Sources.OnError) {
	case OnErrorHalt, OnErrorContinue:
	default:
		return apperrors.New(apperrors.ErrCodeConfigInvalid,
			fmt.Sprintf("sources.on_error must be 'halt' or 'continue', got %q", c.Sources.OnError), nil)
	}

	seen := make(map[string]bool, len(c.Sources.Order))
	for _, id := range c.Sources.Order {
		if strings.TrimSpace(id) == "" {
			return apperrors.New(apperrors.ErrCodeConfigInvalid, "sources.order contains an empty identifier", nil)
		}
		if seen[id] {
			return apperrors.New(apperrors.ErrCodeConfigInvalid,
				fmt.Sprintf("sources.order lists %q more than once", id), nil)
		}
		seen[id] = true
	}

	providers := make(map[string]bool, len(c.Vendor.Providers))
	for i, p := range c.Vendor.Providers {
		if strings.TrimSpace(p.Name) == "" {
			return apperrors.New(apperrors.ErrCodeConfigInvalid,
				fmt.Sprintf("vendor.providers[%d].name must not be empty", i), nil)
		}
		if strings.TrimSpace(p.Manifest) == "" {
			return apperrors.New(apperrors.ErrCodeConfigInvalid,
				fmt.Sprintf("vendor provider %q has no manifest", p.Name), nil)
		}
		if providers[p.Name] {
			return apperrors.New(apperrors.ErrCodeConfigInvalid,
				fmt.Sprintf("vendor provider %q is defined more than once", p.Name), nil)
		}
		providers[p.Name] = true
	}

	validLevels := map[string]bool{"debug": true, "info": true, "warn": true, "error": true}
	if !validLevels[strings.ToLower(c.Logging.Level)] {
		return apperrors.New(apperrors.ErrCodeConfigInvalid,
			fmt.Sprintf("logging.level must be 'debug', 'info', 'warn', or 'error', got %s", c.Logging.Level), nil)
	}
	if c.Logging.MaxSizeMB < 0 || c.Logging.MaxFiles < 0 {
		return apperrors.New(apperrors.ErrCodeConfigInvalid, "logging.max_size_mb and logging.max_files must not be negative", nil)
	}

	return nil
}

// Resolve returns p made absolute against the project root.
func (c *Config) Resolve(p string) string {
	if filepath.IsAbs(p) {
		return filepath.Clean(p)
	}
	return filepath.Join(c.Paths.Root, p)
}

// GenerationDir returns the absolute generated-code directory.
func (c *Config) GenerationDir() string { return c.Resolve(c.Paths.Generation) }

// DeploymentPath returns the absolute deployment config path.
func (c *Config) DeploymentPath() string { return c.Resolve(c.Paths.Deployment) }

// InstallerManifestPath returns the absolute installer manifest path.
func (c *Config) InstallerManifestPath() string { return c.Resolve(c.Paths.InstallerManifest) }

// ModulesDir returns the absolute modules directory.
func (c *Config) ModulesDir() string { return c.Resolve(c.Paths.ModulesDir) }

// ProjectConfigPath returns the path of the project config file.
func (c *Config) ProjectConfigPath() string {
	return filepath.Join(c.Paths.Root, ProjectFileName)
}

// FindProjectRoot finds the project root directory.
// It looks for a .git directory or an .appcli.yaml file by walking up the
// directory tree, and falls back to startDir.
func FindProjectRoot(startDir string) (string, error) {
	absDir, err := filepath.Abs(startDir)
	if err != nil {
		return "", fmt.Errorf("failed to get absolute path: %w", err)
	}

	currentDir := absDir
	for {
		if dirExists(filepath.Join(currentDir, ".git")) ||
			fileExists(filepath.Join(currentDir, ProjectFileName)) {
			return currentDir, nil
		}

		parentDir := filepath.Dir(currentDir)
		if parentDir == currentDir {
			return absDir, nil
		}
		currentDir = parentDir
	}
}

func fileExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}

func dirExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.IsDir()
}
