package source

import (
	"context"
	"fmt"
	"os"

	"github.com/Aman-CERP/appcli/internal/command"
	"github.com/Aman-CERP/appcli/internal/manifest"
)

// InstallerSource offers the installer's commands when the installer is
// shipped with the application.
type InstallerSource struct {
	// ManifestPath is the installer's commands.yaml.
	ManifestPath string
}

// NewInstaller creates an installer source reading manifestPath.
func NewInstaller(manifestPath string) *InstallerSource {
	return &InstallerSource{ManifestPath: manifestPath}
}

// Name implements Source.
func (s *InstallerSource) Name() string { return Installer }

// Available reports whether the installer manifest is present.
func (s *InstallerSource) Available(context.Context) (bool, error) {
	return fileExists(s.ManifestPath)
}

// Commands implements Source.
func (s *InstallerSource) Commands(context.Context) ([]command.Command, error) {
	return manifest.LoadCommands(s.ManifestPath, Installer)
}

// fileExists reports whether path exists. Errors other than non-existence
// are returned.
func fileExists(path string) (bool, error) {
	_, err := os.Stat(path)
	switch {
	case err == nil:
		return true, nil
	case os.IsNotExist(err):
		return false, nil
	default:
		return false, fmt.Errorf("stat %s: %w", path, err)
	}
}
