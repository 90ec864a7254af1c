package logging

import (
	"path/filepath"

	"github.com/adrg/xdg"
)

// AutoPath is the log file setting that selects DefaultLogPath.
const AutoPath = "auto"

// DefaultLogDir returns the log directory, $XDG_STATE_HOME/appcli/logs.
func DefaultLogDir() string {
	xdg.Reload()
	return filepath.Join(xdg.StateHome, "appcli", "logs")
}

// DefaultLogPath returns the default log file path.
func DefaultLogPath() string {
	return filepath.Join(DefaultLogDir(), "appcli.log")
}

// ResolvePath maps a configured log file setting to a path. "auto" selects
// the default path and a relative path is taken relative to root.
func ResolvePath(setting, root string) string {
	switch {
	case setting == "":
		return ""
	case setting == AutoPath:
		return DefaultLogPath()
	case filepath.IsAbs(setting):
		return setting
	default:
		return filepath.Join(root, setting)
	}
}
