// Package manifest loads command declarations from YAML files.
//
// Installer, module and vendor command sources describe their commands in a
// commands.yaml manifest instead of compiled code. Each entry becomes a
// command.Command whose handler runs an external program.
package manifest

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/Aman-CERP/appcli/internal/command"
	apperrors "github.com/Aman-CERP/appcli/internal/errors"
)

// FileName is the conventional manifest file name.
const FileName = "commands.yaml"

// Manifest is the parsed content of a commands.yaml file.
type Manifest struct {
	Commands []Entry `yaml:"commands"`

	// path is the file the manifest was read from.
	path string
}

// Entry declares a single command.
type Entry struct {
	Name        string            `yaml:"name"`
	Description string            `yaml:"description"`
	Exec        []string          `yaml:"exec"`
	Dir         string            `yaml:"dir"`
	Env         map[string]string `yaml:"env"`
	Hidden      bool              `yaml:"hidden"`
}

// Load reads and validates the manifest at path.
func Load(path string) (*Manifest, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, apperrors.New(apperrors.ErrCodeFileNotFound, "manifest not found", err).
				WithDetail("path", path)
		}
		return nil, fmt.Errorf("read manifest %s: %w", path, err)
	}

	m, err := Parse(data)
	if err != nil {
		var ae *apperrors.AppError
		if errors.As(err, &ae) {
			ae.WithDetail("path", path)
		}
		return nil, fmt.Errorf("manifest %s: %w", path, err)
	}
	m.path = path
	return m, nil
}

// Parse decodes and validates manifest YAML.
func Parse(data []byte) (*Manifest, error) {
	var m Manifest
	if err := yaml.Unmarshal(data, &m); err != nil {
		return nil, apperrors.ValidationError("invalid manifest yaml", err)
	}
	if err := m.Validate(); err != nil {
		return nil, err
	}
	return &m, nil
}

// Validate checks every entry and rejects duplicate names.
func (m *Manifest) Validate() error {
	seen := make(map[string]bool, len(m.Commands))
	for i, e := range m.Commands {
		switch {
		case strings.TrimSpace(e.Name) == "":
			return apperrors.ValidationError(fmt.Sprintf("command #%d has no name", i+1), nil)
		case strings.ContainsAny(e.Name, " \t\n"):
			return apperrors.ValidationError(fmt.Sprintf("command name %q contains whitespace", e.Name), nil)
		case strings.HasPrefix(e.Name, "-"):
			return apperrors.ValidationError(fmt.Sprintf("command name %q starts with a dash", e.Name), nil)
		case len(e.Exec) == 0 || e.Exec[0] == "":
			return apperrors.ValidationError(fmt.Sprintf("command %q has no exec", e.Name), nil)
		case seen[e.Name]:
			return apperrors.ValidationError(fmt.Sprintf("command %q declared twice", e.Name), nil)
		}
		seen[e.Name] = true
	}
	return nil
}

// Build converts the manifest entries into commands attributed to source.
// Relative working directories resolve against the manifest's directory.
func (m *Manifest) Build(source string) []command.Command {
	base := "."
	if m.path != "" {
		base = filepath.Dir(m.path)
	}

	cmds := make([]command.Command, 0, len(m.Commands))
	for _, e := range m.Commands {
		dir := e.Dir
		if dir == "" {
			dir = base
		} else if !filepath.IsAbs(dir) {
			dir = filepath.Join(base, dir)
		}
		cmds = append(cmds, command.Command{
			Name:        e.Name,
			Description: e.Description,
			Source:      source,
			Hidden:      e.Hidden,
			Handler: &ExecHandler{
				Argv: append([]string(nil), e.Exec...),
				Dir:  dir,
				Env:  e.Env,
			},
		})
	}
	return cmds
}

// LoadCommands is Load followed by Build.
func LoadCommands(path, source string) ([]command.Command, error) {
	m, err := Load(path)
	if err != nil {
		return nil, err
	}
	return m.Build(source), nil
}
