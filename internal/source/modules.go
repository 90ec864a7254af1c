package source

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"

	"github.com/Aman-CERP/appcli/internal/command"
	"github.com/Aman-CERP/appcli/internal/deployment"
	"github.com/Aman-CERP/appcli/internal/manifest"
)

// ModuleSource offers commands declared by installed modules. It is only
// available once the deployment config marks the application installed.
type ModuleSource struct {
	// DeploymentPath is the deployment config file (JSON with comments).
	DeploymentPath string
	// Dir holds one sub-directory per module, each with an optional
	// commands.yaml.
	Dir string
}

// NewModules creates a module source.
func NewModules(deploymentPath, dir string) *ModuleSource {
	return &ModuleSource{DeploymentPath: deploymentPath, Dir: dir}
}

// Name implements Source.
func (s *ModuleSource) Name() string { return Modules }

// Available implements Gated.
func (s *ModuleSource) Available(context.Context) (bool, error) {
	return deployment.Available(s.DeploymentPath)
}

// Commands loads every module manifest in module-name order. The first
// manifest that fails to load stops the scan; commands from modules already
// read are returned with the error.
func (s *ModuleSource) Commands(ctx context.Context) ([]command.Command, error) {
	dep, err := deployment.Load(s.DeploymentPath)
	if err != nil {
		return nil, err
	}

	entries, err := os.ReadDir(s.Dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("read modules dir: %w", err)
	}
	sort.Slice(entries, func(i, j int) bool { return entries[i].Name() < entries[j].Name() })

	var cmds []command.Command
	for _, e := range entries {
		if err := ctx.Err(); err != nil {
			return cmds, err
		}
		if !e.IsDir() {
			continue
		}
		if !dep.ModuleEnabled(e.Name()) {
			slog.Debug("Module disabled, skipping commands", slog.String("module", e.Name()))
			continue
		}

		path := filepath.Join(s.Dir, e.Name(), manifest.FileName)
		if _, err := os.Stat(path); os.IsNotExist(err) {
			continue
		}
		moduleCmds, err := manifest.LoadCommands(path, Modules)
		if err != nil {
			return cmds, fmt.Errorf("module %s: %w", e.Name(), err)
		}
		cmds = append(cmds, moduleCmds...)
	}
	return cmds, nil
}
