package cmd

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Aman-CERP/appcli/internal/aggregate"
	"github.com/Aman-CERP/appcli/internal/bootstrap"
	"github.com/Aman-CERP/appcli/internal/config"
	"github.com/Aman-CERP/appcli/internal/engine"
	"github.com/Aman-CERP/appcli/internal/source"
	"github.com/Aman-CERP/appcli/pkg/version"
)

var appEnvVars = []string{
	"APPCLI_ROOT", "APPCLI_GENERATION_DIR", "APPCLI_SOURCES", "APPCLI_ON_ERROR",
	"APPCLI_LOG_LEVEL", "APPCLI_LOG_FILE", "APPCLI_DEBUG",
}

// newProject creates an isolated project root with a .git marker.
func newProject(t *testing.T) string {
	t.Helper()
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	t.Setenv("XDG_STATE_HOME", t.TempDir())
	for _, k := range appEnvVars {
		t.Setenv(k, "")
		require.NoError(t, os.Unsetenv(k))
	}
	root := t.TempDir()
	require.NoError(t, os.Mkdir(filepath.Join(root, ".git"), 0o755))
	return root
}

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
}

func runIn(t *testing.T, dir string, args ...string) (int, string, string) {
	t.Helper()
	stdout, stderr := &bytes.Buffer{}, &bytes.Buffer{}
	code := Run(context.Background(), args, dir, Streams{
		Stdin: strings.NewReader(""), Stdout: stdout, Stderr: stderr,
	})
	return code, stdout.String(), stderr.String()
}

func TestRun_Version(t *testing.T) {
	// Given: a bare project
	root := newProject(t)

	// When: asking for the version from a subdirectory
	sub := filepath.Join(root, "src")
	require.NoError(t, os.Mkdir(sub, 0o755))
	code, stdout, stderr := runIn(t, sub, "version", "--short")

	// Then: success, and the generation dir was created under the root
	assert.Equal(t, bootstrap.ExitOK, code, stderr)
	assert.Equal(t, version.Short()+"\n", stdout)
	assert.DirExists(t, filepath.Join(root, "var", "generation"))
}

func TestRun_ListIncludesInstallerAndModuleCommands(t *testing.T) {
	// Given: an installed project with installer and module manifests
	root := newProject(t)
	writeFile(t, filepath.Join(root, "setup", "commands.yaml"), `
commands:
  - name: setup:install
    description: Install the application
    exec: ["true"]
`)
	writeFile(t, filepath.Join(root, "etc", "env.json"), `{
  // written by setup:install
  "installed": true,
  "modules": {"Legacy": false},
}`)
	writeFile(t, filepath.Join(root, "modules", "Catalog", "commands.yaml"), `
commands:
  - name: catalog:reindex
    description: Rebuild catalog indexes
    exec: ["true"]
`)
	writeFile(t, filepath.Join(root, "modules", "Legacy", "commands.yaml"), `
commands:
  - name: legacy:sync
    exec: ["true"]
`)

	// When: listing as JSON
	code, stdout, stderr := runIn(t, root, "list", "--json")

	// Then: framework, installer and enabled module commands are present
	require.Equal(t, bootstrap.ExitOK, code, stderr)
	assert.Contains(t, stdout, `"name": "list"`)
	assert.Contains(t, stdout, `"name": "setup:install"`)
	assert.Contains(t, stdout, `"source": "installer"`)
	assert.Contains(t, stdout, `"name": "catalog:reindex"`)
	assert.NotContains(t, stdout, "legacy:sync")
}

func TestRun_ManifestCommandExitCodePassesThrough(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("uses POSIX sh")
	}
	root := newProject(t)
	writeFile(t, filepath.Join(root, "setup", "commands.yaml"), `
commands:
  - name: setup:check
    exec: ["sh", "-c", "echo \"args:$*\"; exit 4", "sh"]
`)

	code, stdout, _ := runIn(t, root, "setup:check", "--dry", "x")

	assert.Equal(t, 4, code)
	assert.Equal(t, "args:--dry x\n", stdout)
}

func TestRun_BrokenModuleIsReportedAfterCommandRuns(t *testing.T) {
	// Given: an installed project whose module manifest is invalid
	root := newProject(t)
	writeFile(t, filepath.Join(root, "etc", "env.json"), `{"installed": true}`)
	writeFile(t, filepath.Join(root, "modules", "Sales", "commands.yaml"), "commands:\n  - name: sales:report\n")

	// When: running a framework command
	code, stdout, stderr := runIn(t, root, "version", "--short")

	// Then: the command ran but the run failed with the init banner
	assert.Equal(t, bootstrap.ExitInitFailed, code)
	assert.Equal(t, version.Short()+"\n", stdout)
	assert.Contains(t, stderr, "an error occurred while initializing commands")
	assert.Contains(t, stderr, filepath.Join(root, "var", "generation"))
}

func TestRun_SourcesCommandShowsHaltedDiscovery(t *testing.T) {
	// Given: an unknown source before vendor
	root := newProject(t)
	t.Setenv("APPCLI_SOURCES", "framework,acme,vendor")

	// When: showing sources
	code, stdout, stderr := runIn(t, root, "sources")

	// Then: the unknown source failed and vendor was never queried
	assert.Equal(t, bootstrap.ExitInitFailed, code)
	assert.Contains(t, stdout, "acme")
	assert.Contains(t, stdout, string(aggregate.OutcomeFailed))
	assert.Contains(t, stdout, string(aggregate.OutcomeNotAttempted))
	assert.Contains(t, stderr, `unknown command source "acme"`)
}

func TestRun_ContinuePolicyKeepsDiscovering(t *testing.T) {
	root := newProject(t)
	writeFile(t, filepath.Join(root, config.ProjectFileName), `
sources:
  order: [framework, acme, vendor]
  on_error: continue
vendor:
  providers:
    - name: tools
      manifest: vendor/tools/commands.yaml
`)
	writeFile(t, filepath.Join(root, "vendor", "tools", "commands.yaml"), `
commands:
  - name: tools:lint
    exec: ["true"]
`)

	code, stdout, _ := runIn(t, root, "list")

	assert.Equal(t, bootstrap.ExitInitFailed, code)
	assert.Contains(t, stdout, "tools:lint")
	assert.Contains(t, stdout, "vendor/tools")
}

func TestRun_ProbeFailureStopsEverything(t *testing.T) {
	// Given: the generation path is a regular file
	root := newProject(t)
	writeFile(t, filepath.Join(root, "var", "generation"), "not a directory")

	// When: running any command
	code, stdout, stderr := runIn(t, root, "version")

	// Then: nothing ran
	assert.Equal(t, bootstrap.ExitProbeFailed, code)
	assert.Empty(t, stdout)
	assert.Contains(t, stderr, "does not have read and write permissions")
}

func TestRun_UnknownCommand(t *testing.T) {
	root := newProject(t)

	code, _, stderr := runIn(t, root, "nosuch")

	assert.Equal(t, engine.ExitUsage, code)
	assert.Contains(t, stderr, `unknown command "nosuch"`)
}

func TestRun_InvalidConfig(t *testing.T) {
	root := newProject(t)
	t.Setenv("APPCLI_ON_ERROR", "retry")

	code, _, stderr := runIn(t, root, "version")

	assert.Equal(t, bootstrap.ExitInitFailed, code)
	assert.Contains(t, stderr, "configuration could not be loaded")
	assert.Contains(t, stderr, "ERR_103_CONFIG_INVALID")
}

func TestRun_DebugWritesLogFile(t *testing.T) {
	root := newProject(t)
	t.Setenv("APPCLI_DEBUG", "1")

	code, _, _ := runIn(t, root, "version")

	require.Equal(t, bootstrap.ExitOK, code)
	data, err := os.ReadFile(filepath.Join(os.Getenv("XDG_STATE_HOME"), "appcli", "logs", "appcli.log"))
	require.NoError(t, err)
	assert.Contains(t, string(data), "appcli starting")
	assert.Contains(t, string(data), "Bootstrap state change")
}

func TestNewCatalog_RegistersEverySource(t *testing.T) {
	cfg := config.NewConfig()
	cfg.Paths.Root = t.TempDir()
	cfg.Vendor.Providers = []config.ProviderConfig{{Name: "acme", Manifest: "vendor/acme/commands.yaml"}}
	writeFile(t, filepath.Join(cfg.Paths.Root, "vendor", "acme", "commands.yaml"), `
commands:
  - name: acme:sync
    exec: ["true"]
`)

	c := NewCatalog(cfg, nil, nil)

	assert.ElementsMatch(t, source.DefaultOrder, c.Names())

	// The provider manifest path resolves against the project root.
	srcs := c.Resolve([]string{source.Vendor})
	require.Len(t, srcs, 1)
	cmds, err := srcs[0].Commands(context.Background())
	require.NoError(t, err)
	require.Len(t, cmds, 1)
	assert.Equal(t, "acme:sync", cmds[0].Name)
	assert.Equal(t, "vendor/acme", cmds[0].Source)
}

func TestRun_UnusableLogFileFallsBackToStderr(t *testing.T) {
	// Given: a log file path below a regular file
	root := newProject(t)
	writeFile(t, filepath.Join(root, "blocker"), "x")
	t.Setenv("APPCLI_LOG_FILE", filepath.Join(root, "blocker", "appcli.log"))

	// When: running a command
	code, stdout, stderr := runIn(t, root, "version", "--short")

	// Then: a warning is shown and the command still runs
	assert.Equal(t, bootstrap.ExitOK, code, stderr)
	assert.Equal(t, version.Short()+"\n", stdout)
	assert.Contains(t, stderr, "File logging disabled")
}

func TestRun_NilArgsIgnoreProcessArgs(t *testing.T) {
	// Given: a process launched with an unknown command
	root := newProject(t)
	saved := os.Args
	os.Args = []string{"appcli", "nosuch"}
	t.Cleanup(func() { os.Args = saved })

	// When: running with nil args
	stdout, stderr := &bytes.Buffer{}, &bytes.Buffer{}
	code := Run(context.Background(), nil, root, Streams{
		Stdin: strings.NewReader(""), Stdout: stdout, Stderr: stderr,
	})

	// Then: help is shown instead of a usage error
	assert.Equal(t, bootstrap.ExitOK, code, stderr.String())
	assert.Contains(t, stdout.String(), "generated:clean")
}
