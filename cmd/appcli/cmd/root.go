// Package cmd wires configuration, logging and the command sources into the
// appcli bootstrapper.
package cmd

import (
	"context"
	"io"
	"log/slog"
	"os"

	"github.com/Aman-CERP/appcli/internal/aggregate"
	"github.com/Aman-CERP/appcli/internal/bootstrap"
	"github.com/Aman-CERP/appcli/internal/builtin"
	"github.com/Aman-CERP/appcli/internal/config"
	"github.com/Aman-CERP/appcli/internal/engine"
	apperrors "github.com/Aman-CERP/appcli/internal/errors"
	"github.com/Aman-CERP/appcli/internal/logging"
	"github.com/Aman-CERP/appcli/internal/output"
	"github.com/Aman-CERP/appcli/internal/preflight"
	"github.com/Aman-CERP/appcli/internal/source"
	"github.com/Aman-CERP/appcli/pkg/version"
)

// Streams are the standard streams of one run.
type Streams struct {
	Stdin  io.Reader
	Stdout io.Writer
	Stderr io.Writer
}

// Execute runs appcli from the current directory and returns the process
// exit code. It installs the configured logger as the slog default.
func Execute(ctx context.Context, args []string) int {
	return run(ctx, args, ".", Streams{Stdin: os.Stdin, Stdout: os.Stdout, Stderr: os.Stderr}, true)
}

// Run runs appcli for the project containing dir without touching global
// state.
func Run(ctx context.Context, args []string, dir string, streams Streams) int {
	return run(ctx, args, dir, streams, false)
}

func run(ctx context.Context, args []string, dir string, streams Streams, setDefault bool) int {
	root, err := config.FindProjectRoot(dir)
	if err != nil {
		root = dir
	}

	cfg, err := config.Load(root)
	if err != nil {
		output.New(streams.Stderr).Banner("The appcli configuration could not be loaded.", apperrors.FormatForCLI(err))
		return bootstrap.ExitInitFailed
	}

	logger, cleanup, err := logging.Setup(logging.Config{
		Level:     cfg.Logging.Level,
		FilePath:  logging.ResolvePath(cfg.Logging.File, cfg.Paths.Root),
		MaxSizeMB: cfg.Logging.MaxSizeMB,
		MaxFiles:  cfg.Logging.MaxFiles,
		Stderr:    streams.Stderr,
	})
	if err != nil {
		// Logging to a file is optional; carry on with stderr.
		output.New(streams.Stderr).Warning("File logging disabled: " + err.Error())
		fallback := logging.DefaultConfig()
		fallback.Level = cfg.Logging.Level
		fallback.Stderr = streams.Stderr
		logger, cleanup, _ = logging.Setup(fallback)
	}
	defer cleanup()
	if setDefault {
		slog.SetDefault(logger)
	}

	// Validated by config.Load.
	policy, _ := aggregate.ParsePolicy(cfg.Sources.OnError)

	var b *bootstrap.Bootstrapper
	catalog := NewCatalog(cfg, func() []aggregate.SourceReport { return b.Report() }, logger)
	b = bootstrap.New(
		bootstrap.Config{WorkDir: cfg.GenerationDir(), Policy: policy},
		bootstrap.Deps{
			Prober:  preflight.New(preflight.WithOutput(io.Discard)),
			Sources: catalog.Resolve(cfg.Sources.Order),
			Engine: &engine.Cobra{
				Name:    "appcli",
				Short:   "Application command line",
				Version: version.Short(),
				Stdin:   streams.Stdin,
				Stdout:  streams.Stdout,
				Stderr:  streams.Stderr,
			},
			Diagnostics: streams.Stderr,
			Logger:      logger,
		},
	)

	logger.Debug("appcli starting",
		slog.String("version", version.Short()),
		slog.String("root", cfg.Paths.Root),
		slog.String("work_dir", cfg.GenerationDir()),
		slog.Any("sources", cfg.Sources.Order),
		slog.String("on_error", policy.String()))

	res := b.Run(ctx, args)

	logger.Debug("appcli finished",
		slog.Int("exit_code", res.ExitCode),
		slog.String("state", res.State.String()))
	return res.ExitCode
}

// NewCatalog registers every source appcli is built with. report gives the
// framework's sources command access to the current run's aggregation.
func NewCatalog(cfg *config.Config, report func() []aggregate.SourceReport, logger *slog.Logger) *source.Catalog {
	providers := make([]source.Source, 0, len(cfg.Vendor.Providers))
	for _, p := range cfg.Vendor.Providers {
		providers = append(providers, &source.ManifestProvider{
			ID:       p.Name,
			Path:     cfg.Resolve(p.Manifest),
			Optional: p.Optional,
		})
	}

	c := source.NewCatalog()
	c.Register(builtin.NewSource(builtin.Env{
		WorkDir:        cfg.GenerationDir(),
		ProjectRoot:    cfg.Paths.Root,
		UserConfigPath: config.GetUserConfigPath(),
		Report:         report,
		Logger:         logger,
	}))
	c.Register(source.NewInstaller(cfg.InstallerManifestPath()))
	c.Register(source.NewModules(cfg.DeploymentPath(), cfg.ModulesDir()))
	c.Register(source.NewVendor(providers...))
	return c
}
