package builtin

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/Aman-CERP/appcli/internal/command"
	apperrors "github.com/Aman-CERP/appcli/internal/errors"
	"github.com/Aman-CERP/appcli/internal/lock"
)

// CleanLockName is the lock file kept in the generated code directory.
const CleanLockName = ".clean.lock"

func newCleanCmd(env Env, _ *command.Invocation) *cobra.Command {
	var dryRun bool

	cmd := &cobra.Command{
		Use:   "generated:clean",
		Short: "Remove the contents of the generated code directory",
		Long: `Remove everything inside the generated code directory. The directory
itself is kept. Concurrent runs are serialized with a lock file.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			removed, err := cleanDir(env.WorkDir, dryRun, env.Logger)
			if err != nil {
				return err
			}

			verb := "Removed"
			if dryRun {
				verb = "Would remove"
			}
			_, err = fmt.Fprintf(cmd.OutOrStdout(), "%s %d entries from %s\n", verb, len(removed), env.WorkDir)
			return err
		},
	}

	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "List what would be removed without removing it")

	return cmd
}

// cleanDir removes every entry of dir except the lock file, holding the
// lock for the duration. It returns the removed entry names.
func cleanDir(dir string, dryRun bool, logger *slog.Logger) ([]string, error) {
	l := lock.New(dir, CleanLockName)
	acquired, err := l.TryLock()
	if err != nil {
		return nil, apperrors.New(apperrors.ErrCodeLockFailed, "failed to lock generated code directory", err).
			WithDetail("dir", dir)
	}
	if !acquired {
		return nil, apperrors.New(apperrors.ErrCodeLockFailed, "another process is cleaning the generated code directory", nil).
			WithDetail("dir", dir).
			WithDetail("lock", l.Path()).
			WithSuggestion("Wait for the other run to finish and try again")
	}
	defer func() { _ = l.Unlock() }()

	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrCodeFilePermission, err)
	}

	var removed []string
	var errs []error
	for _, e := range entries {
		if filepath.Join(dir, e.Name()) == l.Path() {
			continue
		}
		if !dryRun {
			if err := os.RemoveAll(filepath.Join(dir, e.Name())); err != nil {
				errs = append(errs, err)
				continue
			}
		}
		removed = append(removed, e.Name())
	}

	logger.Info("Generated code directory cleaned",
		slog.String("dir", dir),
		slog.Int("removed", len(removed)),
		slog.Bool("dry_run", dryRun))

	if len(errs) > 0 {
		return removed, apperrors.New(apperrors.ErrCodeFilePermission,
			fmt.Sprintf("failed to remove %d entries", len(errs)), errors.Join(errs...)).
			WithDetail("dir", dir)
	}
	return removed, nil
}
