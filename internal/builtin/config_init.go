package builtin

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/Aman-CERP/appcli/configs"
	"github.com/Aman-CERP/appcli/internal/command"
	"github.com/Aman-CERP/appcli/internal/config"
	apperrors "github.com/Aman-CERP/appcli/internal/errors"
	"github.com/Aman-CERP/appcli/internal/output"
)

func newConfigInitCmd(env Env, _ *command.Invocation) *cobra.Command {
	var (
		force bool
		user  bool
	)

	cmd := &cobra.Command{
		Use:   "config:init",
		Short: "Create a configuration file from the default template",
		Long: `Write the default project configuration to .appcli.yaml in the project
root, or with --user the default user configuration to the XDG config
directory.

An existing file is left alone unless --force is given; it is backed up
before being replaced.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			path := filepath.Join(env.ProjectRoot, config.ProjectFileName)
			template := configs.ProjectConfigTemplate
			if user {
				path = env.UserConfigPath
				template = configs.UserConfigTemplate
			}

			backup, err := writeTemplate(path, template, force)
			if err != nil {
				return err
			}

			out := output.New(cmd.OutOrStdout())
			if backup != "" {
				out.Statusf("", "Backed up previous file to %s", backup)
			}
			out.Successf("Wrote %s", path)
			return nil
		},
	}

	cmd.Flags().BoolVar(&force, "force", false, "Overwrite an existing file")
	cmd.Flags().BoolVar(&user, "user", false, "Write the user configuration instead of the project one")

	return cmd
}

// writeTemplate writes content to path. An existing file is only replaced
// with force, after a backup whose path is returned.
func writeTemplate(path, content string, force bool) (string, error) {
	if path == "" {
		return "", apperrors.ConfigError("no configuration path", nil)
	}

	var backup string
	if _, err := os.Stat(path); err == nil {
		if !force {
			return "", apperrors.New(apperrors.ErrCodeInvalidInput,
				fmt.Sprintf("%s already exists", path), nil).
				WithSuggestion("Use --force to overwrite it")
		}
		if backup, err = config.Backup(path); err != nil {
			return "", apperrors.ConfigError("failed to back up existing config", err)
		}
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return "", apperrors.Wrap(apperrors.ErrCodeFilePermission, err)
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		return "", apperrors.Wrap(apperrors.ErrCodeFilePermission, err)
	}
	return backup, nil
}
