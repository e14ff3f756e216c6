package cli

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/inveropulse/interact/internal/config"
)

// NewConfigInitCmd creates the config init command for initializing configuration.
// With --project it writes a project-local .interact/config.yaml overlay.
// Otherwise it creates the global configuration file.
func NewConfigInitCmd() *cobra.Command {
	var (
		force   bool
		project bool
	)

	cmd := &cobra.Command{
		Use:   "init",
		Short: "Initialize configuration file with default values",
		Long: `Creates a new configuration file with default values.

By default the global file is written ($INTERACT_CONFIG, or config.yaml in
$INTERACT_HOME or ~/.interact). With --project the file is written to the
project overlay directory: --project-dir when given, otherwise .interact in
the current directory.`,
		Example: `  # Create global configuration
  interact config init

  # Create a project overlay in the current directory
  interact config init --project

  # Create configuration, overwriting existing
  interact config init --force`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			path, err := initTarget(cmd, project)
			if err != nil {
				return err
			}
			return initConfig(cmd, path, force)
		},
	}

	cmd.Flags().BoolVar(&force, "force", false, "overwrite existing configuration file")
	cmd.Flags().BoolVar(&project, "project", false, "write a project-local overlay instead of the global file")

	return cmd
}

// initTarget returns the file config init writes.
func initTarget(cmd *cobra.Command, project bool) (string, error) {
	if !project {
		return config.ConfigPath()
	}

	flagValue, _ := cmd.Flags().GetString("project-dir")
	if flagValue == "" {
		cwd, err := os.Getwd()
		if err != nil {
			return "", fmt.Errorf("resolving current directory: %w", err)
		}
		flagValue = cwd
	}
	dir := config.ResolveProjectDir(cmd.Context(), flagValue, "")
	return filepath.Join(dir, "config.yaml"), nil
}

// initConfig writes the default configuration to path.
func initConfig(cmd *cobra.Command, path string, force bool) error {
	// Check if config already exists and force isn't set
	if !force {
		_, err := os.Stat(path)
		if err == nil {
			return fmt.Errorf("%w: %s", ErrConfigExists, path)
		}
		if !os.IsNotExist(err) {
			return fmt.Errorf("cannot access config path %s: %w", path, err)
		}
	}

	if err := config.Default().Save(path); err != nil {
		return fmt.Errorf("failed to save configuration: %w", err)
	}

	logger.Debug().Ctx(cmd.Context()).Str("path", path).Msg("configuration initialized")
	cmd.Printf("Configuration initialized successfully\n")
	cmd.Printf("Configuration file: %s\n", path)

	return nil
}
