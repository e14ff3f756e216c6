package cli

import (
	"fmt"
	"os"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/inveropulse/interact/internal/config"
	"github.com/inveropulse/interact/internal/logging"
)

// isTerminal checks if the given file is a terminal.
func isTerminal(f *os.File) bool {
	return term.IsTerminal(int(f.Fd()))
}

// logger is the package-level logger for CLI operations.
var logger zerolog.Logger //nolint:gochecknoglobals // Required for zerolog context integration

// NewRootCmd creates the root Cobra command for the interact CLI.
// It wires up configuration, logging and tracing, and the demo, window,
// replay, sample and config subcommands.
func NewRootCmd(ver string) *cobra.Command {
	var logResult *logging.LogPathResult

	cmd := &cobra.Command{
		Use:           "interact",
		Short:         "Touch interaction and list virtualization engine",
		Long:          "interact: swipe actions, pull to refresh, virtual scrolling, visibility triggers and performance sampling",
		Version:       ver,
		Example:       rootCmdExample,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			if err := loadConfig(cmd); err != nil {
				return err
			}
			result := setupLogging(cmd)
			logResult = &result
			return nil
		},
		PersistentPostRunE: func(cmd *cobra.Command, _ []string) error {
			return cleanupLogging(cmd, logResult)
		},
	}

	cmd.PersistentFlags().Bool("debug", false, "enable debug logging")
	cmd.PersistentFlags().String("config", "", "config file (default $INTERACT_HOME/config.yaml or ~/.interact/config.yaml)")
	cmd.PersistentFlags().String("project-dir", "", "project directory holding a .interact/config.yaml overlay")
	cmd.AddCommand(
		NewDemoCmd(), NewWindowCmd(), NewReplayCmd(), NewSampleCmd(), newConfigCmd(),
	)

	return cmd
}

// loadConfig installs the global configuration: the --config file when
// given, otherwise the global file with the project overlay merged on top.
func loadConfig(cmd *cobra.Command) error {
	path, _ := cmd.Flags().GetString("config")
	if path != "" {
		cfg, err := config.Load(path)
		if err != nil {
			return fmt.Errorf("loading config: %w", err)
		}
		config.SetGlobalConfig(cfg)
		return nil
	}

	projectFlag, _ := cmd.Flags().GetString("project-dir")
	cwd, err := os.Getwd()
	if err != nil {
		cwd = ""
	}
	projectDir := config.ResolveProjectDir(cmd.Context(), projectFlag, cwd)
	config.SetGlobalConfig(config.NewWithProjectDir(cmd.Context(), projectDir))
	return nil
}

const rootCmdExample = `  # Open the interactive appointment list
  interact demo

  # Show the rendered window for a scrolled list
  interact window --items 10000 --item-height 50 --height 600 --scroll-top 5000

  # Replay a recorded swipe
  interact replay testdata/swipe.yaml

  # Sample frame rate and memory for five seconds
  interact sample --duration 5s

  # Initialize configuration
  interact config init`

// newConfigCmd creates the config command group with configuration subcommands.
func newConfigCmd() *cobra.Command {
	cmd := &cobra.Command{Use: "config", Short: "Configuration management commands"}
	cmd.AddCommand(NewConfigInitCmd(), NewConfigShowCmd(), NewConfigValidateCmd())
	return cmd
}
