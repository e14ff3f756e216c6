package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/inveropulse/interact/internal/config"
)

// NewConfigValidateCmd creates the config validate command for validating configuration.
func NewConfigValidateCmd() *cobra.Command {
	var verbose bool
	cmd := &cobra.Command{
		Use:   "validate",
		Short: "Validate configuration file",
		Long: `Validates the effective configuration (the --config file, or the global
file with any project overlay applied) for syntax and semantic correctness.

This includes:
- schema_version compatibility
- log level and format names
- positive gesture and pull thresholds, pull distance at least the threshold
- positive item height, non-negative overscan and delays
- visibility threshold within [0, 1]`,
		Example: `  # Validate current configuration
  interact config validate

  # Validate and show detailed information
  interact config validate --verbose`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runConfigValidate(cmd, verbose)
		},
	}

	cmd.Flags().BoolVarP(&verbose, "verbose", "v", false, "show detailed validation information")

	return cmd
}

// runConfigValidate executes the configuration validation logic.
func runConfigValidate(cmd *cobra.Command, verbose bool) error {
	cfg := config.GetGlobalConfig()

	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("configuration validation failed: %w", err)
	}

	cmd.Printf("Configuration is valid\n")

	if verbose {
		printVerboseDetails(cmd, cfg)
	}

	return nil
}

// printVerboseDetails prints detailed configuration information.
func printVerboseDetails(cmd *cobra.Command, cfg *config.Config) {
	cmd.Println()
	cmd.Println("Configuration details:")
	cmd.Printf("  Schema version: %s\n", cfg.SchemaVersion)
	cmd.Printf("  Logging level: %s\n", cfg.Logging.Level)
	cmd.Printf("  Log file: %s\n", cfg.Logging.File)
	cmd.Printf("  Swipe threshold: %gpx (haptics %t)\n", cfg.Gesture.Threshold, cfg.Gesture.Haptics)
	cmd.Printf("  Pull: threshold %gpx, distance %gpx, minimum %s\n",
		cfg.Pull.Threshold, cfg.Pull.PullDistance, cfg.Pull.MinRefreshDuration)

	overscan := "default"
	if cfg.Virtual.Overscan != nil {
		overscan = fmt.Sprint(*cfg.Virtual.Overscan)
	}
	cmd.Printf("  Virtual: item height %g, overscan %s, disabled below %d items\n",
		cfg.Virtual.ItemHeight, overscan, cfg.Virtual.DisableBelow)
	cmd.Printf("  Visibility: threshold %g, margin %g, stagger %s, page size %d\n",
		cfg.Visibility.Threshold, cfg.Visibility.RootMargin, cfg.Visibility.StaggerDelay, cfg.Visibility.PageSize)

	if !cfg.Perf.Enabled {
		cmd.Println("  Performance sampling: disabled")
		return
	}
	cmd.Printf("  Performance sampling: fps %t, memory %t, render %t\n",
		cfg.Perf.TrackFPS, cfg.Perf.TrackMemory, cfg.Perf.TrackRenderTime)
}
