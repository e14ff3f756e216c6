package cli

import (
	"fmt"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/inveropulse/interact/internal/config"
)

// NewConfigShowCmd creates the config show command, which prints the
// effective configuration as YAML.
func NewConfigShowCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "Print the effective configuration",
		Example: `  # Show the merged configuration
  interact config show

  # Show a specific file on top of the defaults
  interact config show --config ./interact.yaml`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			enc := yaml.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent(2)
			if err := enc.Encode(config.GetGlobalConfig()); err != nil {
				return fmt.Errorf("encoding configuration: %w", err)
			}
			return enc.Close()
		},
	}
}
