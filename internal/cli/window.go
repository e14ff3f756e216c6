package cli

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"gopkg.in/yaml.v3"

	"github.com/inveropulse/interact/internal/config"
	"github.com/inveropulse/interact/internal/virtual"
)

// Output formats shared by the reporting commands.
const (
	OutputText = "text"
	OutputYAML = "yaml"
)

// WindowReport is the output of the window command.
type WindowReport struct {
	ItemCount   int     `yaml:"item_count"`
	Virtualized bool    `yaml:"virtualized"`
	StartIndex  int     `yaml:"start_index"`
	EndIndex    int     `yaml:"end_index"`
	Rendered    int     `yaml:"rendered"`
	OffsetY     float64 `yaml:"offset_y"`
	TotalHeight float64 `yaml:"total_height"`
}

// windowFlags holds the flags of the window command.
type windowFlags struct {
	items        int
	itemHeight   float64
	height       float64
	scrollTop    float64
	overscan     int
	disableBelow int
	output       string
}

// NewWindowCmd creates the window command, which prints the rendered range
// of a virtualized list.
func NewWindowCmd() *cobra.Command {
	var flags windowFlags

	cmd := &cobra.Command{
		Use:   "window",
		Short: "Print the rendered window for a list geometry",
		Long: `Computes which rows of a fixed-row-height list are rendered at a scroll
offset. Unset geometry flags fall back to the virtual section of the
configuration.`,
		Example: `  # 10,000 rows of 50px in a 600px container scrolled to 5,000px
  interact window --items 10000 --item-height 50 --height 600 --scroll-top 5000

  # Same, as YAML
  interact window --items 10000 --item-height 50 --height 600 --scroll-top 5000 --output yaml`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			vc := config.GetGlobalConfig().VirtualizerConfig(flags.height)
			if cmd.Flags().Changed("item-height") {
				vc.ItemHeight = flags.itemHeight
			}
			if cmd.Flags().Changed("overscan") {
				o := flags.overscan
				vc.Overscan = &o
			}
			if cmd.Flags().Changed("disable-below") {
				vc.DisableBelow = flags.disableBelow
			}

			report := computeWindow(vc, flags.items, flags.scrollTop)
			return writeWindowReport(cmd.OutOrStdout(), report, flags.output)
		},
	}

	cmd.Flags().IntVar(&flags.items, "items", 1000, "number of items in the list")
	cmd.Flags().Float64Var(&flags.itemHeight, "item-height", 0, "row height (default virtual.item_height)")
	cmd.Flags().Float64Var(&flags.height, "height", 600, "container height")
	cmd.Flags().Float64Var(&flags.scrollTop, "scroll-top", 0, "scroll offset")
	cmd.Flags().IntVar(&flags.overscan, "overscan", virtual.DefaultOverscan, "rows rendered beyond each edge")
	cmd.Flags().IntVar(&flags.disableBelow, "disable-below", virtual.DefaultDisableBelow,
		"render every row when the list has at most this many items (negative = always window)")
	cmd.Flags().StringVarP(&flags.output, "output", "o", OutputText, "output format: text or yaml")

	return cmd
}

// computeWindow runs the virtualizer for one scroll position.
func computeWindow(vc virtual.Config, items int, scrollTop float64) WindowReport {
	v := virtual.New(vc, items)
	w := v.OnScroll(scrollTop)
	return WindowReport{
		ItemCount:   v.ItemCount(),
		Virtualized: v.Enabled(),
		StartIndex:  w.StartIndex,
		EndIndex:    w.EndIndex,
		Rendered:    w.Len(),
		OffsetY:     w.OffsetY,
		TotalHeight: w.TotalHeight,
	}
}

func writeWindowReport(w io.Writer, r WindowReport, format string) error {
	switch format {
	case OutputYAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(r); err != nil {
			return fmt.Errorf("encoding window: %w", err)
		}
		return enc.Close()
	case OutputText, "":
		p := message.NewPrinter(language.English)
		_, _ = p.Fprintf(w, "%-12s %d\n", "items", r.ItemCount)
		_, _ = p.Fprintf(w, "%-12s %t\n", "virtualized", r.Virtualized)
		_, _ = p.Fprintf(w, "%-12s %d..%d (%d rows)\n", "window", r.StartIndex, r.EndIndex, r.Rendered)
		_, _ = p.Fprintf(w, "%-12s %.0f\n", "offset_y", r.OffsetY)
		_, _ = p.Fprintf(w, "%-12s %.0f\n", "total", r.TotalHeight)
		return nil
	default:
		return fmt.Errorf("%w: %q", ErrUnknownOutput, format)
	}
}
