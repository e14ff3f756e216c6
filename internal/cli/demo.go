package cli

import (
	"errors"
	"fmt"
	"os"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/inveropulse/interact/internal/config"
	"github.com/inveropulse/interact/internal/logging"
	"github.com/inveropulse/interact/internal/tui"
)

// demoFlags holds the flags of the demo command.
type demoFlags struct {
	pageSize     int
	maxPages     int
	refreshDelay time.Duration
	pageDelay    time.Duration
}

// NewDemoCmd creates the demo command, an interactive appointment list that
// exercises every interaction component.
func NewDemoCmd() *cobra.Command {
	var flags demoFlags

	cmd := &cobra.Command{
		Use:   "demo",
		Short: "Open the interactive appointment list",
		Long: `Opens a synthetic clinic schedule in the terminal.

  - drag a row right to Confirm (or further to Reschedule)
  - drag a row left to Cancel (or further to Archive)
  - drag down from the top of the list, or press r, to refresh
  - scroll with the wheel or arrow keys; more pages load at the end
  - press a to skip the reveal animation, q to quit

Engine logs are only written when logging.file is configured.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if !isTerminal(os.Stdin) || !isTerminal(os.Stdout) {
				return ErrNotTerminal
			}
			return runDemo(cmd, flags)
		},
	}

	cmd.Flags().IntVar(&flags.pageSize, "page-size", 0, "appointments per page (0 = visibility.page_size)")
	cmd.Flags().IntVar(&flags.maxPages, "max-pages", 20, "pages available to infinite scroll (0 = unbounded)")
	cmd.Flags().DurationVar(&flags.refreshDelay, "refresh-delay", 800*time.Millisecond, "simulated refresh latency")
	cmd.Flags().DurationVar(&flags.pageDelay, "page-delay", 300*time.Millisecond, "simulated next page latency")

	return cmd
}

func runDemo(cmd *cobra.Command, flags demoFlags) error {
	cfg := config.GetGlobalConfig()
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	// The terminal belongs to the program; only file logs are kept.
	engineLog := zerolog.Nop()
	if cfg.Logging.File != "" {
		engineLog = *logging.FromContext(cmd.Context())
	}

	width, height := terminalSize(os.Stdout)
	sched := tui.NewScheduler()
	model := tui.NewDemoModel(tui.DemoOptions{
		Config:       cfg,
		Scheduler:    sched,
		Logger:       engineLog,
		PageSize:     flags.pageSize,
		MaxPages:     flags.maxPages,
		RefreshDelay: flags.refreshDelay,
		PageDelay:    flags.pageDelay,
		Width:        width,
		Height:       height,
	})

	p := tea.NewProgram(model,
		tea.WithAltScreen(),
		tea.WithMouseCellMotion(),
		tea.WithContext(cmd.Context()),
	)
	sched.Attach(p)
	defer sched.Stop()

	logger.Debug().Ctx(cmd.Context()).Int("width", width).Int("height", height).Msg("starting demo")
	return runProgram(p, model)
}

// program is the part of tea.Program the demo drives.
type program interface {
	Run() (tea.Model, error)
}

// runProgram runs p and closes model however p exits. A killed program
// (context cancelled) is not an error.
func runProgram(p program, model interface{ Close() }) error {
	defer model.Close()
	if _, err := p.Run(); err != nil && !errors.Is(err, tea.ErrProgramKilled) {
		return fmt.Errorf("running demo: %w", err)
	}
	return nil
}

// terminalSize returns the size of f, or zeros when it cannot be read.
func terminalSize(f *os.File) (int, int) {
	w, h, err := term.GetSize(int(f.Fd()))
	if err != nil {
		return 0, 0
	}
	return w, h
}
