package tui

import (
	"fmt"
	"math"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

//nolint:gochecknoglobals // message.Printer is safe for concurrent use
var printer = message.NewPrinter(language.English)

// View renders the header, the pull indicator, the visible rows and the
// status bar. Render time is reported to the sampler.
func (m *DemoModel) View() string {
	m.sampler.StartRender()
	defer m.sampler.EndRender()

	var b strings.Builder
	b.WriteString(m.renderHeader())
	b.WriteByte('\n')
	b.WriteString(m.renderPullIndicator())
	b.WriteByte('\n')

	rows := m.list.View()
	n := lineCount(rows)
	if n == 0 {
		rows, n = " ", 1
	}
	b.WriteString(rows)
	if pad := m.listHeight() - n; pad > 0 {
		b.WriteString(strings.Repeat("\n", pad))
	}
	b.WriteByte('\n')
	b.WriteString(m.renderStatusBar())
	return b.String()
}

func (m *DemoModel) renderHeader() string {
	title := HeaderStyle.Render("Schedule")
	count := LabelStyle.Render(printer.Sprintf(" %d appointments", len(m.list.Items())))
	if m.loading {
		count += SubtleStyle.Render("  loading more…")
	}
	return title + count
}

func (m *DemoModel) renderPullIndicator() string {
	switch {
	case m.pull.IsRefreshing():
		return m.spinner.View()
	case m.pull.ShouldShowIndicator():
		return m.progress.ViewAs(m.pull.Progress()) + " " + LabelStyle.Render(m.pull.Label())
	default:
		return SubtleStyle.Render("pull down or press r to refresh")
	}
}

// renderRow is the list's render func.
func (m *DemoModel) renderRow(a Appointment, index int, selected bool) string {
	if index < m.revealCount && !m.stagger.Revealed(index) {
		return ""
	}

	avatar := avatarPlaceholder
	if img, ok := m.avatars[a.ID]; ok {
		avatar = img.Source()
	}
	line := fmt.Sprintf("%-2s  %s  %-18s %-18s %s",
		avatar, a.Start.Format("Mon 02 15:04"), a.Patient, a.Procedure, statusText(a.Status))
	if selected {
		line = SelectedStyle.Render(line)
	}

	state := m.swipe.State()
	if index != m.swipeRow || !state.IsActive {
		return line
	}

	shift := int(math.Abs(state.Offset) / pxPerCell)
	var panel string
	if act := state.ActiveAction; act != nil {
		label := lipgloss.NewStyle().MaxWidth(shift).Render(act.Icon + " " + act.Label)
		panel = actionStyle(act.Color).Render(lipgloss.PlaceHorizontal(shift, lipgloss.Left, label))
	} else {
		panel = strings.Repeat(" ", shift)
	}
	rest := lipgloss.NewStyle().MaxWidth(max(0, m.width-shift)).Render(line)
	if state.Offset > 0 {
		return panel + rest
	}
	return rest + panel
}

func statusText(s Status) string {
	switch s {
	case StatusConfirmed:
		return OKStyle.Render(s.String())
	case StatusRescheduled:
		return WarningStyle.Render(s.String())
	case StatusCancelled:
		return CriticalStyle.Render(s.String())
	case StatusScheduled:
	}
	return SubtleStyle.Render(s.String())
}

func (m *DemoModel) renderStatusBar() string {
	mt := m.sampler.Metrics()

	mem := "n/a"
	if mt.HasMemory {
		mem = printer.Sprintf("%.0f%%", mt.MemoryRatio)
	}
	health := OKStyle.Render("optimal")
	if !mt.IsOptimal {
		health = WarningStyle.Render("degraded")
	}

	bar := LabelStyle.Render("fps ") + ValueStyle.Render(printer.Sprintf("%.0f", mt.FPS)) +
		LabelStyle.Render("  mem ") + ValueStyle.Render(mem) +
		LabelStyle.Render("  render ") + ValueStyle.Render(printer.Sprintf("%.1fms", mt.RenderDurationMs)) +
		"  " + health
	if m.status != "" {
		bar += "  " + SubtleStyle.Render(m.status)
	}
	return bar
}

func lineCount(s string) int {
	if s == "" {
		return 0
	}
	return strings.Count(s, "\n") + 1
}
