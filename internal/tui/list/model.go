package listview

import (
	"math"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/inveropulse/interact/internal/virtual"
)

// defaultBufferSize is the number of extra rows rendered above/below the viewport.
const defaultBufferSize = 5

// RenderFunc renders the item at index. selected reports whether it is the
// current selection.
type RenderFunc[T any] func(item T, index int, selected bool) string

// VirtualListModel is a keyboard-navigable list whose rendered rows come
// from a virtual.Virtualizer window. Each item is one terminal row.
type VirtualListModel[T any] struct {
	// items contains all list items
	items []T

	// renderFunc renders a single item
	renderFunc RenderFunc[T]

	// selected is the currently selected item index (0-based)
	selected int

	// virt owns the scroll offset and computes the rendered window
	virt *virtual.Virtualizer

	// height is the viewport height in rows
	height int

	// width is the viewport width in columns
	width int
}

// NewVirtualListModel creates a list of items in a height x width viewport.
// Windowing is always on, with a five row buffer.
func NewVirtualListModel[T any](items []T, height, width int, renderFunc RenderFunc[T]) *VirtualListModel[T] {
	buffer := defaultBufferSize
	return NewVirtualListModelWithConfig(items, virtual.Config{
		ItemHeight:      1,
		ContainerHeight: float64(height),
		Overscan:        &buffer,
		DisableBelow:    -1,
	}, width, renderFunc)
}

// NewVirtualListModelWithConfig creates a list with explicit virtualizer
// settings. cfg.ItemHeight is forced to one row.
func NewVirtualListModelWithConfig[T any](items []T, cfg virtual.Config, width int, renderFunc RenderFunc[T]) *VirtualListModel[T] {
	cfg.ItemHeight = 1
	return &VirtualListModel[T]{
		items:      items,
		renderFunc: renderFunc,
		virt:       virtual.New(cfg, len(items)),
		height:     int(cfg.ContainerHeight),
		width:      width,
	}
}

// Init initializes the model (required for tea.Model interface).
func (m *VirtualListModel[T]) Init() tea.Cmd {
	return nil
}

// Update handles keyboard and resize messages.
func (m *VirtualListModel[T]) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKeyMsg(msg), nil
	case tea.WindowSizeMsg:
		m.Resize(msg.Height, msg.Width)
		return m, nil
	}

	return m, nil
}

// handleKeyMsg processes keyboard input for navigation.
//
//nolint:exhaustive // Only navigation keys are handled.
func (m *VirtualListModel[T]) handleKeyMsg(msg tea.KeyMsg) tea.Model {
	if len(m.items) == 0 {
		return m
	}

	switch msg.Type {
	case tea.KeyUp:
		m.SetSelected(m.selected - 1)
	case tea.KeyDown:
		m.SetSelected(m.selected + 1)
	case tea.KeyPgUp:
		m.SetSelected(m.selected - m.height)
	case tea.KeyPgDown:
		m.SetSelected(m.selected + m.height)
	case tea.KeyHome:
		m.SetSelected(0)
	case tea.KeyEnd:
		m.SetSelected(len(m.items) - 1)
	case tea.KeyRunes:
		// Handle vim-style navigation
		if len(msg.Runes) > 0 {
			switch msg.Runes[0] {
			case 'j':
				m.SetSelected(m.selected + 1)
			case 'k':
				m.SetSelected(m.selected - 1)
			}
		}
	default:
	}

	return m
}

// scrollToSelection scrolls the minimum distance that brings the selected
// row into the viewport.
func (m *VirtualListModel[T]) scrollToSelection() {
	top := m.ScrollTop()
	sel := float64(m.selected)
	switch {
	case sel < top:
		m.ScrollTo(sel)
	case sel >= top+float64(m.height):
		m.ScrollTo(sel - float64(m.height) + 1)
	}
}

// View renders the rows of the current window that fall inside the
// viewport. Buffer rows are rendered too, so their side effects (bounds,
// lazy loading) happen before they scroll in.
func (m *VirtualListModel[T]) View() string {
	if len(m.items) == 0 {
		return ""
	}

	w := m.Window()
	first := int(math.Floor(m.ScrollTop()))
	last := first + m.height

	var sb strings.Builder
	rows := 0
	for i := w.StartIndex; i <= w.EndIndex; i++ {
		line := m.renderFunc(m.items[i], i, i == m.selected)
		if i < first || i >= last {
			continue
		}
		if rows > 0 {
			sb.WriteByte('\n')
		}
		sb.WriteString(line)
		rows++
	}
	return sb.String()
}

// Window returns the virtualizer's current window.
func (m *VirtualListModel[T]) Window() virtual.Window {
	return m.virt.Window()
}

// Virtualizer exposes the underlying virtualizer.
func (m *VirtualListModel[T]) Virtualizer() *virtual.Virtualizer {
	return m.virt
}

// ScrollTop returns the first visible row offset.
func (m *VirtualListModel[T]) ScrollTop() float64 {
	return m.virt.ScrollTop()
}

// ScrollTo moves the viewport, clamped to the scrollable range.
func (m *VirtualListModel[T]) ScrollTo(top float64) {
	m.virt.OnScroll(math.Max(0, math.Min(top, m.virt.MaxScrollTop())))
}

// ScrollBy moves the viewport by delta rows.
func (m *VirtualListModel[T]) ScrollBy(delta float64) {
	m.ScrollTo(m.ScrollTop() + delta)
}

// Resize changes the viewport.
func (m *VirtualListModel[T]) Resize(height, width int) {
	m.height = height
	m.width = width
	m.virt.Resize(float64(height))
	m.ScrollTo(m.ScrollTop())
	m.scrollToSelection()
}

// SetItems replaces the items, keeping the selection in range.
func (m *VirtualListModel[T]) SetItems(items []T) {
	m.items = items
	m.virt.SetItemCount(len(items))
	m.ScrollTo(m.ScrollTop())
	m.SetSelected(m.selected)
}

// Items returns the items.
func (m *VirtualListModel[T]) Items() []T {
	return m.items
}

// ItemCount returns the total number of items in the list.
func (m *VirtualListModel[T]) ItemCount() int {
	return len(m.items)
}

// Selected returns the currently selected item index.
func (m *VirtualListModel[T]) Selected() int {
	return m.selected
}

// SetSelected sets the selected item index, capping to valid bounds, and
// scrolls it into view.
func (m *VirtualListModel[T]) SetSelected(index int) {
	if len(m.items) == 0 {
		m.selected = 0
		return
	}

	switch {
	case index < 0:
		m.selected = 0
	case index >= len(m.items):
		m.selected = len(m.items) - 1
	default:
		m.selected = index
	}

	m.scrollToSelection()
}

// RowAt returns the item index displayed on viewport row y, or -1.
func (m *VirtualListModel[T]) RowAt(y int) int {
	if y < 0 || y >= m.height {
		return -1
	}
	i := int(math.Floor(m.ScrollTop())) + y
	if i >= len(m.items) {
		return -1
	}
	return i
}

// Height returns the viewport height.
func (m *VirtualListModel[T]) Height() int {
	return m.height
}

// Width returns the viewport width.
func (m *VirtualListModel[T]) Width() int {
	return m.width
}

// GetSelectedItem returns the currently selected item.
// Returns nil if list is empty.
func (m *VirtualListModel[T]) GetSelectedItem() *T {
	if len(m.items) == 0 || m.selected < 0 || m.selected >= len(m.items) {
		return nil
	}
	return &m.items[m.selected]
}
