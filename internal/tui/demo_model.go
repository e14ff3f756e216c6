package tui

import (
	"context"
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/rs/zerolog"

	"github.com/inveropulse/interact/internal/config"
	"github.com/inveropulse/interact/internal/gesture"
	"github.com/inveropulse/interact/internal/host"
	"github.com/inveropulse/interact/internal/perf"
	"github.com/inveropulse/interact/internal/pull"
	listview "github.com/inveropulse/interact/internal/tui/list"
	"github.com/inveropulse/interact/internal/virtual"
	"github.com/inveropulse/interact/internal/visibility"
)

// Terminal cells are mapped onto the engine's pixel geometry.
const (
	pxPerCell = 10.0
	pxPerRow  = 20.0

	// chromeTop is the header line plus the pull indicator line.
	chromeTop = 2
	// chromeBottom is the status bar.
	chromeBottom = 1

	wheelRows = 3

	defaultWidth  = 80
	defaultHeight = 24
)

const (
	containerElement visibility.ElementID = "list"
	sentinelElement  visibility.ElementID = "list/sentinel"
)

// avatarPlaceholder is shown until a row's avatar is lazily loaded.
const avatarPlaceholder = "··"

// DemoOptions configures a DemoModel.
type DemoOptions struct {
	Config    *config.Config
	Scheduler host.Scheduler
	Haptics   host.Haptics
	// Heap overrides the configured heap source.
	Heap   host.HeapSource
	Logger zerolog.Logger

	// PageSize defaults to the configured visibility page size.
	PageSize int
	// MaxPages bounds infinite scroll. Zero means unbounded.
	MaxPages int

	// RefreshDelay simulates the refresh round trip.
	RefreshDelay time.Duration
	// PageDelay simulates the next-page round trip.
	PageDelay time.Duration

	Width  int
	Height int
}

var errNoRow = errors.New("no appointment under pointer")

// pageLoadedMsg delivers a page requested by infinite scroll.
type pageLoadedMsg struct {
	page  int
	items []Appointment
}

// DemoModel is an appointment schedule driven by every interaction
// component: rows swipe to reveal actions, the list pulls to refresh, is
// virtualized and pages in more rows when its end becomes visible, rows
// reveal in a stagger and avatars load lazily. A status bar shows the
// sampler's metrics.
type DemoModel struct {
	opts  DemoOptions
	sched host.Scheduler
	log   zerolog.Logger

	list   *listview.VirtualListModel[Appointment]
	scroll *virtual.ScrollAdapter
	// wheelTop accumulates wheel movement until the next frame applies it.
	wheelTop float64

	geom     *visibility.GeometrySource
	trigger  *visibility.Trigger
	infinite *visibility.InfiniteScroll
	stagger  *visibility.StaggerReveal
	// revealCount rows at the top of the list take part in the stagger.
	revealCount int
	avatars  map[string]*visibility.LazyImage
	bounded  map[visibility.ElementID]bool

	swipe    *gesture.Tracker
	swipeRow int
	pull     *pull.Controller
	sampler  *perf.Sampler

	spinner  *LoadingState
	progress progress.Model

	page    int
	loading bool
	status  string

	// degraded is set by the sampler and acted on outside View.
	degraded bool

	width  int
	height int

	// cmds collects commands requested by engine callbacks between
	// Update calls.
	cmds []tea.Cmd
}

var _ tea.Model = (*DemoModel)(nil)

// NewDemoModel builds the demo with its first page loaded.
func NewDemoModel(opts DemoOptions) *DemoModel {
	if opts.Config == nil {
		opts.Config = config.Default()
	}
	if opts.PageSize <= 0 {
		opts.PageSize = opts.Config.Visibility.PageSize
	}
	if opts.Width <= 0 {
		opts.Width = defaultWidth
	}
	if opts.Height <= 0 {
		opts.Height = defaultHeight
	}
	cfg := opts.Config

	m := &DemoModel{
		opts:     opts,
		sched:    opts.Scheduler,
		log:      opts.Logger.With().Str("component", "demo").Logger(),
		avatars:  make(map[string]*visibility.LazyImage),
		bounded:  make(map[visibility.ElementID]bool),
		swipeRow: -1,
		spinner:  NewLoadingState(pull.LabelRefreshing),
		progress: progress.New(progress.WithDefaultGradient(), progress.WithWidth(20), progress.WithoutPercentage()),
		width:    opts.Width,
		height:   opts.Height,
	}

	first := GeneratePage(0, opts.PageSize)
	m.list = listview.NewVirtualListModelWithConfig(first,
		cfg.VirtualizerConfig(float64(m.listHeight())), m.width, m.renderRow)
	m.scroll = virtual.NewScrollAdapter(m.sched, m.list.Virtualizer(), func(virtual.Window) {
		m.afterScroll()
	})

	m.geom = visibility.NewGeometrySource(m.sched)
	m.trigger = visibility.NewTrigger(m.geom, m.sched, opts.Logger)

	inf := cfg.InfiniteScrollOptions()
	inf.HasNextPage = m.hasNextPage
	inf.IsLoading = func() bool { return m.loading }
	inf.OnLoadMore = m.loadMore
	m.infinite = visibility.NewInfiniteScroll(m.trigger, sentinelElement, inf)

	m.revealCount = min(len(first), m.listHeight())
	st := cfg.StaggerOptions(m.revealCount)
	m.stagger = visibility.NewStaggerReveal(m.trigger, m.sched, containerElement, st)

	g := cfg.GestureOptions(opts.Haptics, opts.Logger)
	g.LeftActions = []gesture.Action{
		{ID: "confirm", Label: "Confirm", Icon: "✓", Color: gesture.ColorSuccess, OnAction: m.confirm},
		{ID: "reschedule", Label: "Reschedule", Icon: "↻", Color: gesture.ColorWarning, OnAction: m.reschedule},
	}
	g.RightActions = []gesture.Action{
		{ID: "cancel", Label: "Cancel", Icon: "✗", Color: gesture.ColorDanger, OnAction: m.cancel},
		{ID: "archive", Label: "Archive", Icon: "▣", Color: gesture.ColorPrimary, OnAction: m.archive},
	}
	g.OnSwipeEnd = func() { m.swipeRow = -1 }
	m.swipe = gesture.New(m.sched, g)

	p := cfg.PullOptions(opts.Logger)
	p.ScrollTop = func() float64 { return m.list.ScrollTop() * pxPerRow }
	p.OnRefresh = m.refresh
	p.OnError = func(err error) { m.status = err.Error() }
	m.pull = pull.New(m.sched, p)

	s := cfg.SamplerOptions(opts.Logger)
	if opts.Heap != nil {
		s.Heap = opts.Heap
	}
	s.OnMetricsUpdate = m.onMetrics
	m.sampler = perf.New(m.sched, s)

	m.afterScroll()
	return m
}

// Init starts sampling and evaluates visibility for the first layout.
func (m *DemoModel) Init() tea.Cmd {
	if m.opts.Config.Perf.Enabled {
		m.sampler.Start()
	}
	m.applyPerfPolicy()
	m.geom.Flush()
	return m.flush()
}

// Update handles input, scheduler dispatch and page loads.
func (m *DemoModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case DispatchMsg:
		msg.Run()
	case tea.WindowSizeMsg:
		m.resize(msg.Width, msg.Height)
	case tea.KeyMsg:
		if cmd := m.handleKey(msg); cmd != nil {
			return m, cmd
		}
	case tea.MouseMsg:
		m.handleMouse(msg)
	case pageLoadedMsg:
		m.pageLoaded(msg)
	case spinner.TickMsg:
		if m.pull.IsRefreshing() {
			m.cmds = append(m.cmds, m.spinner.Update(msg))
		}
	}
	m.applyPerfPolicy()
	return m, m.flush()
}

func (m *DemoModel) handleKey(msg tea.KeyMsg) tea.Cmd {
	switch msg.String() {
	case "q", "ctrl+c":
		m.Close()
		return tea.Quit
	case "r":
		if m.pull.Trigger() {
			m.cmds = append(m.cmds, m.spinner.Tick())
		}
	case "a":
		m.stagger.RevealAll()
	default:
		m.list.Update(msg)
		m.afterScroll()
	}
	return nil
}

// handleMouse feeds the left button to both recognisers. A claimed swipe
// takes precedence over the pull.
//
//nolint:exhaustive // Only the left button and the wheel are handled.
func (m *DemoModel) handleMouse(msg tea.MouseMsg) {
	x, y := float64(msg.X)*pxPerCell, float64(msg.Y)*pxPerRow

	switch msg.Action {
	case tea.MouseActionPress:
		switch msg.Button {
		case tea.MouseButtonWheelUp:
			m.wheel(-wheelRows)
			return
		case tea.MouseButtonWheelDown:
			m.wheel(wheelRows)
			return
		case tea.MouseButtonLeft:
		default:
			return
		}
		m.swipeRow = m.list.RowAt(msg.Y - chromeTop)
		if m.swipeRow >= 0 {
			m.list.SetSelected(m.swipeRow)
			m.swipe.Down(x, y)
		}
		m.pull.Down(x, y)

	case tea.MouseActionMotion:
		if msg.Button != tea.MouseButtonLeft {
			return
		}
		if m.swipe.Move(x, y) {
			m.pull.Cancel()
			return
		}
		m.pull.Move(x, y)

	case tea.MouseActionRelease:
		if err := m.swipe.Up(); err != nil {
			m.status = err.Error()
			m.log.Warn().Err(err).Msg("swipe action failed")
		}
		_ = m.pull.Up()
		if m.pull.IsRefreshing() {
			m.cmds = append(m.cmds, m.spinner.Tick())
		}
	}
}

// wheel scrolls by delta rows. Bursts of wheel events are applied once per
// frame.
func (m *DemoModel) wheel(delta float64) {
	maxTop := m.list.Virtualizer().MaxScrollTop()
	m.wheelTop = math.Max(0, math.Min(m.wheelTop+delta, maxTop))
	m.scroll.Scroll(m.wheelTop)
}

// afterScroll publishes the layout of the current window to the geometry
// source and materialises avatars for its rows.
func (m *DemoModel) afterScroll() {
	m.wheelTop = m.list.ScrollTop()
	top := m.wheelTop * pxPerRow
	m.geom.SetViewport(top, float64(m.listHeight())*pxPerRow)
	m.pull.Scroll(top)

	items := m.list.Items()
	m.geom.SetBounds(containerElement, 0, float64(len(items))*pxPerRow)
	m.geom.SetBounds(sentinelElement, float64(len(items))*pxPerRow, 0)

	w := m.list.Window()
	live := make(map[visibility.ElementID]bool, w.Len())
	for i := w.StartIndex; i <= w.EndIndex && i < len(items); i++ {
		el := rowElement(items[i])
		live[el] = true
		m.geom.SetBounds(el, float64(i)*pxPerRow, pxPerRow)
		m.avatar(items[i])
	}
	for el := range m.bounded {
		if !live[el] {
			m.geom.RemoveBounds(el)
		}
	}
	m.bounded = live
}

func (m *DemoModel) avatar(a Appointment) *visibility.LazyImage {
	if img, ok := m.avatars[a.ID]; ok {
		return img
	}
	opts := visibility.LazyImageOptions{
		Src:         a.Initials(),
		Placeholder: avatarPlaceholder,
		Threshold:   m.opts.Config.Visibility.Threshold,
		RootMargin:  m.opts.Config.Visibility.RootMargin,
	}
	img := visibility.NewLazyImage(m.trigger, rowElement(a), opts)
	m.avatars[a.ID] = img
	return img
}

func rowElement(a Appointment) visibility.ElementID {
	return visibility.ElementID("row/" + a.ID)
}

func (m *DemoModel) hasNextPage() bool {
	return m.opts.MaxPages <= 0 || m.page+1 < m.opts.MaxPages
}

func (m *DemoModel) loadMore() {
	m.loading = true
	next, size := m.page+1, m.opts.PageSize
	m.log.Debug().Int("page", next).Msg("loading next page")
	m.cmds = append(m.cmds, tea.Tick(m.opts.PageDelay, func(time.Time) tea.Msg {
		return pageLoadedMsg{page: next, items: GeneratePage(next, size)}
	}))
}

func (m *DemoModel) pageLoaded(msg pageLoadedMsg) {
	if msg.page != m.page+1 {
		return
	}
	m.page = msg.page
	m.loading = false
	m.list.SetItems(append(m.list.Items(), msg.items...))
	m.afterScroll()
	// Re-evaluate now so a sentinel pushed off screen does not count as
	// still visible.
	m.geom.Flush()
	m.infinite.Recheck()
}

// refresh runs off the UI goroutine.
func (m *DemoModel) refresh(ctx context.Context) error {
	if m.opts.RefreshDelay > 0 {
		t := time.NewTimer(m.opts.RefreshDelay)
		defer t.Stop()
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-t.C:
		}
	}
	first := GeneratePage(0, m.opts.PageSize)
	m.sched.Post(func() { m.reload(first) })
	return nil
}

func (m *DemoModel) reload(items []Appointment) {
	m.page = 0
	m.loading = false
	m.list.SetItems(items)
	m.list.SetSelected(0)
	m.afterScroll()
	m.status = fmt.Sprintf("refreshed %d appointments", len(items))
	m.log.Info().Int("items", len(items)).Msg("schedule refreshed")
}

func (m *DemoModel) onMetrics(mt perf.Metrics) {
	m.degraded = !mt.IsOptimal
}

// applyPerfPolicy skips the stagger animation once performance degrades.
func (m *DemoModel) applyPerfPolicy() {
	if m.degraded && !m.stagger.Started() {
		m.stagger.RevealAll()
	}
}

// swiped returns the appointment under the active swipe.
func (m *DemoModel) swiped() (*Appointment, error) {
	items := m.list.Items()
	if m.swipeRow < 0 || m.swipeRow >= len(items) {
		return nil, errNoRow
	}
	return &items[m.swipeRow], nil
}

func (m *DemoModel) confirm() error {
	a, err := m.swiped()
	if err != nil {
		return err
	}
	if a.Status == StatusCancelled {
		return fmt.Errorf("confirm %s: %w", a.ID, ErrCancelled)
	}
	a.Status = StatusConfirmed
	m.status = "confirmed " + a.ID
	return nil
}

func (m *DemoModel) reschedule() error {
	a, err := m.swiped()
	if err != nil {
		return err
	}
	if a.Status == StatusCancelled {
		return fmt.Errorf("reschedule %s: %w", a.ID, ErrCancelled)
	}
	a.Start = a.Start.Add(24 * time.Hour)
	a.Status = StatusRescheduled
	m.status = "rescheduled " + a.ID
	return nil
}

func (m *DemoModel) cancel() error {
	a, err := m.swiped()
	if err != nil {
		return err
	}
	a.Status = StatusCancelled
	m.status = "cancelled " + a.ID
	return nil
}

func (m *DemoModel) archive() error {
	a, err := m.swiped()
	if err != nil {
		return err
	}
	id := a.ID
	items := m.list.Items()
	rest := append(items[:m.swipeRow:m.swipeRow], items[m.swipeRow+1:]...)
	if img, ok := m.avatars[id]; ok {
		img.Close()
		delete(m.avatars, id)
	}
	m.list.SetItems(rest)
	m.afterScroll()
	m.status = "archived " + id
	return nil
}

func (m *DemoModel) resize(width, height int) {
	m.width, m.height = width, height
	m.list.Resize(m.listHeight(), width)
	m.afterScroll()
}

func (m *DemoModel) listHeight() int {
	return max(1, m.height-chromeTop-chromeBottom)
}

// flush hands the queued commands to the runtime.
func (m *DemoModel) flush() tea.Cmd {
	if len(m.cmds) == 0 {
		return nil
	}
	cmds := m.cmds
	m.cmds = nil
	return tea.Batch(cmds...)
}

// Close stops every component. The model must not be used afterwards.
func (m *DemoModel) Close() {
	m.sampler.Stop()
	m.scroll.Close()
	m.swipe.Close()
	m.pull.Close()
	m.infinite.Close()
	m.stagger.Close()
	for _, img := range m.avatars {
		img.Close()
	}
	m.geom.Close()
}

// Items returns the loaded appointments.
func (m *DemoModel) Items() []Appointment {
	return m.list.Items()
}

// Metrics returns the sampler's latest metrics.
func (m *DemoModel) Metrics() perf.Metrics {
	return m.sampler.Metrics()
}

// ScrollTop returns the list's first visible row.
func (m *DemoModel) ScrollTop() int {
	return int(math.Floor(m.list.ScrollTop()))
}
