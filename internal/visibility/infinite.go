package visibility

// InfiniteScrollOptions configures an InfiniteScroll.
type InfiniteScrollOptions struct {
	HasNextPage func() bool
	IsLoading   func() bool
	OnLoadMore  func()

	Threshold  float64
	RootMargin float64
}

// InfiniteScroll asks for the next page whenever its sentinel element
// becomes visible, provided another page exists and none is loading.
type InfiniteScroll struct {
	opts InfiniteScrollOptions
	sub  *Subscription
}

// NewInfiniteScroll subscribes to sentinel.
func NewInfiniteScroll(t *Trigger, sentinel ElementID, opts InfiniteScrollOptions) *InfiniteScroll {
	s := &InfiniteScroll{opts: opts}
	s.sub = t.Subscribe(sentinel, Options{
		Threshold:  opts.Threshold,
		RootMargin: opts.RootMargin,
	}, s.maybeLoad, nil)
	return s
}

// Recheck requests another page if the sentinel is still visible. Owners
// call it after a page finished loading, since no new visibility transition
// occurs while the sentinel stays on screen.
func (s *InfiniteScroll) Recheck() {
	if s.sub.Visible() {
		s.maybeLoad()
	}
}

// Close unsubscribes the sentinel.
func (s *InfiniteScroll) Close() {
	s.sub.Unsubscribe()
}

func (s *InfiniteScroll) maybeLoad() {
	if s.opts.OnLoadMore == nil {
		return
	}
	if s.opts.HasNextPage != nil && !s.opts.HasNextPage() {
		return
	}
	if s.opts.IsLoading != nil && s.opts.IsLoading() {
		return
	}
	s.opts.OnLoadMore()
}
