package visibility

// LazyImageOptions configures a LazyImage.
type LazyImageOptions struct {
	Src         string
	Placeholder string
	// Priority images load eagerly and are never observed.
	Priority bool

	Threshold  float64
	RootMargin float64

	// OnLoad runs once, when the real source is switched in.
	OnLoad func(src string)
}

// LazyImage renders a placeholder until its element is first visible.
type LazyImage struct {
	opts   LazyImageOptions
	loaded bool
	sub    *Subscription
}

// NewLazyImage creates the image. Without a visibility source, or with
// Priority set, the real source is used immediately.
func NewLazyImage(t *Trigger, el ElementID, opts LazyImageOptions) *LazyImage {
	img := &LazyImage{opts: opts}
	if opts.Priority || !t.Available() {
		img.load()
		return img
	}
	img.sub = t.Subscribe(el, Options{
		Threshold:   opts.Threshold,
		RootMargin:  opts.RootMargin,
		TriggerOnce: true,
	}, img.load, nil)
	return img
}

// Source returns the source to render.
func (img *LazyImage) Source() string {
	if img.loaded {
		return img.opts.Src
	}
	return img.opts.Placeholder
}

// Loaded reports whether the real source is in use.
func (img *LazyImage) Loaded() bool { return img.loaded }

// Close stops observing.
func (img *LazyImage) Close() {
	img.sub.Unsubscribe()
}

func (img *LazyImage) load() {
	if img.loaded {
		return
	}
	img.loaded = true
	if img.opts.OnLoad != nil {
		img.opts.OnLoad(img.opts.Src)
	}
}
