package pull

// Phase is the pull-to-refresh phase. Refreshing is only reachable from a
// release past the threshold or an explicit Trigger.
type Phase int

const (
	Idle Phase = iota
	CanPull
	Pulling
	Refreshing
)

// String returns the phase name.
func (p Phase) String() string {
	switch p {
	case CanPull:
		return "can-pull"
	case Pulling:
		return "pulling"
	case Refreshing:
		return "refreshing"
	default:
		return "idle"
	}
}

// State is the published pull feedback.
type State struct {
	Offset float64
	Phase  Phase
}
