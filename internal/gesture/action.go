package gesture

// Color is the visual category of an action's reveal panel.
type Color string

// Action colour categories.
const (
	ColorPrimary Color = "primary"
	ColorSuccess Color = "success"
	ColorWarning Color = "warning"
	ColorDanger  Color = "danger"
)

// Action is a user-triggerable operation revealed by swiping a list item.
// Actions are supplied by the owning widget and never mutated.
type Action struct {
	ID       string
	Label    string
	Icon     string
	Color    Color
	OnAction func() error
}

// State is the published swipe feedback. The sign of Offset tells which
// action sequence is exposed.
type State struct {
	Offset       float64
	IsActive     bool
	ActiveAction *Action
}

// Side returns "left", "right" or "" depending on which sequence the offset
// exposes.
func (s State) Side() string {
	switch {
	case s.Offset > 0:
		return "left"
	case s.Offset < 0:
		return "right"
	default:
		return ""
	}
}
