// Package pointer holds the input stream types shared by the gesture
// recognisers.
package pointer

import (
	"fmt"
	"strings"
)

// Kind is the type of a pointer event.
type Kind int

const (
	// Down starts a contact.
	Down Kind = iota
	// Move reports a new position of an active contact.
	Move
	// Up ends a contact normally.
	Up
	// Cancel ends a contact without completing it (focus loss, host abort).
	Cancel
)

// String returns the lower-case event name.
func (k Kind) String() string {
	switch k {
	case Down:
		return "down"
	case Move:
		return "move"
	case Up:
		return "up"
	case Cancel:
		return "cancel"
	default:
		return fmt.Sprintf("kind(%d)", int(k))
	}
}

// ParseKind parses a name produced by Kind.String.
func ParseKind(s string) (Kind, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "down":
		return Down, nil
	case "move":
		return Move, nil
	case "up":
		return Up, nil
	case "cancel":
		return Cancel, nil
	default:
		return 0, fmt.Errorf("unknown pointer event %q", s)
	}
}

// Event is a single pointer sample in container coordinates (pixels).
type Event struct {
	Kind Kind
	X, Y float64
}

// Handler consumes a single-pointer input stream.
type Handler interface {
	// Down begins a gesture at (x, y).
	Down(x, y float64)
	// Move reports whether the handler claimed the event, in which case the
	// host should suppress its default scrolling.
	Move(x, y float64) bool
	// Up completes the gesture. Errors come from user callbacks.
	Up() error
	// Cancel aborts the gesture without completing it.
	Cancel()
}

// Dispatch routes ev to the matching Handler method.
func Dispatch(h Handler, ev Event) (bool, error) {
	switch ev.Kind {
	case Down:
		h.Down(ev.X, ev.Y)
	case Move:
		return h.Move(ev.X, ev.Y), nil
	case Up:
		return false, h.Up()
	case Cancel:
		h.Cancel()
	}
	return false, nil
}
