package cli

import "errors"

// Command errors.
var (
	// ErrNotTerminal is returned when the demo is started without a terminal.
	ErrNotTerminal = errors.New("demo requires an interactive terminal")
	// ErrUnknownOutput is returned for an unsupported --output value.
	ErrUnknownOutput = errors.New("unknown output format")
	// ErrUnknownTraceKind is returned for a trace that is neither a swipe nor a pull.
	ErrUnknownTraceKind = errors.New("unknown trace kind")
	// ErrTraceOrder is returned when trace events go back in time.
	ErrTraceOrder = errors.New("trace events must be in time order")
	// ErrEmptyTrace is returned for a trace without events.
	ErrEmptyTrace = errors.New("trace has no events")
	// ErrConfigExists is returned by config init when the target file exists.
	ErrConfigExists = errors.New("configuration file already exists, use --force to overwrite")
)
