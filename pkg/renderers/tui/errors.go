package tui

import "errors"

var (
	// ErrAborted signals the user aborted input (e.g., Ctrl+C).
	ErrAborted = errors.New("tui: aborted")
	// ErrUnsupportedField is returned when a field's shape has no widget;
	// rendering of that subtree stops and the error carries the field path.
	ErrUnsupportedField = errors.New("tui: unsupported field shape")
)
