// Package listview provides a windowed list component for Bubble Tea TUI
// applications.
//
// Rows are one terminal line each. The rendered range comes from a
// virtual.Virtualizer, so only the viewport plus a small buffer is rendered
// no matter how many items the list holds. Key features:
//   - Keyboard navigation (up/down, pgup/pgdn, home/end, j/k)
//   - Selection that scrolls the minimum distance to stay visible
//   - Row hit testing for mouse input via RowAt
package listview
