// Package term defines the terminal-facing surface of the editor: the
// color and style model shared by syntax highlighting, overlays, and
// selections, the rendered cell grid, and the input event types (key,
// mouse, paste) a real terminal backend produces.
//
// This package holds only types and pure functions. The package's
// "backend" subpackage wires a real terminal to them.
package term
