// Package overlay implements the overlay and virtual-text engine: non-
// destructive decorations anchored to the document through the marker
// list, queryable by viewport range or by namespace.
//
// An overlay's range is a pair of markers rather than a pair of byte
// offsets, so edits elsewhere in the document move a decoration along with
// the text it annotates without the renderer or the editing commands ever
// needing to know about it. The start marker carries Left gravity and the
// end marker Right gravity, so typing at either edge of a range lands
// inside it rather than outside, growing a diagnostic span to cover an
// in-place edit instead of splitting around it.
//
// Two independent engines share this file's conventions: Engine holds
// colored/underlined ranges (diagnostics, search highlights, diff
// markers), and VirtualTextEngine holds synthetic glyphs that are not part
// of the document at all (ghost text, inline hints).
package overlay
