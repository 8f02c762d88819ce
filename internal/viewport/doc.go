// Package viewport turns a document's byte range into a grid of styled
// terminal cells.
//
// # Scroll state
//
// Viewport owns the visible window (top line, left column, size) and a
// small exponential-decay scroll animation, independent of any particular
// document — it only ever sees line numbers and columns.
//
// # Render pipeline
//
// Render walks logical lines starting at the viewport's top line, layering
// styles from lowest to highest priority (base, syntax, overlay,
// selection, cursor reverse-video) and expanding tabs, producing both the
// styled cells and a position map from screen cell back to document byte
// offset. Wrapping, when enabled, splits a logical line into multiple
// screen rows instead of truncating it.
//
// # Scrollbar
//
// ThumbGeometry computes a scrollbar thumb's size and offset from the
// current scroll position, switching to a fixed-size thumb once the
// document crosses a size threshold where per-line ratios stop being
// meaningful.
package viewport
