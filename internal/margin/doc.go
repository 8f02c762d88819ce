// Package margin renders the gutter column to the left of text content:
// line numbers and per-line indicators (diagnostics, breakpoints,
// bookmarks, VCS status).
//
// Indicators anchor to a line-start byte offset through a shared
// internal/marker.List, the same substrate internal/overlay uses, so they
// stay attached to their line across edits instead of drifting when
// earlier lines are inserted or removed.
package margin
