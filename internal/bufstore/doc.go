// Package bufstore implements the backing buffer store of the piece-table
// document engine: a monotonically growing collection of immutable byte
// regions addressable by dense buffer IDs.
//
// Two buffer classes share the Buffer interface:
//
//   - Stored buffers hold bytes read from disk at open time.
//   - Added buffers hold bytes typed during editing and support
//     append-in-place, which lets a long run of keystrokes collapse into a
//     single buffer and a single piece (the classic piece-table
//     optimization).
//
// Buffers may also be Unloaded: a file path plus a (file offset, length)
// pair materialized into memory only when a caller needs the bytes. Once a
// region of a buffer has been handed out to any piece, those bytes never
// change; edits always create new buffers or append to the tail of the most
// recent Added buffer.
package bufstore
