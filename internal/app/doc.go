// Package app wires the editor's core packages into one cooperative
// single-threaded scheduler: a main task owns all mutable document state
// (piece tree, markers, overlays, event log, cursors) and runs
// edit/render operations to completion without preemption, while plugin
// and LSP collaborators live on separate goroutines and communicate only
// through message queues the main task drains non-blockingly each tick.
//
// Session owns the open documents and the views (splits) showing them.
// Scheduler runs the tick loop, draining inbound command queues and
// dispatching them against the Session. Diagnostics is a bounded trace log
// for dropped-message and error-policy reporting.
// Logger is the package's structured logging facility, deliberately a
// small hand-rolled type (fields, levels, one io.Writer sink) rather than a
// third-party logging library, following the same shape the editor's other
// ambient packages use.
package app
