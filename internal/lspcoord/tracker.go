package lspcoord

import "sync"

// RequestID opaquely identifies one outstanding external request (an LSP
// rename, a completion query, a plugin round-trip).
type RequestID uint64

// Tracker correlates outgoing external requests with their responses and
// tells the caller which responses are still worth applying. A response
// is stale, and must be dropped rather than applied, when either:
//   - the request was explicitly superseded (Cancel/CancelAll) before its
//     response arrived, or
//   - the document's revision has advanced past the one the request was
//     issued against.
//
// Tracker never inspects message payloads; it only answers "is this still
// live", leaving validation of the payload itself to the caller.
type Tracker struct {
	mu      sync.Mutex
	next    RequestID
	pending map[RequestID]int64
}

// NewTracker returns an empty Tracker.
func NewTracker() *Tracker {
	return &Tracker{pending: make(map[RequestID]int64)}
}

// Begin issues a new RequestID for a request about to be sent while the
// document is at revision. The caller attaches the returned ID to the
// outgoing message so the eventual response can be correlated back.
func (t *Tracker) Begin(revision int64) RequestID {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.next++
	id := t.next
	t.pending[id] = revision
	return id
}

// Cancel marks id as no longer worth acting on, e.g. because the user's
// next keystroke superseded the request before a response arrived.
func (t *Tracker) Cancel(id RequestID) {
	t.mu.Lock()
	defer t.mu.Unlock()
	delete(t.pending, id)
}

// CancelAll marks every currently pending request as superseded. Callers
// reach for this on any edit that invalidates the premise of every
// outstanding request at once (e.g. a buffer-wide reformat).
func (t *Tracker) CancelAll() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.pending = make(map[RequestID]int64)
}

// Pending reports how many requests are still awaiting a response.
func (t *Tracker) Pending() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return len(t.pending)
}

// Accept reports whether a response for id should still be applied given
// the document's currentRevision, consuming id either way: once Accept has
// been called for an id, that id can never be accepted again, matching the
// one-response-per-request contract of a JSON-RPC-style exchange.
func (t *Tracker) Accept(id RequestID, currentRevision int64) bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	issuedAt, ok := t.pending[id]
	delete(t.pending, id)
	if !ok {
		return false
	}
	return issuedAt == currentRevision
}
