// Package lspcoord translates between byte offsets (the coordinate system
// every other package in this module uses) and LSP-style line/UTF-16-column
// positions, and tracks which outstanding external requests are still worth
// acting on when their responses arrive.
//
// The translation functions are grounded on the same algorithm
// engine/buffer.Buffer uses for its OffsetToPointUTF16/PointUTF16ToOffset
// pair: walk the line's codepoints once, counting a surrogate pair as two
// UTF-16 code units, per the LSP specification's "Character offset is
// measured in UTF-16 code units" contract. No caching is required or
// attempted; a single pass over one line is cheap enough to repeat per
// request.
//
// Tracker implements the cancellation/staleness policy external
// collaborators (an LSP server, a plugin) are held to: every outgoing
// request is keyed by an opaque ID and the document revision it was issued
// against, and a response that arrives after the request was superseded or
// the document has since changed is dropped rather than applied.
package lspcoord
