// Package search finds and replaces text in a document without ever
// holding the whole buffer in memory at once, scanning it in fixed-size,
// overlapping chunks instead.
//
// Literal search uses a 64KiB chunk with an overlap of pattern length
// minus one byte, just enough for a match straddling a chunk boundary to
// appear whole in one of the two chunks that see it. Regex search uses a
// 1MiB chunk with an overlap sized from the pattern's estimated maximum
// match length, since a bounded quantifier can make a regex match far
// longer than its source text.
//
// A literal match can never lie whole inside two consecutive chunks, since
// their overlap is one byte shorter than the pattern, so the literal scan
// reports every match it sees without deduplication. The regex scan skips
// a match that starts inside a chunk's carried-over overlap region, which
// the previous chunk already covered.
package search
