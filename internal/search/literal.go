package search

import "bytes"

// LiteralChunkSize is the window size for literal scans.
const LiteralChunkSize = 64 * 1024

// FindAllLiteral returns every occurrence of pattern in src, overlapping
// occurrences included, scanning it in overlapping chunks so a match
// straddling a chunk boundary is found and reported exactly once.
func FindAllLiteral(src TextSource, pattern []byte, caseSensitive bool) []Match {
	if len(pattern) == 0 {
		return nil
	}
	total := src.TotalBytes()
	overlap := int64(len(pattern) - 1)
	step := LiteralChunkSize - overlap
	if step < 1 {
		step = 1
	}

	needle := pattern
	if !caseSensitive {
		needle = bytes.ToLower(pattern)
	}

	var matches []Match
	for chunkStart := int64(0); chunkStart < total; chunkStart += step {
		chunkEnd := clampEnd(chunkStart+LiteralChunkSize, total)
		data := src.Bytes(chunkStart, chunkEnd)
		haystack := data
		if !caseSensitive {
			haystack = bytes.ToLower(data)
		}

		searchFrom := 0
		for {
			rel := bytes.Index(haystack[searchFrom:], needle)
			if rel < 0 {
				break
			}
			pos := searchFrom + rel
			matches = append(matches, Match{
				Start: chunkStart + int64(pos),
				End:   chunkStart + int64(pos) + int64(len(pattern)),
			})
			searchFrom = pos + 1
		}

		if chunkEnd == total {
			break
		}
	}
	return matches
}

// FindNextLiteral returns the first occurrence of pattern at or after
// from, wrapping around to the buffer start if nothing is found before
// the end. The zero Match and false are returned if pattern doesn't occur
// anywhere in the buffer.
func FindNextLiteral(src TextSource, pattern []byte, from int64, caseSensitive bool) (Match, bool) {
	total := src.TotalBytes()
	if from < 0 {
		from = 0
	}
	if m, ok := firstLiteralAtOrAfter(src, pattern, from, total, caseSensitive); ok {
		return m, true
	}
	if from > 0 {
		return firstLiteralAtOrAfter(src, pattern, 0, from, caseSensitive)
	}
	return Match{}, false
}

// FindNextLiteralInRange returns the first occurrence of pattern within
// [from, rangeEnd), never wrapping.
func FindNextLiteralInRange(src TextSource, pattern []byte, from, rangeEnd int64, caseSensitive bool) (Match, bool) {
	return firstLiteralAtOrAfter(src, pattern, from, rangeEnd, caseSensitive)
}

func firstLiteralAtOrAfter(src TextSource, pattern []byte, from, upTo int64, caseSensitive bool) (Match, bool) {
	for _, m := range FindAllLiteral(boundedSource{src, upTo}, pattern, caseSensitive) {
		if m.Start >= from {
			return m, true
		}
	}
	return Match{}, false
}

// boundedSource presents a TextSource as if it ended at limit, for
// in-range searches that must not see bytes past their bound.
type boundedSource struct {
	TextSource
	limit int64
}

func (b boundedSource) TotalBytes() int64 { return min64(b.TextSource.TotalBytes(), b.limit) }
func (b boundedSource) Bytes(start, end int64) []byte {
	return b.TextSource.Bytes(start, clampEnd(end, b.limit))
}
