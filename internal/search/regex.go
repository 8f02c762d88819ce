package search

import (
	"regexp"
	"strings"
)

// RegexChunkSize is the window size for regex scans.
const RegexChunkSize = 1024 * 1024

// minRegexOverlap is the floor on regex chunk overlap.
const minRegexOverlap = 4096

// approxPatternReach estimates the longest byte span a compiled pattern's
// match could plausibly cover, used to size chunk overlap so a match never
// gets truncated at a chunk boundary. A fixed overlap floor alone isn't
// enough: a pattern with an unbounded or large-bounded quantifier can
// match far more text than its own source length, so the overlap must
// scale with it rather than stay fixed.
//
// The estimate is deliberately conservative rather than exact — precisely
// bounding an RE2 program's maximum match length would need walking its
// compiled instruction graph, which buys little beyond what a rough
// multiplier already gives here, since a concrete cap is applied regardless.
func approxPatternReach(pattern string) int {
	reach := len(pattern) * 8
	if strings.ContainsAny(pattern, "*+") {
		reach *= 8
	}
	if idx := strings.IndexByte(pattern, '{'); idx >= 0 {
		reach *= 4
	}
	if reach > RegexChunkSize/2 {
		reach = RegexChunkSize / 2
	}
	return reach
}

// regexOverlap returns the chunk overlap to use for re: the larger of the
// fixed floor and the pattern's estimated reach.
func regexOverlap(re *regexp.Regexp) int64 {
	reach := approxPatternReach(re.String())
	if reach < minRegexOverlap {
		reach = minRegexOverlap
	}
	return int64(reach)
}

// FindAllRegex returns every occurrence of re in src, scanned in
// overlapping chunks the same way FindAllLiteral is.
func FindAllRegex(src TextSource, re *regexp.Regexp) []Match {
	total := src.TotalBytes()
	overlap := regexOverlap(re)
	step := RegexChunkSize - overlap
	if step < 1 {
		step = 1
	}

	var matches []Match
	for chunkStart := int64(0); chunkStart < total; chunkStart += step {
		chunkEnd := clampEnd(chunkStart+RegexChunkSize, total)
		data := src.Bytes(chunkStart, chunkEnd)

		for _, loc := range re.FindAllIndex(data, -1) {
			start, end := loc[0], loc[1]
			if chunkStart > 0 && int64(start) < overlap {
				continue
			}
			matches = append(matches, Match{
				Start: chunkStart + int64(start),
				End:   chunkStart + int64(end),
			})
		}

		if chunkEnd == total {
			break
		}
	}
	return matches
}

// FindNextRegex returns the first match at or after from, wrapping around
// to the buffer start if nothing is found before the end.
func FindNextRegex(src TextSource, re *regexp.Regexp, from int64) (Match, bool) {
	total := src.TotalBytes()
	if from < 0 {
		from = 0
	}
	if m, ok := firstRegexAtOrAfter(src, re, from, total); ok {
		return m, true
	}
	if from > 0 {
		return firstRegexAtOrAfter(src, re, 0, from)
	}
	return Match{}, false
}

// FindNextRegexInRange returns the first match within [from, rangeEnd),
// never wrapping.
func FindNextRegexInRange(src TextSource, re *regexp.Regexp, from, rangeEnd int64) (Match, bool) {
	return firstRegexAtOrAfter(src, re, from, rangeEnd)
}

func firstRegexAtOrAfter(src TextSource, re *regexp.Regexp, from, upTo int64) (Match, bool) {
	for _, m := range FindAllRegex(boundedSource{src, upTo}, re) {
		if m.Start >= from {
			return m, true
		}
	}
	return Match{}, false
}
