package search

import "regexp"

// Applier performs one in-place replacement in the underlying document.
// Implementations are expected to append the edit to the event log the
// same as a user-typed edit.
type Applier interface {
	Replace(start, end int64, replacement string) error
}

// ReplaceAll replaces every literal occurrence of pattern with
// replacement, advancing past each replacement by its own length so the
// newly inserted text is never matched again. Each step runs the literal
// scan over the buffer from its start and takes the first match at or
// after that position.
func ReplaceAll(src TextSource, applier Applier, pattern []byte, replacement string, caseSensitive bool) (int, error) {
	count := 0
	pos := int64(0)
	for {
		m, ok := FindNextLiteralInRange(src, pattern, pos, src.TotalBytes(), caseSensitive)
		if !ok {
			break
		}
		if err := applier.Replace(m.Start, m.End, replacement); err != nil {
			return count, err
		}
		count++
		pos = m.Start + int64(len(replacement))
	}
	return count, nil
}

// ReplaceAllRegex replaces every match of re with replacement, expanding
// `$1`-style submatch references the same way regexp.ReplaceAll does.
func ReplaceAllRegex(src TextSource, applier Applier, re *regexp.Regexp, replacement string) (int, error) {
	count := 0
	pos := int64(0)
	for {
		m, ok := FindNextRegexInRange(src, re, pos, src.TotalBytes())
		if !ok {
			break
		}
		matched := src.Bytes(m.Start, m.End)
		expanded := re.ReplaceAll(matched, []byte(replacement))
		if err := applier.Replace(m.Start, m.End, string(expanded)); err != nil {
			return count, err
		}
		count++
		pos = m.Start + int64(len(expanded))
	}
	return count, nil
}
