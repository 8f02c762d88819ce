package search

import (
	"regexp"
	"strings"
	"testing"
)

type byteSource struct {
	data []byte
}

func (s *byteSource) TotalBytes() int64 { return int64(len(s.data)) }
func (s *byteSource) Bytes(start, end int64) []byte {
	if start < 0 {
		start = 0
	}
	if end > int64(len(s.data)) {
		end = int64(len(s.data))
	}
	if start >= end {
		return nil
	}
	return s.data[start:end]
}

func TestFindAllLiteralFindsEveryOccurrence(t *testing.T) {
	src := &byteSource{data: []byte("the cat sat on the mat with the hat")}
	matches := FindAllLiteral(src, []byte("the"), true)
	if len(matches) != 3 {
		t.Fatalf("expected 3 occurrences of 'the', got %d: %+v", len(matches), matches)
	}
	for _, m := range matches {
		if string(src.data[m.Start:m.End]) != "the" {
			t.Errorf("match %+v does not cover 'the'", m)
		}
	}
}

func TestFindAllLiteralCaseInsensitive(t *testing.T) {
	src := &byteSource{data: []byte("Hello HELLO hello")}
	matches := FindAllLiteral(src, []byte("hello"), false)
	if len(matches) != 3 {
		t.Fatalf("expected 3 case-insensitive matches, got %d", len(matches))
	}
}

func TestFindAllLiteralStraddlesChunkBoundaryExactlyOnce(t *testing.T) {
	pattern := "boundary-marker"
	// Place the pattern straddling the 64KiB chunk boundary.
	before := strings.Repeat("x", LiteralChunkSize-5)
	data := before + pattern + strings.Repeat("y", 1000)
	src := &byteSource{data: []byte(data)}

	matches := FindAllLiteral(src, []byte(pattern), true)
	if len(matches) != 1 {
		t.Fatalf("expected exactly 1 match straddling the chunk boundary, got %d: %+v", len(matches), matches)
	}
	want := int64(len(before))
	if matches[0].Start != want {
		t.Fatalf("expected match at %d, got %d", want, matches[0].Start)
	}
}

func TestFindNextLiteralWrapsAround(t *testing.T) {
	src := &byteSource{data: []byte("needle ... nothing else ... needle")}
	m, ok := FindNextLiteral(src, []byte("needle"), 10, true)
	if !ok {
		t.Fatal("expected a match")
	}
	if m.Start != 28 {
		t.Fatalf("expected the second needle at 28, got %d", m.Start)
	}

	m2, ok := FindNextLiteral(src, []byte("needle"), 30, true)
	if !ok {
		t.Fatal("expected wraparound match")
	}
	if m2.Start != 0 {
		t.Fatalf("expected wraparound to offset 0, got %d", m2.Start)
	}
}

func TestFindNextLiteralInRangeNeverWraps(t *testing.T) {
	src := &byteSource{data: []byte("needle ... nothing else ... needle")}
	_, ok := FindNextLiteralInRange(src, []byte("needle"), 10, 20, true)
	if ok {
		t.Fatal("expected no match strictly within [10,20)")
	}
}

func TestFindAllRegexMatchesPattern(t *testing.T) {
	src := &byteSource{data: []byte("foo123 bar456 baz789")}
	re := regexp.MustCompile(`[a-z]+\d+`)
	matches := FindAllRegex(src, re)
	if len(matches) != 3 {
		t.Fatalf("expected 3 regex matches, got %d", len(matches))
	}
}

func TestApproxPatternReachScalesWithQuantifiers(t *testing.T) {
	plain := approxPatternReach("abc")
	starred := approxPatternReach("a*bc")
	if starred <= plain {
		t.Fatalf("expected unbounded quantifier to increase reach estimate: %d vs %d", starred, plain)
	}
}

type recordingApplier struct {
	data *[]byte
}

func (a recordingApplier) Replace(start, end int64, replacement string) error {
	d := *a.data
	out := append([]byte{}, d[:start]...)
	out = append(out, []byte(replacement)...)
	out = append(out, d[end:]...)
	*a.data = out
	return nil
}

func TestReplaceAllAdvancesPastReplacement(t *testing.T) {
	data := []byte("aa aa aa")
	src := &byteSource{data: data}
	applier := recordingApplier{data: &src.data}

	count, err := ReplaceAll(src, applier, []byte("aa"), "aaaa", true)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if count != 3 {
		t.Fatalf("expected 3 replacements, got %d", count)
	}
	if string(src.data) != "aaaa aaaa aaaa" {
		t.Fatalf("unexpected result: %q", src.data)
	}
}

func TestReplaceAllRegexExpandsSubmatches(t *testing.T) {
	data := []byte("name: alice, name: bob")
	src := &byteSource{data: data}
	applier := recordingApplier{data: &src.data}
	re := regexp.MustCompile(`name: (\w+)`)

	count, err := ReplaceAllRegex(src, applier, re, "user=$1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if count != 2 {
		t.Fatalf("expected 2 replacements, got %d", count)
	}
	if string(src.data) != "user=alice, user=bob" {
		t.Fatalf("unexpected result: %q", src.data)
	}
}
