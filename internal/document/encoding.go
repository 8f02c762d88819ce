package document

import (
	"bytes"
	"fmt"

	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/encoding/unicode"
)

// Encoding names a document's on-disk text encoding. The piece tree and
// every in-memory package always operate on UTF-8; Encoding governs only
// the transcoding Open/Save perform at the document's boundary.
type Encoding uint8

const (
	EncodingUTF8 Encoding = iota
	EncodingUTF16LE
	EncodingUTF16BE
	EncodingLatin1
)

// String names the encoding, for status-line display.
func (e Encoding) String() string {
	switch e {
	case EncodingUTF16LE:
		return "UTF-16LE"
	case EncodingUTF16BE:
		return "UTF-16BE"
	case EncodingLatin1:
		return "ISO-8859-1"
	default:
		return "UTF-8"
	}
}

// codec returns the x/text encoding.Encoding implementing e's transcoding,
// or nil for UTF-8 (the identity case, never wrapped).
func (e Encoding) codec() encoding.Encoding {
	switch e {
	case EncodingUTF16LE:
		return unicode.UTF16(unicode.LittleEndian, unicode.IgnoreBOM)
	case EncodingUTF16BE:
		return unicode.UTF16(unicode.BigEndian, unicode.IgnoreBOM)
	case EncodingLatin1:
		return charmap.ISO8859_1
	default:
		return nil
	}
}

// decodeToUTF8 transcodes raw file bytes in encoding e into UTF-8 text.
func decodeToUTF8(raw []byte, e Encoding) (string, error) {
	codec := e.codec()
	if codec == nil {
		return string(raw), nil
	}
	out, err := codec.NewDecoder().Bytes(raw)
	if err != nil {
		return "", fmt.Errorf("document: decode %s: %w", e, err)
	}
	return string(out), nil
}

// encodeFromUTF8 transcodes UTF-8 text into raw bytes for encoding e.
func encodeFromUTF8(text string, e Encoding) ([]byte, error) {
	codec := e.codec()
	if codec == nil {
		return []byte(text), nil
	}
	out, err := codec.NewEncoder().Bytes([]byte(text))
	if err != nil {
		return nil, fmt.Errorf("document: encode %s: %w", e, err)
	}
	return out, nil
}

// DetectEncoding sniffs raw for a byte-order-mark, falling back to UTF-8
// when none is present. It never inspects content beyond the BOM, leaving
// mojibake detection to the user.
func DetectEncoding(raw []byte) Encoding {
	switch {
	case bytes.HasPrefix(raw, []byte{0xFF, 0xFE}):
		return EncodingUTF16LE
	case bytes.HasPrefix(raw, []byte{0xFE, 0xFF}):
		return EncodingUTF16BE
	case bytes.HasPrefix(raw, []byte{0xEF, 0xBB, 0xBF}):
		return EncodingUTF8
	default:
		return EncodingUTF8
	}
}
