package tabular

import (
	"bytes"
	"strings"
	"unicode/utf8"
)

// CleanCell normalizes a raw cell value: trims surrounding whitespace,
// strips a UTF-8 BOM, and unwraps the Excel formula-text artifact ="...".
func CleanCell(s string) string {
	s = strings.TrimPrefix(s, "\ufeff")
	s = strings.TrimSpace(s)

	// Excel exports text-typed cells as ="value" to stop re-interpretation.
	if strings.HasPrefix(s, `="`) && strings.HasSuffix(s, `"`) && len(s) >= 3 {
		s = s[2 : len(s)-1]
		s = strings.TrimSpace(s)
	}

	return s
}

// CleanHeader normalizes a header cell for case-insensitive comparison.
func CleanHeader(s string) string {
	return strings.ToLower(CleanCell(s))
}

// sanitizeUTF8 replaces invalid byte sequences with the Unicode
// replacement character so the csv reader never sees broken encoding.
func sanitizeUTF8(data []byte) []byte {
	if utf8.Valid(data) {
		return data
	}

	var buf bytes.Buffer
	buf.Grow(len(data))

	for len(data) > 0 {
		r, size := utf8.DecodeRune(data)
		if r == utf8.RuneError && size == 1 {
			buf.WriteRune('�')
			data = data[1:]
		} else {
			buf.WriteRune(r)
			data = data[size:]
		}
	}

	return buf.Bytes()
}

func isEmptyRecord(record []string) bool {
	for _, v := range record {
		if strings.TrimSpace(v) != "" {
			return false
		}
	}
	return true
}
