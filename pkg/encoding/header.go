// Package encoding provides text decoding for STL headers and solid names.
package encoding

import (
	"bytes"
	"strings"
	"unicode"
	"unicode/utf8"

	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/transform"
)

// Latin1ToUTF8 converts Windows-1252 encoded bytes to a UTF-8 string.
// Returns the original bytes as a string if conversion fails.
func Latin1ToUTF8(data []byte) string {
	decoder := charmap.Windows1252.NewDecoder()
	result, _, err := transform.Bytes(decoder, data)
	if err != nil {
		return string(data)
	}
	return string(result)
}

// HeaderText converts a binary STL header or a text solid name to a
// printable UTF-8 string. Valid UTF-8 is kept as is; anything else is
// read as Windows-1252, which most CAD exporters write. Everything from the
// first null byte on is dropped, control characters become spaces and
// surrounding space is trimmed.
func HeaderText(data []byte) string {
	if i := bytes.IndexByte(data, 0); i >= 0 {
		data = data[:i]
	}

	var s string
	if utf8.Valid(data) {
		s = string(data)
	} else {
		s = Latin1ToUTF8(data)
	}

	s = strings.Map(func(r rune) rune {
		if unicode.IsControl(r) {
			return ' '
		}
		return r
	}, s)
	return strings.TrimSpace(s)
}

// ColorTag returns the default facet color stored by some exporters as
// "COLOR=" followed by four RGBA bytes in the binary header.
func ColorTag(header []byte) (rgba [4]byte, ok bool) {
	const tag = "COLOR="
	i := bytes.Index(header, []byte(tag))
	if i < 0 || i+len(tag)+4 > len(header) {
		return rgba, false
	}
	copy(rgba[:], header[i+len(tag):])
	return rgba, true
}
