package stl

import (
	"io"
)

// maxTextByte is the highest byte value expected in text STL ('~').
const maxTextByte = 0x7E

// DetectFormat classifies the stream at its current position, size bytes
// long. The stream is left where it was found.
//
// A text file starts with "solid", but so may a binary header, so the
// keyword proves nothing: a binary file is recognized by any byte above
// '~' in its first MinBinarySize bytes. Read failures are reported and
// classify as text.
func DetectFormat(rs io.ReadSeeker, size int64, rep Reporter) Format {
	if size < MinBinarySize {
		return FormatText
	}
	if rep == nil {
		rep = nopReporter{}
	}

	start, err := rs.Seek(0, io.SeekCurrent)
	if err != nil {
		rep.EmitFailure("Error: cannot read file")
		return FormatText
	}

	var head [MinBinarySize]byte
	_, err = io.ReadFull(rs, head[:])
	if _, serr := rs.Seek(start, io.SeekStart); serr != nil && err == nil {
		err = serr
	}
	if err != nil {
		rep.EmitFailure("Error: cannot read file")
		return FormatText
	}

	if IsBinaryPrefix(head[:]) {
		return FormatBinary
	}
	return FormatText
}

// IsBinaryPrefix reports whether prefix contains a byte that cannot occur in
// text STL. Only the first MinBinarySize bytes are inspected; shorter
// prefixes are always text.
func IsBinaryPrefix(prefix []byte) bool {
	if len(prefix) < MinBinarySize {
		return false
	}
	for _, b := range prefix[:MinBinarySize] {
		if b > maxTextByte {
			return true
		}
	}
	return false
}
