package stl

import (
	"bufio"
	"errors"
	"io"
)

// stream is a buffered, position-tracking view of the input shared by the
// block readers of one Read call.
type stream struct {
	br     *bufio.Reader
	pos    int64 // bytes consumed from the starting position
	line   []byte
	lineNo int // lines read so far
	eof    bool
}

func newStream(r io.Reader, lineSize int) *stream {
	return &stream{
		br:   bufio.NewReaderSize(r, 64*1024),
		line: make([]byte, 0, lineSize),
	}
}

// ReadFull fills p. It returns io.ErrUnexpectedEOF on a short read, like
// io.ReadFull, along with the byte count.
func (s *stream) ReadFull(p []byte) (int, error) {
	n, err := io.ReadFull(s.br, p)
	s.pos += int64(n)
	if errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF) {
		s.eof = true
	}
	return n, err
}

// ReadLine returns the next line without its terminator. The returned slice
// is only valid until the next call. io.EOF is returned only when no bytes
// remain; a final unterminated line is returned as a normal line.
func (s *stream) ReadLine() ([]byte, error) {
	s.line = s.line[:0]
	for {
		chunk, err := s.br.ReadSlice('\n')
		s.pos += int64(len(chunk))
		s.line = append(s.line, chunk...)
		if err == nil {
			break
		}
		if errors.Is(err, bufio.ErrBufferFull) {
			continue
		}
		if errors.Is(err, io.EOF) {
			s.eof = true
			if len(s.line) == 0 {
				return nil, io.EOF
			}
			break
		}
		return nil, err
	}

	s.lineNo++
	line := s.line
	for len(line) > 0 && (line[len(line)-1] == '\n' || line[len(line)-1] == '\r') {
		line = line[:len(line)-1]
	}
	return line, nil
}

// SkipSpace consumes ASCII whitespace. It reports false once the stream is
// exhausted.
func (s *stream) SkipSpace() (bool, error) {
	for {
		b, err := s.br.ReadByte()
		if errors.Is(err, io.EOF) {
			s.eof = true
			return false, nil
		}
		if err != nil {
			return false, err
		}
		if !isSpace(b) {
			return true, s.br.UnreadByte()
		}
		s.pos++
	}
}

func isSpace(b byte) bool {
	switch b {
	case ' ', '\t', '\n', '\r', '\v', '\f':
		return true
	}
	return false
}

func isAlpha(b byte) bool {
	return (b >= 'a' && b <= 'z') || (b >= 'A' && b <= 'Z')
}
