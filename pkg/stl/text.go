package stl

import (
	"bytes"
	"errors"
	"fmt"
	"io"

	"github.com/Faultbox/stlmesh/pkg/progress"
)

// readText decodes one text block:
//
//	solid <name>
//	  facet normal nx ny nz
//	    outer loop
//	      vertex x y z   (3 times)
//	    endloop
//	  endfacet
//	endsolid
//
// Keywords are case-insensitive and may be indented. A file that ends where
// a facet, vertex, endloop or endfacet line is due stops cleanly with the
// triangles read so far; missing solid or outer loop lines are errors.
// It returns false when the caller should stop looping.
func (d *Decoder) readText(st *readState, rng progress.Range, until int64) (bool, error) {
	start := st.s.pos

	line, err := st.s.ReadLine()
	if err != nil {
		return false, d.fail(d.lineError(st, err))
	}
	st.beginBlock(FormatText, solidName(line), 0)

	merge := st.mergeTable()
	defer st.endBlock(merge)

	step := d.opts.ProgressStep
	ps := progress.NewScope(rng, "Reading text STL file", 1+(until-start)/step)
	nextStep := start + step

	for ps.More() {
		if st.s.pos > nextStep {
			ps.Advance(1)
			nextStep += step
		}

		line, err = st.s.ReadLine()
		if errors.Is(err, io.EOF) {
			return false, nil
		}
		if err != nil {
			return false, d.fail(d.lineError(st, err))
		}
		if hasKeyword(line, "endsolid") {
			break
		}
		if !hasKeyword(line, "facet") {
			return false, d.fail(unexpectedLine(st))
		}

		line, err = st.s.ReadLine()
		if err != nil {
			return false, d.fail(d.lineError(st, err))
		}
		if !hasKeyword(line, "outer") {
			return false, d.fail(unexpectedLine(st))
		}

		var v [3]Point3
		for i := range v {
			line, err = st.s.ReadLine()
			if errors.Is(err, io.EOF) {
				return false, nil
			}
			if err != nil {
				return false, d.fail(d.lineError(st, err))
			}
			p, ok := parseVertex(line)
			if !ok {
				return false, d.fail(fmt.Errorf("%w at line %d", ErrBadVertex, st.s.lineNo))
			}
			v[i] = p
		}
		st.addFacet(merge, v)

		for _, kw := range [...]string{"endloop", "endfacet"} {
			line, err = st.s.ReadLine()
			if errors.Is(err, io.EOF) {
				return false, nil
			}
			if err != nil {
				return false, d.fail(d.lineError(st, err))
			}
			if !hasKeyword(line, kw) {
				return false, d.fail(unexpectedLine(st))
			}
		}
	}

	return ps.More(), nil
}

func (d *Decoder) lineError(st *readState, err error) error {
	if errors.Is(err, io.EOF) {
		return fmt.Errorf("%w at line %d", ErrPrematureEOF, st.s.lineNo+1)
	}
	return fmt.Errorf("%w at line %d: %v", ErrRead, st.s.lineNo+1, err)
}

func unexpectedLine(st *readState) error {
	return fmt.Errorf("%w at line %d", ErrUnexpectedLine, st.s.lineNo)
}

// hasKeyword reports whether line starts with kw, ignoring case and leading
// whitespace.
func hasKeyword(line []byte, kw string) bool {
	line = trimLeftSpace(line)
	return len(line) >= len(kw) && bytes.EqualFold(line[:len(kw)], []byte(kw))
}

// solidName returns the text after the solid keyword.
func solidName(line []byte) []byte {
	line = trimLeftSpace(line)
	if hasKeyword(line, "solid") {
		line = line[len("solid"):]
	}
	return bytes.TrimSpace(line)
}

func trimLeftSpace(b []byte) []byte {
	for len(b) > 0 && isSpace(b[0]) {
		b = b[1:]
	}
	return b
}
