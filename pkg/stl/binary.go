package stl

import (
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"math"

	"github.com/Faultbox/stlmesh/pkg/progress"
)

// Offsets within a 50-byte facet record. The normal at offset 0 is skipped.
const (
	facetVertexOffset = 12
	vec3Size          = 12
)

// readBinary decodes one binary block: header, facet count, facets.
// The count only sizes progress; decoding stops at the count or at the first
// short chunk read, whichever comes first. Facets of a short chunk are not
// delivered. It returns false when the caller should
// stop looping (cancellation).
func (d *Decoder) readBinary(st *readState, rng progress.Range) (bool, error) {
	var header [HeaderSize + CountSize]byte
	if _, err := st.s.ReadFull(header[:]); err != nil {
		return false, d.fail(fmt.Errorf("%w: header of block %d", ErrCorruptHeader, st.blocks))
	}

	hint := binary.LittleEndian.Uint32(header[HeaderSize:])
	st.beginBlock(FormatBinary, header[:HeaderSize], hint)
	merge := st.mergeTable()

	ps := progress.NewScope(rng, "Reading binary STL file", int64(hint))
	chunk := d.chunkBuffer()
	var buf []byte
	for read := uint32(0); read < hint && ps.More(); read++ {
		if len(buf) < FacetSize {
			n := min(uint32(d.opts.ChunkFacets), hint-read)
			want := int(n) * FacetSize
			if _, err := st.s.ReadFull(chunk[:want]); err != nil {
				st.endBlock(merge)
				return false, d.fail(chunkError(err, read, hint))
			}
			buf = chunk[:want]
		}

		st.addFacet(merge, decodeFacet(buf[:FacetSize]))
		buf = buf[FacetSize:]
		ps.Advance(1)
	}

	st.endBlock(merge)
	return ps.More(), nil
}

func chunkError(err error, decoded, hint uint32) error {
	if errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF) {
		return fmt.Errorf("%w: stream ended after %d of %d facets", ErrTruncatedFacets, decoded, hint)
	}
	return fmt.Errorf("%w: after %d facets: %v", ErrRead, decoded, err)
}

// decodeFacet returns the three vertices of a facet record.
func decodeFacet(rec []byte) [3]Point3 {
	var v [3]Point3
	for i := range v {
		v[i] = readVec3(rec[facetVertexOffset+vec3Size*i:])
	}
	return v
}

// readVec3 decodes three little-endian float32 values independently of
// host byte order.
func readVec3(b []byte) Point3 {
	return Point3{
		X: float64(readFloat32(b[0:4])),
		Y: float64(readFloat32(b[4:8])),
		Z: float64(readFloat32(b[8:12])),
	}
}

func readFloat32(b []byte) float32 {
	return math.Float32frombits(binary.LittleEndian.Uint32(b))
}
