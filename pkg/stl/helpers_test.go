package stl

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"strings"
)

// recordingSink collects everything the decoder delivers.
type recordingSink struct {
	nodes     []Point3
	triangles [][3]NodeIndex
	blocks    []BlockInfo
}

func (s *recordingSink) AddNode(x, y, z float64) NodeIndex {
	s.nodes = append(s.nodes, Point3{x, y, z})
	return NodeIndex(len(s.nodes) - 1)
}

func (s *recordingSink) AddTriangle(n1, n2, n3 NodeIndex) {
	s.triangles = append(s.triangles, [3]NodeIndex{n1, n2, n3})
}

func (s *recordingSink) BeginBlock(info BlockInfo) {
	s.blocks = append(s.blocks, info)
}

// recordingReporter collects failure messages.
type recordingReporter struct {
	messages []string
}

func (r *recordingReporter) EmitFailure(msg string) {
	r.messages = append(r.messages, msg)
}

// testFacet is three vertices; the normal is always written as zero.
type testFacet [3][3]float32

// unitTriangle returns a right triangle with legs of length 1 at height z,
// shifted by dx along X.
func unitTriangle(dx, z float32) testFacet {
	return testFacet{
		{dx, 0, z},
		{dx + 1, 0, z},
		{dx, 1, z},
	}
}

// createTestBinary creates a binary STL block with the given header text,
// facet count field and facets.
func createTestBinary(header string, count uint32, facets []testFacet) []byte {
	buf := new(bytes.Buffer)

	var h [HeaderSize]byte
	copy(h[:], header)
	buf.Write(h[:])

	binary.Write(buf, binary.LittleEndian, count)

	for _, f := range facets {
		binary.Write(buf, binary.LittleEndian, [3]float32{0, 0, 1}) // normal
		for _, v := range f {
			binary.Write(buf, binary.LittleEndian, v)
		}
		binary.Write(buf, binary.LittleEndian, uint16(0)) // attribute byte count
	}

	return buf.Bytes()
}

// createTestText creates a text STL block.
func createTestText(name string, facets []testFacet) string {
	var b strings.Builder
	fmt.Fprintf(&b, "solid %s\n", name)
	for _, f := range facets {
		b.WriteString("  facet normal 0 0 1\n")
		b.WriteString("    outer loop\n")
		for _, v := range f {
			fmt.Fprintf(&b, "      vertex %g %g %g\n", v[0], v[1], v[2])
		}
		b.WriteString("    endloop\n")
		b.WriteString("  endfacet\n")
	}
	fmt.Fprintf(&b, "endsolid %s\n", name)
	return b.String()
}

// distinctFacets returns n facets sharing no vertex.
func distinctFacets(n int) []testFacet {
	facets := make([]testFacet, n)
	for i := range facets {
		facets[i] = unitTriangle(float32(i)*10, float32(i))
	}
	return facets
}
