package stl

import (
	"math"
	"testing"
)

func TestMergeTable_SamePointOnce(t *testing.T) {
	sink := &recordingSink{}
	m := newMergeTable(sink, DefaultTolerance)

	first := m.AddNode(1, 2, 3)
	for i := 0; i < 100; i++ {
		if got := m.AddNode(1, 2, 3); got != first {
			t.Fatalf("expected cached index %d, got %d", first, got)
		}
	}

	if len(sink.nodes) != 1 {
		t.Errorf("expected 1 sink registration, got %d", len(sink.nodes))
	}
	if m.Len() != 1 {
		t.Errorf("expected 1 stored node, got %d", m.Len())
	}
}

func TestMergeTable_Tolerance(t *testing.T) {
	tests := []struct {
		name   string
		offset float64
		merged bool
	}{
		{"exact", 0, true},
		{"well inside", 1e-9, true},
		{"just inside", 0.9e-7, true},
		{"just outside", 1.1e-7, false},
		{"far", 1e-3, false},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			for _, base := range [][3]float64{{0, 0, 0}, {12.5, -3, 7}, {-1e4, 2e4, 0.25}} {
				sink := &recordingSink{}
				m := newMergeTable(sink, DefaultTolerance)
				a := m.AddNode(base[0], base[1], base[2])
				b := m.AddNode(base[0]+tc.offset, base[1], base[2])
				if (a == b) != tc.merged {
					t.Errorf("base %v offset %g: merged=%v, expected %v", base, tc.offset, a == b, tc.merged)
				}
			}
		})
	}
}

func TestMergeTable_NegativeZero(t *testing.T) {
	sink := &recordingSink{}
	m := newMergeTable(sink, DefaultTolerance)
	negZero := math.Copysign(0, -1)

	a := m.AddNode(0, 0, 0)
	b := m.AddNode(negZero, negZero, negZero)
	if a != b {
		t.Error("-0 and +0 should be the same node")
	}
}

func TestMergeTable_Grow(t *testing.T) {
	sink := &recordingSink{}
	m := newMergeTable(sink, DefaultTolerance)

	const n = 5000
	idx := make([]NodeIndex, n)
	for i := 0; i < n; i++ {
		idx[i] = m.AddNode(float64(i), float64(i%7), float64(i%13)*0.5)
	}
	if len(sink.nodes) != n {
		t.Fatalf("expected %d distinct nodes, got %d", n, len(sink.nodes))
	}
	if len(m.buckets) < n {
		t.Errorf("expected table to grow past %d buckets, got %d", n, len(m.buckets))
	}

	// Lookups after rehashing still find every node.
	for i := 0; i < n; i++ {
		if got := m.AddNode(float64(i), float64(i%7), float64(i%13)*0.5); got != idx[i] {
			t.Fatalf("node %d: expected index %d, got %d", i, idx[i], got)
		}
	}
	if len(sink.nodes) != n {
		t.Errorf("lookups must not register nodes, got %d", len(sink.nodes))
	}
}

// longestChain returns the length of the longest bucket chain.
func longestChain(m *mergeTable) int {
	longest := 0
	for _, head := range m.buckets {
		n := 0
		for i := head; i >= 0; i = m.entries[i].next {
			n++
		}
		longest = max(longest, n)
	}
	return longest
}

func TestMergeTable_HugeCoordinates(t *testing.T) {
	sink := &recordingSink{}
	m := newMergeTable(sink, DefaultTolerance)

	const n = 20000
	for i := 0; i < n; i++ {
		m.AddNode(1e30+float64(i)*1e20, 0, float64(i))
	}
	if len(sink.nodes) != n {
		t.Fatalf("expected %d distinct nodes, got %d", n, len(sink.nodes))
	}
	if c := longestChain(m); c > 32 {
		t.Errorf("huge coordinates should spread over buckets, longest chain %d", c)
	}

	// Bit-identical points still merge.
	first := m.AddNode(1e30, 0, 0)
	if first != 0 {
		t.Errorf("expected cached index 0, got %d", first)
	}
	if len(sink.nodes) != n {
		t.Errorf("lookup must not register a node, got %d", len(sink.nodes))
	}
}

func TestMergeTable_NonFinite(t *testing.T) {
	tests := []struct {
		name    string
		x, y, z float64
	}{
		{"nan", math.NaN(), 0, 0},
		{"inf", math.Inf(1), 1, 2},
		{"opposite infinities", math.Inf(1), math.Inf(-1), 0},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			sink := &recordingSink{}
			m := newMergeTable(sink, DefaultTolerance)

			const n = 20000
			seen := make(map[NodeIndex]bool, n)
			for i := 0; i < n; i++ {
				seen[m.AddNode(tc.x, tc.y, tc.z)] = true
			}
			if len(sink.nodes) != n || len(seen) != n {
				t.Errorf("expected %d separate nodes, got %d registrations and %d indices", n, len(sink.nodes), len(seen))
			}
			if m.Len() != 0 {
				t.Errorf("non-finite points must not be stored, got %d", m.Len())
			}
			if m.added != n {
				t.Errorf("expected %d counted registrations, got %d", n, m.added)
			}
		})
	}
}

func TestMergeTable_UsesSinkIndices(t *testing.T) {
	sink := &offsetSink{next: 100}
	m := newMergeTable(sink, DefaultTolerance)

	if got := m.AddNode(1, 1, 1); got != 100 {
		t.Errorf("expected sink index 100, got %d", got)
	}
	if got := m.AddNode(2, 2, 2); got != 101 {
		t.Errorf("expected sink index 101, got %d", got)
	}
	if got := m.AddNode(1, 1, 1); got != 100 {
		t.Errorf("expected cached index 100, got %d", got)
	}
}

// offsetSink allocates indices starting from next.
type offsetSink struct {
	next NodeIndex
}

func (s *offsetSink) AddNode(float64, float64, float64) NodeIndex {
	s.next++
	return s.next - 1
}

func (s *offsetSink) AddTriangle(NodeIndex, NodeIndex, NodeIndex) {}

func TestPoint3_SquareDistance(t *testing.T) {
	p := Point3{1, 2, 3}
	q := Point3{4, 6, 3}
	if d := p.SquareDistance(q); d != 25 {
		t.Errorf("expected 25, got %f", d)
	}
}
