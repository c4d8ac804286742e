package stl

import "math"

const mergeInitialBuckets = 1024

// Hash weights for the three coordinates.
const (
	hashWeightX = math.Ln10
	hashWeightY = math.Pi
	hashWeightZ = math.E
)

// hashNorm bounds how far the weighted sum moves per unit of distance.
var hashNorm = math.Sqrt(hashWeightX*hashWeightX + hashWeightY*hashWeightY + hashWeightZ*hashWeightZ)

type mergeEntry struct {
	point Point3
	key   int64
	index NodeIndex
	next  int32 // next entry in the bucket chain, -1 terminates
}

// mergeTable maps points to sink node indices, treating points closer than
// the tolerance as one node. It caches indices; the sink allocates them.
//
// Points are keyed by the weighted coordinate sum cut into cells at least as
// wide as that sum can move within tolerance, so a match is always found in
// the point's own cell or one of its two neighbours.
type mergeTable struct {
	sink      Sink
	tolerance float64
	cell      float64
	buckets   []int32
	entries   []mergeEntry
	added     int // sink registrations
}

func newMergeTable(sink Sink, tolerance float64) *mergeTable {
	t := &mergeTable{
		sink:      sink,
		tolerance: tolerance,
		cell:      math.Sqrt(tolerance) * hashNorm,
		entries:   make([]mergeEntry, 0, mergeInitialBuckets),
	}
	t.resetBuckets(mergeInitialBuckets)
	return t
}

// AddNode returns the index of the node at (x, y, z), registering it with
// the sink if no stored point lies within tolerance.
func (t *mergeTable) AddNode(x, y, z float64) NodeIndex {
	p := Point3{x, y, z}
	key, ok := t.key(p)
	if !ok {
		t.added++
		return t.sink.AddNode(x, y, z)
	}
	for _, k := range [3]int64{key, key - 1, key + 1} {
		for i := t.buckets[t.bucket(k)]; i >= 0; i = t.entries[i].next {
			if t.entries[i].point.SquareDistance(p) < t.tolerance {
				return t.entries[i].index
			}
		}
	}

	idx := t.sink.AddNode(x, y, z)
	t.added++
	if len(t.entries) >= len(t.buckets) {
		t.grow()
	}
	b := t.bucket(key)
	t.entries = append(t.entries, mergeEntry{point: p, key: key, index: idx, next: t.buckets[b]})
	t.buckets[b] = int32(len(t.entries) - 1)
	return idx
}

// Len returns the number of distinct nodes stored.
func (t *mergeTable) Len() int {
	return len(t.entries)
}

// maxCellKey bounds cell numbers so the int64 conversion never saturates.
const maxCellKey = 1 << 62

// key returns the bucket key of p. It reports false when the weighted sum is
// NaN or infinite: such a point is never within tolerance of anything and is
// not stored.
//
// Beyond maxCellKey cells a tolerance step is far below one ulp of the sum,
// so the sum's bit pattern is used instead. Adjacent floats have adjacent
// patterns, which keeps the neighbour lookup valid there too.
func (t *mergeTable) key(p Point3) (int64, bool) {
	h := p.X*hashWeightX + p.Y*hashWeightY + p.Z*hashWeightZ
	if math.IsNaN(h) || math.IsInf(h, 0) {
		return 0, false
	}
	q := h / t.cell
	if math.Abs(q) >= maxCellKey {
		return int64(math.Float64bits(h)), true
	}
	return int64(math.Floor(q)), true
}

func (t *mergeTable) bucket(key int64) int {
	k := uint64(key)
	k ^= k >> 33
	k *= 0xff51afd7ed558ccd
	k ^= k >> 33
	return int(k % uint64(len(t.buckets)))
}

func (t *mergeTable) grow() {
	t.resetBuckets(len(t.buckets) * 2)
	for i := range t.entries {
		b := t.bucket(t.entries[i].key)
		t.entries[i].next = t.buckets[b]
		t.buckets[b] = int32(i)
	}
}

func (t *mergeTable) resetBuckets(n int) {
	t.buckets = make([]int32, n)
	for i := range t.buckets {
		t.buckets[i] = -1
	}
}
