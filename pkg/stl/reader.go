package stl

import (
	"context"
	"fmt"
	"io"
	"os"

	"go.uber.org/zap"

	"github.com/Faultbox/stlmesh/pkg/progress"
)

// Decoder reads STL streams into a Sink. A Decoder is not safe for
// concurrent use; it reuses its buffers across calls.
type Decoder struct {
	sink  Sink
	rep   Reporter
	log   *zap.Logger
	opts  Options
	chunk []byte
}

// Option configures a Decoder.
type Option func(*Decoder)

// WithReporter sets the collaborator receiving hard failure messages.
func WithReporter(rep Reporter) Option {
	return func(d *Decoder) {
		if rep != nil {
			d.rep = rep
		}
	}
}

// WithLogger sets the logger used for debug traces.
func WithLogger(log *zap.Logger) Option {
	return func(d *Decoder) {
		if log != nil {
			d.log = log
		}
	}
}

// WithOptions sets decoding options. Zero fields keep their defaults.
func WithOptions(opts Options) Option {
	return func(d *Decoder) {
		d.opts = opts.withDefaults()
	}
}

// NewDecoder returns a decoder delivering to sink.
func NewDecoder(sink Sink, opts ...Option) *Decoder {
	d := &Decoder{
		sink: sink,
		rep:  nopReporter{},
		log:  zap.NewNop(),
		opts: DefaultOptions(),
	}
	for _, o := range opts {
		o(d)
	}
	return d
}

// Read decodes STL from rs, starting at its current position, until the
// stream is exhausted, a hard failure occurs or the context behind rng is
// cancelled. A zero rng is never cancelled.
//
// The format is detected once and applies to every block in the stream.
// A nil error means the stream was consumed without a hard failure;
// cancellation is not a failure and is reported through Stats.Cancelled.
// Hard failures are also emitted through the Reporter. Nodes and triangles
// delivered before a failure remain in the sink.
func (d *Decoder) Read(rng progress.Range, rs io.ReadSeeker) (Stats, error) {
	var stats Stats

	start, err := rs.Seek(0, io.SeekCurrent)
	if err != nil {
		return stats, d.fail(fmt.Errorf("%w: %v", ErrRead, err))
	}
	end, err := rs.Seek(0, io.SeekEnd)
	if err != nil {
		return stats, d.fail(fmt.Errorf("%w: %v", ErrRead, err))
	}
	if _, err := rs.Seek(start, io.SeekStart); err != nil {
		return stats, d.fail(fmt.Errorf("%w: %v", ErrRead, err))
	}
	stats.Bytes = end - start
	stats.Format = DetectFormat(rs, stats.Bytes, d.rep)

	st := &readState{
		d:     d,
		s:     newStream(rs, d.opts.LineBufferSize),
		stats: &stats,
	}

	d.log.Debug("reading STL stream",
		zap.Stringer("format", stats.Format),
		zap.Int64("bytes", stats.Bytes),
		zap.Stringer("merge_scope", d.opts.Scope))

	ps := progress.NewOpenScope(rng, "Reading STL blocks")
	for {
		var more bool
		if stats.Format == FormatBinary {
			more, err = d.readBinary(st, ps.Next(2))
		} else {
			more, err = d.readText(st, ps.Next(2), stats.Bytes)
		}
		if err != nil {
			return stats, err
		}
		if !more {
			break
		}

		ok, err := st.s.SkipSpace()
		if err != nil {
			return stats, d.fail(fmt.Errorf("%w: %v", ErrRead, err))
		}
		if !ok {
			break
		}
	}

	stats.Cancelled = rng.Cancelled()
	if !stats.Cancelled {
		ps.Close()
	}
	return stats, nil
}

// ReadFile opens path and decodes it with Read.
func (d *Decoder) ReadFile(rng progress.Range, path string) (Stats, error) {
	f, err := os.Open(path)
	if err != nil {
		return Stats{}, d.fail(fmt.Errorf("%w: %v", ErrOpen, err))
	}
	defer f.Close()
	return d.Read(rng, f)
}

// Read decodes rs into sink with default options.
func Read(ctx context.Context, rs io.ReadSeeker, sink Sink) (Stats, error) {
	return NewDecoder(sink).Read(progress.NewRange(ctx, nil), rs)
}

func (d *Decoder) fail(err error) error {
	d.rep.EmitFailure("Error: " + err.Error())
	return err
}

func (d *Decoder) chunkBuffer() []byte {
	size := d.opts.ChunkFacets * FacetSize
	if cap(d.chunk) < size {
		d.chunk = make([]byte, size)
	}
	return d.chunk[:size]
}

// readState carries the per-Read decoding state across blocks.
type readState struct {
	d      *Decoder
	s      *stream
	stats  *Stats
	blocks int
	shared *mergeTable // MergePerFile only
}

// mergeTable returns the node table for a new block.
func (st *readState) mergeTable() *mergeTable {
	if st.d.opts.Scope == MergePerFile {
		if st.shared == nil {
			st.shared = newMergeTable(st.d.sink, st.d.opts.Tolerance)
		}
		return st.shared
	}
	return newMergeTable(st.d.sink, st.d.opts.Tolerance)
}

func (st *readState) beginBlock(format Format, header []byte, hint uint32) {
	if obs, ok := st.d.sink.(BlockObserver); ok {
		obs.BeginBlock(BlockInfo{
			Format:    format,
			Index:     st.blocks,
			Header:    append([]byte(nil), header...),
			FacetHint: hint,
		})
	}
	st.blocks++
	st.stats.Blocks = st.blocks
}

func (st *readState) endBlock(merge *mergeTable) {
	st.d.log.Debug("STL block decoded",
		zap.Int("block", st.blocks-1),
		zap.Int("nodes", merge.Len()),
		zap.Int("facets", st.stats.Facets),
		zap.Int("degenerate", st.stats.Degenerate),
		zap.Int64("offset", st.s.pos))
}

// addFacet merges the vertices and emits the triangle unless two of them
// resolved to the same node.
func (st *readState) addFacet(merge *mergeTable, v [3]Point3) {
	before := merge.added
	n1 := merge.AddNode(v[0].X, v[0].Y, v[0].Z)
	n2 := merge.AddNode(v[1].X, v[1].Y, v[1].Z)
	n3 := merge.AddNode(v[2].X, v[2].Y, v[2].Z)
	st.stats.Nodes += merge.added - before
	st.stats.Facets++

	if n1 == n2 || n2 == n3 || n3 == n1 {
		st.stats.Degenerate++
		return
	}
	st.d.sink.AddTriangle(n1, n2, n3)
	st.stats.Triangles++
}
