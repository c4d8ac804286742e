// Package stl decodes STL triangle meshes, text or binary, into a
// deduplicated node/triangle stream delivered to a Sink.
package stl

import (
	"errors"
	"fmt"
)

// Binary STL layout.
const (
	HeaderSize = 80 // opaque header
	CountSize  = 4  // little-endian uint32 facet count
	FacetSize  = 50 // normal + 3 vertices + attribute

	// MinBinarySize is the size of a binary file holding one facet.
	// Anything shorter is text.
	MinBinarySize = HeaderSize + CountSize + FacetSize
)

// Decoder defaults.
const (
	DefaultTolerance      = 1e-14 // squared confusion distance
	DefaultChunkFacets    = 80
	DefaultProgressStep   = 1024 * 1024
	DefaultLineBufferSize = 1024
)

// STL decoding errors.
var (
	ErrOpen            = errors.New("cannot open STL stream")
	ErrRead            = errors.New("cannot read STL stream")
	ErrCorruptHeader   = errors.New("corrupted binary STL file")
	ErrTruncatedFacets = errors.New("binary STL read failed")
	ErrPrematureEOF    = errors.New("premature end of file")
	ErrUnexpectedLine  = errors.New("unexpected format of facet")
	ErrBadVertex       = errors.New("cannot read vertex co-ordinates")
)

// Format is the encoding of an STL stream.
type Format uint8

// Formats.
const (
	FormatText Format = iota
	FormatBinary
)

// String returns a human-readable format name.
func (f Format) String() string {
	switch f {
	case FormatText:
		return "text"
	case FormatBinary:
		return "binary"
	default:
		return fmt.Sprintf("Unknown(%d)", f)
	}
}

// MergeScope controls how long coincident vertices keep merging.
type MergeScope uint8

const (
	// MergePerBlock resets the node table at every solid/header block.
	MergePerBlock MergeScope = iota
	// MergePerFile keeps one node table for the whole stream.
	MergePerFile
)

// String returns the configuration name of the scope.
func (s MergeScope) String() string {
	switch s {
	case MergePerBlock:
		return "block"
	case MergePerFile:
		return "file"
	default:
		return fmt.Sprintf("Unknown(%d)", s)
	}
}

// ParseMergeScope parses "block" or "file".
func ParseMergeScope(s string) (MergeScope, error) {
	switch s {
	case "", "block":
		return MergePerBlock, nil
	case "file":
		return MergePerFile, nil
	default:
		return MergePerBlock, fmt.Errorf("unknown merge scope %q", s)
	}
}

// Point3 is a vertex position.
type Point3 struct {
	X, Y, Z float64
}

// SquareDistance returns the squared euclidean distance to q.
func (p Point3) SquareDistance(q Point3) float64 {
	dx, dy, dz := p.X-q.X, p.Y-q.Y, p.Z-q.Z
	return dx*dx + dy*dy + dz*dz
}

// NodeIndex is a node handle allocated by the Sink.
type NodeIndex int

// Sink receives the decoded mesh. It owns node storage and index allocation.
type Sink interface {
	// AddNode registers a new node and returns its index.
	AddNode(x, y, z float64) NodeIndex
	// AddTriangle registers a triangle over previously returned indices.
	AddTriangle(n1, n2, n3 NodeIndex)
}

// BlockInfo describes one STL block as it starts.
type BlockInfo struct {
	Format    Format
	Index     int    // block number within the stream, from 0
	Header    []byte // binary: 80 header bytes; text: rest of the solid line
	FacetHint uint32 // binary facet count field, untrusted; 0 for text
}

// BlockObserver may be implemented by a Sink to learn about block boundaries.
type BlockObserver interface {
	BeginBlock(info BlockInfo)
}

// Reporter receives hard failure messages.
type Reporter interface {
	EmitFailure(msg string)
}

type nopReporter struct{}

func (nopReporter) EmitFailure(string) {}

// Options tunes the decoder. Zero fields take their defaults.
type Options struct {
	Tolerance      float64    // squared distance under which points merge
	Scope          MergeScope // node table lifetime
	ChunkFacets    int        // binary facets read per I/O call
	ProgressStep   int64      // text bytes per progress step
	LineBufferSize int        // initial text line buffer
}

// DefaultOptions returns the standard decoder settings.
func DefaultOptions() Options {
	return Options{
		Tolerance:      DefaultTolerance,
		Scope:          MergePerBlock,
		ChunkFacets:    DefaultChunkFacets,
		ProgressStep:   DefaultProgressStep,
		LineBufferSize: DefaultLineBufferSize,
	}
}

func (o Options) withDefaults() Options {
	d := DefaultOptions()
	if o.Tolerance <= 0 {
		o.Tolerance = d.Tolerance
	}
	if o.ChunkFacets <= 0 {
		o.ChunkFacets = d.ChunkFacets
	}
	if o.ProgressStep <= 0 {
		o.ProgressStep = d.ProgressStep
	}
	if o.LineBufferSize <= 0 {
		o.LineBufferSize = d.LineBufferSize
	}
	return o
}

// Stats summarizes one Read call.
type Stats struct {
	Format     Format
	Bytes      int64 // stream length from the starting position
	Blocks     int
	Facets     int // facets decoded
	Triangles  int // triangles delivered to the sink
	Degenerate int // facets dropped because two vertices merged
	Nodes      int // nodes registered with the sink
	Cancelled  bool
}
