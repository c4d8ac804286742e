package stl

import (
	"bytes"
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	"github.com/Faultbox/stlmesh/pkg/progress"
)

func TestReadFile_Missing(t *testing.T) {
	sink := &recordingSink{}
	rep := &recordingReporter{}

	_, err := NewDecoder(sink, WithReporter(rep)).ReadFile(progress.Range{}, "/nonexistent/part.stl")
	if !errors.Is(err, ErrOpen) {
		t.Fatalf("expected ErrOpen, got %v", err)
	}
	if len(sink.nodes) != 0 || len(sink.triangles) != 0 {
		t.Error("open failure must not touch the sink")
	}
	if len(rep.messages) != 1 {
		t.Errorf("expected one failure message, got %v", rep.messages)
	}
}

func TestReadFile_Binary(t *testing.T) {
	path := filepath.Join(t.TempDir(), "part.stl")
	data := createTestBinary("", 2, []testFacet{unitTriangle(0, 0), unitTriangle(0, 1)})
	if err := os.WriteFile(path, data, 0644); err != nil {
		t.Fatalf("failed to write test file: %v", err)
	}

	sink := &recordingSink{}
	stats, err := NewDecoder(sink).ReadFile(progress.Range{}, path)
	if err != nil {
		t.Fatalf("ReadFile failed: %v", err)
	}
	if stats.Bytes != int64(len(data)) {
		t.Errorf("expected %d bytes, got %d", len(data), stats.Bytes)
	}
	if len(sink.nodes) != 6 || len(sink.triangles) != 2 {
		t.Errorf("expected 6 nodes and 2 triangles, got %d and %d", len(sink.nodes), len(sink.triangles))
	}
}

func TestRead_FromCurrentPosition(t *testing.T) {
	prefix := strings.Repeat("\xff", 32)
	src := prefix + createTestText("offset", distinctFacets(2))
	r := strings.NewReader(src)
	if _, err := r.Seek(int64(len(prefix)), io.SeekStart); err != nil {
		t.Fatal(err)
	}

	sink := &recordingSink{}
	stats, err := Read(context.Background(), r, sink)
	if err != nil {
		t.Fatalf("Read failed: %v", err)
	}
	if stats.Format != FormatText {
		t.Errorf("bytes before the start position must not affect detection, got %v", stats.Format)
	}
	if len(sink.triangles) != 2 {
		t.Errorf("expected 2 triangles, got %d", len(sink.triangles))
	}
}

func TestRead_ZeroRange(t *testing.T) {
	sink := &recordingSink{}
	data := createTestBinary("", 1, []testFacet{unitTriangle(0, 1)})

	stats, err := NewDecoder(sink).Read(progress.Range{}, bytes.NewReader(data))
	if err != nil {
		t.Fatalf("Read failed: %v", err)
	}
	if stats.Cancelled {
		t.Error("zero range is never cancelled")
	}
	if stats.Triangles != 1 {
		t.Errorf("expected 1 triangle, got %d", stats.Triangles)
	}
}

func TestRead_DecoderReuse(t *testing.T) {
	sink := &recordingSink{}
	dec := NewDecoder(sink)
	data := createTestBinary("", 3, distinctFacets(3))

	for i := 0; i < 2; i++ {
		if _, err := dec.Read(progress.Range{}, bytes.NewReader(data)); err != nil {
			t.Fatalf("pass %d: Read failed: %v", i, err)
		}
	}
	// Every Read has its own node table.
	if len(sink.nodes) != 18 {
		t.Errorf("expected 18 nodes over two passes, got %d", len(sink.nodes))
	}
}

func TestRead_DebugLogging(t *testing.T) {
	core, logs := observer.New(zap.DebugLevel)
	sink := &recordingSink{}

	_, err := NewDecoder(sink, WithLogger(zap.New(core))).Read(progress.Range{}, strings.NewReader(createTestText("dbg", distinctFacets(1))))
	if err != nil {
		t.Fatalf("Read failed: %v", err)
	}
	if logs.FilterMessage("STL block decoded").Len() != 1 {
		t.Errorf("expected one block log entry, got %v", logs.All())
	}
}

func TestOptions_Defaults(t *testing.T) {
	o := Options{Scope: MergePerFile}.withDefaults()
	want := DefaultOptions()
	want.Scope = MergePerFile
	if o != want {
		t.Errorf("expected %+v, got %+v", want, o)
	}
}

func TestParseMergeScope(t *testing.T) {
	tests := []struct {
		in      string
		want    MergeScope
		name    string
		wantErr bool
	}{
		{"", MergePerBlock, "block", false},
		{"block", MergePerBlock, "block", false},
		{"file", MergePerFile, "file", false},
		{"global", MergePerBlock, "block", true},
	}
	for _, tc := range tests {
		got, err := ParseMergeScope(tc.in)
		if (err != nil) != tc.wantErr || got != tc.want {
			t.Errorf("ParseMergeScope(%q) = %v, %v", tc.in, got, err)
		}
		if got.String() != tc.name {
			t.Errorf("ParseMergeScope(%q).String() = %q, expected %q", tc.in, got.String(), tc.name)
		}
	}
}
