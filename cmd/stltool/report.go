package main

import (
	"bufio"
	"fmt"
	"io"
	"strconv"

	"github.com/segmentio/encoding/json"

	"github.com/Faultbox/stlmesh/pkg/encoding"
	"github.com/Faultbox/stlmesh/pkg/mesh"
)

type blockReport struct {
	Index     int     `json:"index"`
	Name      string  `json:"name"`
	FacetHint uint32  `json:"facet_hint,omitempty"`
	Color     *[4]int `json:"color,omitempty"`
}

type infoReport struct {
	Path          string        `json:"path"`
	Format        string        `json:"format"`
	Bytes         int64         `json:"bytes"`
	Blocks        []blockReport `json:"blocks"`
	Facets        int           `json:"facets"`
	Triangles     int           `json:"triangles"`
	Degenerate    int           `json:"degenerate"`
	Nodes         int           `json:"nodes"`
	Min           [3]float64    `json:"min"`
	Max           [3]float64    `json:"max"`
	SurfaceArea   float64       `json:"surface_area"`
	Volume        float64       `json:"volume"`
	BoundaryEdges int           `json:"boundary_edges"`
	Watertight    bool          `json:"watertight"`
	Cancelled     bool          `json:"cancelled,omitempty"`
}

func buildInfo(res decoded) infoReport {
	m := res.Mesh
	b := m.Bounds()
	boundary := len(m.BoundaryEdges())

	r := infoReport{
		Path:          res.Path,
		Format:        res.Stats.Format.String(),
		Bytes:         res.Stats.Bytes,
		Blocks:        make([]blockReport, 0, len(m.Blocks)),
		Facets:        res.Stats.Facets,
		Triangles:     res.Stats.Triangles,
		Degenerate:    res.Stats.Degenerate,
		Nodes:         res.Stats.Nodes,
		Min:           [3]float64{b.Min.X, b.Min.Y, b.Min.Z},
		Max:           [3]float64{b.Max.X, b.Max.Y, b.Max.Z},
		SurfaceArea:   m.SurfaceArea(),
		Volume:        m.Volume(),
		BoundaryEdges: boundary,
		Watertight:    len(m.Triangles) > 0 && boundary == 0,
		Cancelled:     res.Stats.Cancelled,
	}

	for _, blk := range m.Blocks {
		br := blockReport{
			Index:     blk.Index,
			Name:      encoding.HeaderText(blk.Header),
			FacetHint: blk.FacetHint,
		}
		if rgba, ok := encoding.ColorTag(blk.Header); ok {
			br.Color = &[4]int{int(rgba[0]), int(rgba[1]), int(rgba[2]), int(rgba[3])}
		}
		r.Blocks = append(r.Blocks, br)
	}
	return r
}

func writeInfoText(w io.Writer, r infoReport) error {
	bw := bufio.NewWriter(w)

	fmt.Fprintf(bw, "File:       %s\n", r.Path)
	fmt.Fprintf(bw, "Format:     %s\n", r.Format)
	fmt.Fprintf(bw, "Size:       %d bytes\n", r.Bytes)
	fmt.Fprintf(bw, "Blocks:     %d\n", len(r.Blocks))
	for _, blk := range r.Blocks {
		fmt.Fprintf(bw, "  [%d] %q", blk.Index, blk.Name)
		if blk.FacetHint > 0 {
			fmt.Fprintf(bw, " declared facets %d", blk.FacetHint)
		}
		if blk.Color != nil {
			fmt.Fprintf(bw, " color %v", *blk.Color)
		}
		fmt.Fprintln(bw)
	}
	fmt.Fprintf(bw, "Facets:     %d\n", r.Facets)
	fmt.Fprintf(bw, "Triangles:  %d (%d degenerate dropped)\n", r.Triangles, r.Degenerate)
	fmt.Fprintf(bw, "Nodes:      %d\n", r.Nodes)
	fmt.Fprintf(bw, "Bounds:     %v - %v\n", r.Min, r.Max)
	fmt.Fprintf(bw, "Area:       %.6g\n", r.SurfaceArea)
	if r.Watertight {
		fmt.Fprintf(bw, "Volume:     %.6g\n", r.Volume)
		fmt.Fprintln(bw, "Watertight: yes")
	} else {
		fmt.Fprintf(bw, "Watertight: no (%d boundary edges)\n", r.BoundaryEdges)
	}
	if r.Cancelled {
		fmt.Fprintln(bw, "Cancelled:  yes")
	}
	return bw.Flush()
}

type dumpReport struct {
	Nodes     [][3]float64 `json:"nodes"`
	Triangles [][3]int     `json:"triangles"`
}

func buildDump(m *mesh.Mesh) dumpReport {
	d := dumpReport{
		Nodes:     make([][3]float64, len(m.Nodes)),
		Triangles: make([][3]int, len(m.Triangles)),
	}
	for i, n := range m.Nodes {
		d.Nodes[i] = [3]float64{n.X, n.Y, n.Z}
	}
	for i, t := range m.Triangles {
		d.Triangles[i] = t
	}
	return d
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// writeOBJ writes the mesh as Wavefront OBJ with 1-based face indices.
func writeOBJ(w io.Writer, m *mesh.Mesh) error {
	bw := bufio.NewWriter(w)
	var buf []byte
	for _, n := range m.Nodes {
		buf = append(buf[:0], "v "...)
		buf = strconv.AppendFloat(buf, n.X, 'g', -1, 64)
		buf = append(buf, ' ')
		buf = strconv.AppendFloat(buf, n.Y, 'g', -1, 64)
		buf = append(buf, ' ')
		buf = strconv.AppendFloat(buf, n.Z, 'g', -1, 64)
		buf = append(buf, '\n')
		bw.Write(buf)
	}
	for _, t := range m.Triangles {
		fmt.Fprintf(bw, "f %d %d %d\n", t[0]+1, t[1]+1, t[2]+1)
	}
	return bw.Flush()
}
