package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/Faultbox/stlmesh/internal/config"
)

func cmdInfo(ctx context.Context, cfg *config.Config, args []string) int {
	if len(args) < 1 {
		fmt.Fprintln(os.Stderr, "Usage: stltool info <file.stl>...")
		return 1
	}

	code := 0
	var reports []infoReport
	for _, path := range args {
		res := decodeFile(ctx, cfg, path)
		if res.Err != nil {
			fmt.Fprintf(os.Stderr, "Error: %s: %v\n", path, res.Err)
			code = 1
			continue
		}
		reports = append(reports, buildInfo(res))
	}

	var err error
	if cfg.Output.JSON {
		err = writeJSON(os.Stdout, reports)
	} else {
		for i, r := range reports {
			if i > 0 {
				fmt.Println()
			}
			if err = writeInfoText(os.Stdout, r); err != nil {
				break
			}
		}
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}
	return code
}

func cmdCheck(ctx context.Context, cfg *config.Config, args []string) int {
	fs := flag.NewFlagSet("check", flag.ExitOnError)
	watertight := fs.Bool("watertight", false, "Also require every edge to be shared by two triangles")
	fs.Parse(args)

	if fs.NArg() < 1 {
		fmt.Fprintln(os.Stderr, "Usage: stltool check [-watertight] <file.stl>...")
		return 1
	}

	failed := 0
	for _, path := range fs.Args() {
		res := decodeFile(ctx, cfg, path)
		switch {
		case res.Err != nil:
			fmt.Printf("FAIL %s: %v\n", path, res.Err)
			failed++
		case res.Stats.Cancelled:
			fmt.Printf("FAIL %s: cancelled\n", path)
			failed++
		case *watertight && !res.Mesh.IsWatertight():
			fmt.Printf("FAIL %s: %d boundary edges\n", path, len(res.Mesh.BoundaryEdges()))
			failed++
		default:
			fmt.Printf("OK   %s (%d triangles)\n", path, res.Stats.Triangles)
		}
	}

	if failed > 0 {
		fmt.Fprintf(os.Stderr, "\n(%d of %d files failed)\n", failed, fs.NArg())
		return 1
	}
	return 0
}

func cmdDump(ctx context.Context, cfg *config.Config, args []string) int {
	fs := flag.NewFlagSet("dump", flag.ExitOnError)
	output := fs.String("o", "", "Output file (default stdout)")
	fs.Parse(args)

	if fs.NArg() != 1 {
		fmt.Fprintln(os.Stderr, "Usage: stltool dump [-o file] <file.stl>")
		return 1
	}

	res := decodeFile(ctx, cfg, fs.Arg(0))
	if res.Err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", res.Err)
		return 1
	}

	var w io.Writer = os.Stdout
	if *output != "" {
		f, err := os.Create(*output)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error creating output file: %v\n", err)
			return 1
		}
		defer f.Close()
		w = f
	}

	var err error
	if cfg.Output.JSON {
		err = writeJSON(w, buildDump(res.Mesh))
	} else {
		err = writeOBJ(w, res.Mesh)
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error writing output: %v\n", err)
		return 1
	}

	if *output != "" {
		fmt.Fprintf(os.Stderr, "Wrote %d nodes and %d triangles to %s\n", len(res.Mesh.Nodes), len(res.Mesh.Triangles), *output)
	}
	return 0
}
