// stltool is a CLI utility for inspecting and converting STL mesh files.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"

	"go.uber.org/zap"

	"github.com/Faultbox/stlmesh/internal/config"
	"github.com/Faultbox/stlmesh/internal/logger"
	"github.com/Faultbox/stlmesh/internal/metrics"
)

func main() {
	os.Exit(run())
}

func run() int {
	flag.Usage = printUsage
	config.ParseFlags()

	args := flag.Args()
	if len(args) < 1 {
		printUsage()
		return 1
	}

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}

	if err := logger.Init(cfg.Logging.Level, cfg.Logging.LogFile); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}
	defer logger.Sync()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	command := args[0]
	args = args[1:]

	var code int
	switch command {
	case "info":
		code = cmdInfo(ctx, cfg, args)
	case "check":
		code = cmdCheck(ctx, cfg, args)
	case "dump":
		code = cmdDump(ctx, cfg, args)
	case "help", "-h", "--help":
		printUsage()
		return 0
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n", command)
		printUsage()
		return 1
	}

	if cfg.Output.MetricsFile != "" {
		if err := metrics.WriteTextfile(cfg.Output.MetricsFile); err != nil {
			logger.Error("failed to write metrics", zap.String("path", cfg.Output.MetricsFile), zap.Error(err))
		}
	}
	return code
}

func printUsage() {
	fmt.Fprintln(os.Stderr, `stltool - STL mesh utility

Usage:
  stltool [global options] <command> [options]

Commands:
  info <file.stl>...                 Show format, blocks and mesh summary
  check [-watertight] <file.stl>...  Decode files and report failures
  dump [-o file] <file.stl>          Write merged nodes and triangles

Global options:
  -config <path>        Config file (default ./stltool.yaml or user config dir)
  -debug                Enable debug logging
  -log-file <path>      Also write logs to a rotating file
  -merge-scope <scope>  Merge coincident vertices per "block" or per "file"
  -json                 JSON output for info and dump
  -progress             Log decode progress
  -metrics-file <path>  Write Prometheus metrics on exit

Examples:
  stltool info bracket.stl
  stltool -merge-scope file check assembly.stl
  stltool -json dump -o bracket.json bracket.stl`)
}
