// Package config handles stltool configuration loading and management.
package config

import (
	"fmt"

	"github.com/Faultbox/stlmesh/pkg/stl"
)

// Config holds all tool settings.
type Config struct {
	Logging LoggingConfig `yaml:"logging"`
	Reader  ReaderConfig  `yaml:"reader"`
	Output  OutputConfig  `yaml:"output"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level   string `yaml:"level"`
	LogFile string `yaml:"log_file"`
}

// ReaderConfig holds STL decoder settings.
type ReaderConfig struct {
	MergeScope   string  `yaml:"merge_scope"`   // "block" or "file"
	Tolerance    float64 `yaml:"tolerance"`     // squared distance
	ChunkFacets  int     `yaml:"chunk_facets"`  // binary facets per read
	ProgressStep int64   `yaml:"progress_step"` // text bytes per progress step
	LineBuffer   int     `yaml:"line_buffer"`
}

// OutputConfig holds CLI output settings.
type OutputConfig struct {
	JSON         bool   `yaml:"json"`
	ShowProgress bool   `yaml:"show_progress"`
	MetricsFile  string `yaml:"metrics_file"` // Prometheus textfile written on exit
}

// Default returns a Config with sensible default values.
func Default() *Config {
	opts := stl.DefaultOptions()
	return &Config{
		Logging: LoggingConfig{
			Level: "info",
		},
		Reader: ReaderConfig{
			MergeScope:   opts.Scope.String(),
			Tolerance:    opts.Tolerance,
			ChunkFacets:  opts.ChunkFacets,
			ProgressStep: opts.ProgressStep,
			LineBuffer:   opts.LineBufferSize,
		},
	}
}

// Options converts the reader section to decoder options.
func (r ReaderConfig) Options() (stl.Options, error) {
	scope, err := stl.ParseMergeScope(r.MergeScope)
	if err != nil {
		return stl.Options{}, err
	}
	if r.Tolerance < 0 {
		return stl.Options{}, fmt.Errorf("reader.tolerance must not be negative, got %g", r.Tolerance)
	}
	return stl.Options{
		Tolerance:      r.Tolerance,
		Scope:          scope,
		ChunkFacets:    r.ChunkFacets,
		ProgressStep:   r.ProgressStep,
		LineBufferSize: r.LineBuffer,
	}, nil
}
