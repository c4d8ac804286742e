package main

import (
	"context"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/Faultbox/stlmesh/internal/config"
	"github.com/Faultbox/stlmesh/internal/logger"
	"github.com/Faultbox/stlmesh/internal/metrics"
	"github.com/Faultbox/stlmesh/pkg/mesh"
	"github.com/Faultbox/stlmesh/pkg/progress"
	"github.com/Faultbox/stlmesh/pkg/stl"
)

// decoded is the result of reading one file.
type decoded struct {
	Path  string
	Mesh  *mesh.Mesh
	Stats stl.Stats
	Err   error
}

// decodeFile reads path into a fresh mesh. Every read carries its own id in
// the log so interleaved output from several files can be told apart.
func decodeFile(ctx context.Context, cfg *config.Config, path string) decoded {
	log := logger.With(
		zap.String("read_id", uuid.NewString()),
		zap.String("path", path),
	)

	res := decoded{Path: path, Mesh: mesh.New()}

	opts, err := cfg.Reader.Options()
	if err != nil {
		res.Err = err
		return res
	}

	var ind progress.Indicator
	if cfg.Output.ShowProgress {
		ind = logger.NewProgress(log)
	}

	dec := stl.NewDecoder(metrics.Instrument(res.Mesh),
		stl.WithOptions(opts),
		stl.WithLogger(log),
		stl.WithReporter(logger.NewReporter(log)),
	)

	start := time.Now()
	res.Stats, res.Err = dec.ReadFile(progress.NewRange(ctx, ind), path)
	elapsed := time.Since(start)
	metrics.ObserveRead(res.Stats, res.Err, elapsed)

	if res.Err != nil {
		return res
	}

	log.Info("STL read finished",
		zap.Stringer("format", res.Stats.Format),
		zap.Int("blocks", res.Stats.Blocks),
		zap.Int("nodes", res.Stats.Nodes),
		zap.Int("triangles", res.Stats.Triangles),
		zap.Duration("elapsed", elapsed))

	if res.Stats.Degenerate > 0 {
		log.Warn("dropped degenerate facets", zap.Int("count", res.Stats.Degenerate))
	}
	if res.Stats.Cancelled {
		log.Warn("read cancelled, mesh is incomplete")
	}
	return res
}
