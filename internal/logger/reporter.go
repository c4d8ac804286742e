package logger

import (
	"strings"
	"sync/atomic"

	"go.uber.org/zap"
)

// Reporter forwards decoder failure messages to a zap logger.
// It implements stl.Reporter.
type Reporter struct {
	log   *zap.Logger
	count atomic.Int64
}

// NewReporter returns a reporter logging to log, or to the global logger
// when log is nil.
func NewReporter(log *zap.Logger) *Reporter {
	if log == nil {
		log = Log
	}
	return &Reporter{log: log}
}

// EmitFailure logs msg at error level.
func (r *Reporter) EmitFailure(msg string) {
	r.count.Add(1)
	r.log.Error(strings.TrimPrefix(msg, "Error: "), zap.String("source", "stl"))
}

// Failures returns the number of messages emitted so far.
func (r *Reporter) Failures() int64 {
	return r.count.Load()
}

// Progress logs progress updates at info level, once per whole percent.
// It implements progress.Indicator.
type Progress struct {
	log  *zap.Logger
	last int
}

// NewProgress returns a progress indicator logging to log, or to the
// global logger when log is nil.
func NewProgress(log *zap.Logger) *Progress {
	if log == nil {
		log = Log
	}
	return &Progress{log: log, last: -1}
}

// Show logs position as a percentage when it reaches a new whole percent.
func (p *Progress) Show(name string, position float64) {
	pct := int(position * 100)
	if pct <= p.last {
		return
	}
	p.last = pct
	p.log.Info("progress", zap.String("stage", name), zap.Int("percent", pct))
}
