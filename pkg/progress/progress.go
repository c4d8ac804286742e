// Package progress provides hierarchical progress tracking with cooperative cancellation.
//
// A Range is a slice [start, end) of the root unit of work. A Scope divides a
// Range into steps; Scope.Next hands out a sub-Range for nested work. All
// ranges derived from one root share its context and indicator, so
// cancellation of the root context is visible at every level.
package progress

import (
	"context"
)

// Indicator receives progress updates. Position is in [0, 1] of the root range.
type Indicator interface {
	Show(name string, position float64)
}

// minShowDelta throttles indicator updates to 0.1% of the root range.
const minShowDelta = 0.001

type root struct {
	ctx      context.Context
	ind      Indicator
	lastShow float64
}

func (r *root) show(name string, pos float64) {
	if r.ind == nil {
		return
	}
	if pos < 1 && pos-r.lastShow < minShowDelta {
		return
	}
	r.lastShow = pos
	r.ind.Show(name, pos)
}

// Range is a portion of the root unit of work.
// The zero Range is valid: it is never cancelled and reports nowhere.
type Range struct {
	root  *root
	start float64
	end   float64
}

// NewRange returns the root range [0, 1] bound to ctx.
// ind may be nil.
func NewRange(ctx context.Context, ind Indicator) Range {
	if ctx == nil {
		ctx = context.Background()
	}
	return Range{
		root: &root{ctx: ctx, ind: ind, lastShow: -1},
		end:  1,
	}
}

// Context returns the context the range is bound to.
func (r Range) Context() context.Context {
	if r.root == nil {
		return context.Background()
	}
	return r.root.ctx
}

// Cancelled reports whether the owner asked to stop.
func (r Range) Cancelled() bool {
	return r.root != nil && r.root.ctx.Err() != nil
}

// Start returns the absolute start position of the range.
func (r Range) Start() float64 { return r.start }

// End returns the absolute end position of the range.
func (r Range) End() float64 { return r.end }

// Scope subdivides a Range into steps.
type Scope struct {
	rng      Range
	name     string
	max      float64
	pos      float64
	infinite bool
}

// NewScope divides r into steps equal units. A non-positive step count
// yields a scope with a single step.
func NewScope(r Range, name string, steps int64) *Scope {
	if steps <= 0 {
		steps = 1
	}
	return &Scope{rng: r, name: name, max: float64(steps)}
}

// NewOpenScope returns a scope with no known step count. Step p maps to
// p/(p+1) of the range, so the first two steps take two thirds of it and
// later steps get progressively smaller slices.
func NewOpenScope(r Range, name string) *Scope {
	return &Scope{rng: r, name: name, max: 1, infinite: true}
}

// More reports whether work may continue, i.e. the root was not cancelled.
func (s *Scope) More() bool {
	return !s.rng.Cancelled()
}

// Next reserves n steps and returns the matching sub-range.
func (s *Scope) Next(n int64) Range {
	from := s.fraction(s.pos)
	s.pos += float64(n)
	if !s.infinite && s.pos > s.max {
		s.pos = s.max
	}
	to := s.fraction(s.pos)

	span := s.rng.end - s.rng.start
	sub := Range{
		root:  s.rng.root,
		start: s.rng.start + span*from,
		end:   s.rng.start + span*to,
	}
	s.report(sub.start)
	return sub
}

// Advance moves the scope forward by n steps.
func (s *Scope) Advance(n int64) {
	sub := s.Next(n)
	s.report(sub.end)
}

// Close marks the whole range as done.
func (s *Scope) Close() {
	if s.infinite {
		s.pos = s.max * 1e9
	} else {
		s.pos = s.max
	}
	s.report(s.rng.end)
}

// Position returns the absolute position reached so far.
func (s *Scope) Position() float64 {
	return s.rng.start + (s.rng.end-s.rng.start)*s.fraction(s.pos)
}

func (s *Scope) fraction(pos float64) float64 {
	if s.infinite {
		return pos / (pos + s.max)
	}
	return pos / s.max
}

func (s *Scope) report(pos float64) {
	if s.rng.root != nil {
		s.rng.root.show(s.name, pos)
	}
}
