/*
DESCRIPTION
  sgm.go provides the semi-global matching cost aggregator. Matching costs are
  propagated along sixteen directional paths with a dynamic programming
  recurrence, in a top-down and a bottom-up sweep, and the best candidate of
  every path at every pixel is handed to a disparity computer for fusion.

AUTHORS
  Australian Ocean Lab (AusOcean)

LICENSE
  Copyright (C) 2026 the Australian Ocean Lab (AusOcean)

  It is free software: you can redistribute it and/or modify them
  under the terms of the GNU General Public License as published by the
  Free Software Foundation, either version 3 of the License, or (at your
  option) any later version.

  It is distributed in the hope that it will be useful, but WITHOUT
  ANY WARRANTY; without even the implied warranty of MERCHANTABILITY or
  FITNESS FOR A PARTICULAR PURPOSE. See the GNU General Public License
  for more details.

  You should have received a copy of the GNU General Public License
  in gpl.txt. If not, see http://www.gnu.org/licenses.
*/

// Package sgm implements semi-global matching cost aggregation for dense
// stereo correspondence.
package sgm

import (
	"context"
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/ausocean/stereo/vision/stereo"
	"github.com/ausocean/utils/logging"
)

// Configuration errors returned by Init.
var (
	ErrNoCostComputer      = errors.New("no matching cost computer")
	ErrNoDisparityComputer = errors.New("no disparity computer")
	ErrEmptyImage          = errors.New("image is empty")
	ErrSizeMismatch        = errors.New("image sizes do not match")
	ErrBadMaxCost          = errors.New("maximum cost must be positive")
)

// noDisparity marks a path best that must not take part in fusion.
const noDisparity = -1

// Aggregator is a semi-global matching implementation of stereo.Aggregator.
type Aggregator struct {
	cfg         Config
	left, right *stereo.Image
	disp        *stereo.Map
	cost        stereo.CostComputer
	dc          stereo.DisparityComputer
	log         logging.Logger

	base, matched *stereo.Image
	rows, cols    int
	sign          int // Column direction of matched pixels.
	maxRange      int // Largest searched disparity count.
	radius        int
	p1, p2        float64
	initialised   bool

	// paths holds, per direction, the path starting at each pixel, indexed
	// by the start pixel. Pixels that start no path hold nil.
	paths [NumDirections][]*Path

	// best holds, per direction, the best disparity of the path through
	// each pixel, or noDisparity.
	best [NumDirections][]int32
}

var _ stereo.Aggregator = (*Aggregator)(nil)

// New returns a new Aggregator matching left and right and writing the
// results into m. Init must be called before ComputeMatchingCosts.
func New(cfg Config, left, right *stereo.Image, m *stereo.Map, cc stereo.CostComputer, dc stereo.DisparityComputer, log logging.Logger) *Aggregator {
	return &Aggregator{
		cfg:   cfg,
		left:  left,
		right: right,
		disp:  m,
		cost:  cc,
		dc:    dc,
		log:   log,
	}
}

// Config returns the aggregator configuration.
func (a *Aggregator) Config() Config { return a.cfg }

// Init validates the configuration and binds the cost and disparity
// computers to the base image, matched image and disparity map.
func (a *Aggregator) Init() error {
	a.initialised = false
	switch {
	case a.cost == nil:
		return ErrNoCostComputer
	case a.dc == nil:
		return ErrNoDisparityComputer
	case a.left.Empty():
		return fmt.Errorf("left %w", ErrEmptyImage)
	case a.right.Empty():
		return fmt.Errorf("right %w", ErrEmptyImage)
	case a.left.Rows() != a.right.Rows() || a.left.Cols() != a.right.Cols():
		return fmt.Errorf("%w: left %dx%d, right %dx%d", ErrSizeMismatch,
			a.left.Rows(), a.left.Cols(), a.right.Rows(), a.right.Cols())
	case a.disp == nil || a.disp.Rows() != a.left.Rows() || a.disp.Cols() != a.left.Cols():
		return fmt.Errorf("%w: disparity map does not match image size", ErrSizeMismatch)
	}

	err := a.cfg.Validate()
	if err != nil {
		return err
	}

	a.rows, a.cols = a.left.Rows(), a.left.Cols()
	a.base, a.matched, a.sign = a.right, a.left, 1
	if a.cfg.IsLeftImageBase {
		a.base, a.matched, a.sign = a.left, a.right, -1
	}

	err = a.cost.Init(a.base, a.matched)
	if err != nil {
		return fmt.Errorf("could not initialise cost computer: %w", err)
	}
	maxCost := a.cost.MaxCost()
	if !(maxCost > 0) {
		return fmt.Errorf("%w: got %v", ErrBadMaxCost, maxCost)
	}

	err = a.dc.Init(a.disp, a.base, a.matched)
	if err != nil {
		return fmt.Errorf("could not initialise disparity computer: %w", err)
	}

	a.maxRange = a.cols
	if a.cfg.MaxDisparity > 0 && a.cfg.MaxDisparity < a.cols {
		a.maxRange = a.cfg.MaxDisparity
	}
	a.radius = a.cost.Radius()
	a.p1 = a.cfg.LowPenaltyCoeff * maxCost
	a.p2 = a.cfg.HighPenaltyCoeff * maxCost
	a.initialised = true

	a.log.Debug("initialised sgm aggregator", "rows", a.rows, "cols", a.cols, "maxRange", a.maxRange,
		"p1", a.p1, "p2", a.p2, "leftBase", a.cfg.IsLeftImageBase)
	return nil
}

// ComputeMatchingCosts aggregates matching costs over the whole image and
// finalizes every disparity map entry. The context is checked between rows;
// if it is cancelled the error is returned and only entries of completed
// rows of the final pass have been written.
func (a *Aggregator) ComputeMatchingCosts(ctx context.Context) error {
	if !a.initialised {
		return stereo.ErrNotInitialised
	}
	defer a.release()

	a.cost.Update()

	timer := time.Now()
	n := a.buildPaths()
	a.log.Debug("built border paths", "paths", n, "duration (sec)", time.Since(timer).Seconds())

	// The first pass runs top-down, along columns in the direction matched
	// pixels lie away from; the second pass runs in exactly the reverse order.
	colDir := -a.sign
	timer = time.Now()
	err := a.sweep(ctx, 1, colDir)
	if err != nil {
		return fmt.Errorf("top-down sweep interrupted: %w", err)
	}
	a.log.Debug("top-down sweep complete", "duration (sec)", time.Since(timer).Seconds())

	timer = time.Now()
	err = a.sweep(ctx, -1, -colDir)
	if err != nil {
		return fmt.Errorf("bottom-up sweep interrupted: %w", err)
	}
	a.log.Debug("bottom-up sweep complete", "duration (sec)", time.Since(timer).Seconds())

	timer = time.Now()
	err = a.fuse(ctx)
	if err != nil {
		return fmt.Errorf("fusion interrupted: %w", err)
	}
	a.log.Debug("fusion complete", "duration (sec)", time.Since(timer).Seconds())
	return nil
}

// buildPaths creates and primes the path of every direction at every pixel
// that starts one, and returns the number of paths.
func (a *Aggregator) buildPaths() int {
	size := a.rows * a.cols
	for i := range Directions {
		a.paths[i] = make([]*Path, size)
		a.best[i] = make([]int32, size)
	}

	var n int
	for r := 0; r < a.rows; r++ {
		for c := 0; c < a.cols; c++ {
			p := stereo.Pixel{Row: r, Col: c}
			for i, d := range Directions {
				if d.Border(p, a.rows, a.cols) != p {
					continue
				}
				path := newPath(d, p, a.rows, a.cols, a.pathCapacity(d, p))
				a.prime(path)
				a.paths[i][a.index(p)] = path
				a.record(i, p, path)
				n++
			}
		}
	}
	return n
}

// pathCapacity returns the largest search range of any pixel on the path in
// direction d from start. The range grows monotonically with the column, so
// it is found at one of the path's end pixels.
func (a *Aggregator) pathCapacity(d Direction, start stereo.Pixel) int {
	n := max(d.Steps(start, a.rows, a.cols), 0)
	end := start.Add(n*d.DRow, n*d.DCol)
	return max(a.maxDisp(start), a.maxDisp(end))
}

// prime performs the zero step of path at its start pixel, evaluating the
// border safe cost for every searchable disparity.
func (a *Aggregator) prime(path *Path) {
	p := path.StartPixel
	n := a.maxDisp(p)
	bestD, bestC := noDisparity, stereo.SentinelCost
	for d := 0; d < n; d++ {
		c := a.cost.CostBorder(p, a.matchedPixel(p, d))
		path.LastStepCosts[d] = c
		if c < bestC {
			bestD, bestC = d, c
		}
	}
	path.prime(n, bestD, bestC)
}

// sweep visits every pixel with rows in rowDir order and columns in colDir
// order, advancing each path whose predecessor pixel has already been
// visited in that order.
func (a *Aggregator) sweep(ctx context.Context, rowDir, colDir int) error {
	var dirs []int
	for i, d := range Directions {
		if d.forward(rowDir, colDir) {
			dirs = append(dirs, i)
		}
	}

	r0, r1 := 0, a.rows
	if rowDir < 0 {
		r0, r1 = a.rows-1, -1
	}
	c0, c1 := 0, a.cols
	if colDir < 0 {
		c0, c1 = a.cols-1, -1
	}

	for r := r0; r != r1; r += rowDir {
		if err := ctx.Err(); err != nil {
			return err
		}
		for c := c0; c != c1; c += colDir {
			p := stereo.Pixel{Row: r, Col: c}
			for _, i := range dirs {
				d := Directions[i]
				start := d.Border(p, a.rows, a.cols)
				if start == p {
					continue // Primed when built.
				}
				path := a.paths[i][a.index(start)]
				if !path.Next() {
					a.best[i][a.index(p)] = noDisparity
					continue
				}
				a.step(path)
				a.record(i, p, path)
			}
		}
	}
	return nil
}

// step computes the aggregated costs of path at its current pixel from the
// costs of the previous step.
func (a *Aggregator) step(path *Path) {
	p := path.CurrentPixel
	n := a.maxDisp(p)
	prev := path.LastStepCosts

	// When the search range grows the previous step has no costs for the new
	// disparities; extend it with the border cost at the edge of the matched
	// image added to the last known cost.
	if n > path.valid {
		edge := prev[path.valid-1]
		for d := path.valid; d < n; d++ {
			prev[d] = edge + a.cost.CostBorder(path.PreviousPixel, a.matchedPixel(path.PreviousPixel, d))
		}
		path.valid = n
	}

	next := path.scratch
	intensity := a.base.At(p)
	bestD, bestC := noDisparity, stereo.SentinelCost
	for d := 0; d < n; d++ {
		m := a.matchedPixel(p, d)
		pen := prev[d]
		if d > 0 {
			pen = min(pen, prev[d-1]+a.p1)
		}
		if d+1 < path.valid {
			pen = min(pen, prev[d+1]+a.p1)
		}
		if far, ok := path.minOutside(d); ok {
			p2 := a.p2
			if math.Abs(intensity-a.matched.At(m)) > a.cfg.IntensityThreshold {
				p2 *= 2
			}
			pen = min(pen, far+p2)
		}

		c := a.costAt(p, m) + pen
		next[d] = c
		if c < bestC {
			bestD, bestC = d, c
		}
	}
	path.commit(n, bestD, bestC)
}

// fuse forwards the best candidate of every path at every pixel to the
// disparity computer and finalizes the pixel.
func (a *Aggregator) fuse(ctx context.Context) error {
	for r := 0; r < a.rows; r++ {
		if err := ctx.Err(); err != nil {
			return err
		}
		for c := 0; c < a.cols; c++ {
			p := stereo.Pixel{Row: r, Col: c}
			n := a.maxDisp(p)
			idx := a.index(p)
			for i := range Directions {
				d := int(a.best[i][idx])
				if d == noDisparity {
					a.dc.StoreDisparity(stereo.Candidate{Base: p, Matched: p, Cost: stereo.SentinelCost})
					continue
				}
				d = stereo.Clamp(d, 0, n-1)
				m := a.matchedPixel(p, d)
				a.dc.StoreDisparity(stereo.Candidate{
					Base:      p,
					Matched:   m,
					Disparity: a.sign * d,
					Cost:      a.cost.CostBorder(p, m),
				})
			}
			a.dc.FinalizeForPixel(p)
		}
	}
	return nil
}

// record stores the best disparity of path at p for direction i. Paths too
// short to aggregate anything record noDisparity.
func (a *Aggregator) record(i int, p stereo.Pixel, path *Path) {
	d, _ := path.Best()
	if path.Length <= 0 {
		d = noDisparity
	}
	a.best[i][a.index(p)] = int32(d)
}

// release drops all per run path state.
func (a *Aggregator) release() {
	for i := range Directions {
		a.paths[i] = nil
		a.best[i] = nil
	}
}

// maxDisp returns the number of disparities searchable from p, limited by the
// distance to the edge of the matched image in the search direction.
func (a *Aggregator) maxDisp(p stereo.Pixel) int {
	n := p.Col + 1
	if a.sign > 0 {
		n = a.cols - p.Col
	}
	return min(n, a.maxRange)
}

// matchedPixel returns the matched image pixel for p at disparity d.
func (a *Aggregator) matchedPixel(p stereo.Pixel, d int) stereo.Pixel {
	return stereo.Pixel{Row: p.Row, Col: p.Col + a.sign*d}
}

// costAt returns the matching cost between p and m, using the border safe
// variant when either neighbourhood reaches outside the images.
func (a *Aggregator) costAt(p, m stereo.Pixel) float64 {
	if a.interior(p) && a.interior(m) {
		return a.cost.Cost(p, m)
	}
	return a.cost.CostBorder(p, m)
}

func (a *Aggregator) interior(p stereo.Pixel) bool {
	return p.Row >= a.radius && p.Row < a.rows-a.radius && p.Col >= a.radius && p.Col < a.cols-a.radius
}

func (a *Aggregator) index(p stereo.Pixel) int {
	return p.Row*a.cols + p.Col
}
