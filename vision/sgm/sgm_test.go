/*
DESCRIPTION
  sgm_test.go provides testing for the path geometry, the aggregation
  recurrence and the sweep and fusion behaviour of the sgm aggregator.

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

package sgm

import (
	"context"
	"errors"
	"testing"

	"github.com/ausocean/stereo/vision/stereo"
	"github.com/ausocean/utils/logging"
)

// fieldCost is a stereo.CostComputer defined by a function of the base and
// matched pixels. CostBorder clamps the matched pixel before evaluating.
type fieldCost struct {
	f       func(p, m stereo.Pixel) float64
	max     float64
	radius  int
	rows    int
	cols    int
	updated int
}

func (fc *fieldCost) Init(base, matched *stereo.Image) error {
	fc.rows, fc.cols = base.Rows(), base.Cols()
	return nil
}

func (fc *fieldCost) Cost(p, m stereo.Pixel) float64 { return fc.f(p, m) }

func (fc *fieldCost) CostBorder(p, m stereo.Pixel) float64 {
	m.Row = stereo.Clamp(m.Row, 0, fc.rows-1)
	m.Col = stereo.Clamp(m.Col, 0, fc.cols-1)
	return fc.f(p, m)
}

func (fc *fieldCost) MaxCost() float64 { return fc.max }
func (fc *fieldCost) Radius() int      { return fc.radius }
func (fc *fieldCost) Update()          { fc.updated++ }

// recorder is a stereo.DisparityComputer that counts finalizations, keeps
// the candidates of each pixel in direction order and writes the minimum
// cost candidate.
type recorder struct {
	m      *stereo.Map
	counts map[stereo.Pixel]int
	stored map[stereo.Pixel][]stereo.Candidate
	cands  []stereo.Candidate
}

func (r *recorder) Init(m *stereo.Map, base, matched *stereo.Image) error {
	r.m = m
	r.counts = make(map[stereo.Pixel]int)
	r.stored = make(map[stereo.Pixel][]stereo.Candidate)
	return nil
}

func (r *recorder) StoreDisparity(c stereo.Candidate) { r.cands = append(r.cands, c) }

func (r *recorder) FinalizeForPixel(p stereo.Pixel) {
	r.counts[p]++
	e := stereo.Entry{Flags: stereo.FlagInvalid, Cost: stereo.SentinelCost}
	for _, c := range r.cands {
		if c.Base != p {
			panic("candidate stored for wrong pixel")
		}
		if !stereo.IsSentinel(c.Cost) && c.Cost < e.Cost {
			e = stereo.Entry{DX: c.Disparity, SubDX: float64(c.Disparity), Cost: c.Cost}
		}
	}
	r.stored[p] = append([]stereo.Candidate(nil), r.cands...)
	r.cands = r.cands[:0]
	r.m.Set(p, e)
}

func constCost(v float64) *fieldCost {
	return &fieldCost{f: func(p, m stereo.Pixel) float64 { return v }, max: 100}
}

func newTestAggregator(t *testing.T, cfg Config, rows, cols int, cc stereo.CostComputer) (*Aggregator, *recorder) {
	rec := &recorder{}
	a := New(cfg, stereo.NewImage(rows, cols), stereo.NewImage(rows, cols), stereo.NewMap(rows, cols), cc, rec, (*logging.TestLogger)(t))
	err := a.Init()
	if err != nil {
		t.Fatalf("could not initialise aggregator: %v", err)
	}
	return a, rec
}

func TestBorder(t *testing.T) {
	const rows, cols = 5, 7

	tests := []struct {
		dir  Direction
		p    stereo.Pixel
		want stereo.Pixel
	}{
		{Directions[0], stereo.Pixel{2, 4}, stereo.Pixel{2, 0}},
		{Directions[1], stereo.Pixel{2, 4}, stereo.Pixel{2, 6}},
		{Directions[2], stereo.Pixel{3, 1}, stereo.Pixel{0, 1}},
		{Directions[3], stereo.Pixel{3, 1}, stereo.Pixel{4, 1}},
		{Directions[4], stereo.Pixel{3, 2}, stereo.Pixel{1, 0}},
		{Directions[5], stereo.Pixel{3, 5}, stereo.Pixel{2, 6}},
		{Directions[7], stereo.Pixel{1, 1}, stereo.Pixel{4, 4}},
		{Directions[8], stereo.Pixel{3, 5}, stereo.Pixel{1, 1}},
		{Directions[8], stereo.Pixel{4, 6}, stereo.Pixel{1, 0}},
		{Directions[11], stereo.Pixel{0, 1}, stereo.Pixel{2, 5}},
		{Directions[12], stereo.Pixel{4, 3}, stereo.Pixel{0, 1}},
		{Directions[13], stereo.Pixel{3, 0}, stereo.Pixel{1, 1}},
		{Directions[14], stereo.Pixel{2, 6}, stereo.Pixel{4, 5}},
		{Directions[15], stereo.Pixel{0, 0}, stereo.Pixel{4, 2}},
	}

	for i, test := range tests {
		got := test.dir.Border(test.p, rows, cols)
		if got != test.want {
			t.Errorf("did not get expected border for test: %d (%s). Got: %v, Want: %v", i, test.dir.Name, got, test.want)
		}
	}
}

// TestBorderReachesPixel checks for every pixel and direction that the border
// pixel is in the image, has its predecessor outside the image and reaches the
// pixel within the path length.
func TestBorderReachesPixel(t *testing.T) {
	const rows, cols = 6, 9
	for r := 0; r < rows; r++ {
		for c := 0; c < cols; c++ {
			p := stereo.Pixel{r, c}
			for _, d := range Directions {
				b := d.Border(p, rows, cols)
				if !b.In(rows, cols) {
					t.Fatalf("%s border of %v outside image: %v", d.Name, p, b)
				}
				if d.Prev(b).In(rows, cols) {
					t.Fatalf("%s border of %v has predecessor in image: %v", d.Name, p, b)
				}
				q, k := b, 0
				for q != p && k <= d.Steps(b, rows, cols) {
					q = q.Add(d.DRow, d.DCol)
					k++
				}
				if q != p {
					t.Fatalf("%s path from %v does not reach %v", d.Name, b, p)
				}
			}
		}
	}
}

func TestPassCoverage(t *testing.T) {
	for _, colDir := range []int{1, -1} {
		var first, second int
		for _, d := range Directions {
			f, s := d.forward(1, colDir), d.forward(-1, -colDir)
			if f == s {
				t.Errorf("direction %s must be in exactly one pass, colDir %d", d.Name, colDir)
			}
			if f {
				first++
			}
			if s {
				second++
			}
		}
		if first != NumDirections/2 || second != NumDirections/2 {
			t.Errorf("unbalanced passes for colDir %d: %d and %d", colDir, first, second)
		}
	}
}

func TestPathNext(t *testing.T) {
	const rows, cols = 4, 4
	p := newPath(Directions[4], stereo.Pixel{0, 1}, rows, cols, 5) // +X+Y
	if p.Length != 2 {
		t.Fatalf("unexpected path length. Got: %d, Want: 2", p.Length)
	}
	if p.State() != Unstarted {
		t.Errorf("new path not unstarted")
	}
	p.prime(1, 0, 0)
	if p.State() != Stepping {
		t.Errorf("primed path not stepping")
	}

	want := []stereo.Pixel{{1, 2}, {2, 3}}
	for i, w := range want {
		if !p.Next() {
			t.Fatalf("could not advance path at step %d", i)
		}
		if p.CurrentPixel != w || p.CurrentIndex != i+1 {
			t.Errorf("unexpected position at step %d. Got: %v index %d, Want: %v", i, p.CurrentPixel, p.CurrentIndex, w)
		}
	}
	if p.PreviousPixel != want[0] {
		t.Errorf("unexpected previous pixel. Got: %v, Want: %v", p.PreviousPixel, want[0])
	}
	if p.Next() || p.State() != Exhausted {
		t.Errorf("path did not exhaust")
	}
	if p.Next() || p.CurrentIndex != p.Length {
		t.Errorf("exhausted path advanced")
	}
}

func TestInitErrors(t *testing.T) {
	img := stereo.NewImage(4, 4)
	m := stereo.NewMap(4, 4)
	log := (*logging.TestLogger)(t)

	badCfg := DefaultConfig()
	badCfg.HighPenaltyCoeff = 1.5

	tests := []struct {
		name string
		a    *Aggregator
		want error
	}{
		{"no cost", New(DefaultConfig(), img, img, m, nil, &recorder{}, log), ErrNoCostComputer},
		{"no disparity", New(DefaultConfig(), img, img, m, constCost(1), nil, log), ErrNoDisparityComputer},
		{"empty", New(DefaultConfig(), stereo.NewImage(0, 0), img, m, constCost(1), &recorder{}, log), ErrEmptyImage},
		{"mismatch", New(DefaultConfig(), img, stereo.NewImage(4, 5), m, constCost(1), &recorder{}, log), ErrSizeMismatch},
		{"map", New(DefaultConfig(), img, img, stereo.NewMap(3, 4), constCost(1), &recorder{}, log), ErrSizeMismatch},
		{"config", New(badCfg, img, img, m, constCost(1), &recorder{}, log), ErrBadConfig},
		{"max cost", New(DefaultConfig(), img, img, m, &fieldCost{f: func(p, m stereo.Pixel) float64 { return 0 }}, &recorder{}, log), ErrBadMaxCost},
	}

	for _, test := range tests {
		err := test.a.Init()
		if !errors.Is(err, test.want) {
			t.Errorf("unexpected error for %s. Got: %v, Want: %v", test.name, err, test.want)
		}
		err = test.a.ComputeMatchingCosts(context.Background())
		if !errors.Is(err, stereo.ErrNotInitialised) {
			t.Errorf("expected not initialised error after failed init for %s, got: %v", test.name, err)
		}
	}
}

// TestZeroStepCosts checks that each primed path holds the border safe cost of
// its start pixel at every searchable disparity.
func TestZeroStepCosts(t *testing.T) {
	for _, left := range []bool{true, false} {
		fc := &fieldCost{
			f:   func(p, m stereo.Pixel) float64 { return float64(3*p.Row+5*p.Col) + 0.5*float64(m.Col) },
			max: 10,
		}
		cfg := DefaultConfig()
		cfg.IsLeftImageBase = left
		a, _ := newTestAggregator(t, cfg, 5, 8, fc)
		n := a.buildPaths()
		if n == 0 {
			t.Fatal("no paths built")
		}

		for i := range Directions {
			for _, path := range a.paths[i] {
				if path == nil {
					continue
				}
				s := path.StartPixel
				for d := 0; d < a.maxDisp(s); d++ {
					want := fc.CostBorder(s, a.matchedPixel(s, d))
					if path.LastStepCosts[d] != want {
						t.Errorf("unexpected zero step cost for %s at %v, d=%d. Got: %v, Want: %v",
							path.Dir.Name, s, d, path.LastStepCosts[d], want)
					}
				}
			}
		}
		a.release()
	}
}

// TestPathCapacity checks that every path's cost buffers hold exactly the
// largest search range of the pixels along it.
func TestPathCapacity(t *testing.T) {
	const rows, cols = 5, 9
	for _, maxDisp := range []int{0, 4} {
		for _, left := range []bool{true, false} {
			cfg := DefaultConfig()
			cfg.IsLeftImageBase = left
			cfg.MaxDisparity = maxDisp
			a, _ := newTestAggregator(t, cfg, rows, cols, constCost(1))
			a.buildPaths()

			for i := range Directions {
				for _, path := range a.paths[i] {
					if path == nil {
						continue
					}
					var want int
					for k, q := 0, path.StartPixel; k <= path.Length; k, q = k+1, q.Add(path.Dir.DRow, path.Dir.DCol) {
						want = max(want, a.maxDisp(q))
					}
					if got := len(path.LastStepCosts); got != want || len(path.scratch) != want {
						t.Errorf("unexpected capacity for %s from %v (left base %v, max %d). Got: %d, Want: %d",
							path.Dir.Name, path.StartPixel, left, maxDisp, got, want)
					}
				}
			}
			a.release()
		}
	}
}

// TestRangeGrowth checks the costs synthesized for disparities that become
// searchable when a path steps away from the matched image edge, and the
// aggregated costs computed from them.
func TestRangeGrowth(t *testing.T) {
	const rows, cols = 4, 8
	fc := &fieldCost{
		f: func(p, m stereo.Pixel) float64 {
			d := m.Col - p.Col
			if d < 0 {
				d = -d
			}
			return 1 + 0.5*float64(p.Col) + 0.25*float64(p.Row) + 2*float64(d)
		},
		max: 10,
	}

	tests := []struct {
		dir   int
		start stereo.Pixel
		left  bool
		grow  int
	}{
		{dir: 0, start: stereo.Pixel{Row: 2, Col: 0}, left: true, grow: 1},
		{dir: 8, start: stereo.Pixel{Row: 0, Col: 0}, left: true, grow: 2},
		{dir: 1, start: stereo.Pixel{Row: 1, Col: cols - 1}, left: false, grow: 1},
		{dir: 9, start: stereo.Pixel{Row: 0, Col: cols - 1}, left: false, grow: 2},
		{dir: 12, start: stereo.Pixel{Row: 0, Col: 0}, left: true, grow: 1},
	}

	for _, test := range tests {
		cfg := Config{LowPenaltyCoeff: 0.1, HighPenaltyCoeff: 0.3, IntensityThreshold: 0.1, IsLeftImageBase: test.left}
		a, _ := newTestAggregator(t, cfg, rows, cols, fc)
		a.buildPaths()
		name := Directions[test.dir].Name

		path := a.paths[test.dir][a.index(test.start)]
		if path == nil {
			t.Fatalf("%s: no path from %v", name, test.start)
		}
		valid := path.valid
		prev := append([]float64(nil), path.LastStepCosts[:valid]...)
		prevPixel := path.CurrentPixel
		if !path.Next() {
			t.Fatalf("%s: could not advance path", name)
		}
		p := path.CurrentPixel
		n := a.maxDisp(p)
		if n-valid != test.grow {
			t.Fatalf("%s: unexpected range growth. Got: %d, Want: %d", name, n-valid, test.grow)
		}

		ext := make([]float64, n)
		copy(ext, prev)
		for d := valid; d < n; d++ {
			ext[d] = prev[valid-1] + fc.CostBorder(prevPixel, a.matchedPixel(prevPixel, d))
		}

		a.step(path)

		for d := valid; d < n; d++ {
			if got := path.scratch[d]; got != ext[d] {
				t.Errorf("%s: unexpected synthesized cost at d=%d. Got: %v, Want: %v", name, d, got, ext[d])
			}
		}
		for d := 0; d < n; d++ {
			pen := ext[d]
			if d > 0 {
				pen = min(pen, ext[d-1]+a.p1)
			}
			if d+1 < n {
				pen = min(pen, ext[d+1]+a.p1)
			}
			for k := 0; k < n; k++ {
				if k < d-1 || k > d+1 {
					pen = min(pen, ext[k]+a.p2)
				}
			}
			want := fc.CostBorder(p, a.matchedPixel(p, d)) + pen
			if got := path.LastStepCosts[d]; got != want {
				t.Errorf("%s: unexpected aggregated cost at d=%d. Got: %v, Want: %v", name, d, got, want)
			}
		}
		a.release()
	}
}

// TestZeroLengthPaths checks that a path with no steps inside the image
// forwards a sentinel candidate for its pixel.
func TestZeroLengthPaths(t *testing.T) {
	fc := &fieldCost{f: func(p, m stereo.Pixel) float64 { return 1 }, max: 4}

	a, rec := newTestAggregator(t, DefaultConfig(), 1, 1, fc)
	err := a.ComputeMatchingCosts(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	p := stereo.Pixel{0, 0}
	cands := rec.stored[p]
	if len(cands) != NumDirections {
		t.Fatalf("unexpected candidate count. Got: %d, Want: %d", len(cands), NumDirections)
	}
	for i, c := range cands {
		if !stereo.IsSentinel(c.Cost) {
			t.Errorf("%s candidate of single pixel image not sentinel: %v", Directions[i].Name, c.Cost)
		}
	}
	if e := rec.m.At(p); e.Flags&stereo.FlagInvalid == 0 || e.Flags&stereo.FlagSet == 0 {
		t.Errorf("single pixel entry not set invalid, flags: %b", e.Flags)
	}

	const rows, cols = 3, 4
	a, rec = newTestAggregator(t, DefaultConfig(), rows, cols, fc)
	err = a.ComputeMatchingCosts(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	corner := stereo.Pixel{rows - 1, 0}
	cands = rec.stored[corner]
	if len(cands) != NumDirections {
		t.Fatalf("unexpected candidate count. Got: %d, Want: %d", len(cands), NumDirections)
	}
	tests := []struct {
		dir      int
		sentinel bool
	}{
		{dir: 4, sentinel: true},  // +X+Y starts and ends at the corner.
		{dir: 12, sentinel: true}, // +X+Y2
		{dir: 6, sentinel: false}, // +X-Y
		{dir: 0, sentinel: false}, // +X
		{dir: 3, sentinel: false}, // -Y
	}
	for _, test := range tests {
		if got := stereo.IsSentinel(cands[test.dir].Cost); got != test.sentinel {
			t.Errorf("unexpected sentinel state for %s at %v. Got: %v, Want: %v",
				Directions[test.dir].Name, corner, got, test.sentinel)
		}
	}
}

// TestAdaptivePenalty checks that P2 doubles when the base to matched
// intensity difference exceeds the threshold.
func TestAdaptivePenalty(t *testing.T) {
	const (
		cols    = 8
		start   = 5
		d       = 4
		maxCost = 100
	)
	cfg := Config{LowPenaltyCoeff: 0.5, HighPenaltyCoeff: 0.1, IntensityThreshold: 0.5, IsLeftImageBase: true}

	run := func(matchedIntensity float64) float64 {
		left, right := stereo.NewImage(1, cols), stereo.NewImage(1, cols)
		right.Set(stereo.Pixel{0, start + 1 - d}, matchedIntensity)
		a := New(cfg, left, right, stereo.NewMap(1, cols), constCost(0), &recorder{}, (*logging.TestLogger)(t))
		if err := a.Init(); err != nil {
			t.Fatalf("could not initialise aggregator: %v", err)
		}

		path := newPath(Directions[0], stereo.Pixel{0, start}, 1, cols, cols+1)
		copy(path.LastStepCosts, []float64{0, maxCost, maxCost, maxCost, maxCost, maxCost})
		path.prime(start+1, 0, 0)
		if !path.Next() {
			t.Fatal("could not advance path")
		}
		a.step(path)
		return path.LastStepCosts[d]
	}

	low, high := run(0), run(1)
	const p2 = 0.1 * maxCost
	if low != p2 {
		t.Errorf("unexpected cost below threshold. Got: %v, Want: %v", low, p2)
	}
	if high != 2*low {
		t.Errorf("penalty not doubled above threshold. Got: %v, Want: %v", high, 2*low)
	}
}

// TestPen2Scan checks the explicit scan used when the previous best disparity
// lies inside the window around d.
func TestPen2Scan(t *testing.T) {
	p := newPath(Directions[0], stereo.Pixel{0, 0}, 1, 10, 8)
	copy(p.LastStepCosts, []float64{7, 1, 9, 3, 8, 2})
	p.prime(6, 1, 1)

	tests := []struct {
		d    int
		want float64
		ok   bool
	}{
		{d: 4, want: 1, ok: true}, // Fast path, best outside [3,5].
		{d: 1, want: 2, ok: true}, // Scan of 3, 4 and 5.
		{d: 2, want: 2, ok: true}, // Scan of 0, 4 and 5.
		{d: 0, want: 2, ok: true},
	}
	for i, test := range tests {
		got, ok := p.minOutside(test.d)
		if got != test.want || ok != test.ok {
			t.Errorf("did not get expected result from test: %d. Got: %v %v, Want: %v %v", i, got, ok, test.want, test.ok)
		}
	}

	p.prime(2, 0, 7)
	if _, ok := p.minOutside(0); ok {
		t.Error("expected no disparity outside window")
	}
}

// TestTrueMinimumWins checks that with a cost field minimised at a single
// disparity for every pixel, the penalties never move the best disparity of a
// fully ranged path away from it.
func TestTrueMinimumWins(t *testing.T) {
	const (
		rows, cols = 9, 12
		maxDisp    = 5
		dStar      = 2
	)
	fc := &fieldCost{
		f: func(p, m stereo.Pixel) float64 {
			d := m.Col - p.Col
			if d < 0 {
				d = -d
			}
			diff := float64(d - dStar)
			return diff * diff
		},
		max: 10,
	}

	for _, left := range []bool{true, false} {
		cfg := Config{LowPenaltyCoeff: 0.2, HighPenaltyCoeff: 0.6, IntensityThreshold: 0.1, MaxDisparity: maxDisp, IsLeftImageBase: left}
		a, _ := newTestAggregator(t, cfg, rows, cols, fc)
		a.buildPaths()
		colDir := -a.sign
		if err := a.sweep(context.Background(), 1, colDir); err != nil {
			t.Fatalf("unexpected sweep error: %v", err)
		}
		if err := a.sweep(context.Background(), -1, -colDir); err != nil {
			t.Fatalf("unexpected sweep error: %v", err)
		}

		var checked int
		for r := 0; r < rows; r++ {
			for c := 0; c < cols; c++ {
				p := stereo.Pixel{r, c}
				if a.maxDisp(p) <= dStar {
					continue
				}
				for i, d := range Directions {
					start := d.Border(p, rows, cols)
					path := a.paths[i][a.index(start)]
					if path.Length <= 0 || a.maxDisp(start) != maxDisp {
						continue
					}
					checked++
					if got := a.best[i][a.index(p)]; got != dStar {
						t.Errorf("%s best at %v (left base %v). Got: %d, Want: %d", d.Name, p, left, got, dStar)
					}
				}
			}
		}
		if checked == 0 {
			t.Error("no path checked")
		}
		a.release()
	}
}

// TestComputeMatchingCosts checks that every pixel is finalized exactly once
// for a range of image sizes, including degenerate ones.
func TestComputeMatchingCosts(t *testing.T) {
	sizes := []struct{ rows, cols int }{{1, 1}, {1, 5}, {3, 3}, {4, 7}, {10, 6}}

	for _, size := range sizes {
		for _, left := range []bool{true, false} {
			cfg := DefaultConfig()
			cfg.IsLeftImageBase = left
			fc := &fieldCost{
				f:   func(p, m stereo.Pixel) float64 { return float64((p.Col*7 + m.Col*3 + p.Row) % 5) },
				max: 4,
			}
			a, rec := newTestAggregator(t, cfg, size.rows, size.cols, fc)
			err := a.ComputeMatchingCosts(context.Background())
			if err != nil {
				t.Fatalf("unexpected error for %dx%d: %v", size.rows, size.cols, err)
			}
			if fc.updated != 1 {
				t.Errorf("cost computer updated %d times, want 1", fc.updated)
			}
			for r := 0; r < size.rows; r++ {
				for c := 0; c < size.cols; c++ {
					p := stereo.Pixel{r, c}
					if rec.counts[p] != 1 {
						t.Errorf("pixel %v of %dx%d finalized %d times", p, size.rows, size.cols, rec.counts[p])
					}
				}
			}
			if a.paths[0] != nil || a.best[0] != nil {
				t.Error("path state not released")
			}
		}
	}
}

func TestThreeByThree(t *testing.T) {
	a, rec := newTestAggregator(t, DefaultConfig(), 3, 3, constCost(1))
	err := a.ComputeMatchingCosts(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	e := rec.m.At(stereo.Pixel{1, 1})
	if e.Flags&stereo.FlagSet == 0 || e.Flags&stereo.FlagInvalid != 0 {
		t.Errorf("centre pixel not populated, flags: %b", e.Flags)
	}
}

func TestCancel(t *testing.T) {
	a, rec := newTestAggregator(t, DefaultConfig(), 6, 6, constCost(1))
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	err := a.ComputeMatchingCosts(ctx)
	if !errors.Is(err, context.Canceled) {
		t.Errorf("unexpected error. Got: %v, Want: %v", err, context.Canceled)
	}
	if len(rec.counts) != 0 {
		t.Errorf("entries finalized after cancellation: %d", len(rec.counts))
	}
}

func TestConfigUpdate(t *testing.T) {
	c := DefaultConfig()
	err := c.Update(map[string]string{
		"LowPenaltyCoeff":    "0.2",
		"highpenaltycoeff":   " 0.7",
		"IntensityThreshold": "0.05",
		"MaxDisparity":       "32",
		"IsLeftImageBase":    "FALSE",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := Config{LowPenaltyCoeff: 0.2, HighPenaltyCoeff: 0.7, IntensityThreshold: 0.05, MaxDisparity: 32}
	if c != want {
		t.Errorf("unexpected config. Got: %+v, Want: %+v", c, want)
	}
	a, _ := newTestAggregator(t, c, 2, 3, constCost(1))
	if got := a.Config(); got != want {
		t.Errorf("aggregator does not report its config. Got: %+v, Want: %+v", got, want)
	}

	bad := []map[string]string{
		{"LowPenaltyCoeff": "abc"},
		{"HighPenaltyCoeff": "2"},
		{"MaxDisparity": "-1"},
		{"Unknown": "1"},
	}
	for i, vars := range bad {
		before := c
		if err := c.Update(vars); err == nil {
			t.Errorf("expected error from test: %d", i)
		}
		if c != before {
			t.Errorf("config changed by failed update: %d", i)
		}
	}
}
