/*
DESCRIPTION
  subpixel.go provides a disparity computer that refines the winner-take-all
  disparity to sub-pixel precision by fitting a parabola to the matching
  costs around it.

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

package disparity

import (
	"math"

	"github.com/ausocean/stereo/vision/stereo"
)

// maxOffset bounds the sub-pixel correction applied to an integer disparity.
const maxOffset = 0.5

// SubPixel picks the winner like WTA, then fits a parabola through the
// matching costs at the winning disparity and its two neighbours. The
// vertex of the parabola gives the sub-pixel disparity.
type SubPixel struct {
	accumulator
	cc   stereo.CostComputer
	cols int
}

var _ stereo.DisparityComputer = (*SubPixel)(nil)

// NewSubPixel returns a SubPixel that evaluates neighbouring costs with cc.
// cc must be initialised with the same images as the aggregator.
func NewSubPixel(cc stereo.CostComputer) *SubPixel {
	return &SubPixel{cc: cc}
}

// Init implements stereo.DisparityComputer.
func (s *SubPixel) Init(m *stereo.Map, base, matched *stereo.Image) error {
	err := s.init(m, base)
	if err != nil {
		return err
	}
	s.cols = matched.Cols()
	return nil
}

// FinalizeForPixel implements stereo.DisparityComputer.
func (s *SubPixel) FinalizeForPixel(p stereo.Pixel) {
	best, ok := s.winner()
	if !ok {
		s.finalize(p, invalid)
		return
	}
	e := stereo.Entry{
		DX:         best.Disparity,
		SubDX:      float64(best.Disparity),
		Cost:       best.Cost,
		Confidence: s.agreement(best.Disparity),
	}
	if off, ok := s.refine(best); ok {
		e.SubDX += off
		e.Flags |= stereo.FlagSubPixel
	}
	s.finalize(p, e)
}

// refine returns the sub-pixel offset for candidate c. ok is false when a
// neighbouring disparity leaves the matched image or the costs have no
// interior minimum.
func (s *SubPixel) refine(c stereo.Candidate) (float64, bool) {
	m := c.Matched
	if m.Col-1 < 0 || m.Col+1 >= s.cols {
		return 0, false
	}
	x := []float64{-1, 0, 1}
	y := make([]float64, len(x))
	for i, dx := range x {
		y[i] = s.cc.CostBorder(c.Base, stereo.Pixel{Row: m.Row, Col: m.Col + int(dx)})
	}
	v, ok := parabolaVertex(x, y)
	if !ok {
		return 0, false
	}
	return math.Max(-maxOffset, math.Min(maxOffset, v)), true
}
