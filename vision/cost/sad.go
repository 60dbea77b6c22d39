/*
DESCRIPTION
  sad.go provides a matching cost computer using the sum of absolute
  intensity differences over a square window.

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

package cost

import (
	"fmt"
	"math"

	"github.com/ausocean/stereo/vision/stereo"
)

// SAD computes the sum of absolute differences between the windows around
// the base and matched pixels. Intensities are expected in [0,1].
type SAD struct {
	radius        int
	base, matched *stereo.Image
	rows, cols    int
}

var _ stereo.CostComputer = (*SAD)(nil)

// NewSAD returns a new SAD with a (2*radius+1) square window.
func NewSAD(radius int) (*SAD, error) {
	if radius < 0 {
		return nil, fmt.Errorf("invalid SAD radius: %d", radius)
	}
	return &SAD{radius: radius}, nil
}

// Init implements stereo.CostComputer.
func (s *SAD) Init(base, matched *stereo.Image) error {
	err := checkImages(base, matched)
	if err != nil {
		return fmt.Errorf("could not initialise SAD: %w", err)
	}
	s.base, s.matched = base, matched
	s.rows, s.cols = base.Rows(), base.Cols()
	return nil
}

// Cost implements stereo.CostComputer.
func (s *SAD) Cost(p, m stereo.Pixel) float64 {
	assertWindow(p, s.radius, s.rows, s.cols)
	assertWindow(m, s.radius, s.rows, s.cols)
	b, t := s.base.Dense(), s.matched.Dense()
	var sum float64
	for i := -s.radius; i <= s.radius; i++ {
		for j := -s.radius; j <= s.radius; j++ {
			sum += math.Abs(b.At(p.Row+i, p.Col+j) - t.At(m.Row+i, m.Col+j))
		}
	}
	return sum
}

// CostBorder implements stereo.CostComputer.
func (s *SAD) CostBorder(p, m stereo.Pixel) float64 {
	p = clampPixel(p, s.rows, s.cols)
	m = clampPixel(m, s.rows, s.cols)
	var sum float64
	for i := -s.radius; i <= s.radius; i++ {
		for j := -s.radius; j <= s.radius; j++ {
			sum += math.Abs(s.base.AtClamped(p.Row+i, p.Col+j) - s.matched.AtClamped(m.Row+i, m.Col+j))
		}
	}
	return sum
}

// MaxCost implements stereo.CostComputer.
func (s *SAD) MaxCost() float64 {
	w := 2*s.radius + 1
	return float64(w * w)
}

// Radius implements stereo.CostComputer.
func (s *SAD) Radius() int { return s.radius }

// Update implements stereo.CostComputer. SAD keeps no derived state.
func (s *SAD) Update() {}
