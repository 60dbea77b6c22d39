/*
DESCRIPTION
  census.go provides a matching cost computer using the Hamming distance
  between census transforms of the base and matched images.

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
	"math/bits"

	"github.com/ausocean/stereo/vision/stereo"
)

// Census window limits; a radius 3 window has 48 neighbours, which fits in
// one uint64.
const (
	minCensusRadius = 1
	maxCensusRadius = 3
)

// Census compares census transforms, where each bit records whether a
// neighbour is darker than the centre pixel. Transforms are computed with
// clamped sampling, so pixels near the border use repeated edge values.
type Census struct {
	radius        int
	base, matched *stereo.Image
	rows, cols    int
	baseBits      []uint64
	matchedBits   []uint64
}

var _ stereo.CostComputer = (*Census)(nil)

// NewCensus returns a new Census with a (2*radius+1) square window.
func NewCensus(radius int) (*Census, error) {
	if radius < minCensusRadius || radius > maxCensusRadius {
		return nil, fmt.Errorf("census radius %d outside [%d,%d]", radius, minCensusRadius, maxCensusRadius)
	}
	return &Census{radius: radius}, nil
}

// Init implements stereo.CostComputer.
func (c *Census) Init(base, matched *stereo.Image) error {
	err := checkImages(base, matched)
	if err != nil {
		return fmt.Errorf("could not initialise census: %w", err)
	}
	c.base, c.matched = base, matched
	c.rows, c.cols = base.Rows(), base.Cols()
	c.Update()
	return nil
}

// Update implements stereo.CostComputer by recomputing both transforms.
func (c *Census) Update() {
	if c.base == nil {
		return
	}
	c.baseBits = c.transform(c.base, c.baseBits)
	c.matchedBits = c.transform(c.matched, c.matchedBits)
}

func (c *Census) transform(img *stereo.Image, dst []uint64) []uint64 {
	n := c.rows * c.cols
	if cap(dst) < n {
		dst = make([]uint64, n)
	}
	dst = dst[:n]
	for r := 0; r < c.rows; r++ {
		for col := 0; col < c.cols; col++ {
			centre := img.AtClamped(r, col)
			var v uint64
			for i := -c.radius; i <= c.radius; i++ {
				for j := -c.radius; j <= c.radius; j++ {
					if i == 0 && j == 0 {
						continue
					}
					v <<= 1
					if img.AtClamped(r+i, col+j) < centre {
						v |= 1
					}
				}
			}
			dst[r*c.cols+col] = v
		}
	}
	return dst
}

// Bits returns the census transform of the base image at p.
func (c *Census) Bits(p stereo.Pixel) uint64 {
	return c.baseBits[p.Row*c.cols+p.Col]
}

// Cost implements stereo.CostComputer.
func (c *Census) Cost(p, m stereo.Pixel) float64 {
	assertWindow(p, c.radius, c.rows, c.cols)
	assertWindow(m, c.radius, c.rows, c.cols)
	return c.hamming(p, m)
}

// CostBorder implements stereo.CostComputer.
func (c *Census) CostBorder(p, m stereo.Pixel) float64 {
	return c.hamming(clampPixel(p, c.rows, c.cols), clampPixel(m, c.rows, c.cols))
}

func (c *Census) hamming(p, m stereo.Pixel) float64 {
	return float64(bits.OnesCount64(c.baseBits[p.Row*c.cols+p.Col] ^ c.matchedBits[m.Row*c.cols+m.Col]))
}

// MaxCost implements stereo.CostComputer.
func (c *Census) MaxCost() float64 {
	w := 2*c.radius + 1
	return float64(w*w - 1)
}

// Radius implements stereo.CostComputer.
func (c *Census) Radius() int { return c.radius }
