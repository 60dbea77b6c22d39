/*
DESCRIPTION
  average.go provides a disparity computer that takes the cost weighted mean
  of the path candidates.

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
	"gonum.org/v1/gonum/stat"
)

// Average weights each usable candidate by 1/(1+cost) and takes the weighted
// mean disparity. Confidence falls as the weighted spread of the candidates
// grows.
type Average struct {
	accumulator
	x, w, c []float64
}

var _ stereo.DisparityComputer = (*Average)(nil)

// NewAverage returns a new Average.
func NewAverage() *Average { return &Average{} }

// Init implements stereo.DisparityComputer.
func (a *Average) Init(m *stereo.Map, base, matched *stereo.Image) error {
	return a.init(m, base)
}

// FinalizeForPixel implements stereo.DisparityComputer.
func (a *Average) FinalizeForPixel(p stereo.Pixel) {
	a.x, a.w, a.c = a.x[:0], a.w[:0], a.c[:0]
	for _, c := range a.cands {
		if stereo.IsSentinel(c.Cost) {
			continue
		}
		a.x = append(a.x, float64(c.Disparity))
		a.w = append(a.w, 1/(1+c.Cost))
		a.c = append(a.c, c.Cost)
	}
	if len(a.x) == 0 {
		a.finalize(p, invalid)
		return
	}

	mean := stat.Mean(a.x, a.w)
	sd := stat.PopStdDev(a.x, a.w)
	a.finalize(p, stereo.Entry{
		DX:         int(math.Round(mean)),
		SubDX:      mean,
		Cost:       stat.Mean(a.c, a.w),
		Confidence: 1 / (1 + sd),
		Flags:      stereo.FlagSubPixel,
	})
}
