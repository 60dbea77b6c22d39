/*
DESCRIPTION
  render.go provides rendering of disparity maps to greyscale images and a
  statistical summary of a map.

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
	"image"
	"image/color"
	"math"

	"github.com/ausocean/stereo/vision/stereo"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

// Gray renders the magnitude of the sub-pixel disparities of m as a
// greyscale image, with the smallest valid disparity black and the largest
// white. Invalid and unset entries are black.
func Gray(m *stereo.Map) *image.Gray {
	img := image.NewGray(image.Rect(0, 0, m.Cols(), m.Rows()))
	vals := make([]float64, 0, m.Rows()*m.Cols())
	for r := 0; r < m.Rows(); r++ {
		for c := 0; c < m.Cols(); c++ {
			vals = append(vals, magnitude(m.At(stereo.Pixel{Row: r, Col: c})))
		}
	}
	norm := normalize(vals)
	for i, v := range norm {
		if math.IsNaN(v) {
			continue
		}
		img.SetGray(i%m.Cols(), i/m.Cols(), color.Gray{Y: uint8(math.Round(v * 255))})
	}
	return img
}

// magnitude returns |SubDX| for usable entries and NaN otherwise.
func magnitude(e stereo.Entry) float64 {
	if !usable(e) {
		return math.NaN()
	}
	return math.Abs(e.SubDX)
}

func usable(e stereo.Entry) bool {
	return e.Flags&stereo.FlagSet != 0 && e.Flags&stereo.FlagInvalid == 0
}

// normalize normalizes the values in the given slice to the range [0,1]
// inclusive. NaN values are ignored and stay NaN. If all values are equal
// they normalize to 0.
func normalize(s []float64) []float64 {
	max := -math.MaxFloat64
	min := math.MaxFloat64
	out := make([]float64, len(s))

	for _, v := range s {
		if math.IsNaN(v) {
			continue
		}
		if v > max {
			max = v
		}
		if v < min {
			min = v
		}
	}

	for i, v := range s {
		switch {
		case math.IsNaN(v):
			out[i] = v
		case max > min:
			out[i] = (v - min) / (max - min)
		}
	}
	return out
}

// Summary holds statistics over the usable entries of a disparity map.
type Summary struct {
	Valid, Invalid int
	Mean, StdDev   float64
	Min, Max       float64
	MeanConfidence float64
}

// Summarize returns statistics of the sub-pixel disparities in m. Unset
// entries are counted as invalid.
func Summarize(m *stereo.Map) Summary {
	var s Summary
	var d, conf []float64
	for r := 0; r < m.Rows(); r++ {
		for c := 0; c < m.Cols(); c++ {
			e := m.At(stereo.Pixel{Row: r, Col: c})
			if !usable(e) {
				s.Invalid++
				continue
			}
			d = append(d, e.SubDX)
			conf = append(conf, e.Confidence)
		}
	}
	s.Valid = len(d)
	if s.Valid == 0 {
		return s
	}
	s.Mean, s.StdDev = stat.PopMeanStdDev(d, nil)
	s.Min, s.Max = floats.Min(d), floats.Max(d)
	s.MeanConfidence = stat.Mean(conf, nil)
	return s
}

// disparities returns the sub-pixel disparities of the usable entries of m.
func disparities(m *stereo.Map) []float64 {
	var d []float64
	for r := 0; r < m.Rows(); r++ {
		for c := 0; c < m.Cols(); c++ {
			e := m.At(stereo.Pixel{Row: r, Col: c})
			if usable(e) {
				d = append(d, e.SubDX)
			}
		}
	}
	return d
}
