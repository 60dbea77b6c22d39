/*
DESCRIPTION
  direction.go provides the sixteen scan directions along which matching
  costs are aggregated, and the geometry for finding the border pixel a path
  through any pixel starts from.

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
	"math"

	"github.com/ausocean/stereo/vision/stereo"
)

// Direction is a scan direction given by the step a path takes from one
// pixel to the next. X is the column axis and Y the row axis.
type Direction struct {
	Name       string
	DRow, DCol int
}

// NumDirections is the number of aggregation directions.
const NumDirections = 16

// Directions holds all aggregation directions. The stretched diagonals take
// two steps along one axis for every step along the other.
var Directions = [NumDirections]Direction{
	{"+X", 0, 1},
	{"-X", 0, -1},
	{"+Y", 1, 0},
	{"-Y", -1, 0},
	{"+X+Y", 1, 1},
	{"-X+Y", 1, -1},
	{"+X-Y", -1, 1},
	{"-X-Y", -1, -1},
	{"+X2+Y", 1, 2},
	{"-X2+Y", 1, -2},
	{"+X2-Y", -1, 2},
	{"-X2-Y", -1, -2},
	{"+X+Y2", 2, 1},
	{"-X+Y2", 2, -1},
	{"+X-Y2", -2, 1},
	{"-X-Y2", -2, -1},
}

// Border returns the pixel a path in direction d through p starts from, i.e.
// the first pixel of the path whose predecessor lies outside a rows x cols
// image.
func (d Direction) Border(p stereo.Pixel, rows, cols int) stereo.Pixel {
	k := min(stepsAvail(p.Row, -d.DRow, rows), stepsAvail(p.Col, -d.DCol, cols))
	return p.Add(-k*d.DRow, -k*d.DCol)
}

// Steps returns how many steps a path in direction d can take from p before
// leaving a rows x cols image.
func (d Direction) Steps(p stereo.Pixel, rows, cols int) int {
	return min(stepsAvail(p.Row, d.DRow, rows), stepsAvail(p.Col, d.DCol, cols))
}

// Prev returns the pixel one step back from p.
func (d Direction) Prev(p stereo.Pixel) stereo.Pixel {
	return p.Add(-d.DRow, -d.DCol)
}

// forward returns true if d's predecessor pixel is visited before the pixel
// itself when rows are scanned in rowDir and columns in colDir order.
func (d Direction) forward(rowDir, colDir int) bool {
	if d.DRow != 0 {
		return d.DRow*rowDir > 0
	}
	return d.DCol*colDir > 0
}

// stepsAvail returns how many steps of size step fit from v while staying in
// [0, n).
func stepsAvail(v, step, n int) int {
	switch {
	case step > 0:
		return (n - 1 - v) / step
	case step < 0:
		return v / -step
	default:
		return math.MaxInt
	}
}
