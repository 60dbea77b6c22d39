/*
DESCRIPTION
  path.go provides the Path type, the stepping state of one directional
  dynamic programming scan line.

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

import "github.com/ausocean/stereo/vision/stereo"

// PathState is the stepping state of a Path.
type PathState int

// Path states.
const (
	Unstarted PathState = iota // Created, costs not yet primed.
	Stepping                   // Primed and able to advance.
	Exhausted                  // Reached the end of the image.
)

// Path is one scan line in a fixed direction, starting at a border pixel.
// Each Path exclusively owns its cost buffers.
type Path struct {
	Dir           Direction
	ImageHeight   int
	ImageWidth    int
	StartPixel    stereo.Pixel
	CurrentPixel  stereo.Pixel
	PreviousPixel stereo.Pixel
	CurrentIndex  int
	Length        int // Number of steps the path takes inside the image.

	// LastStepCosts holds the aggregated cost per disparity computed at
	// CurrentPixel, which the next step reads as its previous costs.
	LastStepCosts []float64

	valid    int       // Number of meaningful entries in LastStepCosts.
	bestDisp int       // Best disparity of the last step.
	bestCost float64   // Aggregated cost at bestDisp.
	scratch  []float64 // Costs of the step being computed.
	state    PathState
}

// newPath returns an unstarted Path in direction dir from start, with cost
// buffers able to hold capacity disparities.
func newPath(dir Direction, start stereo.Pixel, rows, cols, capacity int) *Path {
	return &Path{
		Dir:           dir,
		ImageHeight:   rows,
		ImageWidth:    cols,
		StartPixel:    start,
		CurrentPixel:  start,
		PreviousPixel: start,
		Length:        dir.Steps(start, rows, cols),
		LastStepCosts: make([]float64, capacity),
		scratch:       make([]float64, capacity),
		bestDisp:      -1,
		bestCost:      stereo.SentinelCost,
	}
}

// State returns the path's stepping state.
func (p *Path) State() PathState { return p.state }

// Best returns the best disparity and its aggregated cost at CurrentPixel.
// The disparity is -1 if none has been computed.
func (p *Path) Best() (int, float64) { return p.bestDisp, p.bestCost }

// Next advances CurrentPixel one step. It returns false, and leaves the path
// Exhausted, if the path has already taken all of its steps.
func (p *Path) Next() bool {
	if p.state == Exhausted || p.CurrentIndex >= p.Length {
		p.state = Exhausted
		return false
	}
	p.PreviousPixel = p.CurrentPixel
	p.CurrentPixel = p.CurrentPixel.Add(p.Dir.DRow, p.Dir.DCol)
	p.CurrentIndex++
	p.state = Stepping
	return true
}

// prime records the zero step costs held in the first n entries of
// LastStepCosts and the best pair among them.
func (p *Path) prime(n, bestDisp int, bestCost float64) {
	p.valid = n
	p.bestDisp, p.bestCost = bestDisp, bestCost
	p.state = Stepping
}

// commit makes the first n entries of scratch the new LastStepCosts.
func (p *Path) commit(n, bestDisp int, bestCost float64) {
	p.LastStepCosts, p.scratch = p.scratch, p.LastStepCosts
	p.valid = n
	p.bestDisp, p.bestCost = bestDisp, bestCost
}

// minOutside returns the smallest previous step cost at a disparity more than
// one away from d. When the previous best disparity is already outside the
// window its cost is used directly. ok is false if no such disparity exists.
func (p *Path) minOutside(d int) (cost float64, ok bool) {
	if p.bestDisp >= 0 && (p.bestDisp < d-1 || p.bestDisp > d+1) {
		return p.bestCost, true
	}
	cost = stereo.SentinelCost
	for k := 0; k < p.valid; k++ {
		if k >= d-1 && k <= d+1 {
			continue
		}
		if p.LastStepCosts[k] < cost {
			cost, ok = p.LastStepCosts[k], true
		}
	}
	return cost, ok
}
