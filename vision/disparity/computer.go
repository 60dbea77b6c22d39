/*
DESCRIPTION
  computer.go provides the candidate accumulation shared by the disparity
  computers, and a factory for selecting a computer by name.

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

// Package disparity provides strategies that fuse the per path disparity
// candidates of a pixel into one disparity map entry, along with rendering,
// statistics and plotting of disparity maps.
package disparity

import (
	"errors"
	"fmt"

	"github.com/ausocean/stereo/vision/stereo"
	"github.com/ausocean/utils/sliceutils"
)

// Disparity computer names accepted by ByName.
const (
	NameWTA      = "wta"
	NameSubPixel = "subpixel"
	NameAverage  = "average"
)

// Names holds all disparity computer names.
var Names = []string{NameWTA, NameSubPixel, NameAverage}

var errNoMap = errors.New("nil disparity map")

// ByName returns the disparity computer with the given name. cc is only used
// by the sub-pixel computer.
func ByName(name string, cc stereo.CostComputer) (stereo.DisparityComputer, error) {
	if !sliceutils.ContainsString(Names, name) {
		return nil, fmt.Errorf("unknown disparity computer %q, want one of %v", name, Names)
	}
	switch name {
	case NameSubPixel:
		if cc == nil {
			return nil, errors.New("sub-pixel disparity computer needs a cost computer")
		}
		return NewSubPixel(cc), nil
	case NameAverage:
		return NewAverage(), nil
	default:
		return NewWTA(), nil
	}
}

// accumulator holds the candidates of the pixel being processed and the map
// they are finalized into.
type accumulator struct {
	m     *stereo.Map
	cands []stereo.Candidate
}

func (a *accumulator) init(m *stereo.Map, base *stereo.Image) error {
	if m == nil {
		return errNoMap
	}
	if base == nil || m.Rows() != base.Rows() || m.Cols() != base.Cols() {
		return fmt.Errorf("disparity map %dx%d does not match base image", m.Rows(), m.Cols())
	}
	a.m = m
	a.cands = a.cands[:0]
	return nil
}

// StoreDisparity implements stereo.DisparityComputer.
func (a *accumulator) StoreDisparity(c stereo.Candidate) {
	a.cands = append(a.cands, c)
}

// winner returns the usable candidate with the lowest cost. ok is false if
// no candidate is usable.
func (a *accumulator) winner() (best stereo.Candidate, ok bool) {
	best.Cost = stereo.SentinelCost
	for _, c := range a.cands {
		if stereo.IsSentinel(c.Cost) {
			continue
		}
		if !ok || c.Cost < best.Cost {
			best, ok = c, true
		}
	}
	return best, ok
}

// agreement returns the fraction of usable candidates within one pixel of
// disparity d.
func (a *accumulator) agreement(d int) float64 {
	var usable, near int
	for _, c := range a.cands {
		if stereo.IsSentinel(c.Cost) {
			continue
		}
		usable++
		if c.Disparity >= d-1 && c.Disparity <= d+1 {
			near++
		}
	}
	if usable == 0 {
		return 0
	}
	return float64(near) / float64(usable)
}

// finalize writes e for p and clears the candidates.
func (a *accumulator) finalize(p stereo.Pixel, e stereo.Entry) {
	a.m.Set(p, e)
	a.cands = a.cands[:0]
}

// invalid is the entry written for pixels without a usable candidate.
var invalid = stereo.Entry{Cost: stereo.SentinelCost, Flags: stereo.FlagInvalid}
