/*
DESCRIPTION
  contract.go defines the interfaces between the cost aggregation engine and
  its pluggable matching cost and disparity finalization strategies.

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

package stereo

import (
	"context"
	"errors"
)

// ErrNotInitialised is returned by an Aggregator used before a successful Init.
var ErrNotInitialised = errors.New("aggregator not initialised")

// CostComputer evaluates the matching cost between a base pixel and a
// candidate matched pixel.
type CostComputer interface {
	// Init binds the computer to the base and matched images.
	Init(base, matched *Image) error

	// Cost returns the non-negative matching cost between base and matched.
	// Both pixels and their whole neighbourhoods (see Radius) must lie inside
	// the images; anything else is a programming error.
	Cost(base, matched Pixel) float64

	// CostBorder is like Cost but clamps out-of-range pixels and neighbourhood
	// samples to the image instead of failing.
	CostBorder(base, matched Pixel) float64

	// MaxCost returns an upper bound of the cost, used to scale penalties.
	MaxCost() float64

	// Radius returns the half size of the neighbourhood sampled around each
	// pixel.
	Radius() int

	// Update refreshes any state derived from the images.
	Update()
}

// DisparityComputer accumulates candidates for the pixel currently being
// processed and finalizes one disparity map entry per pixel.
type DisparityComputer interface {
	// Init binds the computer to the map it populates and the image pair.
	Init(m *Map, base, matched *Image) error

	// StoreDisparity adds a candidate for the current pixel.
	StoreDisparity(c Candidate)

	// FinalizeForPixel writes exactly one map entry for p from the
	// candidates stored since the previous call and clears them.
	FinalizeForPixel(p Pixel)
}

// Aggregator computes matching costs for every base pixel and leaves the
// disparity map fully populated. Init must succeed before
// ComputeMatchingCosts is called.
type Aggregator interface {
	Init() error
	ComputeMatchingCosts(ctx context.Context) error
}
