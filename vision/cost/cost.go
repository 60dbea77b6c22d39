/*
DESCRIPTION
  cost.go provides the shared validation and range assertions of the matching
  cost computers, and a factory for selecting one by name.

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

// Package cost provides per pixel matching cost computers for stereo
// correspondence: windowed sum of absolute differences and census transform
// Hamming distance.
package cost

import (
	"errors"
	"fmt"

	"github.com/ausocean/stereo/vision/stereo"
	"github.com/ausocean/utils/sliceutils"
)

// Cost computer names accepted by ByName.
const (
	NameCensus = "census"
	NameSAD    = "sad"
)

// Names holds all cost computer names.
var Names = []string{NameCensus, NameSAD}

var (
	errNilImage     = errors.New("nil or empty image")
	errSizeMismatch = errors.New("base and matched image sizes differ")
)

// ByName returns the cost computer with the given name and window radius.
func ByName(name string, radius int) (stereo.CostComputer, error) {
	if !sliceutils.ContainsString(Names, name) {
		return nil, fmt.Errorf("unknown cost computer %q, want one of %v", name, Names)
	}
	var (
		cc  stereo.CostComputer
		err error
	)
	switch name {
	case NameCensus:
		cc, err = NewCensus(radius)
	default:
		cc, err = NewSAD(radius)
	}
	if err != nil {
		return nil, err
	}
	return cc, nil
}

// checkImages validates an image pair passed to Init.
func checkImages(base, matched *stereo.Image) error {
	if base.Empty() || matched.Empty() {
		return errNilImage
	}
	if base.Rows() != matched.Rows() || base.Cols() != matched.Cols() {
		return fmt.Errorf("%w: %dx%d and %dx%d", errSizeMismatch, base.Rows(), base.Cols(), matched.Rows(), matched.Cols())
	}
	return nil
}

// assertWindow panics in debug builds if the window of radius r around p is
// not inside a rows x cols image.
func assertWindow(p stereo.Pixel, r, rows, cols int) {
	if !debug {
		return
	}
	if p.Row-r < 0 || p.Col-r < 0 || p.Row+r >= rows || p.Col+r >= cols {
		panic(fmt.Sprintf("cost window of radius %d around %v outside %dx%d image", r, p, rows, cols))
	}
}

// clampPixel returns p clamped to a rows x cols image.
func clampPixel(p stereo.Pixel, rows, cols int) stereo.Pixel {
	return stereo.Pixel{Row: stereo.Clamp(p.Row, 0, rows-1), Col: stereo.Clamp(p.Col, 0, cols-1)}
}
