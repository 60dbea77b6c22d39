/*
DESCRIPTION
  disparity_map.go provides the disparity candidate type and the DisparityMap
  that holds one finalized entry per base image pixel.

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
	"fmt"
	"math"
	"strings"
)

// SentinelCost marks a candidate that carries no usable match, e.g. one from
// a path that is too short to have been aggregated.
const SentinelCost = math.MaxFloat64

// IsSentinel returns true if cost is at or above SentinelCost.
func IsSentinel(cost float64) bool {
	return cost >= SentinelCost
}

// Candidate is a disparity hypothesis for one base pixel. Disparity is signed
// and equal to Matched.Col - Base.Col, so it is negative when the left image
// is the base image and positive when the right image is.
type Candidate struct {
	Base, Matched Pixel
	Disparity     int
	Cost          float64
}

// Flag describes the state of a disparity map entry.
type Flag uint8

// Entry flags.
const (
	FlagSet      Flag = 1 << iota // Entry has been finalized.
	FlagInvalid                   // No usable candidate was available.
	FlagSubPixel                  // SubDX holds a refined value.
	FlagBorder                    // Pixel lies on the image border.
)

// Entry is the finalized disparity for one base pixel.
type Entry struct {
	DX         int     // Signed integer disparity.
	SubDX      float64 // Sub-pixel disparity, equal to DX when not refined.
	Cost       float64
	Confidence float64 // In [0,1].
	Flags      Flag
}

// Map is a dense DisparityMap with one Entry per base image pixel.
type Map struct {
	rows, cols int
	entries    []Entry
}

// NewMap returns a Map of the given dimensions with all entries unset.
func NewMap(rows, cols int) *Map {
	if rows < 0 || cols < 0 {
		rows, cols = 0, 0
	}
	return &Map{rows: rows, cols: cols, entries: make([]Entry, rows*cols)}
}

// Rows returns the map height.
func (m *Map) Rows() int { return m.rows }

// Cols returns the map width.
func (m *Map) Cols() int { return m.cols }

// At returns the entry for p.
func (m *Map) At(p Pixel) Entry {
	return m.entries[m.index(p)]
}

// Set stores e for p and marks it as set.
func (m *Map) Set(p Pixel, e Entry) {
	e.Flags |= FlagSet
	if p.Row == 0 || p.Col == 0 || p.Row == m.rows-1 || p.Col == m.cols-1 {
		e.Flags |= FlagBorder
	}
	m.entries[m.index(p)] = e
}

// Reset clears all entries.
func (m *Map) Reset() {
	for i := range m.entries {
		m.entries[i] = Entry{}
	}
}

func (m *Map) index(p Pixel) int {
	if !p.In(m.rows, m.cols) {
		panic(fmt.Sprintf("pixel %v outside disparity map %dx%d", p, m.rows, m.cols))
	}
	return p.Row*m.cols + p.Col
}

// String returns a text dump of the integer disparities, one line per row.
// Unset entries are shown as "." and invalid entries as "x".
func (m *Map) String() string {
	var b strings.Builder
	for r := 0; r < m.rows; r++ {
		for c := 0; c < m.cols; c++ {
			if c > 0 {
				b.WriteByte(' ')
			}
			e := m.entries[r*m.cols+c]
			switch {
			case e.Flags&FlagSet == 0:
				b.WriteString(".")
			case e.Flags&FlagInvalid != 0:
				b.WriteString("x")
			default:
				fmt.Fprintf(&b, "%d", e.DX)
			}
		}
		b.WriteByte('\n')
	}
	return b.String()
}
