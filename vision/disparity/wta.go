/*
DESCRIPTION
  wta.go provides the winner-take-all disparity computer.

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

import "github.com/ausocean/stereo/vision/stereo"

// WTA keeps the lowest cost candidate of each pixel. Confidence is the
// fraction of candidates that agree with the winner to within one pixel.
type WTA struct {
	accumulator
}

var _ stereo.DisparityComputer = (*WTA)(nil)

// NewWTA returns a new WTA.
func NewWTA() *WTA { return &WTA{} }

// Init implements stereo.DisparityComputer.
func (w *WTA) Init(m *stereo.Map, base, matched *stereo.Image) error {
	return w.init(m, base)
}

// FinalizeForPixel implements stereo.DisparityComputer.
func (w *WTA) FinalizeForPixel(p stereo.Pixel) {
	best, ok := w.winner()
	if !ok {
		w.finalize(p, invalid)
		return
	}
	w.finalize(p, stereo.Entry{
		DX:         best.Disparity,
		SubDX:      float64(best.Disparity),
		Cost:       best.Cost,
		Confidence: w.agreement(best.Disparity),
	})
}
