/*
DESCRIPTION
  plot.go provides plotting of disparity map distributions.

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
	"errors"
	"fmt"
	"path/filepath"

	"github.com/ausocean/stereo/vision/stereo"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
)

const histBins = 32

// PlotHistogram saves a histogram of the valid disparities of m to
// dir/name.png.
func PlotHistogram(m *stereo.Map, dir, name string) error {
	d := disparities(m)
	if len(d) == 0 {
		return errors.New("no valid disparities to plot")
	}
	return plotToFile(dir, name, "disparity (px)", "pixels", func(p *plot.Plot) error {
		h, err := plotter.NewHist(plotter.Values(d), histBins)
		if err != nil {
			return fmt.Errorf("could not create histogram: %w", err)
		}
		p.Add(h)
		return nil
	})
}

// plotToFile creates a plot with a specified name and x&y titles using the
// provided draw function, and then saves to a PNG file in dir with filename
// of name.
func plotToFile(dir, name, xTitle, yTitle string, draw func(*plot.Plot) error) error {
	p := plot.New()
	p.Title.Text = name
	p.X.Label.Text = xTitle
	p.Y.Label.Text = yTitle
	err := draw(p)
	if err != nil {
		return fmt.Errorf("could not draw plot contents: %w", err)
	}
	if err := p.Save(15*vg.Centimeter, 15*vg.Centimeter, filepath.Join(dir, name+".png")); err != nil {
		return fmt.Errorf("could not save plot: %w", err)
	}
	return nil
}
