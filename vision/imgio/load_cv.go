//go:build withcv
// +build withcv

/*
DESCRIPTION
  load_cv.go provides image file decoding using OpenCV.

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

package imgio

import (
	"fmt"

	"github.com/ausocean/stereo/vision/stereo"
	"gocv.io/x/gocv"
)

// Load reads the image file at path with OpenCV and returns it as a
// greyscale image with intensities in [0,1].
func Load(path string) (*stereo.Image, error) {
	mat := gocv.IMRead(path, gocv.IMReadGrayScale)
	defer mat.Close()
	if mat.Empty() {
		return nil, fmt.Errorf("could not read image %s", path)
	}

	img := stereo.NewImage(mat.Rows(), mat.Cols())
	for r := 0; r < mat.Rows(); r++ {
		for c := 0; c < mat.Cols(); c++ {
			img.Set(stereo.Pixel{Row: r, Col: c}, float64(mat.GetUCharAt(r, c))/255)
		}
	}
	return img, nil
}
