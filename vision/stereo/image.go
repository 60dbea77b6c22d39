/*
DESCRIPTION
  image.go provides the pixel coordinate and grey image types shared by the
  matching cost, aggregation and disparity packages.

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

// Package stereo holds the data model and collaborator contracts of the dense
// stereo correspondence engine: pixels, grey images, disparity candidates,
// the disparity map and the interfaces implemented by matching cost and
// disparity finalization strategies.
package stereo

import (
	"fmt"

	"gonum.org/v1/gonum/mat"
)

// Pixel is an integer (row, column) image coordinate.
type Pixel struct {
	Row, Col int
}

// Add returns p offset by dRow rows and dCol columns.
func (p Pixel) Add(dRow, dCol int) Pixel {
	return Pixel{Row: p.Row + dRow, Col: p.Col + dCol}
}

// In returns true if p lies inside an image of the given dimensions.
func (p Pixel) In(rows, cols int) bool {
	return p.Row >= 0 && p.Row < rows && p.Col >= 0 && p.Col < cols
}

func (p Pixel) String() string {
	return fmt.Sprintf("(%d,%d)", p.Row, p.Col)
}

// Image is a single channel image of real valued intensities, normally in the
// range [0,1]. The zero value is an empty image.
type Image struct {
	data *mat.Dense
}

// NewImage returns a new black Image with the given dimensions. Non-positive
// dimensions give an empty image.
func NewImage(rows, cols int) *Image {
	if rows <= 0 || cols <= 0 {
		return &Image{}
	}
	return &Image{data: mat.NewDense(rows, cols, nil)}
}

// NewImageFromDense returns an Image backed by d. d is not copied.
func NewImageFromDense(d *mat.Dense) *Image {
	return &Image{data: d}
}

// Rows returns the image height.
func (img *Image) Rows() int {
	if img == nil || img.data == nil {
		return 0
	}
	r, _ := img.data.Dims()
	return r
}

// Cols returns the image width.
func (img *Image) Cols() int {
	if img == nil || img.data == nil {
		return 0
	}
	_, c := img.data.Dims()
	return c
}

// Empty returns true if the image has no pixels.
func (img *Image) Empty() bool {
	return img.Rows() == 0 || img.Cols() == 0
}

// At returns the intensity at p. At panics if p is outside the image.
func (img *Image) At(p Pixel) float64 {
	return img.data.At(p.Row, p.Col)
}

// Set sets the intensity at p.
func (img *Image) Set(p Pixel, v float64) {
	img.data.Set(p.Row, p.Col, v)
}

// AtClamped returns the intensity at (row, col) with the coordinates clamped
// to the image, so samples outside the image repeat the nearest edge pixel.
func (img *Image) AtClamped(row, col int) float64 {
	return img.data.At(Clamp(row, 0, img.Rows()-1), Clamp(col, 0, img.Cols()-1))
}

// Dense returns the matrix backing the image.
func (img *Image) Dense() *mat.Dense {
	return img.data
}

// Clamp limits v to the inclusive range [lo, hi].
func Clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
