/*
DESCRIPTION
  imgio.go provides conversion between Go images and stereo images, image
  scaling and PNG output.

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

// Package imgio loads stereo image pairs from files and writes rendered
// results.
package imgio

import (
	"errors"
	"fmt"
	"image"
	"image/color"
	"image/png"
	"os"

	"github.com/ausocean/stereo/vision/stereo"
	"golang.org/x/image/draw"
)

// FromImage converts img to a greyscale stereo image with intensities in
// [0,1].
func FromImage(img image.Image) *stereo.Image {
	b := img.Bounds()
	out := stereo.NewImage(b.Dy(), b.Dx())
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			g := color.Gray16Model.Convert(img.At(x, y)).(color.Gray16)
			out.Set(stereo.Pixel{Row: y - b.Min.Y, Col: x - b.Min.X}, float64(g.Y)/0xffff)
		}
	}
	return out
}

// ToGray converts img to an 8 bit greyscale image, clamping intensities to
// [0,1].
func ToGray(img *stereo.Image) *image.Gray {
	out := image.NewGray(image.Rect(0, 0, img.Cols(), img.Rows()))
	for r := 0; r < img.Rows(); r++ {
		for c := 0; c < img.Cols(); c++ {
			v := img.At(stereo.Pixel{Row: r, Col: c})
			switch {
			case v < 0:
				v = 0
			case v > 1:
				v = 1
			}
			out.SetGray(c, r, color.Gray{Y: uint8(v*255 + 0.5)})
		}
	}
	return out
}

// Scale resamples img by factor using Catmull-Rom interpolation. A factor of
// 1 returns img unchanged.
func Scale(img *stereo.Image, factor float64) (*stereo.Image, error) {
	if !(factor > 0) {
		return nil, fmt.Errorf("invalid scale factor %v", factor)
	}
	if factor == 1 {
		return img, nil
	}
	rows := int(float64(img.Rows())*factor + 0.5)
	cols := int(float64(img.Cols())*factor + 0.5)
	if rows < 1 || cols < 1 {
		return nil, fmt.Errorf("scale factor %v leaves no pixels", factor)
	}

	src := image.NewGray16(image.Rect(0, 0, img.Cols(), img.Rows()))
	for r := 0; r < img.Rows(); r++ {
		for c := 0; c < img.Cols(); c++ {
			src.SetGray16(c, r, color.Gray16{Y: uint16(img.At(stereo.Pixel{Row: r, Col: c})*0xffff + 0.5)})
		}
	}
	dst := image.NewGray16(image.Rect(0, 0, cols, rows))
	draw.CatmullRom.Scale(dst, dst.Bounds(), src, src.Bounds(), draw.Src, nil)
	return FromImage(dst), nil
}

// SavePNG encodes img as PNG to the file at path.
func SavePNG(path string, img image.Image) (err error) {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("could not create %s: %w", path, err)
	}
	defer func() {
		err = errors.Join(err, f.Close())
	}()

	err = png.Encode(f, img)
	if err != nil {
		return fmt.Errorf("could not encode png: %w", err)
	}
	return nil
}
