/*
DESCRIPTION
  fit.go provides least squares polynomial fitting, used to refine integer
  disparities to sub-pixel precision.

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
	"fmt"

	"gonum.org/v1/gonum/mat"
)

// fit fits a polynomial of degree to the data provided in x and y and
// returns its coefficients, lowest order first.
func fit(x, y []float64, degree int) (*mat.VecDense, error) {
	if len(x) != len(y) || len(x) <= degree {
		return nil, fmt.Errorf("need more than %d points of equal length to fit, got %d and %d", degree, len(x), len(y))
	}
	a := vandermonde(x, degree)
	b := mat.NewVecDense(len(y), y)
	c := mat.NewVecDense(degree+1, nil)

	qr := new(mat.QR)
	qr.Factorize(a)

	err := qr.SolveVecTo(c, false, b)
	if err != nil {
		return nil, fmt.Errorf("could not solve QR: %w", err)
	}
	return c, nil
}

// vandermonde calculates the Vandermonde matrix for set a and the given degree.
func vandermonde(a []float64, degree int) *mat.Dense {
	x := mat.NewDense(len(a), degree+1, nil)
	for i := range a {
		for j, p := 0, 1.0; j <= degree; j, p = j+1, p*a[i] {
			x.Set(i, j, p)
		}
	}
	return x
}

// parabolaVertex fits a parabola through the points (x[i], y[i]) and returns
// the x of its minimum. ok is false if the fit fails or the parabola does not
// open upwards.
func parabolaVertex(x, y []float64) (v float64, ok bool) {
	c, err := fit(x, y, 2)
	if err != nil {
		return 0, false
	}
	c1, c2 := c.AtVec(1), c.AtVec(2)
	if !(c2 > 0) {
		return 0, false
	}
	return -c1 / (2 * c2), true
}
