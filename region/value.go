// Copyright (c) 2026 Andrey Kriulin
// Licensed under the MIT License.
// See the LICENSE file in the project root for full license text.

package region

import (
	"slices"

	"gonum.org/v1/gonum/floats"
)

// evaluate returns the raw area of tris and the value of a region of n points covering them.
//
// Areas are summed in ascending order so that the same triangle set always yields the
// same bits, whatever order the set was built in.
func (r *Region) evaluate(n int, tris []int) (area, value float64) {
	if len(tris) == 0 {
		return 0, 0
	}

	areas := make([]float64, len(tris))
	for i, tIdx := range tris {
		areas[i] = r.dt.Triangles[tIdx].Area
	}
	slices.Sort(areas)

	area = floats.Sum(areas)
	return area, cappedValue(areas, float64(n)/r.cfg.MinDensity)
}

// cappedValue discounts the area of sorted ascending areas that exceeds maxArea. Once a
// triangle no longer fits under the cap its area is subtracted from the running total
// instead of being skipped, so a region can lose value by covering one large triangle.
func cappedValue(areas []float64, maxArea float64) float64 {
	if raw := floats.Sum(areas); raw <= maxArea {
		return raw
	}

	total := 0.0
	for _, a := range areas {
		if total+a <= maxArea {
			total += a
		} else {
			total -= a
		}
	}
	return total
}
