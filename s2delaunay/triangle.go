// Copyright (c) 2026 Andrey Kriulin
// Licensed under the MIT License.
// See the LICENSE file in the project root for full license text.

package s2delaunay

import (
	"math"

	"github.com/golang/geo/s2"
)

// Triangle is one face of a Triangulation. Adjacent holds the indices of the faces that
// share exactly one edge with it.
type Triangle struct {
	Vertices [3]int
	Area     float64
	Adjacent []int
}

// Contains reports whether vIdx is a corner of t.
func (t *Triangle) Contains(vIdx int) bool {
	return t.Vertices[0] == vIdx || t.Vertices[1] == vIdx || t.Vertices[2] == vIdx
}

// Edge is an undirected edge stored with the smaller vertex index first.
type Edge [2]int

func NewEdge(a, b int) Edge {
	if a > b {
		a, b = b, a
	}
	return Edge{a, b}
}

func triangleKey(a, b, c int) [3]int {
	if a > b {
		a, b = b, a
	}
	if b > c {
		b, c = c, b
	}
	if a > b {
		a, b = b, a
	}
	return [3]int{a, b, c}
}

// triangleArea returns the spherical excess of the triangle abc. A clockwise face yields
// the complementary area in (2π, 4π), which normalizeArea folds back.
func triangleArea(a, b, c s2.Point) float64 {
	area := s2.SignedArea(a, b, c)
	if area < 0 {
		area += 4 * math.Pi
	}
	return normalizeArea(area)
}

func normalizeArea(area float64) float64 {
	if 2*math.Pi < area && area < 4*math.Pi {
		return 4*math.Pi - area
	}
	return area
}
