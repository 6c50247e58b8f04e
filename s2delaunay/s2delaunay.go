// Copyright (c) 2026 Andrey Kriulin
// Licensed under the MIT License.
// See the LICENSE file in the project root for full license text.

// Package s2delaunay builds Delaunay triangulations on the unit sphere from the convex hull
// of the sites, together with the topological indices needed to grow regions over them.

package s2delaunay

import (
	"errors"
	"fmt"

	"github.com/golang/geo/r3"
	"github.com/golang/geo/s2"
	"github.com/markus-wa/quickhull-go/v2"
)

const (
	defaultEps = 1e-12
)

var ErrDegenerateInput = errors.New("s2delaunay: degenerate input")

type Triangulation struct {
	Vertices  s2.PointVector
	Triangles []Triangle
	// NOTE: Sort in CCW per vertex(look out of hull)
	IncidentTriangleIndices []int
	IncidentTriangleOffsets []int
	// NOTE: Aligned with IncidentTriangleOffsets, neighbor i is NextVertex of incident triangle i.
	NeighborIndices []int

	thirdVertices map[Edge][]int
	triangleIndex map[[3]int]int
}

// IncidentTriangles returns the indices of the triangles around vertex vIdx in CCW order.
func (dt *Triangulation) IncidentTriangles(vIdx int) []int {
	if vIdx < 0 || vIdx+1 >= len(dt.IncidentTriangleOffsets) {
		panic("IncidentTriangles: vIdx out of range")
	}
	start := dt.IncidentTriangleOffsets[vIdx]
	end := dt.IncidentTriangleOffsets[vIdx+1]
	return dt.IncidentTriangleIndices[start:end]
}

// Neighbors returns the vertices sharing an edge with vIdx in CCW order.
func (dt *Triangulation) Neighbors(vIdx int) []int {
	if vIdx < 0 || vIdx+1 >= len(dt.IncidentTriangleOffsets) {
		panic("Neighbors: vIdx out of range")
	}
	start := dt.IncidentTriangleOffsets[vIdx]
	end := dt.IncidentTriangleOffsets[vIdx+1]
	return dt.NeighborIndices[start:end]
}

func (dt *Triangulation) TriangleVertices(tIdx int) (s2.Point, s2.Point, s2.Point) {
	if tIdx < 0 || tIdx >= len(dt.Triangles) {
		panic("TriangleVertices: tIdx out of bounds")
	}
	t := dt.Triangles[tIdx].Vertices
	return dt.Vertices[t[0]], dt.Vertices[t[1]], dt.Vertices[t[2]]
}

// ThirdVertices returns every vertex m such that {a, b, m} is a triangle.
// The result does not depend on the order of a and b.
func (dt *Triangulation) ThirdVertices(a, b int) []int {
	return dt.thirdVertices[NewEdge(a, b)]
}

// TriangleIndex looks up the triangle with corners a, b and c given in any order.
func (dt *Triangulation) TriangleIndex(a, b, c int) (int, bool) {
	tIdx, ok := dt.triangleIndex[triangleKey(a, b, c)]
	return tIdx, ok
}

func (dt *Triangulation) NumEdges() int {
	return len(dt.thirdVertices)
}

type TriangulationOptions struct {
	Eps float64
}

type TriangulationOption func(*TriangulationOptions) error

func WithEps(eps float64) TriangulationOption {
	return func(o *TriangulationOptions) error {
		if eps <= 0 {
			return fmt.Errorf("WithEps: eps must be positive, got %v", eps)
		}
		o.Eps = eps
		return nil
	}
}

// NOTE: All vertices must lie on a sphere.
func NewTriangulation(vertices s2.PointVector, setters ...TriangulationOption) (*Triangulation, error) {
	opts := TriangulationOptions{
		Eps: defaultEps,
	}
	for _, set := range setters {
		if err := set(&opts); err != nil {
			return nil, err
		}
	}

	numVertices := len(vertices)
	if numVertices < 4 {
		return nil, fmt.Errorf("%w: %d vertices, minimum 4 required", ErrDegenerateInput, numVertices)
	}
	numTriangles := 2 * (numVertices - 2)
	dt := &Triangulation{
		Vertices:                vertices,
		Triangles:               make([]Triangle, numTriangles),
		IncidentTriangleIndices: make([]int, numTriangles*3),
		IncidentTriangleOffsets: make([]int, numVertices+1),
		NeighborIndices:         make([]int, numTriangles*3),
		thirdVertices:           make(map[Edge][]int, numTriangles*3/2),
		triangleIndex:           make(map[[3]int]int, numTriangles),
	}

	var center r3.Vector
	r3vertices := make([]r3.Vector, numVertices)
	for i, p := range vertices {
		r3vertices[i] = p.Vector
		center = center.Add(p.Vector)
	}
	center = center.Mul(1 / float64(numVertices))
	qh := new(quickhull.QuickHull)
	ch := qh.ConvexHull(r3vertices, true, true, opts.Eps)
	if len(ch.Indices) != numTriangles*3 {
		return nil, fmt.Errorf("%w: hull has %d faces, want %d", ErrDegenerateInput,
			len(ch.Indices)/3, numTriangles)
	}

	for _, idx := range ch.Indices {
		dt.IncidentTriangleOffsets[idx+1]++
	}
	for i := range numVertices {
		dt.IncidentTriangleOffsets[i+1] += dt.IncidentTriangleOffsets[i]
	}

	nxt := make([]int, numVertices)
	copy(nxt, dt.IncidentTriangleOffsets[:numVertices])
	for i := range numTriangles {
		base := i * 3
		tri := &dt.Triangles[i]
		for j := range 3 {
			v := ch.Indices[base+j]
			tri.Vertices[j] = v
			dt.IncidentTriangleIndices[nxt[v]] = i
			nxt[v]++
		}
		a, b, c := dt.Vertices[tri.Vertices[0]], dt.Vertices[tri.Vertices[1]], dt.Vertices[tri.Vertices[2]]
		if b.Sub(a.Vector).Cross(c.Sub(a.Vector)).Norm2() == 0 {
			return nil, fmt.Errorf("%w: face %v has zero area", ErrDegenerateInput, tri.Vertices)
		}
		tri.Area = triangleArea(a, b, c)
		sortTriangleVerticesCCW(&tri.Vertices, dt.Vertices, center)
		dt.registerTriangle(i)
	}

	for i := range numVertices {
		incidentTriangles := dt.IncidentTriangles(i)
		sortIncidentTriangleIndicesCCW(i, incidentTriangles, dt.Triangles)
		offset := dt.IncidentTriangleOffsets[i]
		for j, tIdx := range incidentTriangles {
			dt.NeighborIndices[offset+j] = NextVertex(dt.Triangles[tIdx].Vertices, i)
		}
	}

	return dt, nil
}

// registerTriangle links triangle tIdx with the triangles already recorded on its edges
// and then records its own corners as third vertices of those edges.
func (dt *Triangulation) registerTriangle(tIdx int) {
	v := dt.Triangles[tIdx].Vertices
	for j := range 3 {
		a, b, m := v[j], v[(j+1)%3], v[(j+2)%3]
		e := NewEdge(a, b)
		for _, other := range dt.thirdVertices[e] {
			oIdx := dt.triangleIndex[triangleKey(a, b, other)]
			dt.Triangles[tIdx].Adjacent = append(dt.Triangles[tIdx].Adjacent, oIdx)
			dt.Triangles[oIdx].Adjacent = append(dt.Triangles[oIdx].Adjacent, tIdx)
		}
		dt.thirdVertices[e] = append(dt.thirdVertices[e], m)
	}
	dt.triangleIndex[triangleKey(v[0], v[1], v[2])] = tIdx
}

// sortTriangleVerticesCCW orients t counter-clockwise when looking at the face from outside
// the hull. center must lie strictly inside the hull; it differs from the sphere center
// when all sites fit in one hemisphere.
func sortTriangleVerticesCCW(t *[3]int, v s2.PointVector, center r3.Vector) {
	p0, p1, p2 := v[t[0]], v[t[1]], v[t[2]]
	norm := p1.Sub(p0.Vector).Cross(p2.Sub(p0.Vector))
	if norm.Dot(p0.Sub(center)) < 0 {
		t[1], t[2] = t[2], t[1]
	}
}

func sortIncidentTriangleIndicesCCW(vIdx int, incidentTris []int, tris []Triangle) {
	n := len(incidentTris)
	for i := 1; i < n; i++ {
		nxt := NextVertex(tris[incidentTris[i-1]].Vertices, vIdx)
		for j := i + 1; j < n; j++ {
			prv := PrevVertex(tris[incidentTris[j]].Vertices, vIdx)
			if nxt == prv {
				incidentTris[i], incidentTris[j] = incidentTris[j], incidentTris[i]
				break
			}
		}
	}
}

func PrevVertex(t [3]int, vIdx int) int {
	switch vIdx {
	case t[0]:
		return t[2]
	case t[1]:
		return t[0]
	case t[2]:
		return t[1]
	}
	panic("PrevVertex: vIdx not in triangle")
}

func NextVertex(t [3]int, vIdx int) int {
	switch vIdx {
	case t[0]:
		return t[1]
	case t[1]:
		return t[2]
	case t[2]:
		return t[0]
	}
	panic("NextVertex: vIdx not in triangle")
}
