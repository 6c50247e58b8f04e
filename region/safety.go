// Copyright (c) 2026 Andrey Kriulin
// Licensed under the MIT License.
// See the LICENSE file in the project root for full license text.

package region

// CanRemove reports whether p can leave the region without disconnecting it.
//
// A singleton region keeps its only point and regions of up to three points may drop any
// of them. Larger regions may drop p only if every region neighbour of p keeps a triangle
// that does not touch p, and the triangles not touching p stay connected through shared
// edges.
func (r *Region) CanRemove(p int) bool {
	if !r.points.Has(p) {
		return false
	}
	switch n := r.points.Len(); {
	case n == 1:
		return false
	case n <= 3:
		return true
	}

	for _, q := range r.dt.Neighbors(p) {
		if r.points.Has(q) && !r.keepsTriangleWithout(q, p) {
			return false
		}
	}

	return r.connectedWithout(p)
}

func (r *Region) keepsTriangleWithout(q, p int) bool {
	for _, tIdx := range r.dt.IncidentTriangles(q) {
		if r.triangles.Has(tIdx) && !r.dt.Triangles[tIdx].Contains(p) {
			return true
		}
	}
	return false
}

// connectedWithout walks the region triangles not containing p breadth first and reports
// whether the walk reaches all of them.
func (r *Region) connectedWithout(p int) bool {
	remaining := make(map[int]bool, r.triangles.Len())
	start := -1
	for _, tIdx := range r.triangles.items {
		if !r.dt.Triangles[tIdx].Contains(p) {
			remaining[tIdx] = true
			start = tIdx
		}
	}
	if start < 0 {
		return false
	}

	delete(remaining, start)
	queue := []int{start}
	for len(queue) > 0 {
		tIdx := queue[0]
		queue = queue[1:]
		for _, adj := range r.dt.Triangles[tIdx].Adjacent {
			if remaining[adj] {
				delete(remaining, adj)
				queue = append(queue, adj)
			}
		}
	}
	return len(remaining) == 0
}
