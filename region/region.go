// Copyright (c) 2026 Andrey Kriulin
// Licensed under the MIT License.
// See the LICENSE file in the project root for full license text.

// Package region implements a connected patch of a spherical triangulation that grows and
// shrinks one vertex at a time while keeping its area, capped value and frontier sets
// consistent.
package region

import (
	"errors"
	"fmt"
	"math"
	"slices"

	"github.com/Delebrith/make-climat-great-again/s2delaunay"
)

var (
	ErrInvalidConfig = errors.New("region: invalid config")
	ErrNotCandidate  = errors.New("region: point is not a move candidate")
)

// Config holds the thresholds a Region is grown under.
type Config struct {
	// MinDensity is the number of points per steradian a region must keep.
	MinDensity float64
	// MinWeight is the exclusive lower bound on the weight of points that may join.
	MinWeight float64
}

// Region is a connected set of vertices of a Triangulation together with the triangles
// whose three corners all belong to it. A Region is not safe for concurrent use.
type Region struct {
	dt      *s2delaunay.Triangulation
	weights []float64
	cfg     Config

	points    *indexSet
	triangles *indexSet
	toAdd     *indexSet
	toRemove  *indexSet

	area  float64
	value float64
}

// New returns a Region holding only seed. weights[i] is the weight of dt.Vertices[i].
func New(dt *s2delaunay.Triangulation, weights []float64, seed int, cfg Config) (*Region, error) {
	if dt == nil {
		return nil, fmt.Errorf("%w: nil triangulation", ErrInvalidConfig)
	}
	if !(cfg.MinDensity > 0) || math.IsInf(cfg.MinDensity, 1) {
		return nil, fmt.Errorf("%w: min density %v must be positive", ErrInvalidConfig, cfg.MinDensity)
	}
	if len(weights) != len(dt.Vertices) {
		return nil, fmt.Errorf("%w: %d weights for %d vertices", ErrInvalidConfig, len(weights), len(dt.Vertices))
	}
	if seed < 0 || seed >= len(dt.Vertices) {
		return nil, fmt.Errorf("%w: seed %d out of range [0 %d)", ErrInvalidConfig, seed, len(dt.Vertices))
	}

	r := &Region{
		dt:        dt,
		weights:   weights,
		cfg:       cfg,
		points:    newIndexSet(),
		triangles: newIndexSet(),
		toAdd:     newIndexSet(),
		toRemove:  newIndexSet(),
	}
	r.points.Add(seed)
	r.addQualifyingNeighbors(seed)
	return r, nil
}

// Add moves p from the add frontier into the region.
func (r *Region) Add(p int) error {
	if !r.toAdd.Has(p) {
		return fmt.Errorf("%w: cannot add %d", ErrNotCandidate, p)
	}

	r.points.Add(p)
	if r.points.Len() == 2 {
		// A pair has no triangles yet; only common neighbours of the pair can extend it.
		r.toAdd.Clear()
	} else {
		r.toAdd.Remove(p)
	}

	for _, q := range r.dt.Neighbors(p) {
		if !r.points.Has(q) {
			continue
		}
		for _, m := range r.dt.ThirdVertices(p, q) {
			switch {
			case r.points.Has(m):
				tIdx, _ := r.dt.TriangleIndex(p, q, m)
				r.triangles.Add(tIdx)
			case r.weights[m] > r.cfg.MinWeight:
				r.toAdd.Add(m)
			}
		}
	}

	r.refresh()
	return nil
}

// Remove moves p from the region back to the add frontier.
func (r *Region) Remove(p int) error {
	if !r.toRemove.Has(p) {
		return fmt.Errorf("%w: cannot remove %d", ErrNotCandidate, p)
	}

	r.points.Remove(p)
	for _, tIdx := range r.dt.IncidentTriangles(p) {
		r.triangles.Remove(tIdx)
	}

	if r.points.Len() == 1 {
		r.toAdd.Clear()
		r.addQualifyingNeighbors(r.points.At(0))
	} else {
		for _, q := range r.dt.Neighbors(p) {
			if r.toAdd.Has(q) && !r.formsTriangle(q) {
				r.toAdd.Remove(q)
			}
		}
		r.toAdd.Add(p)
	}

	r.refresh()
	return nil
}

// ValueWithAdded returns the value the region would have after Add(p) without changing it.
func (r *Region) ValueWithAdded(p int) float64 {
	tris := r.triangles.Items()
	for _, tIdx := range r.dt.IncidentTriangles(p) {
		if r.otherCornersIn(tIdx, p) {
			tris = append(tris, tIdx)
		}
	}
	_, v := r.evaluate(r.points.Len()+1, tris)
	return v
}

// ValueWithRemoved returns the value the region would have after Remove(p) without changing it.
func (r *Region) ValueWithRemoved(p int) float64 {
	tris := make([]int, 0, r.triangles.Len())
	for _, tIdx := range r.triangles.items {
		if !r.dt.Triangles[tIdx].Contains(p) {
			tris = append(tris, tIdx)
		}
	}
	_, v := r.evaluate(r.points.Len()-1, tris)
	return v
}

// HasMinimalDensity reports whether the region keeps at least MinDensity points per
// steradian.
func (r *Region) HasMinimalDensity() bool {
	return float64(r.points.Len()) >= r.cfg.MinDensity*r.area
}

// Density returns the number of points per steradian, +Inf for a region without area.
func (r *Region) Density() float64 {
	if r.area == 0 {
		return math.Inf(1)
	}
	return float64(r.points.Len()) / r.area
}

func (r *Region) Area() float64  { return r.area }
func (r *Region) Value() float64 { return r.value }
func (r *Region) Config() Config { return r.cfg }

func (r *Region) NumPoints() int         { return r.points.Len() }
func (r *Region) NumPointsToAdd() int    { return r.toAdd.Len() }
func (r *Region) NumPointsToRemove() int { return r.toRemove.Len() }
func (r *Region) Contains(p int) bool    { return r.points.Has(p) }

// PointToAdd returns the i-th point of the add frontier in its deterministic order.
func (r *Region) PointToAdd(i int) int { return r.toAdd.At(i) }

// PointToRemove returns the i-th point of the remove frontier in its deterministic order.
func (r *Region) PointToRemove(i int) int { return r.toRemove.At(i) }

// Points returns the member vertex indices in ascending order.
func (r *Region) Points() []int { return sorted(r.points) }

// Triangles returns the member triangle indices in ascending order.
func (r *Region) Triangles() []int { return sorted(r.triangles) }

func (r *Region) PointsToAdd() []int    { return sorted(r.toAdd) }
func (r *Region) PointsToRemove() []int { return sorted(r.toRemove) }

func (r *Region) addQualifyingNeighbors(v int) {
	for _, n := range r.dt.Neighbors(v) {
		if r.weights[n] > r.cfg.MinWeight {
			r.toAdd.Add(n)
		}
	}
}

// formsTriangle reports whether q together with two region points makes a triangle.
func (r *Region) formsTriangle(q int) bool {
	for _, n := range r.dt.Neighbors(q) {
		if !r.points.Has(n) {
			continue
		}
		for _, m := range r.dt.ThirdVertices(q, n) {
			if r.points.Has(m) {
				return true
			}
		}
	}
	return false
}

func (r *Region) otherCornersIn(tIdx, p int) bool {
	for _, v := range r.dt.Triangles[tIdx].Vertices {
		if v != p && !r.points.Has(v) {
			return false
		}
	}
	return true
}

func (r *Region) refresh() {
	r.toRemove.Clear()
	for _, p := range r.points.items {
		if r.CanRemove(p) {
			r.toRemove.Add(p)
		}
	}
	r.area, r.value = r.evaluate(r.points.Len(), r.triangles.items)
}

func sorted(s *indexSet) []int {
	out := s.Items()
	slices.Sort(out)
	return out
}
