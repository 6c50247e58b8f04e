// Copyright (c) 2026 Andrey Kriulin
// Licensed under the MIT License.
// See the LICENSE file in the project root for full license text.

package region

import (
	"errors"
	"math"
	"math/rand"
	"slices"
	"testing"

	"github.com/Delebrith/make-climat-great-again/s2delaunay"
	"github.com/Delebrith/make-climat-great-again/utils"
	"github.com/golang/geo/s2"
	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
)

const lowDensity = 0.01

// Region

func TestNew_InvalidConfig(t *testing.T) {
	dt, weights := mustNewTetrahedron(t)
	tests := []struct {
		name    string
		dt      *s2delaunay.Triangulation
		weights []float64
		seed    int
		cfg     Config
	}{
		{"nil triangulation", nil, weights, 0, Config{MinDensity: 1}},
		{"zero density", dt, weights, 0, Config{MinDensity: 0}},
		{"negative density", dt, weights, 0, Config{MinDensity: -1}},
		{"NaN density", dt, weights, 0, Config{MinDensity: math.NaN()}},
		{"weights mismatch", dt, weights[:3], 0, Config{MinDensity: 1}},
		{"seed negative", dt, weights, -1, Config{MinDensity: 1}},
		{"seed out of range", dt, weights, 4, Config{MinDensity: 1}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := New(tt.dt, tt.weights, tt.seed, tt.cfg)
			if !errors.Is(err, ErrInvalidConfig) {
				t.Errorf("New(...) error = %v, want %v", err, ErrInvalidConfig)
			}
		})
	}
}

func TestNew_Singleton(t *testing.T) {
	dt, weights := mustNewRandomTriangulation(t, 100, 3)
	const minWeight = 0.0
	seed := firstQualifying(weights, minWeight)

	r, err := New(dt, weights, seed, Config{MinDensity: 1, MinWeight: minWeight})
	if err != nil {
		t.Fatalf("New(...) error = %v, want nil", err)
	}

	if diff := cmp.Diff([]int{seed}, r.Points()); diff != "" {
		t.Errorf("r.Points() mismatch (-want +got):\n%s", diff)
	}
	var want []int
	for _, n := range dt.Neighbors(seed) {
		if weights[n] > minWeight {
			want = append(want, n)
		}
	}
	slices.Sort(want)
	if diff := cmp.Diff(want, r.PointsToAdd()); diff != "" {
		t.Errorf("r.PointsToAdd() mismatch (-want +got):\n%s", diff)
	}
	if got := r.NumPointsToRemove(); got != 0 {
		t.Errorf("r.NumPointsToRemove() = %d, want 0", got)
	}
	if r.Area() != 0 || r.Value() != 0 {
		t.Errorf("r.Area(), r.Value() = %v, %v, want 0, 0", r.Area(), r.Value())
	}
	if !r.HasMinimalDensity() {
		t.Errorf("r.HasMinimalDensity() = false, want true")
	}
	if !math.IsInf(r.Density(), 1) {
		t.Errorf("r.Density() = %v, want +Inf", r.Density())
	}
	if r.CanRemove(seed) {
		t.Errorf("r.CanRemove(%d) = true for a singleton, want false", seed)
	}
}

func TestRegion_Tetrahedron(t *testing.T) {
	dt, weights := mustNewTetrahedron(t)

	for seed := range weights {
		r, err := New(dt, weights, seed, Config{MinDensity: lowDensity})
		if err != nil {
			t.Fatalf("New(..., %d, ...) error = %v, want nil", seed, err)
		}
		for _, n := range dt.Neighbors(seed) {
			if err := r.Add(n); err != nil {
				t.Fatalf("r.Add(%d) error = %v, want nil", n, err)
			}
		}

		if got := r.NumPoints(); got != 4 {
			t.Errorf("seed %d: r.NumPoints() = %d, want 4", seed, got)
		}
		if got := len(r.Triangles()); got != 4 {
			t.Errorf("seed %d: len(r.Triangles()) = %d, want 4", seed, got)
		}
		if math.Abs(r.Area()-4*math.Pi) > 1e-9 {
			t.Errorf("seed %d: r.Area() = %v, want 4π", seed, r.Area())
		}
		if r.Value() != r.Area() {
			t.Errorf("seed %d: r.Value() = %v, want area %v", seed, r.Value(), r.Area())
		}
		if got := r.NumPointsToAdd(); got != 0 {
			t.Errorf("seed %d: r.NumPointsToAdd() = %d, want 0", seed, got)
		}
		if !r.HasMinimalDensity() {
			t.Errorf("seed %d: r.HasMinimalDensity() = false, want true", seed)
		}
	}
}

func TestRegion_TetrahedronShrink(t *testing.T) {
	dt, weights := mustNewTetrahedron(t)
	r := mustNewRegion(t, dt, weights, 0, Config{MinDensity: lowDensity})
	for _, n := range []int{1, 2, 3} {
		if err := r.Add(n); err != nil {
			t.Fatalf("r.Add(%d) error = %v, want nil", n, err)
		}
	}

	for _, want := range []int{3, 2, 1} {
		if got := r.NumPointsToRemove(); got != r.NumPoints() {
			t.Fatalf("r.NumPointsToRemove() = %d with %d points, want all removable", got, r.NumPoints())
		}
		if err := r.Remove(r.PointToRemove(0)); err != nil {
			t.Fatalf("r.Remove(...) error = %v, want nil", err)
		}
		if got := r.NumPoints(); got != want {
			t.Fatalf("r.NumPoints() = %d, want %d", got, want)
		}
	}

	if got := r.NumPointsToRemove(); got != 0 {
		t.Errorf("r.NumPointsToRemove() = %d for a singleton, want 0", got)
	}
	if got := r.NumPointsToAdd(); got != 3 {
		t.Errorf("r.NumPointsToAdd() = %d for a singleton, want 3", got)
	}
	if r.Area() != 0 {
		t.Errorf("r.Area() = %v, want 0", r.Area())
	}
}

func TestRegion_CappedValue(t *testing.T) {
	tests := []struct {
		name        string
		minDensity  float64
		want        float64
		wantDensity bool
	}{
		{"under cap", lowDensity, 4 * math.Pi, true},
		{"cap fits two", 0.5, 2 * math.Pi, false},
		{"cap fits one", 1, 0, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dt, weights := mustNewTetrahedron(t)
			r := mustNewRegion(t, dt, weights, 0, Config{MinDensity: tt.minDensity})
			for _, n := range []int{1, 2, 3} {
				if err := r.Add(n); err != nil {
					t.Fatalf("r.Add(%d) error = %v, want nil", n, err)
				}
			}
			if math.Abs(r.Value()-tt.want) > 1e-9 {
				t.Errorf("r.Value() = %v, want %v", r.Value(), tt.want)
			}
			if got := r.HasMinimalDensity(); got != tt.wantDensity {
				t.Errorf("r.HasMinimalDensity() = %v, want %v", got, tt.wantDensity)
			}
		})
	}
}

func TestRegion_SecondPoint(t *testing.T) {
	dt, weights := mustNewRandomTriangulation(t, 100, 4)
	for i := range weights {
		weights[i] = 1
	}
	r := mustNewRegion(t, dt, weights, 0, Config{MinDensity: 1})
	p := r.PointToAdd(0)
	if err := r.Add(p); err != nil {
		t.Fatalf("r.Add(%d) error = %v, want nil", p, err)
	}

	want := slices.Clone(dt.ThirdVertices(0, p))
	slices.Sort(want)
	if diff := cmp.Diff(want, r.PointsToAdd()); diff != "" {
		t.Errorf("r.PointsToAdd() after second point mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]int{0, p}, r.PointsToRemove(), cmpopts.SortSlices(func(a, b int) bool { return a < b })); diff != "" {
		t.Errorf("r.PointsToRemove() mismatch (-want +got):\n%s", diff)
	}
	if got := len(r.Triangles()); got != 0 {
		t.Errorf("len(r.Triangles()) = %d, want 0", got)
	}

	if err := r.Remove(0); err != nil {
		t.Fatalf("r.Remove(0) error = %v, want nil", err)
	}
	want = slices.Clone(dt.Neighbors(p))
	slices.Sort(want)
	if diff := cmp.Diff(want, r.PointsToAdd()); diff != "" {
		t.Errorf("r.PointsToAdd() after shrinking to one point mismatch (-want +got):\n%s", diff)
	}
}

func TestRegion_NotCandidate(t *testing.T) {
	dt, weights := mustNewTetrahedron(t)
	r := mustNewRegion(t, dt, weights, 0, Config{MinDensity: 1})

	if err := r.Add(0); !errors.Is(err, ErrNotCandidate) {
		t.Errorf("r.Add(0) error = %v, want %v", err, ErrNotCandidate)
	}
	if err := r.Remove(0); !errors.Is(err, ErrNotCandidate) {
		t.Errorf("r.Remove(0) error = %v, want %v", err, ErrNotCandidate)
	}
	if err := r.Remove(1); !errors.Is(err, ErrNotCandidate) {
		t.Errorf("r.Remove(1) error = %v, want %v", err, ErrNotCandidate)
	}
}

func TestRegion_MinWeightFiltersFrontier(t *testing.T) {
	dt, weights := mustNewTetrahedron(t)
	weights[2] = -1
	r := mustNewRegion(t, dt, weights, 0, Config{MinDensity: 1, MinWeight: 0})

	if diff := cmp.Diff([]int{1, 3}, r.PointsToAdd()); diff != "" {
		t.Errorf("r.PointsToAdd() mismatch (-want +got):\n%s", diff)
	}
	if err := r.Add(1); err != nil {
		t.Fatalf("r.Add(1) error = %v, want nil", err)
	}
	if diff := cmp.Diff([]int{3}, r.PointsToAdd()); diff != "" {
		t.Errorf("r.PointsToAdd() mismatch (-want +got):\n%s", diff)
	}
}

func TestRegion_RandomMoves(t *testing.T) {
	tests := []struct {
		name       string
		n          int
		seed       int64
		minDensity float64
		minWeight  float64
	}{
		{"dense cap", 150, 1, 10, -0.5},
		{"loose cap", 150, 2, lowDensity, -0.5},
		{"all qualify", 80, 3, 5, -2},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dt, weights := mustNewRandomTriangulation(t, tt.n, tt.seed)
			seed := firstQualifying(weights, tt.minWeight)
			r := mustNewRegion(t, dt, weights, seed, Config{MinDensity: tt.minDensity, MinWeight: tt.minWeight})

			rng := rand.New(rand.NewSource(tt.seed))
			for i := range 600 {
				nAdd, nRem := r.NumPointsToAdd(), r.NumPointsToRemove()
				if nAdd+nRem == 0 {
					break
				}

				// Bias towards growth so the walk reaches larger regions.
				if nRem == 0 || (nAdd > 0 && rng.Float64() < 0.6) {
					p := r.PointToAdd(rng.Intn(nAdd))
					preview := r.ValueWithAdded(p)
					if err := r.Add(p); err != nil {
						t.Fatalf("move %d: r.Add(%d) error = %v, want nil", i, p, err)
					}
					if r.Value() != preview {
						t.Fatalf("move %d: r.Value() = %v after Add(%d), previewed %v", i, r.Value(), p, preview)
					}
				} else {
					p := r.PointToRemove(rng.Intn(nRem))
					preview := r.ValueWithRemoved(p)
					if err := r.Remove(p); err != nil {
						t.Fatalf("move %d: r.Remove(%d) error = %v, want nil", i, p, err)
					}
					if r.Value() != preview {
						t.Fatalf("move %d: r.Value() = %v after Remove(%d), previewed %v", i, r.Value(), p, preview)
					}
					assertTrianglesConnected(t, r)
				}
				assertInvariants(t, r, weights)
			}
		})
	}
}

func TestRegion_RoundTrip(t *testing.T) {
	dt, weights := mustNewRandomTriangulation(t, 120, 5)
	for i := range weights {
		weights[i] = 1
	}
	r := mustNewRegion(t, dt, weights, 0, Config{MinDensity: 1})

	rng := rand.New(rand.NewSource(5))
	for range 40 {
		if err := r.Add(r.PointToAdd(rng.Intn(r.NumPointsToAdd()))); err != nil {
			t.Fatalf("r.Add(...) error = %v, want nil", err)
		}
	}

	checked := 0
	for _, p := range r.PointsToAdd() {
		beforeArea, beforePoints, beforeValue := r.Area(), r.Points(), r.Value()
		if err := r.Add(p); err != nil {
			t.Fatalf("r.Add(%d) error = %v, want nil", p, err)
		}
		if !r.CanRemove(p) {
			t.Logf("point %d not removable right after adding it", p)
			break
		}
		if err := r.Remove(p); err != nil {
			t.Fatalf("r.Remove(%d) error = %v, want nil", p, err)
		}
		if r.Area() != beforeArea {
			t.Errorf("r.Area() = %v after add/remove of %d, want %v", r.Area(), p, beforeArea)
		}
		if r.Value() != beforeValue {
			t.Errorf("r.Value() = %v after add/remove of %d, want %v", r.Value(), p, beforeValue)
		}
		if diff := cmp.Diff(beforePoints, r.Points()); diff != "" {
			t.Errorf("r.Points() after add/remove of %d mismatch (-want +got):\n%s", p, diff)
		}
		checked++
	}
	if checked == 0 {
		t.Fatalf("no point could be added and removed again")
	}
}

// Value

func TestCappedValue(t *testing.T) {
	tests := []struct {
		name    string
		areas   []float64
		maxArea float64
		want    float64
	}{
		{"under cap", []float64{1, 2, 3}, 10, 6},
		{"at cap", []float64{1, 2, 3}, 6, 6},
		{"third subtracted", []float64{1, 2, 3}, 3.5, 0},
		{"goes negative", []float64{1, 1, 5}, 4, -3},
		{"refills after subtraction", []float64{1, 2, 2, 2}, 3, 3},
		{"nothing fits", []float64{2, 3}, 1, -5},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := cappedValue(tt.areas, tt.maxArea); got != tt.want {
				t.Errorf("cappedValue(%v, %v) = %v, want %v", tt.areas, tt.maxArea, got, tt.want)
			}
		})
	}
}

// Seed

func TestPickSeed(t *testing.T) {
	weights := []float64{-1, 0.5, 0, 2, -3}
	rng := rand.New(rand.NewSource(0))
	for range 50 {
		got, err := PickSeed(weights, 0, rng)
		if err != nil {
			t.Fatalf("PickSeed(...) error = %v, want nil", err)
		}
		if got != 1 && got != 3 {
			t.Fatalf("PickSeed(...) = %d, want 1 or 3", got)
		}
	}

	a, _ := PickSeed(weights, 0, rand.New(rand.NewSource(9)))
	b, _ := PickSeed(weights, 0, rand.New(rand.NewSource(9)))
	if a != b {
		t.Errorf("PickSeed with equal seeds = %d and %d, want equal", a, b)
	}

	if _, err := PickSeed(weights, 2, rng); !errors.Is(err, ErrNoQualifyingSeed) {
		t.Errorf("PickSeed(..., 2, ...) error = %v, want %v", err, ErrNoQualifyingSeed)
	}
	if _, err := PickSeed(nil, 0, rng); !errors.Is(err, ErrNoQualifyingSeed) {
		t.Errorf("PickSeed(nil, ...) error = %v, want %v", err, ErrNoQualifyingSeed)
	}
}

// Helpers

func mustNewTetrahedron(t *testing.T) (*s2delaunay.Triangulation, []float64) {
	t.Helper()
	dt, err := s2delaunay.NewTriangulation(s2.PointVector{
		s2.PointFromCoords(1, 1, 1),
		s2.PointFromCoords(1, -1, -1),
		s2.PointFromCoords(-1, 1, -1),
		s2.PointFromCoords(-1, -1, 1),
	})
	if err != nil {
		t.Fatalf("NewTriangulation(tetrahedron) error = %v, want nil", err)
	}
	return dt, []float64{1, 1, 1, 1}
}

func mustNewRandomTriangulation(t *testing.T, n int, seed int64) (*s2delaunay.Triangulation, []float64) {
	t.Helper()
	points := utils.GenerateRandomWeightedPoints(n, seed, -1, 1)
	vertices := make(s2.PointVector, n)
	weights := make([]float64, n)
	for i, p := range points {
		vertices[i] = p.S2Point()
		weights[i] = p.Weight
	}
	dt, err := s2delaunay.NewTriangulation(vertices)
	if err != nil {
		t.Fatalf("NewTriangulation(...) error = %v, want nil", err)
	}
	return dt, weights
}

func mustNewRegion(t *testing.T, dt *s2delaunay.Triangulation, weights []float64, seed int, cfg Config) *Region {
	t.Helper()
	r, err := New(dt, weights, seed, cfg)
	if err != nil {
		t.Fatalf("New(...) error = %v, want nil", err)
	}
	return r
}

func firstQualifying(weights []float64, minWeight float64) int {
	for i, w := range weights {
		if w > minWeight {
			return i
		}
	}
	return 0
}

func assertInvariants(t *testing.T, r *Region, weights []float64) {
	t.Helper()

	for _, p := range r.toAdd.items {
		if r.points.Has(p) {
			t.Fatalf("point %d is both in the region and in the add frontier", p)
		}
		if weights[p] <= r.cfg.MinWeight {
			t.Fatalf("point %d with weight %v is in the add frontier", p, weights[p])
		}
	}

	var wantRemove []int
	for _, p := range r.points.items {
		if r.CanRemove(p) {
			wantRemove = append(wantRemove, p)
		}
	}
	slices.Sort(wantRemove)
	if diff := cmp.Diff(wantRemove, r.PointsToRemove(), cmpopts.EquateEmpty()); diff != "" {
		t.Fatalf("r.PointsToRemove() mismatch (-want +got):\n%s", diff)
	}

	var wantTris []int
	for i, tri := range r.dt.Triangles {
		if r.points.Has(tri.Vertices[0]) && r.points.Has(tri.Vertices[1]) && r.points.Has(tri.Vertices[2]) {
			wantTris = append(wantTris, i)
		}
	}
	if diff := cmp.Diff(wantTris, r.Triangles(), cmpopts.EquateEmpty()); diff != "" {
		t.Fatalf("r.Triangles() mismatch (-want +got):\n%s", diff)
	}

	sum := 0.0
	for _, tIdx := range wantTris {
		sum += r.dt.Triangles[tIdx].Area
	}
	if math.Abs(sum-r.Area()) > 1e-9 {
		t.Fatalf("r.Area() = %v, want %v", r.Area(), sum)
	}

	assertPointsConnected(t, r)
}

// assertPointsConnected checks that the region points are connected through
// triangulation edges between region points.
func assertPointsConnected(t *testing.T, r *Region) {
	t.Helper()
	start := r.points.At(0)
	seen := map[int]bool{start: true}
	queue := []int{start}
	for len(queue) > 0 {
		v := queue[0]
		queue = queue[1:]
		for _, n := range r.dt.Neighbors(v) {
			if r.points.Has(n) && !seen[n] {
				seen[n] = true
				queue = append(queue, n)
			}
		}
	}
	if len(seen) != r.points.Len() {
		t.Fatalf("region points reachable = %d, want %d", len(seen), r.points.Len())
	}
}

// assertTrianglesConnected checks that the region triangles form one component under
// edge adjacency.
func assertTrianglesConnected(t *testing.T, r *Region) {
	t.Helper()
	if r.triangles.Len() == 0 {
		return
	}
	start := r.triangles.At(0)
	seen := map[int]bool{start: true}
	queue := []int{start}
	for len(queue) > 0 {
		tIdx := queue[0]
		queue = queue[1:]
		for _, adj := range r.dt.Triangles[tIdx].Adjacent {
			if r.triangles.Has(adj) && !seen[adj] {
				seen[adj] = true
				queue = append(queue, adj)
			}
		}
	}
	if len(seen) != r.triangles.Len() {
		t.Fatalf("region triangles reachable = %d, want %d", len(seen), r.triangles.Len())
	}
}
