// Copyright (c) 2026 Andrey Kriulin
// Licensed under the MIT License.
// See the LICENSE file in the project root for full license text.

package s2delaunay

import (
	"slices"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

// Stats summarizes the triangle areas of a Triangulation. On a closed hull TotalArea
// is 4π up to rounding.
type Stats struct {
	NumTriangles int
	TotalArea    float64
	MinArea      float64
	MaxArea      float64
	MeanArea     float64
	MedianArea   float64
	// Density is the number of vertices per steradian.
	Density float64
}

func (dt *Triangulation) ComputeStats() Stats {
	if len(dt.Triangles) == 0 {
		return Stats{}
	}

	areas := make([]float64, len(dt.Triangles))
	for i := range dt.Triangles {
		areas[i] = dt.Triangles[i].Area
	}
	slices.Sort(areas)

	total := floats.Sum(areas)
	return Stats{
		NumTriangles: len(areas),
		TotalArea:    total,
		MinArea:      floats.Min(areas),
		MaxArea:      floats.Max(areas),
		MeanArea:     stat.Mean(areas, nil),
		MedianArea:   stat.Quantile(0.5, stat.Empirical, areas, nil),
		Density:      float64(len(dt.Vertices)) / total,
	}
}
