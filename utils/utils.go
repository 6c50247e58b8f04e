// Copyright (c) 2026 Andrey Kriulin
// Licensed under the MIT License.
// See the LICENSE file in the project root for full license text.

// Package utils provides utility functions for generating random sites and weighted samples on the S2 sphere.

package utils

import (
	"math"
	"math/rand"
	"strconv"

	"github.com/Delebrith/make-climat-great-again/point"
	"github.com/golang/geo/s1"
	"github.com/golang/geo/s2"
)

// GenerateRandomPoints generates a vector of random points on the S2 sphere.
// The seed parameter ensures reproducibility.
func GenerateRandomPoints(cnt int, seed int64) s2.PointVector {
	//nolint:gosec
	random := rand.New(rand.NewSource(seed))
	sites := make(s2.PointVector, cnt)

	for i := range cnt {
		sites[i] = s2.PointFromLatLng(s2.LatLng{
			Lat: s1.Angle((random.Float64() - 0.5) * math.Pi),
			Lng: s1.Angle((random.Float64()*2 - 1) * math.Pi),
		})
	}

	return sites
}

// GenerateRandomWeightedPoints generates cnt labelled samples at random positions with
// weights drawn uniformly from [minWeight, maxWeight). Labels are "p<index>".
func GenerateRandomWeightedPoints(cnt int, seed int64, minWeight, maxWeight float64) []point.Point {
	//nolint:gosec
	random := rand.New(rand.NewSource(seed))
	points := make([]point.Point, cnt)

	for i := range cnt {
		ll := s2.LatLng{
			Lat: s1.Angle((random.Float64() - 0.5) * math.Pi),
			Lng: s1.Angle((random.Float64()*2 - 1) * math.Pi),
		}
		points[i] = point.Point{
			Lat:    ll.Lat.Degrees(),
			Lng:    ll.Lng.Degrees(),
			Weight: minWeight + random.Float64()*(maxWeight-minWeight),
			Label:  "p" + strconv.Itoa(i),
		}
	}

	return points
}
