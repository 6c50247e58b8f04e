// Copyright (c) 2026 Andrey Kriulin
// Licensed under the MIT License.
// See the LICENSE file in the project root for full license text.

// Package point defines weighted sample points on the sphere and their textual form.

package point

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/golang/geo/s2"
)

var (
	ErrMalformedCoordinate = errors.New("point: malformed coordinate")
	ErrOutOfRange          = errors.New("point: coordinate out of range")
)

// Point is a geo-tagged sample with a scalar weight. Points are values and are never
// mutated after loading.
type Point struct {
	Lat    float64
	Lng    float64
	Weight float64
	Label  string
}

// Key identifies a point by position and label; the weight is not part of it.
type Key struct {
	Lat   float64
	Lng   float64
	Label string
}

// New returns a Point after checking that the coordinates are finite degrees in range.
func New(lat, lng, weight float64, label string) (Point, error) {
	if math.IsNaN(lat) || lat < -90 || lat > 90 {
		return Point{}, fmt.Errorf("%w: latitude %v", ErrOutOfRange, lat)
	}
	if math.IsNaN(lng) || lng < -180 || lng > 180 {
		return Point{}, fmt.Errorf("%w: longitude %v", ErrOutOfRange, lng)
	}
	if math.IsNaN(weight) || math.IsInf(weight, 0) {
		return Point{}, fmt.Errorf("point: weight %v is not finite", weight)
	}
	return Point{Lat: lat, Lng: lng, Weight: weight, Label: label}, nil
}

func (p Point) Key() Key {
	return Key{Lat: p.Lat, Lng: p.Lng, Label: p.Label}
}

// Equal reports whether p and o denote the same sample.
func (p Point) Equal(o Point) bool {
	return p.Key() == o.Key()
}

// S2Point returns the point on the unit sphere.
func (p Point) S2Point() s2.Point {
	return s2.PointFromLatLng(s2.LatLngFromDegrees(p.Lat, p.Lng))
}

// String renders the point as "label<TAB>lat<TAB>lng" with hemisphere suffixes.
func (p Point) String() string {
	return p.Label + "\t" + formatCoordinate(p.Lat, 'N', 'S') + "\t" + formatCoordinate(p.Lng, 'E', 'W')
}

// ParseLatitude parses degrees given either as a plain number or with an N/S suffix.
func ParseLatitude(s string) (float64, error) {
	v, err := parseCoordinate(s, 'N', 'S')
	if err != nil {
		return 0, err
	}
	if v < -90 || v > 90 {
		return 0, fmt.Errorf("%w: latitude %q", ErrOutOfRange, s)
	}
	return v, nil
}

// ParseLongitude parses degrees given either as a plain number or with an E/W suffix.
func ParseLongitude(s string) (float64, error) {
	v, err := parseCoordinate(s, 'E', 'W')
	if err != nil {
		return 0, err
	}
	if v < -180 || v > 180 {
		return 0, fmt.Errorf("%w: longitude %q", ErrOutOfRange, s)
	}
	return v, nil
}

func parseCoordinate(s string, positive, negative byte) (float64, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, fmt.Errorf("%w: empty value", ErrMalformedCoordinate)
	}

	sign := 1.0
	switch s[len(s)-1] {
	case positive, positive + 'a' - 'A':
		s = s[:len(s)-1]
	case negative, negative + 'a' - 'A':
		s = s[:len(s)-1]
		sign = -1
	}

	v, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, fmt.Errorf("%w: %q", ErrMalformedCoordinate, s)
	}
	return sign * v, nil
}

func formatCoordinate(v float64, positive, negative byte) string {
	suffix := positive
	if v < 0 {
		suffix = negative
	}
	return strconv.FormatFloat(math.Abs(v), 'f', -1, 64) + string(suffix)
}
