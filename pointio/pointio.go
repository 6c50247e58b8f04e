// Copyright (c) 2026 Andrey Kriulin
// Licensed under the MIT License.
// See the LICENSE file in the project root for full license text.

// Package pointio loads weighted points from CSV files.
package pointio

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/Delebrith/make-climat-great-again/point"
)

var (
	ErrMissingColumn = errors.New("pointio: missing column")
	ErrNoPoints      = errors.New("pointio: no points")
)

// Columns names the header fields holding each point attribute. An empty Label selects
// no label column.
type Columns struct {
	Latitude  string
	Longitude string
	Weight    string
	Label     string
}

// DefaultColumns matches the regression output of the temperature data set.
var DefaultColumns = Columns{
	Latitude:  "Latitude",
	Longitude: "Longitude",
	Weight:    "Regression",
	Label:     "City",
}

// RowError reports the 1-based CSV line a record failed on. The header is line 1.
type RowError struct {
	Line int
	Err  error
}

func (e *RowError) Error() string {
	return fmt.Sprintf("pointio: line %d: %v", e.Line, e.Err)
}

func (e *RowError) Unwrap() error { return e.Err }

// Load reads points from the CSV file at path.
func Load(path string, cols Columns) ([]point.Point, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("pointio: %w", err)
	}
	defer f.Close()

	return ReadCSV(f, cols)
}

// ReadCSV reads a header row and then one point per record. It stops at the first bad
// record.
func ReadCSV(r io.Reader, cols Columns) ([]point.Point, error) {
	cr := csv.NewReader(r)
	cr.TrimLeadingSpace = true

	header, err := cr.Read()
	if errors.Is(err, io.EOF) {
		return nil, ErrNoPoints
	}
	if err != nil {
		return nil, fmt.Errorf("pointio: header: %w", err)
	}
	idx, err := columnIndices(header, cols)
	if err != nil {
		return nil, err
	}

	var pts []point.Point
	for line := 2; ; line++ {
		rec, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, &RowError{Line: line, Err: err}
		}
		p, err := parseRecord(rec, idx)
		if err != nil {
			return nil, &RowError{Line: line, Err: err}
		}
		pts = append(pts, p)
	}
	if len(pts) == 0 {
		return nil, ErrNoPoints
	}
	return pts, nil
}

// Unique drops points sharing coordinates with an earlier point, keeping the first.
func Unique(pts []point.Point) []point.Point {
	type latLng struct{ lat, lng float64 }
	seen := make(map[latLng]bool, len(pts))
	out := make([]point.Point, 0, len(pts))
	for _, p := range pts {
		k := latLng{p.Lat, p.Lng}
		if seen[k] {
			continue
		}
		seen[k] = true
		out = append(out, p)
	}
	return out
}

type indices struct {
	lat, lng, weight, label int
}

func columnIndices(header []string, cols Columns) (indices, error) {
	pos := make(map[string]int, len(header))
	for i, h := range header {
		pos[strings.TrimSpace(h)] = i
	}
	find := func(name string) (int, error) {
		i, ok := pos[name]
		if !ok {
			return 0, fmt.Errorf("%w: %q", ErrMissingColumn, name)
		}
		return i, nil
	}

	var (
		idx indices
		err error
	)
	if idx.lat, err = find(cols.Latitude); err != nil {
		return idx, err
	}
	if idx.lng, err = find(cols.Longitude); err != nil {
		return idx, err
	}
	if idx.weight, err = find(cols.Weight); err != nil {
		return idx, err
	}
	idx.label = -1
	if cols.Label != "" {
		if idx.label, err = find(cols.Label); err != nil {
			return idx, err
		}
	}
	return idx, nil
}

func parseRecord(rec []string, idx indices) (point.Point, error) {
	lat, err := point.ParseLatitude(rec[idx.lat])
	if err != nil {
		return point.Point{}, err
	}
	lng, err := point.ParseLongitude(rec[idx.lng])
	if err != nil {
		return point.Point{}, err
	}
	weight, err := strconv.ParseFloat(strings.TrimSpace(rec[idx.weight]), 64)
	if err != nil {
		return point.Point{}, fmt.Errorf("weight %q: %w", rec[idx.weight], err)
	}
	var label string
	if idx.label >= 0 {
		label = rec[idx.label]
	}
	return point.New(lat, lng, weight, label)
}
