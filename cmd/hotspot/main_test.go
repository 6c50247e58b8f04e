// Copyright (c) 2026 Andrey Kriulin
// Licensed under the MIT License.
// See the LICENSE file in the project root for full license text.

package main

import (
	"bytes"
	"context"
	"encoding/csv"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"testing"

	"github.com/Delebrith/make-climat-great-again/anneal"
	"github.com/Delebrith/make-climat-great-again/internal/config"
	"github.com/Delebrith/make-climat-great-again/point"
	"github.com/Delebrith/make-climat-great-again/utils"
)

func TestRun(t *testing.T) {
	dir := t.TempDir()
	cfg := config.Config{
		Data:              writeCSV(t, dir, utils.GenerateRandomWeightedPoints(300, 0, -1, 1)),
		MaxIterations:     200,
		Temperature:       0.5,
		CoolingRate:       0.95,
		Seed:              1,
		MinimalDensity:    5,
		MinimalRegression: -0.5,
		SVG:               filepath.Join(dir, "best.svg"),
		ProgressEvery:     50,
	}

	var out bytes.Buffer
	if err := run(context.Background(), slog.New(slog.DiscardHandler), cfg, &out); err != nil {
		t.Fatalf("run(...) error = %v, want nil", err)
	}

	got := out.String()
	for _, want := range []string{"Final result (", "Best result ("} {
		if !strings.Contains(got, want) {
			t.Errorf("run(...) output lacks %q:\n%s", want, got)
		}
	}
	if fi, err := os.Stat(cfg.SVG); err != nil || fi.Size() == 0 {
		t.Errorf("os.Stat(%q) = %v, %v, want non-empty file", cfg.SVG, fi, err)
	}

	var again bytes.Buffer
	if err := run(context.Background(), slog.New(slog.DiscardHandler), cfg, &again); err != nil {
		t.Fatalf("run(...) second error = %v, want nil", err)
	}
	if again.String() != got {
		t.Errorf("run(...) is not deterministic for seed %d", cfg.Seed)
	}
}

func TestRun_MissingFile(t *testing.T) {
	cfg := config.Config{
		Data:           filepath.Join(t.TempDir(), "missing.csv"),
		MaxIterations:  1,
		Temperature:    1,
		CoolingRate:    0.95,
		MinimalDensity: 1,
	}
	if err := run(context.Background(), slog.New(slog.DiscardHandler), cfg, &bytes.Buffer{}); err == nil {
		t.Errorf("run(missing file) error = nil, want error")
	}
}

func TestPrintResult(t *testing.T) {
	pts := []point.Point{
		{Lat: 57.05, Lng: 10.33, Label: "Århus"},
		{Lat: -34.56, Lng: 138.16, Label: "Adelaide"},
		{Lat: 5.63, Lng: -3.23, Label: "Abidjan"},
	}
	res := anneal.Result{Final: []int{0, 2}, Best: []int{1}}

	var buf bytes.Buffer
	if err := printResult(&buf, pts, res); err != nil {
		t.Fatalf("printResult(...) error = %v, want nil", err)
	}
	want := "\nFinal result (2) points:\n" +
		"Århus\t57.05N\t10.33E,\n" +
		"Abidjan\t5.63N\t3.23W\n" +
		"\nBest result (1) points:\n" +
		"Adelaide\t34.56S\t138.16E\n"
	if got := buf.String(); got != want {
		t.Errorf("printResult(...) = %q, want %q", got, want)
	}
}

func writeCSV(t *testing.T, dir string, pts []point.Point) string {
	t.Helper()
	path := filepath.Join(dir, "points.csv")
	f, err := os.Create(path)
	if err != nil {
		t.Fatalf("os.Create(%q) error = %v, want nil", path, err)
	}
	defer f.Close()

	w := csv.NewWriter(f)
	rows := [][]string{{"City", "Latitude", "Longitude", "Regression"}}
	for _, p := range pts {
		rows = append(rows, []string{
			p.Label,
			strconv.FormatFloat(p.Lat, 'f', -1, 64),
			strconv.FormatFloat(p.Lng, 'f', -1, 64),
			strconv.FormatFloat(p.Weight, 'f', -1, 64),
		})
	}
	if err := w.WriteAll(rows); err != nil {
		t.Fatalf("w.WriteAll(...) error = %v, want nil", err)
	}
	return path
}
