// Copyright (c) 2026 Andrey Kriulin
// Licensed under the MIT License.
// See the LICENSE file in the project root for full license text.

// Command hotspot searches a CSV of weighted points for the connected region of highest
// density-capped area.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"math/rand"
	"os"
	"os/signal"

	"github.com/Delebrith/make-climat-great-again/anneal"
	"github.com/Delebrith/make-climat-great-again/internal/config"
	"github.com/Delebrith/make-climat-great-again/internal/logger"
	"github.com/Delebrith/make-climat-great-again/point"
	"github.com/Delebrith/make-climat-great-again/pointio"
	"github.com/Delebrith/make-climat-great-again/region"
	"github.com/Delebrith/make-climat-great-again/render"
	"github.com/Delebrith/make-climat-great-again/s2delaunay"
	"github.com/golang/geo/s2"
	"github.com/google/uuid"
	"github.com/joho/godotenv"
)

func main() {
	_ = godotenv.Load(".env")

	log := logger.Setup(os.Getenv).With("run_id", uuid.NewString())

	cfg, err := config.Load(os.Args[1:], os.Getenv, os.Stderr)
	if errors.Is(err, flag.ErrHelp) {
		return
	}
	if err != nil {
		log.Error("config_error", "error", err)
		os.Exit(2)
	}

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt)
	defer cancel()

	if err := run(ctx, log, cfg, os.Stdout); err != nil {
		log.Error("run_error", "error", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, log *slog.Logger, cfg config.Config, out io.Writer) error {
	// ----------------------------------------------------------------------------
	// Input

	loaded, err := pointio.Load(cfg.Data, pointio.DefaultColumns)
	if err != nil {
		return err
	}
	pts := pointio.Unique(loaded)
	if dropped := len(loaded) - len(pts); dropped > 0 {
		log.Warn("duplicate_points_dropped", "count", dropped)
	}

	vertices := make(s2.PointVector, len(pts))
	weights := make([]float64, len(pts))
	for i, p := range pts {
		vertices[i] = p.S2Point()
		weights[i] = p.Weight
	}

	dt, err := s2delaunay.NewTriangulation(vertices)
	if err != nil {
		return fmt.Errorf("triangulation: %w", err)
	}
	stats := dt.ComputeStats()
	log.Info("triangulation_built",
		"points", len(pts),
		"triangles", stats.NumTriangles,
		"total_area", stats.TotalArea,
		"median_area", stats.MedianArea,
		"density", stats.Density,
	)

	// ----------------------------------------------------------------------------
	// Search

	rng := rand.New(rand.NewSource(cfg.Seed))
	seed, err := region.PickSeed(weights, cfg.MinimalRegression, rng)
	if err != nil {
		return err
	}
	log.Info("seed_picked", "point", seed, "label", pts[seed].Label)

	r, err := region.New(dt, weights, seed, region.Config{
		MinDensity: cfg.MinimalDensity,
		MinWeight:  cfg.MinimalRegression,
	})
	if err != nil {
		return err
	}

	opts := []anneal.Option{anneal.WithLogger(log)}
	if cfg.ProgressEvery > 0 {
		opts = append(opts, anneal.WithProgress(progressLogger(log, cfg.ProgressEvery)))
	}
	opt, err := anneal.New(r, rng, anneal.Config{
		Temperature:   cfg.Temperature,
		CoolingRate:   cfg.CoolingRate,
		MaxIterations: cfg.MaxIterations,
	}, opts...)
	if err != nil {
		return err
	}

	res, err := opt.Run(ctx)
	if err != nil {
		return err
	}

	// ----------------------------------------------------------------------------
	// Output

	if err := printResult(out, pts, res); err != nil {
		return err
	}
	if cfg.SVG != "" {
		if err := writeSVG(cfg.SVG, dt, pts, res.Best); err != nil {
			return err
		}
		log.Info("svg_written", "path", cfg.SVG)
	}
	return nil
}

func progressLogger(log *slog.Logger, every int) func(anneal.Progress) {
	return func(p anneal.Progress) {
		if p.Iteration%every != 0 && p.Iteration != p.MaxIterations {
			return
		}
		log.Info("anneal_progress",
			"iteration", p.Iteration,
			"max_iterations", p.MaxIterations,
			"area", p.Area,
			"value", p.Value,
			"best_value", p.BestValue,
			"density", p.Density,
			"min_density", p.MinDensity,
			"temperature", p.Temperature,
		)
	}
}

func printResult(w io.Writer, pts []point.Point, res anneal.Result) error {
	if err := printPoints(w, "Final", pts, res.Final); err != nil {
		return err
	}
	return printPoints(w, "Best", pts, res.Best)
}

func printPoints(w io.Writer, title string, pts []point.Point, idx []int) error {
	if _, err := fmt.Fprintf(w, "\n%s result (%d) points:\n", title, len(idx)); err != nil {
		return err
	}
	for i, p := range idx {
		sep := ",\n"
		if i == len(idx)-1 {
			sep = "\n"
		}
		if _, err := fmt.Fprint(w, pts[p].String(), sep); err != nil {
			return err
		}
	}
	return nil
}

func writeSVG(path string, dt *s2delaunay.Triangulation, pts []point.Point, regionPoints []int) (err error) {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := f.Close(); err == nil {
			err = cerr
		}
	}()

	return render.SVG(f, dt, pts, regionPoints, render.DefaultOptions())
}
