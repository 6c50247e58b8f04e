// Copyright (c) 2026 Andrey Kriulin
// Licensed under the MIT License.
// See the LICENSE file in the project root for full license text.

// Package config reads the hotspot command configuration from flags, falling back to
// HOTSPOT_* environment variables for defaults.
package config

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"strconv"

	"github.com/Delebrith/make-climat-great-again/anneal"
)

var ErrInvalid = errors.New("config: invalid")

type Config struct {
	Data              string
	MaxIterations     int
	Temperature       float64
	CoolingRate       float64
	Seed              int64
	MinimalDensity    float64
	MinimalRegression float64
	// SVG is an optional path the best region is rendered to.
	SVG string
	// ProgressEvery logs progress every n iterations; 0 disables it.
	ProgressEvery int
}

// Load parses args (without the program name). Flag defaults come from getenv so that
// explicit flags always win over the environment.
func Load(args []string, getenv func(string) string, output io.Writer) (Config, error) {
	var (
		cfg  Config
		errs []error
	)
	envString := func(key, def string) string {
		if v := getenv(key); v != "" {
			return v
		}
		return def
	}
	envInt := func(key string, def int) int {
		v := getenv(key)
		if v == "" {
			return def
		}
		n, err := strconv.Atoi(v)
		if err != nil {
			errs = append(errs, fmt.Errorf("%s=%q: %w", key, v, err))
			return def
		}
		return n
	}
	envFloat := func(key string, def float64) float64 {
		v := getenv(key)
		if v == "" {
			return def
		}
		f, err := strconv.ParseFloat(v, 64)
		if err != nil {
			errs = append(errs, fmt.Errorf("%s=%q: %w", key, v, err))
			return def
		}
		return f
	}

	fs := flag.NewFlagSet("hotspot", flag.ContinueOnError)
	fs.SetOutput(output)
	fs.StringVar(&cfg.Data, "data", envString("HOTSPOT_DATA", ""), "CSV file with Latitude, Longitude, Regression and City columns")
	fs.IntVar(&cfg.MaxIterations, "max_iterations", envInt("HOTSPOT_MAX_ITERATIONS", 10000), "annealing iteration budget")
	fs.Float64Var(&cfg.Temperature, "temperature", envFloat("HOTSPOT_TEMPERATURE", 1), "initial temperature")
	fs.Float64Var(&cfg.CoolingRate, "cooling_rate", envFloat("HOTSPOT_COOLING_RATE", anneal.DefaultCoolingRate), "temperature factor per iteration")
	fs.Int64Var(&cfg.Seed, "seed", int64(envInt("HOTSPOT_SEED", 0)), "random seed")
	fs.Float64Var(&cfg.MinimalDensity, "minimal_density", envFloat("HOTSPOT_MINIMAL_DENSITY", 100), "minimal points per steradian of the best region")
	fs.Float64Var(&cfg.MinimalRegression, "minimal_regression", envFloat("HOTSPOT_MINIMAL_REGRESSION", 0), "weight a point needs to join the region")
	fs.StringVar(&cfg.SVG, "svg", envString("HOTSPOT_SVG", ""), "write the best region as SVG to this path")
	fs.IntVar(&cfg.ProgressEvery, "progress_every", envInt("HOTSPOT_PROGRESS_EVERY", 1), "log progress every n iterations, 0 disables")
	if err := errors.Join(errs...); err != nil {
		return Config{}, fmt.Errorf("%w: %w", ErrInvalid, err)
	}

	if err := fs.Parse(args); err != nil {
		return Config{}, err
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c Config) Validate() error {
	switch {
	case c.Data == "":
		return fmt.Errorf("%w: data file is required", ErrInvalid)
	case c.MaxIterations <= 0:
		return fmt.Errorf("%w: max_iterations %d must be positive", ErrInvalid, c.MaxIterations)
	case !(c.Temperature > 0):
		return fmt.Errorf("%w: temperature %v must be positive", ErrInvalid, c.Temperature)
	case !(c.CoolingRate > 0 && c.CoolingRate < 1):
		return fmt.Errorf("%w: cooling_rate %v must be in (0, 1)", ErrInvalid, c.CoolingRate)
	case !(c.MinimalDensity > 0):
		return fmt.Errorf("%w: minimal_density %v must be positive", ErrInvalid, c.MinimalDensity)
	case c.ProgressEvery < 0:
		return fmt.Errorf("%w: progress_every %d must not be negative", ErrInvalid, c.ProgressEvery)
	}
	return nil
}
