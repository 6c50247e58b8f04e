// Copyright (c) 2026 Andrey Kriulin
// Licensed under the MIT License.
// See the LICENSE file in the project root for full license text.

// Package anneal grows a region by simulated annealing: every iteration proposes adding
// or removing one frontier point and accepts it by the Metropolis rule under a
// geometrically cooling temperature.
package anneal

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math"
	"math/rand"
	"slices"

	"github.com/Delebrith/make-climat-great-again/region"
)

const (
	DefaultCoolingRate = 0.95
)

var (
	ErrInvalidConfig = errors.New("anneal: invalid config")
	ErrStuck         = errors.New("anneal: no move available")
)

type Config struct {
	// Temperature is the initial temperature T0.
	Temperature float64
	// CoolingRate is the factor applied per iteration, T = T0 * CoolingRate^iteration.
	// Zero selects DefaultCoolingRate.
	CoolingRate   float64
	MaxIterations int
}

// StopReason tells why Run returned.
type StopReason int

const (
	StopBudget StopReason = iota
	StopStuck
	StopCanceled
)

func (r StopReason) String() string {
	switch r {
	case StopBudget:
		return "budget"
	case StopStuck:
		return "stuck"
	case StopCanceled:
		return "canceled"
	}
	return fmt.Sprintf("StopReason(%d)", int(r))
}

// Progress is reported after every iteration.
type Progress struct {
	Iteration     int
	MaxIterations int
	Area          float64
	Value         float64
	BestValue     float64
	MinDensity    float64
	Density       float64
	Temperature   float64
}

// Result holds the region the run ended with and the best region seen that kept the
// minimal density. Both are sorted vertex indices and may differ.
type Result struct {
	Final      []int
	FinalValue float64
	Best       []int
	BestValue  float64
	Iterations int
	Reason     StopReason
}

type Option func(*Optimizer)

func WithLogger(l *slog.Logger) Option {
	return func(o *Optimizer) {
		if l != nil {
			o.logger = l
		}
	}
}

// WithProgress registers fn to be called after every iteration.
func WithProgress(fn func(Progress)) Option {
	return func(o *Optimizer) {
		o.progress = fn
	}
}

// Optimizer owns a Region for the duration of a run. It is not safe for concurrent use.
type Optimizer struct {
	r      *region.Region
	rng    *rand.Rand
	cfg    Config
	logger *slog.Logger

	progress func(Progress)

	temperature float64
	iteration   int

	best      []int
	bestValue float64
	hasBest   bool
}

func New(r *region.Region, rng *rand.Rand, cfg Config, opts ...Option) (*Optimizer, error) {
	if r == nil || rng == nil {
		return nil, fmt.Errorf("%w: region and random source are required", ErrInvalidConfig)
	}
	if cfg.CoolingRate == 0 {
		cfg.CoolingRate = DefaultCoolingRate
	}
	if !(cfg.Temperature > 0) || math.IsInf(cfg.Temperature, 1) {
		return nil, fmt.Errorf("%w: temperature %v must be positive", ErrInvalidConfig, cfg.Temperature)
	}
	if !(cfg.CoolingRate > 0 && cfg.CoolingRate < 1) {
		return nil, fmt.Errorf("%w: cooling rate %v must be in (0, 1)", ErrInvalidConfig, cfg.CoolingRate)
	}
	if cfg.MaxIterations <= 0 {
		return nil, fmt.Errorf("%w: max iterations %d must be positive", ErrInvalidConfig, cfg.MaxIterations)
	}

	o := &Optimizer{
		r:           r,
		rng:         rng,
		cfg:         cfg,
		logger:      slog.New(slog.DiscardHandler),
		temperature: cfg.Temperature,
	}
	for _, opt := range opts {
		opt(o)
	}
	o.updateBest()
	return o, nil
}

func (o *Optimizer) Temperature() float64 { return o.temperature }
func (o *Optimizer) Iteration() int       { return o.iteration }

// Best returns the best snapshot so far and whether one exists.
func (o *Optimizer) Best() ([]int, float64, bool) {
	return slices.Clone(o.best), o.bestValue, o.hasBest
}

// Step runs one iteration. It returns ErrStuck, leaving the region untouched, when both
// frontier sets are empty.
func (o *Optimizer) Step() error {
	nAdd, nRem := o.r.NumPointsToAdd(), o.r.NumPointsToRemove()
	if nAdd+nRem == 0 {
		return ErrStuck
	}
	o.iteration++

	pAdd := float64(nAdd) / float64(nAdd+nRem)
	oldValue := o.r.Value()
	if o.rng.Float64() <= pAdd {
		p := o.r.PointToAdd(o.rng.Intn(nAdd))
		if o.accept(oldValue, o.r.ValueWithAdded(p)) {
			if err := o.r.Add(p); err != nil {
				return err
			}
			o.logger.Debug("move_accepted", "op", "add", "point", p, "iteration", o.iteration)
		}
	} else {
		p := o.r.PointToRemove(o.rng.Intn(nRem))
		if o.accept(oldValue, o.r.ValueWithRemoved(p)) {
			if err := o.r.Remove(p); err != nil {
				return err
			}
			o.logger.Debug("move_accepted", "op", "remove", "point", p, "iteration", o.iteration)
		}
	}

	o.temperature = o.cfg.Temperature * math.Pow(o.cfg.CoolingRate, float64(o.iteration))
	o.updateBest()
	return nil
}

// Run iterates until the budget is spent, no move is left or ctx is done. ctx is only
// checked between iterations so the region is never left half updated.
func (o *Optimizer) Run(ctx context.Context) (Result, error) {
	o.logger.Info("anneal_start",
		"points", o.r.NumPoints(),
		"temperature", o.cfg.Temperature,
		"cooling_rate", o.cfg.CoolingRate,
		"max_iterations", o.cfg.MaxIterations,
		"min_density", o.r.Config().MinDensity,
		"min_weight", o.r.Config().MinWeight,
	)
	o.report()

	reason := StopBudget
loop:
	for o.iteration < o.cfg.MaxIterations {
		select {
		case <-ctx.Done():
			reason = StopCanceled
			break loop
		default:
		}

		err := o.Step()
		switch {
		case errors.Is(err, ErrStuck):
			reason = StopStuck
			break loop
		case err != nil:
			return Result{}, fmt.Errorf("anneal: iteration %d: %w", o.iteration, err)
		}
		o.report()
	}

	res := Result{
		Final:      o.r.Points(),
		FinalValue: o.r.Value(),
		Best:       slices.Clone(o.best),
		BestValue:  o.bestValue,
		Iterations: o.iteration,
		Reason:     reason,
	}
	o.logger.Info("anneal_stop",
		"reason", reason.String(),
		"iterations", res.Iterations,
		"final_points", len(res.Final),
		"final_value", res.FinalValue,
		"best_points", len(res.Best),
		"best_value", res.BestValue,
	)
	return res, nil
}

// accept applies the Metropolis rule. At zero temperature only improvements pass.
func (o *Optimizer) accept(oldValue, newValue float64) bool {
	if newValue > oldValue {
		return true
	}
	if o.temperature <= 0 {
		return false
	}
	return o.rng.Float64() < math.Exp(-math.Abs(newValue-oldValue)/o.temperature)
}

func (o *Optimizer) updateBest() {
	if !o.r.HasMinimalDensity() {
		return
	}
	if v := o.r.Value(); !o.hasBest || v > o.bestValue {
		o.best = o.r.Points()
		o.bestValue = v
		o.hasBest = true
	}
}

func (o *Optimizer) report() {
	if o.progress == nil {
		return
	}
	o.progress(Progress{
		Iteration:     o.iteration,
		MaxIterations: o.cfg.MaxIterations,
		Area:          o.r.Area(),
		Value:         o.r.Value(),
		BestValue:     o.bestValue,
		MinDensity:    o.r.Config().MinDensity,
		Density:       o.r.Density(),
		Temperature:   o.temperature,
	})
}
