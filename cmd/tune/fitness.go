package main

import (
	"context"
	"math"
	"sync"

	"github.com/pthm-cable/roadgen/city"
	"github.com/pthm-cable/roadgen/config"
)

// FitnessEvaluator generates networks for a parameter vector and scores them
// against a target mean lot area.
type FitnessEvaluator struct {
	params     *ParamVector
	targetArea float64
	seeds      []int64
	baseConfig *config.Config

	mu          sync.Mutex
	bestFitness float64
	lastArea    float64 // mean lot area from the most recent Evaluate call
	lastLots    float64 // mean lot count from the most recent Evaluate call
}

// NewFitnessEvaluator creates a new evaluator.
func NewFitnessEvaluator(params *ParamVector, targetArea float64, seeds []int64, baseCfg *config.Config) *FitnessEvaluator {
	return &FitnessEvaluator{
		params:      params,
		targetArea:  targetArea,
		seeds:       seeds,
		baseConfig:  baseCfg,
		bestFitness: math.Inf(1),
	}
}

// LastArea returns the mean lot area and lot count from the most recent evaluation.
func (fe *FitnessEvaluator) LastArea() (area, lots float64) {
	fe.mu.Lock()
	defer fe.mu.Unlock()
	return fe.lastArea, fe.lastLots
}

// BestFitness returns the lowest fitness seen so far.
func (fe *FitnessEvaluator) BestFitness() float64 {
	fe.mu.Lock()
	defer fe.mu.Unlock()
	return fe.bestFitness
}

// failedRunFitness scores a run that errored or found no lots.
const failedRunFitness = 1e6

// seedResult holds the result from one seed evaluation.
type seedResult struct {
	fitness  float64
	meanArea float64
	lots     int
}

// Evaluate computes fitness for a parameter vector (lower = better).
func (fe *FitnessEvaluator) Evaluate(ctx context.Context, x []float64) float64 {
	results := make([]seedResult, len(fe.seeds))
	var wg sync.WaitGroup

	for i, seed := range fe.seeds {
		wg.Add(1)
		go func(idx int, s int64) {
			defer wg.Done()
			results[idx] = fe.runSeed(ctx, x, s)
		}(i, seed)
	}
	wg.Wait()

	var totalFitness, totalArea, totalLots float64
	for _, r := range results {
		totalFitness += r.fitness
		totalArea += r.meanArea
		totalLots += float64(r.lots)
	}

	n := float64(len(fe.seeds))
	avgFitness := totalFitness / n

	fe.mu.Lock()
	if avgFitness < fe.bestFitness {
		fe.bestFitness = avgFitness
	}
	fe.lastArea = totalArea / n
	fe.lastLots = totalLots / n
	fe.mu.Unlock()

	return avgFitness
}

// runSeed generates one network with the given parameters and seed.
func (fe *FitnessEvaluator) runSeed(ctx context.Context, x []float64, seed int64) seedResult {
	cfg := fe.copyConfig()
	fe.params.ApplyToConfig(cfg, x)
	cfg.Generator.Seed = seed

	res, err := city.Generate(ctx, cfg, nil)
	if err != nil || res.Stats.Lots == 0 {
		return seedResult{fitness: failedRunFitness}
	}
	return seedResult{
		fitness:  areaError(res.Stats.LotAreaMean, fe.targetArea),
		meanArea: res.Stats.LotAreaMean,
		lots:     res.Stats.Lots,
	}
}

// copyConfig returns a copy of the base config that can be modified
// independently. Basis field lists are shared and never written.
func (fe *FitnessEvaluator) copyConfig() *config.Config {
	cfg := *fe.baseConfig
	return &cfg
}

// areaError is the squared relative error of mean against target.
func areaError(mean, target float64) float64 {
	if target <= 0 {
		return failedRunFitness
	}
	rel := (mean - target) / target
	return rel * rel
}
