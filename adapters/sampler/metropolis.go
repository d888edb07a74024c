package sampler

import (
	"context"
	"fmt"
	"math"
	"math/rand"
	"runtime"
	"sync"
	"time"

	"golang.org/x/sync/semaphore"

	"github.com/mkazmier/best-test/domain/core"
	"github.com/mkazmier/best-test/domain/model"
	"github.com/mkazmier/best-test/domain/trace"
	"github.com/mkazmier/best-test/internal"
	"github.com/mkazmier/best-test/ports"
)

const (
	// targetAcceptanceRate is the proposal-scale adaptation target for
	// component-wise Gaussian proposals.
	targetAcceptanceRate = 0.40

	// adaptWindow is the number of tuning iterations between proposal
	// scale adjustments.
	adaptWindow = 25
)

// Metropolis is an adaptive random-walk Metropolis-within-Gibbs sampler.
// Each stochastic variable gets a component-wise Gaussian proposal whose
// scale adapts toward the target acceptance rate during the tuning
// phase; tuning draws are discarded. Chains run concurrently under a
// weighted semaphore bounded by the available CPUs.
type Metropolis struct {
	maxConcurrent int64
}

// NewMetropolis creates a sampler bounded by runtime.NumCPU concurrent chains.
func NewMetropolis() *Metropolis {
	return &Metropolis{maxConcurrent: int64(runtime.NumCPU())}
}

var _ ports.SamplerPort = (*Metropolis)(nil)

// Sample draws opts.NSamples posterior samples per chain from m.
// It returns a complete trace or an error, never a partial trace.
func (s *Metropolis) Sample(ctx context.Context, m *model.Model, opts ports.SampleOptions) (*trace.Trace, error) {
	if m == nil || len(m.Stochastics) == 0 {
		return nil, core.NewSamplingError(fmt.Errorf("model has no stochastic variables"))
	}
	if opts.NSamples <= 0 {
		return nil, core.NewSamplingError(fmt.Errorf("nsamples must be > 0, got %d", opts.NSamples))
	}
	if opts.Parallelism < 1 {
		return nil, core.NewSamplingError(fmt.Errorf("parallelism must be >= 1, got %d", opts.Parallelism))
	}
	nTune := opts.NTune
	if nTune <= 0 {
		nTune = opts.NSamples / 2
	}
	seed := opts.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}

	order := m.StochasticNames()
	for _, d := range m.Deterministics {
		order = append(order, d.Name)
	}

	bound := s.maxConcurrent
	if int64(opts.Parallelism) < bound {
		bound = int64(opts.Parallelism)
	}
	sem := semaphore.NewWeighted(bound)

	start := time.Now()
	chains := make([]trace.Chain, opts.Parallelism)
	errs := make([]error, opts.Parallelism)
	var wg sync.WaitGroup

	for i := 0; i < opts.Parallelism; i++ {
		if err := sem.Acquire(ctx, 1); err != nil {
			// A canceled context before all chains start still waits
			// for the running ones, then reports the cancellation.
			errs[i] = err
			break
		}
		wg.Add(1)
		go func(idx int) {
			defer wg.Done()
			defer sem.Release(1)
			chainSeed := chainSeed(seed, idx)
			chains[idx], errs[idx] = runChain(ctx, m, opts.NSamples, nTune, chainSeed, idx)
		}(i)
	}
	wg.Wait()

	for _, err := range errs {
		if err != nil {
			return nil, core.NewSamplingError(err)
		}
	}

	tr := trace.New(core.NewRunID(), seed, order)
	tr.Chains = chains
	if err := tr.Validate(); err != nil {
		return nil, core.NewSamplingError(err)
	}

	internal.DefaultLogger.Info("[Sampler] run %s: %d chains x %d draws (%d tuning) in %.2fms",
		tr.RunID, opts.Parallelism, opts.NSamples, nTune,
		float64(time.Since(start).Nanoseconds())/1e6)
	return tr, nil
}

// chainSeed derives a deterministic per-chain seed from the base seed.
func chainSeed(base int64, idx int) int64 {
	return base + int64(idx)*0x9E3779B9
}

func runChain(ctx context.Context, m *model.Model, nSamples, nTune int, seed int64, idx int) (trace.Chain, error) {
	rnd := rand.New(rand.NewSource(seed))

	cur, lp, err := initialState(m, rnd)
	if err != nil {
		return trace.Chain{}, fmt.Errorf("chain %d: %w", idx, err)
	}

	names := m.StochasticNames()
	scales := initialScales(m)

	chain := trace.Chain{
		Index: idx,
		Seed:  seed,
		Draws: make(map[string][]float64, len(names)+len(m.Deterministics)),
	}
	for _, name := range names {
		chain.Draws[name] = make([]float64, 0, nSamples)
	}
	for _, d := range m.Deterministics {
		chain.Draws[d.Name] = make([]float64, 0, nSamples)
	}

	windowAccepts := make(map[string]int, len(names))

	total := nTune + nSamples
	for iter := 0; iter < total; iter++ {
		if iter%256 == 0 {
			if err := ctx.Err(); err != nil {
				return trace.Chain{}, fmt.Errorf("chain %d: %w", idx, err)
			}
		}
		tuning := iter < nTune

		for _, name := range names {
			old := cur[name]
			cur[name] = old + scales[name]*rnd.NormFloat64()
			lpNew := m.LogPosterior(cur)

			if lpNew-lp > math.Log(rnd.Float64()) {
				lp = lpNew
				if tuning {
					windowAccepts[name]++
				} else {
					chain.Accepted++
				}
			} else {
				cur[name] = old
			}
			if !tuning {
				chain.Steps++
			}
		}

		if tuning && (iter+1)%adaptWindow == 0 {
			for _, name := range names {
				rate := float64(windowAccepts[name]) / adaptWindow
				scales[name] = adaptScale(scales[name], rate)
				windowAccepts[name] = 0
			}
		}

		if !tuning {
			for _, name := range names {
				chain.Draws[name] = append(chain.Draws[name], cur[name])
			}
			for _, d := range m.Deterministics {
				chain.Draws[d.Name] = append(chain.Draws[d.Name], d.Value(cur))
			}
		}
	}

	return chain, nil
}

// adaptScale nudges a proposal scale toward the target acceptance rate.
func adaptScale(scale, rate float64) float64 {
	switch {
	case rate < targetAcceptanceRate/2:
		scale *= 0.7
	case rate < targetAcceptanceRate*0.9:
		scale *= 0.9
	case rate > targetAcceptanceRate*1.5:
		scale *= 1.3
	case rate > targetAcceptanceRate*1.1:
		scale *= 1.1
	}
	const minScale, maxScale = 1e-8, 1e6
	if scale < minScale {
		scale = minScale
	}
	if scale > maxScale {
		scale = maxScale
	}
	return scale
}
