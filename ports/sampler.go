package ports

import (
	"context"

	"github.com/mkazmier/best-test/domain/model"
	"github.com/mkazmier/best-test/domain/trace"
)

// SampleOptions configures one sampling run.
type SampleOptions struct {
	// NSamples is the number of posterior draws per chain after tuning.
	NSamples int
	// NTune is the number of discarded adaptation steps per chain.
	// Defaults to NSamples/2 when zero.
	NTune int
	// Parallelism is the number of chains; chains run concurrently
	// bounded by available CPUs. Must be >= 1.
	Parallelism int
	// Seed is the base seed; per-chain seeds derive from it. A zero
	// seed is replaced by a time-based one.
	Seed int64
}

// SamplerPort draws posterior samples from a model. Implementations
// return either a complete trace or an error, never a partial trace.
type SamplerPort interface {
	Sample(ctx context.Context, m *model.Model, opts SampleOptions) (*trace.Trace, error)
}
