package trace

import (
	"fmt"

	"github.com/mkazmier/best-test/domain/core"
)

// Chain holds the draws produced by one MCMC chain after tuning.
type Chain struct {
	Index    int
	Seed     int64
	Draws    map[string][]float64
	Accepted int
	Steps    int
}

// AcceptanceRate returns the fraction of proposals accepted by the chain.
func (c Chain) AcceptanceRate() float64 {
	if c.Steps == 0 {
		return 0
	}
	return float64(c.Accepted) / float64(c.Steps)
}

// Trace is the result of one sampling run: one column per named model
// variable, one row per posterior draw, grouped by chain. It is owned
// by the test controller and overwritten on each successful run.
type Trace struct {
	RunID     core.RunID
	BaseSeed  int64
	Order     []string
	Chains    []Chain
	CreatedAt core.Timestamp
}

// New creates an empty trace with the given variable order.
func New(runID core.RunID, baseSeed int64, order []string) *Trace {
	ord := make([]string, len(order))
	copy(ord, order)
	return &Trace{
		RunID:     runID,
		BaseSeed:  baseSeed,
		Order:     ord,
		CreatedAt: core.Now(),
	}
}

// HasVariable reports whether the trace holds a column for name.
func (t *Trace) HasVariable(name string) bool {
	for _, n := range t.Order {
		if n == name {
			return true
		}
	}
	return false
}

// Len returns the total number of draws across all chains.
func (t *Trace) Len() int {
	n := 0
	for _, c := range t.Chains {
		if len(t.Order) == 0 {
			continue
		}
		n += len(c.Draws[t.Order[0]])
	}
	return n
}

// Column returns the draws for a variable concatenated across chains.
func (t *Trace) Column(name string) ([]float64, error) {
	if !t.HasVariable(name) {
		return nil, core.NewVariableNotFoundError(name)
	}
	out := make([]float64, 0, t.Len())
	for _, c := range t.Chains {
		out = append(out, c.Draws[name]...)
	}
	return out, nil
}

// ChainColumns returns the per-chain draw series for a variable.
func (t *Trace) ChainColumns(name string) ([][]float64, error) {
	if !t.HasVariable(name) {
		return nil, core.NewVariableNotFoundError(name)
	}
	out := make([][]float64, len(t.Chains))
	for i, c := range t.Chains {
		out[i] = c.Draws[name]
	}
	return out, nil
}

// Validate checks the trace's structural invariants: every chain holds
// every ordered variable and all columns within a chain have equal length.
func (t *Trace) Validate() error {
	for _, c := range t.Chains {
		want := -1
		for _, name := range t.Order {
			col, ok := c.Draws[name]
			if !ok {
				return fmt.Errorf("chain %d missing variable %q", c.Index, name)
			}
			if want == -1 {
				want = len(col)
			} else if len(col) != want {
				return fmt.Errorf("chain %d variable %q has %d draws, want %d", c.Index, name, len(col), want)
			}
		}
	}
	return nil
}
