package model

import (
	"fmt"
	"math"
	"strings"
)

// #region params
// Params is the fixed HMM: stage names, transition matrix, start distribution and
// per-state diagonal Gaussian emissions. A *Params is immutable once constructed and
// safe to share between goroutines; accessors return copies.
type Params struct {
	stages     [NumStates]string
	transition Matrix
	start      Vector
	mean       Matrix
	variance   Matrix
}

// NewParams validates the stochastic invariants and returns an immutable parameter set.
func NewParams(stages [NumStates]string, transition Matrix, start Vector, mean, variance Matrix) (*Params, error) {
	p := &Params{
		stages:     stages,
		transition: transition,
		start:      start,
		mean:       mean,
		variance:   variance,
	}
	if violations := p.Validate(); len(violations) > 0 {
		reasons := make([]string, len(violations))
		for i, v := range violations {
			reasons[i] = fmt.Sprintf("%s: %s", v.Kind, v.Reason)
		}
		return nil, fmt.Errorf("%w: %s", ErrInvalidParams, strings.Join(reasons, "; "))
	}
	return p, nil
}

// DefaultParams returns the hand-authored journey model.
func DefaultParams() (*Params, error) {
	return NewParams(
		[NumStates]string{
			StageInitialAssessment,
			StageAccommodationPlanning,
			StageUniversitySelection,
			StageApplicationPrep,
			StageFinalRecommendation,
		},
		Matrix{
			{0.1, 0.7, 0.1, 0.05, 0.05},
			{0.05, 0.2, 0.6, 0.1, 0.05},
			{0.05, 0.1, 0.3, 0.5, 0.05},
			{0.05, 0.05, 0.1, 0.3, 0.5},
			{0.05, 0.05, 0.05, 0.1, 0.75},
		},
		Vector{0.8, 0.15, 0.03, 0.01, 0.01},
		// features: mental, physical, severity, gpa, support complexity
		Matrix{
			{1.0, 1.0, 1.5, 3.0, 1.0},
			{2.0, 1.5, 2.0, 3.0, 2.0},
			{2.5, 2.0, 2.0, 3.2, 2.5},
			{2.5, 2.0, 2.0, 3.2, 3.0},
			{2.5, 2.0, 2.0, 3.2, 3.0},
		},
		Matrix{
			{1.5, 1.5, 0.5, 0.5, 1.0},
			{1.0, 1.0, 0.4, 0.4, 0.8},
			{0.8, 0.8, 0.3, 0.3, 0.6},
			{0.6, 0.6, 0.2, 0.2, 0.4},
			{0.5, 0.5, 0.1, 0.1, 0.3},
		},
	)
}

// MustDefault returns DefaultParams and panics if the constants are inconsistent.
func MustDefault() *Params {
	p, err := DefaultParams()
	if err != nil {
		panic(err)
	}
	return p
}

// #endregion params

// #region accessors
// NumStates returns the number of hidden stages.
func (p *Params) NumStates() int { return NumStates }

// Stages returns the ordered stage names.
func (p *Params) Stages() [NumStates]string { return p.stages }

// Stage returns the name of state s.
func (p *Params) Stage(s int) string { return p.stages[s] }

// StageIndex returns the index of the named stage, or -1.
func (p *Params) StageIndex(name string) int {
	for i, s := range p.stages {
		if s == name {
			return i
		}
	}
	return -1
}

// Transition returns the row-stochastic transition matrix.
func (p *Params) Transition() Matrix { return p.transition }

// Start returns the initial state distribution.
func (p *Params) Start() Vector { return p.start }

// Mean returns the per-state emission means.
func (p *Params) Mean() Matrix { return p.mean }

// Variance returns the per-state diagonal emission variances.
func (p *Params) Variance() Matrix { return p.variance }

// Equal reports whether two parameter sets are identical bit for bit.
func (p *Params) Equal(o *Params) bool {
	if p == nil || o == nil {
		return p == o
	}
	return p.stages == o.stages &&
		p.transition == o.transition &&
		p.start == o.start &&
		p.mean == o.mean &&
		p.variance == o.variance
}

// #endregion accessors

// #region validate
// Validate checks every invariant and returns all violations found.
func (p *Params) Validate() []Violation {
	var out []Violation

	seen := make(map[string]bool, NumStates)
	for i, s := range p.stages {
		if strings.TrimSpace(s) == "" {
			out = append(out, Violation{Kind: ViolationStages, Reason: fmt.Sprintf("stage %d has empty name", i)})
			continue
		}
		if seen[s] {
			out = append(out, Violation{Kind: ViolationStages, Reason: fmt.Sprintf("duplicate stage %q", s)})
		}
		seen[s] = true
	}

	for i, row := range p.transition {
		if v, ok := checkDistribution(row[:]); !ok {
			out = append(out, Violation{Kind: ViolationTransition, Reason: fmt.Sprintf("row %d: %s", i, v)})
		}
	}

	if v, ok := checkDistribution(p.start[:]); !ok {
		out = append(out, Violation{Kind: ViolationStart, Reason: v})
	}

	for s := range p.mean {
		for d, m := range p.mean[s] {
			if math.IsNaN(m) || math.IsInf(m, 0) {
				out = append(out, Violation{Kind: ViolationMean, Reason: fmt.Sprintf("mean[%d][%d] is not finite", s, d)})
			}
		}
	}

	for s := range p.variance {
		for d, v := range p.variance[s] {
			if !(v > 0) || math.IsInf(v, 0) {
				out = append(out, Violation{Kind: ViolationVariance, Reason: fmt.Sprintf("variance[%d][%d] = %v must be positive and finite", s, d, v)})
			}
		}
	}

	return out
}

// checkDistribution verifies non-negative entries that sum to 1 within Tolerance.
func checkDistribution(xs []float64) (string, bool) {
	var sum float64
	for j, x := range xs {
		if math.IsNaN(x) || x < 0 || x > 1 {
			return fmt.Sprintf("entry %d = %v outside [0,1]", j, x), false
		}
		sum += x
	}
	if math.Abs(sum-1) > Tolerance {
		return fmt.Sprintf("sums to %.9f, want 1", sum), false
	}
	return "", true
}

// #endregion validate
