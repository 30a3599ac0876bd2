package viterbi

import (
	"errors"
	"math"

	"github.com/danielpatrickdp/unify-journey/go-controller/internal/model"
	"github.com/danielpatrickdp/unify-journey/go-controller/internal/profile"
)

// #region constants
const (
	// ConfidenceFloor is reported when the path probability underflows.
	ConfidenceFloor = 0.01

	// minMeanLogProb is the per-step log probability below which confidence is floored.
	minMeanLogProb = -100.0
)

var (
	ErrEmptySequence = errors.New("viterbi: empty observation sequence")
	ErrNilParams     = errors.New("viterbi: nil parameters")
)

// #endregion constants

// #region result
// Result is the most probable stage path for an observation sequence.
type Result struct {
	Path       []int
	Stages     []string
	LogProb    float64
	Confidence float64
}

// #endregion result

// #region decode
// Decode runs log-space Viterbi over the observations. Ties in every argmax resolve
// to the lowest state index.
func Decode(obs []profile.FeatureVector, p *model.Params) (Result, error) {
	if p == nil {
		return Result{}, ErrNilParams
	}
	T := len(obs)
	if T == 0 {
		return Result{}, ErrEmptySequence
	}
	const N = model.NumStates

	logStart := logVector(p.Start())
	logTrans := logMatrix(p.Transition())

	delta := make([][N]float64, T)
	back := make([][N]int, T)

	for s := 0; s < N; s++ {
		delta[0][s] = logStart[s] + LogEmission(obs[0], s, p)
	}

	for t := 1; t < T; t++ {
		for s := 0; s < N; s++ {
			best, arg := math.Inf(-1), 0
			for prev := 0; prev < N; prev++ {
				score := delta[t-1][prev] + logTrans[prev][s]
				if score > best {
					best, arg = score, prev
				}
			}
			delta[t][s] = best + LogEmission(obs[t], s, p)
			back[t][s] = arg
		}
	}

	last, logProb := 0, math.Inf(-1)
	for s := 0; s < N; s++ {
		if delta[T-1][s] > logProb {
			last, logProb = s, delta[T-1][s]
		}
	}

	path := make([]int, T)
	path[T-1] = last
	for t := T - 1; t > 0; t-- {
		path[t-1] = back[t][path[t]]
	}

	stages := make([]string, T)
	for t, s := range path {
		stages[t] = p.Stage(s)
	}

	return Result{
		Path:       path,
		Stages:     stages,
		LogProb:    logProb,
		Confidence: Confidence(logProb, T),
	}, nil
}

// #endregion decode

// #region confidence
// Confidence converts a path log probability into exp(mean log prob per step),
// clamped to (0, 1]. Underflow, NaN and -Inf report ConfidenceFloor.
func Confidence(logProb float64, steps int) float64 {
	if steps <= 0 || math.IsNaN(logProb) || math.IsInf(logProb, -1) {
		return ConfidenceFloor
	}
	mean := logProb / float64(steps)
	if mean <= minMeanLogProb {
		return ConfidenceFloor
	}
	c := math.Exp(mean)
	switch {
	case math.IsNaN(c) || c <= 0:
		return ConfidenceFloor
	case c > 1:
		return 1
	}
	return c
}

// #endregion confidence

// #region emission
// LogEmission is the diagonal-Gaussian log density of x under state s.
func LogEmission(x profile.FeatureVector, s int, p *model.Params) float64 {
	mean := p.Mean()[s]
	variance := p.Variance()[s]
	var sum float64
	for d := range x {
		diff := x[d] - mean[d]
		sum += -0.5*math.Log(2*math.Pi*variance[d]) - diff*diff/(2*variance[d])
	}
	return sum
}

// #endregion emission

// #region helpers
func logVector(v model.Vector) [model.NumStates]float64 {
	var out [model.NumStates]float64
	for i, x := range v {
		out[i] = math.Log(x)
	}
	return out
}

func logMatrix(m model.Matrix) [model.NumStates][model.NumStates]float64 {
	var out [model.NumStates][model.NumStates]float64
	for i := range m {
		out[i] = logVector(m[i])
	}
	return out
}

// #endregion helpers
