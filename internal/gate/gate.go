package gate

import (
	"fmt"
	"math"

	"github.com/danielpatrickdp/unify-journey/go-controller/internal/model"
)

// #region gate
// Gate evaluates whether a proposed parameter bundle should replace the active one.
type Gate struct {
	config GateConfig
}

// NewGate creates a gate with the given configuration.
func NewGate(config GateConfig) *Gate {
	return &Gate{config: config}
}

// Evaluate checks hard vetoes first, then scores similarity to the active version.
// old may be nil when there is no active version yet.
func (g *Gate) Evaluate(old, proposed *model.Params) GateDecision {
	if proposed == nil {
		return reject([]VetoSignal{{Type: VetoInvalid, Reason: "no proposed parameters"}})
	}

	var vetoes []VetoSignal

	// --- Hard veto pass ---

	// 1. Structural invariants
	for _, v := range proposed.Validate() {
		vetoes = append(vetoes, VetoSignal{Type: VetoInvalid, Reason: v.Reason})
	}

	// 2. Final stage must stay absorbing
	final := model.NumStates - 1
	if loop := proposed.Transition()[final][final]; loop < g.config.MinFinalSelfLoop {
		vetoes = append(vetoes, VetoSignal{
			Type:   VetoAbsorbing,
			Reason: fmt.Sprintf("final self-transition %.4f below floor %.4f", loop, g.config.MinFinalSelfLoop),
		})
	}

	// 3. Variances too small collapse every decode to the confidence floor
	if mv := minEntry(proposed.Variance()); mv < g.config.MinVariance {
		vetoes = append(vetoes, VetoSignal{
			Type:   VetoDegenerate,
			Reason: fmt.Sprintf("minimum variance %.6f below floor %.6f", mv, g.config.MinVariance),
		})
	}

	if old != nil {
		// 4. Stage set must match the catalog the service was built with
		if old.Stages() != proposed.Stages() {
			vetoes = append(vetoes, VetoSignal{Type: VetoStageSet, Reason: "stage names differ from active version"})
		}

		// 5. Drift caps
		td := math.Max(maxAbsDelta(old.Transition(), proposed.Transition()), maxAbsVectorDelta(old.Start(), proposed.Start()))
		if td > g.config.MaxTransitionDelta {
			vetoes = append(vetoes, VetoSignal{
				Type:   VetoDrift,
				Reason: fmt.Sprintf("probability delta %.4f exceeds cap %.4f", td, g.config.MaxTransitionDelta),
			})
		}
		if md := maxAbsDelta(old.Mean(), proposed.Mean()); md > g.config.MaxMeanDelta {
			vetoes = append(vetoes, VetoSignal{
				Type:   VetoDrift,
				Reason: fmt.Sprintf("mean delta %.4f exceeds cap %.4f", md, g.config.MaxMeanDelta),
			})
		}
	}

	if len(vetoes) > 0 {
		return reject(vetoes)
	}

	// --- Soft scoring ---
	softScore := similarity(old, proposed)

	return GateDecision{
		Action:    "commit",
		Reason:    fmt.Sprintf("passed gate: soft_score=%.4f", softScore),
		SoftScore: softScore,
	}
}

func reject(vetoes []VetoSignal) GateDecision {
	return GateDecision{
		Action:      "reject",
		Reason:      fmt.Sprintf("hard veto: %s", vetoes[0].Reason),
		Vetoed:      true,
		VetoSignals: vetoes,
	}
}

// #endregion gate

// #region helpers
func maxAbsDelta(a, b model.Matrix) float64 {
	var m float64
	for i := range a {
		m = math.Max(m, maxAbsVectorDelta(a[i], b[i]))
	}
	return m
}

func maxAbsVectorDelta(a, b model.Vector) float64 {
	var m float64
	for i := range a {
		m = math.Max(m, math.Abs(a[i]-b[i]))
	}
	return m
}

func minEntry(m model.Matrix) float64 {
	out := math.Inf(1)
	for _, row := range m {
		for _, v := range row {
			out = math.Min(out, v)
		}
	}
	return out
}

// similarity is 1 minus the mean absolute change across start and transition
// probabilities. It is 1 when there is no prior version.
func similarity(old, proposed *model.Params) float64 {
	if old == nil {
		return 1
	}
	var sum float64
	ot, pt := old.Transition(), proposed.Transition()
	for i := range ot {
		for j := range ot[i] {
			sum += math.Abs(ot[i][j] - pt[i][j])
		}
	}
	ostart, pstart := old.Start(), proposed.Start()
	for i := range ostart {
		sum += math.Abs(ostart[i] - pstart[i])
	}
	n := float64(model.NumStates*model.NumStates + model.NumStates)
	return math.Max(0, 1-sum/n)
}

// #endregion helpers
