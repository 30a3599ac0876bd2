package eval

import (
	"fmt"

	"github.com/danielpatrickdp/unify-journey/go-controller/internal/journey"
	"github.com/danielpatrickdp/unify-journey/go-controller/internal/model"
)

// #region eval-harness
// EvalHarness validates inference results before they leave the service.
type EvalHarness struct {
	config EvalConfig
	params *model.Params
}

// NewEvalHarness creates an eval harness. params resolves stage names; it may be nil,
// in which case stage names are checked against the journey catalog only.
func NewEvalHarness(config EvalConfig, params *model.Params) *EvalHarness {
	return &EvalHarness{config: config, params: params}
}

// Run checks a journey map and, when non-nil, its accommodation progression.
func (h *EvalHarness) Run(jm journey.Map, prog *journey.Progression) EvalResult {
	var metrics []EvalMetric
	var failReasons []string

	check := func(name string, value float64, pass bool, reason string) {
		metrics = append(metrics, EvalMetric{Name: name, Value: value, Pass: pass})
		if !pass {
			failReasons = append(failReasons, reason)
		}
	}

	// 1. Stage count
	n := len(jm.Stages)
	check("stage_count", float64(n), n == h.config.ExpectedStages,
		fmt.Sprintf("journey has %d stages, want %d", n, h.config.ExpectedStages))

	// 2. Path length matches stages
	check("path_length", float64(len(jm.OptimalPath)), len(jm.OptimalPath) == n,
		fmt.Sprintf("optimal path has %d entries for %d stages", len(jm.OptimalPath), n))

	// 3. Path confidence bounds
	check("path_confidence", jm.PathConfidence, h.inBounds(jm.PathConfidence),
		fmt.Sprintf("path confidence %.6f outside (%g, %g]", jm.PathConfidence, h.config.MinConfidence, h.config.MaxConfidence))

	// 4. First stage is current
	firstCurrent := n > 0 && jm.Stages[0].Status == journey.StatusCurrent
	check("first_status_current", boolValue(firstCurrent), firstCurrent, "first stage is not marked current")

	// 5. Every stage known
	unknown := 0
	for _, s := range jm.Stages {
		if !h.knownStage(s.Stage) {
			unknown++
		}
	}
	check("unknown_stages", float64(unknown), unknown == 0,
		fmt.Sprintf("%d stages not in the model", unknown))

	// 6. Progression confidence bounds
	if prog != nil {
		check("progression_confidence", prog.ConfidenceScore, h.inBounds(prog.ConfidenceScore),
			fmt.Sprintf("progression confidence %.6f outside (%g, %g]", prog.ConfidenceScore, h.config.MinConfidence, h.config.MaxConfidence))
	}

	reason := "all checks passed"
	if len(failReasons) == 1 {
		reason = fmt.Sprintf("eval failed: %s", failReasons[0])
	} else if len(failReasons) > 1 {
		reason = fmt.Sprintf("eval failed: %d checks: %s", len(failReasons), failReasons[0])
	}

	return EvalResult{
		Passed:  len(failReasons) == 0,
		Metrics: metrics,
		Reason:  reason,
	}
}

// RunProgression checks a standalone accommodation progression.
func (h *EvalHarness) RunProgression(prog journey.Progression) EvalResult {
	pass := h.inBounds(prog.ConfidenceScore)
	result := EvalResult{
		Passed:  pass,
		Metrics: []EvalMetric{{Name: "progression_confidence", Value: prog.ConfidenceScore, Pass: pass}},
		Reason:  "all checks passed",
	}
	if !pass {
		result.Reason = fmt.Sprintf("eval failed: progression confidence %.6f outside (%g, %g]",
			prog.ConfidenceScore, h.config.MinConfidence, h.config.MaxConfidence)
	}
	return result
}

// #endregion eval-harness

// #region helpers
func (h *EvalHarness) inBounds(c float64) bool {
	return c > h.config.MinConfidence && c <= h.config.MaxConfidence
}

func (h *EvalHarness) knownStage(stage string) bool {
	if h.params != nil {
		return h.params.StageIndex(stage) >= 0
	}
	_, ok := journey.Info(stage)
	return ok
}

func boolValue(b bool) float64 {
	if b {
		return 1
	}
	return 0
}

// #endregion helpers
