package replay

import (
	"fmt"
	"slices"
	"strings"

	"github.com/danielpatrickdp/unify-journey/go-controller/internal/eval"
	"github.com/danielpatrickdp/unify-journey/go-controller/internal/journey"
	"github.com/danielpatrickdp/unify-journey/go-controller/internal/profile"
)

// #region types
// Case is one recorded profile and the structural results it must produce.
type Case struct {
	CaseID   string
	Profile  profile.Profile
	Expected Expectation
}

// Expectation lists structural properties of an analysis. Zero values are not checked.
type Expectation struct {
	StageCount     int
	FirstStatus    journey.Status
	LeadTime       string
	ImmediateNeeds []string
	FocusContains  []string
}

// ReplayResult captures the outcome of replaying one case through the engine.
type ReplayResult struct {
	CaseID     string
	Action     string // "pass" | "mismatch" | "eval_fail" | "error"
	Reason     string
	Mismatches []string

	// Nil when the engine returned an error.
	Analysis   *journey.Analysis
	EvalResult *eval.EvalResult
}

// ReplaySummary provides aggregate stats from a replay run.
type ReplaySummary struct {
	Total      int
	Passed     int
	Mismatches int
	EvalFails  int
	Errors     int
}

// Failed reports the number of cases that did not pass.
func (s ReplaySummary) Failed() int {
	return s.Total - s.Passed
}

// #endregion types

// #region replay
// Replay analyzes each case and checks it against its expectation and the eval harness:
// analyze → eval → expectations. Operates entirely in-memory.
func Replay(engine *journey.Engine, cases []Case, config eval.EvalConfig) []ReplayResult {
	harness := eval.NewEvalHarness(config, engine.Params())
	results := make([]ReplayResult, 0, len(cases))

	for _, c := range cases {
		// 1. Analyze
		a, err := engine.Analyze(c.Profile)
		if err != nil {
			results = append(results, ReplayResult{
				CaseID: c.CaseID,
				Action: "error",
				Reason: err.Error(),
			})
			continue
		}

		// 2. Eval
		er := harness.Run(a.JourneyMap, &a.AccommodationProgression)
		if !er.Passed {
			results = append(results, ReplayResult{
				CaseID:     c.CaseID,
				Action:     "eval_fail",
				Reason:     er.Reason,
				Analysis:   &a,
				EvalResult: &er,
			})
			continue
		}

		// 3. Expectations
		mismatches := Check(a, c.Expected)
		r := ReplayResult{
			CaseID:     c.CaseID,
			Action:     "pass",
			Reason:     er.Reason,
			Mismatches: mismatches,
			Analysis:   &a,
			EvalResult: &er,
		}
		if len(mismatches) > 0 {
			r.Action = "mismatch"
			r.Reason = fmt.Sprintf("%d expectation(s) failed: %s", len(mismatches), mismatches[0])
		}
		results = append(results, r)
	}

	return results
}

// Check compares an analysis against an expectation and returns one message per
// violated property.
func Check(a journey.Analysis, exp Expectation) []string {
	var out []string
	jm := a.JourneyMap

	if exp.StageCount > 0 && len(jm.Stages) != exp.StageCount {
		out = append(out, fmt.Sprintf("stage count %d, want %d", len(jm.Stages), exp.StageCount))
	}
	if exp.FirstStatus != "" {
		if len(jm.Stages) == 0 {
			out = append(out, "no stages to check first status")
		} else if jm.Stages[0].Status != exp.FirstStatus {
			out = append(out, fmt.Sprintf("first status %q, want %q", jm.Stages[0].Status, exp.FirstStatus))
		}
	}
	if exp.LeadTime != "" && !strings.Contains(jm.OverallRecommendation, exp.LeadTime) {
		out = append(out, fmt.Sprintf("recommendation missing lead time %q", exp.LeadTime))
	}
	for _, need := range exp.ImmediateNeeds {
		if !slices.Contains(a.AccommodationProgression.ImmediateNeeds, need) {
			out = append(out, fmt.Sprintf("immediate needs missing %q", need))
		}
	}
	for _, phrase := range exp.FocusContains {
		if !strings.Contains(jm.OverallRecommendation, phrase) {
			out = append(out, fmt.Sprintf("recommendation missing %q", phrase))
		}
	}
	return out
}

// Summarize computes aggregate stats from replay results.
func Summarize(results []ReplayResult) ReplaySummary {
	s := ReplaySummary{Total: len(results)}
	for _, r := range results {
		switch r.Action {
		case "pass":
			s.Passed++
		case "mismatch":
			s.Mismatches++
		case "eval_fail":
			s.EvalFails++
		case "error":
			s.Errors++
		}
	}
	return s
}

// #endregion replay
