package replay

import (
	"strings"
	"testing"

	"github.com/danielpatrickdp/unify-journey/go-controller/internal/eval"
	"github.com/danielpatrickdp/unify-journey/go-controller/internal/journey"
	"github.com/danielpatrickdp/unify-journey/go-controller/internal/model"
	"github.com/danielpatrickdp/unify-journey/go-controller/internal/profile"
)

// helper: seeded engine on default parameters.
func testEngine(t *testing.T) *journey.Engine {
	t.Helper()
	e, err := journey.NewEngine(model.MustDefault(), journey.WithSeed(7))
	if err != nil {
		t.Fatalf("NewEngine: %v", err)
	}
	return e
}

// 1. Matching expectation → action="pass" with analysis and eval populated.
func TestReplay_Pass(t *testing.T) {
	cases := []Case{{
		CaseID:  "c1",
		Profile: profile.Profile{MentalHealth: "ADHD"},
		Expected: Expectation{
			StageCount:     5,
			FirstStatus:    journey.StatusCurrent,
			LeadTime:       "8-12 months",
			ImmediateNeeds: []string{"Note-taking services"},
		},
	}}

	results := Replay(testEngine(t), cases, eval.DefaultEvalConfig())
	if len(results) != 1 {
		t.Fatalf("expected 1 result, got %d", len(results))
	}
	r := results[0]
	if r.Action != "pass" {
		t.Fatalf("expected pass, got %s: %s", r.Action, r.Reason)
	}
	if r.Analysis == nil || r.EvalResult == nil {
		t.Fatal("expected analysis and eval result")
	}
	if !r.EvalResult.Passed {
		t.Error("expected eval to pass")
	}
}

// 2. Wrong lead time and missing need → action="mismatch" listing both.
func TestReplay_Mismatch(t *testing.T) {
	cases := []Case{{
		CaseID:  "c1",
		Profile: profile.Profile{MentalHealth: "ADHD", Severity: "mild"},
		Expected: Expectation{
			LeadTime:       "12-18 months",
			ImmediateNeeds: []string{"Real-time captioning"},
		},
	}}

	r := Replay(testEngine(t), cases, eval.DefaultEvalConfig())[0]
	if r.Action != "mismatch" {
		t.Fatalf("expected mismatch, got %s", r.Action)
	}
	if len(r.Mismatches) != 2 {
		t.Fatalf("expected 2 mismatches, got %v", r.Mismatches)
	}
	if !strings.HasPrefix(r.Reason, "2 expectation(s) failed") {
		t.Errorf("unexpected reason %q", r.Reason)
	}
}

// 3. Eval bounds that no result can meet → action="eval_fail".
func TestReplay_EvalFail(t *testing.T) {
	cfg := eval.DefaultEvalConfig()
	cfg.ExpectedStages = 6

	r := Replay(testEngine(t), []Case{{CaseID: "c1"}}, cfg)[0]
	if r.Action != "eval_fail" {
		t.Fatalf("expected eval_fail, got %s", r.Action)
	}
	if r.EvalResult == nil || r.EvalResult.Passed {
		t.Fatal("expected failed eval result")
	}
}

// 4. Summary counts each action.
func TestSummarize(t *testing.T) {
	results := []ReplayResult{
		{Action: "pass"}, {Action: "pass"}, {Action: "mismatch"}, {Action: "eval_fail"}, {Action: "error"},
	}
	s := Summarize(results)
	if s.Total != 5 || s.Passed != 2 || s.Mismatches != 1 || s.EvalFails != 1 || s.Errors != 1 {
		t.Errorf("unexpected summary %+v", s)
	}
	if s.Failed() != 3 {
		t.Errorf("expected 3 failed, got %d", s.Failed())
	}
}

// 5. Check on an empty map reports missing stages instead of panicking.
func TestCheck_EmptyMap(t *testing.T) {
	out := Check(journey.Analysis{}, Expectation{StageCount: 5, FirstStatus: journey.StatusCurrent})
	if len(out) != 2 {
		t.Fatalf("expected 2 mismatches, got %v", out)
	}
}
