package gate

import (
	"strings"
	"testing"

	"github.com/danielpatrickdp/unify-journey/go-controller/internal/model"
)

// helper: defaults with one field replaced.
func variant(t *testing.T, edit func(stages *[model.NumStates]string, tr *model.Matrix, start *model.Vector, mean, variance *model.Matrix)) *model.Params {
	t.Helper()
	d := model.MustDefault()
	stages, tr, start, mean, variance := d.Stages(), d.Transition(), d.Start(), d.Mean(), d.Variance()
	edit(&stages, &tr, &start, &mean, &variance)
	p, err := model.NewParams(stages, tr, start, mean, variance)
	if err != nil {
		t.Fatalf("NewParams: %v", err)
	}
	return p
}

func hasVeto(d GateDecision, vt VetoType) bool {
	for _, v := range d.VetoSignals {
		if v.Type == vt {
			return true
		}
	}
	return false
}

// 1. Identical parameters commit with a perfect soft score.
func TestGate_IdenticalCommits(t *testing.T) {
	g := NewGate(DefaultGateConfig())
	d := g.Evaluate(model.MustDefault(), model.MustDefault())
	if d.Action != "commit" {
		t.Fatalf("expected commit, got %s: %s", d.Action, d.Reason)
	}
	if d.SoftScore != 1 {
		t.Errorf("expected soft score 1, got %f", d.SoftScore)
	}
}

// 2. No active version: only intrinsic checks apply.
func TestGate_FirstVersion(t *testing.T) {
	g := NewGate(DefaultGateConfig())
	d := g.Evaluate(nil, model.MustDefault())
	if d.Action != "commit" || d.SoftScore != 1 {
		t.Fatalf("unexpected decision %+v", d)
	}
}

// 3. Small drift commits with a soft score below 1.
func TestGate_SmallDrift(t *testing.T) {
	g := NewGate(DefaultGateConfig())
	p := variant(t, func(_ *[model.NumStates]string, _ *model.Matrix, start *model.Vector, _, _ *model.Matrix) {
		*start = model.Vector{0.7, 0.25, 0.03, 0.01, 0.01}
	})
	d := g.Evaluate(model.MustDefault(), p)
	if d.Action != "commit" {
		t.Fatalf("expected commit, got %s", d.Reason)
	}
	if d.SoftScore >= 1 || d.SoftScore <= 0.9 {
		t.Errorf("unexpected soft score %f", d.SoftScore)
	}
}

// 4. Large probability drift is vetoed.
func TestGate_TransitionDriftVeto(t *testing.T) {
	g := NewGate(DefaultGateConfig())
	p := variant(t, func(_ *[model.NumStates]string, _ *model.Matrix, start *model.Vector, _, _ *model.Matrix) {
		*start = model.Vector{0.1, 0.8, 0.05, 0.03, 0.02}
	})
	d := g.Evaluate(model.MustDefault(), p)
	if d.Action != "reject" || !hasVeto(d, VetoDrift) {
		t.Fatalf("expected drift veto, got %+v", d)
	}
	if !strings.HasPrefix(d.Reason, "hard veto: probability delta") {
		t.Errorf("unexpected reason %q", d.Reason)
	}
}

// 5. Renamed stages are vetoed.
func TestGate_StageSetVeto(t *testing.T) {
	g := NewGate(DefaultGateConfig())
	p := variant(t, func(stages *[model.NumStates]string, _ *model.Matrix, _ *model.Vector, _, _ *model.Matrix) {
		stages[2] = "campus_visits"
	})
	d := g.Evaluate(model.MustDefault(), p)
	if !hasVeto(d, VetoStageSet) {
		t.Fatalf("expected stage set veto, got %+v", d)
	}
}

// 6. A final stage that no longer holds its mass is vetoed.
func TestGate_AbsorbingVeto(t *testing.T) {
	g := NewGate(DefaultGateConfig())
	p := variant(t, func(_ *[model.NumStates]string, tr *model.Matrix, _ *model.Vector, _, _ *model.Matrix) {
		tr[4] = [model.NumStates]float64{0.2, 0.2, 0.2, 0.2, 0.2}
	})
	d := g.Evaluate(nil, p)
	if !hasVeto(d, VetoAbsorbing) {
		t.Fatalf("expected absorbing veto, got %+v", d)
	}
}

// 7. Near-zero variance is vetoed; all vetoes are collected.
func TestGate_DegenerateVarianceAndMeanDrift(t *testing.T) {
	g := NewGate(DefaultGateConfig())
	p := variant(t, func(_ *[model.NumStates]string, _ *model.Matrix, _ *model.Vector, mean, variance *model.Matrix) {
		variance[0][0] = 1e-6
		mean[3][4] = 9
	})
	d := g.Evaluate(model.MustDefault(), p)
	if !hasVeto(d, VetoDegenerate) || !hasVeto(d, VetoDrift) {
		t.Fatalf("expected degenerate and drift vetoes, got %+v", d.VetoSignals)
	}
	if len(d.VetoSignals) != 2 {
		t.Errorf("expected 2 vetoes, got %d", len(d.VetoSignals))
	}
}

// 8. Nil proposal is rejected.
func TestGate_NilProposed(t *testing.T) {
	d := NewGate(DefaultGateConfig()).Evaluate(model.MustDefault(), nil)
	if d.Action != "reject" || !hasVeto(d, VetoInvalid) {
		t.Fatalf("unexpected decision %+v", d)
	}
}
