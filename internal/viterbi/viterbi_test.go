package viterbi

import (
	"errors"
	"math"
	"testing"

	"github.com/danielpatrickdp/unify-journey/go-controller/internal/model"
	"github.com/danielpatrickdp/unify-journey/go-controller/internal/observe"
	"github.com/danielpatrickdp/unify-journey/go-controller/internal/profile"
)

// #region helpers
func meanVector(p *model.Params, s int) profile.FeatureVector {
	return profile.FeatureVector(p.Mean()[s])
}

func fixedSequence() []profile.FeatureVector {
	return []profile.FeatureVector{
		{1, 0, 2, 3.8, 1.5},
		{1.2, 0.1, 2.1, 3.7, 1.7},
		{0.9, -0.2, 1.9, 3.9, 1.9},
		{1.1, 0.05, 2.0, 3.75, 2.0},
		{1.0, 0.0, 2.05, 3.8, 2.1},
	}
}

// jointLogProb scores one explicit path.
func jointLogProb(obs []profile.FeatureVector, path []int, p *model.Params) float64 {
	start, trans := p.Start(), p.Transition()
	lp := math.Log(start[path[0]]) + LogEmission(obs[0], path[0], p)
	for t := 1; t < len(path); t++ {
		lp += math.Log(trans[path[t-1]][path[t]]) + LogEmission(obs[t], path[t], p)
	}
	return lp
}

// #endregion helpers

func TestDecodeMatchesBruteForce(t *testing.T) {
	p := model.MustDefault()
	obs := fixedSequence()

	res, err := Decode(obs, p)
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}

	best := math.Inf(-1)
	path := make([]int, len(obs))
	var walk func(int)
	walk = func(t int) {
		if t == len(obs) {
			if lp := jointLogProb(obs, path, p); lp > best {
				best = lp
			}
			return
		}
		for s := 0; s < model.NumStates; s++ {
			path[t] = s
			walk(t + 1)
		}
	}
	walk(0)

	if math.Abs(res.LogProb-best) > 1e-9 {
		t.Fatalf("LogProb = %f, brute force best = %f", res.LogProb, best)
	}
	if got := jointLogProb(obs, res.Path, p); math.Abs(got-res.LogProb) > 1e-9 {
		t.Fatalf("decoded path scores %f, reported %f", got, res.LogProb)
	}
}

func TestDecodeIsDeterministic(t *testing.T) {
	p := model.MustDefault()
	obs := fixedSequence()

	a, err := Decode(obs, p)
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	b, err := Decode(obs, p)
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	for i := range a.Path {
		if a.Path[i] != b.Path[i] {
			t.Fatalf("path differs at %d: %v vs %v", i, a.Path, b.Path)
		}
	}
	if a.Confidence != b.Confidence || a.LogProb != b.LogProb {
		t.Fatalf("confidence differs: %f vs %f", a.Confidence, b.Confidence)
	}
}

func TestDecodeStagesMatchPath(t *testing.T) {
	p := model.MustDefault()
	res, err := Decode(fixedSequence(), p)
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if len(res.Stages) != len(res.Path) {
		t.Fatalf("stages %d, path %d", len(res.Stages), len(res.Path))
	}
	for i, s := range res.Path {
		if res.Stages[i] != p.Stage(s) {
			t.Errorf("stage %d = %s, want %s", i, res.Stages[i], p.Stage(s))
		}
	}
}

func TestStrongPriorStartsAtInitialAssessment(t *testing.T) {
	p := model.MustDefault()
	m := meanVector(p, 0)
	obs := []profile.FeatureVector{m, m, m, m, m}

	res, err := Decode(obs, p)
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if res.Stages[0] != model.StageInitialAssessment {
		t.Fatalf("first stage = %s, want %s", res.Stages[0], model.StageInitialAssessment)
	}
}

func TestFinalStageObservationsStayFinal(t *testing.T) {
	p := model.MustDefault()
	final := meanVector(p, 4)
	obs := []profile.FeatureVector{meanVector(p, 0), meanVector(p, 1), final, final, final}

	res, err := Decode(obs, p)
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if res.Path[0] != 0 {
		t.Fatalf("path = %v, want initial stage first", res.Stages)
	}
	if res.Path[3] != 4 || res.Path[4] != 4 {
		t.Fatalf("path = %v, want final stage at steps 3 and 4", res.Stages)
	}
}

func TestFinalSelfLoopDominatesStatistically(t *testing.T) {
	p := model.MustDefault()
	base := profile.FeatureVector{2.5, 2, 2, 3.2, 2.2}

	var reached, stayed int
	for seed := uint64(0); seed < 500; seed++ {
		seq := observe.NewBuilder(seed).Build(base, 2)
		res, err := Decode(seq, p)
		if err != nil {
			t.Fatalf("Decode: %v", err)
		}
		if res.Path[3] == 4 {
			reached++
			if res.Path[4] == 4 {
				stayed++
			}
		}
	}
	if reached < 10 {
		t.Skipf("only %d trials reached the final stage by step 3", reached)
	}
	if float64(stayed)/float64(reached) <= 0.5 {
		t.Fatalf("stayed in final stage %d/%d times, want a majority", stayed, reached)
	}
}

func TestConfidenceInUnitInterval(t *testing.T) {
	p := model.MustDefault()
	profiles := []profile.Profile{
		{MentalHealth: "ADHD", Severity: "moderate"},
		{MentalHealth: "Autism", PhysicalHealth: "Mobility", Severity: "severe"},
		{PhysicalHealth: "Hearing", Severity: "mild"},
		{},
	}
	for seed := uint64(0); seed < 50; seed++ {
		for _, pr := range profiles {
			seq := observe.NewBuilder(seed).Build(profile.Encode(pr), profile.SeverityIndex(pr.Severity))
			res, err := Decode(seq, p)
			if err != nil {
				t.Fatalf("Decode: %v", err)
			}
			if !(res.Confidence > 0 && res.Confidence <= 1) {
				t.Fatalf("confidence %f outside (0,1] for %+v", res.Confidence, pr)
			}
		}
	}
}

func TestConfidenceUnderflowReportsFloor(t *testing.T) {
	d := model.MustDefault()
	var tiny model.Matrix
	for s := range tiny {
		for f := range tiny[s] {
			tiny[s][f] = 1e-9
		}
	}
	p, err := model.NewParams(d.Stages(), d.Transition(), d.Start(), d.Mean(), tiny)
	if err != nil {
		t.Fatalf("NewParams: %v", err)
	}
	far := profile.FeatureVector{50, 50, 50, 50, 50}
	res, err := Decode([]profile.FeatureVector{far, far, far, far, far}, p)
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if res.Confidence != ConfidenceFloor {
		t.Fatalf("confidence = %f, want floor %f", res.Confidence, ConfidenceFloor)
	}
	if len(res.Path) != 5 {
		t.Fatalf("path length = %d, want 5", len(res.Path))
	}
}

func TestConfidenceNaNObservation(t *testing.T) {
	p := model.MustDefault()
	bad := profile.FeatureVector{math.NaN(), 0, 2, 3, 1}
	res, err := Decode([]profile.FeatureVector{bad, bad, bad, bad, bad}, p)
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if res.Confidence != ConfidenceFloor {
		t.Fatalf("confidence = %f, want floor", res.Confidence)
	}
}

func TestConfidenceFunction(t *testing.T) {
	if got := Confidence(math.Inf(-1), 5); got != ConfidenceFloor {
		t.Errorf("Confidence(-Inf) = %f", got)
	}
	if got := Confidence(math.NaN(), 5); got != ConfidenceFloor {
		t.Errorf("Confidence(NaN) = %f", got)
	}
	if got := Confidence(-600, 5); got != ConfidenceFloor {
		t.Errorf("Confidence(-600/5) = %f", got)
	}
	if got := Confidence(10, 5); got != 1 {
		t.Errorf("Confidence(positive) = %f, want 1", got)
	}
	if got := Confidence(-5, 5); math.Abs(got-math.Exp(-1)) > 1e-12 {
		t.Errorf("Confidence(-5/5) = %f, want e^-1", got)
	}
}

func TestTieBreakUsesLowestIndex(t *testing.T) {
	d := model.MustDefault()
	var uniform model.Matrix
	var means, vars model.Matrix
	for i := range uniform {
		for j := range uniform[i] {
			uniform[i][j] = 0.2
			means[i][j] = 1
			vars[i][j] = 1
		}
	}
	start := model.Vector{0.2, 0.2, 0.2, 0.2, 0.2}
	p, err := model.NewParams(d.Stages(), uniform, start, means, vars)
	if err != nil {
		t.Fatalf("NewParams: %v", err)
	}
	x := profile.FeatureVector{1, 1, 1, 1, 1}
	res, err := Decode([]profile.FeatureVector{x, x, x}, p)
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	for i, s := range res.Path {
		if s != 0 {
			t.Fatalf("path[%d] = %d, want 0 on ties", i, s)
		}
	}
}

func TestDecodeErrors(t *testing.T) {
	if _, err := Decode(nil, model.MustDefault()); !errors.Is(err, ErrEmptySequence) {
		t.Errorf("expected ErrEmptySequence, got %v", err)
	}
	if _, err := Decode(fixedSequence(), nil); !errors.Is(err, ErrNilParams) {
		t.Errorf("expected ErrNilParams, got %v", err)
	}
}
