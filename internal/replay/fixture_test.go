package replay

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/danielpatrickdp/unify-journey/go-controller/internal/journey"
	"github.com/danielpatrickdp/unify-journey/go-controller/internal/model"
)

// #region fixture-tests

// TestFixture_Profiles runs the profile baseline and checks every case passes. If the
// rule tables or stage catalog drift, this catches it.
func TestFixture_Profiles(t *testing.T) {
	f, err := LoadFixture(filepath.Join("testdata", "profiles.json"))
	if err != nil {
		t.Fatalf("LoadFixture: %v", err)
	}

	engine, err := journey.NewEngine(model.MustDefault(), journey.WithSeed(f.Seed))
	if err != nil {
		t.Fatalf("NewEngine: %v", err)
	}

	results := Replay(engine, f.ToCases(), f.EvalConfig.ToEvalConfig())
	if len(results) != len(f.Cases) {
		t.Fatalf("expected %d results, got %d", len(f.Cases), len(results))
	}
	for i, r := range results {
		if r.CaseID != f.Cases[i].CaseID {
			t.Errorf("case %d: expected case_id=%s, got %s", i, f.Cases[i].CaseID, r.CaseID)
		}
		if r.Action != "pass" {
			t.Errorf("case %s: expected pass, got %s (reason: %s, mismatches: %v)", r.CaseID, r.Action, r.Reason, r.Mismatches)
		}
	}

	s := Summarize(results)
	if s.Failed() != 0 {
		t.Errorf("expected no failures, got %+v", s)
	}
}

func TestLoadFixture_Missing(t *testing.T) {
	if _, err := LoadFixture(filepath.Join(t.TempDir(), "nope.json")); err == nil {
		t.Fatal("expected error for missing fixture")
	}
}

func TestLoadFixture_Malformed(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.json")
	if err := os.WriteFile(path, []byte(`{"cases": [`), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := LoadFixture(path); err == nil {
		t.Fatal("expected parse error")
	}
}

func TestLoadFixture_NoCases(t *testing.T) {
	path := filepath.Join(t.TempDir(), "empty.json")
	if err := os.WriteFile(path, []byte(`{"description": "x", "cases": []}`), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := LoadFixture(path); err == nil {
		t.Fatal("expected error for fixture without cases")
	}
}

func TestFixtureEvalConfig_Defaults(t *testing.T) {
	cfg := FixtureEvalConfig{}.ToEvalConfig()
	if cfg.ExpectedStages != 5 || cfg.MaxConfidence != 1 {
		t.Errorf("unexpected defaults: %+v", cfg)
	}
}

// #endregion fixture-tests
