package replay

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/danielpatrickdp/unify-journey/go-controller/internal/eval"
	"github.com/danielpatrickdp/unify-journey/go-controller/internal/journey"
	"github.com/danielpatrickdp/unify-journey/go-controller/internal/profile"
)

// #region fixture-types

// Fixture is the top-level JSON structure for a replay fixture.
type Fixture struct {
	Description string            `json:"description"`
	Seed        uint64            `json:"seed"`
	EvalConfig  FixtureEvalConfig `json:"eval_config"`
	Cases       []FixtureCase     `json:"cases"`
}

// FixtureEvalConfig mirrors eval.EvalConfig with JSON tags. Zero values take the
// defaults.
type FixtureEvalConfig struct {
	ExpectedStages int     `json:"expected_stages"`
	MinConfidence  float64 `json:"min_confidence"`
	MaxConfidence  float64 `json:"max_confidence"`
}

// FixtureCase is one profile with its expected results.
type FixtureCase struct {
	CaseID   string             `json:"case_id"`
	Profile  profile.Profile    `json:"profile"`
	Expected FixtureExpectation `json:"expected"`
}

// FixtureExpectation mirrors Expectation with JSON tags.
type FixtureExpectation struct {
	StageCount     int      `json:"stage_count"`
	FirstStatus    string   `json:"first_status"`
	LeadTime       string   `json:"lead_time"`
	ImmediateNeeds []string `json:"immediate_needs"`
	FocusContains  []string `json:"focus_contains"`
}

// #endregion fixture-types

// #region fixture-loader

// LoadFixture reads and parses a JSON fixture file.
func LoadFixture(path string) (*Fixture, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read fixture %s: %w", path, err)
	}
	var f Fixture
	if err := json.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("parse fixture %s: %w", path, err)
	}
	if len(f.Cases) == 0 {
		return nil, fmt.Errorf("fixture %s: no cases", path)
	}
	return &f, nil
}

// ToCases converts the fixture cases to domain cases.
func (f *Fixture) ToCases() []Case {
	cases := make([]Case, len(f.Cases))
	for i, fc := range f.Cases {
		cases[i] = Case{
			CaseID:  fc.CaseID,
			Profile: fc.Profile,
			Expected: Expectation{
				StageCount:     fc.Expected.StageCount,
				FirstStatus:    journey.Status(fc.Expected.FirstStatus),
				LeadTime:       fc.Expected.LeadTime,
				ImmediateNeeds: fc.Expected.ImmediateNeeds,
				FocusContains:  fc.Expected.FocusContains,
			},
		}
	}
	return cases
}

// ToEvalConfig converts the fixture eval config, filling unset bounds from the defaults.
func (fc FixtureEvalConfig) ToEvalConfig() eval.EvalConfig {
	cfg := eval.DefaultEvalConfig()
	if fc.ExpectedStages > 0 {
		cfg.ExpectedStages = fc.ExpectedStages
	}
	if fc.MinConfidence != 0 {
		cfg.MinConfidence = fc.MinConfidence
	}
	if fc.MaxConfidence != 0 {
		cfg.MaxConfidence = fc.MaxConfidence
	}
	return cfg
}

// #endregion fixture-loader
