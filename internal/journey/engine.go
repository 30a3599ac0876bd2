package journey

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/danielpatrickdp/unify-journey/go-controller/internal/model"
	"github.com/danielpatrickdp/unify-journey/go-controller/internal/observe"
	"github.com/danielpatrickdp/unify-journey/go-controller/internal/profile"
	"github.com/danielpatrickdp/unify-journey/go-controller/internal/viterbi"
)

// AnalysisType labels results produced by the HMM engine.
const AnalysisType = "hmm_viterbi"

// #region analysis
// ViterbiSummary restates the headline decode results.
type ViterbiSummary struct {
	OptimalPath    []string `json:"optimal_path"`
	PathConfidence float64  `json:"path_confidence"`
	Recommendation string   `json:"recommendation"`
}

// Analysis bundles the journey map and accommodation progression for one profile.
type Analysis struct {
	Success                  bool           `json:"success"`
	AnalysisType             string         `json:"analysis_type"`
	JourneyMap               Map            `json:"journey_map"`
	AccommodationProgression Progression    `json:"accommodation_progression"`
	ViterbiAnalysis          ViterbiSummary `json:"viterbi_analysis"`
}

// #endregion analysis

// #region engine
// Engine runs the full inference pipeline against an immutable parameter set.
// It holds no mutable state and is safe for concurrent use.
type Engine struct {
	params *model.Params
	seed   uint64
	seeded bool
	logger *zap.Logger
}

// Option configures an Engine.
type Option func(*Engine)

// WithSeed makes every observation sequence reproducible.
func WithSeed(seed uint64) Option {
	return func(e *Engine) {
		e.seed = seed
		e.seeded = true
	}
}

// WithLogger sets the engine's logger.
func WithLogger(l *zap.Logger) Option {
	return func(e *Engine) {
		if l != nil {
			e.logger = l
		}
	}
}

// NewEngine creates an engine. params must be non-nil.
func NewEngine(params *model.Params, opts ...Option) (*Engine, error) {
	if params == nil {
		return nil, viterbi.ErrNilParams
	}
	e := &Engine{params: params, logger: zap.NewNop()}
	for _, opt := range opts {
		opt(e)
	}
	return e, nil
}

// Params returns the engine's parameter set.
func (e *Engine) Params() *model.Params {
	return e.params
}

// #endregion engine

// #region pipeline
// Decode encodes the profile, builds its observation sequence and decodes it.
func (e *Engine) Decode(p profile.Profile) (viterbi.Result, error) {
	n := p.Normalize()
	features := profile.Encode(n)
	seq := e.builder().Build(features, profile.SeverityIndex(n.Severity))

	res, err := viterbi.Decode(seq, e.params)
	if err != nil {
		return viterbi.Result{}, fmt.Errorf("decode journey: %w", err)
	}
	e.logger.Debug("decoded journey",
		zap.Strings("path", res.Stages),
		zap.Float64("log_prob", res.LogProb),
		zap.Float64("confidence", res.Confidence),
	)
	return res, nil
}

// PredictJourney returns the annotated journey map for a profile.
func (e *Engine) PredictJourney(p profile.Profile) (Map, error) {
	res, err := e.Decode(p)
	if err != nil {
		return Map{}, err
	}
	return BuildMap(res.Stages, broadcast(res.Confidence, len(res.Stages)), p), nil
}

// AccommodationProgression decodes independently and returns the four-phase plan
// tagged with that decode's path confidence.
func (e *Engine) AccommodationProgression(p profile.Profile) (Progression, error) {
	res, err := e.Decode(p)
	if err != nil {
		return Progression{}, err
	}
	return BuildProgression(p, res.Confidence), nil
}

// Analyze runs both the journey map and the accommodation progression.
func (e *Engine) Analyze(p profile.Profile) (Analysis, error) {
	jm, err := e.PredictJourney(p)
	if err != nil {
		return Analysis{}, err
	}
	prog, err := e.AccommodationProgression(p)
	if err != nil {
		return Analysis{}, err
	}
	return Analysis{
		Success:                  true,
		AnalysisType:             AnalysisType,
		JourneyMap:               jm,
		AccommodationProgression: prog,
		ViterbiAnalysis: ViterbiSummary{
			OptimalPath:    jm.OptimalPath,
			PathConfidence: jm.PathConfidence,
			Recommendation: jm.OverallRecommendation,
		},
	}, nil
}

func (e *Engine) builder() *observe.Builder {
	if e.seeded {
		return observe.NewBuilder(e.seed)
	}
	return observe.NewRandomBuilder()
}

// broadcast repeats the path confidence once per stage.
func broadcast(c float64, n int) []float64 {
	out := make([]float64, n)
	for i := range out {
		out[i] = c
	}
	return out
}

// #endregion pipeline
