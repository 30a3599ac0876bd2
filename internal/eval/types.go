package eval

// #region eval-config
// EvalConfig holds the structural expectations for an inference result.
type EvalConfig struct {
	ExpectedStages int     // stage entries a journey map must carry
	MinConfidence  float64 // exclusive lower bound on reported confidence
	MaxConfidence  float64 // inclusive upper bound on reported confidence
}

// DefaultEvalConfig returns the bounds every journey result must satisfy.
func DefaultEvalConfig() EvalConfig {
	return EvalConfig{
		ExpectedStages: 5,
		MinConfidence:  0,
		MaxConfidence:  1,
	}
}

// #endregion eval-config

// #region eval-metric
// EvalMetric captures a single validation check result.
type EvalMetric struct {
	Name  string  `json:"name"`
	Value float64 `json:"value"`
	Pass  bool    `json:"pass"`
}

// #endregion eval-metric

// #region eval-result
// EvalResult is the output of result validation.
type EvalResult struct {
	Passed  bool         `json:"passed"`
	Metrics []EvalMetric `json:"metrics"`
	Reason  string       `json:"reason"`
}

// #endregion eval-result
