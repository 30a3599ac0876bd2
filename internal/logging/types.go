package logging

import "time"

// #region inference-entry
// InferenceEntry is a single row in the inference_log table.
type InferenceEntry struct {
	RunID         string
	ParamsVersion string
	Method        string // "predict_journey" | "accommodation_progression" | "analyze"
	ProfileHash   string
	Path          []string
	Confidence    float64
	EvalPassed    bool
	Reason        string
	CreatedAt     time.Time
}

// #endregion inference-entry
