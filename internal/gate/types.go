package gate

// #region veto-type
// VetoType enumerates hard veto categories.
type VetoType string

const (
	VetoInvalid    VetoType = "invalid_params"
	VetoStageSet   VetoType = "stage_set_changed"
	VetoDrift      VetoType = "drift"
	VetoAbsorbing  VetoType = "final_stage_not_absorbing"
	VetoDegenerate VetoType = "degenerate_variance"
)

// #endregion veto-type

// #region veto-signal
// VetoSignal represents a detected hard veto condition.
type VetoSignal struct {
	Type   VetoType
	Reason string
}

// #endregion veto-signal

// #region gate-config
// GateConfig holds thresholds for parameter commit decisions.
type GateConfig struct {
	MaxTransitionDelta float64 // max absolute change of any transition or start probability
	MaxMeanDelta       float64 // max absolute change of any emission mean
	MinFinalSelfLoop   float64 // floor on the final stage's self-transition
	MinVariance        float64 // floor on every emission variance
}

// DefaultGateConfig returns the thresholds journeyd applies when loading a new bundle.
func DefaultGateConfig() GateConfig {
	return GateConfig{
		MaxTransitionDelta: 0.5,
		MaxMeanDelta:       2.0,
		MinFinalSelfLoop:   0.5,
		MinVariance:        1e-3,
	}
}

// #endregion gate-config

// #region gate-decision
// GateDecision is the output of the gate evaluation.
type GateDecision struct {
	Action      string // "commit" | "reject"
	Reason      string
	Vetoed      bool
	VetoSignals []VetoSignal // non-empty if vetoed
	SoftScore   float64      // 0-1 similarity to the active version (for logging)
}

// #endregion gate-decision
