package model

import "errors"

// #region constants
// NumStates is the fixed number of hidden journey stages.
const NumStates = 5

// NumFeatures is the width of every observation vector.
const NumFeatures = 5

// Tolerance bounds the allowed drift of a probability row sum from 1.
const Tolerance = 1e-6

// Stage names in nominal forward order.
const (
	StageInitialAssessment     = "initial_assessment"
	StageAccommodationPlanning = "accommodation_planning"
	StageUniversitySelection   = "university_selection"
	StageApplicationPrep       = "application_prep"
	StageFinalRecommendation   = "final_recommendation"
)

// #endregion constants

// #region matrix-types
// Vector is one probability or Gaussian parameter per state.
type Vector [NumStates]float64

// Matrix is indexed [state][state] for transitions and [state][feature] for emissions.
type Matrix [NumStates][NumStates]float64

// #endregion matrix-types

// #region violation
// ViolationKind enumerates configuration error categories.
type ViolationKind string

const (
	ViolationStages     ViolationKind = "stages"
	ViolationTransition ViolationKind = "transition"
	ViolationStart      ViolationKind = "start"
	ViolationMean       ViolationKind = "mean"
	ViolationVariance   ViolationKind = "variance"
)

// Violation describes one broken parameter invariant.
type Violation struct {
	Kind   ViolationKind
	Reason string
}

// ErrInvalidParams is wrapped by every validation failure returned from NewParams.
var ErrInvalidParams = errors.New("invalid model parameters")

// #endregion violation
