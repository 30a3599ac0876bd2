package journey

import "github.com/danielpatrickdp/unify-journey/go-controller/internal/model"

// #region stage-info
// StageInfo is the static, profile-independent description of a stage.
type StageInfo struct {
	Title       string
	Description string
	Actions     []string
	Timeline    string
}

var catalog = map[string]StageInfo{
	model.StageInitialAssessment: {
		Title:       "Initial Assessment",
		Description: "Understanding your accessibility needs and academic goals",
		Actions: []string{
			"Complete disability documentation",
			"Identify primary accommodation needs",
			"Set academic goals and preferences",
		},
		Timeline: "Month 1-2",
	},
	model.StageAccommodationPlanning: {
		Title:       "Accommodation Planning",
		Description: "Determining specific accommodations and support services needed",
		Actions: []string{
			"Consult with accessibility advisors",
			"Research accommodation types",
			"Document specific needs for applications",
		},
		Timeline: "Month 2-3",
	},
	model.StageUniversitySelection: {
		Title:       "University Selection",
		Description: "Identifying universities with best accessibility support",
		Actions: []string{
			"Research university accessibility services",
			"Compare accommodation availability",
			"Visit campuses or attend virtual tours",
			"Contact disability support offices",
		},
		Timeline: "Month 3-6",
	},
	model.StageApplicationPrep: {
		Title:       "Application Preparation",
		Description: "Preparing applications highlighting your strengths and needs",
		Actions: []string{
			"Prepare personal statements",
			"Request accommodation letters",
			"Gather required documentation",
			"Complete application forms",
		},
		Timeline: "Month 6-8",
	},
	model.StageFinalRecommendation: {
		Title:       "Final Recommendations",
		Description: "Personalized university recommendations based on your needs",
		Actions: []string{
			"Review top university matches",
			"Compare accessibility ratings",
			"Make informed decision",
			"Submit applications",
		},
		Timeline: "Month 8-10",
	},
}

// Info returns the catalog entry for a stage. The returned Actions slice is a copy.
func Info(stage string) (StageInfo, bool) {
	info, ok := catalog[stage]
	if !ok {
		return StageInfo{}, false
	}
	info.Actions = append([]string(nil), info.Actions...)
	return info, true
}

// #endregion stage-info

// #region status
// Status marks where a stage sits relative to the applicant's present position.
type Status string

const (
	StatusCurrent  Status = "current"
	StatusUpcoming Status = "upcoming"
	StatusFuture   Status = "future"
)

// StatusFor returns the status of the stage at path index i.
func StatusFor(i int) Status {
	switch {
	case i == 0:
		return StatusCurrent
	case i < 3:
		return StatusUpcoming
	default:
		return StatusFuture
	}
}

// #endregion status
