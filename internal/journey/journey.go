package journey

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/danielpatrickdp/unify-journey/go-controller/internal/model"
	"github.com/danielpatrickdp/unify-journey/go-controller/internal/profile"
)

// #region types
// StageEntry is one annotated step of the decoded journey.
type StageEntry struct {
	StageNumber             int      `json:"stage_number"`
	Stage                   string   `json:"stage"`
	Title                   string   `json:"title"`
	Description             string   `json:"description"`
	Actions                 []string `json:"actions"`
	Timeline                string   `json:"timeline"`
	Confidence              float64  `json:"confidence"`
	Status                  Status   `json:"status"`
	SpecificRecommendations []string `json:"specific_recommendations"`
}

// Map is the journey map returned to callers.
type Map struct {
	OptimalPath           []string     `json:"optimal_path"`
	PathConfidence        float64      `json:"path_confidence"`
	Stages                []StageEntry `json:"stages"`
	OverallRecommendation string       `json:"overall_recommendation"`
}

// #endregion types

// #region lead-times
const (
	leadTimeExtended = "12-18 months"
	leadTimeStandard = "8-12 months"
	leadTimeShort    = "6-8 months"

	focusMentalHealth   = "mental health support services"
	focusPhysicalAccess = "physical accessibility infrastructure"

	comprehensivePlanningRemark = "Your journey path shows comprehensive planning, which increases your chances of finding the perfect match."

	// distinct stages a path must visit to earn the planning remark
	comprehensiveStageCount = 4
)

// #endregion lead-times

// #region build-map
// BuildMap annotates a decoded stage path. confidences holds one value per path entry;
// PathConfidence is their mean. Stages missing from the catalog are skipped.
func BuildMap(path []string, confidences []float64, p profile.Profile) Map {
	n := p.Normalize()
	m := Map{
		OptimalPath:    append([]string(nil), path...),
		PathConfidence: mean(confidences),
		Stages:         make([]StageEntry, 0, len(path)),
	}

	for i, stage := range path {
		info, ok := Info(stage)
		if !ok {
			continue
		}
		var conf float64
		if i < len(confidences) {
			conf = confidences[i]
		}
		m.Stages = append(m.Stages, StageEntry{
			StageNumber:             i + 1,
			Stage:                   stage,
			Title:                   info.Title,
			Description:             info.Description,
			Actions:                 info.Actions,
			Timeline:                info.Timeline,
			Confidence:              conf,
			Status:                  StatusFor(i),
			SpecificRecommendations: StageRecommendations(stage, n),
		})
	}

	m.OverallRecommendation = OverallRecommendation(path, n)
	return m
}

func mean(xs []float64) float64 {
	if len(xs) == 0 {
		return 0
	}
	var sum float64
	for _, x := range xs {
		sum += x
	}
	return sum / float64(len(xs))
}

// #endregion build-map

// #region stage-recommendations
// StageRecommendations returns the profile-conditioned advice for one stage.
func StageRecommendations(stage string, p profile.Profile) []string {
	n := p.Normalize()
	recs := []string{}

	switch stage {
	case model.StageInitialAssessment:
		if n.HasMentalHealth() {
			recs = append(recs, fmt.Sprintf("Document your %s diagnosis and history", n.MentalHealth))
		}
		if n.HasPhysicalHealth() {
			recs = append(recs, fmt.Sprintf("Gather medical documentation for %s", n.PhysicalHealth))
		}
		recs = append(recs, "List all current accommodations you use")

	case model.StageAccommodationPlanning:
		switch n.MentalHealth {
		case "ADHD":
			recs = append(recs,
				"Consider extended time accommodations",
				"Request quiet testing environments",
				"Look into note-taking services",
			)
		case "Autism":
			recs = append(recs,
				"Research sensory-friendly spaces",
				"Consider social skills support programs",
				"Look for structured routine accommodations",
			)
		}
		switch n.PhysicalHealth {
		case "Mobility":
			recs = append(recs,
				"Prioritize wheelchair-accessible campuses",
				"Research accessible housing options",
				"Look for assistive technology support",
			)
		case "Hearing":
			recs = append(recs,
				"Research sign language interpreter availability",
				"Look for captioning services",
				"Consider hearing loop systems",
			)
		}
		if n.Severity == profile.SeveritySevere {
			recs = append(recs, "Consider comprehensive support programs")
		}

	case model.StageUniversitySelection:
		gpa := n.GPAValue()
		switch {
		case gpa >= 3.7:
			recs = append(recs, "Consider highly competitive universities with strong disability support")
		case gpa >= 3.0:
			recs = append(recs, "Focus on mid-tier universities with excellent accessibility services")
		default:
			recs = append(recs, "Look for universities with strong academic support and accessibility")
		}
		recs = append(recs,
			"Compare disability support office ratings",
			"Review available accommodation types",
			"Check campus accessibility infrastructure",
		)

	case model.StageApplicationPrep:
		recs = append(recs,
			"Write personal statement highlighting your strengths",
			"Explain how accommodations helped you succeed",
			"Request letters from accessibility advisors",
			"Prepare documentation package for each university",
		)

	case model.StageFinalRecommendation:
		recs = append(recs,
			"Apply to 5-8 universities with varying selectivity",
			"Ensure all have your required accommodations",
			"Submit early decision if confident about fit",
			"Follow up with disability services offices",
		)
	}

	return recs
}

// #endregion stage-recommendations

// #region overall
// LeadTime returns the suggested search lead time before application deadlines.
func LeadTime(p profile.Profile) string {
	n := p.Normalize()
	switch {
	case n.Severity == profile.SeveritySevere || (n.HasMentalHealth() && n.HasPhysicalHealth()):
		return leadTimeExtended
	case n.Severity == profile.SeverityModerate:
		return leadTimeStandard
	default:
		return leadTimeShort
	}
}

// FocusAreas names the support area for each condition type present.
func FocusAreas(p profile.Profile) []string {
	var areas []string
	if p.HasMentalHealth() {
		areas = append(areas, focusMentalHealth)
	}
	if p.HasPhysicalHealth() {
		areas = append(areas, focusPhysicalAccess)
	}
	return areas
}

// OverallRecommendation composes the narrative summary for a decoded path.
func OverallRecommendation(path []string, p profile.Profile) string {
	n := p.Normalize()
	var b strings.Builder

	fmt.Fprintf(&b, "Based on your profile (%s - %s severity, GPA: %s), ", n.MentalHealth, n.Severity, formatGPA(n.GPAValue()))
	fmt.Fprintf(&b, "we recommend starting your university search %s before application deadlines. ", LeadTime(n))

	if areas := FocusAreas(n); len(areas) > 0 {
		fmt.Fprintf(&b, "Focus on universities with strong %s. ", strings.Join(areas, " and "))
	}

	if distinct(path) >= comprehensiveStageCount {
		b.WriteString(comprehensivePlanningRemark)
	}

	return strings.TrimSpace(b.String())
}

func distinct(path []string) int {
	seen := make(map[string]struct{}, len(path))
	for _, s := range path {
		seen[s] = struct{}{}
	}
	return len(seen)
}

// formatGPA prints the shortest exact form, always with a decimal point.
func formatGPA(g float64) string {
	s := strconv.FormatFloat(g, 'f', -1, 64)
	if !strings.Contains(s, ".") {
		s += ".0"
	}
	return s
}

// #endregion overall
