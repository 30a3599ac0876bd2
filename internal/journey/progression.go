package journey

import "github.com/danielpatrickdp/unify-journey/go-controller/internal/profile"

// Progression lists support recommendations across four program phases.
type Progression struct {
	ImmediateNeeds  []string `json:"immediate_needs"`
	Semester12      []string `json:"semester_1_2"`
	Semester34      []string `json:"semester_3_4"`
	UpperYears      []string `json:"upper_years"`
	ConfidenceScore float64  `json:"confidence_score"`
}

// BuildProgression derives the accommodation progression for a profile. confidence is
// the decoder's path confidence and is copied through unchanged.
func BuildProgression(p profile.Profile, confidence float64) Progression {
	return Progression{
		ImmediateNeeds: ImmediateNeeds(p),
		Semester12: []string{
			"Regular check-ins with disability advisor",
			"Academic skill development workshops",
			"Peer mentoring programs",
			"Technology orientation sessions",
		},
		Semester34: []string{
			"Research accommodation support",
			"Internship accessibility planning",
			"Advanced assistive technology",
			"Reduced course load options",
		},
		UpperYears: []string{
			"Thesis/capstone project accommodations",
			"Graduate school preparation support",
			"Career services accessibility",
			"Professional networking accommodations",
		},
		ConfidenceScore: confidence,
	}
}

// ImmediateNeeds returns the accommodations needed on enrollment.
func ImmediateNeeds(p profile.Profile) []string {
	n := p.Normalize()
	needs := []string{"Extended time on exams", "Academic coaching"}

	switch n.MentalHealth {
	case "ADHD":
		needs = append(needs, "Quiet testing environment", "Note-taking services")
	case "Autism":
		needs = append(needs, "Structured schedule support", "Social skills coaching")
	}
	switch n.PhysicalHealth {
	case "Mobility":
		needs = append(needs, "Accessible classroom locations", "Priority registration")
	case "Hearing":
		needs = append(needs, "Sign language interpreters", "Real-time captioning")
	}
	return needs
}
