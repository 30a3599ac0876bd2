package profile

// #region feature-vector
// Feature indices within a FeatureVector.
const (
	MentalHealthIdx = iota
	PhysicalHealthIdx
	SeverityIdx
	GPAIdx
	SupportComplexityIdx

	NumFeatures
)

// FeatureVector is the numeric encoding of a profile.
type FeatureVector [NumFeatures]float64

// #endregion feature-vector

// #region tables
var mentalHealthIndex = map[string]int{
	None:         0,
	"ADHD":       1,
	"Autism":     2,
	"Depression": 3,
	"Anxiety":    4,
	"Other":      5,
}

var physicalHealthIndex = map[string]int{
	None:           0,
	"Hearing":      1,
	"Mobility":     2,
	"Vision":       3,
	"Neurological": 4,
	"Other":        5,
}

var severityIndex = map[string]int{
	SeverityMild:     1,
	SeverityModerate: 2,
	SeveritySevere:   3,
}

// otherIndex is used for categories missing from the tables.
const otherIndex = 5

// #endregion tables

// #region encode
// MentalHealthIndex returns the table index of a mental-health category.
func MentalHealthIndex(category string) int {
	return lookup(canonical(category, mentalHealthIndex), mentalHealthIndex)
}

// PhysicalHealthIndex returns the table index of a physical-health category.
func PhysicalHealthIndex(category string) int {
	return lookup(canonical(category, physicalHealthIndex), physicalHealthIndex)
}

// SeverityIndex maps mild/moderate/severe to 1/2/3, defaulting to 2.
func SeverityIndex(severity string) int {
	return severityIndex[normalizeSeverity(severity)]
}

func lookup(name string, table map[string]int) int {
	if idx, ok := table[name]; ok {
		return idx
	}
	return otherIndex
}

// SupportComplexity scores combined support needs. Each present condition adds
// 1 + 0.5*(severity-1); having both kinds adds a further 0.5.
func SupportComplexity(mental, physical, severity int) float64 {
	var complexity float64
	perCondition := 1.0 + 0.5*float64(severity-1)
	if mental > 0 {
		complexity += perCondition
	}
	if physical > 0 {
		complexity += perCondition
	}
	if mental > 0 && physical > 0 {
		complexity += 0.5
	}
	return complexity
}

// Encode maps a profile onto its feature vector after applying defaults.
func Encode(p Profile) FeatureVector {
	n := p.Normalize()
	mental := MentalHealthIndex(n.MentalHealth)
	physical := PhysicalHealthIndex(n.PhysicalHealth)
	severity := SeverityIndex(n.Severity)

	return FeatureVector{
		MentalHealthIdx:      float64(mental),
		PhysicalHealthIdx:    float64(physical),
		SeverityIdx:          float64(severity),
		GPAIdx:               n.GPAValue(),
		SupportComplexityIdx: SupportComplexity(mental, physical, severity),
	}
}

// #endregion encode
