package profile

import (
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

// #region defaults
const (
	None = "None"

	SeverityMild     = "mild"
	SeverityModerate = "moderate"
	SeveritySevere   = "severe"

	DefaultSeverity = SeverityModerate
	DefaultGPA      = 3.0
	MaxGPA          = 4.0
)

// #endregion defaults

// #region profile
// Profile is the applicant description supplied by the caller. It is never mutated by
// the engine; Normalize returns a copy with defaults applied.
type Profile struct {
	MentalHealth   string   `json:"mental_health" yaml:"mental_health"`
	PhysicalHealth string   `json:"physical_health" yaml:"physical_health"`
	Severity       string   `json:"severity" yaml:"severity"`
	GPA            *float64 `json:"gpa,omitempty" yaml:"gpa,omitempty"`
	CourseInterest string   `json:"courses,omitempty" yaml:"courses,omitempty"`
}

// rawProfile accepts a GPA of any scalar type so that malformed values fall back to
// the default instead of failing the decode.
type rawProfile struct {
	MentalHealth   string `json:"mental_health" yaml:"mental_health"`
	PhysicalHealth string `json:"physical_health" yaml:"physical_health"`
	Severity       string `json:"severity" yaml:"severity"`
	GPA            any    `json:"gpa" yaml:"gpa"`
	CourseInterest string `json:"courses" yaml:"courses"`
}

func (r rawProfile) toProfile() Profile {
	return Profile{
		MentalHealth:   r.MentalHealth,
		PhysicalHealth: r.PhysicalHealth,
		Severity:       r.Severity,
		GPA:            gpaFromAny(r.GPA),
		CourseInterest: r.CourseInterest,
	}
}

// UnmarshalJSON implements json.Unmarshaler with lenient GPA handling.
func (p *Profile) UnmarshalJSON(data []byte) error {
	var r rawProfile
	if err := json.Unmarshal(data, &r); err != nil {
		return err
	}
	*p = r.toProfile()
	return nil
}

// UnmarshalYAML implements yaml.Unmarshaler with lenient GPA handling.
func (p *Profile) UnmarshalYAML(node *yaml.Node) error {
	var r rawProfile
	if err := node.Decode(&r); err != nil {
		return err
	}
	*p = r.toProfile()
	return nil
}

// #endregion profile

// #region normalize
// Normalize returns a copy with canonical category names and every default applied:
// health fields default to None, severity to moderate, GPA to 3.0 (clamped to [0, 4]).
func (p Profile) Normalize() Profile {
	out := Profile{
		MentalHealth:   canonical(p.MentalHealth, mentalHealthIndex),
		PhysicalHealth: canonical(p.PhysicalHealth, physicalHealthIndex),
		Severity:       normalizeSeverity(p.Severity),
		CourseInterest: strings.TrimSpace(p.CourseInterest),
	}
	gpa := DefaultGPA
	if p.GPA != nil && !math.IsNaN(*p.GPA) && !math.IsInf(*p.GPA, 0) {
		gpa = math.Min(math.Max(*p.GPA, 0), MaxGPA)
	}
	out.GPA = &gpa
	return out
}

// GPAValue returns the GPA or the default when absent.
func (p Profile) GPAValue() float64 {
	if p.GPA == nil || math.IsNaN(*p.GPA) || math.IsInf(*p.GPA, 0) {
		return DefaultGPA
	}
	return *p.GPA
}

// HasMentalHealth reports whether a mental-health condition is present.
func (p Profile) HasMentalHealth() bool {
	return canonical(p.MentalHealth, mentalHealthIndex) != None
}

// HasPhysicalHealth reports whether a physical-health condition is present.
func (p Profile) HasPhysicalHealth() bool {
	return canonical(p.PhysicalHealth, physicalHealthIndex) != None
}

// canonical maps a category case-insensitively onto its table spelling. Unknown
// non-empty categories keep their trimmed spelling.
func canonical(v string, table map[string]int) string {
	v = strings.TrimSpace(v)
	if v == "" {
		return None
	}
	for name := range table {
		if strings.EqualFold(name, v) {
			return name
		}
	}
	return v
}

func normalizeSeverity(s string) string {
	s = strings.ToLower(strings.TrimSpace(s))
	if _, ok := severityIndex[s]; ok {
		return s
	}
	return DefaultSeverity
}

// #endregion normalize

// #region gpa
// ParseGPA parses a GPA string, returning DefaultGPA when it is empty or unparsable.
func ParseGPA(s string) float64 {
	v, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return DefaultGPA
	}
	return v
}

func gpaFromAny(v any) *float64 {
	var f float64
	switch x := v.(type) {
	case nil:
		return nil
	case float64:
		f = x
	case float32:
		f = float64(x)
	case int:
		f = float64(x)
	case int64:
		f = float64(x)
	case uint64:
		f = float64(x)
	case string:
		f = ParseGPA(x)
	default:
		f = ParseGPA(fmt.Sprint(x))
	}
	return &f
}

// #endregion gpa
