package profile

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
)

func gpa(v float64) *float64 { return &v }

func TestEncodeADHDModerate(t *testing.T) {
	fv := Encode(Profile{MentalHealth: "ADHD", PhysicalHealth: "None", Severity: "moderate", GPA: gpa(3.8)})
	want := FeatureVector{1, 0, 2, 3.8, 1.5}
	if fv != want {
		t.Fatalf("Encode = %v, want %v", fv, want)
	}
}

func TestEncodeBothConditionsSevere(t *testing.T) {
	fv := Encode(Profile{MentalHealth: "Autism", PhysicalHealth: "Mobility", Severity: "severe", GPA: gpa(3.2)})
	// 2.0 per condition at severity 3, plus 0.5 combined bonus
	if fv[SupportComplexityIdx] != 4.5 {
		t.Fatalf("support complexity = %f, want 4.5", fv[SupportComplexityIdx])
	}
	if fv[MentalHealthIdx] != 2 || fv[PhysicalHealthIdx] != 2 || fv[SeverityIdx] != 3 {
		t.Fatalf("unexpected indices: %v", fv)
	}
}

func TestEncodeDefaults(t *testing.T) {
	fv := Encode(Profile{})
	want := FeatureVector{0, 0, 2, 3.0, 0}
	if fv != want {
		t.Fatalf("Encode(empty) = %v, want %v", fv, want)
	}
}

func TestUnseenCategoryMapsToOther(t *testing.T) {
	if got := MentalHealthIndex("Dyslexia"); got != 5 {
		t.Fatalf("MentalHealthIndex(unseen) = %d, want 5", got)
	}
	if got := PhysicalHealthIndex("Chronic pain"); got != 5 {
		t.Fatalf("PhysicalHealthIndex(unseen) = %d, want 5", got)
	}
	if got := MentalHealthIndex("adhd"); got != 1 {
		t.Fatalf("MentalHealthIndex(adhd) = %d, want 1", got)
	}
}

func TestSeverityIndex(t *testing.T) {
	cases := map[string]int{"mild": 1, "moderate": 2, "severe": 3, "": 2, "extreme": 2, " Severe ": 3}
	for in, want := range cases {
		if got := SeverityIndex(in); got != want {
			t.Errorf("SeverityIndex(%q) = %d, want %d", in, got, want)
		}
	}
}

func TestSupportComplexity(t *testing.T) {
	cases := []struct {
		mental, physical, severity int
		want                       float64
	}{
		{0, 0, 3, 0},
		{1, 0, 1, 1.0},
		{0, 2, 2, 1.5},
		{1, 1, 1, 2.5},
		{3, 4, 3, 4.5},
	}
	for _, c := range cases {
		if got := SupportComplexity(c.mental, c.physical, c.severity); got != c.want {
			t.Errorf("SupportComplexity(%d,%d,%d) = %f, want %f", c.mental, c.physical, c.severity, got, c.want)
		}
	}
}

func TestNormalizeClampsGPA(t *testing.T) {
	n := Profile{GPA: gpa(5.2)}.Normalize()
	if *n.GPA != 4.0 {
		t.Fatalf("GPA = %f, want 4.0", *n.GPA)
	}
	n = Profile{GPA: gpa(-1)}.Normalize()
	if *n.GPA != 0 {
		t.Fatalf("GPA = %f, want 0", *n.GPA)
	}
	if n.MentalHealth != None || n.PhysicalHealth != None || n.Severity != SeverityModerate {
		t.Fatalf("unexpected defaults: %+v", n)
	}
}

func TestNormalizeDoesNotMutate(t *testing.T) {
	p := Profile{MentalHealth: " adhd "}
	_ = p.Normalize()
	if p.MentalHealth != " adhd " || p.GPA != nil {
		t.Fatalf("Normalize mutated receiver: %+v", p)
	}
}

func TestParseGPA(t *testing.T) {
	if got := ParseGPA("3.4"); got != 3.4 {
		t.Errorf("ParseGPA(3.4) = %f", got)
	}
	if got := ParseGPA("n/a"); got != DefaultGPA {
		t.Errorf("ParseGPA(n/a) = %f, want default", got)
	}
}

func TestUnmarshalJSONLenientGPA(t *testing.T) {
	var p Profile
	if err := json.Unmarshal([]byte(`{"mental_health":"ADHD","gpa":"oops","courses":"Computer Science"}`), &p); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if p.GPA == nil || *p.GPA != DefaultGPA {
		t.Fatalf("GPA = %v, want default", p.GPA)
	}
	if p.CourseInterest != "Computer Science" {
		t.Fatalf("courses = %q", p.CourseInterest)
	}

	var q Profile
	if err := json.Unmarshal([]byte(`{"gpa":3.9}`), &q); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if q.GPA == nil || *q.GPA != 3.9 {
		t.Fatalf("GPA = %v, want 3.9", q.GPA)
	}
}

func TestLoadFileYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "profile.yaml")
	content := "mental_health: Autism\nphysical_health: Hearing\nseverity: severe\ngpa: 4\ncourses: Biology\n"
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	p, err := LoadFile(path)
	if err != nil {
		t.Fatalf("LoadFile: %v", err)
	}
	if p.MentalHealth != "Autism" || p.PhysicalHealth != "Hearing" || p.Severity != "severe" {
		t.Fatalf("unexpected profile: %+v", p)
	}
	if p.GPA == nil || *p.GPA != 4 {
		t.Fatalf("GPA = %v, want 4", p.GPA)
	}
}

func TestLoadFileJSON(t *testing.T) {
	path := filepath.Join(t.TempDir(), "profile.json")
	if err := os.WriteFile(path, []byte(`{"mental_health":"ADHD","gpa":3.8,"severity":"moderate"}`), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	p, err := LoadFile(path)
	if err != nil {
		t.Fatalf("LoadFile: %v", err)
	}
	if p.MentalHealth != "ADHD" || p.GPA == nil || *p.GPA != 3.8 {
		t.Fatalf("unexpected profile: %+v", p)
	}
}

func TestLoadFileMissing(t *testing.T) {
	if _, err := LoadFile(filepath.Join(t.TempDir(), "nope.yaml")); err == nil {
		t.Fatal("expected error")
	}
}
