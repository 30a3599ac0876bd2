package transport

import (
	"encoding/json"
	"fmt"

	"google.golang.org/protobuf/encoding/protojson"
	"google.golang.org/protobuf/types/known/structpb"

	"github.com/danielpatrickdp/unify-journey/go-controller/internal/profile"
)

// #region convert
// ProfileFromStruct decodes a request struct into a profile. GPA values of any scalar
// type are accepted; other fields must be strings.
func ProfileFromStruct(s *structpb.Struct) (profile.Profile, error) {
	if s == nil {
		return profile.Profile{}, fmt.Errorf("empty request")
	}
	data, err := protojson.Marshal(s)
	if err != nil {
		return profile.Profile{}, fmt.Errorf("encode request: %w", err)
	}
	var p profile.Profile
	if err := json.Unmarshal(data, &p); err != nil {
		return profile.Profile{}, fmt.Errorf("decode profile: %w", err)
	}
	return p, nil
}

// ProfileToStruct encodes a profile as a request struct.
func ProfileToStruct(p profile.Profile) (*structpb.Struct, error) {
	fields := map[string]any{
		"mental_health":   p.MentalHealth,
		"physical_health": p.PhysicalHealth,
		"severity":        p.Severity,
	}
	if p.GPA != nil {
		fields["gpa"] = *p.GPA
	}
	if p.CourseInterest != "" {
		fields["courses"] = p.CourseInterest
	}
	return structpb.NewStruct(fields)
}

// ToStruct encodes any JSON-serializable result as a response struct.
func ToStruct(v any) (*structpb.Struct, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("encode result: %w", err)
	}
	s := &structpb.Struct{}
	if err := protojson.Unmarshal(data, s); err != nil {
		return nil, fmt.Errorf("convert result: %w", err)
	}
	return s, nil
}

// FromStruct decodes a response struct into dst.
func FromStruct(s *structpb.Struct, dst any) error {
	data, err := protojson.Marshal(s)
	if err != nil {
		return fmt.Errorf("encode response: %w", err)
	}
	if err := json.Unmarshal(data, dst); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

// #endregion convert
