package services

import (
	"encoding/json"
	"fmt"
	"math"

	"github.com/xeipuuv/gojsonschema"

	"github.com/semwett0301/rcruit-flow-sub001/internal/models"
)

// ParseStrict decodes raw completion output into T. There is no cleanup or
// repair: anything that is not a single JSON value is a PARSE_FAILURE.
func ParseStrict[T any](raw string, provider string) (*T, error) {
	var result T
	if err := json.Unmarshal([]byte(raw), &result); err != nil {
		return nil, NewParseFailureError(fmt.Sprintf("Failed to parse %s response as JSON", provider), err).
			WithDetail("responseLength", len(raw))
	}
	return &result, nil
}

// profileSchema is the nine-field contract of the CV extraction prompt. degree
// may be null or left out for candidates without one.
const profileSchema = `{
  "type": "object",
  "required": ["name", "currentEmployer", "currentPosition", "age", "location", "hardSkills", "experienceDescription", "yearsOfExperience"],
  "properties": {
    "name": {"type": "string", "minLength": 1},
    "currentEmployer": {"type": ["string", "null"]},
    "currentPosition": {"type": ["string", "null"]},
    "age": {"type": "integer", "minimum": 18},
    "location": {"type": "string"},
    "hardSkills": {"type": "array", "items": {"type": "string"}},
    "experienceDescription": {"type": "string"},
    "yearsOfExperience": {"type": "integer", "minimum": 0},
    "degree": {
      "oneOf": [
        {"type": "null"},
        {
          "type": "object",
          "required": ["level", "program"],
          "properties": {
            "level": {"enum": ["Associate", "Bachelor", "Master", "PhD"]},
            "program": {"type": "string"}
          }
        }
      ]
    }
  }
}`

var profileSchemaLoader = gojsonschema.NewStringLoader(profileSchema)

// ValidateProfileJSON checks parsed completion output against the profile
// contract and lists every violating field.
func ValidateProfileJSON(raw string, provider string) error {
	result, err := gojsonschema.Validate(profileSchemaLoader, gojsonschema.NewStringLoader(raw))
	if err != nil {
		return NewParseFailureError(fmt.Sprintf("Failed to parse %s response as JSON", provider), err)
	}

	if result.Valid() {
		return nil
	}

	fields := make([]string, 0, len(result.Errors()))
	for _, desc := range result.Errors() {
		field := desc.Field()
		if field == "" {
			field = "(root)"
		}
		fields = append(fields, fmt.Sprintf("%s: %s", field, desc.Description()))
	}

	return NewProcessingError(fmt.Sprintf("%s response does not match the candidate profile contract", provider), nil).
		WithDetail("fields", fields)
}

// DecodeProfile decodes a response that already passed ValidateProfileJSON.
// Integer fields accept whole-number floats such as 30.0. The JSON is known to
// be well formed here, so failures are PROCESSING_ERROR.
func DecodeProfile(raw string, provider string) (*models.ExtractedProfile, error) {
	var wire struct {
		models.ExtractedProfile
		Age               json.Number `json:"age"`
		YearsOfExperience json.Number `json:"yearsOfExperience"`
	}
	if err := json.Unmarshal([]byte(raw), &wire); err != nil {
		return nil, NewProcessingError(fmt.Sprintf("%s response does not match the candidate profile contract", provider), err)
	}

	age, err := wholeNumber(wire.Age)
	if err != nil {
		return nil, NewProcessingError(fmt.Sprintf("%s response does not match the candidate profile contract", provider), err).
			WithDetail("fields", []string{"age: " + err.Error()})
	}
	years, err := wholeNumber(wire.YearsOfExperience)
	if err != nil {
		return nil, NewProcessingError(fmt.Sprintf("%s response does not match the candidate profile contract", provider), err).
			WithDetail("fields", []string{"yearsOfExperience: " + err.Error()})
	}

	profile := wire.ExtractedProfile
	profile.Age = age
	profile.YearsOfExperience = years
	return &profile, nil
}

func wholeNumber(n json.Number) (int, error) {
	f, err := n.Float64()
	if err != nil {
		return 0, fmt.Errorf("%q is not a number", n.String())
	}
	if f != math.Trunc(f) || f > math.MaxInt32 || f < math.MinInt32 {
		return 0, fmt.Errorf("%s is not a whole number", n.String())
	}
	return int(f), nil
}
