package ai

import (
	"fmt"

	"github.com/xeipuuv/gojsonschema"
)

// JSON Schemas for the four model response shapes. Responses are validated
// before unmarshalling so a malformed model reply surfaces as a service
// failure instead of a half-populated record.

const analysisSchema = `{
	"type": "object",
	"required": ["skills", "strengths", "weaknesses", "roleSuitability", "summary"],
	"properties": {
		"skills": {"type": "array", "items": {"type": "string"}},
		"strengths": {"type": "array", "items": {"type": "string"}},
		"weaknesses": {"type": "array", "items": {"type": "string"}},
		"roleSuitability": {"type": "string"},
		"summary": {"type": "string"}
	}
}`

const questionsSchema = `{
	"type": "array",
	"minItems": 1,
	"items": {"type": "string"}
}`

const evaluationSchema = `{
	"type": "object",
	"required": ["feedback", "score"],
	"properties": {
		"feedback": {"type": "string"},
		"score": {"type": "number", "minimum": 0, "maximum": 100}
	}
}`

const finalReportSchema = `{
	"type": "object",
	"required": ["communication", "confidence", "technicalDepth", "overallFeedback", "improvementSuggestions"],
	"properties": {
		"communication": {"type": "number", "minimum": 0, "maximum": 100},
		"confidence": {"type": "number", "minimum": 0, "maximum": 100},
		"technicalDepth": {"type": "number", "minimum": 0, "maximum": 100},
		"overallFeedback": {"type": "string"},
		"improvementSuggestions": {"type": "array", "items": {"type": "string"}}
	}
}`

// validateResponse validates model output JSON against a schema.
func validateResponse(schema, document string) error {
	result, err := gojsonschema.Validate(
		gojsonschema.NewStringLoader(schema),
		gojsonschema.NewStringLoader(document),
	)
	if err != nil {
		return fmt.Errorf("response is not valid JSON: %w", err)
	}
	if !result.Valid() {
		first := result.Errors()[0]
		return fmt.Errorf("response failed schema validation: %s: %s", first.Field(), first.Description())
	}
	return nil
}
