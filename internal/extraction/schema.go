package extraction

import (
	"github.com/xeipuuv/gojsonschema"
)

// recordSchema is the contract the model's JSON must satisfy before we
// unmarshal it. A response that fails validation is a hard extraction
// failure, never coerced into a partial record.
const recordSchema = `{
  "$schema": "http://json-schema.org/draft-07/schema#",
  "type": "object",
  "required": ["summary", "category", "professional_interests", "personal_interests", "philanthropic_priorities"],
  "properties": {
    "summary": {"type": "string", "minLength": 1},
    "category": {"type": "string", "minLength": 1},
    "subcategory": {"type": "string"},
    "professional_interests": {"type": "array", "items": {"type": "string"}},
    "personal_interests": {"type": "array", "items": {"type": "string"}},
    "philanthropic_priorities": {"type": "array", "items": {"type": "string"}},
    "prospect_name": {"type": "string"}
  }
}`

var compiledSchema = gojsonschema.NewStringLoader(recordSchema)

// validateRecordJSON checks a raw model response against the record schema.
func validateRecordJSON(raw string) error {
	result, err := gojsonschema.Validate(compiledSchema, gojsonschema.NewStringLoader(raw))
	if err != nil {
		return &ParseError{Message: "response is not valid JSON", Cause: err}
	}
	if !result.Valid() {
		msg := "response does not match the record schema"
		if errs := result.Errors(); len(errs) > 0 {
			msg = msg + ": " + errs[0].String()
		}
		return &ParseError{Message: msg}
	}
	return nil
}
