package llm

import "github.com/santhosh-tekuri/jsonschema/v5"

// resolutionSchemaJSON is the structural contract for planner responses.
// Everything the engine reads later must be present and typed; the
// planner's free-text fields stay unconstrained.
const resolutionSchemaJSON = `{
  "$schema": "https://json-schema.org/draft/2020-12/schema",
  "type": "object",
  "required": ["proposed_lat", "proposed_lon", "reasoning", "confidence"],
  "properties": {
    "proposed_lat": {"type": "number"},
    "proposed_lon": {"type": "number"},
    "reasoning": {"type": "string"},
    "constraints_parsed": {
      "type": "array",
      "items": {"type": "string"}
    },
    "validation_results": {
      "type": "array",
      "items": {
        "type": "object",
        "required": ["constraint", "satisfied"],
        "properties": {
          "constraint": {"type": "string"},
          "satisfied": {"type": "boolean"},
          "details": {"type": "string"}
        }
      }
    },
    "confidence": {"enum": ["high", "medium", "low"]},
    "notes": {"type": "string"}
  }
}`

var resolutionSchema = jsonschema.MustCompileString("resolution.json", resolutionSchemaJSON)
