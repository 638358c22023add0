// Relative-position parsing — turns free text like "far north of the
// Capital" into the structured parse the resolver consumes.
package llm

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/grimechristopher/llm-adventure/internal/model"
)

const parserSystemPrompt = `Parse relative position text into structured JSON for coordinate mapping.

Extract:
- "reference_location_name": which location this is relative to ("" if none)
- "second_reference_name": the second location for "between A and B" or "toward B" phrasings ("" if none)
- "direction": north, northeast, east, southeast, south, southwest, west, northwest, or "toward" when the direction is another location
- "distance_qualifier": very close, close, nearby, moderate distance, far, very far, across the world, halfway, or a literal like "78km"
- "additional_constraints": other spatial info, e.g. "coastal", "in a valley" (empty array if none)

Examples:

Input: "far north of the Capital"
Output: {"reference_location_name": "Capital", "second_reference_name": "", "direction": "north", "distance_qualifier": "far", "additional_constraints": []}

Input: "between Millbrook and Ashford"
Output: {"reference_location_name": "Millbrook", "second_reference_name": "Ashford", "direction": "toward", "distance_qualifier": "halfway", "additional_constraints": []}

Input: "on the coast, east of the mountains"
Output: {"reference_location_name": "", "second_reference_name": "", "direction": "east", "distance_qualifier": "moderate distance", "additional_constraints": ["coastal", "east of mountains"]}

Respond ONLY with a single JSON object.`

// PositionParser parses positional constraint text.
type PositionParser struct {
	client *Client
}

// NewPositionParser wraps a client. A nil client disables parsing; the
// resolver treats every parse as a failure and isolates it.
func NewPositionParser(client *Client) *PositionParser {
	return &PositionParser{client: client}
}

// Parse converts relative-position text into its structured form.
func (p *PositionParser) Parse(ctx context.Context, text string) (model.PositionParse, error) {
	if !p.client.Enabled() {
		return model.PositionParse{}, fmt.Errorf("position parser not configured")
	}

	raw, err := p.client.Complete(ctx, parserSystemPrompt, "Relative position: "+text)
	if err != nil {
		return model.PositionParse{}, fmt.Errorf("parse position: %w", err)
	}

	return decodeParse(raw)
}

func decodeParse(raw string) (model.PositionParse, error) {
	obj, err := jsonObject(raw)
	if err != nil {
		return model.PositionParse{}, err
	}

	var parse model.PositionParse
	if err := json.Unmarshal([]byte(obj), &parse); err != nil {
		return model.PositionParse{}, fmt.Errorf("decode position parse: %w", err)
	}

	parse.Reference = strings.TrimSpace(parse.Reference)
	parse.SecondReference = strings.TrimSpace(parse.SecondReference)
	parse.Direction = strings.ToLower(strings.TrimSpace(parse.Direction))
	parse.DistanceQualifier = strings.ToLower(strings.TrimSpace(parse.DistanceQualifier))
	return parse, nil
}

// jsonObject slices the first top-level JSON object out of a response
// that may be wrapped in prose.
func jsonObject(raw string) (string, error) {
	start := strings.Index(raw, "{")
	end := strings.LastIndex(raw, "}")
	if start == -1 || end == -1 || end <= start {
		return "", fmt.Errorf("no JSON object found in response")
	}
	return raw[start : end+1], nil
}
