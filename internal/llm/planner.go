// Spatial planner — delegates compound positional constraints ("between
// Millbrook and Ashford, near the coast") to the reasoning model and
// validates the proposal before the engine sees it.
package llm

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
)

// ContractError reports a planner response that violates the oracle
// contract: unparsable, structurally invalid, or a proposal outside the
// numeric coordinate domain. The affected location is left unresolved;
// the run continues.
type ContractError struct {
	Location string
	Reason   string
}

func (e *ContractError) Error() string {
	return fmt.Sprintf("oracle contract violation for %q: %s", e.Location, e.Reason)
}

// SnapshotLocation is one already-resolved location offered to the
// planner as reference context.
type SnapshotLocation struct {
	Name    string  `json:"name"`
	Lat     float64 `json:"lat"`
	Lon     float64 `json:"lon"`
	Terrain string  `json:"terrain,omitempty"`
}

// PlanRequest asks the planner to place one location.
type PlanRequest struct {
	LocationName   string
	ConstraintText string
	WorldID        string
	Snapshot       []SnapshotLocation
}

// ConstraintCheck is the planner's self-reported verdict on a single
// constraint. Self-reports are logged, never trusted as validation.
type ConstraintCheck struct {
	Constraint string `json:"constraint"`
	Satisfied  bool   `json:"satisfied"`
	Details    string `json:"details"`
}

// Resolution is the planner's validated response.
type Resolution struct {
	Lat               float64           `json:"proposed_lat"`
	Lon               float64           `json:"proposed_lon"`
	Reasoning         string            `json:"reasoning"`
	ConstraintsParsed []string          `json:"constraints_parsed"`
	ValidationResults []ConstraintCheck `json:"validation_results"`
	Confidence        string            `json:"confidence"`
	Notes             string            `json:"notes"`
}

// Unsatisfied returns the constraints the planner itself reported as
// not met.
func (r *Resolution) Unsatisfied() []ConstraintCheck {
	var out []ConstraintCheck
	for _, v := range r.ValidationResults {
		if !v.Satisfied {
			out = append(out, v)
		}
	}
	return out
}

const plannerSystemPrompt = `You are a spatial reasoning expert for a fantasy world.

Your task: find coordinates that satisfy ALL spatial constraints in a natural language description.

WORLD CONSTRAINTS:
- Quarter-Earth sphere (10,000km circumference)
- Valid latitude: -40 to +40
- Valid longitude: -180 to +180

DISTANCE INTERPRETATION:
- "nearby", "close to", "near" -> 10-30km
- "moderate distance", "a fair distance" -> 40-80km
- "far from", "distant" -> 100-200km
- "very far", "remote" -> 200-400km
- "day's walk" -> 30-40km, "week's journey" -> 200-300km

You are given every existing location with its coordinates and a coarse
terrain hint (coastal, lowland, highland, mountain). Work through the
constraints step by step: identify reference locations, compute candidate
coordinates (midpoints for "between", bearings and distances for
directional phrases), and check each constraint against your proposal.

Respond ONLY with a single JSON object:
{
  "proposed_lat": <float>,
  "proposed_lon": <float>,
  "reasoning": "step-by-step explanation",
  "constraints_parsed": ["..."],
  "validation_results": [{"constraint": "...", "satisfied": true, "details": "..."}],
  "confidence": "high" | "medium" | "low",
  "notes": "caveats, assumptions, or impossible constraints"
}

RULES:
1. Coordinates outside -40 to +40 latitude are INVALID.
2. If constraints conflict, explain the trade-off in "notes" and lower confidence.
3. Return JSON even if some constraints cannot be satisfied.`

// Planner resolves compound positional constraints via the LLM.
type Planner struct {
	client *Client
}

// NewPlanner wraps a client. A nil client disables the planner; compound
// constraints then resolve as failures, isolated per location.
func NewPlanner(client *Client) *Planner {
	return &Planner{client: client}
}

// Resolve asks the planner for a coordinate proposal and validates the
// response structure. Numeric world-bounds enforcement stays with the
// caller.
func (p *Planner) Resolve(ctx context.Context, req PlanRequest) (*Resolution, error) {
	if !p.client.Enabled() {
		return nil, &ContractError{Location: req.LocationName, Reason: "planner not configured"}
	}

	raw, err := p.client.Complete(ctx, plannerSystemPrompt, buildPlannerPrompt(req))
	if err != nil {
		return nil, fmt.Errorf("plan %q: %w", req.LocationName, err)
	}

	return decodeResolution(req.LocationName, raw)
}

func buildPlannerPrompt(req PlanRequest) string {
	var b strings.Builder

	fmt.Fprintf(&b, "Place the location %q in world %s.\n", req.LocationName, req.WorldID)
	fmt.Fprintf(&b, "Constraints: %s\n\n", req.ConstraintText)

	if len(req.Snapshot) == 0 {
		b.WriteString("No other locations have coordinates yet.\n")
	} else {
		b.WriteString("Existing locations:\n")
		for _, s := range req.Snapshot {
			fmt.Fprintf(&b, "- %s: lat %.4f, lon %.4f", s.Name, s.Lat, s.Lon)
			if s.Terrain != "" {
				fmt.Fprintf(&b, " (%s)", s.Terrain)
			}
			b.WriteString("\n")
		}
	}

	b.WriteString("\nRespond with a single JSON object.")
	return b.String()
}

// decodeResolution validates the raw response against the planner schema
// and unmarshals it. Any structural problem is a contract violation.
func decodeResolution(location, raw string) (*Resolution, error) {
	obj, err := jsonObject(raw)
	if err != nil {
		return nil, &ContractError{Location: location, Reason: err.Error()}
	}

	var generic any
	if err := json.Unmarshal([]byte(obj), &generic); err != nil {
		return nil, &ContractError{Location: location, Reason: fmt.Sprintf("invalid JSON: %v", err)}
	}
	if err := resolutionSchema.Validate(generic); err != nil {
		return nil, &ContractError{Location: location, Reason: fmt.Sprintf("schema: %v", err)}
	}

	var res Resolution
	if err := json.Unmarshal([]byte(obj), &res); err != nil {
		return nil, &ContractError{Location: location, Reason: fmt.Sprintf("decode: %v", err)}
	}

	if res.Lat < -90 || res.Lat > 90 || res.Lon < -180 || res.Lon > 180 {
		return nil, &ContractError{
			Location: location,
			Reason:   fmt.Sprintf("proposal (%.4f, %.4f) outside coordinate domain", res.Lat, res.Lon),
		}
	}

	return &res, nil
}
