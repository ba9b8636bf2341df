package genclient

import (
	"context"
	"encoding/json"
)

// FakeClient returns deterministic, minimal JSON payloads per capability for
// offline runs and testing. The capability is read from the call context.
type FakeClient struct{}

func NewFakeClient() *FakeClient { return &FakeClient{} }

func (f *FakeClient) Name() string { return "FakeGen" }
func (f *FakeClient) Close() error { return nil }

func (f *FakeClient) GenerateJSON(ctx context.Context, prompt string, input any) (json.RawMessage, error) {
	var obj any
	switch CapabilityFrom(ctx) {
	case "scenario":
		obj = map[string]any{
			"title":       "The Port Strike",
			"description": "Dock workers have shut down the capital's port demanding back pay. Food prices are climbing by the hour.",
			"choices": []any{
				map[string]any{"id": "a", "title": "Pay the arrears", "summary": "Settle immediately from the emergency fund."},
				map[string]any{"id": "b", "title": "Send negotiators", "summary": "Stall while a committee talks to the union."},
				map[string]any{"id": "c", "title": "Order the port cleared", "summary": "Break the strike with security forces."},
			},
			"fallback": false,
		}
	case "ticker":
		obj = map[string]any{
			"items": []any{
				map[string]any{"headline": "Markets jittery as port standoff continues"},
				map[string]any{"headline": "Opposition calls for emergency session"},
			},
		}
	case "advisory":
		obj = map[string]any{
			"text": "Whatever you decide, decide fast. Hesitation reads as weakness to every camp at once.",
		}
	case "support_shift":
		obj = map[string]any{
			"shifts": []any{
				map[string]any{"audience": "people", "delta": 3, "reason": "Seen as standing up for workers."},
				map[string]any{"audience": "elites", "delta": -2, "reason": "Business owners resent the disruption."},
				map[string]any{"audience": "army", "delta": 0, "reason": "The barracks are indifferent."},
			},
		}
	case "budget_impact":
		obj = map[string]any{
			"delta":   -120,
			"summary": "Emergency payouts and lost port fees drained the treasury.",
		}
	case "analysis":
		obj = map[string]any{
			"pressure_points": []string{"union leadership", "food importers"},
			"assessment":      "The strike is less about pay than about who controls the docks.",
		}
	case "summary":
		obj = map[string]any{
			"headline": "A term of narrow escapes",
			"body":     "You governed by improvisation, trading budget for calm and calm for time.",
			"fallback": false,
		}
	default:
		obj = map[string]any{}
	}
	raw, err := json.Marshal(obj)
	if err != nil {
		return nil, err
	}
	return json.RawMessage(raw), nil
}
