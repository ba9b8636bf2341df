// Package fetch holds one adapter per remote generation capability. Each
// adapter owns its prompt spec, its minimal-acceptable-shape validator, and
// its safe default; the orchestrator composes them but never inspects raw
// responses itself.
package fetch

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/Mutajon/aMAZEn-Politics-sub005/internal/genclient"
	"github.com/Mutajon/aMAZEn-Politics-sub005/internal/prompt"
)

// Reason classifies an adapter failure.
type Reason string

const (
	ReasonPrompt    Reason = "prompt"
	ReasonTransport Reason = "transport"
	ReasonDecode    Reason = "decode"
	ReasonShape     Reason = "shape"
)

// Failure is the typed error all adapters return. A Failure never carries a
// usable payload; callers substitute their own safe default.
type Failure struct {
	Capability string
	Reason     Reason
	Err        error
}

func (f *Failure) Error() string {
	return fmt.Sprintf("fetch %s: %s: %v", f.Capability, f.Reason, f.Err)
}

func (f *Failure) Unwrap() error { return f.Err }

func fail(capability string, reason Reason, err error) *Failure {
	return &Failure{Capability: capability, Reason: reason, Err: err}
}

// generate renders the prompt, issues the call tagged with its capability,
// decodes into T, and validates the minimal acceptable shape.
func generate[T any](ctx context.Context, cli genclient.Client, capability string, spec prompt.Spec, input any, validate func(*T) error) (T, error) {
	var out T
	p, err := spec.Render()
	if err != nil {
		return out, fail(capability, ReasonPrompt, err)
	}
	ctx = genclient.WithCapability(ctx, capability)
	raw, err := cli.GenerateJSON(ctx, p, input)
	if err != nil {
		return out, fail(capability, ReasonTransport, err)
	}
	if err := json.Unmarshal(raw, &out); err != nil {
		return out, fail(capability, ReasonDecode, fmt.Errorf("%w\nraw: %s", err, string(raw)))
	}
	if validate != nil {
		if err := validate(&out); err != nil {
			return out, fail(capability, ReasonShape, err)
		}
	}
	return out, nil
}
