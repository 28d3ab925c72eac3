package capability

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/kaptinlin/jsonrepair"
	"github.com/leofalp/conclave/providers/ai"
	"github.com/leofalp/conclave/providers/observability"
)

// Capability is the provider-agnostic interface for all external tools.
type Capability interface {
	// Info returns the metadata (name, description, argument schema) used
	// to advertise this capability to the language model.
	Info() ai.ToolDescription

	// Invoke executes the capability with a JSON-encoded argument string
	// and returns a JSON-encoded result. Failures are reported as *Error.
	Invoke(ctx context.Context, argsJSON string) (string, error)
}

// Error reports a failed capability invocation. Agents recover from it
// locally: the failure becomes a note in the turn, never an aborted turn.
type Error struct {
	Capability string
	Message    string
	Err        error
}

func (e *Error) Error() string {
	return fmt.Sprintf("capability %s failed: %s", e.Capability, e.Message)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Func adapts a strongly-typed Go function into a [Capability]. The argument
// JSON supplied by the model is decoded into I (repairing broken JSON first),
// and the function's output is serialized back to JSON.
type Func[I, O any] struct {
	Name        string
	Description string
	Parameters  map[string]any
	Function    func(ctx context.Context, input I) (O, error)
}

// NewFunc constructs a [Func] capability. The parameters schema is declared
// literally by the caller; it is surfaced verbatim to the model.
func NewFunc[I, O any](name, description string, parameters map[string]any, fn func(ctx context.Context, input I) (O, error)) *Func[I, O] {
	return &Func[I, O]{
		Name:        name,
		Description: description,
		Parameters:  parameters,
		Function:    fn,
	}
}

// Info implements [Capability].
func (f *Func[I, O]) Info() ai.ToolDescription {
	return ai.ToolDescription{
		Name:        f.Name,
		Description: f.Description,
		Parameters:  f.Parameters,
	}
}

// Invoke implements [Capability]. Model-supplied argument JSON is decoded
// leniently: invalid JSON goes through jsonrepair before the attempt is
// abandoned. All failure paths return *Error.
func (f *Func[I, O]) Invoke(ctx context.Context, argsJSON string) (string, error) {
	if obs := observability.ObserverFromContext(ctx); obs != nil {
		obs.Debug(ctx, "capability invocation",
			observability.String(observability.AttrCapabilityName, f.Name),
			observability.String("capability.args", observability.TruncateString(argsJSON, 500)),
		)
	}

	var input I
	if argsJSON != "" {
		if err := json.Unmarshal([]byte(argsJSON), &input); err != nil {
			repaired, repairErr := jsonrepair.JSONRepair(argsJSON)
			if repairErr != nil {
				return "", &Error{Capability: f.Name, Message: "invalid arguments: " + err.Error(), Err: err}
			}
			if err := json.Unmarshal([]byte(repaired), &input); err != nil {
				return "", &Error{Capability: f.Name, Message: "invalid arguments: " + err.Error(), Err: err}
			}
		}
	}

	output, err := f.Function(ctx, input)
	if err != nil {
		return "", &Error{Capability: f.Name, Message: err.Error(), Err: err}
	}

	encoded, err := json.Marshal(output)
	if err != nil {
		return "", &Error{Capability: f.Name, Message: "failed to encode result: " + err.Error(), Err: err}
	}
	return string(encoded), nil
}
