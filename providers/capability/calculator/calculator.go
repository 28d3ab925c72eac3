// Package calculator provides a local arithmetic capability. It backs agents
// that need deterministic numeric computation without delegating the math to
// the language model.
package calculator

import (
	"context"
	"fmt"
	"math"

	"github.com/leofalp/conclave/providers/capability"
)

// Input holds the two operands and the operation to be applied by [Calc].
type Input struct {
	A  float64 `json:"A"`
	B  float64 `json:"B"`
	Op string  `json:"Op"`
}

// Output carries the single floating-point result produced by [Calc].
type Output struct {
	Result float64 `json:"result"`
}

// New returns the Calculator capability configured for basic arithmetic.
func New() capability.Capability {
	return capability.NewFunc("Calculator",
		"A simple calculator to perform basic arithmetic operations like addition, subtraction, multiplication, division, modulo, and exponentiation.",
		map[string]any{
			"type": "object",
			"properties": map[string]any{
				"A":  map[string]any{"type": "number", "description": "First operand"},
				"B":  map[string]any{"type": "number", "description": "Second operand"},
				"Op": map[string]any{"type": "string", "description": "Operation type", "enum": []string{"add", "sub", "mul", "div", "mod", "pow"}},
			},
			"required": []string{"A", "B", "Op"},
		},
		Calc,
	)
}

// Calc performs the arithmetic operation specified by req.Op on the operands
// req.A and req.B. Supported operations are "add"/"+", "sub"/"-", "mul"/"*",
// "div"/"/", "mod"/"%", and "pow"/"^". Division by zero returns positive or
// negative infinity consistent with IEEE 754 floating-point semantics. An
// unrecognised Op value returns an error so the model can correct the call.
func Calc(ctx context.Context, req Input) (Output, error) {
	var result float64
	switch req.Op {
	case "add", "+":
		result = req.A + req.B
	case "sub", "-":
		result = req.A - req.B
	case "mul", "*":
		result = req.A * req.B
	case "div", "/":
		result = req.A / req.B
	case "mod", "%":
		result = math.Mod(req.A, req.B)
	case "pow", "^":
		result = math.Pow(req.A, req.B)
	default:
		return Output{}, fmt.Errorf("unsupported operation %q", req.Op)
	}
	return Output{Result: result}, nil
}
