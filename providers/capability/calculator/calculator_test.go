package calculator

import (
	"context"
	"math"
	"strings"
	"testing"
)

func TestCalc(t *testing.T) {
	tests := []struct {
		name string
		in   Input
		want float64
	}{
		{"addition", Input{A: 2, B: 3, Op: "add"}, 5},
		{"addition symbol", Input{A: 2, B: 3, Op: "+"}, 5},
		{"subtraction", Input{A: 10, B: 4, Op: "sub"}, 6},
		{"multiplication", Input{A: 6, B: 7, Op: "mul"}, 42},
		{"division", Input{A: 10, B: 4, Op: "div"}, 2.5},
		{"modulo", Input{A: 10, B: 3, Op: "mod"}, 1},
		{"exponentiation", Input{A: 2, B: 10, Op: "pow"}, 1024},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out, err := Calc(context.Background(), tt.in)
			if err != nil {
				t.Fatalf("Calc() error = %v", err)
			}
			if out.Result != tt.want {
				t.Errorf("Calc() = %v, want %v", out.Result, tt.want)
			}
		})
	}
}

func TestCalcDivisionByZero(t *testing.T) {
	out, err := Calc(context.Background(), Input{A: 1, B: 0, Op: "div"})
	if err != nil {
		t.Fatalf("Calc() error = %v", err)
	}
	if !math.IsInf(out.Result, 1) {
		t.Errorf("Calc() = %v, want +Inf", out.Result)
	}
}

func TestCalcUnsupportedOp(t *testing.T) {
	if _, err := Calc(context.Background(), Input{A: 1, B: 2, Op: "sqrt"}); err == nil {
		t.Error("expected error for unsupported operation")
	}
}

func TestCapabilityInvoke(t *testing.T) {
	c := New()
	out, err := c.Invoke(context.Background(), `{"A": 3, "B": 4, "Op": "mul"}`)
	if err != nil {
		t.Fatalf("Invoke() error = %v", err)
	}
	if !strings.Contains(out, "12") {
		t.Errorf("output = %q, want result 12", out)
	}
}
