package capability

import (
	"context"
	"errors"
	"testing"
)

type addInput struct {
	A int `json:"a"`
	B int `json:"b"`
}

type addOutput struct {
	Sum int `json:"sum"`
}

func addCapability() *Func[addInput, addOutput] {
	return NewFunc("Adder", "Adds two integers.",
		map[string]any{"type": "object"},
		func(ctx context.Context, in addInput) (addOutput, error) {
			return addOutput{Sum: in.A + in.B}, nil
		})
}

func TestFuncInvoke(t *testing.T) {
	out, err := addCapability().Invoke(context.Background(), `{"a":2,"b":3}`)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if out != `{"sum":5}` {
		t.Errorf("output = %q", out)
	}
}

func TestFuncInvokeRepairsArguments(t *testing.T) {
	// Single-quoted keys: broken JSON that jsonrepair can fix.
	out, err := addCapability().Invoke(context.Background(), `{a: 1, b: 4}`)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if out != `{"sum":5}` {
		t.Errorf("output = %q", out)
	}
}

func TestFuncInvokeEmptyArguments(t *testing.T) {
	out, err := addCapability().Invoke(context.Background(), "")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if out != `{"sum":0}` {
		t.Errorf("output = %q", out)
	}
}

func TestFuncInvokeFailureIsTypedError(t *testing.T) {
	failing := NewFunc[addInput, addOutput]("Failing", "Always fails.", nil,
		func(ctx context.Context, in addInput) (addOutput, error) {
			return addOutput{}, errors.New("upstream down")
		})

	_, err := failing.Invoke(context.Background(), `{}`)
	if err == nil {
		t.Fatal("expected error")
	}
	var capErr *Error
	if !errors.As(err, &capErr) {
		t.Fatalf("expected *Error, got %T", err)
	}
	if capErr.Capability != "Failing" {
		t.Errorf("capability name = %q", capErr.Capability)
	}
}

func TestCatalog(t *testing.T) {
	adder := addCapability()
	catalog := NewCatalog(adder)

	if catalog.Len() != 1 {
		t.Fatalf("len = %d", catalog.Len())
	}

	got, ok := catalog.Get("adder")
	if !ok {
		t.Fatal("case-insensitive lookup failed")
	}
	if got.Info().Name != "Adder" {
		t.Errorf("name = %q", got.Info().Name)
	}

	if _, ok := catalog.Get("missing"); ok {
		t.Error("unexpected hit for missing capability")
	}
}

func TestCatalogDescriptionsKeepOrder(t *testing.T) {
	first := NewFunc[addInput, addOutput]("First", "", nil, nil)
	second := NewFunc[addInput, addOutput]("Second", "", nil, nil)
	catalog := NewCatalog(first, second)

	descs := catalog.Descriptions()
	if len(descs) != 2 || descs[0].Name != "First" || descs[1].Name != "Second" {
		t.Errorf("descriptions out of order: %+v", descs)
	}
}
