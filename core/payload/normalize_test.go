package payload

import (
	"testing"
)

func TestNormalizeNil(t *testing.T) {
	p := Normalize(nil)
	if len(p) != 0 {
		t.Errorf("expected empty payload, got %d parts", len(p))
	}
}

func TestNormalizePlainString(t *testing.T) {
	p := Normalize("hello world")
	if len(p) != 1 {
		t.Fatalf("expected 1 part, got %d", len(p))
	}
	if p[0].Kind != KindText || p[0].Text != "hello world" {
		t.Errorf("unexpected part: %+v", p[0])
	}
}

func TestNormalizeMixedList(t *testing.T) {
	input := []any{
		"intro text",
		map[string]any{"type": "text", "text": "a block"},
		map[string]any{"type": "image_url", "image_url": map[string]any{"url": "https://example.com/a.png"}},
		map[string]any{"type": "image", "source": map[string]any{"media_type": "image/png", "data": "aGk="}},
	}

	p := Normalize(input)
	if len(p) != 4 {
		t.Fatalf("expected 4 parts, got %d", len(p))
	}
	if p[0].Kind != KindText || p[0].Text != "intro text" {
		t.Errorf("part 0: %+v", p[0])
	}
	if p[1].Kind != KindText || p[1].Text != "a block" {
		t.Errorf("part 1: %+v", p[1])
	}
	if p[2].Kind != KindImage || p[2].URL != "https://example.com/a.png" {
		t.Errorf("part 2: %+v", p[2])
	}
	if p[3].Kind != KindImage || p[3].MediaType != "image/png" || p[3].Data != "aGk=" {
		t.Errorf("part 3: %+v", p[3])
	}
}

func TestNormalizeJSONEncodedList(t *testing.T) {
	raw := `[{"type":"text","text":"first"},{"type":"text","text":"second"}]`
	p := Normalize(raw)
	if len(p) != 2 {
		t.Fatalf("expected 2 parts, got %d", len(p))
	}
	if p[0].Text != "first" || p[1].Text != "second" {
		t.Errorf("unexpected parts: %+v", p)
	}
}

func TestNormalizeRepairsBrokenJSON(t *testing.T) {
	// Single quotes and unquoted keys: invalid JSON that jsonrepair can fix.
	raw := `[{type: 'text', text: 'repaired'}]`
	p := Normalize(raw)
	if len(p) != 1 {
		t.Fatalf("expected 1 part, got %d", len(p))
	}
	if p[0].Kind != KindText || p[0].Text != "repaired" {
		t.Errorf("unexpected part: %+v", p[0])
	}
}

func TestNormalizeUnrepairableStaysText(t *testing.T) {
	raw := `[this is not json at { all`
	p := Normalize(raw)
	if len(p) != 1 {
		t.Fatalf("expected 1 part, got %d", len(p))
	}
	if p[0].Kind != KindText || p[0].Text != raw {
		t.Errorf("expected raw text passthrough, got %+v", p[0])
	}
}

func TestNormalizeJSONObjectThatIsNotContent(t *testing.T) {
	// Valid JSON, but not a content block: must survive verbatim as text.
	raw := `{"answer": 42}`
	p := Normalize(raw)
	if len(p) != 1 {
		t.Fatalf("expected 1 part, got %d", len(p))
	}
	if p[0].Kind != KindText || p[0].Text != raw {
		t.Errorf("expected verbatim text, got %+v", p[0])
	}
}

func TestNormalizeOpaqueValue(t *testing.T) {
	p := Normalize(struct {
		N int `json:"n"`
	}{N: 7})
	if len(p) != 1 {
		t.Fatalf("expected 1 part, got %d", len(p))
	}
	if p[0].Kind != KindText || p[0].Text != `{"n":7}` {
		t.Errorf("unexpected part: %+v", p[0])
	}
}

func TestNormalizeNeverPanics(t *testing.T) {
	inputs := []any{
		nil,
		"",
		"   ",
		[]any{nil, nil},
		[]any{map[string]any{"type": "mystery"}},
		map[string]any{},
		[]map[string]any{{"text": "ok"}},
		make(chan int), // unmarshalable: falls back to fmt rendering
	}
	for i, in := range inputs {
		p := Normalize(in)
		if p == nil {
			t.Errorf("input %d: Normalize returned nil payload", i)
		}
	}
}

func TestPayloadString(t *testing.T) {
	p := Payload{
		{Kind: KindText, Text: "hello"},
		{Kind: KindImage, URL: "https://example.com/x.png"},
		{Kind: KindBinary, MediaType: "application/pdf"},
	}
	got := p.String()
	want := "hello\n\n[image: https://example.com/x.png]\n\n[attachment: application/pdf]"
	if got != want {
		t.Errorf("String() = %q, want %q", got, want)
	}
}

func TestPayloadIsEmpty(t *testing.T) {
	tests := []struct {
		name string
		p    Payload
		want bool
	}{
		{"nil payload", nil, true},
		{"blank text", Text("   "), true},
		{"real text", Text("content"), false},
		{"image only", Payload{{Kind: KindImage, URL: "u"}}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.p.IsEmpty(); got != tt.want {
				t.Errorf("IsEmpty() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestPayloadHasAttachments(t *testing.T) {
	if Text("x").HasAttachments() {
		t.Error("text-only payload should not report attachments")
	}
	p := Payload{{Kind: KindText, Text: "x"}, {Kind: KindImage, URL: "u"}}
	if !p.HasAttachments() {
		t.Error("payload with image should report attachments")
	}
}
