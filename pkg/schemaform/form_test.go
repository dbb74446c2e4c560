package schemaform

import (
	"testing"

	"github.com/google/go-cmp/cmp"
)

const agentSchema = `{
  "type": "object",
  "required": ["name", "model"],
  "definitions": {
    "Model": {"type": "string", "enum": ["gpt-4o", "claude"], "x-enumNames": ["GPT-4o", "Claude"]}
  },
  "properties": {
    "correlationId": {"type": "string"},
    "name": {"type": "string", "maxLength": 32},
    "model": {"$ref": "#/definitions/Model"},
    "temperature": {"type": "number", "minimum": 0, "maximum": 2},
    "tools": {"type": "array", "items": {"type": "string"}},
    "headers": {"type": "object", "additionalProperties": {"type": "string"}}
  }
}`

func TestValidateForm_SubmitsNormalizedPayload(t *testing.T) {
	fields := mustParse(t, agentSchema, nil, nil)
	if diff := cmp.Diff([]string{"name", "model", "temperature", "tools", "headers"}, fieldNames(fields)); diff != "" {
		t.Fatalf("field mismatch (-want +got):\n%s", diff)
	}

	result := ValidateForm(fields, map[string]any{
		"name":        "planner",
		"model":       "Claude",
		"temperature": "0.5",
		"tools":       []any{"search", "browse"},
		"headers":     map[string]any{"x-team": "core"},
	})
	if !result.Valid() {
		t.Fatalf("expected valid form, got %v", result.Errors)
	}
	want := map[string]any{
		"name":        "planner",
		"model":       "claude",
		"temperature": 0.5,
		"tools":       []any{"search", "browse"},
		"headers":     map[string]any{"x-team": "core"},
	}
	if diff := cmp.Diff(want, result.Param); diff != "" {
		t.Fatalf("param mismatch (-want +got):\n%s", diff)
	}
}

func TestValidateForm_CollectsFieldErrors(t *testing.T) {
	fields := mustParse(t, agentSchema, nil, nil)
	result := ValidateForm(fields, map[string]any{
		"model":       "llama",
		"temperature": 3,
		"tools":       []any{"search"},
		"headers":     map[string]any{},
	})

	want := map[string][]string{
		"name":        {"required"},
		"model":       {"Must be one of: gpt-4o, claude"},
		"temperature": {"Maximum: 2"},
	}
	if diff := cmp.Diff(want, result.Errors.ByField()); diff != "" {
		t.Fatalf("errors mismatch (-want +got):\n%s", diff)
	}
}

func TestValidateForm_AdditionalPropertiesRoot(t *testing.T) {
	fields := mustParse(t, `{"type":"object","additionalProperties":{"type":"number"}}`, nil, nil)
	result := ValidateForm(fields, map[string]any{"a": "1", "b": "x"})

	if diff := cmp.Diff(map[string][]string{"b": {MsgNotNumber}}, result.Errors.ByField()); diff != "" {
		t.Fatalf("errors mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff(map[string]any{"a": 1.0, "b": "x"}, result.Param); diff != "" {
		t.Fatalf("param mismatch (-want +got):\n%s", diff)
	}
}

func TestValues_RoundTripsBoundValues(t *testing.T) {
	values := map[string]any{"name": "planner", "model": "claude", "tools": []any{"search"}}
	fields := mustParse(t, agentSchema, values, nil)

	if diff := cmp.Diff(values, Values(fields)); diff != "" {
		t.Fatalf("values mismatch (-want +got):\n%s", diff)
	}
}

func TestEnumOptions(t *testing.T) {
	fields := mustParse(t, agentSchema, nil, nil)
	model := fields[1].Node

	want := []Choice{{Value: "gpt-4o", Label: "GPT-4o"}, {Value: "claude", Label: "Claude"}}
	if diff := cmp.Diff(want, EnumOptions(model)); diff != "" {
		t.Fatalf("options mismatch (-want +got):\n%s", diff)
	}

	partial := &Node{Enum: []any{1.0, 2.0}, EnumNames: []any{"One"}}
	want = []Choice{{Value: 1.0, Label: "One"}, {Value: 2.0, Label: "2"}}
	if diff := cmp.Diff(want, EnumOptions(partial)); diff != "" {
		t.Fatalf("options mismatch (-want +got):\n%s", diff)
	}
	if EnumOptions(&Node{Type: TypeString}) != nil {
		t.Fatalf("expected nil options for non-enum node")
	}
}
