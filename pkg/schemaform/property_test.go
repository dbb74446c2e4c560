package schemaform

import (
	"encoding/json"
	"fmt"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
	"pgregory.net/rapid"
)

func TestProperty_RequiredEmptyYieldsSingleError(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		typ := rapid.SampledFrom([]string{
			TypeString, TypeNumber, TypeInteger, TypeBoolean, TypeFile, TypeArray, TypeObject, TypeAny,
		}).Draw(t, "type")
		value := rapid.SampledFrom([]any{nil, ""}).Draw(t, "value")

		node := &Node{Type: typ, Required: true, Pattern: "^x", MinLength: intPtr(3)}
		switch typ {
		case TypeArray:
			node.Items = &Node{Type: TypeString, Required: true}
		case TypeObject:
			node.Children = []Field{{Name: "inner", Node: &Node{Type: TypeString, Required: true}}}
		}

		result := Validate("field", node, value, "")
		want := Errors{{Name: "field", Error: MsgRequired}}
		if diff := cmp.Diff(want, result.Errors); diff != "" {
			t.Fatalf("errors mismatch (-want +got):\n%s", diff)
		}
	})
}

func TestProperty_EnumDisplayNamesTranslate(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		keys := rapid.SliceOfNDistinct(rapid.StringMatching(`[a-z0-9]{1,6}`), 1, 6, rapid.ID[string]).Draw(t, "keys")
		enum := make([]string, len(keys))
		names := make([]string, len(keys))
		for idx, key := range keys {
			enum[idx] = "v-" + key
			names[idx] = "Name " + key
		}
		raw, err := json.Marshal(map[string]any{"type": "string", "enum": enum, "x-enumNames": names})
		if err != nil {
			t.Fatalf("marshal: %v", err)
		}
		node, err := ParseNode(raw, nil, nil)
		if err != nil {
			t.Fatalf("parse: %v", err)
		}

		idx := rapid.IntRange(0, len(keys)-1).Draw(t, "idx")
		result := Validate("mode", node, names[idx], "")
		if !result.Valid() {
			t.Fatalf("expected no errors, got %v", result.Errors)
		}
		if result.Param != enum[idx] {
			t.Fatalf("expected %q, got %#v", enum[idx], result.Param)
		}
	})
}

func TestProperty_ArrayParamKeepsLength(t *testing.T) {
	node, err := ParseNode([]byte(`{"type":"object","required":["tags"],"properties":{"tags":{"type":"array","items":{"type":"string"}}}}`), nil, nil)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	tags, _ := node.Child("tags")

	rapid.Check(t, func(t *rapid.T) {
		drawn := rapid.SliceOf(rapid.StringMatching(`[a-z]{0,4}`)).Draw(t, "tags")
		items := make([]any, len(drawn))
		var want Errors
		for idx, item := range drawn {
			items[idx] = item
			if item == "" {
				want = append(want, FieldError{Name: fmt.Sprintf("tags[%d]", idx), Error: MsgRequired})
			}
		}

		result := Validate("tags", tags, items, "")
		params, ok := result.Param.([]any)
		if !ok || len(params) != len(items) {
			t.Fatalf("expected %d params, got %#v", len(items), result.Param)
		}
		if diff := cmp.Diff(want, result.Errors, cmpopts.EquateEmpty()); diff != "" {
			t.Fatalf("errors mismatch (-want +got):\n%s", diff)
		}
	})
}

func TestProperty_UneditedValuesRoundTrip(t *testing.T) {
	const schemaText = `{
  "type": "object",
  "required": ["name"],
  "properties": {
    "publisherId": {"type": "string"},
    "name": {"type": "string", "minLength": 1, "maxLength": 20, "pattern": "^[a-z]+$"},
    "temperature": {"type": "number", "minimum": 0, "maximum": 2},
    "model": {"type": "string", "enum": ["gpt-4o", "claude"], "x-enumNames": ["GPT-4o", "Claude"]},
    "tools": {"type": "array", "items": {"type": "string"}},
    "streaming": {"type": "boolean"},
    "limits": {"type": "object", "properties": {"tokens": {"type": "integer", "minimum": 1}}}
  }
}`

	rapid.Check(t, func(t *rapid.T) {
		drawnTools := rapid.SliceOf(rapid.StringMatching(`[a-z]{1,8}`)).Draw(t, "tools")
		tools := make([]any, len(drawnTools))
		for idx, tool := range drawnTools {
			tools[idx] = tool
		}
		values := map[string]any{
			"name":        rapid.StringMatching(`[a-z]{1,20}`).Draw(t, "name"),
			"temperature": rapid.Float64Range(0, 2).Draw(t, "temperature"),
			"model":       rapid.SampledFrom([]string{"gpt-4o", "claude"}).Draw(t, "model"),
			"tools":       tools,
			"streaming":   rapid.Bool().Draw(t, "streaming"),
			"limits":      map[string]any{"tokens": float64(rapid.IntRange(1, 4096).Draw(t, "tokens"))},
		}

		fields, err := Parse(schemaText, values, nil)
		if err != nil {
			t.Fatalf("parse: %v", err)
		}
		result := ValidateForm(fields, Values(fields))
		if !result.Valid() {
			t.Fatalf("expected no errors, got %v", result.Errors)
		}
		if diff := cmp.Diff(values, result.Param); diff != "" {
			t.Fatalf("round trip mismatch (-want +got):\n%s", diff)
		}
	})
}
