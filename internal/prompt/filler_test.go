package prompt

import (
	"context"
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-schemaform/pkg/schemaform"
)

type stubDriver struct {
	inputs       []string
	passwords    []string
	confirm      []bool
	selectIdx    []int
	messages     []string
	infoMessages []string
	inputPos     int
	passPos      int
	confirmPos   int
	selectPos    int
	err          error
}

func (s *stubDriver) Input(_ context.Context, cfg InputConfig) (string, error) {
	if s.err != nil {
		return "", s.err
	}
	s.messages = append(s.messages, cfg.Message)
	if s.inputPos >= len(s.inputs) {
		return "", errors.New("no input scripted")
	}
	val := s.inputs[s.inputPos]
	s.inputPos++
	return val, nil
}

func (s *stubDriver) Password(_ context.Context, cfg InputConfig) (string, error) {
	s.messages = append(s.messages, cfg.Message)
	if s.passPos >= len(s.passwords) {
		return "", errors.New("no password scripted")
	}
	val := s.passwords[s.passPos]
	s.passPos++
	return val, nil
}

func (s *stubDriver) Confirm(_ context.Context, cfg ConfirmConfig) (bool, error) {
	s.messages = append(s.messages, cfg.Message)
	if s.confirmPos >= len(s.confirm) {
		return false, errors.New("no confirm scripted")
	}
	val := s.confirm[s.confirmPos]
	s.confirmPos++
	return val, nil
}

func (s *stubDriver) Select(_ context.Context, cfg SelectConfig) (int, error) {
	s.messages = append(s.messages, cfg.Message)
	if s.selectPos >= len(s.selectIdx) {
		return -1, errors.New("no select scripted")
	}
	val := s.selectIdx[s.selectPos]
	s.selectPos++
	return val, nil
}

func (s *stubDriver) Info(_ context.Context, msg string) error {
	s.infoMessages = append(s.infoMessages, msg)
	return nil
}

func parseFields(t *testing.T, text string) []schemaform.Field {
	t.Helper()
	fields, err := schemaform.Parse(text, nil, nil)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	return fields
}

const agentSchema = `{
  "type": "object",
  "required": ["name", "count", "mode"],
  "properties": {
    "name": {"type": "string", "title": "<b>Agent name</b>", "minLength": 3},
    "count": {"type": "integer", "minimum": 1},
    "mode": {"type": "string", "enum": ["fast", "slow"], "x-enumNames": ["Fast", "Slow"]},
    "enabled": {"type": "boolean"},
    "tags": {"type": "array", "items": {"type": "string"}},
    "notes": {"type": "string"}
  }
}`

func TestFiller_FillCollectsValidatedAnswers(t *testing.T) {
	driver := &stubDriver{
		inputs:    []string{"ab", "alice", "5", "a, b ,", ""},
		selectIdx: []int{1},
		confirm:   []bool{true},
	}
	filler := New(WithDriver(driver))

	got, err := filler.Fill(context.Background(), parseFields(t, agentSchema))
	if err != nil {
		t.Fatalf("fill: %v", err)
	}

	want := map[string]any{
		"name":    "alice",
		"count":   float64(5),
		"mode":    "slow",
		"enabled": true,
		"tags":    []any{"a", "b"},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("payload mismatch (-want +got):\n%s", diff)
	}

	wantInfo := []string{"Invalid name: Minimum length: 3"}
	if diff := cmp.Diff(wantInfo, driver.infoMessages); diff != "" {
		t.Fatalf("info mismatch (-want +got):\n%s", diff)
	}
	if driver.messages[0] != "Agent name *" {
		t.Fatalf("expected sanitized required label, got %q", driver.messages[0])
	}
}

func TestFiller_TooManyAttempts(t *testing.T) {
	driver := &stubDriver{inputs: []string{"0", "zero"}}
	filler := New(WithDriver(driver), WithMaxAttempts(2))

	fields := parseFields(t, `{"required":["count"],"properties":{"count":{"type":"number","minimum":1}}}`)
	_, err := filler.Fill(context.Background(), fields)
	if !errors.Is(err, ErrTooManyAttempts) {
		t.Fatalf("expected ErrTooManyAttempts, got %v", err)
	}

	wantInfo := []string{"Invalid count: Minimum: 1", "Invalid count: Must be a number"}
	if diff := cmp.Diff(wantInfo, driver.infoMessages); diff != "" {
		t.Fatalf("info mismatch (-want +got):\n%s", diff)
	}
}

func TestFiller_OptionalEnumCanBeSkipped(t *testing.T) {
	driver := &stubDriver{selectIdx: []int{0}}
	filler := New(WithDriver(driver))

	fields := parseFields(t, `{"properties":{"mode":{"enum":["a","b"]}}}`)
	got, err := filler.Fill(context.Background(), fields)
	if err != nil {
		t.Fatalf("fill: %v", err)
	}
	if len(got) != 0 {
		t.Fatalf("expected empty payload, got %v", got)
	}
}

func TestFiller_NestedObject(t *testing.T) {
	driver := &stubDriver{inputs: []string{"gpt-4o"}, passwords: []string{"s3cret"}}
	filler := New(WithDriver(driver))

	fields := parseFields(t, `{
	  "properties": {
	    "llm": {
	      "type": "object",
	      "required": ["model", "apiKey"],
	      "properties": {
	        "model": {"type": "string"},
	        "apiKey": {"type": "string", "format": "password"}
	      }
	    }
	  }
	}`)
	got, err := filler.Fill(context.Background(), fields)
	if err != nil {
		t.Fatalf("fill: %v", err)
	}

	want := map[string]any{"llm": map[string]any{"model": "gpt-4o", "apiKey": "s3cret"}}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("payload mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]string{"llm"}, driver.infoMessages); diff != "" {
		t.Fatalf("section header mismatch (-want +got):\n%s", diff)
	}
}

func TestFiller_PropagatesAbort(t *testing.T) {
	driver := &stubDriver{err: ErrAborted}
	filler := New(WithDriver(driver))

	_, err := filler.Fill(context.Background(), parseFields(t, `{"properties":{"name":{"type":"string"}}}`))
	if !errors.Is(err, ErrAborted) {
		t.Fatalf("expected ErrAborted, got %v", err)
	}
}

func TestFiller_BooleanArrayItems(t *testing.T) {
	driver := &stubDriver{inputs: []string{"yes, true", "true, false"}}
	filler := New(WithDriver(driver))

	fields := parseFields(t, `{"required":["flags"],"properties":{"flags":{"type":"array","items":{"type":"boolean"}}}}`)
	got, err := filler.Fill(context.Background(), fields)
	if err != nil {
		t.Fatalf("fill: %v", err)
	}

	want := map[string]any{"flags": []any{true, false}}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("payload mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]string{"Invalid flags[0]: Must be boolean"}, driver.infoMessages); diff != "" {
		t.Fatalf("info mismatch (-want +got):\n%s", diff)
	}
}

func TestFiller_ObjectArrayItemsReadJSON(t *testing.T) {
	driver := &stubDriver{inputs: []string{"search", `[{"name": "search", "limit": 3}]`}}
	filler := New(WithDriver(driver))

	fields := parseFields(t, `{
	  "properties": {
	    "tools": {
	      "type": "array",
	      "items": {
	        "type": "object",
	        "required": ["name"],
	        "properties": {"name": {"type": "string"}, "limit": {"type": "integer"}}
	      }
	    }
	  }
	}`)
	got, err := filler.Fill(context.Background(), fields)
	if err != nil {
		t.Fatalf("fill: %v", err)
	}

	want := map[string]any{"tools": []any{map[string]any{"name": "search", "limit": float64(3)}}}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("payload mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]string{"Invalid tools: Must be an array"}, driver.infoMessages); diff != "" {
		t.Fatalf("info mismatch (-want +got):\n%s", diff)
	}
}
