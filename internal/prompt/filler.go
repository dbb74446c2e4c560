package prompt

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"github.com/microcosm-cc/bluemonday"

	"github.com/goliatone/go-schemaform/pkg/schemaform"
)

const (
	defaultMaxAttempts = 3
	skipOption         = "(skip)"
)

// Filler walks parsed form fields and asks the user for each value,
// re-prompting until the answer passes schemaform.Validate.
type Filler struct {
	driver      Driver
	maxAttempts int
	sanitizer   *bluemonday.Policy
}

// Option configures a Filler.
type Option func(*Filler)

// WithDriver overrides the prompt driver.
func WithDriver(driver Driver) Option {
	return func(f *Filler) {
		if driver != nil {
			f.driver = driver
		}
	}
}

// WithMaxAttempts caps how many invalid answers a field accepts before Fill
// gives up.
func WithMaxAttempts(attempts int) Option {
	return func(f *Filler) {
		if attempts > 0 {
			f.maxAttempts = attempts
		}
	}
}

// New constructs a Filler backed by survey prompts unless a driver is given.
func New(options ...Option) *Filler {
	f := &Filler{
		maxAttempts: defaultMaxAttempts,
		sanitizer:   bluemonday.StrictPolicy(),
	}
	for _, opt := range options {
		if opt != nil {
			opt(f)
		}
	}
	if f.driver == nil {
		f.driver = NewSurveyDriver(nil)
	}
	return f
}

// Fill prompts for every field and returns the submission payload. Each
// answer is normalized by schemaform.Validate; skipped optional fields are
// left out of the payload.
func (f *Filler) Fill(ctx context.Context, fields []schemaform.Field) (map[string]any, error) {
	values := make(map[string]any, len(fields))
	for _, field := range fields {
		if field.Additional || field.Node == nil {
			continue
		}
		value, err := f.fillNode(ctx, field.Name, "", field.Node)
		if err != nil {
			return nil, err
		}
		if value != nil {
			values[field.Name] = value
		}
	}
	return values, nil
}

func (f *Filler) fillNode(ctx context.Context, name, parent string, node *schemaform.Node) (any, error) {
	switch {
	case len(node.Enum) > 0:
		return f.fillEnum(ctx, name, parent, node)
	case node.Type == schemaform.TypeBoolean:
		return f.fillBoolean(ctx, name, node)
	case node.Type == schemaform.TypeObject && len(node.Children) > 0:
		if _, free := node.AdditionalProperties(); !free {
			return f.fillObject(ctx, name, parent, node)
		}
	case node.Type == schemaform.TypeArray && node.Items != nil:
		return f.fillArray(ctx, name, parent, node)
	}
	return f.fillScalar(ctx, name, parent, node)
}

func (f *Filler) fillEnum(ctx context.Context, name, parent string, node *schemaform.Node) (any, error) {
	choices := schemaform.EnumOptions(node)
	labels := make([]string, 0, len(choices)+1)
	offset := 0
	if !node.Required {
		labels = append(labels, skipOption)
		offset = 1
	}
	defaultIdx := 0
	for idx, choice := range choices {
		labels = append(labels, choice.Label)
		if node.Value != nil && fmt.Sprint(choice.Value) == fmt.Sprint(node.Value) {
			defaultIdx = idx + offset
		}
	}

	idx, err := f.driver.Select(ctx, SelectConfig{
		Message:      f.label(name, node),
		Options:      labels,
		DefaultIndex: defaultIdx,
		Help:         f.help(node),
	})
	if err != nil {
		return nil, err
	}
	idx -= offset
	if idx < 0 || idx >= len(choices) {
		return nil, nil
	}
	result := schemaform.Validate(name, node, choices[idx].Value, parent)
	return result.Param, nil
}

func (f *Filler) fillBoolean(ctx context.Context, name string, node *schemaform.Node) (any, error) {
	current, _ := node.Value.(bool)
	if node.Value == nil {
		current, _ = node.Default.(bool)
	}
	return f.driver.Confirm(ctx, ConfirmConfig{
		Message: f.label(name, node),
		Default: current,
		Help:    f.help(node),
	})
}

func (f *Filler) fillObject(ctx context.Context, name, parent string, node *schemaform.Node) (any, error) {
	path := joinPath(parent, name)
	if err := f.driver.Info(ctx, f.label(name, node)); err != nil {
		return nil, err
	}
	out := make(map[string]any, len(node.Children))
	for _, child := range node.Children {
		value, err := f.fillNode(ctx, child.Name, path, child.Node)
		if err != nil {
			return nil, err
		}
		if value != nil {
			out[child.Name] = value
		}
	}
	if len(out) == 0 && !node.Required {
		return nil, nil
	}
	return out, nil
}

// fillArray reads a comma separated list of scalar items, or a JSON array
// when the items are objects or arrays.
func (f *Filler) fillArray(ctx context.Context, name, parent string, node *schemaform.Node) (any, error) {
	return f.ask(ctx, name, parent, node, func(answer string) any {
		return parseList(answer, node.Items)
	})
}

func parseList(answer string, items *schemaform.Node) any {
	switch items.Type {
	case schemaform.TypeObject, schemaform.TypeArray:
		var out []any
		if err := json.Unmarshal([]byte(answer), &out); err != nil {
			return answer
		}
		return out
	}

	parts := strings.Split(answer, ",")
	out := make([]any, 0, len(parts))
	for _, part := range parts {
		trimmed := strings.TrimSpace(part)
		if trimmed == "" {
			continue
		}
		out = append(out, parseItem(trimmed, items))
	}
	return out
}

// parseItem converts one list entry for the item type. Entries that do not
// convert are kept as text so Validate reports them.
func parseItem(text string, items *schemaform.Node) any {
	if items.Type == schemaform.TypeBoolean && len(items.Enum) == 0 {
		if value, err := strconv.ParseBool(text); err == nil {
			return value
		}
	}
	return text
}

func (f *Filler) fillScalar(ctx context.Context, name, parent string, node *schemaform.Node) (any, error) {
	return f.ask(ctx, name, parent, node, func(answer string) any {
		return answer
	})
}

// ask prompts until convert(answer) validates. Blank answers skip optional
// fields.
func (f *Filler) ask(ctx context.Context, name, parent string, node *schemaform.Node, convert func(string) any) (any, error) {
	cfg := InputConfig{
		Message: f.label(name, node),
		Default: defaultText(node),
		Help:    f.help(node),
	}
	secret := node.Format == "password"

	for attempt := 0; attempt < f.maxAttempts; attempt++ {
		var (
			answer string
			err    error
		)
		if secret {
			answer, err = f.driver.Password(ctx, cfg)
		} else {
			answer, err = f.driver.Input(ctx, cfg)
		}
		if err != nil {
			return nil, err
		}

		if strings.TrimSpace(answer) == "" && !node.Required {
			return nil, nil
		}

		result := schemaform.Validate(name, node, convert(answer), parent)
		if result.Valid() {
			return result.Param, nil
		}
		for _, fieldErr := range result.Errors {
			if err := f.driver.Info(ctx, fmt.Sprintf("Invalid %s: %s", fieldErr.Name, fieldErr.Error)); err != nil {
				return nil, err
			}
		}
	}
	return nil, fmt.Errorf("%w: %s", ErrTooManyAttempts, joinPath(parent, name))
}

func (f *Filler) label(name string, node *schemaform.Node) string {
	label := name
	if node.Title != "" {
		label = f.sanitizer.Sanitize(node.Title)
	}
	if node.Required {
		label += " *"
	}
	return label
}

func (f *Filler) help(node *schemaform.Node) string {
	return strings.TrimSpace(f.sanitizer.Sanitize(node.Description))
}

func defaultText(node *schemaform.Node) string {
	value := node.Value
	if value == nil {
		value = node.Default
	}
	switch typed := value.(type) {
	case nil:
		return ""
	case string:
		return typed
	case float64:
		return strconv.FormatFloat(typed, 'f', -1, 64)
	case []any:
		for _, item := range typed {
			switch item.(type) {
			case map[string]any, []any:
				raw, err := json.Marshal(typed)
				if err != nil {
					return ""
				}
				return string(raw)
			}
		}
		parts := make([]string, len(typed))
		for idx, item := range typed {
			parts[idx] = fmt.Sprint(item)
		}
		return strings.Join(parts, ", ")
	default:
		return fmt.Sprint(typed)
	}
}

func joinPath(parent, name string) string {
	if parent == "" {
		return name
	}
	return parent + "." + name
}
