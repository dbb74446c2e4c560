package schemaform

import "strings"

// FieldError pins a validation message to a dotted field name.
type FieldError struct {
	Name  string `json:"name"`
	Error string `json:"error"`
}

// Errors is the list of problems found by Validate.
type Errors []FieldError

// ByField groups messages by field name, trimming whitespace and dropping
// duplicates while preserving order.
func (e Errors) ByField() map[string][]string {
	if len(e) == 0 {
		return nil
	}
	out := make(map[string][]string)
	for _, item := range e {
		name := strings.TrimSpace(item.Name)
		out[name] = append(out[name], item.Error)
	}
	for name, messages := range out {
		out[name] = normalizeMessages(messages)
		if len(out[name]) == 0 {
			delete(out, name)
		}
	}
	if len(out) == 0 {
		return nil
	}
	return out
}

// For returns the messages recorded for one field.
func (e Errors) For(name string) []string {
	var out []string
	for _, item := range e {
		if item.Name == name {
			out = append(out, item.Error)
		}
	}
	return normalizeMessages(out)
}

func normalizeMessages(messages []string) []string {
	if len(messages) == 0 {
		return nil
	}

	out := make([]string, 0, len(messages))
	seen := make(map[string]struct{}, len(messages))
	for _, message := range messages {
		trimmed := strings.TrimSpace(message)
		if trimmed == "" {
			continue
		}
		if _, exists := seen[trimmed]; exists {
			continue
		}
		seen[trimmed] = struct{}{}
		out = append(out, trimmed)
	}
	if len(out) == 0 {
		return nil
	}
	return out
}
