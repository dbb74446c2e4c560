package schemaform

// ValidateForm validates every top-level field of a parsed form against
// values and assembles the submission payload from the defined params.
// Free-form additionalProperties entries are copied through untouched.
func ValidateForm(fields []Field, values map[string]any) Result {
	out := Result{Errors: Errors{}}
	params := make(map[string]any, len(fields))
	explicit := make(map[string]struct{}, len(fields))

	for _, field := range fields {
		if field.Additional {
			continue
		}
		explicit[field.Name] = struct{}{}
		result := Validate(field.Name, field.Node, values[field.Name], "")
		out.Errors = append(out.Errors, result.Errors...)
		if result.Param != nil {
			params[field.Name] = result.Param
		}
	}

	for _, field := range fields {
		if !field.Additional {
			continue
		}
		for key, value := range values {
			if _, ok := explicit[key]; ok {
				continue
			}
			result := Validate(key, field.Node, value, "")
			out.Errors = append(out.Errors, result.Errors...)
			if result.Param != nil {
				params[key] = result.Param
			}
		}
	}

	out.Param = params
	return out
}

// Values extracts the bound value of every field, skipping unset ones.
func Values(fields []Field) map[string]any {
	out := make(map[string]any, len(fields))
	for _, field := range fields {
		if field.Additional || field.Node == nil || field.Node.Value == nil {
			continue
		}
		out[field.Name] = field.Node.Value
	}
	return out
}

// Choice is one selectable enum entry.
type Choice struct {
	Value any    `json:"value"`
	Label string `json:"label"`
}

// EnumOptions lists the enum members of node with their display labels. The
// label is the x-enumNames entry at the same index, or the value itself.
func EnumOptions(node *Node) []Choice {
	if node == nil || len(node.Enum) == 0 {
		return nil
	}
	out := make([]Choice, len(node.Enum))
	for idx, value := range node.Enum {
		label := formatValue(value)
		if idx < len(node.EnumNames) && node.EnumNames[idx] != nil {
			label = formatValue(node.EnumNames[idx])
		}
		out[idx] = Choice{Value: value, Label: label}
	}
	return out
}
