package schemaform

import (
	"fmt"
	"regexp"
	"strings"
	"unicode/utf8"
)

// Validation messages.
const (
	MsgRequired     = "required"
	MsgNotArray     = "Must be an array"
	MsgNotBoolean   = "Must be boolean"
	MsgFileRequired = "File required"
	MsgNotNumber    = "Must be a number"
)

// Result is the outcome of validating one value: the field errors (empty
// when valid) and the normalized value to submit.
type Result struct {
	Errors Errors `json:"errors"`
	Param  any    `json:"param,omitempty"`
}

// Valid reports whether no errors were recorded.
func (r Result) Valid() bool {
	return len(r.Errors) == 0
}

// Validate checks value against node. Errors are reported under name,
// prefixed with "parent." when parent is set; array elements are reported as
// "name[i]". Validate never fails: every problem is a FieldError.
func Validate(name string, node *Node, value any, parent string) Result {
	fullName := name
	if parent != "" {
		fullName = parent + "." + name
	}
	if node == nil {
		return Result{Errors: Errors{}, Param: value}
	}

	if node.Required && isEmpty(value) {
		return failed(value, fullName, MsgRequired)
	}
	if node.Nullable && value == nil {
		return Result{Errors: Errors{}}
	}

	switch {
	case len(node.Enum) > 0:
		return validateEnum(fullName, node, value)
	case node.Type == TypeArray && node.Items != nil:
		return validateArray(name, node, value, parent)
	case node.Type == TypeObject && node.hasExplicitChildren():
		return validateObject(fullName, node, value)
	case node.Type == TypeBoolean:
		if _, ok := value.(bool); !ok {
			return failed(value, fullName, MsgNotBoolean)
		}
	case node.Type == TypeFile:
		if isFalsy(value) {
			return failed(value, fullName, MsgFileRequired)
		}
	case node.Type == TypeNumber || node.Type == TypeInteger:
		return validateNumber(fullName, node, value)
	case node.Type == TypeString:
		return validateString(fullName, node, value)
	}
	return Result{Errors: Errors{}, Param: value}
}

func failed(value any, name, message string) Result {
	return Result{Errors: Errors{{Name: name, Error: message}}, Param: value}
}

// validateEnum accepts enum members as-is and translates display names from
// x-enumNames back to the enum member at the same index.
func validateEnum(fullName string, node *Node, value any) Result {
	if indexOfValue(node.Enum, value) >= 0 {
		return Result{Errors: Errors{}, Param: value}
	}
	if idx := indexOfValue(node.EnumNames, value); idx >= 0 && idx < len(node.Enum) {
		return Result{Errors: Errors{}, Param: node.Enum[idx]}
	}

	allowed := make([]string, len(node.Enum))
	for idx, item := range node.Enum {
		allowed[idx] = formatValue(item)
	}
	return failed(value, fullName, "Must be one of: "+strings.Join(allowed, ", "))
}

func validateArray(name string, node *Node, value any, parent string) Result {
	items, ok := asSlice(value)
	if !ok {
		fullName := name
		if parent != "" {
			fullName = parent + "." + name
		}
		return failed(value, fullName, MsgNotArray)
	}

	out := Result{Errors: Errors{}}
	params := make([]any, len(items))
	for idx, item := range items {
		child := Validate(fmt.Sprintf("%s[%d]", name, idx), node.Items, item, parent)
		out.Errors = append(out.Errors, child.Errors...)
		params[idx] = child.Param
	}
	out.Param = params
	return out
}

func validateObject(fullName string, node *Node, value any) Result {
	values, _ := asMap(value)

	out := Result{Errors: Errors{}}
	params := make(map[string]any, len(node.Children))
	for _, child := range node.Children {
		result := Validate(child.Name, child.Node, values[child.Name], fullName)
		out.Errors = append(out.Errors, result.Errors...)
		if result.Param != nil {
			params[child.Name] = result.Param
		}
	}
	out.Param = params
	return out
}

func validateNumber(fullName string, node *Node, value any) Result {
	if isEmpty(value) {
		return failed(value, fullName, MsgRequired)
	}
	number, ok := toNumber(value)
	if !ok {
		return failed(value, fullName, MsgNotNumber)
	}
	if node.Minimum != nil && number < *node.Minimum {
		return failed(value, fullName, "Minimum: "+formatNumber(*node.Minimum))
	}
	if node.Maximum != nil && number > *node.Maximum {
		return failed(value, fullName, "Maximum: "+formatNumber(*node.Maximum))
	}
	return Result{Errors: Errors{}, Param: number}
}

// validateString reports every violated constraint, not just the first.
func validateString(fullName string, node *Node, value any) Result {
	if isEmpty(value) {
		return failed(value, fullName, MsgRequired)
	}
	str, ok := value.(string)
	if !ok {
		str = formatValue(value)
	}

	out := Result{Errors: Errors{}, Param: value}
	if node.Pattern != "" {
		if re, err := compilePattern(node.Pattern); err == nil && !re.MatchString(str) {
			out.Errors = append(out.Errors, FieldError{Name: fullName, Error: "Must match pattern: " + node.Pattern})
		}
	}
	length := utf8.RuneCountInString(str)
	if node.MinLength != nil && length < *node.MinLength {
		out.Errors = append(out.Errors, FieldError{Name: fullName, Error: fmt.Sprintf("Minimum length: %d", *node.MinLength)})
	}
	if node.MaxLength != nil && length > *node.MaxLength {
		out.Errors = append(out.Errors, FieldError{Name: fullName, Error: fmt.Sprintf("Maximum length: %d", *node.MaxLength)})
	}
	return out
}

// compilePattern compiles a schema pattern. Patterns RE2 cannot express are
// skipped by the caller.
func compilePattern(pattern string) (*regexp.Regexp, error) {
	return regexp.Compile(pattern)
}
