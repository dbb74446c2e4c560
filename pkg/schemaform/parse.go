package schemaform

import (
	"strconv"
	"strings"

	"github.com/goliatone/go-schemaform/pkg/schema"
)

// Parse decodes schema text and returns its top-level properties in document
// order, each bound to the entry of values with the same name (falling back
// to defaults). Blank text is read as "{}". Properties on the deny-list are
// dropped. Malformed text returns an error and no fields.
func Parse(text string, values, defaults map[string]any, opts ...Option) ([]Field, error) {
	root, err := ParseNode([]byte(text), optionalMap(values), optionalMap(defaults), opts...)
	if err != nil {
		return nil, err
	}
	if root.Children == nil {
		return []Field{}, nil
	}
	return root.Children, nil
}

// ParseDocument is Parse for a loaded schema document.
func ParseDocument(doc schema.Document, values, defaults map[string]any, opts ...Option) ([]Field, error) {
	return Parse(doc.Text(), values, defaults, opts...)
}

// ParseNode resolves the whole schema into a single root node bound to value
// (falling back to defaults). Use it for schemas whose root is not an object.
func ParseNode(raw []byte, value, defaults any, opts ...Option) (*Node, error) {
	root, err := decodeSchema(raw)
	if err != nil {
		return nil, err
	}

	cfg := newOptions(opts)
	p := &parser{root: root, opts: cfg}
	node := p.build(root, value, defaults, false, nil)

	if node.Children != nil {
		kept := make([]Field, 0, len(node.Children))
		for _, field := range node.Children {
			if !field.Additional && cfg.isDenied(field.Name) {
				continue
			}
			kept = append(kept, field)
		}
		node.Children = kept
	}
	return node, nil
}

func optionalMap(values map[string]any) any {
	if values == nil {
		return nil
	}
	return values
}

type parser struct {
	root *object
	opts options
}

// build resolves fragment into a node. refs holds the $ref chain followed to
// reach fragment and guards against cycles.
func (p *parser) build(fragment, value, fallback any, required bool, refs []string) *Node {
	bound := value
	if bound == nil {
		bound = fallback
	}

	frag, ok := fragment.(*object)
	if !ok {
		return &Node{Type: TypeAny, Required: required, Value: bound}
	}

	if rawRef, ok := frag.get("$ref"); ok {
		ref, _ := rawRef.(string)
		target, found := p.lookup(ref)
		if !found || containsString(refs, ref) || len(refs) >= p.opts.maxRefDepth {
			return p.passthrough(frag, bound, required, ref)
		}
		chain := append(refs[:len(refs):len(refs)], ref)
		if targetObj, ok := target.(*object); ok {
			merged := targetObj.clone()
			for _, key := range frag.keys {
				if key != "$ref" {
					merged.set(key, frag.values[key])
				}
			}
			target = merged
		}
		return p.build(target, value, fallback, required, chain)
	}

	if branch, nullable, ok := pickBranch(frag); ok {
		node := p.build(branch, value, fallback, required, refs)
		if nullable {
			node.Nullable = true
		}
		return node
	}

	typ, nullable := resolveType(frag, true)
	node := p.base(frag, typ, bound, required)
	node.Nullable = node.Nullable || nullable

	switch typ {
	case TypeObject:
		p.buildObject(node, frag, value, fallback, refs)
	case TypeArray:
		if items, ok := frag.get("items"); ok {
			switch items.(type) {
			case *object, bool:
				node.Items = p.build(items, nil, nil, required, refs)
			}
		}
	}
	return node
}

func (p *parser) buildObject(node *Node, frag *object, value, fallback any, refs []string) {
	values, _ := asMap(value)
	defaults, _ := asMap(fallback)

	if rawProps, ok := frag.get("properties"); ok {
		props, _ := rawProps.(*object)
		required := stringList(frag.values["required"])
		node.Children = make([]Field, 0, props.len())
		if props == nil {
			return
		}
		for _, key := range props.keys {
			child := p.build(props.values[key], values[key], defaults[key], containsString(required, key), refs)
			node.Children = append(node.Children, Field{Name: key, Node: child})
		}
		return
	}

	additional, ok := frag.get("additionalProperties")
	if !ok {
		return
	}
	switch typed := additional.(type) {
	case bool:
		if !typed {
			node.Children = []Field{}
			return
		}
		node.Children = []Field{{
			Name:       AdditionalPropertiesName,
			Additional: true,
			Node:       &Node{Type: TypeAny},
		}}
	case *object:
		node.Children = []Field{{
			Name:       AdditionalPropertiesName,
			Additional: true,
			Node:       p.build(typed, nil, nil, false, refs),
		}}
	}
}

// passthrough keeps an unresolvable fragment as-is with its value attached.
func (p *parser) passthrough(frag *object, bound any, required bool, ref string) *Node {
	typ, nullable := resolveType(frag, false)
	node := p.base(frag, typ, bound, required)
	node.Nullable = node.Nullable || nullable
	node.Ref = ref
	node.Keywords, _ = plain(frag).(map[string]any)
	return node
}

func (p *parser) base(frag *object, typ string, bound any, required bool) *Node {
	node := &Node{
		Type:        typ,
		Required:    required,
		Title:       readString(frag, "title"),
		Description: readString(frag, "description"),
		Format:      readString(frag, "format"),
		Default:     plain(frag.values["default"]),
		Pattern:     readString(frag, "pattern"),
		Value:       bound,
	}
	if nullable, ok := frag.values["nullable"].(bool); ok {
		node.Nullable = nullable
	}
	if list, ok := frag.values["enum"].([]any); ok {
		node.Enum, _ = plain(list).([]any)
	}
	if list, ok := frag.values["x-enumNames"].([]any); ok {
		node.EnumNames, _ = plain(list).([]any)
	}
	if number, ok := toFloat(frag.values["minimum"]); ok {
		node.Minimum = &number
	}
	if number, ok := toFloat(frag.values["maximum"]); ok {
		node.Maximum = &number
	}
	if length, ok := toInt(frag.values["minLength"]); ok {
		node.MinLength = &length
	}
	if length, ok := toInt(frag.values["maxLength"]); ok {
		node.MaxLength = &length
	}
	for _, key := range frag.keys {
		if !strings.HasPrefix(key, "x-") || key == "x-enumNames" {
			continue
		}
		if node.Extensions == nil {
			node.Extensions = make(map[string]any)
		}
		node.Extensions[key] = plain(frag.values[key])
	}
	return node
}

// lookup resolves a local JSON pointer ("#/definitions/Name") against the
// root document.
func (p *parser) lookup(ref string) (any, bool) {
	pointer, ok := strings.CutPrefix(strings.TrimSpace(ref), "#")
	if !ok {
		return nil, false
	}
	if pointer == "" {
		return p.root, true
	}
	if !strings.HasPrefix(pointer, "/") {
		return nil, false
	}

	var current any = p.root
	for _, segment := range strings.Split(pointer[1:], "/") {
		segment = unescapePointer(segment)
		switch typed := current.(type) {
		case *object:
			next, ok := typed.get(segment)
			if !ok {
				return nil, false
			}
			current = next
		case []any:
			idx, ok := parseIndex(segment)
			if !ok || idx < 0 || idx >= len(typed) {
				return nil, false
			}
			current = typed[idx]
		default:
			return nil, false
		}
	}
	return current, true
}

var annotationKeys = []string{"title", "description", "default", "format", "x-enumNames"}

// pickBranch reduces allOf/anyOf/oneOf to a single member: the first one,
// except that a two-way oneOf with a null branch yields the other branch and
// marks it nullable. Annotations written next to the combinator are kept.
func pickBranch(frag *object) (any, bool, bool) {
	for _, key := range []string{"allOf", "anyOf", "oneOf"} {
		list, ok := frag.values[key].([]any)
		if !ok || len(list) == 0 {
			continue
		}

		branch, nullable := list[0], false
		if key == "oneOf" && len(list) == 2 {
			switch {
			case isNullSchema(list[0]):
				branch, nullable = list[1], true
			case isNullSchema(list[1]):
				branch, nullable = list[0], true
			}
		}

		if branchObj, ok := branch.(*object); ok {
			merged := branchObj.clone()
			for _, annotation := range annotationKeys {
				if value, ok := frag.get(annotation); ok {
					if _, exists := merged.get(annotation); !exists {
						merged.set(annotation, value)
					}
				}
			}
			branch = merged
		}
		return branch, nullable, true
	}
	return nil, false, false
}

func isNullSchema(fragment any) bool {
	frag, ok := fragment.(*object)
	if !ok {
		return false
	}
	switch typed := frag.values["type"].(type) {
	case string:
		return typed == TypeNull
	case []any:
		return len(typed) == 1 && typed[0] == TypeNull
	}
	return false
}

// resolveType collapses the type keyword to one kind. Unions with null keep
// the first non-null member and report nullable. With infer set, untyped
// fragments take their kind from structural keywords.
func resolveType(frag *object, infer bool) (string, bool) {
	switch typed := frag.values["type"].(type) {
	case string:
		if typed != "" {
			return typed, false
		}
	case []any:
		nullable := false
		first := ""
		for _, entry := range typed {
			name, _ := entry.(string)
			if name == TypeNull {
				nullable = true
				continue
			}
			if first == "" && name != "" {
				first = name
			}
		}
		if first == "" && nullable {
			return TypeNull, false
		}
		if first != "" {
			return first, nullable
		}
	}

	if !infer {
		return "", false
	}
	switch {
	case hasKey(frag, "properties"), hasKey(frag, "additionalProperties"):
		return TypeObject, false
	case hasKey(frag, "items"):
		return TypeArray, false
	}
	if list, ok := frag.values["enum"].([]any); ok && len(list) > 0 {
		return literalType(list[0]), false
	}
	return TypeAny, false
}

func literalType(value any) string {
	switch value.(type) {
	case string:
		return TypeString
	case bool:
		return TypeBoolean
	case nil:
		return TypeAny
	}
	if _, ok := toFloat(value); ok {
		return TypeNumber
	}
	return TypeAny
}

func hasKey(frag *object, key string) bool {
	_, ok := frag.get(key)
	return ok
}

func readString(frag *object, key string) string {
	value, _ := frag.values[key].(string)
	return strings.TrimSpace(value)
}

func stringList(value any) []string {
	list, ok := value.([]any)
	if !ok {
		return nil
	}
	out := make([]string, 0, len(list))
	for _, item := range list {
		if str, ok := item.(string); ok {
			out = append(out, str)
		}
	}
	return out
}

func unescapePointer(segment string) string {
	segment = strings.ReplaceAll(segment, "~1", "/")
	return strings.ReplaceAll(segment, "~0", "~")
}

// parseIndex reads an array index segment: plain decimal digits that fit in
// an int.
func parseIndex(segment string) (int, bool) {
	if segment == "" {
		return 0, false
	}
	for _, r := range segment {
		if r < '0' || r > '9' {
			return 0, false
		}
	}
	idx, err := strconv.Atoi(segment)
	if err != nil || idx < 0 {
		return 0, false
	}
	return idx, true
}
