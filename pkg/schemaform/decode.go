package schemaform

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strconv"

	"gopkg.in/yaml.v3"
)

// object is a decoded mapping that remembers key order, so properties come
// out of Parse in the order the schema author wrote them.
type object struct {
	keys   []string
	values map[string]any
}

func newObject(capacity int) *object {
	return &object{
		keys:   make([]string, 0, capacity),
		values: make(map[string]any, capacity),
	}
}

func (o *object) get(key string) (any, bool) {
	if o == nil {
		return nil, false
	}
	value, ok := o.values[key]
	return value, ok
}

func (o *object) set(key string, value any) {
	if _, exists := o.values[key]; !exists {
		o.keys = append(o.keys, key)
	}
	o.values[key] = value
}

func (o *object) len() int {
	if o == nil {
		return 0
	}
	return len(o.keys)
}

// clone returns a shallow copy.
func (o *object) clone() *object {
	out := newObject(o.len())
	if o == nil {
		return out
	}
	for _, key := range o.keys {
		out.set(key, o.values[key])
	}
	return out
}

// plain converts the ordered tree into map[string]any / []any values.
func plain(value any) any {
	switch typed := value.(type) {
	case *object:
		out := make(map[string]any, typed.len())
		for _, key := range typed.keys {
			out[key] = plain(typed.values[key])
		}
		return out
	case []any:
		out := make([]any, len(typed))
		for idx, item := range typed {
			out[idx] = plain(item)
		}
		return out
	default:
		return value
	}
}

// decodeSchema reads JSON (or YAML) schema text into an ordered tree. Numbers
// decode to float64 to match encoding/json.
func decodeSchema(raw []byte) (*object, error) {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 {
		return newObject(0), nil
	}

	var (
		decoded any
		err     error
	)
	if trimmed[0] == '{' || trimmed[0] == '[' {
		decoded, err = decodeJSON(trimmed)
	} else {
		decoded, err = decodeYAML(trimmed)
	}
	if err != nil {
		return nil, err
	}

	root, ok := decoded.(*object)
	if !ok {
		return nil, fmt.Errorf("schemaform: schema root must be an object, got %T", decoded)
	}
	return root, nil
}

func decodeJSON(raw []byte) (any, error) {
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()

	value, err := readJSONValue(dec)
	if err != nil {
		return nil, fmt.Errorf("schemaform: decode schema: %w", err)
	}
	if _, err := dec.Token(); !errors.Is(err, io.EOF) {
		return nil, errors.New("schemaform: decode schema: trailing data after document")
	}
	return value, nil
}

func readJSONValue(dec *json.Decoder) (any, error) {
	tok, err := dec.Token()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, io.ErrUnexpectedEOF
		}
		return nil, err
	}

	switch typed := tok.(type) {
	case json.Delim:
		switch typed {
		case '{':
			out := newObject(4)
			for dec.More() {
				keyTok, err := dec.Token()
				if err != nil {
					return nil, err
				}
				key, ok := keyTok.(string)
				if !ok {
					return nil, fmt.Errorf("unexpected key token %v", keyTok)
				}
				value, err := readJSONValue(dec)
				if err != nil {
					return nil, err
				}
				out.set(key, value)
			}
			if _, err := dec.Token(); err != nil {
				return nil, err
			}
			return out, nil
		case '[':
			out := make([]any, 0, 4)
			for dec.More() {
				value, err := readJSONValue(dec)
				if err != nil {
					return nil, err
				}
				out = append(out, value)
			}
			if _, err := dec.Token(); err != nil {
				return nil, err
			}
			return out, nil
		default:
			return nil, fmt.Errorf("unexpected delimiter %v", typed)
		}
	case json.Number:
		return typed.Float64()
	default:
		return typed, nil
	}
}

func decodeYAML(raw []byte) (any, error) {
	var doc yaml.Node
	if err := yaml.Unmarshal(raw, &doc); err != nil {
		return nil, fmt.Errorf("schemaform: decode schema: %w", err)
	}
	if doc.Kind == 0 || len(doc.Content) == 0 {
		return newObject(0), nil
	}
	c := &yamlConverter{expanding: make(map[*yaml.Node]struct{})}
	return c.convert(doc.Content[0])
}

// maxYAMLNodes caps the size of a YAML schema after alias expansion.
const maxYAMLNodes = 100000

// yamlConverter walks a yaml.Node tree. Aliases are expanded in place, so
// it rejects self-referencing anchors and documents that blow up past
// maxYAMLNodes.
type yamlConverter struct {
	expanding map[*yaml.Node]struct{}
	visited   int
}

func (c *yamlConverter) convert(node *yaml.Node) (any, error) {
	c.visited++
	if c.visited > maxYAMLNodes {
		return nil, fmt.Errorf("schemaform: decode schema: document expands past %d nodes", maxYAMLNodes)
	}

	switch node.Kind {
	case yaml.DocumentNode:
		if len(node.Content) == 0 {
			return nil, nil
		}
		return c.convert(node.Content[0])
	case yaml.AliasNode:
		if node.Alias == nil {
			return nil, fmt.Errorf("schemaform: dangling alias at line %d", node.Line)
		}
		if _, ok := c.expanding[node.Alias]; ok {
			return nil, fmt.Errorf("schemaform: decode schema: alias %q at line %d refers to itself", node.Value, node.Line)
		}
		c.expanding[node.Alias] = struct{}{}
		value, err := c.convert(node.Alias)
		delete(c.expanding, node.Alias)
		return value, err
	case yaml.MappingNode:
		out := newObject(len(node.Content) / 2)
		for idx := 0; idx+1 < len(node.Content); idx += 2 {
			keyNode, valueNode := node.Content[idx], node.Content[idx+1]
			if keyNode.Kind != yaml.ScalarNode {
				return nil, fmt.Errorf("schemaform: non-scalar key at line %d", keyNode.Line)
			}
			value, err := c.convert(valueNode)
			if err != nil {
				return nil, err
			}
			out.set(keyNode.Value, value)
		}
		return out, nil
	case yaml.SequenceNode:
		out := make([]any, 0, len(node.Content))
		for _, item := range node.Content {
			value, err := c.convert(item)
			if err != nil {
				return nil, err
			}
			out = append(out, value)
		}
		return out, nil
	case yaml.ScalarNode:
		return convertScalar(node)
	default:
		return nil, fmt.Errorf("schemaform: unsupported node kind %d at line %d", node.Kind, node.Line)
	}
}

func convertScalar(node *yaml.Node) (any, error) {
	switch node.ShortTag() {
	case "!!null":
		return nil, nil
	case "!!bool":
		var out bool
		if err := node.Decode(&out); err != nil {
			return nil, fmt.Errorf("schemaform: line %d: %w", node.Line, err)
		}
		return out, nil
	case "!!int", "!!float":
		var out float64
		if err := node.Decode(&out); err != nil {
			parsed, parseErr := strconv.ParseFloat(node.Value, 64)
			if parseErr != nil {
				return nil, fmt.Errorf("schemaform: line %d: %w", node.Line, err)
			}
			out = parsed
		}
		return out, nil
	default:
		return node.Value, nil
	}
}
