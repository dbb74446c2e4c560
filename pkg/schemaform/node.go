package schemaform

// Resolved node kinds. A Node always carries exactly one of these (or the
// raw type string of a schema the engine does not interpret).
const (
	TypeObject  = "object"
	TypeArray   = "array"
	TypeString  = "string"
	TypeNumber  = "number"
	TypeInteger = "integer"
	TypeBoolean = "boolean"
	TypeFile    = "file"
	TypeNull    = "null"
	TypeAny     = "any"
)

// AdditionalPropertiesName names the sentinel child that stands for the
// free-form entries of an additionalProperties map.
const AdditionalPropertiesName = "[[additionalProperties]]"

// Node is a schema fragment resolved against its root document and bound to
// the value currently stored for it.
type Node struct {
	Type     string `json:"type,omitempty"`
	Nullable bool   `json:"nullable,omitempty"`
	Required bool   `json:"required,omitempty"`

	Title       string `json:"title,omitempty"`
	Description string `json:"description,omitempty"`
	Format      string `json:"format,omitempty"`
	Default     any    `json:"default,omitempty"`

	Enum      []any `json:"enum,omitempty"`
	EnumNames []any `json:"x-enumNames,omitempty"`

	Minimum   *float64 `json:"minimum,omitempty"`
	Maximum   *float64 `json:"maximum,omitempty"`
	MinLength *int     `json:"minLength,omitempty"`
	MaxLength *int     `json:"maxLength,omitempty"`
	Pattern   string   `json:"pattern,omitempty"`

	// Children lists object properties in document order. A nil slice means
	// the object declares no structure; an empty slice means it declares
	// that no keys are allowed.
	Children []Field `json:"children,omitempty"`
	// Items is the element schema of an array.
	Items *Node `json:"itemsSchema,omitempty"`

	// Ref is set when a $ref could not be resolved and the node degraded to
	// a passthrough.
	Ref string `json:"$ref,omitempty"`

	Extensions map[string]any `json:"extensions,omitempty"`
	// Keywords holds the raw fragment of a passthrough node as plain maps,
	// for consumers that need keywords the engine does not model.
	Keywords map[string]any `json:"-"`

	Value any `json:"value,omitempty"`
}

// Field pairs a property name with its node.
type Field struct {
	Name       string `json:"name"`
	Additional bool   `json:"additional,omitempty"`
	Node       *Node  `json:"schema"`
}

// Child returns the explicit property named name.
func (n *Node) Child(name string) (*Node, bool) {
	if n == nil {
		return nil, false
	}
	for _, child := range n.Children {
		if !child.Additional && child.Name == name {
			return child.Node, true
		}
	}
	return nil, false
}

// AdditionalProperties returns the per-entry schema of a free-form map.
func (n *Node) AdditionalProperties() (*Node, bool) {
	if n == nil {
		return nil, false
	}
	for _, child := range n.Children {
		if child.Additional {
			return child.Node, true
		}
	}
	return nil, false
}

// hasExplicitChildren reports whether the node lists its properties, as
// opposed to being unstructured or a free-form map.
func (n *Node) hasExplicitChildren() bool {
	if n == nil || n.Children == nil {
		return false
	}
	for _, child := range n.Children {
		if child.Additional {
			return false
		}
	}
	return true
}
