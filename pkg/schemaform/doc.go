// Package schemaform turns a JSON Schema document plus a bag of current values
// into an ordered list of render-ready field descriptors, and validates
// submitted values against the same tree.
//
// The engine covers the subset of JSON Schema that agent configuration types
// use: objects, arrays, enums (with x-enumNames display labels), local $ref
// pointers, allOf/anyOf/oneOf (reduced to a single branch),
// additionalProperties maps and the usual numeric and string constraints.
//
// Both Parse and Validate are pure: trees are rebuilt on every call and inputs
// are never mutated.
package schemaform
