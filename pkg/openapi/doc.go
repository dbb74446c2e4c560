// Package openapi extracts agent configuration schemas from the OpenAPI
// document published by the agent backend. Each entry under
// components.schemas becomes a standalone JSON Schema that schemaform can
// parse: component refs are rewritten to "#/definitions/..." and every
// component is embedded under "definitions".
package openapi
