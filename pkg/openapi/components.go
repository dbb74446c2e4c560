package openapi

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/getkin/kin-openapi/openapi3"

	"github.com/goliatone/go-schemaform/pkg/schema"
)

const (
	componentRefPrefix  = `"#/components/schemas/`
	definitionRefPrefix = `"#/definitions/`
)

// Options configures document loading.
type Options struct {
	// Validate runs the kin-openapi document validator before extraction.
	Validate bool
}

// Extractor reads component schemas out of OpenAPI 3 documents.
type Extractor struct {
	options Options
}

// NewExtractor constructs an Extractor.
func NewExtractor(options Options) *Extractor {
	return &Extractor{options: options}
}

// ComponentNames lists the schema components in the document, sorted.
func (e *Extractor) ComponentNames(ctx context.Context, doc schema.Document) ([]string, error) {
	components, err := e.components(ctx, doc)
	if err != nil {
		return nil, err
	}
	names := make([]string, 0, len(components))
	for name := range components {
		names = append(names, name)
	}
	sort.Strings(names)
	return names, nil
}

// ComponentSchema returns the named component as standalone JSON Schema text.
func (e *Extractor) ComponentSchema(ctx context.Context, doc schema.Document, name string) ([]byte, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, errors.New("openapi: component name is required")
	}
	components, err := e.components(ctx, doc)
	if err != nil {
		return nil, err
	}
	target, ok := components[name]
	if !ok || target == nil {
		return nil, fmt.Errorf("openapi: component %q not found", name)
	}

	rootRaw, err := json.Marshal(target)
	if err != nil {
		return nil, fmt.Errorf("openapi: encode component %q: %w", name, err)
	}
	root := make(map[string]any)
	if err := json.Unmarshal(rootRaw, &root); err != nil {
		return nil, fmt.Errorf("openapi: encode component %q: %w", name, err)
	}

	definitions := make(map[string]json.RawMessage, len(components))
	for key, ref := range components {
		if ref == nil {
			continue
		}
		raw, err := json.Marshal(ref)
		if err != nil {
			return nil, fmt.Errorf("openapi: encode component %q: %w", key, err)
		}
		definitions[key] = raw
	}
	root["definitions"] = definitions

	out, err := json.Marshal(root)
	if err != nil {
		return nil, fmt.Errorf("openapi: encode schema: %w", err)
	}
	return bytes.ReplaceAll(out, []byte(componentRefPrefix), []byte(definitionRefPrefix)), nil
}

func (e *Extractor) components(ctx context.Context, doc schema.Document) (openapi3.Schemas, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	loader := &openapi3.Loader{
		Context:               ctx,
		IsExternalRefsAllowed: false,
	}
	spec, err := loader.LoadFromData(doc.Raw())
	if err != nil {
		return nil, fmt.Errorf("openapi: load document: %w", err)
	}
	if e != nil && e.options.Validate {
		if err := spec.Validate(ctx, openapi3.DisableExamplesValidation()); err != nil {
			return nil, fmt.Errorf("openapi: validate: %w", err)
		}
	}
	if spec.Components == nil || len(spec.Components.Schemas) == 0 {
		return nil, errors.New("openapi: document does not declare component schemas")
	}
	return spec.Components.Schemas, nil
}
