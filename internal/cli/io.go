package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"

	"github.com/goliatone/go-schemaform/internal/config"
	"github.com/goliatone/go-schemaform/internal/loader"
	"github.com/goliatone/go-schemaform/pkg/schema"
)

// loadDocument resolves a schema argument ("-" reads stdin) through the
// configured loader.
func (a *app) loadDocument(ctx context.Context, cmd *cobra.Command, arg string) (schema.Document, error) {
	src, err := schema.SourceFromArg(arg)
	if err != nil {
		return schema.Document{}, err
	}

	var extra []schema.LoaderOption
	if src.Kind() == schema.SourceKindInline {
		raw, err := io.ReadAll(cmd.InOrStdin())
		if err != nil {
			return schema.Document{}, fmt.Errorf("cli: read stdin: %w", err)
		}
		extra = append(extra, schema.WithInline(src.Location(), raw))
	}

	a.logger.Debug("loading schema", zap.String("kind", string(src.Kind())), zap.String("location", src.Location()))
	doc, err := loader.New(a.cfg.LoaderOptions(extra...)).Load(ctx, src)
	if err != nil {
		return schema.Document{}, err
	}
	a.logger.Debug("schema loaded", zap.Int("bytes", len(doc.Raw())))
	return doc, nil
}

// readValues decodes a JSON or YAML object from path. An empty path yields
// nil. JSON goes through encoding/json since yaml.v3 rejects some JSON
// escapes such as "\/".
func readValues(path string) (map[string]any, error) {
	if path == "" {
		return nil, nil
	}
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("cli: read values: %w", err)
	}
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 {
		return map[string]any{}, nil
	}
	var values map[string]any
	if trimmed[0] == '{' {
		if err := json.Unmarshal(trimmed, &values); err != nil {
			return nil, fmt.Errorf("cli: decode values %s: %w", path, err)
		}
		return values, nil
	}
	if err := yaml.Unmarshal(raw, &values); err != nil {
		return nil, fmt.Errorf("cli: decode values %s: %w", path, err)
	}
	return values, nil
}

// writeOutput prints v in the configured format. YAML goes through the JSON
// encoding so both formats share the same field names.
func (a *app) writeOutput(w io.Writer, v any) error {
	raw, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("cli: encode output: %w", err)
	}
	if a.cfg.Output != config.OutputYAML {
		_, err = fmt.Fprintln(w, string(raw))
		return err
	}

	var generic any
	if err := yaml.Unmarshal(raw, &generic); err != nil {
		return fmt.Errorf("cli: encode output: %w", err)
	}
	out, err := yaml.Marshal(generic)
	if err != nil {
		return fmt.Errorf("cli: encode output: %w", err)
	}
	_, err = w.Write(out)
	return err
}
