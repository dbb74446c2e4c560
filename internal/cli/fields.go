package cli

import (
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/goliatone/go-schemaform/pkg/schemaform"
)

func newFieldsCmd(a *app) *cobra.Command {
	var valuesPath, defaultsPath string

	cmd := &cobra.Command{
		Use:   "fields <schema>",
		Short: "Print the form fields of a configuration schema",
		Long: `Parse a JSON Schema (file, URL or "-" for stdin) into its ordered form
fields, binding current values and defaults when given.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			fields, err := a.parseFields(cmd, args[0], valuesPath, defaultsPath)
			if err != nil {
				return err
			}
			return a.writeOutput(cmd.OutOrStdout(), fields)
		},
	}
	cmd.Flags().StringVar(&valuesPath, "values", "", "JSON or YAML file with current values")
	cmd.Flags().StringVar(&defaultsPath, "defaults", "", "JSON or YAML file with default values")
	return cmd
}

func (a *app) parseFields(cmd *cobra.Command, schemaArg, valuesPath, defaultsPath string) ([]schemaform.Field, error) {
	values, err := readValues(valuesPath)
	if err != nil {
		return nil, err
	}
	defaults, err := readValues(defaultsPath)
	if err != nil {
		return nil, err
	}
	doc, err := a.loadDocument(cmd.Context(), cmd, schemaArg)
	if err != nil {
		return nil, err
	}

	fields, err := schemaform.ParseDocument(doc, values, defaults, a.cfg.ParseOptions()...)
	if err != nil {
		return nil, err
	}
	a.logger.Debug("schema parsed", zap.Int("fields", len(fields)))
	return fields, nil
}
