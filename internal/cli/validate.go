package cli

import (
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/goliatone/go-schemaform/pkg/schemaform"
)

type validationReport struct {
	Valid  bool                `json:"valid"`
	Errors map[string][]string `json:"errors,omitempty"`
	Param  any                 `json:"param,omitempty"`
}

func newValidateCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "validate <schema> <values>",
		Short: "Validate configuration values against a schema",
		Long: `Validate a JSON or YAML values file against the form built from the schema.
Prints the per-field errors and the normalized payload; exits non-zero when
any field is invalid.`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			fields, err := a.parseFields(cmd, args[0], "", "")
			if err != nil {
				return err
			}
			values, err := readValues(args[1])
			if err != nil {
				return err
			}

			result := schemaform.ValidateForm(fields, values)
			report := validationReport{Valid: result.Valid(), Param: result.Param}
			if !result.Valid() {
				report.Errors = result.Errors.ByField()
				report.Param = nil
				a.logger.Warn("validation failed", zap.Int("errors", len(result.Errors)))
			}
			if err := a.writeOutput(cmd.OutOrStdout(), report); err != nil {
				return err
			}
			if !result.Valid() {
				return fmt.Errorf("%w: %d field error(s)", ErrInvalid, len(result.Errors))
			}
			return nil
		},
	}
	return cmd
}
