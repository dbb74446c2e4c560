package cli

import (
	"github.com/spf13/cobra"

	"github.com/goliatone/go-schemaform/internal/prompt"
)

func newFillCmd(a *app) *cobra.Command {
	var valuesPath string
	var attempts int

	cmd := &cobra.Command{
		Use:   "fill <schema>",
		Short: "Fill a configuration interactively",
		Long: `Prompt for every field of the schema, re-asking until each answer is valid,
then print the resulting configuration payload. Current values (--values)
are offered as prompt defaults.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			fields, err := a.parseFields(cmd, args[0], valuesPath, "")
			if err != nil {
				return err
			}

			driver := a.driver
			if driver == nil {
				driver = prompt.NewSurveyDriver(cmd.ErrOrStderr())
			}
			filler := prompt.New(prompt.WithDriver(driver), prompt.WithMaxAttempts(attempts))

			values, err := filler.Fill(cmd.Context(), fields)
			if err != nil {
				return err
			}
			return a.writeOutput(cmd.OutOrStdout(), values)
		},
	}
	cmd.Flags().StringVar(&valuesPath, "values", "", "JSON or YAML file with current values")
	cmd.Flags().IntVar(&attempts, "attempts", 3, "invalid answers accepted per field before giving up")
	return cmd
}
