package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/goliatone/go-schemaform/pkg/openapi"
	"github.com/goliatone/go-schemaform/pkg/schema"
	"github.com/goliatone/go-schemaform/pkg/schemaform"
)

func newOpenAPICmd(a *app) *cobra.Command {
	var validateDoc bool

	cmd := &cobra.Command{
		Use:   "openapi",
		Short: "Work with agent schemas published as OpenAPI components",
	}
	cmd.PersistentFlags().BoolVar(&validateDoc, "validate-doc", false, "validate the OpenAPI document before reading it")

	list := &cobra.Command{
		Use:   "list <document>",
		Short: "List the component schemas of an OpenAPI document",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			doc, err := a.loadDocument(cmd.Context(), cmd, args[0])
			if err != nil {
				return err
			}
			names, err := openapi.NewExtractor(openapi.Options{Validate: validateDoc}).ComponentNames(cmd.Context(), doc)
			if err != nil {
				return err
			}
			for _, name := range names {
				fmt.Fprintln(cmd.OutOrStdout(), name)
			}
			return nil
		},
	}

	var asFields bool
	extract := &cobra.Command{
		Use:   "extract <document> <component>",
		Short: "Print a component as a standalone JSON Schema",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			doc, err := a.loadDocument(cmd.Context(), cmd, args[0])
			if err != nil {
				return err
			}
			raw, err := openapi.NewExtractor(openapi.Options{Validate: validateDoc}).ComponentSchema(cmd.Context(), doc, args[1])
			if err != nil {
				return err
			}
			if !asFields {
				_, err = fmt.Fprintln(cmd.OutOrStdout(), string(raw))
				return err
			}

			component, err := schema.NewDocument(schema.SourceInline(args[1]), raw)
			if err != nil {
				return err
			}
			fields, err := schemaform.ParseDocument(component, nil, nil, a.cfg.ParseOptions()...)
			if err != nil {
				return err
			}
			return a.writeOutput(cmd.OutOrStdout(), fields)
		},
	}
	extract.Flags().BoolVar(&asFields, "fields", false, "print the parsed form fields instead of the schema")

	cmd.AddCommand(list, extract)
	return cmd
}
