package cmd

import (
	"fmt"

	"github.com/grovetools/widgets/config"
	"github.com/grovetools/widgets/schema"
	"github.com/spf13/cobra"
)

// NewSchemaCmd creates the schema command.
func NewSchemaCmd() *cobra.Command {
	var embedded bool

	cmd := &cobra.Command{
		Use:   "schema",
		Short: "Print the JSON Schema for widgets.yml",
		RunE: func(cmd *cobra.Command, args []string) error {
			if embedded {
				fmt.Fprintln(cmd.OutOrStdout(), string(schema.Embedded()))
				return nil
			}
			data, err := config.GenerateSchema()
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), string(data))
			return nil
		},
	}
	cmd.Flags().BoolVar(&embedded, "embedded", false, "Print the schema used for validation instead of the generated one")
	return cmd
}
