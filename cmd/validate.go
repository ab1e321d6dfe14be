package cmd

import (
	"fmt"

	"github.com/grovetools/widgets/cli"
	"github.com/grovetools/widgets/tui/theme"
	"github.com/spf13/cobra"
)

// NewValidateCmd creates the validate command.
func NewValidateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "validate",
		Short: "Validate widgets.yml against the schema and semantic rules",
		RunE: func(cmd *cobra.Command, args []string) error {
			opts := cli.GetOptions(cmd)
			cfg, err := cli.LoadConfig(opts)
			if err != nil {
				return err
			}

			path := cfg.Path()
			if opts.JSONOutput {
				fmt.Fprintf(cmd.OutOrStdout(), "{\"valid\": true, \"path\": %q, \"widgets\": %d}\n", path, len(cfg.Widgets))
				return nil
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s %s (%d widgets)\n",
				theme.DefaultTheme.Accent.Render("✓"), path, len(cfg.Widgets))
			return nil
		},
	}
}
