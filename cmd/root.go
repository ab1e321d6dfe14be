// Package cmd implements the widgets command line.
package cmd

import (
	"github.com/grovetools/widgets/cli"
	"github.com/grovetools/widgets/version"
	"github.com/spf13/cobra"
)

// NewRootCmd assembles the widgets command tree.
func NewRootCmd() *cobra.Command {
	root := cli.NewStandardCommand(
		"widgets",
		"Bind dashboard chart widgets to mounts and render them",
	)
	cli.SetVersionTemplate(root, version.GetInfo())

	root.AddCommand(NewRenderCmd())
	root.AddCommand(NewValidateCmd())
	root.AddCommand(NewSchemaCmd())
	root.AddCommand(NewWatchCmd())
	root.AddCommand(NewPreviewCmd())
	root.AddCommand(NewSeedCmd())
	root.AddCommand(cli.NewVersionCommand("widgets"))

	cli.ApplyStyledHelpRecursive(root)
	return root
}
