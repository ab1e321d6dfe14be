package main

import (
	"os"

	"github.com/grovetools/widgets/cli"
	"github.com/grovetools/widgets/cmd"
)

func main() {
	rootCmd := cmd.NewRootCmd()

	if err := rootCmd.Execute(); err != nil {
		verbose, _ := rootCmd.PersistentFlags().GetBool("verbose")
		_ = cli.NewErrorHandler(verbose, os.Stderr).Handle(err)
		os.Exit(1)
	}
}
