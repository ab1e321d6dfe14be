package cli

import (
	"github.com/grovetools/widgets/config"
	"github.com/grovetools/widgets/logging"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

// CommandOptions holds common options for widgets commands
type CommandOptions struct {
	ConfigFile string
	Verbose    bool
	JSONOutput bool
}

// NewStandardCommand creates a new command with the standard flags
func NewStandardCommand(use, short string) *cobra.Command {
	cmd := &cobra.Command{
		Use:           use,
		Short:         short,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	cmd.PersistentFlags().BoolP("verbose", "v", false, "Enable verbose logging")
	cmd.PersistentFlags().Bool("json", false, "Output in JSON format")
	cmd.PersistentFlags().StringP("config", "c", "", "Path to widgets.yml config file")

	SetStyledHelp(cmd)

	return cmd
}

// GetLogger returns the cli component logger adjusted for the command flags
func GetLogger(cmd *cobra.Command) *logrus.Entry {
	entry := logging.NewLogger("cli")

	verbose, _ := cmd.Flags().GetBool("verbose")
	if verbose {
		entry.Logger.SetLevel(logrus.DebugLevel)
	}

	jsonOutput, _ := cmd.Flags().GetBool("json")
	if jsonOutput {
		entry.Logger.SetFormatter(&logrus.JSONFormatter{})
	}

	return entry
}

// GetOptions extracts common options from a command
func GetOptions(cmd *cobra.Command) CommandOptions {
	configFile, _ := cmd.Flags().GetString("config")
	verbose, _ := cmd.Flags().GetBool("verbose")
	jsonOutput, _ := cmd.Flags().GetBool("json")

	return CommandOptions{
		ConfigFile: configFile,
		Verbose:    verbose,
		JSONOutput: jsonOutput,
	}
}

// LoadConfig loads the file named by --config, or discovers one from the
// current directory.
func LoadConfig(opts CommandOptions) (*config.Config, error) {
	if opts.ConfigFile != "" {
		return config.Load(opts.ConfigFile)
	}
	return config.LoadDefault()
}
