package commands

import (
	"os"

	"github.com/robgonnella/portprobe/internal/core"
	"github.com/robgonnella/portprobe/internal/logger"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// CommandProps injected props that can be made available to all commands
type CommandProps struct {
	Core *core.Core
}

// Root builds and returns our root command
func Root(props *CommandProps) *cobra.Command {
	var verbose bool
	var silent bool
	var logToFile bool
	var logFile *os.File

	cmd := &cobra.Command{
		Use:   "portprobe",
		Short: "Concurrent tcp port prober",
		// This runs before all commands and all sub-commands
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			// set logging verbosity for all loggers
			zerolog.SetGlobalLevel(zerolog.InfoLevel)

			if verbose {
				zerolog.SetGlobalLevel(zerolog.DebugLevel)
			}

			if silent {
				zerolog.SetGlobalLevel(zerolog.Disabled)
			}

			if logToFile {
				file, err := logger.GlobalSetLogFile(viper.GetString("log-file"))

				if err != nil {
					return err
				}

				logFile = file
			}

			return nil
		},
		PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
			if logFile == nil {
				return nil
			}

			err := logFile.Close()
			logFile = nil

			return err
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
	}

	// Persistent flags available to all commands
	cmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Show debug logs")
	cmd.PersistentFlags().BoolVar(&silent, "silent", false, "disables all logging")
	cmd.PersistentFlags().BoolVar(&logToFile, "log-to-file", false, "write logs to the log file instead of stderr")

	cmd.AddCommand(scan(props))
	cmd.AddCommand(profile(props))
	cmd.AddCommand(version())
	cmd.AddCommand(clean())

	return cmd
}
