package cmd

import (
	"github.com/spf13/cobra"

	logger "github.com/yatsu/mucli/internal/logging"
)

var (
	verbose bool
	debug   bool
	Logger  logger.Logger
)

// Register attaches the mucli commands and the persistent --verbose and
// --debug flags to root.
func Register(root *cobra.Command) {
	root.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable verbose output")
	root.PersistentFlags().BoolVarP(&debug, "debug", "d", false, "enable debug output")

	root.PersistentPreRun = func(cmd *cobra.Command, args []string) {
		Logger = logger.Logger{
			Verbose: verbose,
			Debug:   debug,
		}
		Logger.Debugf("Running %s with verbose=%t, debug=%t", cmd.CommandPath(), verbose, debug)
	}

	root.AddCommand(encryptCmd)
	root.AddCommand(decryptCmd)
	root.AddCommand(keysCmd)
	root.AddCommand(logCmd)
}

// ResetGlobalState resets all global variables to their default values for testing.
func ResetGlobalState() {
	verbose = false
	debug = false
	Logger = logger.Logger{}
	resetEncryptCommandState()
	resetDecryptCommandState()
	resetLogCommandState()
}
