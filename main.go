package main

import (
	"fmt"
	"os"

	"github.com/common-nighthawk/go-figure"
	"github.com/spf13/cobra"

	"github.com/yatsu/mucli/cmd"
	"github.com/yatsu/mucli/internal/ui"
)

var rootCmd = &cobra.Command{
	Use:   "mucli",
	Short: "mucli - layered, versioned file encryption.",
	Long: `mucli encrypts files with keys kept in a local config file.

Features:
  - Stack several encryption layers on a file
  - Rotate to a new key version and rewrap existing files
  - Keep an audit log of every operation

Usage:
  mucli <command> [flags]

Run 'mucli help <command>' for more details on a specific command.
`,
	Run: func(c *cobra.Command, args []string) {
		banner := figure.NewColorFigure("mucli", "standard", "cyan", true)
		banner.Print()
		fmt.Println()
		fmt.Println(ui.Hint("Run %s to see available commands", ui.Code.Sprint("mucli --help")))
	},
}

func main() {
	cmd.Register(rootCmd)
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
