package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/yatsu/mucli/internal/ui"
	"github.com/yatsu/mucli/internal/utils"
	"github.com/yatsu/mucli/internal/workflows"
)

var (
	decryptOutputDir string
	decryptCurrent   bool
	decryptSameFile  bool
	decryptEntirely  bool
)

func init() {
	decryptCmd.Flags().StringVar(&decryptOutputDir, "output-dir", "", "write decrypted files into this directory")
	decryptCmd.Flags().BoolVarP(&decryptCurrent, "cdir", "c", false, "write decrypted files into the current directory")
	decryptCmd.Flags().BoolVarP(&decryptSameFile, "sfile", "s", false, "replace the file content in place")
	decryptCmd.Flags().BoolVarP(&decryptEntirely, "entirely", "e", false, "remove every layer")
}

// resetDecryptCommandState resets the decrypt command's global state for testing.
func resetDecryptCommandState() {
	decryptOutputDir = ""
	decryptCurrent = false
	decryptSameFile = false
	decryptEntirely = false
}

var decryptCmd = &cobra.Command{
	Use:   "decrypt FILEPATH...",
	Short: "Decrypts files encrypted by mucli",
	Long: `Removes the outermost encryption layer, or every layer with --entirely.

Output names drop the enc. prefix.

Examples:
  mucli decrypt enc.notes.txt           # writes notes.txt
  mucli decrypt -s -e notes.txt         # fully restore in place`,
	Args: cobra.MinimumNArgs(1),
	RunE: runDecrypt,
}

func runDecrypt(cmd *cobra.Command, args []string) error {
	Logger.Infof("Starting decrypt command")

	spinner, cleanup := startSpinner("Decrypting files...")
	defer cleanup()

	ctx, cancel := commandContext()
	defer cancel()

	result, err := workflows.Decrypt(ctx, workflows.DecryptOptions{
		Patterns: args,
		Destination: workflows.Destination{
			InPlace:    decryptSameFile,
			CurrentDir: decryptCurrent,
			OutputDir:  decryptOutputDir,
		},
		Entirely: decryptEntirely,
		Progress: layerProgress(spinner, "Decrypting"),
		Log:      Logger,
	})
	if err != nil {
		return finish(spinner, err)
	}

	var lines []string
	for i, f := range result.Files {
		state := "fully decrypted"
		if f.Header.Crypted() {
			state = fmt.Sprintf("%s left", utils.Plural(int(f.Header.Layer), "layer"))
		}
		lines = append(lines, fmt.Sprintf("%s %s", f.Output, ui.Muted.Sprintf("%s removed, %s", utils.Plural(result.Removed[i], "layer"), state)))
	}

	Logger.Infof("Decrypted %d files", len(result.Files))
	spinner.FinalMSG = ui.Succeeded("Files decrypted successfully!") + "\n" +
		"The following files were written: " + utils.FormatPaths(lines)
	return nil
}
