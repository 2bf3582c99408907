package cmd

import (
	"github.com/spf13/cobra"

	"github.com/yatsu/mucli/internal/ui"
	"github.com/yatsu/mucli/internal/utils"
	"github.com/yatsu/mucli/internal/workflows"
)

var (
	encryptOutputDir string
	encryptCurrent   bool
	encryptSameFile  bool
	encryptTimes     int
	encryptUpdateKey bool
	encryptPurge     bool
)

func init() {
	encryptCmd.Flags().StringVar(&encryptOutputDir, "output-dir", "", "write encrypted files into this directory")
	encryptCmd.Flags().BoolVarP(&encryptCurrent, "cdir", "c", false, "write encrypted files into the current directory")
	encryptCmd.Flags().BoolVarP(&encryptSameFile, "sfile", "s", false, "replace the file content in place")
	encryptCmd.Flags().IntVarP(&encryptTimes, "times", "t", 0, "number of layers to add")
	encryptCmd.Flags().BoolVarP(&encryptUpdateKey, "ukey", "u", false, "rewrap files with the latest key, or add a key version when no file is given")
	encryptCmd.Flags().BoolVarP(&encryptPurge, "purge", "p", false, "delete every encryption key")
}

// resetEncryptCommandState resets the encrypt command's global state for testing.
func resetEncryptCommandState() {
	encryptOutputDir = ""
	encryptCurrent = false
	encryptSameFile = false
	encryptTimes = 0
	encryptUpdateKey = false
	encryptPurge = false
}

var encryptCmd = &cobra.Command{
	Use:   "encrypt [FILEPATH...]",
	Short: "Encrypts files with a versioned key",
	Long: `Encrypts files with the latest encryption key.

Every run adds a layer. The first run creates the key registry in the config
file. Without a file, --ukey adds a new key version and --purge deletes every
key.

Examples:
  mucli encrypt notes.txt               # writes enc.notes.txt
  mucli encrypt -s -t 3 notes.txt       # three layers, in place
  mucli encrypt --output-dir out "*.txt"
  mucli encrypt -u                      # add a new key version
  mucli encrypt -u enc.notes.txt        # rewrap with the latest key
  mucli encrypt -p                      # delete every key`,
	RunE: runEncrypt,
}

func runEncrypt(cmd *cobra.Command, args []string) error {
	Logger.Infof("Starting encrypt command")

	if len(args) == 0 {
		switch {
		case encryptUpdateKey:
			return runRotateKey()
		case encryptPurge:
			return runPurgeKeys()
		default:
			return cmd.Help()
		}
	}

	if encryptUpdateKey {
		return runUpdateFileKeys(args)
	}

	spinner, cleanup := startSpinner("Encrypting files...")
	defer cleanup()

	ctx, cancel := commandContext()
	defer cancel()

	result, err := workflows.Encrypt(ctx, workflows.EncryptOptions{
		Patterns: args,
		Destination: workflows.Destination{
			InPlace:    encryptSameFile,
			CurrentDir: encryptCurrent,
			OutputDir:  encryptOutputDir,
		},
		Times:    encryptTimes,
		Progress: layerProgress(spinner, "Encrypting"),
		Log:      Logger,
	})
	if err != nil {
		return finish(spinner, err)
	}

	Logger.Infof("Encrypted %d files", len(result.Files))

	msg := ""
	if result.KeyCreated {
		msg += ui.Info.Sprint("ℹ") + " Created encryption key " + ui.FormatVersion(0) + "\n"
	}

	var outputs []string
	for _, f := range result.Files {
		outputs = append(outputs, f.Output)
	}
	msg += ui.Succeeded("Encrypted with %s", utils.Plural(result.Layers, "layer")) + "\n" +
		"The following files were written: " + utils.FormatPaths(outputs)
	spinner.FinalMSG = msg
	return nil
}

func runRotateKey() error {
	spinner, cleanup := startSpinner("Adding encryption key...")
	defer cleanup()

	ctx, cancel := commandContext()
	defer cancel()

	result, err := workflows.RotateKey(ctx)
	if err != nil {
		return finish(spinner, err)
	}

	spinner.FinalMSG = ui.Succeeded("Encryption keys updated, latest is %s", ui.FormatVersion(result.Version)) + "\n" +
		ui.Hint("Run %s to move existing files to it", ui.Code.Sprint("mucli encrypt -u FILE"))
	return nil
}

func runPurgeKeys() error {
	spinner, cleanup := startSpinner("Purging encryption keys...")
	defer cleanup()

	ctx, cancel := commandContext()
	defer cancel()

	result, err := workflows.PurgeKeys(ctx)
	if err != nil {
		return finish(spinner, err)
	}

	spinner.FinalMSG = ui.Succeeded("Encryption keys purged (%s removed)", utils.Plural(result.Removed, "key")) + "\n" +
		ui.Warning.Sprint("⚠") + " Files encrypted with them can no longer be decrypted"
	return nil
}

func runUpdateFileKeys(args []string) error {
	spinner, cleanup := startSpinner("Updating file keys...")
	defer cleanup()

	ctx, cancel := commandContext()
	defer cancel()

	result, err := workflows.UpdateFileKeys(ctx, workflows.UpdateFileKeysOptions{
		Patterns: args,
		Progress: layerProgress(spinner, "Rewrapping"),
		Log:      Logger,
	})
	if err != nil {
		return finish(spinner, err)
	}

	var updated []string
	for _, f := range result.Updated {
		updated = append(updated, f.Output)
	}
	version := result.Updated[0].Header.Version

	msg := ui.Succeeded("Updated to key %s:", ui.FormatVersion(version)) + utils.FormatPaths(updated)
	if len(result.Skipped) > 0 {
		msg += ui.Muted.Sprint("skipped") + utils.FormatPaths(result.Skipped)
	}
	spinner.FinalMSG = msg
	return nil
}
