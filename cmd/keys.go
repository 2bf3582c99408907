package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/yatsu/mucli/internal/ui"
	"github.com/yatsu/mucli/internal/utils"
	"github.com/yatsu/mucli/internal/workflows"
)

var keysCmd = &cobra.Command{
	Use:   "keys",
	Short: "Inspect encryption keys and encrypted files",
}

var keysStatusCmd = &cobra.Command{
	Use:   "status",
	Short: "Shows the registered key versions",
	Args:  cobra.NoArgs,
	RunE:  runKeysStatus,
}

var keysInspectCmd = &cobra.Command{
	Use:   "inspect FILE...",
	Short: "Shows the layer count and key version of files",
	Args:  cobra.MinimumNArgs(1),
	RunE:  runKeysInspect,
}

func init() {
	keysCmd.AddCommand(keysStatusCmd)
	keysCmd.AddCommand(keysInspectCmd)
}

func runKeysStatus(cmd *cobra.Command, args []string) error {
	Logger.Infof("Starting keys status command")

	spinner, cleanup := startSpinner("Reading key registry...")
	defer cleanup()

	ctx, cancel := commandContext()
	defer cancel()

	result, err := workflows.KeyStatus(ctx)
	if err != nil {
		return finish(spinner, err)
	}

	msg := "Config file: " + ui.Path.Sprint(result.ConfigPath) + "\n"
	if len(result.Versions) == 0 {
		spinner.FinalMSG = msg + ui.Info.Sprint("ℹ") + " No encryption key yet\n" +
			ui.Hint("Run %s to create one", ui.Code.Sprint("mucli encrypt FILE"))
		return nil
	}

	versions := make([]string, len(result.Versions))
	for i, v := range result.Versions {
		versions[i] = ui.FormatVersion(v)
	}
	msg += fmt.Sprintf("Keys: %s (%s)\n", strings.Join(versions, ", "), utils.Plural(len(versions), "version"))
	msg += "Latest: " + ui.FormatVersion(result.Latest) + "\n"

	if result.Problem != nil {
		msg += ui.Warning.Sprint("⚠") + " " + result.Problem.Error()
	} else {
		msg += ui.Succeeded("Registry is consistent")
	}
	spinner.FinalMSG = msg
	return nil
}

func runKeysInspect(cmd *cobra.Command, args []string) error {
	Logger.Infof("Starting keys inspect command")

	spinner, cleanup := startSpinner("Inspecting files...")
	defer cleanup()

	ctx, cancel := commandContext()
	defer cancel()

	result, err := workflows.Inspect(ctx, workflows.InspectOptions{Patterns: args})
	if err != nil {
		return finish(spinner, err)
	}

	var b strings.Builder
	for _, f := range result.Files {
		b.WriteString(ui.Path.Sprint(f.Path))
		b.WriteString(": ")
		switch {
		case f.Err != nil:
			b.WriteString(ui.Error.Sprint(f.Err.Error()))
		case !f.Header.Crypted():
			b.WriteString("plaintext")
		default:
			b.WriteString(fmt.Sprintf("%s, key %s", ui.Layer.Sprint(utils.Plural(int(f.Header.Layer), "layer")), ui.FormatVersion(f.Header.Version)))
			if result.HasKeys && f.Header.Version != result.LatestVersion {
				b.WriteString(" " + ui.Muted.Sprintf("latest is %s", ui.FormatVersion(result.LatestVersion)))
			}
		}
		b.WriteString("\n")
	}
	spinner.FinalMSG = b.String()
	return nil
}
