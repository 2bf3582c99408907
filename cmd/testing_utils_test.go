package cmd

import (
	"bytes"
	"io"
	"log"
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/cobra"

	"github.com/yatsu/mucli/internal/configs"
)

// setupTestEnvironment points mucli's config, preferences and audit log into
// a temp directory and changes into a fresh working directory.
func setupTestEnvironment(t *testing.T) string {
	t.Helper()
	root := t.TempDir()
	workDir := filepath.Join(root, "work")
	if err := os.MkdirAll(workDir, 0755); err != nil {
		t.Fatalf("Failed to create work directory: %v", err)
	}

	originalWd, err := os.Getwd()
	if err != nil {
		t.Fatalf("Failed to get working directory: %v", err)
	}
	if err := os.Chdir(workDir); err != nil {
		t.Fatalf("Failed to change to work directory: %v", err)
	}

	originalSettings := configs.UserMucliSettings
	configs.UserMucliSettings = &configs.UserSettings{
		ConfigFilePath:  filepath.Join(root, "home", "mucli_config.txt"),
		PreferencesPath: filepath.Join(root, "config", "preferences.toml"),
		AuditLogPath:    filepath.Join(root, "data", "audit.jsonl"),
		HomeDir:         filepath.Join(root, "home"),
		Username:        "testuser",
	}

	t.Setenv(configs.ConfigPathEnv, "")
	t.Setenv("NO_COLOR", "1")

	t.Cleanup(func() {
		if err := os.Chdir(originalWd); err != nil {
			t.Fatalf("Failed to change to original directory: %v", err)
		}
		configs.UserMucliSettings = originalSettings
		ResetGlobalState()
	})

	return workDir
}

// captureOutput captures both stdout and stderr during function execution.
func captureOutput(fn func() error) (string, error) {
	originalStdout := os.Stdout
	originalStderr := os.Stderr

	stdoutReader, stdoutWriter, _ := os.Pipe()
	stderrReader, stderrWriter, _ := os.Pipe()

	os.Stdout = stdoutWriter
	os.Stderr = stderrWriter

	stdoutChan := make(chan string, 1)
	stderrChan := make(chan string, 1)

	go func() {
		var buf bytes.Buffer
		if _, err := io.Copy(&buf, stdoutReader); err != nil {
			log.Fatalf("Failed to run copy command: %s", err)
		}
		stdoutChan <- buf.String()
	}()

	go func() {
		var buf bytes.Buffer
		if _, err := io.Copy(&buf, stderrReader); err != nil {
			log.Fatalf("Failed to run copy command: %s", err)
		}
		stderrChan <- buf.String()
	}()

	err := fn()

	stdoutWriter.Close()
	stderrWriter.Close()

	os.Stdout = originalStdout
	os.Stderr = originalStderr

	return <-stdoutChan + <-stderrChan, err
}

// createTestCLI creates a complete CLI instance for testing with the given arguments.
func createTestCLI(args ...string) *cobra.Command {
	ResetGlobalState()

	rootCmd := &cobra.Command{
		Use:           "mucli",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	Register(rootCmd)
	rootCmd.SetArgs(args)
	return rootCmd
}

// runCLI executes mucli with args and returns the captured output.
func runCLI(t *testing.T, args ...string) string {
	t.Helper()
	output, err := captureOutput(func() error {
		return createTestCLI(args...).Execute()
	})
	if err != nil {
		t.Fatalf("mucli %v failed unexpectedly: %v\noutput: %s", args, err, output)
	}
	return output
}

func writeTestFile(t *testing.T, path, content string) {
	t.Helper()
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("Failed to write %s: %v", path, err)
	}
}

func readTestFile(t *testing.T, path string) string {
	t.Helper()
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("Failed to read %s: %v", path, err)
	}
	return string(data)
}
