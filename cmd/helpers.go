package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"os"
	"os/signal"
	"time"

	"github.com/briandowns/spinner"

	"github.com/yatsu/mucli/internal/configs"
	"github.com/yatsu/mucli/internal/crypt"
	kerrors "github.com/yatsu/mucli/internal/errors"
	"github.com/yatsu/mucli/internal/ui"
	"github.com/yatsu/mucli/internal/utils"
	"github.com/yatsu/mucli/internal/workflows"
)

// startSpinner creates and starts a spinner with the given message when not in
// verbose or debug mode and stdout is a terminal. Returns the spinner and a
// function that should be deferred to clean up.
//
// spinner.FinalMSG values do NOT need trailing newlines. The cleanup function
// prints the final message after the spinner line is cleared.
func startSpinner(message string) (*spinner.Spinner, func()) {
	Logger.Debugf("Starting spinner with message: %s", message)
	s := spinner.New(spinner.CharSets[14], 100*time.Millisecond)
	s.Suffix = " " + message

	if err := s.Color("cyan"); err != nil {
		Logger.Warnf("Failed to set spinner color: %v", err)
	}

	animate := !verbose && !debug && utils.IsTerminal()
	if animate {
		s.Start()
		log.SetOutput(io.Discard)
	} else {
		Logger.Infof("%s", message)
	}

	cleanup := func() {
		if animate {
			log.SetOutput(os.Stderr)
		}

		finalMsg := ""
		if s.FinalMSG != "" {
			finalMsg = ui.EnsureNewline(s.FinalMSG)
			// Clear FinalMSG so s.Stop() doesn't print it.
			s.FinalMSG = ""
		}

		if animate {
			s.Stop()
		}

		// Print final message to stdout (for tests to capture).
		if finalMsg != "" {
			fmt.Print(finalMsg)
		}
	}

	return s, cleanup
}

// layerProgress updates the spinner suffix after every layer.
func layerProgress(s *spinner.Spinner, verb string) workflows.ProgressFactory {
	return func(file string) crypt.Progress {
		return crypt.ProgressFunc(func(done, total int) {
			s.Lock()
			s.Suffix = fmt.Sprintf(" %s %s (%d/%d)", verb, ui.Path.Sprint(file), done, total)
			s.Unlock()
			Logger.Debugf("%s %s: layer %d/%d", verb, file, done, total)
		})
	}
}

// commandContext returns a context that is cancelled on interrupt.
func commandContext() (context.Context, context.CancelFunc) {
	return signal.NotifyContext(context.Background(), os.Interrupt)
}

// formatError renders a failure for display and reports whether it is
// unexpected and should surface as a command error.
func formatError(err error) (string, bool) {
	switch {
	case errors.Is(err, kerrors.ErrNoFilesFound), errors.Is(err, kerrors.ErrFileNotFound):
		return ui.Failure("%s", err.Error()) + "\n" +
			ui.Hint("Check the path, or quote glob patterns like %s", ui.Code.Sprint(`"**/*.txt"`)), false

	case errors.Is(err, kerrors.ErrCannotProcessEmptyFile):
		return ui.Failure("Cannot process an empty file"), false

	case errors.Is(err, kerrors.ErrDecryptNotCryptedFile):
		return ui.Failure("The file is not encrypted") + "\n" +
			ui.Hint("Run %s to encrypt it", ui.Code.Sprint("mucli encrypt")), false

	case errors.Is(err, kerrors.ErrCannotUpdateLatest):
		return ui.Failure("Nothing to update: files are plaintext or already use the latest key"), false

	case errors.Is(err, kerrors.ErrKeyUpdateFailed):
		return ui.Failure("No encryption key exists yet") + "\n" +
			ui.Hint("Run %s to create the first key", ui.Code.Sprint("mucli encrypt FILE")), false

	case errors.Is(err, kerrors.ErrNoKeyFound), errors.Is(err, kerrors.ErrKeyNotExist):
		return ui.Failure("The key for this file is missing: %s", err.Error()) + "\n" +
			ui.Hint("Run %s to list available key versions", ui.Code.Sprint("mucli keys status")), false

	case errors.Is(err, kerrors.ErrDecryptFailed):
		return ui.Failure("Failed to decrypt: %s", err.Error()) + "\n" +
			ui.Hint("The file may be corrupted or was encrypted with a different key"), false

	case errors.Is(err, kerrors.ErrInvalidFileContent):
		return ui.Failure("Invalid encrypted file: %s", err.Error()), false

	case errors.Is(err, kerrors.ErrMalformedLine):
		return ui.Failure("The config file is malformed: %s", err.Error()) + "\n" +
			ui.Hint("Check %s", ui.Path.Sprint(configs.ConfigFilePath(nil))), false

	case errors.Is(err, kerrors.ErrInvalidDateFormat):
		return ui.Failure("%s", err.Error()), false

	case errors.Is(err, context.Canceled):
		return ui.Failure("Interrupted") + "\n" +
			ui.Hint("Files are left at the last completed layer; run %s to check", ui.Code.Sprint("mucli keys inspect")), false

	default:
		return ui.Failure("%s", err.Error()), true
	}
}

// finish sets the spinner's final message for err and returns err only when
// it is unexpected.
func finish(s *spinner.Spinner, err error) error {
	msg, unexpected := formatError(err)
	s.FinalMSG = msg
	if unexpected {
		return err
	}
	return nil
}
