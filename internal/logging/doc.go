// Package logger provides leveled console logging for mucli commands.
//
// Verbosity is controlled by two persistent flags:
//
//   - --verbose: shows info messages
//   - --debug: shows info and debug messages
//
// Warnings and errors are always written to stderr.
//
// Commands build a Logger in the root PersistentPreRun and hand it to the
// workflows and the encryption engine:
//
//	log := Logger{Verbose: verbose, Debug: debug}
//	log.Infof("Encrypting %d files", count)
package logger
