// Package utils provides shared utility functions for mucli.
//
// # System Utilities
//
//   - GetUsername: returns the current system username
//
// # String Utilities
//
//   - FormatPaths: formats file paths for human-readable output
//   - Plural: renders a count with a singular or plural noun
//
// # Terminal Utilities
//
//   - IsTerminal: checks if stdout is a terminal
package utils
