// Package workflows provides high-level orchestration for mucli commands.
//
// Workflows coordinate the config store, the key registry, the encryption
// engine and the audit log to implement complete user-facing features. Each
// workflow handles a single command's business logic, independent of CLI
// concerns like flag parsing, spinners, and output formatting.
//
// # Design Philosophy
//
// The cmd/ package should be a thin layer that:
//   - Parses command-line flags and arguments
//   - Calls the appropriate workflow function
//   - Formats the result for display
//
// Workflows handle everything else:
//   - Loading preferences and opening the config store
//   - Resolving target files and output paths
//   - Performing the core operation
//   - Recording audit trail entries
//
// # Available Workflows
//
//   - Encrypt: Adds one or more encryption layers to files
//   - Decrypt: Removes one or all encryption layers
//   - UpdateFileKeys: Rewraps files under the latest key version
//   - RotateKey: Appends a new key version to the registry
//   - PurgeKeys: Deletes every key from the registry
//   - KeyStatus: Reports the registered key versions
//   - Inspect: Reads the header of files
//   - Log: Reads the audit log
//
// # Error Handling
//
// Workflows return typed errors from the internal/errors package. Use
// errors.Is() to check for specific conditions:
//
//	result, err := workflows.Decrypt(ctx, opts)
//	if errors.Is(err, kerrors.ErrDecryptNotCryptedFile) {
//	    // Tell the user the file is not encrypted
//	}
//
// # Context Usage
//
// All workflow functions accept a context.Context as their first parameter.
// Multi-layer operations check it between layers.
package workflows
