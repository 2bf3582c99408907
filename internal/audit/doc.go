// Package audit records mucli operations in a local audit log.
//
// Every operation that changes a file or the key registry (encrypt, decrypt,
// rotate, purge, update) appends one entry. The log answers which files were
// wrapped with which key version, and when.
//
// # Log Format
//
// The audit log is stored as JSON Lines (one JSON object per line) at:
//
//	$XDG_DATA_HOME/mucli/audit.jsonl
//
// Each entry contains:
//   - A random id and a timestamp (RFC3339 with microseconds, UTC)
//   - The local username
//   - Operation name
//   - Operation-specific details (files, layers, key version)
//
// # Usage
//
//	entry := audit.LogWithUser("encrypt")
//	entry.Files = outputs
//	audit.Log(entry)
//
// # Failure Handling
//
// Audit logging is best-effort. If logging fails the operation continues
// without error.
//
// # Reading Logs
//
// Use ReadEntries() to parse the audit log. Malformed entries are silently
// skipped to handle partial writes.
package audit
