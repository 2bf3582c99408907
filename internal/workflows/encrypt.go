package workflows

import (
	"context"
	"fmt"

	"github.com/yatsu/mucli/internal/audit"
	"github.com/yatsu/mucli/internal/crypt"
	logger "github.com/yatsu/mucli/internal/logging"
)

// EncryptOptions configures the encrypt workflow.
type EncryptOptions struct {
	// Patterns lists files, directories or globs to encrypt.
	Patterns []string

	// BaseDir resolves relative patterns. Defaults to the working directory.
	BaseDir string

	Destination

	// Times is the number of layers to add. 0 uses the preferred default.
	Times int

	Progress ProgressFactory
	Log      logger.Logger
}

// EncryptResult contains the outcome of an encrypt operation.
type EncryptResult struct {
	Files []FileOutcome

	// Layers is the number of layers added to each file.
	Layers int

	// KeyCreated is true when the first key was generated by this run.
	KeyCreated bool
}

// Encrypt adds Times layers to every file matched by Patterns.
//
// The registry is initialized with version 0 on first use. Plaintext files
// are bound to the latest key version; crypted files keep their version.
//
// Returns ErrNoFilesFound if the patterns match nothing.
// Returns ErrCannotProcessEmptyFile for zero-byte files.
// Returns ErrKeyNotExist if a crypted file records an unknown version.
func Encrypt(ctx context.Context, opts EncryptOptions) (*EncryptResult, error) {
	s, err := openSession(opts.Log)
	if err != nil {
		return nil, err
	}

	created, err := s.registry.InitKey()
	if err != nil {
		return nil, fmt.Errorf("initializing encryption key: %w", err)
	}
	if created {
		s.log.Infof("Created encryption key version 0 in %s", s.store.Path())
	}

	dir, err := baseDir(opts.BaseDir)
	if err != nil {
		return nil, err
	}
	files, err := crypt.ResolveFiles(opts.Patterns, dir)
	if err != nil {
		return nil, fmt.Errorf("resolving file patterns: %w", err)
	}

	layers := opts.Times
	if layers <= 0 {
		layers = s.prefs.Encrypt.DefaultLayers
	}

	result := &EncryptResult{Layers: layers, KeyCreated: created}
	for _, file := range files {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		out, err := opts.encryptedPath(file, s.prefs.Naming.Prefix)
		if err != nil {
			return nil, err
		}

		var h crypt.Header
		if layers == 1 {
			h, err = s.engine.EncryptFile(file, out)
		} else {
			h, err = s.engine.EncryptFileTimes(ctx, file, out, layers, opts.Progress.forFile(file))
		}
		if err != nil {
			return nil, err
		}

		s.log.Infof("Encrypted %s to %s (layer %d, key version %d)", file, out, h.Layer, h.Version)
		result.Files = append(result.Files, FileOutcome{Source: file, Output: out, Header: h})
	}

	entry := audit.LogWithUser("encrypt")
	entry.Files = outputs(result.Files)
	entry.Layers = layers
	if len(result.Files) > 0 {
		entry.Version = audit.VersionOf(result.Files[len(result.Files)-1].Header.Version)
	}
	s.audit(entry)

	return result, nil
}

func outputs(files []FileOutcome) []string {
	out := make([]string, len(files))
	for i, f := range files {
		out[i] = f.Output
	}
	return out
}
