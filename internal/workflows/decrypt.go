package workflows

import (
	"context"
	"fmt"

	"github.com/yatsu/mucli/internal/audit"
	"github.com/yatsu/mucli/internal/crypt"
	logger "github.com/yatsu/mucli/internal/logging"
)

// DecryptOptions configures the decrypt workflow.
type DecryptOptions struct {
	Patterns []string
	BaseDir  string

	Destination

	// Entirely removes every layer instead of the outermost one.
	Entirely bool

	Progress ProgressFactory
	Log      logger.Logger
}

// DecryptResult contains the outcome of a decrypt operation.
type DecryptResult struct {
	Files []FileOutcome

	// Removed is the number of layers removed from each file, in order.
	Removed []int
}

// Decrypt removes the outermost layer, or every layer with Entirely, from
// each file matched by Patterns.
//
// Returns ErrDecryptNotCryptedFile when a single layer is requested from a
// plaintext file.
// Returns ErrNoKeyFound or ErrKeyNotExist when the file's key is gone.
// Returns ErrDecryptFailed when a layer does not authenticate.
func Decrypt(ctx context.Context, opts DecryptOptions) (*DecryptResult, error) {
	s, err := openSession(opts.Log)
	if err != nil {
		return nil, err
	}

	dir, err := baseDir(opts.BaseDir)
	if err != nil {
		return nil, err
	}
	files, err := crypt.ResolveFiles(opts.Patterns, dir)
	if err != nil {
		return nil, fmt.Errorf("resolving file patterns: %w", err)
	}

	result := &DecryptResult{}
	for _, file := range files {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		out, err := opts.decryptedPath(file, s.prefs.Naming.Prefix)
		if err != nil {
			return nil, err
		}

		before, err := s.engine.Inspect(file)
		if err != nil {
			return nil, err
		}

		var h crypt.Header
		if opts.Entirely {
			h, err = s.engine.DecryptFileEntirely(ctx, file, out, opts.Progress.forFile(file))
		} else {
			h, err = s.engine.DecryptFile(file, out)
		}
		if err != nil {
			return nil, err
		}

		s.log.Infof("Decrypted %s to %s (layer %d left)", file, out, h.Layer)
		result.Files = append(result.Files, FileOutcome{Source: file, Output: out, Header: h})
		result.Removed = append(result.Removed, int(before.Layer-h.Layer))
	}

	entry := audit.LogWithUser("decrypt")
	entry.Files = outputs(result.Files)
	if !opts.Entirely {
		entry.Layers = 1
	}
	s.audit(entry)

	return result, nil
}
