package workflows

import (
	"context"
	"errors"
	"fmt"

	"github.com/yatsu/mucli/internal/audit"
	"github.com/yatsu/mucli/internal/crypt"
	kerrors "github.com/yatsu/mucli/internal/errors"
	logger "github.com/yatsu/mucli/internal/logging"
)

// RotateKeyResult contains the outcome of a key rotation.
type RotateKeyResult struct {
	// Version is the newly appended key version.
	Version uint32
}

// RotateKey appends a new key version. Existing files keep their version
// until UpdateFileKeys rewraps them.
//
// Returns ErrKeyUpdateFailed if the registry is empty.
func RotateKey(ctx context.Context) (*RotateKeyResult, error) {
	s, err := openSession(logger.Logger{})
	if err != nil {
		return nil, err
	}

	version, err := s.registry.RotateKey()
	if err != nil {
		return nil, err
	}

	entry := audit.LogWithUser("rotate")
	entry.Version = audit.VersionOf(version)
	s.audit(entry)

	return &RotateKeyResult{Version: version}, nil
}

// PurgeKeysResult contains the outcome of a purge.
type PurgeKeysResult struct {
	Removed int
}

// PurgeKeys deletes every key. Files encrypted with them can no longer be
// decrypted.
func PurgeKeys(ctx context.Context) (*PurgeKeysResult, error) {
	s, err := openSession(logger.Logger{})
	if err != nil {
		return nil, err
	}

	removed, err := s.registry.PurgeKeys()
	if err != nil {
		return nil, err
	}

	entry := audit.LogWithUser("purge")
	entry.RemovedCount = removed
	s.audit(entry)

	return &PurgeKeysResult{Removed: removed}, nil
}

// KeyStatusResult describes the key registry.
type KeyStatusResult struct {
	ConfigPath string

	// Versions lists registered versions in ascending order.
	Versions []uint32

	// Latest is only meaningful when Versions is not empty.
	Latest uint32

	// Problem is set when the registry has gaps or malformed keys.
	Problem error
}

// KeyStatus reports the registered key versions.
//
// Returns ErrMalformedLine if a registry line cannot be parsed.
func KeyStatus(ctx context.Context) (*KeyStatusResult, error) {
	s, err := openSession(logger.Logger{})
	if err != nil {
		return nil, err
	}

	result := &KeyStatusResult{ConfigPath: s.store.Path()}

	exists, err := s.registry.Exists()
	if err != nil {
		return nil, err
	}
	if !exists {
		return result, nil
	}

	keys, err := s.registry.Keys()
	if err != nil {
		return nil, err
	}
	for _, k := range keys {
		result.Versions = append(result.Versions, k.Version)
	}
	if len(keys) > 0 {
		result.Latest = keys[len(keys)-1].Version
	}
	result.Problem = s.registry.Verify()

	return result, nil
}

// UpdateFileKeysOptions configures the update workflow.
type UpdateFileKeysOptions struct {
	Patterns []string
	BaseDir  string
	Progress ProgressFactory
	Log      logger.Logger
}

// UpdateFileKeysResult contains the outcome of an update.
type UpdateFileKeysResult struct {
	Updated []FileOutcome

	// Skipped lists files that were plaintext or already at the latest version.
	Skipped []string
}

// UpdateFileKeys rewraps every matched file under the latest key version,
// keeping its layer count.
//
// Returns ErrCannotUpdateLatest if no file needed an update.
func UpdateFileKeys(ctx context.Context, opts UpdateFileKeysOptions) (*UpdateFileKeysResult, error) {
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

	result := &UpdateFileKeysResult{}
	for _, file := range files {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		h, err := s.engine.UpdateFileEncryptionKey(ctx, file, opts.Progress.forFile(file))
		if errors.Is(err, kerrors.ErrCannotUpdateLatest) {
			s.log.Infof("Skipping %s: %v", file, err)
			result.Skipped = append(result.Skipped, file)
			continue
		}
		if err != nil {
			return nil, err
		}
		result.Updated = append(result.Updated, FileOutcome{Source: file, Output: file, Header: h})
	}

	if len(result.Updated) == 0 {
		return result, kerrors.ErrCannotUpdateLatest
	}

	entry := audit.LogWithUser("update")
	entry.Files = outputs(result.Updated)
	entry.Version = audit.VersionOf(result.Updated[0].Header.Version)
	s.audit(entry)

	return result, nil
}

// InspectOptions configures the inspect workflow.
type InspectOptions struct {
	Patterns []string
	BaseDir  string
}

// InspectedFile is the header of one file, or the reason it could not be read.
type InspectedFile struct {
	Path   string
	Header crypt.Header
	Err    error
}

// InspectResult lists the inspected files.
type InspectResult struct {
	Files []InspectedFile

	// LatestVersion is the newest registered version, if any.
	LatestVersion uint32
	HasKeys       bool
}

// Inspect reads the header of every matched file without decrypting.
func Inspect(ctx context.Context, opts InspectOptions) (*InspectResult, error) {
	s, err := openSession(logger.Logger{})
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

	result := &InspectResult{}
	latest, err := s.registry.LatestVersion()
	switch {
	case err == nil:
		result.LatestVersion = latest
		result.HasKeys = true
	case !errors.Is(err, kerrors.ErrNoVersionFound):
		return nil, err
	}

	for _, file := range files {
		h, err := s.engine.Inspect(file)
		result.Files = append(result.Files, InspectedFile{Path: file, Header: h, Err: err})
	}
	return result, nil
}
