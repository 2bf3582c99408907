package crypt

import (
	"context"
	"fmt"

	kerrors "github.com/yatsu/mucli/internal/errors"
)

// offsetProgress shifts the steps of one phase into a larger total.
type offsetProgress struct {
	inner  Progress
	offset int
	total  int
}

func (p offsetProgress) Step(done, _ int) {
	p.inner.Step(p.offset+done, p.total)
}

// UpdateFileEncryptionKey rewraps the file at path under the latest key
// version. The file keeps its layer count and plaintext. Plaintext files and
// files already at the latest version fail with ErrCannotUpdateLatest.
func (e *Engine) UpdateFileEncryptionKey(ctx context.Context, path string, progress Progress) (Header, error) {
	progress = orNoProgress(progress)

	start, err := e.Inspect(path)
	if err != nil {
		return Header{}, err
	}
	if !start.Crypted() {
		return start, fmt.Errorf("%s is not encrypted: %w", path, kerrors.ErrCannotUpdateLatest)
	}

	latest, err := e.keys.LatestVersion()
	if err != nil {
		return start, err
	}
	if start.Version == latest {
		return start, fmt.Errorf("%s uses key version %d: %w", path, latest, kerrors.ErrCannotUpdateLatest)
	}

	layers := int(start.Layer)
	total := 2 * layers
	e.log.Infof("Rotating %s from key version %d to %d", path, start.Version, latest)

	h, err := e.DecryptFileEntirely(ctx, path, path, offsetProgress{inner: progress, total: total})
	if err != nil {
		return h, fmt.Errorf("unwrapping %s: %w", path, err)
	}

	h, err = e.EncryptFileTimes(ctx, path, path, layers, offsetProgress{inner: progress, offset: layers, total: total})
	if err != nil {
		return h, fmt.Errorf("rewrapping %s: %w", path, err)
	}
	return h, nil
}
