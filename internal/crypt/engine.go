package crypt

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"math"
	"os"
	"path/filepath"

	kerrors "github.com/yatsu/mucli/internal/errors"
	logger "github.com/yatsu/mucli/internal/logging"
)

// KeySource looks up keys by version.
type KeySource interface {
	LatestVersion() (uint32, error)
	NthKey(index uint32) ([]byte, error)
}

// Progress receives the number of completed layer steps.
type Progress interface {
	Step(done, total int)
}

// ProgressFunc adapts a function to Progress.
type ProgressFunc func(done, total int)

func (f ProgressFunc) Step(done, total int) {
	f(done, total)
}

type noProgress struct{}

func (noProgress) Step(int, int) {}

func orNoProgress(p Progress) Progress {
	if p == nil {
		return noProgress{}
	}
	return p
}

type Engine struct {
	keys   KeySource
	cipher Cipher
	log    logger.Logger
}

// NewEngine returns an engine using keys. A nil cipher selects SecretBox.
func NewEngine(keys KeySource, cipher Cipher, log logger.Logger) *Engine {
	if cipher == nil {
		cipher = SecretBox{}
	}
	return &Engine{keys: keys, cipher: cipher, log: log}
}

// EncryptBytes adds one layer to data.
func (e *Engine) EncryptBytes(data []byte) (Header, []byte, error) {
	if len(data) == 0 {
		return Header{}, nil, kerrors.ErrCannotProcessEmptyFile
	}

	h, err := ParseHeader(data)
	if err != nil {
		return Header{}, nil, err
	}
	if h.Layer == math.MaxUint32 {
		return Header{}, nil, fmt.Errorf("%w: layer count is at its maximum", kerrors.ErrInvalidFileContent)
	}

	// Plaintext binds to the newest key. A crypted file keeps its version so
	// every layer opens with the same key.
	if !h.Crypted() {
		h.Version, err = e.keys.LatestVersion()
		if err != nil {
			return Header{}, nil, err
		}
	}

	key, err := e.keys.NthKey(h.Version)
	if err != nil {
		return Header{}, nil, err
	}

	sealed, err := e.cipher.Seal(StripHeader(data, h), key)
	if err != nil {
		return Header{}, nil, err
	}

	next := Header{Version: h.Version, Layer: h.Layer + 1}
	e.log.Debugf("Sealed layer %d with key version %d", next.Layer, next.Version)
	return next, withHeader(next, sealed), nil
}

// DecryptBytes removes the outermost layer of data.
func (e *Engine) DecryptBytes(data []byte) (Header, []byte, error) {
	if len(data) == 0 {
		return Header{}, nil, kerrors.ErrCannotProcessEmptyFile
	}

	h, err := ParseHeader(data)
	if err != nil {
		return Header{}, nil, err
	}
	if !h.Crypted() {
		return Header{}, nil, kerrors.ErrDecryptNotCryptedFile
	}

	key, err := e.keys.NthKey(h.Version)
	if err != nil {
		return Header{}, nil, err
	}

	opened, err := e.cipher.Open(StripHeader(data, h), key)
	if err != nil {
		return Header{}, nil, err
	}

	next := Header{Version: h.Version, Layer: h.Layer - 1}
	e.log.Debugf("Opened layer %d with key version %d", h.Layer, h.Version)
	if !next.Crypted() {
		return next, opened, nil
	}
	return next, withHeader(next, opened), nil
}

// EncryptFile reads in, adds one layer and writes the result to out.
// The registry must already hold a key: callers create the first one with
// keyring.Registry.InitKey, otherwise a plaintext input fails with
// ErrNoVersionFound.
func (e *Engine) EncryptFile(in, out string) (Header, error) {
	data, err := readInput(in)
	if err != nil {
		return Header{}, err
	}
	h, sealed, err := e.EncryptBytes(data)
	if err != nil {
		return Header{}, fmt.Errorf("encrypting %s: %w", in, err)
	}
	if err := writeFileAtomic(out, sealed, 0600); err != nil {
		return Header{}, err
	}
	return h, nil
}

// DecryptFile reads in, removes one layer and writes the result to out.
func (e *Engine) DecryptFile(in, out string) (Header, error) {
	data, err := readInput(in)
	if err != nil {
		return Header{}, err
	}
	h, opened, err := e.DecryptBytes(data)
	if err != nil {
		return Header{}, fmt.Errorf("decrypting %s: %w", in, err)
	}

	perm := fs.FileMode(0600)
	if !h.Crypted() {
		perm = plaintextMode(out)
	}
	if err := writeFileAtomic(out, opened, perm); err != nil {
		return Header{}, err
	}
	return h, nil
}

// EncryptFileTimes adds n layers. The first pass reads in and every later pass
// works on out. A failure stops the loop and leaves out at the last completed
// layer.
func (e *Engine) EncryptFileTimes(ctx context.Context, in, out string, n int, progress Progress) (Header, error) {
	progress = orNoProgress(progress)
	if n <= 0 {
		return e.copyUnchanged(in, out)
	}

	var h Header
	src := in
	for i := 0; i < n; i++ {
		if err := ctx.Err(); err != nil {
			return h, err
		}
		var err error
		h, err = e.EncryptFile(src, out)
		if err != nil {
			return h, err
		}
		src = out
		progress.Step(i+1, n)
	}

	e.log.Infof("Encrypted %s %d times into %s", in, n, out)
	return h, nil
}

// DecryptFileEntirely removes every layer recorded in the header of in.
func (e *Engine) DecryptFileEntirely(ctx context.Context, in, out string, progress Progress) (Header, error) {
	progress = orNoProgress(progress)

	start, err := e.Inspect(in)
	if err != nil {
		return Header{}, err
	}
	if !start.Crypted() {
		return e.copyUnchanged(in, out)
	}

	total := int(start.Layer)
	h := start
	src := in
	for i := 0; i < total; i++ {
		if err := ctx.Err(); err != nil {
			return h, err
		}
		h, err = e.DecryptFile(src, out)
		if err != nil {
			return h, err
		}
		src = out
		progress.Step(i+1, total)
	}

	e.log.Infof("Decrypted %d layers of %s into %s", total, in, out)
	return h, nil
}

// Inspect returns the header of the file at path.
func (e *Engine) Inspect(path string) (Header, error) {
	data, err := readInput(path)
	if err != nil {
		return Header{}, err
	}
	h, err := ParseHeader(data)
	if err != nil {
		return Header{}, fmt.Errorf("reading header of %s: %w", path, err)
	}
	return h, nil
}

func (e *Engine) copyUnchanged(in, out string) (Header, error) {
	data, err := readInput(in)
	if err != nil {
		return Header{}, err
	}
	h, err := ParseHeader(data)
	if err != nil {
		return Header{}, fmt.Errorf("reading header of %s: %w", in, err)
	}
	if samePath(in, out) {
		return h, nil
	}

	perm := fs.FileMode(0600)
	if !h.Crypted() {
		perm = plaintextMode(out)
	}
	e.log.Debugf("Nothing to do for %s, copying to %s", in, out)
	return h, writeFileAtomic(out, data, perm)
}

func readInput(path string) ([]byte, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", kerrors.ErrFileNotFound, path)
		}
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}
	return data, nil
}

// plaintextMode keeps the mode of an existing output file.
func plaintextMode(path string) fs.FileMode {
	if info, err := os.Stat(path); err == nil {
		return info.Mode().Perm()
	}
	// #nosec G306 -- restored files should be editable by the user
	return 0644
}

func samePath(a, b string) bool {
	absA, errA := filepath.Abs(a)
	absB, errB := filepath.Abs(b)
	if errA != nil || errB != nil {
		return a == b
	}
	return absA == absB
}

// writeFileAtomic writes data to a temporary file next to path and renames it
// over path.
func writeFileAtomic(path string, data []byte, perm fs.FileMode) error {
	dir := filepath.Dir(path)
	tmp, err := os.CreateTemp(dir, "."+filepath.Base(path)+".tmp-*")
	if err != nil {
		return fmt.Errorf("failed to create temporary file in %s: %w", dir, err)
	}
	tmpName := tmp.Name()

	cleanup := func() {
		tmp.Close()
		os.Remove(tmpName)
	}

	if _, err := tmp.Write(data); err != nil {
		cleanup()
		return fmt.Errorf("failed to write to %s: %w", path, err)
	}
	if err := tmp.Chmod(perm); err != nil {
		cleanup()
		return fmt.Errorf("failed to set permissions on %s: %w", path, err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("failed to write to %s: %w", path, err)
	}
	if err := os.Rename(tmpName, path); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("failed to replace %s: %w", path, err)
	}
	return nil
}
