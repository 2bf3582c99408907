package crypt

import (
	"context"
	"crypto/rand"
	"math"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yatsu/mucli/internal/configs"
	kerrors "github.com/yatsu/mucli/internal/errors"
	"github.com/yatsu/mucli/internal/keyring"
	logger "github.com/yatsu/mucli/internal/logging"
)

func newTestEngine(t *testing.T) (*Engine, *keyring.Registry) {
	t.Helper()
	reg := keyring.NewRegistry(configs.NewMemoryStore(""))
	_, err := reg.InitKey()
	require.NoError(t, err)
	return NewEngine(reg, nil, logger.Logger{}), reg
}

func writeFile(t *testing.T, path string, data []byte) {
	t.Helper()
	require.NoError(t, os.WriteFile(path, data, 0644))
}

func readFile(t *testing.T, path string) []byte {
	t.Helper()
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	return data
}

func headerOf(t *testing.T, path string) Header {
	t.Helper()
	h, err := ParseHeader(readFile(t, path))
	require.NoError(t, err)
	return h
}

// randomPlaintext never starts with the header magic.
func randomPlaintext(t *testing.T, n int) []byte {
	t.Helper()
	b := make([]byte, n)
	_, err := rand.Read(b)
	require.NoError(t, err)
	b[0] = 'p'
	return b
}

func TestEncryptDecryptScenario(t *testing.T) {
	dir := t.TempDir()
	engine, _ := newTestEngine(t)

	plain := filepath.Join(dir, "a.txt")
	crypted := filepath.Join(dir, "a.enc")
	original := []byte("the quick brown fox")
	writeFile(t, plain, original)

	h, err := engine.EncryptFile(plain, crypted)
	require.NoError(t, err)
	assert.Equal(t, Header{Version: 0, Layer: 1}, h)

	data := readFile(t, crypted)
	require.Greater(t, len(data), HeaderSize)
	assert.Equal(t, []byte{0xAA, 0xBB, 0xCC, 0xDD, 0, 0, 0, 0, 0, 0, 0, 1}, data[:HeaderSize])

	require.NoError(t, os.Remove(plain))
	h, err = engine.DecryptFile(crypted, plain)
	require.NoError(t, err)
	assert.Equal(t, uint32(0), h.Layer)
	assert.Equal(t, original, readFile(t, plain))
}

func TestRoundTripSizes(t *testing.T) {
	engine, _ := newTestEngine(t)

	for _, size := range []int{1, 2, 11, 12, 13, 100, 64 * 1024} {
		plain := randomPlaintext(t, size)
		h, sealed, err := engine.EncryptBytes(plain)
		require.NoError(t, err)
		assert.Equal(t, uint32(1), h.Layer)

		h, opened, err := engine.DecryptBytes(sealed)
		require.NoError(t, err)
		assert.Equal(t, uint32(0), h.Layer)
		assert.Equal(t, plain, opened, "size %d", size)
	}
}

func TestLayerAccounting(t *testing.T) {
	engine, _ := newTestEngine(t)
	data := []byte("layered")

	for want := uint32(1); want <= 3; want++ {
		var h Header
		var err error
		h, data, err = engine.EncryptBytes(data)
		require.NoError(t, err)
		assert.Equal(t, want, h.Layer)

		parsed, err := ParseHeader(data)
		require.NoError(t, err)
		assert.Equal(t, h, parsed)
	}

	for want := 2; want >= 0; want-- {
		var h Header
		var err error
		h, data, err = engine.DecryptBytes(data)
		require.NoError(t, err)
		assert.Equal(t, uint32(want), h.Layer)
	}
	assert.Equal(t, []byte("layered"), data)

	_, _, err := engine.DecryptBytes(data)
	assert.ErrorIs(t, err, kerrors.ErrDecryptNotCryptedFile)
}

func TestHeaderPresentIffCrypted(t *testing.T) {
	dir := t.TempDir()
	engine, _ := newTestEngine(t)
	path := filepath.Join(dir, "f.txt")
	writeFile(t, path, []byte("plain"))

	_, err := engine.EncryptFileTimes(context.Background(), path, path, 2, nil)
	require.NoError(t, err)
	assert.Equal(t, Magic[:], readFile(t, path)[:4])

	_, err = engine.DecryptFile(path, path)
	require.NoError(t, err)
	assert.Equal(t, Magic[:], readFile(t, path)[:4])

	_, err = engine.DecryptFile(path, path)
	require.NoError(t, err)
	assert.Equal(t, []byte("plain"), readFile(t, path))
}

func TestEncryptTimesThenDecryptEntirely(t *testing.T) {
	engine, _ := newTestEngine(t)
	ctx := context.Background()

	for n := 0; n <= 4; n++ {
		dir := t.TempDir()
		in := filepath.Join(dir, "in.txt")
		out := filepath.Join(dir, "enc.in.txt")
		back := filepath.Join(dir, "back.txt")
		original := randomPlaintext(t, 257)
		writeFile(t, in, original)

		h, err := engine.EncryptFileTimes(ctx, in, out, n, nil)
		require.NoError(t, err)
		assert.Equal(t, uint32(n), h.Layer)
		assert.Equal(t, original, readFile(t, in), "input must not change")

		h, err = engine.DecryptFileEntirely(ctx, out, back, nil)
		require.NoError(t, err)
		assert.Equal(t, uint32(0), h.Layer)
		assert.Equal(t, original, readFile(t, back), "n=%d", n)
	}
}

func TestEncryptTimesReportsProgress(t *testing.T) {
	dir := t.TempDir()
	engine, _ := newTestEngine(t)
	path := filepath.Join(dir, "f.txt")
	writeFile(t, path, []byte("progress"))

	var steps [][2]int
	progress := ProgressFunc(func(done, total int) {
		steps = append(steps, [2]int{done, total})
	})

	_, err := engine.EncryptFileTimes(context.Background(), path, path, 3, progress)
	require.NoError(t, err)
	assert.Equal(t, [][2]int{{1, 3}, {2, 3}, {3, 3}}, steps)
}

func TestEncryptTimesStopsOnCancel(t *testing.T) {
	dir := t.TempDir()
	engine, _ := newTestEngine(t)
	path := filepath.Join(dir, "f.txt")
	writeFile(t, path, []byte("interrupted"))

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	progress := ProgressFunc(func(done, _ int) {
		if done == 2 {
			cancel()
		}
	})

	_, err := engine.EncryptFileTimes(ctx, path, path, 5, progress)
	assert.ErrorIs(t, err, context.Canceled)

	// the file is left at a complete intermediate layer
	assert.Equal(t, uint32(2), headerOf(t, path).Layer)

	_, err = engine.DecryptFileEntirely(context.Background(), path, path, nil)
	require.NoError(t, err)
	assert.Equal(t, []byte("interrupted"), readFile(t, path))
}

func TestDecryptEntirelyPlaintextCopies(t *testing.T) {
	dir := t.TempDir()
	engine, _ := newTestEngine(t)
	in := filepath.Join(dir, "plain.txt")
	out := filepath.Join(dir, "copy.txt")
	writeFile(t, in, []byte("already plain"))

	h, err := engine.DecryptFileEntirely(context.Background(), in, out, nil)
	require.NoError(t, err)
	assert.False(t, h.Crypted())
	assert.Equal(t, []byte("already plain"), readFile(t, out))
}

func TestGuardConditions(t *testing.T) {
	dir := t.TempDir()
	engine, _ := newTestEngine(t)

	plain := filepath.Join(dir, "plain.txt")
	writeFile(t, plain, []byte("fresh"))
	_, err := engine.DecryptFile(plain, plain)
	assert.ErrorIs(t, err, kerrors.ErrDecryptNotCryptedFile)

	empty := filepath.Join(dir, "empty.txt")
	writeFile(t, empty, nil)
	_, err = engine.EncryptFile(empty, filepath.Join(dir, "enc.empty.txt"))
	assert.ErrorIs(t, err, kerrors.ErrCannotProcessEmptyFile)
	_, err = engine.DecryptFile(empty, empty)
	assert.ErrorIs(t, err, kerrors.ErrCannotProcessEmptyFile)

	crypted := filepath.Join(dir, "crypted.txt")
	writeFile(t, crypted, []byte("current"))
	_, err = engine.EncryptFile(crypted, crypted)
	require.NoError(t, err)
	_, err = engine.UpdateFileEncryptionKey(context.Background(), crypted, nil)
	assert.ErrorIs(t, err, kerrors.ErrCannotUpdateLatest)

	_, err = engine.UpdateFileEncryptionKey(context.Background(), plain, nil)
	assert.ErrorIs(t, err, kerrors.ErrCannotUpdateLatest)

	_, err = engine.EncryptFile(filepath.Join(dir, "missing.txt"), plain)
	assert.ErrorIs(t, err, kerrors.ErrFileNotFound)
}

func TestCorruptHeaderIsRejected(t *testing.T) {
	dir := t.TempDir()
	engine, _ := newTestEngine(t)
	path := filepath.Join(dir, "corrupt")
	writeFile(t, path, []byte{0xAA, 0xBB, 0xCC, 0xDD, 0, 0})

	_, err := engine.EncryptFile(path, path)
	assert.ErrorIs(t, err, kerrors.ErrInvalidFileContent)
	_, err = engine.DecryptFile(path, path)
	assert.ErrorIs(t, err, kerrors.ErrInvalidFileContent)
}

func TestEncryptRejectsMaxLayer(t *testing.T) {
	engine, _ := newTestEngine(t)
	data := withHeader(Header{Version: 0, Layer: math.MaxUint32}, []byte("sealed"))

	_, _, err := engine.EncryptBytes(data)
	assert.ErrorIs(t, err, kerrors.ErrInvalidFileContent)
}

func TestEncryptFileNeedsInitializedRegistry(t *testing.T) {
	dir := t.TempDir()
	engine := NewEngine(keyring.NewRegistry(configs.NewMemoryStore("")), nil, logger.Logger{})
	path := filepath.Join(dir, "a.txt")
	writeFile(t, path, []byte("no key yet"))

	_, err := engine.EncryptFile(path, path+".enc")
	assert.ErrorIs(t, err, kerrors.ErrNoVersionFound)
	assert.NoFileExists(t, path+".enc")
}

func TestDecryptHeaderOnlyFile(t *testing.T) {
	dir := t.TempDir()
	engine, _ := newTestEngine(t)
	path := filepath.Join(dir, "header-only")
	header := Header{Version: 0, Layer: 1}.Encode()
	writeFile(t, path, header[:])

	_, err := engine.DecryptFile(path, path)
	assert.ErrorIs(t, err, kerrors.ErrDecryptFailed)
}

func TestDecryptWithoutKeys(t *testing.T) {
	dir := t.TempDir()
	engine, reg := newTestEngine(t)
	path := filepath.Join(dir, "f.txt")
	writeFile(t, path, []byte("orphan"))
	_, err := engine.EncryptFile(path, path)
	require.NoError(t, err)

	_, err = reg.PurgeKeys()
	require.NoError(t, err)

	_, err = engine.DecryptFile(path, path)
	assert.ErrorIs(t, err, kerrors.ErrNoKeyFound)
}

func TestEncryptKeepsRecordedVersion(t *testing.T) {
	dir := t.TempDir()
	engine, reg := newTestEngine(t)
	path := filepath.Join(dir, "f.txt")
	writeFile(t, path, []byte("mixed"))

	_, err := engine.EncryptFile(path, path)
	require.NoError(t, err)

	_, err = reg.RotateKey()
	require.NoError(t, err)

	// adding a layer after rotation keeps version 0 for every layer
	h, err := engine.EncryptFile(path, path)
	require.NoError(t, err)
	assert.Equal(t, Header{Version: 0, Layer: 2}, h)

	_, err = engine.DecryptFileEntirely(context.Background(), path, path, nil)
	require.NoError(t, err)
	assert.Equal(t, []byte("mixed"), readFile(t, path))

	// plaintext binds to the newest key
	h, err = engine.EncryptFile(path, path)
	require.NoError(t, err)
	assert.Equal(t, Header{Version: 1, Layer: 1}, h)
}

func TestEncryptUnknownVersionFails(t *testing.T) {
	dir := t.TempDir()
	engine, _ := newTestEngine(t)
	path := filepath.Join(dir, "future")
	enc := Header{Version: 5, Layer: 1}.Encode()
	writeFile(t, path, append(enc[:], []byte("sealed elsewhere")...))

	_, err := engine.EncryptFile(path, path)
	assert.ErrorIs(t, err, kerrors.ErrKeyNotExist)
}

func TestUpdateFileEncryptionKey(t *testing.T) {
	dir := t.TempDir()
	engine, reg := newTestEngine(t)
	ctx := context.Background()
	path := filepath.Join(dir, "f.txt")
	original := randomPlaintext(t, 512)
	writeFile(t, path, original)

	_, err := engine.EncryptFileTimes(ctx, path, path, 3, nil)
	require.NoError(t, err)
	assert.Equal(t, Header{Version: 0, Layer: 3}, headerOf(t, path))

	_, err = reg.RotateKey()
	require.NoError(t, err)

	var last [2]int
	h, err := engine.UpdateFileEncryptionKey(ctx, path, ProgressFunc(func(done, total int) {
		last = [2]int{done, total}
	}))
	require.NoError(t, err)
	assert.Equal(t, Header{Version: 1, Layer: 3}, h)
	assert.Equal(t, h, headerOf(t, path))
	assert.Equal(t, [2]int{6, 6}, last)

	_, err = engine.DecryptFileEntirely(ctx, path, path, nil)
	require.NoError(t, err)
	assert.Equal(t, original, readFile(t, path))
}

func TestFileModes(t *testing.T) {
	dir := t.TempDir()
	engine, _ := newTestEngine(t)
	in := filepath.Join(dir, "f.txt")
	out := filepath.Join(dir, "enc.f.txt")
	back := filepath.Join(dir, "restored.txt")
	writeFile(t, in, []byte("modes"))

	_, err := engine.EncryptFile(in, out)
	require.NoError(t, err)
	info, err := os.Stat(out)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0600), info.Mode().Perm())

	_, err = engine.DecryptFile(out, back)
	require.NoError(t, err)
	info, err = os.Stat(back)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0644), info.Mode().Perm())

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Len(t, entries, 3, "temporary files must not be left behind")
}

func TestInspect(t *testing.T) {
	dir := t.TempDir()
	engine, _ := newTestEngine(t)
	path := filepath.Join(dir, "f.txt")
	writeFile(t, path, []byte("inspect"))

	h, err := engine.Inspect(path)
	require.NoError(t, err)
	assert.False(t, h.Crypted())

	_, err = engine.EncryptFileTimes(context.Background(), path, path, 2, nil)
	require.NoError(t, err)
	h, err = engine.Inspect(path)
	require.NoError(t, err)
	assert.Equal(t, Header{Version: 0, Layer: 2}, h)
}
