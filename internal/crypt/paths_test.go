package crypt

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestEncryptedFilePath(t *testing.T) {
	assert.Equal(t, filepath.Join("out", "enc.notes.txt"), EncryptedFilePath(filepath.Join("docs", "notes.txt"), "out", "enc."))
	assert.Equal(t, filepath.Join("docs", "enc.notes.txt"), EncryptedFilePath(filepath.Join("docs", "notes.txt"), "", "enc."))
	assert.Equal(t, filepath.Join("docs", "locked.notes.txt"), EncryptedFilePath(filepath.Join("docs", "notes.txt"), "", "locked."))
}

func TestDecryptedFilePath(t *testing.T) {
	assert.Equal(t, filepath.Join("out", "notes.txt"), DecryptedFilePath(filepath.Join("docs", "enc.notes.txt"), "out", "enc."))
	assert.Equal(t, filepath.Join("docs", "notes.txt"), DecryptedFilePath(filepath.Join("docs", "notes.txt"), "", "enc."))
	assert.Equal(t, filepath.Join("docs", "enc."), DecryptedFilePath(filepath.Join("docs", "enc."), "", "enc."))
}
