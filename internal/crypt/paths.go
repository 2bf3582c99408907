package crypt

import (
	"path/filepath"
	"strings"
)

// EncryptedFilePath names the encrypted copy of file inside dir, e.g.
// dir/enc.notes.txt. An empty dir keeps the directory of file.
func EncryptedFilePath(file, dir, prefix string) string {
	if dir == "" {
		dir = filepath.Dir(file)
	}
	return filepath.Join(dir, prefix+filepath.Base(file))
}

// DecryptedFilePath names the restored copy of file inside dir by dropping the
// prefix. Names without the prefix are kept.
func DecryptedFilePath(file, dir, prefix string) string {
	if dir == "" {
		dir = filepath.Dir(file)
	}
	name := filepath.Base(file)
	if prefix != "" && strings.HasPrefix(name, prefix) && len(name) > len(prefix) {
		name = strings.TrimPrefix(name, prefix)
	}
	return filepath.Join(dir, name)
}
