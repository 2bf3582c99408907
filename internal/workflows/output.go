package workflows

import (
	"fmt"
	"os"

	"github.com/yatsu/mucli/internal/crypt"
	kerrors "github.com/yatsu/mucli/internal/errors"
)

// Destination selects where a processed file is written.
type Destination struct {
	// InPlace overwrites the source file.
	InPlace bool

	// CurrentDir writes next to the working directory instead of the source.
	CurrentDir bool

	// OutputDir writes into the given directory.
	OutputDir string
}

type namer func(file, dir, prefix string) string

func (d Destination) resolve(source, prefix string, name namer) (string, error) {
	switch {
	case d.InPlace:
		return source, nil
	case d.CurrentDir:
		wd, err := os.Getwd()
		if err != nil {
			return "", fmt.Errorf("failed to get working directory: %w", err)
		}
		return name(source, wd, prefix), nil
	case d.OutputDir != "":
		info, err := os.Stat(d.OutputDir)
		if err != nil || !info.IsDir() {
			return "", fmt.Errorf("%w: output directory %s", kerrors.ErrFileNotFound, d.OutputDir)
		}
		return name(source, d.OutputDir, prefix), nil
	default:
		return name(source, "", prefix), nil
	}
}

func (d Destination) encryptedPath(source, prefix string) (string, error) {
	return d.resolve(source, prefix, crypt.EncryptedFilePath)
}

func (d Destination) decryptedPath(source, prefix string) (string, error) {
	return d.resolve(source, prefix, crypt.DecryptedFilePath)
}
