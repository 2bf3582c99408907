package errors

import "errors"

// Key registry errors.
var (
	// ErrNoKeyFound indicates the key registry holds no key at all.
	ErrNoKeyFound = errors.New("no encryption key found in config")

	// ErrKeyNotExist indicates the requested key version is not in the registry.
	ErrKeyNotExist = errors.New("encryption key does not exist")

	// ErrNoVersionFound indicates a version lookup ran against an empty registry.
	ErrNoVersionFound = errors.New("no encryption key version found in config")

	// ErrKeyUpdateFailed indicates a new key version was requested before any key existed.
	ErrKeyUpdateFailed = errors.New("cannot update the encryption key before it is initialized")

	// ErrRegistryGap indicates stored key versions are not dense from zero.
	ErrRegistryGap = errors.New("encryption key registry has missing or duplicate versions")
)

// File state errors.
var (
	// ErrInvalidFileContent indicates a header marker was found but the header is unusable.
	ErrInvalidFileContent = errors.New("target file must be a crypted file")

	// ErrDecryptNotCryptedFile indicates a decrypt was requested on a layer 0 file.
	ErrDecryptNotCryptedFile = errors.New("cannot decrypt a non-encrypted file")

	// ErrCannotUpdateLatest indicates the file is already bound to the newest key version.
	ErrCannotUpdateLatest = errors.New("file is already at the latest encryption version")

	// ErrCannotProcessEmptyFile indicates the input file has no content.
	ErrCannotProcessEmptyFile = errors.New("cannot process empty file")
)

// Cryptographic errors.
var (
	// ErrEncryptFailed indicates sealing a layer failed.
	ErrEncryptFailed = errors.New("failed to encrypt file")

	// ErrDecryptFailed indicates a layer could not be authenticated or opened.
	ErrDecryptFailed = errors.New("failed to decrypt file")
)

// Config errors.
var (
	// ErrMalformedLine indicates a config line could not be parsed.
	ErrMalformedLine = errors.New("malformed config line")
)

// File selection errors.
var (
	// ErrNoFilesFound indicates no files matched the provided patterns.
	ErrNoFilesFound = errors.New("no matching files found")

	// ErrFileNotFound indicates a specific file could not be located.
	ErrFileNotFound = errors.New("file not found")
)

// Audit log errors.
var (
	// ErrInvalidDateFormat indicates a --since or --until value is not YYYY-MM-DD.
	ErrInvalidDateFormat = errors.New("invalid date format")
)
