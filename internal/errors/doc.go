// Package errors provides typed error values for mucli.
//
// Sentinel errors let callers branch on a failure with errors.Is() instead of
// matching message text. Lower layers wrap them with context:
//
//	return fmt.Errorf("reading header of %s: %w", path, errors.ErrInvalidFileContent)
//
// # Error Categories
//
//   - Key registry errors: ErrNoKeyFound, ErrKeyNotExist, ErrNoVersionFound,
//     ErrKeyUpdateFailed, ErrRegistryGap
//   - File state errors: ErrInvalidFileContent, ErrDecryptNotCryptedFile,
//     ErrCannotUpdateLatest, ErrCannotProcessEmptyFile
//   - Crypto errors: ErrEncryptFailed, ErrDecryptFailed
//   - Config errors: ErrMalformedLine
//   - File selection errors: ErrNoFilesFound, ErrFileNotFound
//   - Audit log errors: ErrInvalidDateFormat
//
// Filesystem failures are not given a sentinel of their own. They are returned
// wrapped, so errors.Is(err, fs.ErrNotExist) and friends keep working.
package errors
