// Package keyring manages the versioned encryption key registry.
//
// Keys live in the config file as one MUCLI_ENCRYPT line per version:
//
//	MUCLI_ENCRYPT=<version>=[b0,b1,...,b31]
//
// Versions are dense from zero. The registry is addressed by sorted position,
// so NthKey(i) returns the key of the i-th smallest version regardless of the
// order the lines appear in the file.
package keyring
