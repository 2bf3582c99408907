// Package crypt implements layered file encryption.
//
// A crypted file starts with a 12 byte header followed by the ciphertext of
// the outermost layer:
//
//	offset 0  magic   AA BB CC DD
//	offset 4  version uint32, big-endian
//	offset 8  layer   uint32, big-endian
//
// The header is present if and only if the layer is at least 1. Every layer
// of a file is sealed with the key of the recorded version. Decrypting the
// last layer strips the header and restores the original bytes.
//
// Engine performs single layer steps and the multi-layer loops on top of
// them. Every write goes through a temporary file that is renamed over the
// target, so an interrupted loop leaves a complete file at some intermediate
// layer.
package crypt
