package crypt

import (
	"crypto/rand"
	"fmt"
	"io"

	"golang.org/x/crypto/nacl/secretbox"

	kerrors "github.com/yatsu/mucli/internal/errors"
)

// Cipher seals and opens a single layer.
type Cipher interface {
	Seal(plaintext, key []byte) ([]byte, error)
	Open(ciphertext, key []byte) ([]byte, error)
}

const nonceSize = 24

// SecretBox is the default Cipher: XSalsa20-Poly1305 with the random nonce
// prepended to the ciphertext.
type SecretBox struct{}

func secretboxKey(key []byte) (*[32]byte, error) {
	if len(key) != 32 {
		return nil, fmt.Errorf("invalid key length: expected 32 bytes, got %d bytes", len(key))
	}
	var k [32]byte
	copy(k[:], key)
	return &k, nil
}

func (SecretBox) Seal(plaintext, key []byte) ([]byte, error) {
	k, err := secretboxKey(key)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", kerrors.ErrEncryptFailed, err)
	}

	var nonce [nonceSize]byte
	if _, err := io.ReadFull(rand.Reader, nonce[:]); err != nil {
		return nil, fmt.Errorf("%w: generating nonce: %v", kerrors.ErrEncryptFailed, err)
	}

	return secretbox.Seal(nonce[:], plaintext, &nonce, k), nil
}

func (SecretBox) Open(ciphertext, key []byte) ([]byte, error) {
	k, err := secretboxKey(key)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", kerrors.ErrDecryptFailed, err)
	}
	if len(ciphertext) < nonceSize+secretbox.Overhead {
		return nil, fmt.Errorf("%w: ciphertext is too short", kerrors.ErrDecryptFailed)
	}

	// The nonce is stored in front of the sealed box.
	var nonce [nonceSize]byte
	copy(nonce[:], ciphertext[:nonceSize])

	plaintext, ok := secretbox.Open(nil, ciphertext[nonceSize:], &nonce, k)
	if !ok {
		return nil, fmt.Errorf("%w: authentication failed", kerrors.ErrDecryptFailed)
	}
	return plaintext, nil
}
