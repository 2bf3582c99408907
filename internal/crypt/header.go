package crypt

import (
	"bytes"
	"encoding/binary"
	"fmt"

	kerrors "github.com/yatsu/mucli/internal/errors"
)

// HeaderSize is the encoded size of a Header.
const HeaderSize = 12

// Magic marks the start of a crypted file.
var Magic = [4]byte{0xAA, 0xBB, 0xCC, 0xDD}

// Header describes the state of a file. Layer 0 means plaintext.
type Header struct {
	Version uint32
	Layer   uint32
}

// Crypted reports whether the file carries at least one layer.
func (h Header) Crypted() bool {
	return h.Layer > 0
}

// Encode renders the header in its on-disk form.
func (h Header) Encode() [HeaderSize]byte {
	var out [HeaderSize]byte
	copy(out[0:4], Magic[:])
	binary.BigEndian.PutUint32(out[4:8], h.Version)
	binary.BigEndian.PutUint32(out[8:12], h.Layer)
	return out
}

// ParseHeader decodes the header at the start of data. Data without the
// magic marker is plaintext and yields a zero Header.
func ParseHeader(data []byte) (Header, error) {
	if len(data) < len(Magic) || !bytes.Equal(data[:len(Magic)], Magic[:]) {
		return Header{}, nil
	}
	if len(data) < HeaderSize {
		return Header{}, fmt.Errorf("%w: header is truncated (%d bytes)", kerrors.ErrInvalidFileContent, len(data))
	}
	h := Header{
		Version: binary.BigEndian.Uint32(data[4:8]),
		Layer:   binary.BigEndian.Uint32(data[8:12]),
	}
	if h.Layer == 0 {
		return Header{}, fmt.Errorf("%w: header records layer 0", kerrors.ErrInvalidFileContent)
	}
	return h, nil
}

// StripHeader returns the payload that follows the header.
func StripHeader(data []byte, h Header) []byte {
	if !h.Crypted() {
		return data
	}
	return data[HeaderSize:]
}

func withHeader(h Header, payload []byte) []byte {
	enc := h.Encode()
	out := make([]byte, 0, HeaderSize+len(payload))
	out = append(out, enc[:]...)
	return append(out, payload...)
}
