// Copyright The Mantle Authors
// SPDX-License-Identifier: Apache-2.0

// Package hashutil verifies the SHA-256 digests that a payload manifest
// attaches to operation data and to whole partitions.
package hashutil

import (
	"bytes"
	"crypto/sha256"
	"fmt"
	"hash"
	"io"
)

// MismatchError reports that a computed digest did not match the one the
// manifest expected.
type MismatchError struct {
	Want []byte
	Got  []byte
}

func (e *MismatchError) Error() string {
	return fmt.Sprintf("hash mismatch: want %x, got %x", e.Want, e.Got)
}

// Sum256 returns the SHA-256 digest of everything read from r.
func Sum256(r io.Reader) ([]byte, error) {
	h := sha256.New()
	if _, err := io.Copy(h, r); err != nil {
		return nil, err
	}
	return h.Sum(nil), nil
}

// Verify reads all of r and confirms its SHA-256 digest equals want. A
// zero-length want is treated as "no hash recorded" and skips
// verification, which some operations and older minor versions allow.
func Verify(r io.Reader, want []byte) error {
	if len(want) == 0 {
		_, err := io.Copy(io.Discard, r)
		return err
	}

	got, err := Sum256(r)
	if err != nil {
		return err
	}
	if !bytes.Equal(got, want) {
		return &MismatchError{Want: want, Got: got}
	}
	return nil
}

// TeeHasher wraps a writer, accumulating a running SHA-256 digest of
// everything written through it, so a destination can be hashed in the
// same pass that writes it rather than read back afterward.
type TeeHasher struct {
	io.Writer
	sum hash.Hash
}

// NewTeeHasher returns a TeeHasher that forwards writes to w.
func NewTeeHasher(w io.Writer) *TeeHasher {
	h := sha256.New()
	return &TeeHasher{Writer: io.MultiWriter(w, h), sum: h}
}

// Sum returns the SHA-256 digest of everything written so far.
func (t *TeeHasher) Sum() []byte {
	return t.sum.Sum(nil)
}
