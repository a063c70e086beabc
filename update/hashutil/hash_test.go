// Copyright The Mantle Authors
// SPDX-License-Identifier: Apache-2.0

package hashutil

import (
	"bytes"
	"crypto/sha256"
	"testing"
)

func TestVerifyMatches(t *testing.T) {
	data := []byte("partition contents")
	sum := sha256.Sum256(data)

	if err := Verify(bytes.NewReader(data), sum[:]); err != nil {
		t.Fatalf("Verify: %v", err)
	}
}

func TestVerifyMismatch(t *testing.T) {
	data := []byte("partition contents")
	wrong := sha256.Sum256([]byte("something else"))

	err := Verify(bytes.NewReader(data), wrong[:])
	if err == nil {
		t.Fatal("expected mismatch error")
	}
	if _, ok := err.(*MismatchError); !ok {
		t.Errorf("expected *MismatchError, got %T", err)
	}
}

func TestVerifySkippedWhenEmpty(t *testing.T) {
	if err := Verify(bytes.NewReader([]byte("anything")), nil); err != nil {
		t.Fatalf("Verify with empty want should skip: %v", err)
	}
}

func TestTeeHasher(t *testing.T) {
	var buf bytes.Buffer
	tee := NewTeeHasher(&buf)

	data := []byte("hello world")
	if _, err := tee.Write(data); err != nil {
		t.Fatal(err)
	}

	want := sha256.Sum256(data)
	if !bytes.Equal(tee.Sum(), want[:]) {
		t.Errorf("Sum() = %x, want %x", tee.Sum(), want)
	}
	if buf.String() != string(data) {
		t.Errorf("underlying writer got %q, want %q", buf.String(), data)
	}
}
