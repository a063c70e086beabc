// Copyright The Mantle Authors
// SPDX-License-Identifier: Apache-2.0

package bspatch

import (
	"bytes"
	"encoding/binary"
	"testing"

	execpkg "github.com/flatcar/ota-payload/system/exec"
	"github.com/flatcar/ota-payload/update/generator"
)

// putOfftin encodes v using bsdiff's sign-in-top-bit convention, the
// inverse of offtin.
func putOfftin(v int64) []byte {
	neg := v < 0
	if neg {
		v = -v
	}
	u := uint64(v)
	if neg {
		u |= 1 << 63
	}
	buf := make([]byte, 8)
	binary.LittleEndian.PutUint64(buf, u)
	return buf
}

// buildPatch bzip2-compresses a single-triple bsdiff patch that turns
// oldData into newData of equal length via a pure byte-wise diff stream,
// with no extra bytes and no seek.
func buildPatch(t *testing.T, oldData, newData []byte) []byte {
	t.Helper()
	if len(oldData) != len(newData) {
		t.Fatalf("buildPatch requires equal-length old/new data")
	}

	diff := make([]byte, len(oldData))
	for i := range diff {
		diff[i] = newData[i] - oldData[i]
	}

	var ctrl bytes.Buffer
	ctrl.Write(putOfftin(int64(len(diff))))
	ctrl.Write(putOfftin(0))
	ctrl.Write(putOfftin(0))

	ctrlZ, err := generator.Bzip2(ctrl.Bytes())
	if err != nil {
		if execpkg.IsCmdNotFound(err) {
			t.Skip(err)
		}
		t.Fatal(err)
	}
	diffZ, err := generator.Bzip2(diff)
	if err != nil {
		t.Fatal(err)
	}
	extraZ, err := generator.Bzip2(nil)
	if err != nil {
		t.Fatal(err)
	}

	var patch bytes.Buffer
	patch.WriteString(magic)
	patch.Write(putOfftin(int64(len(ctrlZ))))
	patch.Write(putOfftin(int64(len(diffZ))))
	patch.Write(putOfftin(int64(len(newData))))
	patch.Write(ctrlZ)
	patch.Write(diffZ)
	patch.Write(extraZ)

	return patch.Bytes()
}

func TestApplySimpleDiff(t *testing.T) {
	oldData := []byte("abcdefgh")
	newData := []byte("ABCDEFGH")

	patch := buildPatch(t, oldData, newData)

	var out bytes.Buffer
	err := Apply(bytes.NewReader(oldData), int64(len(oldData)),
		bytes.NewReader(patch), int64(len(patch)), &out)
	if err != nil {
		t.Fatal(err)
	}

	if !bytes.Equal(out.Bytes(), newData) {
		t.Errorf("Apply produced %q, want %q", out.Bytes(), newData)
	}
}

func TestApplyBadMagic(t *testing.T) {
	bad := bytes.Repeat([]byte{0}, headerLen)
	err := Apply(bytes.NewReader(nil), 0, bytes.NewReader(bad), int64(len(bad)), &bytes.Buffer{})
	if err != ErrBadMagic {
		t.Errorf("expected ErrBadMagic, got %v", err)
	}
}
