// Copyright The Mantle Authors
// SPDX-License-Identifier: Apache-2.0

package generator

import (
	"bytes"
	"testing"
)

func TestEmptyPartitionInfo(t *testing.T) {
	info, err := NewPartitionInfo(bytes.NewReader([]byte{}))
	if err != nil {
		t.Fatal(err)
	}

	if info.Size == nil {
		t.Error("PartitionInfo.Size is nil")
	} else if *info.Size != 0 {
		t.Errorf("PartitionInfo.Size should be 0, got %d", *info.Size)
	}

	if !bytes.Equal(info.Hash, testEmptyHash) {
		t.Errorf("PartitionInfo.Hash should be %q, got %q", testEmptyHash, info.Hash)
	}
}

func TestOnesPartitionInfo(t *testing.T) {
	info, err := NewPartitionInfo(bytes.NewReader(testOnes))
	if err != nil {
		t.Fatal(err)
	}

	if info.Size == nil {
		t.Error("PartitionInfo.Size is nil")
	} else if *info.Size != BlockSize {
		t.Errorf("PartitionInfo.Size should be %d, got %d", BlockSize, *info.Size)
	}

	if !bytes.Equal(info.Hash, testOnesHash) {
		t.Errorf("PartitionInfo.Hash should be %q, got %q", testOnesHash, info.Hash)
	}
}

func TestUnalignedPartitionInfo(t *testing.T) {
	info, err := NewPartitionInfo(bytes.NewReader(testUnaligned))
	if err != nil {
		t.Fatal(err)
	}

	if info.Size == nil {
		t.Error("PartitionInfo.Size is nil")
	} else if *info.Size != BlockSize+1 {
		t.Errorf("PartitionInfo.Size should be %d, got %d", BlockSize+1, *info.Size)
	}

	if !bytes.Equal(info.Hash, testUnalignedHash) {
		t.Errorf("PartitionInfo.Hash should be %q, got %q", testUnalignedHash, info.Hash)
	}
}
