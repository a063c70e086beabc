// Copyright The Mantle Authors
// SPDX-License-Identifier: Apache-2.0

package engine

import (
	"bytes"
	"context"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/golang/protobuf/proto"

	"github.com/flatcar/ota-payload/update/metadata"
)

const testBlockSize = 4096

type memBlobReader struct {
	data []byte
}

func (m *memBlobReader) ReadBlob(offset, length int64) io.Reader {
	return bytes.NewReader(m.data[offset : offset+length])
}

func extentOf(start, num uint64) *metadata.Extent {
	return &metadata.Extent{StartBlock: proto.Uint64(start), NumBlocks: proto.Uint64(num)}
}

func TestUpdatePartitionReplaceAndZero(t *testing.T) {
	dst := t.TempDir()
	blob := bytes.Repeat([]byte{0xAA}, testBlockSize)

	pu := &metadata.PartitionUpdate{
		PartitionName:    proto.String("boot"),
		NewPartitionInfo: &metadata.PartitionInfo{Size: proto.Uint64(2 * testBlockSize)},
		Operations: []*metadata.InstallOperation{
			{
				Type:       metadata.InstallOperation_REPLACE.Enum(),
				DataOffset: proto.Uint64(0),
				DataLength: proto.Uint64(testBlockSize),
				DstExtents: []*metadata.Extent{extentOf(0, 1)},
			},
			{
				Type:       metadata.InstallOperation_ZERO.Enum(),
				DstExtents: []*metadata.Extent{extentOf(1, 1)},
			},
		},
	}

	err := UpdatePartition(context.Background(), pu, testBlockSize, &memBlobReader{data: blob}, Options{DestDir: dst})
	if err != nil {
		t.Fatal(err)
	}

	got, err := os.ReadFile(filepath.Join(dst, "boot.img"))
	if err != nil {
		t.Fatal(err)
	}
	if !bytes.Equal(got[:testBlockSize], blob) {
		t.Errorf("first block not replaced correctly")
	}
	if !bytes.Equal(got[testBlockSize:], make([]byte, testBlockSize)) {
		t.Errorf("second block not zeroed")
	}
}

func TestUpdatePartitionSourceCopy(t *testing.T) {
	dst := t.TempDir()
	src := t.TempDir()

	oldImage := append(bytes.Repeat([]byte{0x11}, 2*testBlockSize), bytes.Repeat([]byte{0x22}, 2*testBlockSize)...)
	if err := os.WriteFile(filepath.Join(src, "vendor.img"), oldImage, 0644); err != nil {
		t.Fatal(err)
	}

	pu := &metadata.PartitionUpdate{
		PartitionName:    proto.String("vendor"),
		NewPartitionInfo: &metadata.PartitionInfo{Size: proto.Uint64(2 * testBlockSize)},
		Operations: []*metadata.InstallOperation{
			{
				Type:       metadata.InstallOperation_SOURCE_COPY.Enum(),
				SrcExtents: []*metadata.Extent{extentOf(2, 2)},
				DstExtents: []*metadata.Extent{extentOf(0, 2)},
			},
		},
	}

	err := UpdatePartition(context.Background(), pu, testBlockSize, &memBlobReader{}, Options{DestDir: dst, SourceDir: src})
	if err != nil {
		t.Fatal(err)
	}

	got, err := os.ReadFile(filepath.Join(dst, "vendor.img"))
	if err != nil {
		t.Fatal(err)
	}
	if !bytes.Equal(got, bytes.Repeat([]byte{0x22}, 2*testBlockSize)) {
		t.Errorf("source copy produced wrong content")
	}
}

func TestUpdatePartitionUnsupportedOp(t *testing.T) {
	dst := t.TempDir()

	pu := &metadata.PartitionUpdate{
		PartitionName:    proto.String("system"),
		NewPartitionInfo: &metadata.PartitionInfo{Size: proto.Uint64(testBlockSize)},
		Operations: []*metadata.InstallOperation{
			{
				Type:       metadata.InstallOperation_PUFFDIFF.Enum(),
				DstExtents: []*metadata.Extent{extentOf(0, 1)},
			},
		},
	}

	err := UpdatePartition(context.Background(), pu, testBlockSize, &memBlobReader{}, Options{DestDir: dst})
	if err == nil {
		t.Fatal("expected an error")
	}
}

func TestCheckCoverageGap(t *testing.T) {
	pu := &metadata.PartitionUpdate{
		PartitionName:    proto.String("boot"),
		NewPartitionInfo: &metadata.PartitionInfo{Size: proto.Uint64(2 * testBlockSize)},
		Operations: []*metadata.InstallOperation{
			{
				Type:       metadata.InstallOperation_ZERO.Enum(),
				DstExtents: []*metadata.Extent{extentOf(0, 1)},
			},
		},
	}

	err := checkCoverage(pu, testBlockSize)
	if _, ok := err.(*MalformedManifestError); !ok {
		t.Errorf("expected *MalformedManifestError, got %T (%v)", err, err)
	}
}

func TestUpdatePartitionMissingSource(t *testing.T) {
	dst := t.TempDir()

	pu := &metadata.PartitionUpdate{
		PartitionName:    proto.String("vendor"),
		NewPartitionInfo: &metadata.PartitionInfo{Size: proto.Uint64(testBlockSize)},
		Operations: []*metadata.InstallOperation{
			{
				Type:       metadata.InstallOperation_SOURCE_COPY.Enum(),
				SrcExtents: []*metadata.Extent{extentOf(0, 1)},
				DstExtents: []*metadata.Extent{extentOf(0, 1)},
			},
		},
	}

	err := UpdatePartition(context.Background(), pu, testBlockSize, &memBlobReader{}, Options{DestDir: dst})
	if _, ok := err.(*MissingSourceError); !ok {
		t.Errorf("expected *MissingSourceError, got %T (%v)", err, err)
	}
}
