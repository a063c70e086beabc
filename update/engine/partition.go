// Copyright The Mantle Authors
// SPDX-License-Identifier: Apache-2.0

package engine

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"

	"github.com/flatcar/ota-payload/lang/destructor"
	"github.com/flatcar/ota-payload/system"
	"github.com/flatcar/ota-payload/update/extent"
	"github.com/flatcar/ota-payload/update/hashutil"
	"github.com/flatcar/ota-payload/update/metadata"
)

// BlobReader gives access to an operation's data blob by its offset and
// length relative to the payload's data section. *payload.Reader
// satisfies this.
type BlobReader interface {
	ReadBlob(offset, length int64) io.Reader
}

// Options configures how a partition is written to disk.
type Options struct {
	DestDir   string
	SourceDir string
	SkipHash  bool
}

// UpdatePartition produces <DestDir>/<name>.img from pu's operation
// list. It pre-sizes the destination, verifies the source image's hash
// when one is declared, executes every operation in manifest order with
// per-operation hash checks, and finally verifies the completed
// destination against new_partition_info.hash, all unless SkipHash is
// set.
func UpdatePartition(ctx context.Context, pu *metadata.PartitionUpdate, blockSize uint32, r BlobReader, opts Options) error {
	name := pu.GetPartitionName()
	plog.Infof("updating partition %q (%d operations)", name, len(pu.GetOperations()))

	if err := checkCoverage(pu, blockSize); err != nil {
		return err
	}

	newSize := int64(pu.GetNewPartitionInfo().GetSize())
	dstFile, err := system.CreateSized(filepath.Join(opts.DestDir, name+".img"), newSize, 0644)
	if err != nil {
		return err
	}
	var open destructor.MultiDestructor
	open.AddCloser(dstFile)
	defer open.Destroy()

	srcFile, err := openSource(pu, opts)
	if err != nil {
		return err
	}
	if srcFile != nil {
		open.AddCloser(srcFile)
	}

	if !opts.SkipHash && srcFile != nil {
		if want := pu.GetOldPartitionInfo().GetHash(); len(want) > 0 {
			if _, err := srcFile.Seek(0, io.SeekStart); err != nil {
				return err
			}
			got, err := hashutil.Sum256(srcFile)
			if err != nil {
				return err
			}
			if !bytes.Equal(got, want) {
				return &SourceHashMismatchError{Partition: name, Want: want, Got: got}
			}
		}
	}

	for i, op := range pu.GetOperations() {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		if err := runOperation(ctx, name, i, op, blockSize, r, srcFile, dstFile, opts); err != nil {
			return err
		}
	}

	// Whole-block writes past a partial final block extend the file;
	// cut it back to the declared size.
	if err := dstFile.Truncate(newSize); err != nil {
		return err
	}

	if err := dstFile.Sync(); err != nil {
		return err
	}

	if !opts.SkipHash {
		if want := pu.GetNewPartitionInfo().GetHash(); len(want) > 0 {
			if _, err := dstFile.Seek(0, io.SeekStart); err != nil {
				return err
			}
			got, err := hashutil.Sum256(io.LimitReader(dstFile, newSize))
			if err != nil {
				return err
			}
			if !bytes.Equal(got, want) {
				return &DestinationHashMismatchError{Partition: name, Want: want, Got: got}
			}
		}
	}

	return nil
}

func runOperation(ctx context.Context, partition string, index int, op *metadata.InstallOperation,
	blockSize uint32, r BlobReader, srcFile *os.File, dstFile *os.File, opts Options) error {

	srcExtents := extent.BlockRanges(op.GetSrcExtents(), blockSize)
	dstExtents := extent.BlockRanges(op.GetDstExtents(), blockSize)

	if len(srcExtents) > 0 {
		if srcFile == nil {
			return &MissingSourceError{Partition: partition}
		}
		if !opts.SkipHash {
			if want := op.GetSrcSha256Hash(); len(want) > 0 {
				sr := extent.NewReader(srcFile, srcExtents)
				got, err := hashutil.Sum256(sr)
				if err != nil {
					return err
				}
				if !bytes.Equal(got, want) {
					return &SourceHashMismatchError{Partition: partition, Want: want, Got: got}
				}
			}
		}
	}

	var blob io.Reader
	if op.GetDataLength() > 0 {
		blob = r.ReadBlob(int64(op.GetDataOffset()), int64(op.GetDataLength()))
		if !opts.SkipHash {
			if want := op.GetDataSha256Hash(); len(want) > 0 {
				raw, err := io.ReadAll(blob)
				if err != nil {
					return err
				}
				got, err := hashutil.Sum256(bytes.NewReader(raw))
				if err != nil {
					return err
				}
				if !bytes.Equal(got, want) {
					return &DataHashMismatchError{Partition: partition, OpIndex: index, Want: want, Got: got}
				}
				blob = bytes.NewReader(raw)
			}
		}
	}

	oc := &opContext{
		op:         op,
		partition:  partition,
		blob:       blob,
		src:        srcFile,
		srcExtents: srcExtents,
		dst:        dstFile,
		dstExtents: dstExtents,
	}

	if err := dispatchOp(ctx, oc); err != nil {
		return fmt.Errorf("partition %q op %d: %w", partition, index, err)
	}
	return nil
}

// openSource opens <SourceDir>/<name>.img if a source directory was
// given, regardless of whether this partition's operations need one,
// so old_partition_info.hash can still be checked against a full-OTA
// partition's declared old image when present.
func openSource(pu *metadata.PartitionUpdate, opts Options) (*os.File, error) {
	if opts.SourceDir == "" {
		if needsSource(pu) {
			return nil, &MissingSourceError{Partition: pu.GetPartitionName()}
		}
		return nil, nil
	}

	f, err := os.Open(filepath.Join(opts.SourceDir, pu.GetPartitionName()+".img"))
	if err != nil {
		if os.IsNotExist(err) && !needsSource(pu) {
			return nil, nil
		}
		return nil, err
	}
	return f, nil
}

func needsSource(pu *metadata.PartitionUpdate) bool {
	for _, op := range pu.GetOperations() {
		if len(op.GetSrcExtents()) > 0 {
			return true
		}
	}
	return false
}

// checkCoverage verifies that every operation's destination extents,
// taken together, partition the block range [0, ceil(new_size/block_size))
// exactly once with no gaps or overlaps.
func checkCoverage(pu *metadata.PartitionUpdate, blockSize uint32) error {
	var all []extent.Range
	for _, op := range pu.GetOperations() {
		all = append(all, extent.BlockRanges(op.GetDstExtents(), blockSize)...)
	}
	sort.Slice(all, func(i, j int) bool { return all[i].Offset < all[j].Offset })

	newSize := int64(pu.GetNewPartitionInfo().GetSize())
	blocks := (newSize + int64(blockSize) - 1) / int64(blockSize)
	want := blocks * int64(blockSize)

	var pos int64
	for _, r := range all {
		if r.Offset != pos {
			return &MalformedManifestError{
				Partition: pu.GetPartitionName(),
				Reason:    fmt.Sprintf("gap or overlap in dst extents at offset %d", r.Offset),
			}
		}
		pos += r.Length
	}
	if pos != want {
		return &MalformedManifestError{
			Partition: pu.GetPartitionName(),
			Reason:    fmt.Sprintf("dst extents cover %d bytes, want %d", pos, want),
		}
	}
	return nil
}
