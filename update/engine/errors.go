// Copyright The Mantle Authors
// SPDX-License-Identifier: Apache-2.0

package engine

import (
	"fmt"

	"github.com/flatcar/ota-payload/update/metadata"
)

// UnsupportedOperationError is returned for PUFFDIFF or any operation
// kind this engine does not implement.
type UnsupportedOperationError struct {
	Type metadata.InstallOperation_Type
}

func (e *UnsupportedOperationError) Error() string {
	return fmt.Sprintf("engine: unsupported operation %s", e.Type)
}

// MalformedManifestError reports a schema-valid but semantically broken
// manifest, such as destination extents that don't exactly cover a
// partition's block range.
type MalformedManifestError struct {
	Partition string
	Reason    string
}

func (e *MalformedManifestError) Error() string {
	return fmt.Sprintf("engine: malformed manifest for partition %q: %s", e.Partition, e.Reason)
}

// MissingSourceError is returned when an operation names src_extents but
// no source directory was provided.
type MissingSourceError struct {
	Partition string
}

func (e *MissingSourceError) Error() string {
	return fmt.Sprintf("engine: partition %q requires a source image but none was given", e.Partition)
}

// SourceHashMismatchError, DataHashMismatchError, and
// DestinationHashMismatchError report the three places the partition
// updater checks a SHA-256 digest against the manifest's declared hash.
type SourceHashMismatchError struct {
	Partition string
	Want, Got []byte
}

func (e *SourceHashMismatchError) Error() string {
	return fmt.Sprintf("engine: source hash mismatch for partition %q: want %x, got %x",
		e.Partition, e.Want, e.Got)
}

type DataHashMismatchError struct {
	Partition string
	OpIndex   int
	Want, Got []byte
}

func (e *DataHashMismatchError) Error() string {
	return fmt.Sprintf("engine: data hash mismatch for partition %q op %d: want %x, got %x",
		e.Partition, e.OpIndex, e.Want, e.Got)
}

type DestinationHashMismatchError struct {
	Partition string
	Want, Got []byte
}

func (e *DestinationHashMismatchError) Error() string {
	return fmt.Sprintf("engine: destination hash mismatch for partition %q: want %x, got %x",
		e.Partition, e.Want, e.Got)
}

// DecompressionError wraps a bzip2/xz/brotli stream failure.
type DecompressionError struct {
	Format string
	Err    error
}

func (e *DecompressionError) Error() string {
	return fmt.Sprintf("engine: %s decompression failed: %v", e.Format, e.Err)
}

func (e *DecompressionError) Unwrap() error { return e.Err }

// PatchApplicationError wraps a bsdiff failure, including an old-image
// seek that lands before offset zero.
type PatchApplicationError struct {
	Err error
}

func (e *PatchApplicationError) Error() string {
	return fmt.Sprintf("engine: patch application failed: %v", e.Err)
}

func (e *PatchApplicationError) Unwrap() error { return e.Err }
