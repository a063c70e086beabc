// Copyright The Mantle Authors
// SPDX-License-Identifier: Apache-2.0

package payload

import "fmt"

// InvalidMagicError is returned when a file does not begin with the
// four-byte "CrAU" payload magic.
type InvalidMagicError struct {
	Got [4]byte
}

func (e *InvalidMagicError) Error() string {
	return fmt.Sprintf("payload: invalid magic %q, expected %q", e.Got[:], magic)
}

// UnsupportedVersionError is returned when a payload's major version is
// outside [metadata.MinVersion, metadata.MaxVersion].
type UnsupportedVersionError struct {
	Version uint64
}

func (e *UnsupportedVersionError) Error() string {
	return fmt.Sprintf("payload: unsupported major version %d", e.Version)
}

// TruncatedPayloadError wraps an I/O error encountered while reading a
// structural section of the payload (a header field or the manifest),
// naming which section was short.
type TruncatedPayloadError struct {
	Section string
	Err     error
}

func (e *TruncatedPayloadError) Error() string {
	return fmt.Sprintf("payload: truncated %s: %v", e.Section, e.Err)
}

func (e *TruncatedPayloadError) Unwrap() error { return e.Err }

// ManifestDecodeError wraps a protobuf decode failure on the manifest.
type ManifestDecodeError struct {
	Err error
}

func (e *ManifestDecodeError) Error() string {
	return fmt.Sprintf("payload: decoding manifest: %v", e.Err)
}

func (e *ManifestDecodeError) Unwrap() error { return e.Err }

// UnknownPartitionError is returned when a caller asks for a partition
// name the manifest does not carry.
type UnknownPartitionError struct {
	Name string
}

func (e *UnknownPartitionError) Error() string {
	return fmt.Sprintf("payload: unknown partition %q", e.Name)
}
