// Copyright The Mantle Authors
// SPDX-License-Identifier: Apache-2.0

// Package payload parses the CrAU payload envelope and its embedded
// DeltaArchiveManifest, and provides mutex-guarded random access to the
// data blobs that follow it.
package payload

import (
	"encoding/binary"
	"io"

	"github.com/golang/protobuf/proto"

	"github.com/flatcar/ota-payload/update/metadata"
)

const magic = metadata.Magic

// Envelope describes the parsed structure of a payload's leading
// header, manifest, and optional metadata signature, without yet
// reading any partition data.
type Envelope struct {
	Version               uint64
	Manifest              *metadata.DeltaArchiveManifest
	MetadataSignatureSize uint32

	// HeaderSize is the byte length of the fixed-size header, before the
	// manifest and any metadata signature.
	HeaderSize int64
	// DataOffset is the absolute byte offset where the first operation's
	// data blob begins, i.e. where the trailing data section starts.
	DataOffset int64
}

// ParseEnvelope reads and validates a payload's header and manifest from
// r, positioned at the start of the payload. It does not read any
// partition data.
func ParseEnvelope(r io.Reader) (*Envelope, error) {
	var magicBuf [4]byte
	if _, err := io.ReadFull(r, magicBuf[:]); err != nil {
		return nil, &TruncatedPayloadError{Section: "magic", Err: err}
	}
	if string(magicBuf[:]) != magic {
		return nil, &InvalidMagicError{Got: magicBuf}
	}

	var fixed [8]byte
	if _, err := io.ReadFull(r, fixed[:]); err != nil {
		return nil, &TruncatedPayloadError{Section: "version", Err: err}
	}
	version := binary.BigEndian.Uint64(fixed[:])
	if version < metadata.MinVersion || version > metadata.MaxVersion {
		return nil, &UnsupportedVersionError{Version: version}
	}

	if _, err := io.ReadFull(r, fixed[:]); err != nil {
		return nil, &TruncatedPayloadError{Section: "manifest size", Err: err}
	}
	manifestSize := binary.BigEndian.Uint64(fixed[:])

	headerSize := int64(len(magicBuf) + 8 + 8)

	var metadataSigSize uint32
	if version >= 2 {
		var sigBuf [4]byte
		if _, err := io.ReadFull(r, sigBuf[:]); err != nil {
			return nil, &TruncatedPayloadError{Section: "metadata signature size", Err: err}
		}
		metadataSigSize = binary.BigEndian.Uint32(sigBuf[:])
		headerSize += 4
	}

	manifestRaw := make([]byte, manifestSize)
	if _, err := io.ReadFull(r, manifestRaw); err != nil {
		return nil, &TruncatedPayloadError{Section: "manifest", Err: err}
	}

	manifest := &metadata.DeltaArchiveManifest{}
	if err := proto.Unmarshal(manifestRaw, manifest); err != nil {
		return nil, &ManifestDecodeError{Err: err}
	}

	dataOffset := headerSize + int64(manifestSize) + int64(metadataSigSize)

	return &Envelope{
		Version:               version,
		Manifest:              manifest,
		MetadataSignatureSize: metadataSigSize,
		HeaderSize:            headerSize,
		DataOffset:            dataOffset,
	}, nil
}
