// Copyright The Mantle Authors
// SPDX-License-Identifier: Apache-2.0

package generator

import (
	"crypto/sha256"
	"io"
	"os"

	"github.com/golang/protobuf/proto"

	"github.com/flatcar/ota-payload/update/metadata"
)

// NewPartitionInfo hashes and measures r, rewinding it back to the start
// once done, and returns the PartitionInfo a generated manifest should
// record for it.
func NewPartitionInfo(r io.ReadSeeker) (*metadata.PartitionInfo, error) {
	sha := sha256.New()
	size, err := io.Copy(sha, r)
	if err != nil {
		return nil, err
	}

	if _, err := r.Seek(0, os.SEEK_SET); err != nil {
		return nil, err
	}

	return &metadata.PartitionInfo{
		Hash: sha.Sum(nil),
		Size: proto.Uint64(uint64(size)),
	}, nil
}
