// Copyright The Mantle Authors
// SPDX-License-Identifier: Apache-2.0

package engine

import (
	"bytes"
	"context"
	"io"

	"github.com/andybalholm/brotli"

	"github.com/flatcar/ota-payload/update/bspatch"
)

func execSourceBsdiff(ctx context.Context, oc *opContext) error {
	return applyBsdiff(oc, oc.blob, "")
}

func execBrotliBsdiff(ctx context.Context, oc *opContext) error {
	return applyBsdiff(oc, brotli.NewReader(oc.blob), "brotli")
}

// applyBsdiff reads the full patch stream into memory (data_length bytes
// for SOURCE_BSDIFF, the decompressed size for BROTLI_BSDIFF) and
// applies it against the operation's
// source extents, writing the result to its destination extents.
// decompFormat names the format that produced patchStream, for error
// attribution, or "" if patchStream is the raw payload blob.
func applyBsdiff(oc *opContext, patchStream io.Reader, decompFormat string) error {
	patchBytes, err := io.ReadAll(patchStream)
	if err != nil {
		if decompFormat != "" {
			return &DecompressionError{Format: decompFormat, Err: err}
		}
		return err
	}

	old, oldSize := oc.srcReaderAt()
	w := oc.dstWriter()

	patch := bytes.NewReader(patchBytes)
	if err := bspatch.Apply(old, oldSize, patch, int64(len(patchBytes)), w); err != nil {
		return &PatchApplicationError{Err: err}
	}
	return nil
}
