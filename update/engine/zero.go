// Copyright The Mantle Authors
// SPDX-License-Identifier: Apache-2.0

package engine

import "context"

const zeroChunkSize = 32 * 1024

// execZero writes zero bytes across the whole destination extent range.
// It also implements DISCARD, whose destination content the manifest
// leaves formally unspecified; zeroing it keeps image hashes
// deterministic and reproducible across runs.
func execZero(ctx context.Context, oc *opContext) error {
	w := oc.dstWriter()
	var remaining int64
	for _, r := range oc.dstExtents {
		remaining += r.Length
	}

	buf := make([]byte, zeroChunkSize)
	for remaining > 0 {
		chunk := buf
		if int64(len(chunk)) > remaining {
			chunk = chunk[:remaining]
		}
		n, err := w.Write(chunk)
		remaining -= int64(n)
		if err != nil {
			return err
		}
	}
	return nil
}
