// Copyright The Mantle Authors
// SPDX-License-Identifier: Apache-2.0

package engine

import (
	"context"
	"io"

	"github.com/flatcar/ota-payload/update/extent"
)

// execCopy implements both COPY and SOURCE_COPY: the manifest names no
// payload blob, so the destination extents are filled directly from the
// concatenated bytes of the source extents.
func execCopy(ctx context.Context, oc *opContext) error {
	r := extent.NewReader(oc.src, oc.srcExtents)
	w := oc.dstWriter()
	_, err := io.Copy(w, r)
	return err
}
