// Copyright The Mantle Authors
// SPDX-License-Identifier: Apache-2.0

package engine

import (
	"compress/bzip2"
	"context"
	"fmt"
	"io"

	"github.com/andybalholm/brotli"
	"github.com/coreos/pkg/capnslog"
	"github.com/ulikunitz/xz"

	"github.com/flatcar/ota-payload/update/extent"
	"github.com/flatcar/ota-payload/util"
)

var plog = capnslog.NewPackageLogger("github.com/flatcar/ota-payload", "update/engine")

func execReplace(ctx context.Context, oc *opContext) error {
	return streamToDst(oc, oc.blob)
}

func execReplaceBZ(ctx context.Context, oc *opContext) error {
	return streamToDst(oc, bzip2.NewReader(oc.blob))
}

func execReplaceXZ(ctx context.Context, oc *opContext) error {
	r, err := xz.NewReader(oc.blob)
	if err != nil {
		return &DecompressionError{Format: "xz", Err: err}
	}
	return streamToDst(oc, r)
}

func execReplaceBrotli(ctx context.Context, oc *opContext) error {
	return streamToDst(oc, brotli.NewReader(oc.blob))
}

// streamToDst copies r, decompressed or not, into the operation's
// destination extents in a single streaming pass, logging progress at
// INFO level the same way a file download does.
func streamToDst(oc *opContext, r io.Reader) error {
	w := oc.dstWriter()
	prefix := fmt.Sprintf("%s %s", oc.partition, oc.op.GetType())
	total := extent.TotalLength(oc.dstExtents)
	_, err := util.CopyProgress(capnslog.INFO, prefix, w, r, total)
	return err
}
