// Copyright The Mantle Authors
// SPDX-License-Identifier: Apache-2.0

// Package engine implements the per-operation-kind executors that turn
// an InstallOperation into bytes written to a partition's destination
// extents, and the partition updater that sequences them.
package engine

import (
	"context"
	"io"

	"github.com/flatcar/ota-payload/update/extent"
	"github.com/flatcar/ota-payload/update/metadata"
)

// opContext carries everything one operation executor needs: its own
// operation record, the payload blob positioned to read exactly
// op.DataLength bytes (nil if the op consumes none), a view of the
// source image (nil if none was provided), and the destination file to
// write into.
type opContext struct {
	op        *metadata.InstallOperation
	partition string

	blob io.Reader

	src        io.ReaderAt
	srcExtents []extent.Range

	dst        io.WriterAt
	dstExtents []extent.Range
}

// executor produces exactly the bytes of op.dst_extents in the
// destination, given whatever inputs the operation kind requires.
type executor func(ctx context.Context, oc *opContext) error

var dispatch = map[metadata.InstallOperation_Type]executor{
	metadata.InstallOperation_REPLACE:        execReplace,
	metadata.InstallOperation_REPLACE_BZ:     execReplaceBZ,
	metadata.InstallOperation_REPLACE_XZ:     execReplaceXZ,
	metadata.InstallOperation_REPLACE_BROTLI: execReplaceBrotli,
	metadata.InstallOperation_ZERO:           execZero,
	metadata.InstallOperation_DISCARD:        execZero,
	metadata.InstallOperation_COPY:           execCopy,
	metadata.InstallOperation_SOURCE_COPY:    execCopy,
	metadata.InstallOperation_SOURCE_BSDIFF:  execSourceBsdiff,
	metadata.InstallOperation_BROTLI_BSDIFF:  execBrotliBsdiff,
}

// dispatchOp runs the executor registered for oc.op's type.
func dispatchOp(ctx context.Context, oc *opContext) error {
	fn, ok := dispatch[oc.op.GetType()]
	if !ok {
		return &UnsupportedOperationError{Type: oc.op.GetType()}
	}
	return fn(ctx, oc)
}

// dstWriter returns a sequential writer over the operation's destination
// extents.
func (oc *opContext) dstWriter() *extent.Writer {
	return extent.NewWriter(oc.dst, oc.dstExtents)
}

// srcReaderAt adapts the operation's source extents into a flat
// io.ReaderAt for random access, which bsdiff needs to honor seeks.
type srcReaderAt struct {
	span *extent.Span
	src  io.ReaderAt
}

// ReadAt keeps reading across range boundaries until p is full or an
// error occurs, since Span.ReadAt stops at the end of each range.
func (s *srcReaderAt) ReadAt(p []byte, off int64) (int, error) {
	total := 0
	for total < len(p) {
		n, err := s.span.ReadAt(s.src, p[total:], off+int64(total))
		total += n
		if err != nil {
			return total, err
		}
		if n == 0 {
			return total, io.ErrNoProgress
		}
	}
	return total, nil
}

func (oc *opContext) srcReaderAt() (*srcReaderAt, int64) {
	span := extent.NewSpan(oc.srcExtents)
	return &srcReaderAt{span: span, src: oc.src}, span.Len()
}
