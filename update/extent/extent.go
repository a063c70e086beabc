// Copyright The Mantle Authors
// SPDX-License-Identifier: Apache-2.0

// Package extent maps a partition's block extents onto byte ranges and
// presents them, over an otherwise discontiguous backing file, as one
// flat addressable span with sequential Reader/Writer adapters, so
// operation executors can treat a list of extents as a single stream.
package extent

import (
	"fmt"
	"io"
	"sort"

	"github.com/flatcar/ota-payload/update/metadata"
)

// Range is a contiguous byte span within a backing file.
type Range struct {
	Offset int64
	Length int64
}

// End returns the exclusive end offset of the range.
func (r Range) End() int64 { return r.Offset + r.Length }

// BlockRanges converts a manifest's block extents into byte ranges using
// blockSize. Extents with zero blocks are dropped.
func BlockRanges(extents []*metadata.Extent, blockSize uint32) []Range {
	ranges := make([]Range, 0, len(extents))
	for _, e := range extents {
		n := e.GetNumBlocks()
		if n == 0 {
			continue
		}
		ranges = append(ranges, Range{
			Offset: int64(e.GetStartBlock()) * int64(blockSize),
			Length: int64(n) * int64(blockSize),
		})
	}
	return ranges
}

// TotalLength sums the length of every range.
func TotalLength(ranges []Range) int64 {
	var total int64
	for _, r := range ranges {
		total += r.Length
	}
	return total
}

// Sorted reports whether ranges are in increasing, non-overlapping
// order, which InstallOperation extents are required to be.
func Sorted(ranges []Range) bool {
	return sort.SliceIsSorted(ranges, func(i, j int) bool {
		return ranges[i].Offset < ranges[j].Offset
	}) && nonOverlapping(ranges)
}

func nonOverlapping(ranges []Range) bool {
	for i := 1; i < len(ranges); i++ {
		if ranges[i].Offset < ranges[i-1].End() {
			return false
		}
	}
	return true
}

// Span presents a sequence of byte ranges over a backing io.ReaderAt or
// io.WriterAt as a single flat address space addressed 0..TotalLength.
// Its ReadAt and WriteAt methods take the backing reader or writer as an
// argument (so Span itself is not an io.ReaderAt or io.WriterAt) and
// locate which underlying range a given flat offset falls into.
type Span struct {
	ranges []Range
	starts []int64 // starts[i] is the flat offset where ranges[i] begins
}

// NewSpan builds a Span over ranges. The ranges need not be sorted by
// offset in the backing file, but callers iterate them in the order
// given, which for InstallOperation extents is already disk order.
func NewSpan(ranges []Range) *Span {
	starts := make([]int64, len(ranges))
	var pos int64
	for i, r := range ranges {
		starts[i] = pos
		pos += r.Length
	}
	return &Span{ranges: ranges, starts: starts}
}

// Len returns the flat length of the span.
func (s *Span) Len() int64 {
	if len(s.ranges) == 0 {
		return 0
	}
	last := len(s.ranges) - 1
	return s.starts[last] + s.ranges[last].Length
}

// locate returns the index of the range containing flat offset off, and
// the backing-file offset corresponding to it.
func (s *Span) locate(off int64) (int, int64, bool) {
	// Ranges are typically few (one per operation extent list), so a
	// linear scan is simpler than maintaining a sorted index and plenty
	// fast in practice.
	for i, r := range s.ranges {
		start := s.starts[i]
		if off >= start && off < start+r.Length {
			return i, r.Offset + (off - start), true
		}
	}
	if off == s.Len() {
		return len(s.ranges), 0, false
	}
	return -1, 0, false
}

// ReadAt reads from a backing io.ReaderAt, translating flat offsets into
// the appropriate underlying ranges and stopping a read at a range
// boundary so callers see one range's worth of bytes per call. A read
// cut short at a boundary returns a nil error.
func (s *Span) ReadAt(src io.ReaderAt, p []byte, off int64) (int, error) {
	idx, real, ok := s.locate(off)
	if !ok {
		if off >= s.Len() {
			return 0, io.EOF
		}
		return 0, fmt.Errorf("extent: offset %d out of range", off)
	}

	remaining := s.ranges[idx].End() - real
	if int64(len(p)) > remaining {
		p = p[:remaining]
	}
	n, err := src.ReadAt(p, real)
	if err == nil && int64(n) == remaining && idx == len(s.ranges)-1 {
		err = io.EOF
	}
	return n, err
}

// WriteAt writes to a backing io.WriterAt, the write analogue of ReadAt;
// a write that would cross a range boundary is rejected.
func (s *Span) WriteAt(dst io.WriterAt, p []byte, off int64) (int, error) {
	idx, real, ok := s.locate(off)
	if !ok {
		return 0, fmt.Errorf("extent: offset %d out of range", off)
	}

	remaining := s.ranges[idx].End() - real
	if int64(len(p)) > remaining {
		return 0, fmt.Errorf("extent: write of %d bytes at %d overflows range [%d,%d)",
			len(p), off, s.ranges[idx].Offset, s.ranges[idx].End())
	}
	return dst.WriteAt(p, real)
}

// Reader adapts a Span and its backing io.ReaderAt into a sequential
// io.Reader, reading across range boundaries transparently.
type Reader struct {
	span *Span
	src  io.ReaderAt
	pos  int64
}

// NewReader returns a Reader that reads ranges from src in sequence.
func NewReader(src io.ReaderAt, ranges []Range) *Reader {
	return &Reader{span: NewSpan(ranges), src: src}
}

func (r *Reader) Read(p []byte) (int, error) {
	if r.pos >= r.span.Len() {
		return 0, io.EOF
	}
	n, err := r.span.ReadAt(r.src, p, r.pos)
	r.pos += int64(n)
	if err == io.EOF && n > 0 {
		err = nil
	}
	return n, err
}

// Writer adapts a Span and its backing io.WriterAt into a sequential
// io.Writer, writing across range boundaries transparently.
type Writer struct {
	span *Span
	dst  io.WriterAt
	pos  int64
}

// NewWriter returns a Writer that writes ranges into dst in sequence.
func NewWriter(dst io.WriterAt, ranges []Range) *Writer {
	return &Writer{span: NewSpan(ranges), dst: dst}
}

func (w *Writer) Write(p []byte) (int, error) {
	total := 0
	for len(p) > 0 {
		if w.pos >= w.span.Len() {
			return total, io.ErrShortWrite
		}
		idx, _, ok := w.span.locate(w.pos)
		if !ok {
			return total, io.ErrShortWrite
		}
		remaining := w.span.ranges[idx].End() - (w.span.ranges[idx].Offset + (w.pos - w.span.starts[idx]))
		chunk := p
		if int64(len(chunk)) > remaining {
			chunk = chunk[:remaining]
		}

		n, err := w.span.WriteAt(w.dst, chunk, w.pos)
		total += n
		w.pos += int64(n)
		p = p[n:]
		if err != nil {
			return total, err
		}
	}
	return total, nil
}
