// Copyright The Mantle Authors
// SPDX-License-Identifier: Apache-2.0

package extent

import (
	"bytes"
	"io"
	"testing"

	"github.com/golang/protobuf/proto"

	"github.com/flatcar/ota-payload/update/metadata"
)

const testBlockSize = 3

func rawExtents() []*metadata.Extent {
	pairs := [][2]uint64{{0, 4}, {6, 5}, {20, 13}, {80, 100}}
	out := make([]*metadata.Extent, len(pairs))
	for i, p := range pairs {
		out[i] = &metadata.Extent{
			StartBlock: proto.Uint64(p[0]),
			NumBlocks:  proto.Uint64(p[1]),
		}
	}
	return out
}

func TestBlockRanges(t *testing.T) {
	got := BlockRanges(rawExtents(), testBlockSize)
	want := []Range{
		{Offset: 0, Length: 12},
		{Offset: 18, Length: 15},
		{Offset: 60, Length: 39},
		{Offset: 240, Length: 300},
	}
	if len(got) != len(want) {
		t.Fatalf("got %d ranges, want %d", len(got), len(want))
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("range %d = %+v, want %+v", i, got[i], want[i])
		}
	}
}

func testRanges() []Range {
	pairs := [][2]int64{{0, 3}, {5, 2}, {7, 3}, {20, 5}}
	out := make([]Range, len(pairs))
	for i, p := range pairs {
		out[i] = Range{Offset: p[0], Length: p[1]}
	}
	return out
}

func TestSpanReader(t *testing.T) {
	ranges := testRanges()
	innerLen := ranges[len(ranges)-1].End()

	src := make([]byte, innerLen+10)
	for i := range src {
		src[i] = byte(2*i + 1)
	}

	r := NewReader(bytes.NewReader(src), ranges)
	dst, err := io.ReadAll(r)
	if err != nil {
		t.Fatal(err)
	}

	want := []byte{1, 3, 5, 11, 13, 15, 17, 19, 41, 43, 45, 47, 49}
	if !bytes.Equal(dst, want) {
		t.Errorf("read %v, want %v", dst, want)
	}
}

type byteAtBuf struct {
	buf []byte
}

func (b *byteAtBuf) WriteAt(p []byte, off int64) (int, error) {
	if end := off + int64(len(p)); end > int64(len(b.buf)) {
		return 0, io.ErrShortWrite
	}
	copy(b.buf[off:], p)
	return len(p), nil
}

func (b *byteAtBuf) ReadAt(p []byte, off int64) (int, error) {
	return bytes.NewReader(b.buf).ReadAt(p, off)
}

func TestSpanWriter(t *testing.T) {
	ranges := testRanges()
	innerLen := ranges[len(ranges)-1].End()

	src := make([]byte, 13)
	for i := range src {
		src[i] = byte(2*i + 1)
	}

	dst := &byteAtBuf{buf: make([]byte, innerLen)}
	w := NewWriter(dst, ranges)

	n, err := w.Write(src)
	if err != nil {
		t.Fatal(err)
	}
	if n != len(src) {
		t.Fatalf("wrote %d bytes, want %d", n, len(src))
	}

	want := []byte{1, 3, 5, 0, 0, 7, 9, 11, 13, 15, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 17, 19, 21, 23, 25}
	if !bytes.Equal(dst.buf, want) {
		t.Errorf("dst = %v, want %v", dst.buf, want)
	}
}

func TestSorted(t *testing.T) {
	if !Sorted(testRanges()) {
		t.Errorf("expected disjoint increasing ranges to be reported sorted")
	}

	overlapping := []Range{{Offset: 0, Length: 10}, {Offset: 5, Length: 10}}
	if Sorted(overlapping) {
		t.Errorf("expected overlapping ranges to be reported unsorted")
	}
}
