// Copyright The Mantle Authors
// SPDX-License-Identifier: Apache-2.0

package payload

import (
	"io"
	"os"
	"sync"

	"github.com/flatcar/ota-payload/update/metadata"
)

// Reader gives mutex-guarded random access to the data blobs trailing a
// parsed payload envelope. Payload files are typically read via a single
// *os.File, which is not safe for concurrent ReadAt from multiple
// goroutines seeking independently, so Reader serializes access the same
// way aota's Payload.ReadBytes does.
type Reader struct {
	mu     sync.Mutex
	ra     io.ReaderAt
	closer io.Closer

	Envelope *Envelope
}

// Open opens the payload file at path and parses its envelope.
func Open(path string) (*Reader, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}

	r, err := NewReader(f)
	if err != nil {
		f.Close()
		return nil, err
	}
	r.closer = f
	return r, nil
}

// NewReader parses the envelope from ra (which must also support
// sequential reads from offset 0) and returns a Reader for its data
// section. ra is retained for later ReadBlob calls.
func NewReader(ra interface {
	io.ReaderAt
	io.Reader
}) (*Reader, error) {
	env, err := ParseEnvelope(ra)
	if err != nil {
		return nil, err
	}
	return &Reader{ra: ra, Envelope: env}, nil
}

// Manifest returns the parsed manifest.
func (r *Reader) Manifest() *metadata.DeltaArchiveManifest {
	return r.Envelope.Manifest
}

// BlockSize returns the manifest's block size, or the protocol default.
func (r *Reader) BlockSize() uint32 {
	return r.Envelope.Manifest.GetBlockSize()
}

// Partition looks up a partition update by name.
func (r *Reader) Partition(name string) (*metadata.PartitionUpdate, error) {
	for _, p := range r.Envelope.Manifest.GetPartitions() {
		if p.GetPartitionName() == name {
			return p, nil
		}
	}
	return nil, &UnknownPartitionError{Name: name}
}

// ReadBlob returns a reader over length bytes starting at offset within
// the payload's data section, i.e. relative to Envelope.DataOffset. This
// is the window an InstallOperation's DataOffset/DataLength addresses.
func (r *Reader) ReadBlob(offset, length int64) io.Reader {
	return io.NewSectionReader(r, r.Envelope.DataOffset+offset, length)
}

// ReadAt implements io.ReaderAt directly against the underlying payload
// file, serializing access since the backing file descriptor's read
// position is shared across concurrent callers.
func (r *Reader) ReadAt(p []byte, off int64) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.ra.ReadAt(p, off)
}

// Close releases the underlying file, if Reader opened one itself via
// Open.
func (r *Reader) Close() error {
	if r.closer == nil {
		return nil
	}
	return r.closer.Close()
}
