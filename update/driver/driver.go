// Copyright The Mantle Authors
// SPDX-License-Identifier: Apache-2.0

// Package driver is the top-level entry point tying the payload reader
// and the partition updater together: given a payload file and a set of
// options, it extracts selected partitions or prints an inspection
// summary.
package driver

import (
	"context"
	"fmt"

	"github.com/flatcar/ota-payload/update/engine"
	"github.com/flatcar/ota-payload/update/payload"
)

// Options configures an extraction run.
type Options struct {
	DestDir   string
	SourceDir string
	// Parts filters which partitions to process by name. Empty means
	// every partition in the manifest.
	Parts    []string
	SkipHash bool
}

// Extract opens payloadPath and writes every selected partition's new
// image into opts.DestDir, in manifest order. A name in opts.Parts that
// does not appear in the manifest is an UnknownPartitionError.
func Extract(ctx context.Context, payloadPath string, opts Options) error {
	r, err := payload.Open(payloadPath)
	if err != nil {
		return err
	}
	defer r.Close()

	if err := checkKnownParts(r, opts.Parts); err != nil {
		return err
	}
	filter := partFilter(opts.Parts)

	for _, pu := range r.Manifest().GetPartitions() {
		name := pu.GetPartitionName()
		if filter != nil && !filter[name] {
			continue
		}

		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		err := engine.UpdatePartition(ctx, pu, r.BlockSize(), r, engine.Options{
			DestDir:   opts.DestDir,
			SourceDir: opts.SourceDir,
			SkipHash:  opts.SkipHash,
		})
		if err != nil {
			return fmt.Errorf("extracting partition %q: %w", name, err)
		}
	}

	return nil
}

// Inspect opens payloadPath and returns a human-readable summary of its
// envelope and partitions. dumpOps controls per-partition operation
// listing: nil prints no operations, an empty, non-nil map dumps every
// partition's operations, and a populated map dumps only the named ones.
func Inspect(payloadPath string, dumpOps map[string]bool) (string, error) {
	r, err := payload.Open(payloadPath)
	if err != nil {
		return "", err
	}
	defer r.Close()

	return r.Summary(dumpOps), nil
}

func partFilter(parts []string) map[string]bool {
	if len(parts) == 0 {
		return nil
	}
	m := make(map[string]bool, len(parts))
	for _, p := range parts {
		m[p] = true
	}
	return m
}

func checkKnownParts(r *payload.Reader, parts []string) error {
	for _, name := range parts {
		if _, err := r.Partition(name); err != nil {
			return err
		}
	}
	return nil
}
