// Copyright The Mantle Authors
// SPDX-License-Identifier: Apache-2.0

package payload

import (
	"encoding/base64"
	"fmt"
	"strings"

	"github.com/dustin/go-humanize"

	"github.com/flatcar/ota-payload/update/metadata"
)

// Summary renders a human-readable overview of a payload's envelope and
// partitions, the same information `payload inspect` prints.
func (r *Reader) Summary(dumpOps map[string]bool) string {
	m := r.Envelope.Manifest
	var b strings.Builder

	fmt.Fprintf(&b, "version: %d\n", r.Envelope.Version)
	fmt.Fprintf(&b, "block_size: %d (0x%x)\n", m.GetBlockSize(), m.GetBlockSize())
	fmt.Fprintf(&b, "minor_version: %d\n", m.GetMinorVersion())
	fmt.Fprintf(&b, "data_offset: 0x%x\n", r.Envelope.DataOffset)
	fmt.Fprintf(&b, "partitions: %d\n", len(m.GetPartitions()))
	b.WriteString("\n==========\n\n")

	for _, p := range m.GetPartitions() {
		name := p.GetPartitionName()
		fmt.Fprintf(&b, "name: %s\n", name)
		fmt.Fprintf(&b, "old_size: %s\n", sizeOf(p.GetOldPartitionInfo()))
		fmt.Fprintf(&b, "new_size: %s\n", sizeOf(p.GetNewPartitionInfo()))
		fmt.Fprintf(&b, "num_operations: %d\n", len(p.GetOperations()))
		if p.GetRunPostinstall() {
			fmt.Fprintf(&b, "postinstall: %s\n", p.GetPostinstallPath())
		}

		if dumpOps == nil || (len(dumpOps) > 0 && !dumpOps[name]) {
			b.WriteString("\n")
			continue
		}

		b.WriteString("operations:\n")
		for _, op := range p.GetOperations() {
			fmt.Fprintf(&b, "- %s\n", formatOperation(op))
		}
		b.WriteString("\n")
	}

	return b.String()
}

func sizeOf(info *metadata.PartitionInfo) string {
	if info == nil {
		return "unknown"
	}
	return humanize.Bytes(info.GetSize())
}

func formatOperation(op *metadata.InstallOperation) string {
	var b strings.Builder
	fmt.Fprintf(&b, "{ type: %s, ", op.GetType())

	if op.GetDataLength() > 0 {
		fmt.Fprintf(&b, "data: 0x%x..0x%x (%s), ", op.GetDataOffset(),
			op.GetDataOffset()+op.GetDataLength(), humanize.Bytes(op.GetDataLength()))
	} else {
		b.WriteString("data: none, ")
	}

	fmt.Fprintf(&b, "src_sha256: %s, ", hashOrNone(op.GetSrcSha256Hash()))
	fmt.Fprintf(&b, "data_sha256: %s, ", hashOrNone(op.GetDataSha256Hash()))
	fmt.Fprintf(&b, "src_extents: %s, ", formatExtents(op.GetSrcExtents()))
	fmt.Fprintf(&b, "dst_extents: %s }", formatExtents(op.GetDstExtents()))

	return b.String()
}

func hashOrNone(h []byte) string {
	if len(h) == 0 {
		return "none"
	}
	return base64.StdEncoding.EncodeToString(h)
}

func formatExtents(extents []*metadata.Extent) string {
	parts := make([]string, len(extents))
	for i, e := range extents {
		parts[i] = fmt.Sprintf("blk%d..blk%d (%d blks)",
			e.GetStartBlock(), e.GetStartBlock()+e.GetNumBlocks(), e.GetNumBlocks())
	}
	return "[" + strings.Join(parts, ", ") + "]"
}
