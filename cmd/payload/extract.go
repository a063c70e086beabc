// Copyright The Mantle Authors
// SPDX-License-Identifier: Apache-2.0

package main

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/flatcar/ota-payload/update/driver"
)

var (
	extractCmd = &cobra.Command{
		Use:   "extract [payload.bin]",
		Short: "write a payload's partitions to disk",
		Run:   runExtract,
	}

	extractDst      string
	extractSrc      string
	extractParts    string
	extractSkipHash bool
)

func init() {
	extractCmd.Flags().StringVar(&extractDst, "dst", ".", "directory to write partition images to")
	extractCmd.Flags().StringVar(&extractSrc, "src", "", "directory containing source partition images, for delta payloads")
	extractCmd.Flags().StringVar(&extractParts, "parts", "", "comma-separated partition names to extract, or all if empty")
	extractCmd.Flags().BoolVar(&extractSkipHash, "skip-hash", false, "skip all source, operation, and destination hash verification")
	root.AddCommand(extractCmd)
}

func runExtract(cmd *cobra.Command, args []string) {
	if len(args) != 1 {
		fmt.Fprintf(os.Stderr, "Expected exactly one payload path\n")
		os.Exit(1)
	}

	var parts []string
	if trimmed := strings.TrimSpace(extractParts); trimmed != "" {
		for _, name := range strings.Split(trimmed, ",") {
			parts = append(parts, strings.TrimSpace(name))
		}
	}

	if err := os.MkdirAll(extractDst, 0755); err != nil {
		fmt.Fprintf(os.Stderr, "%v\n", err)
		os.Exit(1)
	}

	err := driver.Extract(context.Background(), args[0], driver.Options{
		DestDir:   extractDst,
		SourceDir: extractSrc,
		Parts:     parts,
		SkipHash:  extractSkipHash,
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "%v\n", err)
		os.Exit(1)
	}
}
