// Copyright The Mantle Authors
// SPDX-License-Identifier: Apache-2.0

package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/flatcar/ota-payload/update/driver"
)

var (
	inspectCmd = &cobra.Command{
		Use:   "inspect [payload.bin]",
		Short: "print a payload's manifest summary",
		Run:   runInspect,
	}

	dumpOps string
)

func init() {
	inspectCmd.Flags().StringVar(&dumpOps, "dump-ops", "",
		"list operations for the named partitions (comma-separated), or all partitions if given with no value")
	inspectCmd.Flags().Lookup("dump-ops").NoOptDefVal = " "
	root.AddCommand(inspectCmd)
}

func runInspect(cmd *cobra.Command, args []string) {
	if len(args) != 1 {
		fmt.Fprintf(os.Stderr, "Expected exactly one payload path\n")
		os.Exit(1)
	}

	var dump map[string]bool
	if dumpOps != "" {
		dump = map[string]bool{}
		if trimmed := strings.TrimSpace(dumpOps); trimmed != "" {
			for _, name := range strings.Split(trimmed, ",") {
				dump[strings.TrimSpace(name)] = true
			}
		}
	}

	summary, err := driver.Inspect(args[0], dump)
	if err != nil {
		fmt.Fprintf(os.Stderr, "%v\n", err)
		os.Exit(1)
	}
	fmt.Print(summary)
}
