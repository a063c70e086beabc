// Copyright The Mantle Authors
// SPDX-License-Identifier: Apache-2.0

package main

import (
	"github.com/spf13/cobra"

	"github.com/flatcar/ota-payload/cli"
)

var root = &cobra.Command{
	Use:   "payload",
	Short: "Inspect and extract Android OTA payload.bin files",
}

func main() {
	cli.Execute(root)
}
