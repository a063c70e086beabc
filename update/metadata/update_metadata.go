// Copyright The Mantle Authors
// SPDX-License-Identifier: Apache-2.0

//go:generate protoc --go_out=import_path=$GOPACKAGE:. update_metadata.proto

// Package metadata defines the wire schema of a payload's embedded
// manifest: the partition, extent, and operation messages that describe
// how to reconstruct each partition from an update payload.
package metadata

// Magic is the first four bytes of any update payload.
const Magic = "CrAU"

// MinVersion and MaxVersion bound the payload major versions this
// package understands. Version 1 carries no metadata signature size in
// its header; version 2 adds one between the manifest size and the
// manifest itself.
const (
	MinVersion = 1
	MaxVersion = 2
)
