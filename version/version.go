// Copyright The Mantle Authors
// SPDX-License-Identifier: Apache-2.0

// Package version carries the build-time version string, overridden via
// -ldflags "-X github.com/flatcar/ota-payload/version.Version=...".
package version

var Version = "dev"
