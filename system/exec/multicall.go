// Copyright The Mantle Authors
// SPDX-License-Identifier: Apache-2.0

package exec

import (
	"fmt"
	"os"
)

// entrypointEnv names the environment variable MaybeExec checks to
// decide which registered Entrypoint, if any, to run in place of the
// calling binary's normal main.
const entrypointEnv = "OTA_PAYLOAD_ENTRYPOINT"

var entrypoints = map[string]func(args []string) error{}

// Entrypoint identifies a function registered via NewEntrypoint that can
// be re-invoked in a fresh process by calling its Command method.
type Entrypoint string

// NewEntrypoint registers main under name and returns a handle usable to
// spawn a child process that runs main instead of the parent's own
// command. It panics if name is already registered, since that would
// indicate two packages picked the same multicall name.
func NewEntrypoint(name string, main func(args []string) error) Entrypoint {
	if _, exists := entrypoints[name]; exists {
		panic(fmt.Sprintf("exec: entrypoint %q already registered", name))
	}
	entrypoints[name] = main
	return Entrypoint(name)
}

// Command returns an ExecCmd that re-execs the current binary with args,
// arranging for MaybeExec to dispatch to e's registered function instead
// of running the binary's ordinary main.
func (e Entrypoint) Command(args ...string) *ExecCmd {
	self, err := os.Executable()
	if err != nil {
		self = os.Args[0]
	}

	cmd := Command(self, args...)
	cmd.Env = append(os.Environ(), entrypointEnv+"="+string(e))
	return cmd
}

// MaybeExec checks whether the process was launched via an Entrypoint's
// Command and, if so, runs the registered function and exits the process
// instead of returning. Callers invoke it at the very start of main.
func MaybeExec() {
	name, ok := os.LookupEnv(entrypointEnv)
	if !ok {
		return
	}

	main, ok := entrypoints[name]
	if !ok {
		fmt.Fprintf(os.Stderr, "exec: unknown multicall entrypoint %q\n", name)
		os.Exit(127)
	}

	if err := main(os.Args[1:]); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	os.Exit(0)
}
