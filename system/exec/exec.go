// Copyright The Mantle Authors
// SPDX-License-Identifier: Apache-2.0

// Package exec wraps os/exec with context-aware cancellation and a
// multicall entrypoint mechanism for re-executing the current binary
// under a different identity.
package exec

import (
	"context"
	"os/exec"
)

// ExecCmd wraps exec.Cmd, adding a Kill helper for callers that need to
// tear down a child process directly rather than through context
// cancellation.
type ExecCmd struct {
	*exec.Cmd
}

// Command returns an ExecCmd to execute the named program with the
// given arguments, analogous to os/exec.Command.
func Command(name string, arg ...string) *ExecCmd {
	return &ExecCmd{exec.Command(name, arg...)}
}

// CommandContext is like Command but the child process is killed when
// ctx is done.
func CommandContext(ctx context.Context, name string, arg ...string) *ExecCmd {
	return &ExecCmd{exec.CommandContext(ctx, name, arg...)}
}

// Kill sends SIGKILL to the child process and waits for it to exit, so
// ProcessState is populated when Kill returns. It is a no-op if the
// process has not been started.
func (c *ExecCmd) Kill() error {
	if c.Process == nil {
		return nil
	}
	if err := c.Process.Kill(); err != nil {
		return err
	}
	// Wait always reports the kill as an error; it is expected here.
	c.Wait()
	return nil
}

// IsCmdNotFound reports whether err indicates that the executable named
// in a Command/CommandContext call could not be found on PATH.
func IsCmdNotFound(err error) bool {
	eerr, ok := err.(*exec.Error)
	return ok && eerr.Err == exec.ErrNotFound
}
