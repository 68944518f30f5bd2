// SPDX-FileCopyrightText: 2025 Tobias Böhm <code@aibor.de>
//
// SPDX-License-Identifier: GPL-3.0-or-later

package sysinit

import (
	"fmt"
	"log/slog"
)

// Step is a single privileged operation of a [Plan].
type Step interface {
	// Apply performs the operation with the given [Syscalls]. Returned
	// errors are of type *[OpError].
	Apply(sys Syscalls) error

	fmt.Stringer
}

// Plan is a totally ordered sequence of [Step]s. Later steps may depend on
// the effects of earlier ones.
type Plan []Step

// Apply applies all [Step]s of the plan in order.
//
// It stops at the first failing step and returns its error. Steps wrapped
// with [BestEffort] do not stop the plan. Their errors are only logged.
func (p Plan) Apply(sys Syscalls) error {
	for _, step := range p {
		err := step.Apply(sys)
		if err == nil {
			slog.Debug("Boot step done", slog.String("step", step.String()))
			continue
		}

		if _, ok := step.(bestEffort); ok {
			slog.Debug("Best-effort boot step failed",
				slog.String("step", step.String()),
				slog.Any("error", err),
			)

			continue
		}

		return err
	}

	return nil
}

type bestEffort struct {
	Step
}

// BestEffort wraps the given [Step] so its failure does not fail the [Plan].
//
// Use it for operations that may legitimately be satisfied already.
func BestEffort(step Step) Step {
	return bestEffort{step}
}

// SwitchRoot is a [Step] that makes the already mounted Dir the root of the
// file system.
//
// It moves the mount at Dir onto "/" and changes the root into it. All paths
// resolve inside the new root afterwards. Dir must be a mount point.
type SwitchRoot struct {
	Dir string
}

func (s SwitchRoot) String() string {
	return "switch root to " + s.Dir
}

// Apply implements [Step].
func (s SwitchRoot) Apply(sys Syscalls) error {
	if err := sys.Chdir(s.Dir); err != nil {
		return opError(OpChdir, s.Dir, "", err)
	}

	if err := sys.Mount(".", "/", "", uintptr(MountFlagMove), ""); err != nil {
		return opError(OpMount, s.Dir, "/", err)
	}

	if err := sys.Chroot("."); err != nil {
		return opError(OpChroot, s.Dir, "", err)
	}

	return opError(OpChdir, "/", "", sys.Chdir("/"))
}

// Rlimit is a [Step] that sets soft and hard limit of a resource as defined
// by setrlimit(2).
type Rlimit struct {
	Resource int
	Limit    uint64
}

func (r Rlimit) String() string {
	return fmt.Sprintf("setrlimit %d to %d", r.Resource, r.Limit)
}

// Apply implements [Step].
func (r Rlimit) Apply(sys Syscalls) error {
	err := sys.Setrlimit(r.Resource, r.Limit)
	return opError(OpRlimit, fmt.Sprint(r.Resource), "", err)
}
