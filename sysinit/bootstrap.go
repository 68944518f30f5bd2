// SPDX-FileCopyrightText: 2025 Tobias Böhm <code@aibor.de>
//
// SPDX-License-Identifier: GPL-3.0-or-later

package sysinit

import "log/slog"

// Bootstrap applies the given [Plan] with the given [Syscalls].
//
// It must run before any concurrent task is started, so no one can observe
// the file system in a half constructed state.
func Bootstrap(sys Syscalls, plan Plan) error {
	slog.Info("Bootstrapping guest system", slog.Int("steps", len(plan)))

	if err := plan.Apply(sys); err != nil {
		return err
	}

	slog.Info("Guest system bootstrapped")

	return nil
}

// WithPlan returns a setup [Func] that wraps [Bootstrap] and can be used
// with [Run].
func WithPlan(sys Syscalls, plan Plan) Func {
	return func(_ *State) error {
		return Bootstrap(sys, plan)
	}
}
