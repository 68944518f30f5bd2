// SPDX-FileCopyrightText: 2024 Tobias Böhm <code@aibor.de>
//
// SPDX-License-Identifier: GPL-3.0-or-later

package sysinit

import (
	"context"
	"log/slog"
	"slices"
)

// CleanupFunc releases a resource acquired by a [Func].
type CleanupFunc func() error

// TaskFunc is a long running background task. It is expected to run for the
// whole lifetime of the init.
type TaskFunc func(ctx context.Context) error

type task struct {
	name string
	fn   TaskFunc
}

// State is passed along all [Func]s run by [Run].
type State struct {
	cleanupFns []CleanupFunc
	tasks      []task
}

// Cleanup registers a function that is run if the boot fails.
//
// Cleanup functions run in reverse order of registration.
func (s *State) Cleanup(fn CleanupFunc) {
	s.cleanupFns = append(s.cleanupFns, fn)
}

// Go registers a background task that is started once all [Func]s
// succeeded.
func (s *State) Go(name string, fn TaskFunc) {
	s.tasks = append(s.tasks, task{name: name, fn: fn})
}

func (s *State) doCleanup() {
	slices.Reverse(s.cleanupFns)

	for _, fn := range s.cleanupFns {
		if err := fn(); err != nil {
			slog.Error("Cleanup failed", slog.Any("error", err))
		}
	}

	s.cleanupFns = nil
}
