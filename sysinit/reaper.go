// SPDX-FileCopyrightText: 2025 Tobias Böhm <code@aibor.de>
//
// SPDX-License-Identifier: GPL-3.0-or-later

package sysinit

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"os/signal"

	"golang.org/x/sys/unix"
)

// WaitFunc reaps a single exited child process without blocking. It returns
// the PID of the reaped process, or a PID <= 0 if no child has exited.
type WaitFunc func() (int, error)

// Reaper collects the exit status of exited child processes.
//
// As PID 1, the init inherits all orphaned processes of the system. If they
// are not reaped, they stay in the process table forever. The Reaper must be
// the only consumer of exit statuses. Nothing else in the init waits for
// child processes.
type Reaper struct {
	// Wait defaults to wait4(2) for any child.
	Wait WaitFunc
	// Logger defaults to [slog.Default].
	Logger *slog.Logger
}

// Run drains all exited children each time an event is received. It returns
// once the context is done or the events channel is closed.
//
// Since signals coalesce, a single event may stand for any number of exited
// children. All of them are reaped before waiting for the next event. An
// initial drain catches children that exited before Run started.
func (r *Reaper) Run(ctx context.Context, events <-chan os.Signal) error {
	r.Reap()

	for {
		select {
		case <-ctx.Done():
			return nil
		case _, ok := <-events:
			if !ok {
				return nil
			}

			r.Reap()
		}
	}
}

// Reap reaps all children that have exited until there are none left. It
// returns the reaped PIDs in the order they were reaped.
func (r *Reaper) Reap() []int {
	var (
		wait   = r.Wait
		logger = r.Logger
		pids   []int
	)

	if wait == nil {
		wait = wait4
	}

	if logger == nil {
		logger = slog.Default()
	}

	for {
		pid, err := wait()
		if err != nil {
			if !errors.Is(err, unix.ECHILD) {
				logger.Error("Wait for children failed", slog.Any("error", err))
			}

			return pids
		}

		if pid <= 0 {
			return pids
		}

		logger.Info("Reaped process", slog.Int("pid", pid))

		pids = append(pids, pid)
	}
}

// WithReaper returns a setup [Func] that subscribes to SIGCHLD and registers
// a [Reaper] as background task. It can be used with [Run].
//
// It must run before anything spawns child processes.
func WithReaper() Func {
	return func(state *State) error {
		events := make(chan os.Signal, 1)
		signal.Notify(events, unix.SIGCHLD)

		state.Cleanup(func() error {
			signal.Stop(events)
			return nil
		})

		reaper := &Reaper{}
		state.Go("reaper", func(ctx context.Context) error {
			return reaper.Run(ctx, events)
		})

		return nil
	}
}
