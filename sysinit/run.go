// SPDX-FileCopyrightText: 2024 Tobias Böhm <code@aibor.de>
//
// SPDX-License-Identifier: GPL-3.0-or-later

package sysinit

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"golang.org/x/sync/errgroup"
)

const idleInterval = time.Minute

// Func is a function run by [Run].
type Func func(*State) error

// Run is the entry point for the init system.
//
// It runs the given functions sequentially in the order given. Once all of
// them succeeded, the background tasks registered with [State.Go] are started
// and Run idles forever, since the init must never exit while the system is
// running. It must be run as PID 1, otherwise it panics immediately.
//
// If a [Func] fails or panics, the error is logged, the registered cleanup
// functions are run and the process exits with a non-zero exit code. This
// halts the boot of the system.
//
// The given [Func]s must not terminate the program (e.g. by [os.Exit]).
// A typical example would be:
//
//	Run(
//		[WithPlan]([UnixSyscalls]{}, [BootPlan](cfg)),
//		[WithEnv](cfg.Env),
//		[WithNetwork](cfg.Network),
//		func(state *State) error {
//			state.Go("server", serve)
//			return nil
//		},
//	)
func Run(funcs ...Func) {
	if !IsPidOne() {
		panic(ErrNotPidOne)
	}

	state := new(State)

	if err := runFuncs(state, funcs); err != nil {
		slog.Error("Boot failed", slog.Any("error", err))
		state.doCleanup()
		exit(1)

		return
	}

	serve(context.Background(), state, idleInterval)
}

func runFuncs(state *State, funcs []Func) (err error) {
	defer func() {
		rec := recover()
		if rec == nil {
			return
		}

		if recoveredErr, ok := rec.(error); ok {
			err = fmt.Errorf("%w: %w", ErrPanic, recoveredErr)
		} else {
			err = fmt.Errorf("%w: %v", ErrPanic, rec)
		}
	}()

	for _, fn := range funcs {
		if err = fn(state); err != nil {
			return err
		}
	}

	return nil
}

// serve starts all registered background tasks and idles until the context
// is done. Failing tasks are logged. They are not restarted.
func serve(ctx context.Context, state *State, interval time.Duration) {
	var tasks errgroup.Group

	for _, task := range state.tasks {
		slog.Debug("Starting background task", slog.String("task", task.name))

		tasks.Go(func() error {
			err := task.fn(ctx)
			if err != nil {
				slog.Error("Background task failed",
					slog.String("task", task.name),
					slog.Any("error", err),
				)
			}

			return err
		})
	}

	idle(ctx, interval)

	_ = tasks.Wait()
}

func idle(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}
	}
}
