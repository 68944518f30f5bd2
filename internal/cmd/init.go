// SPDX-FileCopyrightText: 2025 Tobias Böhm <code@aibor.de>
//
// SPDX-License-Identifier: GPL-3.0-or-later

package cmd

import (
	"io"
	"log/slog"

	"github.com/aibor/guestinit/internal/agent"
	"github.com/aibor/guestinit/internal/guestconfig"
	"github.com/aibor/guestinit/sysinit"
)

// initFuncs returns the [sysinit.Func]s that bring up the guest, in the
// order they must run.
func initFuncs(
	sys sysinit.Syscalls,
	cfg sysinit.Config,
	guestCfg *guestconfig.Config,
	agentCfg agent.Config,
) []sysinit.Func {
	return []sysinit.Func{
		sysinit.WithPlan(sys, sysinit.BootPlan(cfg)),
		sysinit.WithEnv(cfg.Env),
		guestconfig.WithConfig(guestCfg, sys, cfg.Network.Nameserver),
		sysinit.WithNetwork(cfg.Network),
		sysinit.WithReaper(),
		agent.WithServer(agentCfg),
	}
}

// RunInit is the main entry point of the guest init. It only returns if the
// system could not be set up.
func RunInit(args []string, output io.Writer) int {
	flags := newInitFlags(output)

	err := flags.ParseArgs(args)
	if err != nil {
		setupLogging(output, debugFromEnv())
		return handleParseArgsError(err)
	}

	setupLogging(output, flags.Debug || debugFromEnv())

	if !sysinit.IsPidOne() {
		slog.Error(sysinit.ErrNotPidOne.Error())
		return exitCodeFailure
	}

	// The descriptor lives in the initramfs, so it must be read before the
	// root is switched.
	guestCfg, err := guestconfig.Load(flags.ConfigPath)
	if err != nil {
		slog.Error("Failed to load guest config",
			slog.String("path", flags.ConfigPath),
			slog.Any("error", err),
		)

		return exitCodeFailure
	}

	agentCfg := agent.DefaultConfig()
	agentCfg.Port = flags.VsockPort

	sysinit.Run(initFuncs(
		sysinit.UnixSyscalls{},
		sysinit.DefaultConfig(),
		guestCfg,
		agentCfg,
	)...)

	return exitCodeFailure
}
