// SPDX-FileCopyrightText: 2025 Tobias Böhm <code@aibor.de>
//
// SPDX-License-Identifier: GPL-3.0-or-later

// Command init is the PID 1 of the guest. It bootstraps the guest system and
// serves the control plane.
package main

import (
	"os"

	"github.com/aibor/guestinit/internal/cmd"
)

func main() {
	os.Exit(cmd.RunInit(os.Args[1:], os.Stderr))
}
