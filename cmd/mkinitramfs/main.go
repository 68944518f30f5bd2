// SPDX-FileCopyrightText: 2025 Tobias Böhm <code@aibor.de>
//
// SPDX-License-Identifier: GPL-3.0-or-later

// Command mkinitramfs packs the guest init and its config descriptor into an
// initramfs archive.
package main

import (
	"os"

	"github.com/aibor/guestinit/internal/cmd"
)

func main() {
	os.Exit(cmd.RunMkinitramfs(os.Args[1:], os.Stderr))
}
