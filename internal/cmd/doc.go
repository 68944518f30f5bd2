// SPDX-FileCopyrightText: 2025 Tobias Böhm <code@aibor.de>
//
// SPDX-License-Identifier: GPL-3.0-or-later

// Package cmd provides the CLI entry points for the guest init and the
// initramfs packer. It handles flag parsing, logging setup and error handling.
package cmd
