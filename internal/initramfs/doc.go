// SPDX-FileCopyrightText: 2025 Tobias Böhm <code@aibor.de>
//
// SPDX-License-Identifier: GPL-3.0-or-later

// Package initramfs builds the initramfs the guest boots from. The archive is
// a newc CPIO archive holding the init binary as /init and the guest config
// descriptor the init reads before it switches to the real root.
package initramfs
