// SPDX-FileCopyrightText: 2025 Tobias Böhm <code@aibor.de>
//
// SPDX-License-Identifier: GPL-3.0-or-later

// Package guestconfig reads the guest configuration descriptor shipped in the
// initramfs and materializes the files it carries into the guest root.
package guestconfig
