// SPDX-FileCopyrightText: 2025 Tobias Böhm <code@aibor.de>
//
// SPDX-License-Identifier: GPL-3.0-or-later

// Package agent provides the control-plane server of the guest init. It lets
// the host run arbitrary commands in the guest and read their output.
//
// The server listens on a vsock port, so it is reachable from the host only
// and independent of the guest network.
package agent
