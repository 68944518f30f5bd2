// SPDX-FileCopyrightText: 2024 Tobias Böhm <code@aibor.de>
//
// SPDX-License-Identifier: GPL-3.0-or-later

// Package sysinit provides the building blocks of the guest init that runs as
// PID 1 in a virtual machine.
//
// The boot is a single linear sequence: a [Plan] of privileged [Step]s builds
// /dev, switches the root onto the root block device and mounts the pseudo
// and cgroup file systems. Guest files are written, the network is configured
// via netlink and finally the long running background tasks are started,
// like the [Reaper] that collects the exit status of all orphaned processes.
//
// [Run] ties it together. All failures of required steps are returned as
// *[OpError] and abort the boot.
package sysinit
