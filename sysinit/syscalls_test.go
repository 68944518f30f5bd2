// SPDX-FileCopyrightText: 2025 Tobias Böhm <code@aibor.de>
//
// SPDX-License-Identifier: GPL-3.0-or-later

package sysinit_test

import (
	"fmt"
	"slices"

	"github.com/aibor/guestinit/sysinit"
	"golang.org/x/sys/unix"
)

type mountCall struct {
	Source string
	Target string
	FSType string
	Flags  uintptr
	Data   string
}

// recordingSyscalls records all calls in order. Calls listed in failOn
// return the given error. Directories listed in existing fail with EEXIST.
type recordingSyscalls struct {
	calls    []string
	mounts   []mountCall
	failOn   map[string]error
	existing []string
}

var _ sysinit.Syscalls = (*recordingSyscalls)(nil)

func (r *recordingSyscalls) record(format string, args ...any) error {
	call := fmt.Sprintf(format, args...)
	r.calls = append(r.calls, call)

	return r.failOn[call]
}

func (r *recordingSyscalls) Mkdir(path string, _ uint32) error {
	err := r.record("mkdir %s", path)
	if err == nil && slices.Contains(r.existing, path) {
		return unix.EEXIST
	}

	return err
}

func (r *recordingSyscalls) Mount(
	source, target, fsType string,
	flags uintptr,
	data string,
) error {
	r.mounts = append(r.mounts, mountCall{source, target, fsType, flags, data})
	return r.record("mount %s %s", source, target)
}

func (r *recordingSyscalls) Chdir(path string) error {
	return r.record("chdir %s", path)
}

func (r *recordingSyscalls) Chroot(path string) error {
	return r.record("chroot %s", path)
}

func (r *recordingSyscalls) Symlink(target, link string) error {
	return r.record("symlink %s %s", target, link)
}

func (r *recordingSyscalls) Setrlimit(resource int, limit uint64) error {
	return r.record("setrlimit %d %d", resource, limit)
}

func (r *recordingSyscalls) Sethostname(name string) error {
	return r.record("sethostname %s", name)
}

func (r *recordingSyscalls) index(call string) int {
	return slices.Index(r.calls, call)
}
