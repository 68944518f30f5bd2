// SPDX-FileCopyrightText: 2024 Tobias Böhm <code@aibor.de>
//
// SPDX-License-Identifier: GPL-3.0-or-later

package sysinit

import (
	"os"

	"golang.org/x/sys/unix"
)

// Syscalls is the kernel interface [Step]s are applied with.
//
// [UnixSyscalls] is the implementation that actually modifies the running
// system. Errors returned are the plain errors of the syscalls. Wrapping them
// into [OpError] is the responsibility of the [Step].
type Syscalls interface {
	Mkdir(path string, mode uint32) error
	Mount(source, target, fsType string, flags uintptr, data string) error
	Chdir(path string) error
	Chroot(path string) error
	Symlink(target, link string) error
	Setrlimit(resource int, limit uint64) error
	Sethostname(name string) error
}

// UnixSyscalls implements [Syscalls] with the syscalls of the running kernel.
type UnixSyscalls struct{}

var _ Syscalls = UnixSyscalls{}

func (UnixSyscalls) Mkdir(path string, mode uint32) error {
	//nolint:wrapcheck
	return unix.Mkdir(path, mode)
}

func (UnixSyscalls) Mount(
	source, target, fsType string,
	flags uintptr,
	data string,
) error {
	//nolint:wrapcheck
	return unix.Mount(source, target, fsType, flags, data)
}

func (UnixSyscalls) Chdir(path string) error {
	//nolint:wrapcheck
	return unix.Chdir(path)
}

func (UnixSyscalls) Chroot(path string) error {
	//nolint:wrapcheck
	return unix.Chroot(path)
}

func (UnixSyscalls) Symlink(target, link string) error {
	//nolint:wrapcheck
	return unix.Symlink(target, link)
}

func (UnixSyscalls) Setrlimit(resource int, limit uint64) error {
	rlimit := unix.Rlimit{Cur: limit, Max: limit}

	//nolint:wrapcheck
	return unix.Setrlimit(resource, &rlimit)
}

func (UnixSyscalls) Sethostname(name string) error {
	//nolint:wrapcheck
	return unix.Sethostname([]byte(name))
}

func getpid() int {
	return os.Getpid()
}

func setenv(key, value string) error {
	//nolint:wrapcheck
	return os.Setenv(key, value)
}

// wait4 reaps a single exited child without blocking. It returns 0 if there
// are children but none has exited.
func wait4() (int, error) {
	var status unix.WaitStatus

	for {
		pid, err := unix.Wait4(-1, &status, unix.WNOHANG, nil)
		if err == unix.EINTR { //nolint:errorlint
			continue
		}

		//nolint:wrapcheck
		return pid, err
	}
}

func exit(code int) {
	os.Exit(code)
}
