// SPDX-FileCopyrightText: 2025 Tobias Böhm <code@aibor.de>
//
// SPDX-License-Identifier: GPL-3.0-or-later

package sysinit

import (
	"errors"
	"fmt"
)

var (
	// ErrNotPidOne is returned if the process is expected to be run as PID 1
	// but is not.
	ErrNotPidOne = errors.New("process does not have ID 1")
	// ErrPanic is returned if a [Func] panicked.
	ErrPanic = errors.New("function panicked")
	// ErrInterfaceNotFound is returned if a network interface required for
	// the guest network does not exist.
	ErrInterfaceNotFound = errors.New("interface not found")
)

// Op is the kind of operation an [OpError] occurred in.
type Op string

// Operation kinds.
const (
	OpMkdir     Op = "mkdir"
	OpMount     Op = "mount"
	OpChdir     Op = "chdir"
	OpChroot    Op = "chroot"
	OpSymlink   Op = "symlink"
	OpRlimit    Op = "setrlimit"
	OpWriteFile Op = "write file"
	OpHostname  Op = "sethostname"
	OpNetwork   Op = "network"
)

// OpError is returned by all system operations of the init. It carries the
// kind of operation, the paths or interface involved and the underlying
// cause.
type OpError struct {
	Op Op
	// Path is the primary path of the operation. For network operations it
	// is the name of the interface.
	Path string
	// Target is the secondary path, if the operation has one, like the
	// mount point of a mount or the link name of a symlink.
	Target string
	Err    error
}

// Error implements the [error] interface.
func (e *OpError) Error() string {
	msg := string(e.Op)

	if e.Path != "" {
		msg += " " + e.Path
	}

	if e.Target != "" {
		msg += " -> " + e.Target
	}

	return fmt.Sprintf("%s: %v", msg, e.Err)
}

// Is matches any other [OpError] of the same [Op], or any [OpError] if the
// other has no [Op] set.
func (e *OpError) Is(other error) bool {
	otherErr, ok := other.(*OpError)
	if !ok {
		return false
	}

	return otherErr.Op == "" || otherErr.Op == e.Op
}

func (e *OpError) Unwrap() error {
	return e.Err
}

func opError(op Op, path, target string, err error) error {
	if err == nil {
		return nil
	}

	return &OpError{
		Op:     op,
		Path:   path,
		Target: target,
		Err:    err,
	}
}
