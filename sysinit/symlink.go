// SPDX-FileCopyrightText: 2025 Tobias Böhm <code@aibor.de>
//
// SPDX-License-Identifier: GPL-3.0-or-later

package sysinit

// DevSymlinks returns the well-known symlinks for /dev pointing into /proc.
//
// They must be created after /dev and /proc are mounted.
func DevSymlinks() []Symlink {
	return []Symlink{
		{Link: "/dev/fd", Target: "/proc/self/fd"},
		{Link: "/dev/stdin", Target: "/proc/self/fd/0"},
		{Link: "/dev/stdout", Target: "/proc/self/fd/1"},
		{Link: "/dev/stderr", Target: "/proc/self/fd/2"},
	}
}

// Symlink is a [Step] that creates the symbolic link Link pointing to
// Target.
type Symlink struct {
	Link   string
	Target string
}

func (s Symlink) String() string {
	return "symlink " + s.Link + " to " + s.Target
}

// Apply implements [Step].
func (s Symlink) Apply(sys Syscalls) error {
	return opError(OpSymlink, s.Target, s.Link, sys.Symlink(s.Target, s.Link))
}
