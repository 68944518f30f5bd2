// SPDX-FileCopyrightText: 2024 Tobias Böhm <code@aibor.de>
//
// SPDX-License-Identifier: GPL-3.0-or-later

package sysinit

import (
	"errors"
	"fmt"
	"log/slog"

	"golang.org/x/sys/unix"
)

// FSType is a file system type.
type FSType string

// File system types mounted by the init.
const (
	FSTypeNone       FSType = ""
	FSTypeBinfmtMisc FSType = "binfmt_misc"
	FSTypeCgroup     FSType = "cgroup"
	FSTypeCgroup2    FSType = "cgroup2"
	FSTypeDevPts     FSType = "devpts"
	FSTypeDevTmp     FSType = "devtmpfs"
	FSTypeExt4       FSType = "ext4"
	FSTypeHugeTlb    FSType = "hugetlbfs"
	FSTypeMqueue     FSType = "mqueue"
	FSTypeProc       FSType = "proc"
	FSTypeSys        FSType = "sysfs"
	FSTypeTmp        FSType = "tmpfs"

	defaultDirMode = 0o755
)

// MountFlags are flags as defined by mount(2).
type MountFlags uintptr

// Mount flags used by the init.
const (
	MountFlagMove     MountFlags = unix.MS_MOVE
	MountFlagNoAtime  MountFlags = unix.MS_NOATIME
	MountFlagNoDev    MountFlags = unix.MS_NODEV
	MountFlagNoExec   MountFlags = unix.MS_NOEXEC
	MountFlagNoSUID   MountFlags = unix.MS_NOSUID
	MountFlagRelAtime MountFlags = unix.MS_RELATIME

	// MountFlagsRestricted is the default for pseudo file systems that need
	// neither device nodes nor executables.
	MountFlagsRestricted = MountFlagNoDev | MountFlagNoExec | MountFlagNoSUID
)

// Mount is a [Step] that mounts a file system.
//
// The mount point is created before the mount call. If it already exists,
// this is not an error.
type Mount struct {
	// Source is the source device to mount. If empty it is set to the string
	// of the [FSType].
	Source string

	// Target is the mount point.
	Target string

	// FSType is the file system type. It may be [FSTypeNone] for move
	// mounts.
	FSType FSType

	// Flags are optional mount flags as defined by mount(2).
	Flags MountFlags

	// Data are optional additional parameters that depend on the [FSType].
	Data string

	// Mode is the mode the mount point is created with. Defaults to 0755.
	Mode uint32
}

// MoveMount returns a [Mount] that moves the existing mount at source to
// target.
func MoveMount(source, target string) Mount {
	return Mount{
		Source: source,
		Target: target,
		Flags:  MountFlagMove,
	}
}

func (m Mount) String() string {
	if m.Flags&MountFlagMove != 0 {
		return fmt.Sprintf("move mount %s to %s", m.Source, m.Target)
	}

	return fmt.Sprintf("mount %s on %s", m.FSType, m.Target)
}

// Apply implements [Step].
func (m Mount) Apply(sys Syscalls) error {
	mode := m.Mode
	if mode == 0 {
		mode = defaultDirMode
	}

	if err := ensureDir(sys, m.Target, mode); err != nil {
		return err
	}

	source := m.Source
	if source == "" {
		source = string(m.FSType)
	}

	err := sys.Mount(source, m.Target, string(m.FSType), uintptr(m.Flags), m.Data)

	return opError(OpMount, source, m.Target, err)
}

// Mkdir is a [Step] that creates a single directory.
//
// An already existing directory is not an error.
type Mkdir struct {
	Path string
	Mode uint32
}

func (m Mkdir) String() string {
	return "mkdir " + m.Path
}

// Apply implements [Step].
func (m Mkdir) Apply(sys Syscalls) error {
	return ensureDir(sys, m.Path, m.Mode)
}

func ensureDir(sys Syscalls, path string, mode uint32) error {
	err := sys.Mkdir(path, mode)
	if errors.Is(err, unix.EEXIST) {
		slog.Debug("Directory exists", slog.String("path", path))
		return nil
	}

	return opError(OpMkdir, path, "", err)
}
