// SPDX-FileCopyrightText: 2025 Tobias Böhm <code@aibor.de>
//
// SPDX-License-Identifier: GPL-3.0-or-later

package sysinit

import (
	"path/filepath"

	"golang.org/x/sys/unix"
)

// CgroupV1Controllers are the legacy cgroup controllers that get a dedicated
// hierarchy each.
var CgroupV1Controllers = []string{
	"net_cls,net_prio",
	"hugetlb",
	"pids",
	"freezer",
	"cpu,cpuacct",
	"devices",
	"blkio",
	"memory",
	"perf_event",
	"cpuset",
}

// BootPlan returns the [Plan] that turns the initramfs environment into the
// guest system described by the given [Config].
//
// The order is significant: /dev must be mounted to access the root device,
// it is moved into the new root before the root is switched, and all further
// mounts happen inside the new root.
func BootPlan(cfg Config) Plan {
	var plan Plan

	plan = append(plan, rootSwitchSteps(cfg)...)
	plan = append(plan, pseudoFSSteps(cfg)...)

	for _, symlink := range DevSymlinks() {
		plan = append(plan, BestEffort(symlink))
	}

	plan = append(plan,
		BestEffort(Mkdir{Path: "/root", Mode: 0o700}),
		BestEffort(Rlimit{Resource: unix.RLIMIT_NOFILE, Limit: cfg.NoFileLimit}),
	)

	return append(plan, cgroupSteps(cfg.CgroupRoot)...)
}

func rootSwitchSteps(cfg Config) []Step {
	return []Step{
		Mkdir{Path: "/dev", Mode: defaultDirMode},
		Mount{Target: "/dev", FSType: FSTypeDevTmp},
		Mkdir{Path: cfg.NewRoot, Mode: defaultDirMode},
		Mount{
			Source: cfg.RootDevice,
			Target: cfg.NewRoot,
			FSType: cfg.RootFSType,
		},
		MoveMount("/dev", filepath.Join(cfg.NewRoot, "dev")),
		SwitchRoot{Dir: cfg.NewRoot},
	}
}

func pseudoFSSteps(cfg Config) []Step {
	return []Step{
		Mount{
			Target: "/dev/pts",
			FSType: FSTypeDevPts,
			Flags:  MountFlagNoExec | MountFlagNoSUID | MountFlagNoAtime,
			Data:   "mode=0620,gid=5,ptmxmode=666",
		},
		Mount{
			Target: "/dev/mqueue",
			FSType: FSTypeMqueue,
			Flags:  MountFlagsRestricted,
		},
		Mount{
			Source: "shm",
			Target: "/dev/shm",
			FSType: FSTypeTmp,
			Flags:  MountFlagNoSUID | MountFlagNoDev,
			Data:   "mode=1777",
			Mode:   0o1777,
		},
		Mount{
			Target: "/dev/hugepages",
			FSType: FSTypeHugeTlb,
			Flags:  MountFlagsRestricted | MountFlagRelAtime,
			Data:   "pagesize=" + cfg.HugePageSize,
		},
		Mount{
			Target: "/proc",
			FSType: FSTypeProc,
			Flags:  MountFlagsRestricted,
		},
		Mount{
			Target: "/proc/sys/fs/binfmt_misc",
			FSType: FSTypeBinfmtMisc,
			Flags:  MountFlagsRestricted | MountFlagRelAtime,
		},
		Mount{
			Source: "sys",
			Target: "/sys",
			FSType: FSTypeSys,
			Flags:  MountFlagsRestricted,
		},
		Mount{
			Source: "run",
			Target: "/run",
			FSType: FSTypeTmp,
			Flags:  MountFlagNoSUID | MountFlagNoDev,
			Data:   "mode=0755",
		},
		BestEffort(Mkdir{Path: "/run/lock", Mode: 0o1777}),
	}
}

func cgroupSteps(root string) []Step {
	steps := []Step{
		Mount{
			Source: "cgroup_root",
			Target: root,
			FSType: FSTypeTmp,
			Flags:  MountFlagsRestricted,
			Data:   "mode=755",
		},
		Mount{
			Source: "cgroup2",
			Target: filepath.Join(root, "unified"),
			FSType: FSTypeCgroup2,
			Flags:  MountFlagsRestricted | MountFlagRelAtime,
			Data:   "nsdelegate",
		},
	}

	for _, controller := range CgroupV1Controllers {
		steps = append(steps, Mount{
			Source: "cgroup",
			Target: filepath.Join(root, controller),
			FSType: FSTypeCgroup,
			Flags:  MountFlagsRestricted | MountFlagRelAtime,
			Data:   controller,
		})
	}

	return steps
}
