// SPDX-FileCopyrightText: 2025 Tobias Böhm <code@aibor.de>
//
// SPDX-License-Identifier: GPL-3.0-or-later

package sysinit

// Config defines the guest system set up by the init.
type Config struct {
	// RootDevice is the block device holding the guest root file system.
	RootDevice string

	// RootFSType is the file system type of RootDevice.
	RootFSType FSType

	// NewRoot is the directory RootDevice is mounted on before it becomes
	// the root.
	NewRoot string

	// CgroupRoot is the directory the cgroup hierarchies are mounted under.
	CgroupRoot string

	// HugePageSize is the page size hugetlbfs is mounted with.
	HugePageSize string

	// NoFileLimit is the limit for open file descriptors.
	NoFileLimit uint64

	// Env is a set of environment variables that are set once the new root
	// is active. Commands spawned by the init inherit them.
	Env EnvVars

	// Network is the configuration of the guest network.
	Network NetworkConfig
}

// NetworkConfig defines the minimal IPv4 network of the guest.
type NetworkConfig struct {
	// Loopback is the name of the loopback interface.
	Loopback string

	// Interface is the name of the primary interface.
	Interface string

	// MTU is the MTU of the primary interface. It accounts for the
	// encapsulation overhead of the host side transport.
	MTU int

	// Address is the IPv4 address of the primary interface in CIDR
	// notation.
	Address string

	// Gateway is the IPv4 address of the default gateway.
	Gateway string

	// Nameserver is written into /etc/resolv.conf.
	Nameserver string
}

// DefaultConfig creates a new default config.
func DefaultConfig() Config {
	return Config{
		RootDevice:   "/dev/vdb",
		RootFSType:   FSTypeExt4,
		NewRoot:      "/newroot",
		CgroupRoot:   "/sys/fs/cgroup",
		HugePageSize: "2M",
		NoFileLimit:  10240,
		Env: EnvVars{
			"PATH": "/usr/local/sbin:/usr/local/bin:/usr/sbin:/usr/bin:/sbin:/bin",
			"HOME": "/root",
		},
		Network: NetworkConfig{
			Loopback:   "lo",
			Interface:  "eth0",
			MTU:        1420,
			Address:    "172.16.0.2/24",
			Gateway:    "172.16.0.1",
			Nameserver: "8.8.8.8",
		},
	}
}
