// SPDX-FileCopyrightText: 2024 Tobias Böhm <code@aibor.de>
//
// SPDX-License-Identifier: GPL-3.0-or-later

package sysinit

import (
	"errors"
	"fmt"
	"log/slog"
	"net"

	"github.com/vishvananda/netlink"
)

// LinkHandle is the part of [netlink.Handle] used for configuring the guest
// network.
type LinkHandle interface {
	LinkByName(name string) (netlink.Link, error)
	LinkSetUp(link netlink.Link) error
	LinkSetMTU(link netlink.Link, mtu int) error
	AddrAdd(link netlink.Link, addr *netlink.Addr) error
	RouteAdd(route *netlink.Route) error
}

var _ LinkHandle = (*netlink.Handle)(nil)

// InterfaceState is the state of the primary interface after
// [ConfigureNetwork] succeeded.
type InterfaceState struct {
	Name   string
	Index  int
	Up     bool
	MTU    int
	Addrs  []netlink.Addr
	Routes []netlink.Route
}

// ConfigureNetwork brings up the loopback and the primary interface, assigns
// the address and installs the default route.
//
// The steps are strictly ordered: an interface is always up before an
// address is assigned to it. If the primary interface does not exist, the
// returned error matches [ErrInterfaceNotFound]. All errors are of type
// *[OpError].
func ConfigureNetwork(handle LinkHandle, cfg NetworkConfig) (InterfaceState, error) {
	addr, err := netlink.ParseAddr(cfg.Address)
	if err != nil {
		return InterfaceState{}, netError(cfg.Interface, "parse address", err)
	}

	gateway := net.ParseIP(cfg.Gateway).To4()
	if gateway == nil {
		return InterfaceState{}, netError(cfg.Interface, "parse gateway",
			fmt.Errorf("invalid IPv4 address: %q", cfg.Gateway))
	}

	loopback, err := linkUp(handle, cfg.Loopback)
	if err != nil {
		return InterfaceState{}, err
	}

	slog.Debug("Interface up", slog.String("interface", loopback.Attrs().Name))

	link, err := linkUp(handle, cfg.Interface)
	if err != nil {
		return InterfaceState{}, err
	}

	if err := handle.LinkSetMTU(link, cfg.MTU); err != nil {
		return InterfaceState{}, netError(cfg.Interface, "set mtu", err)
	}

	slog.Debug("Interface up",
		slog.String("interface", cfg.Interface),
		slog.Int("mtu", cfg.MTU),
	)

	if err := handle.AddrAdd(link, addr); err != nil {
		return InterfaceState{}, netError(cfg.Interface, "add address", err)
	}

	route := netlink.Route{
		LinkIndex: link.Attrs().Index,
		Gw:        gateway,
	}

	if err := handle.RouteAdd(&route); err != nil {
		return InterfaceState{}, netError(cfg.Interface, "add default route", err)
	}

	slog.Info("Network configured",
		slog.String("interface", cfg.Interface),
		slog.String("address", addr.String()),
		slog.String("gateway", gateway.String()),
	)

	return InterfaceState{
		Name:   cfg.Interface,
		Index:  link.Attrs().Index,
		Up:     true,
		MTU:    cfg.MTU,
		Addrs:  []netlink.Addr{*addr},
		Routes: []netlink.Route{route},
	}, nil
}

// WithNetwork returns a setup [Func] that configures the guest network via
// a new netlink handle. It can be used with [Run].
func WithNetwork(cfg NetworkConfig) Func {
	return func(_ *State) error {
		handle, err := netlink.NewHandle()
		if err != nil {
			return netError(cfg.Interface, "open netlink handle", err)
		}
		defer handle.Close()

		_, err = ConfigureNetwork(handle, cfg)

		return err
	}
}

func linkUp(handle LinkHandle, name string) (netlink.Link, error) {
	link, err := handle.LinkByName(name)
	if err != nil {
		var notFound netlink.LinkNotFoundError
		if errors.As(err, &notFound) {
			err = fmt.Errorf("%w: %w", ErrInterfaceNotFound, err)
		}

		return nil, netError(name, "get link", err)
	}

	if err := handle.LinkSetUp(link); err != nil {
		return nil, netError(name, "set up", err)
	}

	return link, nil
}

func netError(iface, msg string, err error) error {
	return opError(OpNetwork, iface, "", fmt.Errorf("%s: %w", msg, err))
}
