// Copyright (C) 2025 The macshift authors
//
// This program is free software; you can redistribute it and/or
// modify it under the terms of the GNU General Public License
// as published by the Free Software Foundation; version 2.
//
// This program is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE. See the
// GNU General Public License for more details.

package system

import (
	"context"
	"errors"
	"fmt"
	"net"
	"sort"

	"github.com/hashicorp/go-hclog"
	"github.com/vishvananda/netlink"
	"golang.org/x/sys/unix"
)

// NetlinkManager implements Manager using netlink, the preferred backend
// on Linux. It talks to the kernel directly instead of parsing tool output.
type NetlinkManager struct {
	links LinkClient
	log   hclog.Logger
}

// NewNetlinkManager creates a NetlinkManager with the given link client.
func NewNetlinkManager(links LinkClient, log hclog.Logger) *NetlinkManager {
	return &NetlinkManager{
		links: links,
		log:   log,
	}
}

// NewDefaultNetlinkManager creates a NetlinkManager with a real netlink client.
func NewDefaultNetlinkManager(log hclog.Logger) *NetlinkManager {
	return NewNetlinkManager(NewDefaultLinkClient(), log)
}

// Interfaces lists interfaces that expose a hardware address, sorted by
// name. Interfaces without one (loopback, tunnels) are skipped.
func (m *NetlinkManager) Interfaces(ctx context.Context) ([]Interface, error) {
	links, err := m.links.LinkList()
	if err != nil {
		return nil, fmt.Errorf("failed to list interfaces: %w", classifyNetlinkError(err))
	}

	var interfaces []Interface
	for _, link := range links {
		attrs := link.Attrs()
		if attrs.Flags&net.FlagLoopback != 0 {
			continue
		}
		if len(attrs.HardwareAddr) == 0 {
			m.log.Debug("skipping interface without hardware address", "interface", attrs.Name)
			continue
		}
		interfaces = append(interfaces, Interface{
			Name: attrs.Name,
			MAC:  attrs.HardwareAddr.String(),
			Up:   attrs.Flags&net.FlagUp != 0,
		})
	}

	sort.Slice(interfaces, func(i, j int) bool {
		return interfaces[i].Name < interfaces[j].Name
	})

	return interfaces, nil
}

// MAC returns the current hardware address of the named interface.
func (m *NetlinkManager) MAC(ctx context.Context, name string) (string, error) {
	link, err := m.links.LinkByName(name)
	if err != nil {
		return "", fmt.Errorf("interface %s: %w", name, classifyNetlinkError(err))
	}

	hwaddr := link.Attrs().HardwareAddr
	if len(hwaddr) == 0 {
		return "", fmt.Errorf("interface %s: %w", name, ErrNoMAC)
	}

	return hwaddr.String(), nil
}

// SetMAC changes the hardware address of the named interface using the
// down / set / up sequence. The interface is brought back up even when the
// address change itself fails.
func (m *NetlinkManager) SetMAC(ctx context.Context, name, mac string) error {
	hwaddr, err := net.ParseMAC(mac)
	if err != nil {
		return fmt.Errorf("invalid MAC address for %s: %w", name, err)
	}

	link, err := m.links.LinkByName(name)
	if err != nil {
		return fmt.Errorf("interface %s: %w", name, classifyNetlinkError(err))
	}

	if err := m.links.LinkSetDown(link); err != nil {
		return fmt.Errorf("failed to bring %s down: %w", name, classifyNetlinkError(err))
	}

	setErr := m.links.LinkSetHardwareAddr(link, hwaddr)

	if err := m.links.LinkSetUp(link); err != nil {
		m.log.Warn("failed to bring interface back up", "interface", name, "error", err)
		if setErr == nil {
			setErr = err
		}
	}

	if setErr != nil {
		return fmt.Errorf("failed to set MAC on %s: %w", name, classifyNetlinkError(setErr))
	}

	m.log.Debug("hardware address changed", "interface", name, "mac", mac)
	return nil
}

// classifyNetlinkError maps raw netlink errors onto the package sentinels.
func classifyNetlinkError(err error) error {
	var notFound netlink.LinkNotFoundError
	if errors.As(err, &notFound) || errors.Is(err, unix.ENODEV) {
		return fmt.Errorf("%w: %v", ErrNotPresent, err)
	}
	if errors.Is(err, unix.EPERM) || errors.Is(err, unix.EACCES) {
		return fmt.Errorf("%w: %v", ErrPermissionDenied, err)
	}
	return err
}
