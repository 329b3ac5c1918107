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

// Package system provides access to network interface hardware addresses
// through pluggable backends (netlink on Linux, ifconfig elsewhere).
package system

import (
	"context"
	"net"
	"os/exec"

	"github.com/vishvananda/netlink"
)

// Interface describes a single network interface as seen by a backend.
type Interface struct {
	Name string
	MAC  string
	Up   bool
}

// Manager is the contract every MAC backend implements. Interfaces omits
// entries with no resolvable hardware address instead of failing.
type Manager interface {
	// Interfaces lists interfaces that carry a hardware address,
	// sorted by name.
	Interfaces(ctx context.Context) ([]Interface, error)

	// MAC returns the current hardware address of a single interface.
	MAC(ctx context.Context, name string) (string, error)

	// SetMAC changes the hardware address of an interface. The interface
	// is brought down for the change and brought back up afterwards.
	SetMAC(ctx context.Context, name, mac string) error
}

// LinkClient abstracts the netlink operations used by the netlink backend.
// This interface allows mocking of all netlink system calls.
type LinkClient interface {
	LinkByName(name string) (netlink.Link, error)
	LinkList() ([]netlink.Link, error)
	LinkSetUp(link netlink.Link) error
	LinkSetDown(link netlink.Link) error
	LinkSetHardwareAddr(link netlink.Link, hwaddr net.HardwareAddr) error
}

// CommandRunner abstracts external command execution for testability.
type CommandRunner interface {
	// Run executes a command and returns its combined output
	Run(ctx context.Context, name string, args ...string) ([]byte, error)
}

// DefaultLinkClient implements LinkClient using real netlink calls.
type DefaultLinkClient struct{}

// NewDefaultLinkClient creates a new DefaultLinkClient.
func NewDefaultLinkClient() *DefaultLinkClient {
	return &DefaultLinkClient{}
}

func (c *DefaultLinkClient) LinkByName(name string) (netlink.Link, error) {
	return netlink.LinkByName(name)
}

func (c *DefaultLinkClient) LinkList() ([]netlink.Link, error) {
	return netlink.LinkList()
}

func (c *DefaultLinkClient) LinkSetUp(link netlink.Link) error {
	return netlink.LinkSetUp(link)
}

func (c *DefaultLinkClient) LinkSetDown(link netlink.Link) error {
	return netlink.LinkSetDown(link)
}

func (c *DefaultLinkClient) LinkSetHardwareAddr(link netlink.Link, hwaddr net.HardwareAddr) error {
	return netlink.LinkSetHardwareAddr(link, hwaddr)
}

// DefaultCommandRunner implements CommandRunner using real command execution.
type DefaultCommandRunner struct{}

// NewDefaultCommandRunner creates a new DefaultCommandRunner.
func NewDefaultCommandRunner() *DefaultCommandRunner {
	return &DefaultCommandRunner{}
}

func (c *DefaultCommandRunner) Run(ctx context.Context, name string, args ...string) ([]byte, error) {
	cmd := exec.CommandContext(ctx, name, args...)
	return cmd.CombinedOutput()
}
