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
	"fmt"
	"net"
	"sort"
	"strings"
	"sync"

	"github.com/vishvananda/netlink"
	"golang.org/x/sys/unix"
)

// MockLinkClient is a mock implementation of LinkClient for testing.
type MockLinkClient struct {
	mu sync.Mutex

	// State
	Links map[string]netlink.Link

	// Call counters for verification
	LinkByNameCalls          int
	LinkListCalls            int
	LinkSetUpCalls           int
	LinkSetDownCalls         int
	LinkSetHardwareAddrCalls int

	// Error injection for testing error paths
	LinkByNameError          error
	LinkListError            error
	LinkSetUpError           error
	LinkSetDownError         error
	LinkSetHardwareAddrError error
}

// NewMockLinkClient creates a new MockLinkClient.
func NewMockLinkClient() *MockLinkClient {
	return &MockLinkClient{
		Links: make(map[string]netlink.Link),
	}
}

func (m *MockLinkClient) LinkByName(name string) (netlink.Link, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.LinkByNameCalls++

	if m.LinkByNameError != nil {
		return nil, m.LinkByNameError
	}

	link, ok := m.Links[name]
	if !ok {
		return nil, fmt.Errorf("link %s: %w", name, unix.ENODEV)
	}
	return link, nil
}

func (m *MockLinkClient) LinkList() ([]netlink.Link, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.LinkListCalls++

	if m.LinkListError != nil {
		return nil, m.LinkListError
	}

	links := make([]netlink.Link, 0, len(m.Links))
	for _, link := range m.Links {
		links = append(links, link)
	}
	return links, nil
}

func (m *MockLinkClient) LinkSetUp(link netlink.Link) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.LinkSetUpCalls++

	if m.LinkSetUpError != nil {
		return m.LinkSetUpError
	}

	return nil
}

func (m *MockLinkClient) LinkSetDown(link netlink.Link) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.LinkSetDownCalls++

	if m.LinkSetDownError != nil {
		return m.LinkSetDownError
	}

	return nil
}

func (m *MockLinkClient) LinkSetHardwareAddr(link netlink.Link, hwaddr net.HardwareAddr) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.LinkSetHardwareAddrCalls++

	if m.LinkSetHardwareAddrError != nil {
		return m.LinkSetHardwareAddrError
	}

	link.Attrs().HardwareAddr = hwaddr
	return nil
}

// MockCommandRunner is a mock implementation of CommandRunner for testing.
type MockCommandRunner struct {
	mu sync.Mutex

	// State
	CommandOutputs map[string][]byte
	CommandErrors  map[string]error

	// Call tracking
	Commands [][]string
	RunCalls int

	// Error injection
	RunError error
}

// NewMockCommandRunner creates a new MockCommandRunner.
func NewMockCommandRunner() *MockCommandRunner {
	return &MockCommandRunner{
		CommandOutputs: make(map[string][]byte),
		CommandErrors:  make(map[string]error),
		Commands:       make([][]string, 0),
	}
}

func (m *MockCommandRunner) Run(ctx context.Context, name string, args ...string) ([]byte, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.RunCalls++

	// Track the command that was run
	cmd := append([]string{name}, args...)
	m.Commands = append(m.Commands, cmd)

	if m.RunError != nil {
		return nil, m.RunError
	}

	key := commandKey(name, args)
	if err, ok := m.CommandErrors[key]; ok {
		return m.CommandOutputs[key], err
	}

	output, ok := m.CommandOutputs[key]
	if !ok {
		return []byte{}, nil
	}
	return output, nil
}

// SetOutput sets the output for a specific command.
func (m *MockCommandRunner) SetOutput(name string, args []string, output []byte) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.CommandOutputs[commandKey(name, args)] = output
}

// SetError sets the output and error for a specific command.
func (m *MockCommandRunner) SetError(name string, args []string, output []byte, err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	key := commandKey(name, args)
	m.CommandOutputs[key] = output
	m.CommandErrors[key] = err
}

func commandKey(name string, args []string) string {
	return name + " " + strings.Join(args, " ")
}

// MockManager is a mock implementation of Manager for testing components
// that sit on top of the backend layer.
type MockManager struct {
	mu sync.Mutex

	// State: interface name -> current MAC
	Macs map[string]string
	Up   map[string]bool

	// Call tracking
	InterfacesCalls int
	MACCalls        int
	SetMACCalls     int
	SetHistory      [][2]string // (interface, mac) pairs in call order

	// Error injection
	InterfacesError error
	MACError        error
	SetMACError     error
	SetMACErrors    map[string]error // per-interface overrides
}

// NewMockManager creates a new MockManager.
func NewMockManager() *MockManager {
	return &MockManager{
		Macs:         make(map[string]string),
		Up:           make(map[string]bool),
		SetMACErrors: make(map[string]error),
	}
}

func (m *MockManager) Interfaces(ctx context.Context) ([]Interface, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.InterfacesCalls++

	if m.InterfacesError != nil {
		return nil, m.InterfacesError
	}

	names := make([]string, 0, len(m.Macs))
	for name := range m.Macs {
		names = append(names, name)
	}
	sort.Strings(names)

	interfaces := make([]Interface, 0, len(names))
	for _, name := range names {
		interfaces = append(interfaces, Interface{
			Name: name,
			MAC:  m.Macs[name],
			Up:   m.Up[name],
		})
	}
	return interfaces, nil
}

func (m *MockManager) MAC(ctx context.Context, name string) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.MACCalls++

	if m.MACError != nil {
		return "", m.MACError
	}

	mac, ok := m.Macs[name]
	if !ok {
		return "", fmt.Errorf("interface %s: %w", name, ErrNotPresent)
	}
	return mac, nil
}

func (m *MockManager) SetMAC(ctx context.Context, name, mac string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.SetMACCalls++
	m.SetHistory = append(m.SetHistory, [2]string{name, mac})

	if err, ok := m.SetMACErrors[name]; ok {
		return err
	}
	if m.SetMACError != nil {
		return m.SetMACError
	}
	if _, ok := m.Macs[name]; !ok {
		return fmt.Errorf("interface %s: %w", name, ErrNotPresent)
	}

	m.Macs[name] = mac
	return nil
}
