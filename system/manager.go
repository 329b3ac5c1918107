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
	"fmt"
	"os"
	"runtime"

	"github.com/hashicorp/go-hclog"
)

// ResolveBackend maps a configured backend selector to a concrete backend
// name. "auto" prefers netlink on Linux and ifconfig everywhere else.
func ResolveBackend(backend string) string {
	if backend != "auto" {
		return backend
	}
	if runtime.GOOS == "linux" {
		return "netlink"
	}
	return "ifconfig"
}

// NewManager constructs the Manager for the given backend selector.
func NewManager(backend string, log hclog.Logger) (Manager, error) {
	switch ResolveBackend(backend) {
	case "netlink":
		return NewDefaultNetlinkManager(log), nil
	case "ifconfig":
		if err := CheckTool(); err != nil {
			return nil, err
		}
		return NewDefaultIfconfigManager(log), nil
	default:
		return nil, fmt.Errorf("unknown backend: %s", backend)
	}
}

// CheckPrivileges verifies the process can change hardware addresses.
// Both backends need root for the write path.
func CheckPrivileges() error {
	if os.Geteuid() != 0 {
		return fmt.Errorf("changing hardware addresses requires root privileges: %w", ErrPermissionDenied)
	}
	return nil
}
