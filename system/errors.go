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

import "errors"

// Sentinel errors for the MAC manager layer. Callers branch on these with
// errors.Is; the concrete backend error stays attached via wrapping.
var (
	// ErrToolUnavailable indicates the external ifconfig tool is not
	// installed or not on PATH.
	ErrToolUnavailable = errors.New("ifconfig tool not available")

	// ErrPermissionDenied indicates the operation was rejected because the
	// process lacks the required privileges.
	ErrPermissionDenied = errors.New("permission denied")

	// ErrNotPresent indicates the named interface does not exist.
	ErrNotPresent = errors.New("interface not present")

	// ErrNoMAC indicates the interface exists but exposes no hardware
	// address (loopback, tunnels, some virtual devices).
	ErrNoMAC = errors.New("interface has no hardware address")
)
