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

// Package validation provides reusable validation helpers for macshift inputs.
package validation

import (
	"fmt"
	"regexp"
	"strings"
)

// macRegex matches a normalized MAC address: six lowercase hex octets
// separated by colons.
var macRegex = regexp.MustCompile(`^([0-9a-f]{2}:){5}[0-9a-f]{2}$`)

// interfaceRegex matches common Linux and BSD interface naming schemes:
// classic names (eth0, wlan1, lo), predictable names (enp0s3, wlp2s0)
// and short vendor names (em0, igb1, ens192).
var interfaceRegex = regexp.MustCompile(`^(eth[0-9]+|wlan[0-9]+|en[a-z]?[0-9]+|wl[a-z]?[0-9]+|lo[0-9]*|[a-z]{2,4}[0-9]+([a-z][0-9]+)?)$`)

// snapshotNameRegex restricts snapshot names to characters that are safe
// as a file name component on every supported platform.
var snapshotNameRegex = regexp.MustCompile(`^[a-zA-Z0-9._-]+$`)

// maxSnapshotNameLen bounds snapshot names so the derived file name stays
// well under common filesystem limits.
const maxSnapshotNameLen = 128

// NormalizeMAC validates a MAC address and returns its canonical form:
// lowercase hex octets separated by colons. Dash separators are accepted
// on input ("AA-BB-CC-DD-EE-FF") and rewritten to colons.
func NormalizeMAC(mac string) (string, error) {
	if mac == "" {
		return "", fmt.Errorf("MAC address cannot be empty")
	}

	normalized := strings.ToLower(strings.TrimSpace(mac))
	normalized = strings.ReplaceAll(normalized, "-", ":")

	if !macRegex.MatchString(normalized) {
		return "", fmt.Errorf("invalid MAC address %s (expected format: aa:bb:cc:dd:ee:ff)", mac)
	}

	return normalized, nil
}

// ValidateMAC validates a MAC address in colon or dash notation.
func ValidateMAC(mac string) error {
	_, err := NormalizeMAC(mac)
	return err
}

// ValidateInterfaceName validates that a string looks like a network
// interface name. The check is case-insensitive and intentionally
// conservative: names are later passed to external tools, so anything
// that does not match a known naming scheme is rejected.
func ValidateInterfaceName(name string) error {
	if name == "" {
		return fmt.Errorf("interface name cannot be empty")
	}

	if len(name) > 15 {
		return fmt.Errorf("interface name %s too long (max 15 characters)", name)
	}

	if !interfaceRegex.MatchString(strings.ToLower(name)) {
		return fmt.Errorf("invalid interface name: %s", name)
	}

	return nil
}

// ValidateSnapshotName validates that a snapshot name is safe to use as a
// file name component. Path separators, parent references and control
// characters are all rejected by the character whitelist.
func ValidateSnapshotName(name string) error {
	if name == "" {
		return fmt.Errorf("snapshot name cannot be empty")
	}

	if len(name) > maxSnapshotNameLen {
		return fmt.Errorf("snapshot name too long (max %d characters)", maxSnapshotNameLen)
	}

	if name == "." || name == ".." {
		return fmt.Errorf("invalid snapshot name: %s", name)
	}

	if !snapshotNameRegex.MatchString(name) {
		return fmt.Errorf("invalid snapshot name %s (only letters, digits, '.', '_' and '-' are allowed)", name)
	}

	return nil
}

// ValidateBackend validates a MAC backend selector.
// Valid values: "auto", "netlink", "ifconfig".
func ValidateBackend(backend string) error {
	switch backend {
	case "auto", "netlink", "ifconfig":
		return nil
	default:
		return fmt.Errorf("invalid backend %s (must be auto, netlink, or ifconfig)", backend)
	}
}
