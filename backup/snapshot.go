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

// Package backup implements point-in-time snapshots of interface hardware
// addresses: building, storing, verifying, and restoring them.
package backup

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"sort"
	"time"

	"github.com/macshift/macshift/system"
	"github.com/macshift/macshift/validation"
)

// InterfaceEntry records one interface's hardware address together with an
// integrity checksum computed at creation time.
type InterfaceEntry struct {
	MAC      string `json:"mac"`
	Checksum string `json:"checksum"`
}

// Snapshot is a named, immutable point-in-time record of interface
// hardware addresses plus descriptive metadata. Once written to the store
// it is never edited in place.
type Snapshot struct {
	Name        string                    `json:"name"`
	CreatedAt   time.Time                 `json:"created_at"`
	ToolVersion string                    `json:"tool_version"`
	SystemInfo  system.Info               `json:"system_info"`
	Interfaces  map[string]InterfaceEntry `json:"interfaces"`
}

// Checksum computes the integrity digest for one interface entry:
// lowercase-hex SHA-256 over "name:mac". The digest is content-integrity
// only and produces identical output on every platform, so snapshots can
// be exported and verified on another machine.
func Checksum(name, mac string) string {
	sum := sha256.Sum256([]byte(name + ":" + mac))
	return hex.EncodeToString(sum[:])
}

// DeriveName derives a snapshot name from a timestamp. The format is
// sortable and collision-resistant at one-per-second granularity.
func DeriveName(t time.Time) string {
	return "mac_backup_" + t.Format("20060102_150405")
}

// InterfaceNames returns the snapshot's interface names in sorted order,
// the canonical processing order for verification and restore.
func (s *Snapshot) InterfaceNames() []string {
	names := make([]string, 0, len(s.Interfaces))
	for name := range s.Interfaces {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Validate checks the structural shape of a snapshot: required fields
// present and every interface entry complete. A failure here means the
// record is corrupt, not that its content mismatches its checksums.
func (s *Snapshot) Validate() error {
	v := validation.NewCollector()

	if s.Name == "" {
		v.Addf("snapshot name is missing")
	} else {
		v.Check(validation.ValidateSnapshotName(s.Name))
	}
	if s.CreatedAt.IsZero() {
		v.Addf("creation timestamp is missing")
	}
	if len(s.Interfaces) == 0 {
		v.Addf("snapshot contains no interfaces")
	}

	for _, name := range s.InterfaceNames() {
		entry := s.Interfaces[name]
		ev := validation.NewCollector().WithContext(fmt.Sprintf("interface %s", name))
		if entry.MAC == "" {
			ev.Addf("MAC address is missing")
		} else {
			ev.Check(validation.ValidateMAC(entry.MAC))
		}
		if len(entry.Checksum) != sha256.Size*2 {
			ev.Addf("checksum is missing or malformed")
		}
		v.Check(ev.Err())
	}

	return v.Err()
}
