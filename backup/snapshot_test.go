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

package backup

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/macshift/macshift/system"
)

// testSnapshot builds a well-formed snapshot for tests.
func testSnapshot(name string, macs map[string]string) *Snapshot {
	entries := make(map[string]InterfaceEntry, len(macs))
	for iface, mac := range macs {
		entries[iface] = InterfaceEntry{MAC: mac, Checksum: Checksum(iface, mac)}
	}
	return &Snapshot{
		Name:        name,
		CreatedAt:   time.Now(),
		ToolVersion: "test",
		SystemInfo:  system.Info{Hostname: "testhost", OS: "linux", Arch: "amd64"},
		Interfaces:  entries,
	}
}

func TestChecksum(t *testing.T) {
	// Fixed vector: the digest must be identical on every platform so
	// exported snapshots verify after moving between machines.
	assert.Equal(t,
		"c4cf35a5140febec99915083f5d770f20de8511c3292510f2bc0b9834e389da0",
		Checksum("eth0", "aa:bb:cc:dd:ee:ff"))

	assert.Equal(t, Checksum("eth0", "aa:bb:cc:dd:ee:ff"), Checksum("eth0", "aa:bb:cc:dd:ee:ff"))
	assert.NotEqual(t, Checksum("eth0", "aa:bb:cc:dd:ee:ff"), Checksum("eth1", "aa:bb:cc:dd:ee:ff"))
	assert.NotEqual(t, Checksum("eth0", "aa:bb:cc:dd:ee:ff"), Checksum("eth0", "aa:bb:cc:dd:ee:fe"))
}

func TestDeriveName(t *testing.T) {
	at := time.Date(2024, 1, 2, 15, 4, 5, 0, time.UTC)
	assert.Equal(t, "mac_backup_20240102_150405", DeriveName(at))

	// Sortable: a later timestamp derives a lexically larger name.
	later := DeriveName(at.Add(time.Second))
	assert.Greater(t, later, DeriveName(at))
}

func TestSnapshot_InterfaceNames(t *testing.T) {
	snap := testSnapshot("s", map[string]string{
		"wlan0": "02:00:00:00:00:02",
		"eth0":  "02:00:00:00:00:01",
		"eth1":  "02:00:00:00:00:03",
	})

	assert.Equal(t, []string{"eth0", "eth1", "wlan0"}, snap.InterfaceNames())
}

func TestSnapshot_Validate(t *testing.T) {
	tests := []struct {
		name      string
		mutate    func(*Snapshot)
		wantError bool
	}{
		{"well-formed", func(s *Snapshot) {}, false},
		{"missing name", func(s *Snapshot) { s.Name = "" }, true},
		{"unsafe name", func(s *Snapshot) { s.Name = "../escape" }, true},
		{"zero timestamp", func(s *Snapshot) { s.CreatedAt = time.Time{} }, true},
		{"no interfaces", func(s *Snapshot) { s.Interfaces = nil }, true},
		{"missing mac", func(s *Snapshot) {
			s.Interfaces["eth0"] = InterfaceEntry{Checksum: s.Interfaces["eth0"].Checksum}
		}, true},
		{"invalid mac", func(s *Snapshot) {
			s.Interfaces["eth0"] = InterfaceEntry{MAC: "nope", Checksum: s.Interfaces["eth0"].Checksum}
		}, true},
		{"missing checksum", func(s *Snapshot) {
			s.Interfaces["eth0"] = InterfaceEntry{MAC: s.Interfaces["eth0"].MAC}
		}, true},
		{"truncated checksum", func(s *Snapshot) {
			s.Interfaces["eth0"] = InterfaceEntry{MAC: s.Interfaces["eth0"].MAC, Checksum: "abcdef"}
		}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			snap := testSnapshot("valid-name", map[string]string{"eth0": "aa:bb:cc:dd:ee:ff"})
			tt.mutate(snap)

			err := snap.Validate()
			if tt.wantError {
				assert.Error(t, err)
			} else {
				require.NoError(t, err)
			}
		})
	}
}
