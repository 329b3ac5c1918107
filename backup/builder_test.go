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
	"context"
	"strings"
	"testing"

	"github.com/hashicorp/go-hclog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/macshift/macshift/system"
)

func TestBuilder_Build(t *testing.T) {
	mgr := system.NewMockManager()
	mgr.Macs["eth0"] = "AA:BB:CC:DD:EE:FF"
	mgr.Macs["wlan0"] = "02:11:22:33:44:55"

	builder := NewBuilder(mgr, "1.2.3", hclog.NewNullLogger())
	snap, err := builder.Build(context.Background(), "before_change")

	require.NoError(t, err)
	assert.Equal(t, "before_change", snap.Name)
	assert.Equal(t, "1.2.3", snap.ToolVersion)
	assert.False(t, snap.CreatedAt.IsZero())
	require.Len(t, snap.Interfaces, 2)

	// MACs are normalized to lowercase colon form before hashing.
	assert.Equal(t, "aa:bb:cc:dd:ee:ff", snap.Interfaces["eth0"].MAC)
	assert.Equal(t, Checksum("eth0", "aa:bb:cc:dd:ee:ff"), snap.Interfaces["eth0"].Checksum)

	require.NoError(t, snap.Validate())
}

// Round-trip property: a freshly built snapshot always verifies clean.
func TestBuilder_Build_RoundTripVerify(t *testing.T) {
	mgr := system.NewMockManager()
	mgr.Macs["eth0"] = "aa:bb:cc:dd:ee:ff"
	mgr.Macs["eth1"] = "aa:bb:cc:dd:ee:01"
	mgr.Macs["wlan0"] = "02:11:22:33:44:55"

	builder := NewBuilder(mgr, "test", hclog.NewNullLogger())
	snap, err := builder.Build(context.Background(), "")
	require.NoError(t, err)

	result, err := Verify(snap)
	require.NoError(t, err)
	assert.Empty(t, result.Mismatched)
	assert.Len(t, result.OK, 3)
}

func TestBuilder_Build_DerivedName(t *testing.T) {
	mgr := system.NewMockManager()
	mgr.Macs["eth0"] = "aa:bb:cc:dd:ee:ff"

	builder := NewBuilder(mgr, "test", hclog.NewNullLogger())
	snap, err := builder.Build(context.Background(), "")

	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(snap.Name, "mac_backup_"), "derived name %q", snap.Name)
	assert.Equal(t, DeriveName(snap.CreatedAt), snap.Name)
}

func TestBuilder_Build_NoInterfaces(t *testing.T) {
	builder := NewBuilder(system.NewMockManager(), "test", hclog.NewNullLogger())

	_, err := builder.Build(context.Background(), "")

	assert.ErrorIs(t, err, ErrNoInterfaces)
}

func TestBuilder_Build_SkipsUnusableMAC(t *testing.T) {
	mgr := system.NewMockManager()
	mgr.Macs["eth0"] = "aa:bb:cc:dd:ee:ff"
	mgr.Macs["weird0"] = "not-a-mac"

	builder := NewBuilder(mgr, "test", hclog.NewNullLogger())
	snap, err := builder.Build(context.Background(), "")

	require.NoError(t, err)
	require.Len(t, snap.Interfaces, 1)
	assert.Contains(t, snap.Interfaces, "eth0")
}

func TestBuilder_Build_InvalidName(t *testing.T) {
	mgr := system.NewMockManager()
	mgr.Macs["eth0"] = "aa:bb:cc:dd:ee:ff"

	builder := NewBuilder(mgr, "test", hclog.NewNullLogger())
	_, err := builder.Build(context.Background(), "../../etc/passwd")

	assert.Error(t, err)
	assert.Equal(t, 0, mgr.InterfacesCalls, "name is rejected before enumeration")
}
