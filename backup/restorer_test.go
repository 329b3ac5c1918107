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
	"fmt"
	"testing"

	"github.com/hashicorp/go-hclog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/macshift/macshift/system"
)

func TestRestorer_Restore_All(t *testing.T) {
	mgr := system.NewMockManager()
	mgr.Macs["eth0"] = "de:ad:be:ef:00:01"
	mgr.Macs["wlan0"] = "de:ad:be:ef:00:02"

	snap := testSnapshot("s", map[string]string{
		"eth0":  "aa:bb:cc:dd:ee:ff",
		"wlan0": "02:11:22:33:44:55",
	})

	restorer := NewRestorer(mgr, hclog.NewNullLogger())
	report, err := restorer.Restore(context.Background(), snap, nil, false)

	require.NoError(t, err)
	assert.Equal(t, 2, report.Succeeded)
	assert.Equal(t, 0, report.Failed)
	assert.Equal(t, OutcomeApplied, report.PerInterface["eth0"])
	assert.Equal(t, OutcomeApplied, report.PerInterface["wlan0"])

	// The live addresses now match the snapshot.
	assert.Equal(t, "aa:bb:cc:dd:ee:ff", mgr.Macs["eth0"])
	assert.Equal(t, "02:11:22:33:44:55", mgr.Macs["wlan0"])

	// Deterministic order: sorted interface names.
	require.Len(t, mgr.SetHistory, 2)
	assert.Equal(t, "eth0", mgr.SetHistory[0][0])
	assert.Equal(t, "wlan0", mgr.SetHistory[1][0])
}

// Partial-failure independence: one failing interface never blocks the
// rest, and applied changes are not rolled back.
func TestRestorer_Restore_PartialFailure(t *testing.T) {
	mgr := system.NewMockManager()
	mgr.Macs["eth0"] = "de:ad:be:ef:00:01"
	mgr.Macs["wlan0"] = "de:ad:be:ef:00:02"
	mgr.SetMACErrors["wlan0"] = fmt.Errorf("device busy")

	snap := testSnapshot("s", map[string]string{
		"eth0":  "aa:bb:cc:dd:ee:ff",
		"wlan0": "02:11:22:33:44:55",
	})

	restorer := NewRestorer(mgr, hclog.NewNullLogger())
	report, err := restorer.Restore(context.Background(), snap, nil, false)

	require.NoError(t, err)
	assert.Equal(t, OutcomeApplied, report.PerInterface["eth0"])
	assert.Equal(t, OutcomeToolError, report.PerInterface["wlan0"])
	assert.Equal(t, 1, report.Succeeded)
	assert.Equal(t, 1, report.Failed)

	// eth0 keeps its restored address despite wlan0 failing.
	assert.Equal(t, "aa:bb:cc:dd:ee:ff", mgr.Macs["eth0"])
	assert.Equal(t, "de:ad:be:ef:00:02", mgr.Macs["wlan0"])
}

func TestRestorer_Restore_OutcomeClassification(t *testing.T) {
	mgr := system.NewMockManager()
	mgr.Macs["eth0"] = "de:ad:be:ef:00:01"
	mgr.Macs["eth1"] = "de:ad:be:ef:00:02"
	mgr.Macs["eth2"] = "de:ad:be:ef:00:03"
	mgr.SetMACErrors["eth0"] = fmt.Errorf("interface eth0: %w", system.ErrNotPresent)
	mgr.SetMACErrors["eth1"] = fmt.Errorf("interface eth1: %w", system.ErrPermissionDenied)
	mgr.SetMACErrors["eth2"] = fmt.Errorf("ifconfig exploded")

	snap := testSnapshot("s", map[string]string{
		"eth0": "aa:bb:cc:dd:ee:01",
		"eth1": "aa:bb:cc:dd:ee:02",
		"eth2": "aa:bb:cc:dd:ee:03",
	})

	restorer := NewRestorer(mgr, hclog.NewNullLogger())
	report, err := restorer.Restore(context.Background(), snap, nil, false)

	require.NoError(t, err)
	assert.Equal(t, OutcomeNotPresent, report.PerInterface["eth0"])
	assert.Equal(t, OutcomePermissionDenied, report.PerInterface["eth1"])
	assert.Equal(t, OutcomeToolError, report.PerInterface["eth2"])
	assert.Equal(t, 3, report.Failed)
}

// Dry run performs every step except the external change call.
func TestRestorer_Restore_DryRun(t *testing.T) {
	mgr := system.NewMockManager()
	mgr.Macs["eth0"] = "de:ad:be:ef:00:01"
	mgr.Macs["wlan0"] = "de:ad:be:ef:00:02"

	snap := testSnapshot("s", map[string]string{
		"eth0":  "aa:bb:cc:dd:ee:ff",
		"wlan0": "02:11:22:33:44:55",
	})

	restorer := NewRestorer(mgr, hclog.NewNullLogger())
	report, err := restorer.Restore(context.Background(), snap, nil, true)

	require.NoError(t, err)
	assert.Equal(t, OutcomeWouldApply, report.PerInterface["eth0"])
	assert.Equal(t, OutcomeWouldApply, report.PerInterface["wlan0"])
	assert.Equal(t, 2, report.Succeeded)
	assert.Equal(t, 0, mgr.SetMACCalls, "dry run must not touch the system")
	assert.Equal(t, "de:ad:be:ef:00:01", mgr.Macs["eth0"])
}

// Selective restore with a name the snapshot does not contain.
func TestRestorer_Restore_SelectiveUnknownName(t *testing.T) {
	mgr := system.NewMockManager()
	mgr.Macs["eth0"] = "de:ad:be:ef:00:01"

	snap := testSnapshot("s", map[string]string{"eth0": "aa:bb:cc:dd:ee:ff"})

	restorer := NewRestorer(mgr, hclog.NewNullLogger())
	report, err := restorer.Restore(context.Background(), snap, []string{"eth0", "ppp0"}, false)

	require.NoError(t, err)
	assert.Equal(t, OutcomeApplied, report.PerInterface["eth0"])
	assert.Equal(t, OutcomeNotInSnapshot, report.PerInterface["ppp0"])
	assert.Equal(t, 1, report.Succeeded)
	assert.Equal(t, 1, report.Failed)
}

func TestRestorer_Restore_SubsetOnly(t *testing.T) {
	mgr := system.NewMockManager()
	mgr.Macs["eth0"] = "de:ad:be:ef:00:01"
	mgr.Macs["wlan0"] = "de:ad:be:ef:00:02"

	snap := testSnapshot("s", map[string]string{
		"eth0":  "aa:bb:cc:dd:ee:ff",
		"wlan0": "02:11:22:33:44:55",
	})

	restorer := NewRestorer(mgr, hclog.NewNullLogger())
	report, err := restorer.Restore(context.Background(), snap, []string{"wlan0"}, false)

	require.NoError(t, err)
	require.Len(t, report.PerInterface, 1)
	assert.Equal(t, OutcomeApplied, report.PerInterface["wlan0"])
	assert.Equal(t, "de:ad:be:ef:00:01", mgr.Macs["eth0"], "unselected interfaces stay untouched")
}

func TestRestorer_Restore_CorruptSnapshot(t *testing.T) {
	snap := testSnapshot("s", map[string]string{"eth0": "aa:bb:cc:dd:ee:ff"})
	snap.Name = ""

	restorer := NewRestorer(system.NewMockManager(), hclog.NewNullLogger())
	_, err := restorer.Restore(context.Background(), snap, nil, false)

	assert.ErrorIs(t, err, ErrCorruptRecord)
}
