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

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestVerify_Clean(t *testing.T) {
	snap := testSnapshot("clean", map[string]string{
		"eth0":  "aa:bb:cc:dd:ee:ff",
		"wlan0": "02:11:22:33:44:55",
	})

	result, err := Verify(snap)

	require.NoError(t, err)
	assert.True(t, result.Clean())
	assert.Equal(t, []string{"eth0", "wlan0"}, result.OK)
	assert.Empty(t, result.Mismatched)
}

func TestVerify_SingleMismatch(t *testing.T) {
	snap := testSnapshot("mixed", map[string]string{
		"eth0":  "aa:bb:cc:dd:ee:ff",
		"eth1":  "aa:bb:cc:dd:ee:01",
		"wlan0": "02:11:22:33:44:55",
	})

	// Mutate one MAC without recomputing its checksum.
	entry := snap.Interfaces["eth1"]
	entry.MAC = "de:ad:be:ef:00:01"
	snap.Interfaces["eth1"] = entry

	result, err := Verify(snap)

	require.NoError(t, err)
	assert.False(t, result.Clean())
	assert.Equal(t, []string{"eth1"}, result.Mismatched)
	assert.Equal(t, []string{"eth0", "wlan0"}, result.OK, "all other entries stay ok")
}

func TestVerify_CorruptRecord(t *testing.T) {
	snap := testSnapshot("broken", map[string]string{"eth0": "aa:bb:cc:dd:ee:ff"})
	snap.Interfaces = nil

	_, err := Verify(snap)

	assert.ErrorIs(t, err, ErrCorruptRecord)
}
