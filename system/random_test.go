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
	"net"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRandomMAC(t *testing.T) {
	seen := make(map[string]bool)

	for i := 0; i < 32; i++ {
		mac, err := RandomMAC()
		require.NoError(t, err)

		hwaddr, err := net.ParseMAC(mac)
		require.NoError(t, err)
		require.Len(t, hwaddr, 6)

		assert.Equal(t, byte(0x02), hwaddr[0]&0x02, "locally-administered bit must be set")
		assert.Equal(t, byte(0x00), hwaddr[0]&0x01, "multicast bit must be clear")

		seen[mac] = true
	}

	assert.Greater(t, len(seen), 1, "repeated calls produce different addresses")
}

func TestProbe(t *testing.T) {
	info := Probe()

	assert.NotEmpty(t, info.OS)
	assert.NotEmpty(t, info.Arch)
}
