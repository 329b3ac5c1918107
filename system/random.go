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
	"crypto/rand"
	"fmt"
	"net"
)

// RandomMAC generates a random locally-administered unicast hardware
// address. The first octet has the locally-administered bit set and the
// multicast bit cleared, so the result never collides with a vendor OUI.
func RandomMAC() (string, error) {
	buf := make([]byte, 6)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("failed to generate random MAC: %w", err)
	}

	buf[0] = (buf[0] | 0x02) &^ 0x01

	return net.HardwareAddr(buf).String(), nil
}
