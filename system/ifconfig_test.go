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
	"context"
	"fmt"
	"testing"

	"github.com/hashicorp/go-hclog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// modern "ifconfig -a" output (Linux net-tools >= 2.x, BSD-like).
const ifconfigModernOutput = `eth0: flags=4163<UP,BROADCAST,RUNNING,MULTICAST>  mtu 1500
        inet 192.168.1.10  netmask 255.255.255.0  broadcast 192.168.1.255
        ether aa:bb:cc:dd:ee:ff  txqueuelen 1000  (Ethernet)
        RX packets 1024  bytes 123456 (120.5 KiB)

lo: flags=73<UP,LOOPBACK,RUNNING>  mtu 65536
        inet 127.0.0.1  netmask 255.0.0.0
        loop  txqueuelen 1000  (Local Loopback)

wlan0: flags=4099<BROADCAST,MULTICAST>  mtu 1500
        ether 02:11:22:33:44:55  txqueuelen 1000  (Ethernet)
`

// legacy "ifconfig -a" output (net-tools 1.x).
const ifconfigLegacyOutput = `eth0      Link encap:Ethernet  HWaddr AA:BB:CC:DD:EE:FF
          inet addr:192.168.1.10  Bcast:192.168.1.255  Mask:255.255.255.0
          UP BROADCAST RUNNING MULTICAST  MTU:1500  Metric:1

lo        Link encap:Local Loopback
          inet addr:127.0.0.1  Mask:255.0.0.0
          UP LOOPBACK RUNNING  MTU:65536  Metric:1
`

func TestParseIfconfigOutput_Modern(t *testing.T) {
	interfaces := parseIfconfigOutput(ifconfigModernOutput)

	require.Len(t, interfaces, 2, "loopback has no MAC and must be omitted")

	assert.Equal(t, "eth0", interfaces[0].Name)
	assert.Equal(t, "aa:bb:cc:dd:ee:ff", interfaces[0].MAC)
	assert.True(t, interfaces[0].Up)

	assert.Equal(t, "wlan0", interfaces[1].Name)
	assert.Equal(t, "02:11:22:33:44:55", interfaces[1].MAC)
	assert.False(t, interfaces[1].Up)
}

func TestParseIfconfigOutput_Legacy(t *testing.T) {
	interfaces := parseIfconfigOutput(ifconfigLegacyOutput)

	require.Len(t, interfaces, 1)
	assert.Equal(t, "eth0", interfaces[0].Name)
	assert.Equal(t, "aa:bb:cc:dd:ee:ff", interfaces[0].MAC)
	assert.True(t, interfaces[0].Up)
}

func TestIfconfigManager_Interfaces(t *testing.T) {
	runner := NewMockCommandRunner()
	runner.SetOutput("ifconfig", []string{"-a"}, []byte(ifconfigModernOutput))

	mgr := NewIfconfigManager(runner, hclog.NewNullLogger())
	interfaces, err := mgr.Interfaces(context.Background())

	require.NoError(t, err)
	require.Len(t, interfaces, 2)
	assert.Equal(t, 1, runner.RunCalls)
}

func TestIfconfigManager_MAC(t *testing.T) {
	runner := NewMockCommandRunner()
	runner.SetOutput("ifconfig", []string{"eth0"}, []byte(
		"eth0: flags=4163<UP,BROADCAST,RUNNING,MULTICAST>  mtu 1500\n"+
			"        ether AA:BB:CC:DD:EE:FF  txqueuelen 1000  (Ethernet)\n"))

	mgr := NewIfconfigManager(runner, hclog.NewNullLogger())
	mac, err := mgr.MAC(context.Background(), "eth0")

	require.NoError(t, err)
	assert.Equal(t, "aa:bb:cc:dd:ee:ff", mac)
}

func TestIfconfigManager_MAC_NoHardwareAddress(t *testing.T) {
	runner := NewMockCommandRunner()
	runner.SetOutput("ifconfig", []string{"lo"}, []byte("lo: flags=73<UP,LOOPBACK,RUNNING>  mtu 65536\n        inet 127.0.0.1\n"))

	mgr := NewIfconfigManager(runner, hclog.NewNullLogger())
	_, err := mgr.MAC(context.Background(), "lo")

	assert.ErrorIs(t, err, ErrNoMAC)
}

func TestIfconfigManager_MAC_NotPresent(t *testing.T) {
	runner := NewMockCommandRunner()
	runner.SetError("ifconfig", []string{"eth9"},
		[]byte("eth9: error fetching interface information: Device not found"),
		fmt.Errorf("exit status 1"))

	mgr := NewIfconfigManager(runner, hclog.NewNullLogger())
	_, err := mgr.MAC(context.Background(), "eth9")

	assert.ErrorIs(t, err, ErrNotPresent)
}

func TestIfconfigManager_SetMAC_CommandSequence(t *testing.T) {
	runner := NewMockCommandRunner()

	mgr := NewIfconfigManager(runner, hclog.NewNullLogger())
	err := mgr.SetMAC(context.Background(), "eth0", "02:11:22:33:44:55")

	require.NoError(t, err)
	require.Len(t, runner.Commands, 3)
	assert.Equal(t, []string{"ifconfig", "eth0", "down"}, runner.Commands[0])
	assert.Equal(t, []string{"ifconfig", "eth0", "hw", "ether", "02:11:22:33:44:55"}, runner.Commands[1])
	assert.Equal(t, []string{"ifconfig", "eth0", "up"}, runner.Commands[2])
}

func TestIfconfigManager_SetMAC_PermissionDenied(t *testing.T) {
	runner := NewMockCommandRunner()
	runner.SetError("ifconfig", []string{"eth0", "hw", "ether", "02:11:22:33:44:55"},
		[]byte("SIOCSIFHWADDR: Operation not permitted"),
		fmt.Errorf("exit status 1"))

	mgr := NewIfconfigManager(runner, hclog.NewNullLogger())
	err := mgr.SetMAC(context.Background(), "eth0", "02:11:22:33:44:55")

	assert.ErrorIs(t, err, ErrPermissionDenied)

	// The interface must still have been brought back up.
	require.Len(t, runner.Commands, 3)
	assert.Equal(t, []string{"ifconfig", "eth0", "up"}, runner.Commands[2])
}

func TestIfconfigManager_SetMAC_DownFails(t *testing.T) {
	runner := NewMockCommandRunner()
	runner.SetError("ifconfig", []string{"eth0", "down"},
		[]byte("eth0: permission denied"),
		fmt.Errorf("exit status 1"))

	mgr := NewIfconfigManager(runner, hclog.NewNullLogger())
	err := mgr.SetMAC(context.Background(), "eth0", "02:11:22:33:44:55")

	assert.ErrorIs(t, err, ErrPermissionDenied)
	assert.Len(t, runner.Commands, 1, "no further commands after a failed down")
}
