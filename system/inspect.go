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
	"os"
	"runtime"

	"github.com/shirou/gopsutil/v3/host"
)

// Info holds descriptive host information recorded into snapshots.
// It is never used for matching logic.
type Info struct {
	Hostname string `json:"hostname"`
	OS       string `json:"os"`
	Arch     string `json:"arch"`
	Kernel   string `json:"kernel,omitempty"`
}

// Probe gathers host information. It prefers gopsutil host data and falls
// back to stdlib values, so it always returns a usable Info.
func Probe() Info {
	info := Info{
		OS:   runtime.GOOS,
		Arch: runtime.GOARCH,
	}

	if hostname, err := os.Hostname(); err == nil {
		info.Hostname = hostname
	}

	if hi, err := host.Info(); err == nil {
		if hi.Hostname != "" {
			info.Hostname = hi.Hostname
		}
		if hi.OS != "" {
			info.OS = hi.OS
		}
		if hi.KernelArch != "" {
			info.Arch = hi.KernelArch
		}
		info.Kernel = hi.KernelVersion
	}

	return info
}
