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
	"errors"
	"fmt"
	"os/exec"
	"regexp"
	"sort"
	"strings"
	"time"

	"github.com/hashicorp/go-hclog"
)

// commandTimeout bounds every external ifconfig invocation.
const commandTimeout = 10 * time.Second

// macLineRegex matches the hardware address line in both the net-tools
// "HWaddr" format and the BSD/newer "ether" format.
var macLineRegex = regexp.MustCompile(`(?:ether|HWaddr)\s+([0-9A-Fa-f]{2}(?::[0-9A-Fa-f]{2}){5})`)

// IfconfigManager implements Manager by shelling out to the ifconfig tool.
// It is the portable fallback backend for systems without netlink.
type IfconfigManager struct {
	runner CommandRunner
	log    hclog.Logger
}

// NewIfconfigManager creates an IfconfigManager with the given runner.
func NewIfconfigManager(runner CommandRunner, log hclog.Logger) *IfconfigManager {
	return &IfconfigManager{
		runner: runner,
		log:    log,
	}
}

// NewDefaultIfconfigManager creates an IfconfigManager that executes real commands.
func NewDefaultIfconfigManager(log hclog.Logger) *IfconfigManager {
	return NewIfconfigManager(NewDefaultCommandRunner(), log)
}

// CheckTool verifies that the ifconfig tool is installed and on PATH.
func CheckTool() error {
	if _, err := exec.LookPath("ifconfig"); err != nil {
		return fmt.Errorf("%w: %v", ErrToolUnavailable, err)
	}
	return nil
}

func (m *IfconfigManager) run(ctx context.Context, args ...string) ([]byte, error) {
	ctx, cancel := context.WithTimeout(ctx, commandTimeout)
	defer cancel()
	return m.runner.Run(ctx, "ifconfig", args...)
}

// Interfaces lists interfaces that expose a hardware address by parsing
// the output of "ifconfig -a". Entries without one are skipped.
func (m *IfconfigManager) Interfaces(ctx context.Context) ([]Interface, error) {
	output, err := m.run(ctx, "-a")
	if err != nil {
		return nil, fmt.Errorf("failed to list interfaces: %w", classifyIfconfigError(output, err))
	}

	interfaces := parseIfconfigOutput(string(output))

	sort.Slice(interfaces, func(i, j int) bool {
		return interfaces[i].Name < interfaces[j].Name
	})

	return interfaces, nil
}

// MAC returns the current hardware address of the named interface.
func (m *IfconfigManager) MAC(ctx context.Context, name string) (string, error) {
	output, err := m.run(ctx, name)
	if err != nil {
		return "", fmt.Errorf("interface %s: %w", name, classifyIfconfigError(output, err))
	}

	match := macLineRegex.FindStringSubmatch(string(output))
	if match == nil {
		return "", fmt.Errorf("interface %s: %w", name, ErrNoMAC)
	}

	return strings.ToLower(match[1]), nil
}

// SetMAC changes the hardware address via the classic three-step sequence:
// bring the interface down, set the address, bring it back up. The final
// up step runs even when the address change fails.
func (m *IfconfigManager) SetMAC(ctx context.Context, name, mac string) error {
	if output, err := m.run(ctx, name, "down"); err != nil {
		return fmt.Errorf("failed to bring %s down: %w", name, classifyIfconfigError(output, err))
	}

	output, setErr := m.run(ctx, name, "hw", "ether", mac)

	if upOutput, err := m.run(ctx, name, "up"); err != nil {
		m.log.Warn("failed to bring interface back up", "interface", name, "error", err)
		if setErr == nil {
			output, setErr = upOutput, err
		}
	}

	if setErr != nil {
		return fmt.Errorf("failed to set MAC on %s: %w", name, classifyIfconfigError(output, setErr))
	}

	m.log.Debug("hardware address changed", "interface", name, "mac", mac)
	return nil
}

// parseIfconfigOutput extracts interfaces and their hardware addresses from
// "ifconfig -a" output. Both the block format used by net-tools on Linux
// ("eth0      Link encap:Ethernet  HWaddr ...") and the newer colon format
// ("eth0: flags=4163<UP,...>") are understood.
func parseIfconfigOutput(output string) []Interface {
	var interfaces []Interface
	var current *Interface

	flush := func() {
		if current != nil && current.MAC != "" {
			interfaces = append(interfaces, *current)
		}
		current = nil
	}

	for _, line := range strings.Split(output, "\n") {
		if line == "" {
			continue
		}

		// A non-indented line starts a new interface block.
		if line[0] != ' ' && line[0] != '\t' {
			flush()
			fields := strings.Fields(line)
			if len(fields) == 0 {
				continue
			}
			name := strings.TrimSuffix(fields[0], ":")
			current = &Interface{
				Name: name,
				Up:   headerIsUp(line),
			}
		}

		if current == nil {
			continue
		}
		if match := macLineRegex.FindStringSubmatch(line); match != nil {
			current.MAC = strings.ToLower(match[1])
		}
		if strings.Contains(line, "UP") && strings.Contains(line, "RUNNING") {
			current.Up = true
		}
	}
	flush()

	return interfaces
}

// headerIsUp reports whether a block header line carries the UP flag in
// its flags=...<...> list.
func headerIsUp(line string) bool {
	start := strings.Index(line, "<")
	end := strings.Index(line, ">")
	if start < 0 || end < start {
		return false
	}
	for _, flag := range strings.Split(line[start+1:end], ",") {
		if flag == "UP" {
			return true
		}
	}
	return false
}

// classifyIfconfigError maps an ifconfig failure onto the package
// sentinels, using both the process error and the captured output.
func classifyIfconfigError(output []byte, err error) error {
	if errors.Is(err, exec.ErrNotFound) {
		return fmt.Errorf("%w: %v", ErrToolUnavailable, err)
	}

	text := strings.ToLower(string(output))
	switch {
	case strings.Contains(text, "permission denied"),
		strings.Contains(text, "operation not permitted"):
		return fmt.Errorf("%w: %v", ErrPermissionDenied, err)
	case strings.Contains(text, "does not exist"),
		strings.Contains(text, "device not found"),
		strings.Contains(text, "no such device"):
		return fmt.Errorf("%w: %v", ErrNotPresent, err)
	}

	return err
}
