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
	"time"

	"github.com/hashicorp/go-hclog"

	"github.com/macshift/macshift/system"
	"github.com/macshift/macshift/validation"
)

// Builder assembles snapshots from the live interface state.
type Builder struct {
	mgr     system.Manager
	version string
	log     hclog.Logger
}

// NewBuilder creates a Builder. version is recorded into each snapshot as
// the producing tool version.
func NewBuilder(mgr system.Manager, version string, log hclog.Logger) *Builder {
	return &Builder{
		mgr:     mgr,
		version: version,
		log:     log,
	}
}

// Build captures the current hardware address of every enumerable
// interface into a new snapshot. An empty name derives one from the
// current time. Returns ErrNoInterfaces when enumeration yields nothing
// usable.
func (b *Builder) Build(ctx context.Context, name string) (*Snapshot, error) {
	now := time.Now()
	if name == "" {
		name = DeriveName(now)
	} else if err := validation.ValidateSnapshotName(name); err != nil {
		return nil, err
	}

	interfaces, err := b.mgr.Interfaces(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to enumerate interfaces: %w", err)
	}

	entries := make(map[string]InterfaceEntry, len(interfaces))
	for _, iface := range interfaces {
		mac, err := validation.NormalizeMAC(iface.MAC)
		if err != nil {
			b.log.Warn("skipping interface with unusable MAC", "interface", iface.Name, "error", err)
			continue
		}
		entries[iface.Name] = InterfaceEntry{
			MAC:      mac,
			Checksum: Checksum(iface.Name, mac),
		}
	}

	if len(entries) == 0 {
		return nil, ErrNoInterfaces
	}

	b.log.Debug("snapshot built", "name", name, "interfaces", len(entries))

	return &Snapshot{
		Name:        name,
		CreatedAt:   now,
		ToolVersion: b.version,
		SystemInfo:  system.Probe(),
		Interfaces:  entries,
	}, nil
}
