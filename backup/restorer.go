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
	"errors"
	"fmt"
	"sort"

	"github.com/hashicorp/go-hclog"

	"github.com/macshift/macshift/system"
)

// Outcome is the per-interface result of a restore attempt.
type Outcome string

const (
	OutcomeApplied          Outcome = "applied"
	OutcomeWouldApply       Outcome = "would_apply"
	OutcomeNotInSnapshot    Outcome = "not_in_snapshot"
	OutcomeNotPresent       Outcome = "interface_not_present"
	OutcomePermissionDenied Outcome = "permission_denied"
	OutcomeToolError        Outcome = "tool_error"
)

// Report aggregates the per-interface outcomes of one restore invocation.
type Report struct {
	PerInterface map[string]Outcome
	Succeeded    int
	Failed       int
}

// Restorer applies snapshot hardware addresses back to live interfaces.
type Restorer struct {
	mgr system.Manager
	log hclog.Logger
}

// NewRestorer creates a Restorer backed by the given manager.
func NewRestorer(mgr system.Manager, log hclog.Logger) *Restorer {
	return &Restorer{mgr: mgr, log: log}
}

// Restore writes the snapshot's recorded addresses back to live
// interfaces, one at a time in sorted name order. A nil or empty filter
// targets every snapshot entry; filter names absent from the snapshot get
// a not_in_snapshot outcome without aborting the rest. Each attempt is
// independent: a failure is recorded and processing continues, and
// already-applied interfaces are never rolled back. With dryRun set, every
// step runs except the actual address change.
//
// Per-interface failures land in the report; the returned error is
// reserved for a structurally invalid snapshot.
func (r *Restorer) Restore(ctx context.Context, snap *Snapshot, interfaces []string, dryRun bool) (*Report, error) {
	if err := snap.Validate(); err != nil {
		return nil, fmt.Errorf("snapshot %s: %w: %v", snap.Name, ErrCorruptRecord, err)
	}

	var targets []string
	report := &Report{PerInterface: make(map[string]Outcome)}

	if len(interfaces) == 0 {
		targets = snap.InterfaceNames()
	} else {
		requested := make([]string, len(interfaces))
		copy(requested, interfaces)
		sort.Strings(requested)
		for _, name := range requested {
			if _, ok := snap.Interfaces[name]; !ok {
				report.PerInterface[name] = OutcomeNotInSnapshot
				report.Failed++
				continue
			}
			targets = append(targets, name)
		}
	}

	for _, name := range targets {
		entry := snap.Interfaces[name]

		if dryRun {
			report.PerInterface[name] = OutcomeWouldApply
			report.Succeeded++
			continue
		}

		if err := r.mgr.SetMAC(ctx, name, entry.MAC); err != nil {
			outcome := classifyRestoreError(err)
			r.log.Warn("failed to restore interface", "interface", name, "outcome", outcome, "error", err)
			report.PerInterface[name] = outcome
			report.Failed++
			continue
		}

		r.log.Info("interface restored", "interface", name, "mac", entry.MAC)
		report.PerInterface[name] = OutcomeApplied
		report.Succeeded++
	}

	return report, nil
}

// classifyRestoreError maps a backend error onto a report outcome.
func classifyRestoreError(err error) Outcome {
	switch {
	case errors.Is(err, system.ErrNotPresent):
		return OutcomeNotPresent
	case errors.Is(err, system.ErrPermissionDenied):
		return OutcomePermissionDenied
	default:
		return OutcomeToolError
	}
}
