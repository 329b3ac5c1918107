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

import "fmt"

// VerifyResult reports per-interface integrity status so callers can show
// exactly which entries are intact. A mismatch is reported, never raised:
// detecting it is verification's whole job.
type VerifyResult struct {
	OK         []string
	Mismatched []string
}

// Clean reports whether every interface entry verified successfully.
func (r *VerifyResult) Clean() bool {
	return len(r.Mismatched) == 0
}

// Verify recomputes each interface entry's checksum from its stored
// (name, mac) pair and compares it to the stored digest. This tests
// internal file consistency, not drift from live hardware. Returns
// ErrCorruptRecord when the snapshot's structural shape is invalid.
func Verify(snap *Snapshot) (*VerifyResult, error) {
	if err := snap.Validate(); err != nil {
		return nil, fmt.Errorf("snapshot %s: %w: %v", snap.Name, ErrCorruptRecord, err)
	}

	result := &VerifyResult{}
	for _, name := range snap.InterfaceNames() {
		entry := snap.Interfaces[name]
		if Checksum(name, entry.MAC) == entry.Checksum {
			result.OK = append(result.OK, name)
		} else {
			result.Mismatched = append(result.Mismatched, name)
		}
	}

	return result, nil
}
