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

import "errors"

// Sentinel errors for the snapshot store. Callers branch on these with
// errors.Is. Store errors carry the snapshot name but never raw
// filesystem paths.
var (
	// ErrNotFound indicates no snapshot with the requested name exists.
	ErrNotFound = errors.New("snapshot not found")

	// ErrDuplicateName indicates a snapshot with the same name already
	// exists; the store never overwrites silently.
	ErrDuplicateName = errors.New("snapshot name already exists")

	// ErrCorruptRecord indicates a snapshot file failed to parse or is
	// missing required fields. Distinct from a checksum mismatch, which
	// is content-level and reported by Verify instead of raised.
	ErrCorruptRecord = errors.New("snapshot record is corrupt")

	// ErrNoInterfaces indicates enumeration produced no usable
	// interfaces; an empty backup is treated as a misconfiguration.
	ErrNoInterfaces = errors.New("no interfaces found to back up")
)
