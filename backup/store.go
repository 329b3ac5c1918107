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
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/hashicorp/go-hclog"

	"github.com/macshift/macshift/validation"
)

// Info summarizes one stored snapshot for listings. Files that fail to
// parse are reported with Valid=false instead of being hidden.
type Info struct {
	Name       string
	CreatedAt  time.Time
	Interfaces int
	Valid      bool
}

// Store persists snapshots as one JSON file per snapshot in a single
// directory. The store exclusively owns the on-disk representation.
type Store struct {
	dir string
	log hclog.Logger
}

// NewStore creates a Store rooted at dir, creating the directory if needed.
func NewStore(dir string, log hclog.Logger) (*Store, error) {
	if err := os.MkdirAll(dir, 0700); err != nil {
		return nil, fmt.Errorf("failed to create backup directory: %w", err)
	}
	return &Store{dir: dir, log: log}, nil
}

func (s *Store) path(name string) string {
	return filepath.Join(s.dir, name+".json")
}

// Save writes a snapshot to the store. The write is atomic and exclusive:
// the document is written to a temporary file and linked into place with a
// create-fails-if-exists operation, so a crash never leaves a partial file
// visible and two concurrent saves of the same name cannot both win.
// Returns ErrDuplicateName if the name is already taken.
func (s *Store) Save(snap *Snapshot) error {
	if err := snap.Validate(); err != nil {
		return fmt.Errorf("%w: %v", ErrCorruptRecord, err)
	}

	data, err := json.MarshalIndent(snap, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode snapshot %s: %w", snap.Name, err)
	}
	data = append(data, '\n')

	tmp, err := os.CreateTemp(s.dir, ".tmp-*")
	if err != nil {
		return fmt.Errorf("failed to create temporary file for snapshot %s: %w", snap.Name, err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("failed to write snapshot %s: %w", snap.Name, err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("failed to write snapshot %s: %w", snap.Name, err)
	}

	if err := os.Link(tmp.Name(), s.path(snap.Name)); err != nil {
		if errors.Is(err, fs.ErrExist) {
			return fmt.Errorf("snapshot %s: %w", snap.Name, ErrDuplicateName)
		}
		return fmt.Errorf("failed to store snapshot %s: %w", snap.Name, err)
	}

	s.log.Debug("snapshot saved", "name", snap.Name, "interfaces", len(snap.Interfaces))
	return nil
}

// Load reads a snapshot by name. Returns ErrNotFound if absent and
// ErrCorruptRecord if the file fails to parse or validate.
func (s *Store) Load(name string) (*Snapshot, error) {
	if err := validation.ValidateSnapshotName(name); err != nil {
		return nil, fmt.Errorf("snapshot %s: %w", name, ErrNotFound)
	}

	data, err := os.ReadFile(s.path(name))
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("snapshot %s: %w", name, ErrNotFound)
		}
		return nil, fmt.Errorf("failed to read snapshot %s: %w", name, err)
	}

	var snap Snapshot
	if err := json.Unmarshal(data, &snap); err != nil {
		return nil, fmt.Errorf("snapshot %s: %w: %v", name, ErrCorruptRecord, err)
	}
	if err := snap.Validate(); err != nil {
		return nil, fmt.Errorf("snapshot %s: %w: %v", name, ErrCorruptRecord, err)
	}

	return &snap, nil
}

// List returns a summary of every stored snapshot, newest first.
// Unparsable files appear at the end with Valid=false. Repeated calls
// without intervening writes return identical ordered output.
func (s *Store) List() ([]Info, error) {
	entries, err := os.ReadDir(s.dir)
	if err != nil {
		return nil, fmt.Errorf("failed to read backup directory: %w", err)
	}

	var infos []Info
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".json") {
			continue
		}
		name := strings.TrimSuffix(entry.Name(), ".json")

		snap, err := s.Load(name)
		if err != nil {
			s.log.Warn("unreadable snapshot in store", "name", name, "error", err)
			infos = append(infos, Info{Name: name})
			continue
		}
		infos = append(infos, Info{
			Name:       name,
			CreatedAt:  snap.CreatedAt,
			Interfaces: len(snap.Interfaces),
			Valid:      true,
		})
	}

	sort.Slice(infos, func(i, j int) bool {
		a, b := infos[i], infos[j]
		if a.Valid != b.Valid {
			return a.Valid
		}
		if !a.CreatedAt.Equal(b.CreatedAt) {
			return a.CreatedAt.After(b.CreatedAt)
		}
		return a.Name > b.Name
	})

	return infos, nil
}

// Delete removes a snapshot by name. Returns ErrNotFound if absent.
func (s *Store) Delete(name string) error {
	if err := validation.ValidateSnapshotName(name); err != nil {
		return fmt.Errorf("snapshot %s: %w", name, ErrNotFound)
	}

	if err := os.Remove(s.path(name)); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return fmt.Errorf("snapshot %s: %w", name, ErrNotFound)
		}
		return fmt.Errorf("failed to delete snapshot %s: %w", name, err)
	}

	s.log.Debug("snapshot deleted", "name", name)
	return nil
}

// Cleanup removes snapshots that violate the retention policy: older than
// retentionDays or beyond the maxBackups most-recent, whichever removes
// more. A non-positive value disables that policy. The single most recent
// valid snapshot always survives, even when it violates the age policy.
// Returns the number of snapshots removed.
func (s *Store) Cleanup(retentionDays, maxBackups int) (int, error) {
	infos, err := s.List()
	if err != nil {
		return 0, err
	}

	cutoff := time.Now().AddDate(0, 0, -retentionDays)

	removed := 0
	position := 0
	for _, info := range infos {
		if !info.Valid {
			// Never auto-delete files we cannot read.
			continue
		}
		position++
		if position == 1 {
			continue // always keep the most recent snapshot
		}

		tooMany := maxBackups > 0 && position > maxBackups
		tooOld := retentionDays > 0 && info.CreatedAt.Before(cutoff)
		if !tooMany && !tooOld {
			continue
		}

		if err := s.Delete(info.Name); err != nil {
			return removed, err
		}
		s.log.Info("snapshot removed by retention policy", "name", info.Name)
		removed++
	}

	return removed, nil
}

// ExportTo copies a stored snapshot document verbatim to an external
// path. The snapshot is loaded first so a corrupt record is rejected
// before export.
func (s *Store) ExportTo(name, path string) error {
	if _, err := s.Load(name); err != nil {
		return err
	}

	data, err := os.ReadFile(s.path(name))
	if err != nil {
		return fmt.Errorf("failed to read snapshot %s: %w", name, err)
	}

	if err := os.WriteFile(path, data, 0600); err != nil {
		return fmt.Errorf("failed to write export of snapshot %s: %w", name, err)
	}

	return nil
}

// Import admits an external snapshot document into the store. The
// document is structurally validated first; its embedded name is used
// unless nameOverride is given, in which case the stored document is
// rewritten to carry the override. The same duplicate-name and atomicity
// rules as Save apply.
func (s *Store) Import(path, nameOverride string) (*Snapshot, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read import file: %w", err)
	}

	var snap Snapshot
	if err := json.Unmarshal(data, &snap); err != nil {
		return nil, fmt.Errorf("import: %w: %v", ErrCorruptRecord, err)
	}
	if nameOverride != "" {
		snap.Name = nameOverride
	}
	if err := snap.Validate(); err != nil {
		return nil, fmt.Errorf("import: %w: %v", ErrCorruptRecord, err)
	}

	if err := s.Save(&snap); err != nil {
		return nil, err
	}

	return &snap, nil
}
