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

// Package cmd implements the CLI commands for macshift using cobra.
// It provides the root command structure and version management.
package cmd

import (
	"context"
	"fmt"
	"os"

	"github.com/hashicorp/go-hclog"
	"github.com/spf13/cobra"

	"github.com/macshift/macshift/backup"
	"github.com/macshift/macshift/history"
	"github.com/macshift/macshift/logging"
	"github.com/macshift/macshift/state"
	"github.com/macshift/macshift/system"
)

// Version is the application version string.
var (
	Version   = "dev"
	BuildTime = "unknown"
)

var verbose bool

var rootCmd = &cobra.Command{
	Use:   "macshift",
	Short: "macshift - MAC address manager",
	Long: `macshift reads and changes the hardware (MAC) addresses of network
interfaces and keeps snapshot backups of them for later recovery.`,
	Version: Version,
}

func init() {
	rootCmd.SetVersionTemplate(fmt.Sprintf("macshift v%s (built: %s)\n", Version, BuildTime))
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable debug logging")
}

// Execute runs the root command and handles any errors.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// SetVersion updates the version and build time for display in help and version output.
func SetVersion(version, buildTime string) {
	Version = version
	BuildTime = buildTime
	rootCmd.Version = version
	rootCmd.SetVersionTemplate(fmt.Sprintf("macshift v%s (built: %s)\n", version, buildTime))
}

// exitWithError is a helper function that exits with code 1.
// It can be overridden in tests to avoid actual exit.
var exitWithError = func() {
	os.Exit(1)
}

// checkPrivileges is overridable in tests to avoid requiring root.
var checkPrivileges = system.CheckPrivileges

// commandDeps bundles the collaborators a command needs: configuration,
// logger, MAC backend, snapshot store, and the change journal.
type commandDeps struct {
	cfg     *state.Config
	log     hclog.Logger
	mgr     system.Manager
	store   *backup.Store
	journal *history.Journal
}

// newCommandDeps loads the configuration and constructs the MAC backend.
// The snapshot store and journal are opened separately so read-only
// commands never touch the data directory.
func newCommandDeps() (*commandDeps, error) {
	cfg, err := state.Load()
	if err != nil {
		return nil, err
	}

	log := logging.New(verbose)

	mgr, err := system.NewManager(cfg.Backend, log)
	if err != nil {
		return nil, err
	}

	return &commandDeps{
		cfg: cfg,
		log: log,
		mgr: mgr,
	}, nil
}

// ensureStore opens the snapshot store, creating its directory if needed.
func (d *commandDeps) ensureStore() error {
	if d.store != nil {
		return nil
	}
	store, err := backup.NewStore(state.BackupDir(), d.log)
	if err != nil {
		return err
	}
	d.store = store
	return nil
}

// ensureJournal opens the change journal. Best-effort: on failure the
// journal stays nil and commands proceed without recording.
func (d *commandDeps) ensureJournal() {
	if d.journal != nil {
		return
	}
	journal, err := history.Open(state.HistoryPath(), d.log)
	if err != nil {
		d.log.Warn("history journal unavailable", "error", err)
		return
	}
	d.journal = journal
}

// close releases held resources.
func (d *commandDeps) close() {
	if d.journal != nil {
		d.journal.Close()
	}
}

// recordChange appends a journal entry if the journal is available.
// Journal failures are warnings, never fatal.
func (d *commandDeps) recordChange(e history.Entry) {
	if d.journal == nil {
		return
	}
	if err := d.journal.Record(context.Background(), e); err != nil {
		d.log.Warn("failed to record change in history", "error", err)
	}
}
