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

package cmd

import (
	"context"
	"fmt"
	"io"
	"sort"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/macshift/macshift/backup"
	"github.com/macshift/macshift/history"
)

var (
	restoreInterfaces []string
	restoreDryRun     bool
	importName        string
)

var backupCmd = &cobra.Command{
	Use:   "backup",
	Short: "Manage MAC address snapshots",
	Long: `Manage snapshot backups of interface MAC addresses.

Snapshots are created automatically before each change (when auto backup
is enabled) and can also be created manually. Each snapshot records every
interface's address together with an integrity checksum.`,
}

var backupCreateCmd = &cobra.Command{
	Use:   "create [name]",
	Short: "Create a snapshot of current MAC addresses",
	Long: `Creates a snapshot of every interface's current hardware address.

Without a name, one is derived from the current timestamp.`,
	Args: cobra.MaximumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		name := ""
		if len(args) > 0 {
			name = args[0]
		}
		runBackup(cmd, func(w io.Writer, deps *commandDeps) error {
			return executeBackupCreate(w, deps, name)
		})
	},
}

var backupListCmd = &cobra.Command{
	Use:   "list",
	Short: "List stored snapshots",
	Run: func(cmd *cobra.Command, args []string) {
		runBackup(cmd, func(w io.Writer, deps *commandDeps) error {
			return executeBackupList(w, deps.store)
		})
	},
}

var backupVerifyCmd = &cobra.Command{
	Use:   "verify <name>",
	Short: "Verify the integrity of a snapshot",
	Long: `Recomputes each interface entry's checksum from the stored data and
compares it to the recorded digest. Detects file corruption, not drift
from the live system.`,
	Args: cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		runBackup(cmd, func(w io.Writer, deps *commandDeps) error {
			return executeBackupVerify(w, deps.store, args[0])
		})
	},
}

var backupRestoreCmd = &cobra.Command{
	Use:   "restore <name>",
	Short: "Restore MAC addresses from a snapshot",
	Long: `Writes a snapshot's recorded addresses back to live interfaces.

Interfaces are restored one at a time; a failure on one interface is
reported and does not stop the rest. Already-applied changes are never
rolled back.

Examples:
  macshift backup restore mac_backup_20240101_120000
  macshift backup restore nightly --interface eth0 --interface wlan0
  macshift backup restore nightly --dry-run`,
	Args: cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		runBackup(cmd, func(w io.Writer, deps *commandDeps) error {
			return executeBackupRestore(w, deps, args[0], restoreInterfaces, restoreDryRun)
		})
	},
}

var backupDeleteCmd = &cobra.Command{
	Use:   "delete <name>",
	Short: "Delete a snapshot",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		runBackup(cmd, func(w io.Writer, deps *commandDeps) error {
			if err := deps.store.Delete(args[0]); err != nil {
				return err
			}
			fmt.Fprintf(w, "Snapshot %s deleted\n", args[0])
			return nil
		})
	},
}

var backupCleanupCmd = &cobra.Command{
	Use:   "cleanup",
	Short: "Remove snapshots per the retention policy",
	Long: `Removes snapshots older than the configured retention age or beyond
the configured count limit. The most recent snapshot is always kept.`,
	Run: func(cmd *cobra.Command, args []string) {
		runBackup(cmd, func(w io.Writer, deps *commandDeps) error {
			removed, err := deps.store.Cleanup(deps.cfg.RetentionDays, deps.cfg.MaxBackups)
			if err != nil {
				return err
			}
			fmt.Fprintf(w, "Removed %d snapshot(s)\n", removed)
			return nil
		})
	},
}

var backupExportCmd = &cobra.Command{
	Use:   "export <name> <path>",
	Short: "Export a snapshot to a file",
	Args:  cobra.ExactArgs(2),
	Run: func(cmd *cobra.Command, args []string) {
		runBackup(cmd, func(w io.Writer, deps *commandDeps) error {
			if err := deps.store.ExportTo(args[0], args[1]); err != nil {
				return err
			}
			fmt.Fprintf(w, "Snapshot %s exported\n", args[0])
			return nil
		})
	},
}

var backupImportCmd = &cobra.Command{
	Use:   "import <path>",
	Short: "Import a snapshot from a file",
	Long: `Validates an exported snapshot document and admits it into the store
under its embedded name, or under --name if given.`,
	Args: cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		runBackup(cmd, func(w io.Writer, deps *commandDeps) error {
			snap, err := deps.store.Import(args[0], importName)
			if err != nil {
				return err
			}
			fmt.Fprintf(w, "Snapshot %s imported (%d interfaces)\n", snap.Name, len(snap.Interfaces))
			return nil
		})
	},
}

func init() {
	backupRestoreCmd.Flags().StringArrayVar(&restoreInterfaces, "interface", nil,
		"Restore only this interface (repeatable)")
	backupRestoreCmd.Flags().BoolVar(&restoreDryRun, "dry-run", false,
		"Show what would be restored without applying it")
	backupImportCmd.Flags().StringVar(&importName, "name", "",
		"Store the imported snapshot under this name")

	backupCmd.AddCommand(backupCreateCmd)
	backupCmd.AddCommand(backupListCmd)
	backupCmd.AddCommand(backupVerifyCmd)
	backupCmd.AddCommand(backupRestoreCmd)
	backupCmd.AddCommand(backupDeleteCmd)
	backupCmd.AddCommand(backupCleanupCmd)
	backupCmd.AddCommand(backupExportCmd)
	backupCmd.AddCommand(backupImportCmd)
	rootCmd.AddCommand(backupCmd)
}

// runBackup handles the shared dependency setup and error reporting for
// all backup subcommands.
func runBackup(cmd *cobra.Command, fn func(io.Writer, *commandDeps) error) {
	deps, err := newCommandDeps()
	if err == nil {
		err = deps.ensureStore()
	}
	if err != nil {
		cmd.PrintErrln(fmt.Sprintf("Error: %v", err))
		exitWithError()
		return
	}
	defer deps.close()

	if err := fn(cmd.OutOrStdout(), deps); err != nil {
		cmd.PrintErrln(fmt.Sprintf("Error: %v", err))
		exitWithError()
	}
}

// executeBackupCreate builds and stores a snapshot.
func executeBackupCreate(w io.Writer, deps *commandDeps, name string) error {
	builder := backup.NewBuilder(deps.mgr, Version, deps.log)
	snap, err := builder.Build(context.Background(), name)
	if err != nil {
		return err
	}
	if err := deps.store.Save(snap); err != nil {
		return err
	}

	fmt.Fprintf(w, "Snapshot %s created (%d interfaces)\n", snap.Name, len(snap.Interfaces))
	return nil
}

// executeBackupList prints the snapshot table, newest first.
func executeBackupList(w io.Writer, store *backup.Store) error {
	infos, err := store.List()
	if err != nil {
		return err
	}

	if len(infos) == 0 {
		fmt.Fprintln(w, "No snapshots available")
		return nil
	}

	fmt.Fprintf(w, "%-30s %-25s %-10s\n", "NAME", "CREATED", "INTERFACES")
	fmt.Fprintln(w, strings.Repeat("-", 67))

	for _, info := range infos {
		if !info.Valid {
			fmt.Fprintf(w, "%-30s %-25s %-10s\n", info.Name, "-", "(corrupt)")
			continue
		}
		fmt.Fprintf(w, "%-30s %-25s %-10d\n",
			info.Name,
			info.CreatedAt.Format("2006-01-02 15:04:05"),
			info.Interfaces,
		)
	}

	return nil
}

// executeBackupVerify prints per-interface integrity status and fails
// when any entry mismatches.
func executeBackupVerify(w io.Writer, store *backup.Store, name string) error {
	snap, err := store.Load(name)
	if err != nil {
		return err
	}

	result, err := backup.Verify(snap)
	if err != nil {
		return err
	}

	for _, iface := range result.OK {
		fmt.Fprintf(w, "[OK]       %s\n", iface)
	}
	for _, iface := range result.Mismatched {
		fmt.Fprintf(w, "[MISMATCH] %s\n", iface)
	}

	if !result.Clean() {
		return fmt.Errorf("snapshot %s: %d interface(s) failed integrity check", name, len(result.Mismatched))
	}

	fmt.Fprintf(w, "Snapshot %s verified: all %d interface(s) intact\n", name, len(result.OK))
	return nil
}

// executeBackupRestore loads a snapshot, optionally takes a pre-restore
// backup, applies the restore, and prints the per-interface report.
func executeBackupRestore(w io.Writer, deps *commandDeps, name string, interfaces []string, dryRun bool) error {
	ctx := context.Background()

	snap, err := deps.store.Load(name)
	if err != nil {
		return err
	}

	if !dryRun {
		if err := checkPrivileges(); err != nil {
			return err
		}

		// Keep the current state recoverable before overwriting it.
		if deps.cfg.AutoBackup {
			if err := preRestoreBackup(ctx, deps); err != nil {
				deps.log.Warn("pre-restore backup failed", "error", err)
				fmt.Fprintln(w, "Warning: pre-restore backup failed, continuing without one")
			}
		}

		deps.ensureJournal()
	}

	restorer := backup.NewRestorer(deps.mgr, deps.log)
	report, err := restorer.Restore(ctx, snap, interfaces, dryRun)
	if err != nil {
		return err
	}

	if !dryRun {
		recordRestoreOutcomes(deps, snap, report)
	}

	printRestoreReport(w, report, dryRun)

	if report.Failed > 0 {
		return fmt.Errorf("restore of snapshot %s: %d interface(s) failed", name, report.Failed)
	}
	return nil
}

// preRestoreBackup snapshots the current addresses under a pre_restore name.
func preRestoreBackup(ctx context.Context, deps *commandDeps) error {
	builder := backup.NewBuilder(deps.mgr, Version, deps.log)
	snap, err := builder.Build(ctx, fmt.Sprintf("pre_restore_%d", time.Now().Unix()))
	if err != nil {
		return err
	}
	return deps.store.Save(snap)
}

// recordRestoreOutcomes journals each actual restore attempt.
func recordRestoreOutcomes(deps *commandDeps, snap *backup.Snapshot, report *backup.Report) {
	for iface, outcome := range report.PerInterface {
		entry, ok := snap.Interfaces[iface]
		if !ok {
			continue // not_in_snapshot: nothing was attempted
		}

		result := history.ResultFailed
		if outcome == backup.OutcomeApplied {
			result = history.ResultOK
		}
		deps.recordChange(history.Entry{
			Interface: iface,
			NewMAC:    entry.MAC,
			Action:    history.ActionRestore,
			Result:    result,
		})
	}
}

// printRestoreReport renders the per-interface outcome table and summary.
func printRestoreReport(w io.Writer, report *backup.Report, dryRun bool) {
	names := make([]string, 0, len(report.PerInterface))
	for name := range report.PerInterface {
		names = append(names, name)
	}
	sort.Strings(names)

	fmt.Fprintf(w, "%-16s %-22s\n", "INTERFACE", "OUTCOME")
	fmt.Fprintln(w, strings.Repeat("-", 39))
	for _, name := range names {
		fmt.Fprintf(w, "%-16s %-22s\n", name, report.PerInterface[name])
	}

	if dryRun {
		fmt.Fprintf(w, "\n[DRY RUN] %d interface(s) would be restored, %d failed\n",
			report.Succeeded, report.Failed)
		return
	}
	fmt.Fprintf(w, "\n%d interface(s) restored, %d failed\n", report.Succeeded, report.Failed)
}
