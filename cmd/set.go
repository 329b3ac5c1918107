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

	"github.com/spf13/cobra"

	"github.com/macshift/macshift/backup"
	"github.com/macshift/macshift/history"
	"github.com/macshift/macshift/system"
	"github.com/macshift/macshift/validation"
)

var (
	setRandom bool
	setDryRun bool
)

var setCmd = &cobra.Command{
	Use:   "set <interface> [mac]",
	Short: "Change the MAC address of an interface",
	Long: `Changes the hardware address of an interface. Requires root.

When auto backup is enabled (the default), a snapshot of all interfaces
is taken before the change so the previous addresses can be restored.

Examples:
  macshift set eth0 00:11:22:33:44:55
  macshift set eth0 --random
  macshift set eth0 --random --dry-run`,
	Args: cobra.RangeArgs(1, 2),
	Run:  runSet,
}

func init() {
	setCmd.Flags().BoolVar(&setRandom, "random", false, "Generate a random locally-administered address")
	setCmd.Flags().BoolVar(&setDryRun, "dry-run", false, "Show what would change without applying it")
	rootCmd.AddCommand(setCmd)
}

func runSet(cmd *cobra.Command, args []string) {
	fail := func(err error) {
		cmd.PrintErrln(fmt.Sprintf("Error: %v", err))
		exitWithError()
	}

	var mac string
	switch {
	case setRandom && len(args) > 1:
		fail(fmt.Errorf("cannot combine --random with an explicit MAC address"))
		return
	case setRandom:
		random, err := system.RandomMAC()
		if err != nil {
			fail(err)
			return
		}
		mac = random
	case len(args) > 1:
		mac = args[1]
	default:
		fail(fmt.Errorf("either a MAC address or --random is required"))
		return
	}

	deps, err := newCommandDeps()
	if err != nil {
		fail(err)
		return
	}
	defer deps.close()

	if err := executeSet(cmd.OutOrStdout(), deps, args[0], mac, setDryRun); err != nil {
		fail(err)
	}
}

// executeSet validates, previews, and applies a MAC change, creating an
// automatic backup first when configured. The change is verified by
// reading the address back afterwards.
func executeSet(w io.Writer, deps *commandDeps, name, mac string, dryRun bool) error {
	ctx := context.Background()

	if err := validation.ValidateInterfaceName(name); err != nil {
		return err
	}
	mac, err := validation.NormalizeMAC(mac)
	if err != nil {
		return err
	}

	current, err := deps.mgr.MAC(ctx, name)
	if err != nil {
		return err
	}

	fmt.Fprintf(w, "Interface:   %s\n", name)
	fmt.Fprintf(w, "Current MAC: %s\n", current)
	fmt.Fprintf(w, "New MAC:     %s\n", mac)

	if dryRun {
		fmt.Fprintln(w, "\n[DRY RUN] No changes applied")
		return nil
	}

	if err := checkPrivileges(); err != nil {
		return err
	}

	// Snapshot before touching anything, so the change is reversible.
	if deps.cfg.AutoBackup {
		if err := autoBackup(ctx, deps); err != nil {
			deps.log.Warn("automatic backup failed", "error", err)
			fmt.Fprintln(w, "Warning: automatic backup failed, continuing without one")
		}
	}

	deps.ensureJournal()

	if err := deps.mgr.SetMAC(ctx, name, mac); err != nil {
		deps.recordChange(history.Entry{
			Interface: name, OldMAC: current, NewMAC: mac,
			Action: history.ActionChange, Result: history.ResultFailed,
		})
		return err
	}

	deps.recordChange(history.Entry{
		Interface: name, OldMAC: current, NewMAC: mac,
		Action: history.ActionChange, Result: history.ResultOK,
	})

	// Read back to confirm the kernel accepted the new address.
	applied, err := deps.mgr.MAC(ctx, name)
	if err != nil {
		fmt.Fprintln(w, "\nMAC address changed, but verification read failed")
		return nil
	}
	if applied != mac {
		return fmt.Errorf("verification failed: interface %s reports %s instead of %s", name, applied, mac)
	}

	fmt.Fprintln(w, "\nMAC address changed successfully")
	return nil
}

// autoBackup creates and stores a timestamp-named snapshot.
func autoBackup(ctx context.Context, deps *commandDeps) error {
	if err := deps.ensureStore(); err != nil {
		return err
	}

	builder := backup.NewBuilder(deps.mgr, Version, deps.log)
	snap, err := builder.Build(ctx, "")
	if err != nil {
		return err
	}
	return deps.store.Save(snap)
}
