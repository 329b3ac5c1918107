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

	"github.com/macshift/macshift/system"
)

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show system and backup status",
	Long:  `Displays host information, the active MAC backend, configuration, and snapshot store status.`,
	Run:   runStatus,
}

func init() {
	rootCmd.AddCommand(statusCmd)
}

func runStatus(cmd *cobra.Command, args []string) {
	deps, err := newCommandDeps()
	if err != nil {
		cmd.PrintErrln(fmt.Sprintf("Error: %v", err))
		exitWithError()
		return
	}
	defer deps.close()

	if err := executeStatus(cmd.OutOrStdout(), deps); err != nil {
		cmd.PrintErrln(fmt.Sprintf("Error: %v", err))
		exitWithError()
	}
}

// executeStatus prints the status summary.
func executeStatus(w io.Writer, deps *commandDeps) error {
	fmt.Fprintf(w, "macshift v%s\n", Version)
	fmt.Fprintln(w, "==================================")
	fmt.Fprintln(w)

	info := system.Probe()
	fmt.Fprintf(w, "Host:        %s (%s/%s)\n", info.Hostname, info.OS, info.Arch)
	if info.Kernel != "" {
		fmt.Fprintf(w, "Kernel:      %s\n", info.Kernel)
	}
	fmt.Fprintf(w, "Backend:     %s\n", system.ResolveBackend(deps.cfg.Backend))

	if err := checkPrivileges(); err != nil {
		fmt.Fprintln(w, "Privileges:  read-only (run as root to change addresses)")
	} else {
		fmt.Fprintln(w, "Privileges:  root")
	}

	fmt.Fprintln(w)
	fmt.Fprintf(w, "Auto backup: %v\n", deps.cfg.AutoBackup)
	fmt.Fprintf(w, "Retention:   %d day(s), max %d snapshot(s)\n",
		deps.cfg.RetentionDays, deps.cfg.MaxBackups)

	if err := deps.ensureStore(); err != nil {
		fmt.Fprintln(w, "Snapshots:   store unavailable")
		return nil
	}
	infos, err := deps.store.List()
	if err != nil {
		return err
	}
	fmt.Fprintf(w, "Snapshots:   %d stored\n", len(infos))
	if len(infos) > 0 && infos[0].Valid {
		fmt.Fprintf(w, "Newest:      %s (%s)\n",
			infos[0].Name, infos[0].CreatedAt.Format("2006-01-02 15:04:05"))
	}

	interfaces, err := deps.mgr.Interfaces(context.Background())
	if err == nil {
		fmt.Fprintf(w, "Interfaces:  %d with hardware addresses\n", len(interfaces))
	}

	return nil
}
