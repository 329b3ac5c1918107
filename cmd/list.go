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
	"strings"

	"github.com/spf13/cobra"

	"github.com/macshift/macshift/system"
)

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List network interfaces and their MAC addresses",
	Long: `Lists every network interface that carries a hardware address,
together with its current MAC and link state. Interfaces without one
(loopback, tunnels) are omitted.`,
	Run: runList,
}

func init() {
	rootCmd.AddCommand(listCmd)
}

func runList(cmd *cobra.Command, args []string) {
	deps, err := newCommandDeps()
	if err != nil {
		cmd.PrintErrln(fmt.Sprintf("Error: %v", err))
		exitWithError()
		return
	}
	defer deps.close()

	if err := executeList(cmd.OutOrStdout(), deps.mgr); err != nil {
		cmd.PrintErrln(fmt.Sprintf("Error: %v", err))
		exitWithError()
	}
}

// executeList prints the interface table for the given manager.
func executeList(w io.Writer, mgr system.Manager) error {
	interfaces, err := mgr.Interfaces(context.Background())
	if err != nil {
		return err
	}

	if len(interfaces) == 0 {
		fmt.Fprintln(w, "No interfaces with hardware addresses found")
		return nil
	}

	fmt.Fprintf(w, "%-16s %-20s %-6s\n", "INTERFACE", "MAC ADDRESS", "STATE")
	fmt.Fprintln(w, strings.Repeat("-", 44))

	for _, iface := range interfaces {
		state := "down"
		if iface.Up {
			state = "up"
		}
		fmt.Fprintf(w, "%-16s %-20s %-6s\n", iface.Name, iface.MAC, state)
	}

	return nil
}
