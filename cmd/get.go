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
	"github.com/macshift/macshift/validation"
)

var getCmd = &cobra.Command{
	Use:   "get <interface>",
	Short: "Show the current MAC address of an interface",
	Long: `Prints the current hardware address of a single interface.

Examples:
  macshift get eth0
  macshift get wlan0`,
	Args: cobra.ExactArgs(1),
	Run:  runGet,
}

func init() {
	rootCmd.AddCommand(getCmd)
}

func runGet(cmd *cobra.Command, args []string) {
	deps, err := newCommandDeps()
	if err != nil {
		cmd.PrintErrln(fmt.Sprintf("Error: %v", err))
		exitWithError()
		return
	}
	defer deps.close()

	if err := executeGet(cmd.OutOrStdout(), deps.mgr, args[0]); err != nil {
		cmd.PrintErrln(fmt.Sprintf("Error: %v", err))
		exitWithError()
	}
}

// executeGet prints the current MAC address of one interface.
func executeGet(w io.Writer, mgr system.Manager, name string) error {
	if err := validation.ValidateInterfaceName(name); err != nil {
		return err
	}

	mac, err := mgr.MAC(context.Background(), name)
	if err != nil {
		return err
	}

	fmt.Fprintln(w, mac)
	return nil
}
