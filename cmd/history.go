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

	"github.com/guptarohit/asciigraph"
	"github.com/spf13/cobra"

	"github.com/macshift/macshift/history"
)

var (
	historyLimit     int
	historyInterface string
	historyGraph     bool
	historyDays      int
)

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Show the MAC address change journal",
	Long: `Shows recorded MAC address changes and restores, newest first.

With --graph, plots change activity per day instead.`,
	Run: runHistory,
}

func init() {
	historyCmd.Flags().IntVar(&historyLimit, "limit", 20, "Maximum number of entries to show")
	historyCmd.Flags().StringVar(&historyInterface, "interface", "", "Only show changes for this interface")
	historyCmd.Flags().BoolVar(&historyGraph, "graph", false, "Plot change activity per day")
	historyCmd.Flags().IntVar(&historyDays, "days", 14, "Days of activity to plot with --graph")
	rootCmd.AddCommand(historyCmd)
}

func runHistory(cmd *cobra.Command, args []string) {
	deps, err := newCommandDeps()
	if err != nil {
		cmd.PrintErrln(fmt.Sprintf("Error: %v", err))
		exitWithError()
		return
	}
	defer deps.close()

	deps.ensureJournal()
	if deps.journal == nil {
		cmd.PrintErrln("Error: history journal unavailable")
		exitWithError()
		return
	}

	if historyGraph {
		err = executeHistoryGraph(cmd.OutOrStdout(), deps.journal, historyDays)
	} else {
		err = executeHistory(cmd.OutOrStdout(), deps.journal, historyLimit, historyInterface)
	}
	if err != nil {
		cmd.PrintErrln(fmt.Sprintf("Error: %v", err))
		exitWithError()
	}
}

// executeHistory prints the journal table, newest first.
func executeHistory(w io.Writer, journal *history.Journal, limit int, iface string) error {
	entries, err := journal.Recent(context.Background(), limit, iface)
	if err != nil {
		return err
	}

	if len(entries) == 0 {
		fmt.Fprintln(w, "No recorded changes")
		return nil
	}

	fmt.Fprintf(w, "%-20s %-12s %-18s %-18s %-8s %-7s\n",
		"TIME", "INTERFACE", "OLD MAC", "NEW MAC", "ACTION", "RESULT")
	fmt.Fprintln(w, strings.Repeat("-", 88))

	for _, e := range entries {
		oldMAC := e.OldMAC
		if oldMAC == "" {
			oldMAC = "-"
		}
		fmt.Fprintf(w, "%-20s %-12s %-18s %-18s %-8s %-7s\n",
			e.At.Local().Format("2006-01-02 15:04:05"),
			e.Interface, oldMAC, e.NewMAC, e.Action, e.Result)
	}

	return nil
}

// executeHistoryGraph plots change counts per day for the last N days.
func executeHistoryGraph(w io.Writer, journal *history.Journal, days int) error {
	if days < 2 {
		return fmt.Errorf("--days must be at least 2")
	}

	series, err := journal.ActivityByDay(context.Background(), days)
	if err != nil {
		return err
	}

	graph := asciigraph.Plot(series,
		asciigraph.Height(8),
		asciigraph.Width(60),
		asciigraph.Caption(fmt.Sprintf("MAC changes per day (last %d days)", days)))

	fmt.Fprintln(w, graph)
	return nil
}
