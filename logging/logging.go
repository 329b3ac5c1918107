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

// Package logging constructs the shared hclog logger for macshift.
package logging

import (
	"os"

	"github.com/hashicorp/go-hclog"
)

// New creates the process logger. Operational messages go to stderr so
// command output on stdout stays parseable. MACSHIFT_DEBUG in the
// environment forces debug level regardless of the verbose flag.
func New(verbose bool) hclog.Logger {
	level := hclog.Warn
	if verbose {
		level = hclog.Debug
	}
	if os.Getenv("MACSHIFT_DEBUG") != "" {
		level = hclog.Debug
	}

	return hclog.New(&hclog.LoggerOptions{
		Name:   "macshift",
		Output: os.Stderr,
		Level:  level,
	})
}
