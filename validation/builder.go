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

package validation

import (
	"errors"
	"fmt"
)

// ErrorCollector accumulates validation errors so callers can report
// every problem with a value at once instead of stopping at the first.
type ErrorCollector struct {
	errs []error
	ctx  string // Optional context prefix (e.g., "interface eth0")
}

// NewCollector creates a new error collector.
func NewCollector() *ErrorCollector {
	return &ErrorCollector{}
}

// WithContext sets a context prefix that will be prepended to all
// subsequent errors. Useful when validating nested structures
// (e.g., "interface eth0: checksum missing").
func (ec *ErrorCollector) WithContext(ctx string) *ErrorCollector {
	ec.ctx = ctx
	return ec
}

// Check collects a validation error. Nil errors are ignored.
func (ec *ErrorCollector) Check(err error) {
	if err == nil {
		return
	}
	if ec.ctx != "" {
		err = fmt.Errorf("%s: %w", ec.ctx, err)
	}
	ec.errs = append(ec.errs, err)
}

// Addf records a validation failure described by a format string.
func (ec *ErrorCollector) Addf(format string, args ...any) {
	ec.Check(fmt.Errorf(format, args...))
}

// Err returns all accumulated errors joined together, or nil if every
// check passed.
func (ec *ErrorCollector) Err() error {
	return errors.Join(ec.errs...)
}
