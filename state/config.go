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

// Package state manages macshift's persisted configuration and the
// directories it keeps data in.
package state

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/macshift/macshift/validation"
)

const (
	defaultConfigBasePath = "/etc/macshift"
	defaultDataBasePath   = "/var/lib/macshift"
	configFileName        = "config.json"
)

// Config holds the process-wide settings. It is loaded once at startup
// and passed by reference into the components that need it; it is never
// ambient global state and is read-only after load.
type Config struct {
	// AutoBackup triggers a snapshot before every address change.
	AutoBackup bool `json:"auto_backup"`

	// RetentionDays is the age limit applied by cleanup. Zero disables
	// the age policy.
	RetentionDays int `json:"backup_retention_days"`

	// MaxBackups is the count limit applied by cleanup. Zero disables
	// the count policy.
	MaxBackups int `json:"max_backups"`

	// Backend selects the MAC backend: auto, netlink, or ifconfig.
	Backend string `json:"backend"`
}

// DefaultConfig returns the built-in defaults.
func DefaultConfig() *Config {
	return &Config{
		AutoBackup:    true,
		RetentionDays: 30,
		MaxBackups:    100,
		Backend:       "auto",
	}
}

// Validate checks the configuration for values that cannot work.
func (c *Config) Validate() error {
	if err := validation.ValidateBackend(c.Backend); err != nil {
		return err
	}
	if c.RetentionDays < 0 {
		return fmt.Errorf("backup_retention_days cannot be negative")
	}
	if c.MaxBackups < 0 {
		return fmt.Errorf("max_backups cannot be negative")
	}
	return nil
}

// GetConfigDir returns the configuration directory path.
// Checks MACSHIFT_CONFIG_DIR environment variable, falls back to /etc/macshift.
func GetConfigDir() string {
	if dir := os.Getenv("MACSHIFT_CONFIG_DIR"); dir != "" {
		return dir
	}
	return defaultConfigBasePath
}

// GetDataDir returns the data directory path.
// Checks MACSHIFT_DATA_DIR environment variable, falls back to /var/lib/macshift.
func GetDataDir() string {
	if dir := os.Getenv("MACSHIFT_DATA_DIR"); dir != "" {
		return dir
	}
	return defaultDataBasePath
}

// BackupDir returns the snapshot store directory.
func BackupDir() string {
	return filepath.Join(GetDataDir(), "backups")
}

// HistoryPath returns the change journal database path.
func HistoryPath() string {
	return filepath.Join(GetDataDir(), "history.db")
}

// Load reads the configuration file. A missing file yields the defaults;
// a malformed one is an error, reported with line and column for syntax
// problems.
func Load() (*Config, error) {
	path := filepath.Join(GetConfigDir(), configFileName)

	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return DefaultConfig(), nil
		}
		return nil, fmt.Errorf("failed to read config: %w", err)
	}

	cfg := DefaultConfig()
	if err := UnmarshalJSON(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return cfg, nil
}

// Save writes the configuration atomically (temp file + rename),
// creating the config directory if needed.
func Save(cfg *Config) error {
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}

	dir := GetConfigDir()
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := json.MarshalIndent(cfg, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}
	data = append(data, '\n')

	path := filepath.Join(dir, configFileName)
	tmpPath := path + ".tmp"
	if err := os.WriteFile(tmpPath, data, 0600); err != nil {
		return fmt.Errorf("failed to write temp file: %w", err)
	}

	if err := os.Rename(tmpPath, path); err != nil {
		return fmt.Errorf("failed to rename temp file: %w", err)
	}

	return nil
}

// UnmarshalJSON unmarshals JSON data with enhanced error reporting.
func UnmarshalJSON(data []byte, v interface{}) error {
	if err := json.Unmarshal(data, v); err != nil {
		// Provide more helpful error message for JSON syntax errors
		if syntaxErr, ok := err.(*json.SyntaxError); ok {
			line, col := getLineCol(data, syntaxErr.Offset)
			return fmt.Errorf("JSON syntax error at line %d, column %d: %w", line, col, err)
		}
		return err
	}
	return nil
}

// getLineCol calculates the line and column number for a byte offset in JSON data.
func getLineCol(data []byte, offset int64) (line, col int) {
	line = 1
	col = 1
	for i := int64(0); i < offset && i < int64(len(data)); i++ {
		if data[i] == '\n' {
			line++
			col = 1
		} else {
			col++
		}
	}
	return
}
