// Package config provides the unified configuration struct for evilcheck.
package config

import (
	"fmt"
	"os"
	"path/filepath"
)

// PartitionExt is the file extension for persisted partition files.
const PartitionExt = "zst"

// Config holds all parsed CLI state for an evilcheck run.
type Config struct {
	// WorkDir is the directory holding the persisted partition files.
	WorkDir string

	// Resolver options
	Smarter bool // enable cross-domain escalation
	Resolve bool // reserved for DNS cross-checks; accepted, currently inert

	// Output options
	CSVPath string // append search results to this CSV file ("" disables export)
	Quiet   bool
	Verbose bool
}

// PartitionPath returns the persisted file path for one partition name,
// following the <workdir>/<domain>.<ext> convention.
func (c *Config) PartitionPath(name string) string {
	return filepath.Join(c.WorkDir, name+"."+PartitionExt)
}

// Validate checks that the configuration is usable.
func (c *Config) Validate() error {
	if c.WorkDir == "" {
		return fmt.Errorf("working directory must not be empty")
	}
	info, err := os.Stat(c.WorkDir)
	if err != nil {
		return fmt.Errorf("working directory %q: %w", c.WorkDir, err)
	}
	if !info.IsDir() {
		return fmt.Errorf("working directory %q is not a directory", c.WorkDir)
	}
	if c.Quiet && c.Verbose {
		return fmt.Errorf("--quiet and --verbose are mutually exclusive")
	}
	return nil
}
