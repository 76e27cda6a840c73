// Package partition implements the per-domain membership index with an
// open (mutable) to sealed (immutable, persistable) lifecycle.
package partition

import (
	"errors"
	"fmt"
)

// ErrSealed is returned by Insert on a partition that has been sealed.
var ErrSealed = errors.New("partition is sealed")

// Partition is a named set of normalized entries. It starts open and
// accepts insertions until Seal is called; afterwards it is backed by the
// compacted read-only form and rejects writes.
type Partition struct {
	name    string
	entries map[string]struct{}
	sealed  *Sealed
}

// New creates an empty open partition.
func New(name string) *Partition {
	return &Partition{
		name:    name,
		entries: make(map[string]struct{}),
	}
}

// Name returns the partition's domain name.
func (p *Partition) Name() string { return p.name }

// Insert adds an entry to the open set. Duplicate insertion is a no-op.
func (p *Partition) Insert(entry string) error {
	if p.sealed != nil {
		return fmt.Errorf("inserting %q into %s partition: %w", entry, p.name, ErrSealed)
	}
	p.entries[entry] = struct{}{}
	return nil
}

// Contains reports exact membership in both open and sealed states.
func (p *Partition) Contains(entry string) bool {
	if p.sealed != nil {
		return p.sealed.Contains(entry)
	}
	_, ok := p.entries[entry]
	return ok
}

// Len returns the number of unique entries.
func (p *Partition) Len() int {
	if p.sealed != nil {
		return p.sealed.Len()
	}
	return len(p.entries)
}

// Entries returns the partition's entries for scan-style checks: sorted
// when sealed, arbitrary order while open. Callers must not modify the
// returned slice.
func (p *Partition) Entries() []string {
	if p.sealed != nil {
		return p.sealed.Entries()
	}
	entries := make([]string, 0, len(p.entries))
	for e := range p.entries {
		entries = append(entries, e)
	}
	return entries
}

// Seal compacts the partition into its read-only form. Sealing an already
// sealed partition is a no-op returning the existing sealed form.
func (p *Partition) Seal() *Sealed {
	if p.sealed != nil {
		return p.sealed
	}
	p.sealed = newSealed(p.name, p.entries)
	p.entries = nil
	return p.sealed
}

// IsSealed reports whether Seal has been called.
func (p *Partition) IsSealed() bool { return p.sealed != nil }
