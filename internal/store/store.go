// Package store owns the five domain partitions and their ingest, seal,
// persist and load lifecycle.
package store

import (
	"fmt"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/evilbit/evilcheck/internal/category"
	"github.com/evilbit/evilcheck/internal/config"
	"github.com/evilbit/evilcheck/internal/partition"
)

// Store routes entries to the partition their category selects.
//
// A store is single-writer: exactly one ingestion pass runs between New
// and Finalize, after which the instance is retired. A store used for
// searching comes from Load, holds only sealed partitions, and is never
// mutated, so it is safe to share across concurrent readers.
type Store struct {
	cfg   *config.Config
	parts map[category.Domain]*partition.Partition
	log   *logrus.Logger
}

// New creates an empty store with all five partitions open for ingestion.
func New(cfg *config.Config, log *logrus.Logger) *Store {
	parts := make(map[category.Domain]*partition.Partition, len(category.Domains()))
	for _, d := range category.Domains() {
		parts[d] = partition.New(d.String())
	}
	return &Store{cfg: cfg, parts: parts, log: log}
}

// Load reads whichever persisted partitions exist under the working
// directory. A missing file leaves that partition empty; it is not an
// error.
func Load(cfg *config.Config, log *logrus.Logger) (*Store, error) {
	s := &Store{
		cfg:   cfg,
		parts: make(map[category.Domain]*partition.Partition, len(category.Domains())),
		log:   log,
	}
	for _, d := range category.Domains() {
		p, err := partition.Load(d.String(), cfg.PartitionPath(d.String()))
		if err != nil {
			return nil, fmt.Errorf("loading %s partition: %w", d, err)
		}
		s.parts[d] = p
		log.WithFields(logrus.Fields{
			"partition": d.String(),
			"entries":   p.Len(),
		}).Debug("partition loaded")
	}
	return s, nil
}

// Partition returns the index for one domain.
func (s *Store) Partition(d category.Domain) *partition.Partition {
	return s.parts[d]
}

// Ingest categorizes and routes raw lines into their partitions and
// returns the grouping that was applied, keyed by domain. Blank and
// whitespace-only lines are dropped. Ingest fails once the store has been
// finalized.
func (s *Store) Ingest(lines []string) (map[category.Domain][]string, error) {
	grouped := make(map[category.Domain][]string)
	for _, line := range lines {
		if strings.TrimSpace(line) == "" {
			continue
		}
		d, normalized := category.Categorize(line)
		if normalized == "" {
			continue
		}
		if err := s.parts[d].Insert(normalized); err != nil {
			return nil, fmt.Errorf("ingesting %q: %w", line, err)
		}
		grouped[d] = append(grouped[d], normalized)
	}
	return grouped, nil
}

// Finalize seals all five partitions and persists them under the working
// directory, returning each partition's final size. The store accepts no
// further ingestion afterwards.
func (s *Store) Finalize() (map[category.Domain]int, error) {
	sizes := make(map[category.Domain]int, len(s.parts))
	for _, d := range category.Domains() {
		sealed := s.parts[d].Seal()
		path := s.cfg.PartitionPath(d.String())
		if err := sealed.Persist(path); err != nil {
			return nil, fmt.Errorf("persisting %s partition: %w", d, err)
		}
		sizes[d] = sealed.Len()
		s.log.WithFields(logrus.Fields{
			"partition": d.String(),
			"entries":   sealed.Len(),
			"path":      path,
		}).Debug("partition sealed and persisted")
	}
	return sizes, nil
}
