// Package batch fans queries and query files through the resolver and
// exports the results as delimited records.
package batch

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/evilbit/evilcheck/internal/resolver"
)

// UnreadableSourceError reports a batch input naming an existing file that
// could not be read.
type UnreadableSourceError struct {
	Path string
	Err  error
}

func (e *UnreadableSourceError) Error() string {
	return fmt.Sprintf("unreadable source %q: %v", e.Path, e.Err)
}

func (e *UnreadableSourceError) Unwrap() error { return e.Err }

// Processor applies the resolver across many queries.
type Processor struct {
	resolver *resolver.Resolver
	log      *logrus.Logger
}

// NewProcessor creates a batch processor over r.
func NewProcessor(r *resolver.Resolver, log *logrus.Logger) *Processor {
	return &Processor{resolver: r, log: log}
}

// FindMany resolves every item and returns one verdict per distinct item.
// Duplicates collapse to a single entry.
func (p *Processor) FindMany(items []string, opts resolver.Options) map[string]resolver.Verdict {
	results := make(map[string]resolver.Verdict, len(items))
	for _, item := range items {
		if _, ok := results[item]; ok {
			continue
		}
		results[item] = p.resolver.Find(item, opts)
	}
	return results
}

// FindFromSources resolves every input, expanding any input that names a
// readable file into one query per line. An input naming an existing but
// unreadable file aborts the whole call with an UnreadableSourceError;
// anything that is not a file on disk is treated as a literal query.
func (p *Processor) FindFromSources(sources []string, opts resolver.Options) (map[string]resolver.Verdict, error) {
	var items []string
	for _, src := range sources {
		info, err := os.Stat(src)
		if err != nil || info.IsDir() {
			items = append(items, src)
			continue
		}
		lines, err := readQueryLines(src)
		if err != nil {
			return nil, &UnreadableSourceError{Path: src, Err: err}
		}
		p.log.WithFields(logrus.Fields{
			"source":  src,
			"queries": len(lines),
		}).Debug("expanded query file")
		items = append(items, lines...)
	}
	return p.FindMany(items, opts), nil
}

func readQueryLines(path string) ([]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var lines []string
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		lines = append(lines, line)
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	return lines, nil
}
