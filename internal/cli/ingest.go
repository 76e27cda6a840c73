package cli

import (
	"bufio"
	"fmt"
	"io"
	"os"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/evilbit/evilcheck/internal/category"
	"github.com/evilbit/evilcheck/internal/config"
	"github.com/evilbit/evilcheck/internal/store"
)

// NewIngestCmd creates the ingest subcommand.
func NewIngestCmd(cfg *config.Config) *cobra.Command {
	return &cobra.Command{
		Use:   "ingest <file>...",
		Short: "Build and persist the partition index from raw entry files",
		Long: `ingest reads one candidate entry per line from the given files ("-" reads
stdin), routes each entry to its domain partition, then seals and persists
all five partitions under the working directory.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runIngest(cfg, args)
		},
	}
}

func runIngest(cfg *config.Config, files []string) error {
	if err := os.MkdirAll(cfg.WorkDir, 0o755); err != nil {
		return fmt.Errorf("creating working directory: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return err
	}
	log := newLogger(cfg)

	st := store.New(cfg, log)
	for _, file := range files {
		lines, err := readEntryLines(file)
		if err != nil {
			return err
		}
		grouped, err := st.Ingest(lines)
		if err != nil {
			return err
		}
		for domain, entries := range grouped {
			log.WithFields(logrus.Fields{
				"file":      file,
				"partition": domain.String(),
				"entries":   len(entries),
			}).Debug("routed entries")
		}
	}

	sizes, err := st.Finalize()
	if err != nil {
		return err
	}
	for _, d := range category.Domains() {
		log.WithFields(logrus.Fields{
			"partition": d.String(),
			"entries":   sizes[d],
		}).Info("partition persisted")
	}
	return nil
}

// readEntryLines reads raw candidate entries from a file, or stdin for "-".
func readEntryLines(file string) ([]string, error) {
	var r io.Reader
	if file == "-" {
		r = os.Stdin
	} else {
		f, err := os.Open(file)
		if err != nil {
			return nil, fmt.Errorf("opening entry file %q: %w", file, err)
		}
		defer f.Close()
		r = f
	}

	var lines []string
	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		lines = append(lines, scanner.Text())
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("reading entry file %q: %w", file, err)
	}
	return lines, nil
}
