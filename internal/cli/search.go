package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/evilbit/evilcheck/internal/batch"
	"github.com/evilbit/evilcheck/internal/config"
	"github.com/evilbit/evilcheck/internal/resolver"
	"github.com/evilbit/evilcheck/internal/store"
)

// NewSearchCmd creates the search subcommand.
func NewSearchCmd(cfg *config.Config) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "search <query-or-file>...",
		Short: "Resolve queries against the persisted index",
		Long: `search loads the persisted partitions and resolves each argument. An
argument naming a readable file is expanded to one query per line; anything
else is treated as a literal query.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSearch(cfg, args)
		},
	}

	cmd.Flags().BoolVar(&cfg.Smarter, "smarter", true, "Enable cross-domain escalation (network containment, URL host fallback)")
	cmd.Flags().BoolVar(&cfg.Resolve, "resolve", true, "Reserved: DNS cross-checks between the host and ip partitions")
	cmd.Flags().StringVar(&cfg.CSVPath, "csv", "", "Append results to this CSV file")

	return cmd
}

func runSearch(cfg *config.Config, args []string) error {
	if err := cfg.Validate(); err != nil {
		return err
	}
	log := newLogger(cfg)

	st, err := store.Load(cfg, log)
	if err != nil {
		return err
	}

	proc := batch.NewProcessor(resolver.New(st), log)
	opts := resolver.Options{Smarter: cfg.Smarter, Resolve: cfg.Resolve}
	results, err := proc.FindFromSources(args, opts)
	if err != nil {
		return err
	}

	for item, v := range results {
		if v.Safe {
			fmt.Printf("safe     %-8s %s\n", v.Category, item)
			continue
		}
		fmt.Printf("matched  %-8s %s  reason=%s identified=%s\n", v.Category, item, v.Reason, v.Identified)
	}

	if cfg.CSVPath != "" {
		if err := batch.ExportCSV(results, cfg.CSVPath); err != nil {
			return err
		}
		log.WithField("path", cfg.CSVPath).Info("results exported")
	}
	return nil
}
