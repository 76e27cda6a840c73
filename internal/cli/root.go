// Package cli provides the root command and main execution flow for
// evilcheck.
package cli

import (
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/evilbit/evilcheck/internal/config"
)

// NewRootCmd creates the root command for evilcheck.
func NewRootCmd(version ...string) *cobra.Command {
	ver := "dev"
	if len(version) > 0 && version[0] != "" {
		ver = version[0]
	}
	cfg := &config.Config{}

	cmd := &cobra.Command{
		Use:   "evilcheck",
		Short: "Classify identifiers against a local database of known-bad entries",
		Long: `evilcheck keeps a local, partitioned index of known-bad IPs, networks,
hosts and URLs, and explains why a query matched.

Typical flow:
  evilcheck ingest feeds.txt            build and persist the index
  evilcheck search 92.244.36.70         query a single identifier
  evilcheck search queries.txt --csv results.csv`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	cmd.PersistentFlags().StringVar(&cfg.WorkDir, "workdir", ".", "Directory holding the persisted partition files")
	cmd.PersistentFlags().BoolVarP(&cfg.Quiet, "quiet", "q", false, "Only print verdicts and errors")
	cmd.PersistentFlags().BoolVarP(&cfg.Verbose, "verbose", "v", false, "Show debug output")

	cmd.AddCommand(NewIngestCmd(cfg))
	cmd.AddCommand(NewSearchCmd(cfg))
	cmd.AddCommand(NewVersionCmd(ver))
	cmd.AddCommand(NewCompletionCmd())

	return cmd
}

// newLogger builds the logger shared by the subcommands.
func newLogger(cfg *config.Config) *logrus.Logger {
	log := logrus.New()
	switch {
	case cfg.Verbose:
		log.SetLevel(logrus.DebugLevel)
	case cfg.Quiet:
		log.SetLevel(logrus.ErrorLevel)
	default:
		log.SetLevel(logrus.InfoLevel)
	}
	return log
}
