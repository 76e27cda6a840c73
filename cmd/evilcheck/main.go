// evilcheck classifies identifiers (IP addresses, CIDR networks,
// hostnames, URLs) against a locally held database of known-bad entries
// and explains why a match occurred.
package main

import (
	"fmt"
	"os"

	"github.com/evilbit/evilcheck/internal/cli"
)

// version is set via ldflags at build time
var version = "dev"

func main() {
	rootCmd := cli.NewRootCmd(version)
	rootCmd.Version = version

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "[evilcheck] Error: %v\n", err)
		os.Exit(1)
	}
}
