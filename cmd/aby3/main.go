// Command aby3 runs one party of the three-party iris match protocol,
// or simulates all three in a single process.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var (
	// Global flags
	logLevel string

	// run flags
	configFile string
	keyFile    string
	partyIndex int

	// shared data flags
	irisDB      string
	shouldMatch bool

	rootCmd = &cobra.Command{
		Use:   "aby3",
		Short: "Three-party secure iris matching",
		Long: `aby3 evaluates the iris match predicate under replicated secret
sharing: three non-colluding parties jointly decide whether two iris
codes match without any of them seeing the codes, the distance, or the
intermediate comparison - only the final one-bit result is opened.`,
	}

	runCmd = &cobra.Command{
		Use:   "run",
		Short: "Run one party over QUIC",
		Long: `Run this process as one of the three protocol parties, connecting
to its neighbours over QUIC as laid out in the shared YAML config.`,
		RunE: runParty,
	}

	simulateCmd = &cobra.Command{
		Use:   "simulate",
		Short: "Simulate all three parties in-process",
		Long: `Run the full protocol with all three parties inside this process
over in-memory channels. Useful for demos and for validating a sample
database without deploying three hosts.`,
		RunE: runSimulation,
	}

	plaintextCmd = &cobra.Command{
		Use:   "plaintext",
		Short: "Run the plaintext reference matcher",
		Long: `Compare a probe against every record of a sample database in the
clear, using the same predicate the secure circuit evaluates. This is
the reference the MPC result can be checked against.`,
		RunE: runPlaintext,
	}
)

func init() {
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "info", "Log level: trace, debug, info, warn, error")

	runCmd.Flags().StringVar(&configFile, "config-file", "", "YAML file listing the three parties (required)")
	runCmd.Flags().StringVar(&keyFile, "key-file", "", "DER-encoded private key for our certificate (required)")
	runCmd.Flags().IntVar(&partyIndex, "party", -1, "Index of this party: 0, 1 or 2 (required)")
	runCmd.Flags().StringVar(&irisDB, "iris-db", "", "SQLite database of iris records to match (optional)")
	_ = runCmd.MarkFlagRequired("config-file")
	_ = runCmd.MarkFlagRequired("key-file")
	_ = runCmd.MarkFlagRequired("party")

	simulateCmd.Flags().StringVar(&irisDB, "iris-db", "", "SQLite database of iris records to match (optional)")

	plaintextCmd.Flags().StringVar(&irisDB, "iris-db", "", "SQLite database of iris records (required)")
	plaintextCmd.Flags().BoolVar(&shouldMatch, "should-match", false, "Probe with a near-copy of a database record instead of a random one")
	_ = plaintextCmd.MarkFlagRequired("iris-db")

	rootCmd.AddCommand(runCmd, simulateCmd, plaintextCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
