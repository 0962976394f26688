package cmd

import (
	"os"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

var (
	// Shared CLI flags
	seed     int64  // Master seed for decision inits, aggregation trials, workload
	logLevel string // Log verbosity level
	cfgFile  string // Optional YAML config for learning/trust/aggregation parameters

	// simulate flags
	packets    int // Packet events to generate
	switches   int // Datapath population
	hosts      int // Endpoint population
	traceLevel string

	// serve flags
	addr         string // Listen address for the websocket bridge
	cacheTTLSecs int    // Decision cache TTL in seconds (0 disables)
)

// rootCmd is the base command for the CLI
var rootCmd = &cobra.Command{
	Use:   "fedroute",
	Short: "Federated Q-learning trust routing core for SDN controllers",
}

// setupLogging applies the --log flag before any subcommand runs.
func setupLogging() {
	level, err := logrus.ParseLevel(logLevel)
	if err != nil {
		logrus.Fatalf("Invalid log level: %s", logLevel)
	}
	logrus.SetLevel(level)
}

// Execute runs the CLI root command
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// init sets up shared CLI flags and subcommands
func init() {
	rootCmd.PersistentFlags().Int64Var(&seed, "seed", 42, "Master seed for all random draws")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log", "info", "Log level (trace, debug, info, warn, error, fatal, panic)")
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "YAML config file for learning/trust/aggregation parameters")

	simulateCmd.Flags().IntVar(&packets, "packets", 10000, "Number of packet events to generate")
	simulateCmd.Flags().IntVar(&switches, "switches", 3, "Number of switches")
	simulateCmd.Flags().IntVar(&hosts, "hosts", 8, "Number of hosts")
	simulateCmd.Flags().StringVar(&traceLevel, "trace", "decisions", "Trace level (none, decisions)")

	serveCmd.Flags().StringVar(&addr, "addr", "localhost:8060", "Listen address for the websocket bridge")
	serveCmd.Flags().IntVar(&cacheTTLSecs, "cache-ttl", 10, "Decision cache TTL in seconds (0 disables caching)")

	rootCmd.AddCommand(simulateCmd)
	rootCmd.AddCommand(serveCmd)
}
