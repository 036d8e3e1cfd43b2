// Package cli wires geod's cobra command tree. It is generalized from
// the teacher's internal/cli package: the same global-flag shape
// (--conf/--debug/--verbose/--quiet), the same cobra.OnInitialize
// config bootstrap, one subcommand per operational concern instead of
// one monolithic server command.
package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/geohub/geod/internal/config"
)

var (
	configFile string
	debug      bool
	verbose    bool
	quiet      bool

	loadedConfig *config.Config
)

var rootCmd = &cobra.Command{
	Use:     "geod",
	Short:   "geod - a peer-to-peer mutual-credit network node",
	Long:    `geod runs a GEO mutual-credit network node: payments, trust lines, and cycle clearing over a set of community hubs.`,
	Version: "0.1.0-dev",
}

// Execute adds all child commands to the root command and parses
// flags. Called once by main.main.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVar(&configFile, "conf", "", "configuration file path")
	rootCmd.PersistentFlags().BoolVar(&debug, "debug", false, "enable debug logging")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose logging")
	rootCmd.PersistentFlags().BoolVarP(&quiet, "quiet", "q", false, "suppress output to console after startup")
}

// initConfig loads configuration from configFile (or defaults alone if
// unset), overriding log level when --debug or --verbose is set.
func initConfig() {
	cfg, err := config.LoadConfig(configFile)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading config: %v\n", err)
		os.Exit(1)
	}
	if debug || verbose {
		cfg.Log.Level = "debug"
	}
	loadedConfig = cfg
}
