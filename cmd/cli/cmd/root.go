// Package cmd provides the CLI commands for the agreement assembly engine.
package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"agreement-engine/internal/config"
	"agreement-engine/internal/logging"
)

var (
	cfgFile string
	verbose bool
)

// rootCmd represents the base command
var rootCmd = &cobra.Command{
	Use:   "agreement",
	Short: "Assemble contractual agreements from pricing configurations",
	Long: `agreement generates a composite contractual document from a pricing
configuration: it resolves the token dictionary, selects the exhibit
documents for the purchased combinations, and merges everything into one
word-processing package.

Examples:
  agreement assemble request.json --fixtures ./fixtures -o agreement.docx
  agreement exhibits request.json --fixtures ./fixtures
  agreement tokens request.json`,
}

// Execute runs the CLI
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is $HOME/.agreement.json)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable verbose output")

	// Add subcommands
	rootCmd.AddCommand(assembleCmd)
	rootCmd.AddCommand(exhibitsCmd)
	rootCmd.AddCommand(tokensCmd)
	rootCmd.AddCommand(versionCmd)
}

func initConfig() {
	if cfgFile != "" {
		cfg, err := config.Load(cfgFile)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error loading config: %v\n", err)
			os.Exit(1)
		}
		config.Set(cfg)
	}

	logCfg := config.Get().Logging
	if verbose {
		logCfg.Level = "debug"
	}
	if err := logging.Initialize(logCfg); err != nil {
		fmt.Fprintf(os.Stderr, "Error initializing logging: %v\n", err)
	}
}

// versionCmd prints the build version
var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Println("agreement version", Version)
	},
}

// Version is set at build time
var Version = "dev"
