// stubgen exports the API surface of annotated Go services as a portable
// stub document and renders it as TypeScript declarations.
package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/cockroachdb/errors"
	"github.com/spf13/cobra"

	"stubgen/internal/config"
	"stubgen/internal/logger"
)

var (
	configFile string
	verbose    bool
	jsonLogs   bool

	cfg = config.New()
)

var rootCmd = &cobra.Command{
	Use:   "stubgen",
	Short: "Export annotated Go services as TypeScript client stubs",
	Long: `stubgen reads Go packages, collects the services and operations marked with
//stubgen:service and //stubgen:operation, and writes every type they reach
into an API stub document. The emit command turns a document into
TypeScript files.

Examples:
    # Build a document from a package, loading dependencies as needed
    stubgen build ./api

    # Render the latest document
    stubgen emit -o web/src/api

    # Render selected types only
    stubgen emit -T User,Order -o web/src/api`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if err := logger.Initialize(verbose, jsonLogs); err != nil {
			return errors.Wrap(err, "initializing logger")
		}
		if configFile != "" {
			if err := cfg.LoadFile(configFile); err != nil {
				return errors.Wrap(err, "loading config")
			}
		}
		return nil
	},
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&configFile, "config", "c", "", "Config file (YAML/JSON)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Verbose output")
	rootCmd.PersistentFlags().BoolVar(&jsonLogs, "json", false, "Log as JSON")

	rootCmd.AddCommand(buildCmd)
	rootCmd.AddCommand(emitCmd)
}

func main() {
	err := rootCmd.Execute()
	logger.Sync()
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		if hints := errors.FlattenHints(err); hints != "" {
			fmt.Fprintf(os.Stderr, "hint: %s\n", hints)
		}
		os.Exit(1)
	}
}

// parseCommaSeparated splits a comma-separated string into a slice of trimmed strings.
func parseCommaSeparated(s string) []string {
	parts := strings.Split(s, ",")
	result := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p != "" {
			result = append(result, p)
		}
	}
	return result
}
