// Package cmd - assemble command
package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"agreement-engine/core/assembly"
	"agreement-engine/internal/config"
)

var (
	assembleOut      string
	assembleFixtures string
	assembleTrace    bool
)

// assembleCmd generates the composite agreement document
var assembleCmd = &cobra.Command{
	Use:   "assemble <request.json>",
	Short: "Assemble a composite agreement document",
	Long: `Assemble reads a request file (pricing configuration, cost breakdown,
client and deal metadata) and produces the composite agreement: the base
template with all tokens substituted, followed by the exhibit documents for
every purchased combination.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		req, err := loadRequest(args[0])
		if err != nil {
			return err
		}

		ctx := cmd.Context()
		catalog, files, err := buildStores(ctx, assembleFixtures)
		if err != nil {
			return err
		}

		asm := assembly.New(catalog, files,
			assembly.WithFetchRetries(config.Get().Assembly.FetchRetries),
			assembly.WithFetchConcurrency(config.Get().Assembly.FetchConcurrency))

		result, err := asm.Assemble(ctx, req)
		if err != nil {
			return err
		}

		if err := os.WriteFile(assembleOut, result.Document, 0644); err != nil {
			return fmt.Errorf("writing output: %w", err)
		}

		fmt.Printf("Wrote %s (%d bytes)\n", assembleOut, len(result.Document))
		for _, w := range result.Warnings {
			fmt.Printf("warning: %s\n", w)
		}
		if assembleTrace {
			printTrace(result.Trace)
		}
		return nil
	},
}

func printTrace(trace *assembly.Trace) {
	fmt.Printf("request %s\n", trace.RequestID)
	for _, p := range trace.Phases {
		fmt.Printf("  %-20s %s\n", p.Phase, p.Duration)
	}
	if trace.Selection != nil {
		for _, step := range trace.Selection.Steps {
			fmt.Printf("  selection %s/%s fallback=%s exhibits=%v\n",
				step.Key.Category, step.Key.BaseKey, step.Fallback, step.ExhibitIDs)
		}
	}
}

func init() {
	assembleCmd.Flags().StringVarP(&assembleOut, "out", "o", "agreement.docx", "output document path")
	assembleCmd.Flags().StringVar(&assembleFixtures, "fixtures", "", "fixtures directory (catalog.json, templates/, exhibits/)")
	assembleCmd.Flags().BoolVar(&assembleTrace, "trace", false, "print the assembly trace")
}
