// Package cmd - tokens command
package cmd

import (
	"fmt"
	"sort"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"agreement-engine/core/normalize"
	"agreement-engine/core/token"
	"agreement-engine/core/types"
)

var (
	tokensFixtures string
	tokensAliases  bool
)

// tokensCmd dumps the resolved token dictionary for a request
var tokensCmd = &cobra.Command{
	Use:   "tokens <request.json>",
	Short: "Print the resolved token dictionary for a request",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		req, err := loadRequest(args[0])
		if err != nil {
			return err
		}

		var tier types.Tier
		if tokensFixtures != "" {
			catalog, _, err := buildStores(cmd.Context(), tokensFixtures)
			if err != nil {
				return err
			}
			if t, err := catalog.GetTier(cmd.Context(), req.Config.PlanName); err == nil {
				tier = t
			}
		}

		fig := normalize.Normalize(req.Config, req.Breakdown, tier)
		tokens, report := token.Resolve(fig, req.Client, req.Deal, req.Discount)

		keys := make([]string, 0, len(tokens))
		if tokensAliases {
			for k := range tokens {
				keys = append(keys, k)
			}
		} else {
			for _, f := range token.Registry {
				keys = append(keys, f.Canonical)
			}
		}
		sort.Strings(keys)

		w := tabwriter.NewWriter(cmd.OutOrStdout(), 2, 4, 2, ' ', 0)
		fmt.Fprintln(w, "TOKEN\tVALUE")
		for _, k := range keys {
			fmt.Fprintf(w, "%s\t%q\n", k, tokens[k])
		}
		w.Flush()

		if len(report.Defaulted) > 0 {
			fmt.Fprintf(cmd.OutOrStdout(), "defaulted: %v\n", report.Defaulted)
		}
		if report.DiscountApplied {
			fmt.Fprintf(cmd.OutOrStdout(), "discount applied, net total %s\n", token.FormatCurrency(report.DiscountedTotal))
		}
		return nil
	},
}

func init() {
	tokensCmd.Flags().StringVar(&tokensFixtures, "fixtures", "", "fixtures directory (catalog.json, templates/, exhibits/)")
	tokensCmd.Flags().BoolVar(&tokensAliases, "aliases", false, "include every alias key")
}
