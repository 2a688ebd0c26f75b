// Package cmd - exhibits command
package cmd

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"agreement-engine/core/exhibit"
)

var exhibitsFixtures string

// exhibitsCmd previews the exhibit selection for a request
var exhibitsCmd = &cobra.Command{
	Use:   "exhibits <request.json>",
	Short: "Preview the exhibit selection for a request",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		req, err := loadRequest(args[0])
		if err != nil {
			return err
		}
		ctx := cmd.Context()
		catalog, _, err := buildStores(ctx, exhibitsFixtures)
		if err != nil {
			return err
		}
		records, err := catalog.ListExhibits(ctx)
		if err != nil {
			return err
		}

		sel := exhibit.Selection{
			ExhibitIDs: req.Config.SelectedExhibitIDs,
			Segments:   req.Config.Segments(),
			PlanName:   req.Config.PlanName,
		}
		list, trace := exhibit.Select(sel, records)

		w := tabwriter.NewWriter(cmd.OutOrStdout(), 2, 4, 2, ' ', 0)
		fmt.Fprintln(w, "ORDER\tID\tCATEGORY\tGROUP\tFALLBACK\tNAME")
		for i, e := range list {
			fmt.Fprintf(w, "%d\t%s\t%s\t%s\t%s\t%s\n",
				i+1, e.Record.ID, e.Record.Category, e.GroupLabel, e.Fallback, e.Record.Name)
		}
		w.Flush()

		if len(trace.Dropped) > 0 {
			fmt.Fprintf(cmd.OutOrStdout(), "deduplicated: %v\n", trace.Dropped)
		}
		return nil
	},
}

func init() {
	exhibitsCmd.Flags().StringVar(&exhibitsFixtures, "fixtures", "", "fixtures directory (catalog.json, templates/, exhibits/)")
}
