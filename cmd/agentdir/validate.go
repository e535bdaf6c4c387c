package main

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/30tools/ai-agents-directory/internal/catalog"
)

// exitInvalidDataset is returned when the dataset has integrity problems.
const exitInvalidDataset = 2

func newValidateCmd(opts *cliOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "validate",
		Short: "Check the dataset for duplicates, unknown pricing and count drift",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cat, err := opts.loadCatalog()
			if err != nil {
				return err
			}
			report := cat.Validate()

			out := cmd.OutOrStdout()
			if opts.jsonOutput {
				if err := writeJSON(out, report); err != nil {
					return err
				}
			} else {
				printReport(out, report)
			}
			if !report.OK() {
				return exitError{code: exitInvalidDataset, message: "dataset has integrity problems"}
			}
			return nil
		},
	}
}

func printReport(w io.Writer, r catalog.Report) {
	fmt.Fprintf(w, "agents=%d categories=%d scraped_at=%s\n", r.Agents, r.Categories, r.Metadata.ScrapedAt)
	fmt.Fprintf(w, "with details=%d pricing=%d tags=%d external_links=%d\n", r.WithDetails, r.WithPricing, r.WithTags, r.WithExternalLinks)
	for _, p := range r.Pricing {
		fmt.Fprintf(w, "  pricing %-10s %d\n", p.Pricing, p.Count)
	}
	if r.MetadataDrift {
		fmt.Fprintf(w, "metadata totals (%d agents, %d categories) disagree with contents\n", r.Metadata.TotalAgents, r.Metadata.TotalCategories)
	}
	for _, d := range r.CountDrift {
		fmt.Fprintf(w, "  count drift %s stored=%d live=%d\n", d.Name, d.Stored, d.Live)
	}
	for _, c := range r.EmptyCategories {
		fmt.Fprintf(w, "  empty category %s\n", c)
	}
	for _, n := range r.DuplicateNames {
		fmt.Fprintf(w, "ERROR duplicate agent name %s\n", n)
	}
	for _, n := range r.UnknownPricing {
		fmt.Fprintf(w, "ERROR unknown pricing on %s\n", n)
	}
	if r.OK() {
		fmt.Fprintln(w, "ok")
	}
}
