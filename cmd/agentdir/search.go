package main

import (
	"fmt"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/30tools/ai-agents-directory/internal/query"
	"github.com/30tools/ai-agents-directory/internal/seo"
)

type searchArgs struct {
	category string
	pricing  string
	sort     string
	page     int
	perPage  int
}

func newSearchCmd(opts *cliOptions) *cobra.Command {
	args := &searchArgs{}
	cmd := &cobra.Command{
		Use:   "search [query...]",
		Short: "Search and filter the agents listing",
		RunE: func(cmd *cobra.Command, terms []string) error {
			pricing, err := query.ParsePricingFilter(args.pricing)
			if err != nil {
				return err
			}
			sort, err := query.ParseSortOption(args.sort)
			if err != nil {
				return err
			}
			cat, err := opts.loadCatalog()
			if err != nil {
				return err
			}

			params := query.Params{
				Search:   strings.Join(terms, " "),
				Category: args.category,
				Pricing:  pricing,
				Sort:     sort,
			}
			page := query.Paginate(query.Apply(cat.Agents(), params), args.page, args.perPage)

			out := cmd.OutOrStdout()
			if opts.jsonOutput {
				return writeJSON(out, page)
			}
			tw := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
			fmt.Fprintln(tw, "NAME\tPRICING\tCATEGORY\tSUMMARY")
			for _, a := range page.Items {
				fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n", a.Name, a.Pricing, a.PrimaryCategory(), truncate(seo.PlainText(a.Summary()), 60))
			}
			if err := tw.Flush(); err != nil {
				return err
			}
			fmt.Fprintf(out, "page %d of %d, %d agents\n", page.Page, page.TotalPages, page.Total)
			return nil
		},
	}
	cmd.Flags().StringVar(&args.category, "category", "", "category slug")
	cmd.Flags().StringVar(&args.pricing, "pricing", "all", "pricing filter (all, free, paid, freemium, ask)")
	cmd.Flags().StringVar(&args.sort, "sort", "name", "sort order (name, category, pricing, newest)")
	cmd.Flags().IntVar(&args.page, "page", 1, "page number")
	cmd.Flags().IntVar(&args.perPage, "per-page", query.DefaultPerPage, "results per page")
	return cmd
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-1]) + "…"
}
