package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/30tools/ai-agents-directory/internal/notify"
	"github.com/30tools/ai-agents-directory/pkg/server"
)

func newIndexNowCmd(opts *cliOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "indexnow",
		Short: "Notify search engines about site URLs",
	}
	cmd.AddCommand(newIndexNowURLCmd(opts), newIndexNowAllCmd(opts))
	return cmd
}

func newIndexNowURLCmd(opts *cliOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "url <url>...",
		Short: "Submit URLs in a single request",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, urls []string) error {
			res := server.NewIndexNow(opts.cfg, nil).Submit(cmd.Context(), urls)
			if opts.jsonOutput {
				if err := writeJSON(cmd.OutOrStdout(), res); err != nil {
					return err
				}
			} else if res.Success {
				fmt.Fprintf(cmd.OutOrStdout(), "submitted %d urls (status %d)\n", res.URLs, res.StatusCode)
			}
			if !res.Success {
				return fmt.Errorf("indexnow: %s", res.Error)
			}
			return nil
		},
	}
}

func newIndexNowAllCmd(opts *cliOptions) *cobra.Command {
	var dryRun bool
	cmd := &cobra.Command{
		Use:   "all",
		Short: "Submit every static, agent and category URL in batches",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cat, err := opts.loadCatalog()
			if err != nil {
				return err
			}
			urls, stats := notify.AllIndexableURLs(opts.cfg.BaseURL, cat.Agents(), cat.Categories())
			out := cmd.OutOrStdout()

			if dryRun {
				if opts.jsonOutput {
					return writeJSON(out, map[string]any{"urls": urls, "stats": stats})
				}
				for _, u := range urls {
					fmt.Fprintln(out, u)
				}
				fmt.Fprintf(out, "%d urls (%d static, %d agents, %d categories)\n", stats.Total, stats.Static, stats.Agents, stats.Categories)
				return nil
			}

			res := server.NewIndexNow(opts.cfg, nil).SubmitAll(cmd.Context(), urls)
			if opts.jsonOutput {
				if err := writeJSON(out, res); err != nil {
					return err
				}
			} else {
				fmt.Fprintf(out, "submitted %d/%d batches (%d total urls)\n", res.Succeeded, res.Batches, res.Total)
			}
			if !res.Success() {
				return fmt.Errorf("indexnow: no batch was accepted")
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "print the URLs without submitting")
	return cmd
}
