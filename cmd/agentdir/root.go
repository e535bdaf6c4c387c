package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/30tools/ai-agents-directory/internal/catalog"
	"github.com/30tools/ai-agents-directory/internal/config"
)

type cliOptions struct {
	configPath string
	dataset    string
	jsonOutput bool
	verbose    bool

	cfg *config.Config
}

func newRootCommand() *cobra.Command {
	opts := &cliOptions{}

	root := &cobra.Command{
		Use:           "agentdir",
		Short:         "AI Agents Directory server and tools",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			setupLogging(cmd.ErrOrStderr(), opts.verbose)
			if opts.configPath != "" {
				os.Setenv("AGENTDIR_CONFIG", opts.configPath)
			}
			cfg, err := config.Load()
			if err != nil {
				return err
			}
			if opts.dataset != "" {
				cfg.Dataset.Path = opts.dataset
			}
			opts.cfg = cfg
			return nil
		},
	}

	root.PersistentFlags().StringVar(&opts.configPath, "config", "", "path to a TOML config file (overrides AGENTDIR_CONFIG)")
	root.PersistentFlags().StringVar(&opts.dataset, "dataset", "", "dataset JSON file (default: embedded dataset)")
	root.PersistentFlags().BoolVar(&opts.jsonOutput, "json", false, "output JSON")
	root.PersistentFlags().BoolVarP(&opts.verbose, "verbose", "v", false, "log at info level")

	root.AddCommand(
		newServeCmd(opts),
		newValidateCmd(opts),
		newSearchCmd(opts),
		newFavoritesCmd(opts),
		newIndexNowCmd(opts),
	)
	return root
}

// setupLogging keeps CLI output quiet unless verbose is set. The serve
// command raises the level itself.
func setupLogging(w io.Writer, verbose bool) {
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: w, TimeFormat: time.RFC3339})
	if verbose {
		zerolog.SetGlobalLevel(zerolog.InfoLevel)
	} else {
		zerolog.SetGlobalLevel(zerolog.WarnLevel)
	}
}

func (o *cliOptions) loadCatalog() (*catalog.Catalog, error) {
	return catalog.Load(o.cfg.Dataset.Path)
}

func writeJSON(w io.Writer, value any) error {
	data, err := json.MarshalIndent(value, "", "  ")
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(w, string(data))
	return err
}
