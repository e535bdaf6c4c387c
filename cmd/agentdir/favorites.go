package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/30tools/ai-agents-directory/internal/favorites"
	"github.com/30tools/ai-agents-directory/pkg/server"
)

func newFavoritesCmd(opts *cliOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "favorites",
		Short: "Manage the local favorites list",
	}
	cmd.AddCommand(
		newFavoritesListCmd(opts),
		newFavoritesEditCmd(opts, "add", "Add agents to favorites", func(ctx context.Context, f *favorites.Store, name string) string {
			f.Add(ctx, name)
			return "added " + name
		}),
		newFavoritesEditCmd(opts, "remove", "Remove agents from favorites", func(ctx context.Context, f *favorites.Store, name string) string {
			f.Remove(ctx, name)
			return "removed " + name
		}),
		newFavoritesEditCmd(opts, "toggle", "Toggle agents in favorites", func(ctx context.Context, f *favorites.Store, name string) string {
			if f.Toggle(ctx, name) {
				return "added " + name
			}
			return "removed " + name
		}),
		newFavoritesClearCmd(opts),
	)
	return cmd
}

// withFavorites opens the configured store for the duration of fn.
func withFavorites(opts *cliOptions, fn func(*favorites.Store) error) error {
	kv, err := server.OpenStore(opts.cfg)
	if err != nil {
		return err
	}
	defer kv.Close()
	return fn(server.NewFavorites(kv, nil))
}

func newFavoritesListCmd(opts *cliOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List favorite agents",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withFavorites(opts, func(f *favorites.Store) error {
				names := f.List(cmd.Context())
				out := cmd.OutOrStdout()
				if opts.jsonOutput {
					return writeJSON(out, names)
				}
				for _, n := range names {
					fmt.Fprintln(out, n)
				}
				return nil
			})
		},
	}
}

type editFunc func(ctx context.Context, f *favorites.Store, name string) string

func newFavoritesEditCmd(opts *cliOptions, use, short string, edit editFunc) *cobra.Command {
	var force bool
	cmd := &cobra.Command{
		Use:   use + " <agent>...",
		Short: short,
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, names []string) error {
			if use != "remove" && !force {
				cat, err := opts.loadCatalog()
				if err != nil {
					return err
				}
				for _, n := range names {
					if _, ok := cat.AgentByName(n); !ok {
						return fmt.Errorf("unknown agent %q (use --force to store it anyway)", n)
					}
				}
			}
			return withFavorites(opts, func(f *favorites.Store) error {
				for _, n := range names {
					fmt.Fprintln(cmd.OutOrStdout(), edit(cmd.Context(), f, n))
				}
				return nil
			})
		},
	}
	if use != "remove" {
		cmd.Flags().BoolVar(&force, "force", false, "skip the dataset lookup")
	}
	return cmd
}

func newFavoritesClearCmd(opts *cliOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "clear",
		Short: "Remove every favorite",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withFavorites(opts, func(f *favorites.Store) error {
				f.Clear(cmd.Context())
				fmt.Fprintln(cmd.OutOrStdout(), "cleared")
				return nil
			})
		},
	}
}
