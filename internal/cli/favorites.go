package cli

import (
	"fmt"
	"text/tabwriter"

	"leftover-chef/internal/app"
	"leftover-chef/internal/pkg/common"

	"github.com/spf13/cobra"
)

func newFavoritesCmd(opts *options) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "favorites",
		Aliases: []string{"fav"},
		Short:   "Manage saved recipes",
	}

	cmd.AddCommand(&cobra.Command{
		Use:         "list",
		Short:       "List saved recipes",
		Args:        cobra.NoArgs,
		Annotations: map[string]string{annotationQuiet: "true"},
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := app.Open(cmd.Context(), opts.cfg)
			if err != nil {
				return err
			}
			defer a.Close()

			items, err := a.Favorites.List()
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			if len(items) == 0 {
				fmt.Fprintln(out, "No favorites yet.")
				return nil
			}

			tw := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
			fmt.Fprintln(tw, "ID\tTITLE\tURL\tADDED")
			for _, f := range items {
				fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n", f.ID, f.Title, f.URL, f.AddedAt.Format("2006-01-02"))
			}
			return tw.Flush()
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:         "add RECIPE_ID",
		Short:       "Save a recipe by its TheMealDB id",
		Args:        cobra.ExactArgs(1),
		Annotations: map[string]string{annotationQuiet: "true"},
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := app.Open(cmd.Context(), opts.cfg)
			if err != nil {
				return err
			}
			defer a.Close()

			r, err := a.Source.LookupRecipe(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			if r == nil {
				return common.ErrRecipeNotFound.Wrap(fmt.Errorf("recipe %s", args[0]))
			}

			added, err := a.Favorites.Add(*r)
			if err != nil {
				return err
			}
			if added {
				fmt.Fprintf(cmd.OutOrStdout(), "Saved %q.\n", r.Title)
			} else {
				fmt.Fprintf(cmd.OutOrStdout(), "%q is already saved.\n", r.Title)
			}
			return nil
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:         "remove RECIPE_ID",
		Aliases:     []string{"rm"},
		Short:       "Remove a saved recipe",
		Args:        cobra.ExactArgs(1),
		Annotations: map[string]string{annotationQuiet: "true"},
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := app.Open(cmd.Context(), opts.cfg)
			if err != nil {
				return err
			}
			defer a.Close()

			removed, err := a.Favorites.Remove(args[0])
			if err != nil {
				return err
			}
			if !removed {
				return common.ErrRecipeNotFound.Wrap(fmt.Errorf("no favorite with id %s", args[0]))
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Removed %s.\n", args[0])
			return nil
		},
	})

	return cmd
}
