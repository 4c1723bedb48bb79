package cli

import (
	"bufio"
	"fmt"
	"os"
	"sort"
	"strings"

	"leftover-chef/internal/core/corpus"
	"leftover-chef/internal/pkg/common"

	"github.com/spf13/cobra"
)

func newCorpusCmd(opts *options) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "corpus",
		Short: "Build the local recipe corpus",
		Long: `Manage the local recipe corpus used when RECIPE_SOURCE=corpus.

Recipes are stored as a JSON list of {id, title, ingredients, url}. Entries are
deduplicated by url and case-insensitive title, and ingredient lines are reduced
to their head noun ("2 cups all-purpose flour" becomes "flour").`,
	}

	cmd.AddCommand(newCorpusImportCmd(opts))
	cmd.AddCommand(newCorpusMergeCmd(opts))
	return cmd
}

func newCorpusImportCmd(opts *options) *cobra.Command {
	var seedFile string

	cmd := &cobra.Command{
		Use:   "import [URL...]",
		Short: "Fetch recipe pages and add them to the corpus",
		Example: `  chef corpus import https://www.allrecipes.com/recipe/12345/tomato-pasta/
  chef corpus import --file seeds.txt`,
		Annotations: map[string]string{annotationQuiet: "true"},
		RunE: func(cmd *cobra.Command, args []string) error {
			urls := append([]string{}, args...)
			if seedFile != "" {
				seeds, err := readSeeds(seedFile)
				if err != nil {
					return err
				}
				urls = append(urls, seeds...)
			}
			if len(urls) == 0 {
				return common.ErrInvalidRequest.Wrap(fmt.Errorf("no urls given"))
			}

			cfg := opts.cfg.Corpus
			store := corpus.NewStore(cfg.File)
			res, err := corpus.Import(cmd.Context(), corpus.NewFetcher(cfg), store, urls)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			failed := make([]string, 0, len(res.Failed))
			for u := range res.Failed {
				failed = append(failed, u)
			}
			sort.Strings(failed)
			for _, u := range failed {
				fmt.Fprintf(out, "skipped %s: %v\n", u, res.Failed[u])
			}
			fmt.Fprintf(out, "Imported %d new recipes into %s (%d fetched, %d failed).\n",
				res.Added, store.Path(), len(res.Fetched), len(res.Failed))
			return nil
		},
	}

	cmd.Flags().StringVarP(&seedFile, "file", "f", "", "File with one recipe url per line")
	return cmd
}

func newCorpusMergeCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:         "merge FILE.json",
		Short:       "Merge a JSON list of recipes into the corpus",
		Args:        cobra.ExactArgs(1),
		Annotations: map[string]string{annotationQuiet: "true"},
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := os.ReadFile(args[0])
			if err != nil {
				return fmt.Errorf("failed to read %s: %w", args[0], err)
			}
			var items []common.Recipe
			if err := common.ParseJSONBytes(data, &items); err != nil {
				return common.ErrInvalidRequest.Wrap(fmt.Errorf("%s: %w", args[0], err))
			}

			store := corpus.NewStore(opts.cfg.Corpus.File)
			added, err := corpus.MergeRecipes(store, items)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Merged %d new recipes into %s.\n", added, store.Path())
			return nil
		},
	}
}

// readSeeds 讀取網址清單，略過空行與 # 註解
func readSeeds(path string) ([]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open %s: %w", path, err)
	}
	defer f.Close()

	var urls []string
	sc := bufio.NewScanner(f)
	for sc.Scan() {
		line := strings.TrimSpace(sc.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		urls = append(urls, line)
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}
	return urls, nil
}
