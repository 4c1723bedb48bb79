package cli

import (
	"fmt"
	"strings"

	"leftover-chef/internal/app"
	"leftover-chef/internal/core/export"
	"leftover-chef/internal/pkg/common"

	"github.com/spf13/cobra"
)

// dietFlags 飲食限制旗標
type dietFlags struct {
	vegetarian bool
	vegan      bool
	glutenFree bool
}

func (d *dietFlags) register(cmd *cobra.Command) {
	cmd.Flags().BoolVar(&d.vegetarian, "vegetarian", false, "Only recipes without meat or fish")
	cmd.Flags().BoolVar(&d.vegan, "vegan", false, "Only recipes without meat, fish, dairy or eggs")
	cmd.Flags().BoolVar(&d.glutenFree, "gluten-free", false, "Only recipes without gluten")
}

func (d *dietFlags) preferences() common.DietaryPreferences {
	return common.DietaryPreferences{Vegetarian: d.vegetarian, Vegan: d.vegan, GlutenFree: d.glutenFree}
}

func newSearchCmd(opts *options) *cobra.Command {
	var (
		diet     dietFlags
		limit    int
		missing  int
		csvPath  string
		jsonMode bool
	)

	cmd := &cobra.Command{
		Use:   "search INGREDIENT[,INGREDIENT...]",
		Short: "Rank recipes for a list of ingredients",
		Example: `  chef search pasta, tomatoes, garlic
  chef search "chicken,rice" --gluten-free --limit 5
  chef search eggs spinach --vegetarian --csv hits.csv`,
		Args:        cobra.MinimumNArgs(1),
		Annotations: map[string]string{annotationQuiet: "true"},
		RunE: func(cmd *cobra.Command, args []string) error {
			ingredients := parseIngredients(args)
			if len(ingredients) == 0 {
				return common.ErrInvalidRequest.Wrap(fmt.Errorf("no ingredients given"))
			}

			a, err := app.New(cmd.Context(), opts.cfg)
			if err != nil {
				return err
			}
			defer a.Close()

			res, err := a.Search.Search(cmd.Context(), common.SearchRequest{
				Ingredients:  ingredients,
				Diet:         diet.preferences(),
				Limit:        limit,
				MissingLimit: missing,
			})
			out := cmd.OutOrStdout()
			if err != nil {
				printInputError(out, err)
				return err
			}

			if csvPath != "" {
				if err := export.WriteCSVFile(csvPath, res.Recipes); err != nil {
					return err
				}
				fmt.Fprintf(cmd.ErrOrStderr(), "Wrote %d recipes to %s\n", len(res.Recipes), csvPath)
			}
			if jsonMode {
				return common.WriteJSONIndent(out, res)
			}
			printResult(out, res)
			return nil
		},
	}

	diet.register(cmd)
	cmd.Flags().IntVarP(&limit, "limit", "n", 0, "Number of recipes to show (default from config)")
	cmd.Flags().IntVar(&missing, "missing", 0, "Missing ingredients to list per recipe (default from config)")
	cmd.Flags().StringVar(&csvPath, "csv", "", "Also write the results to this CSV file")
	cmd.Flags().BoolVar(&jsonMode, "json", false, "Print the full result as JSON")

	return cmd
}

// parseIngredients 參數中有逗號時以逗號分隔（允許多字食材），否則每個參數是一個食材
func parseIngredients(args []string) []string {
	joined := strings.Join(args, " ")
	if strings.Contains(joined, ",") {
		return common.SplitIngredients(joined)
	}
	return common.SplitIngredients(strings.Join(args, ","))
}
