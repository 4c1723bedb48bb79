package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"leftover-chef/internal/app"
	"leftover-chef/internal/core/recipe"
	"leftover-chef/internal/pkg/common"

	"github.com/spf13/cobra"
)

const prompt = "Which ingredients do you have? (comma-separated, q to quit) > "

func newInteractiveCmd(opts *options) *cobra.Command {
	var (
		diet  dietFlags
		limit int
	)

	cmd := &cobra.Command{
		Use:         "interactive",
		Aliases:     []string{"i"},
		Short:       "Ask for ingredients in a prompt loop",
		Annotations: map[string]string{annotationQuiet: "true"},
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := app.New(cmd.Context(), opts.cfg)
			if err != nil {
				return err
			}
			defer a.Close()

			return runInteractive(cmd.Context(), a.Search, cmd.InOrStdin(), cmd.OutOrStdout(), common.SearchRequest{
				Diet:  diet.preferences(),
				Limit: limit,
			})
		},
	}

	diet.register(cmd)
	cmd.Flags().IntVarP(&limit, "limit", "n", 0, "Number of recipes to show per query (default from config)")

	return cmd
}

// runInteractive 逐行讀取食材直到 EOF 或 q；單次搜尋失敗只輸出訊息，不中斷迴圈
func runInteractive(ctx context.Context, svc *recipe.Service, in io.Reader, out io.Writer, base common.SearchRequest) error {
	scanner := bufio.NewScanner(in)
	for {
		fmt.Fprint(out, prompt)
		if !scanner.Scan() {
			break
		}

		line := strings.TrimSpace(scanner.Text())
		switch strings.ToLower(line) {
		case "q", "quit", "exit":
			fmt.Fprintln(out, "\nBon appétit!")
			return nil
		}

		ingredients := common.SplitIngredients(line)
		if len(ingredients) == 0 {
			fmt.Fprintln(out, "⚠️  No ingredients entered.")
			continue
		}

		req := base
		req.Ingredients = ingredients
		res, err := svc.Search(ctx, req)
		if err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			if !printInputError(out, err) {
				fmt.Fprintf(out, "Search failed: %v\n", userMessage(err))
			}
			continue
		}
		printResult(out, res)
		fmt.Fprintln(out)
	}
	if err := scanner.Err(); err != nil {
		return err
	}

	fmt.Fprintln(out, "\nBon appétit!")
	return nil
}

// userMessage 上游錯誤時給出不含內部細節的訊息
func userMessage(err error) string {
	switch {
	case errors.Is(err, common.ErrUpstream):
		return "the recipe service is not reachable right now, try again later"
	case errors.Is(err, common.ErrRequestTimeout):
		return "the recipe service took too long to answer"
	default:
		return err.Error()
	}
}
