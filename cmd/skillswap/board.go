package main

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/skillswap/skillswap-hub/internal/client/coordinator"
	"github.com/skillswap/skillswap-hub/internal/client/render"
	"github.com/skillswap/skillswap-hub/internal/domain/overview"
	"github.com/skillswap/skillswap-hub/pkg/retry"
)

var (
	boardPage        int
	boardLimit       int
	boardSearch      string
	boardCategory    string
	boardInteractive bool
)

var boardCmd = &cobra.Command{
	Use:   "board",
	Short: "Show one page of the skill board",
	Long: `Show one page of the skill board. --search and --category narrow the
skills already on that page; they never fetch other pages.

With -i the board stays open and reads commands from stdin:
  n / p          next or previous page
  g <page>       go to a page
  / <text>       search (applied after a short pause)
  c <category>   pick a category ("all" clears it)
  x              clear search and category
  q              quit`,
	RunE: runBoard,
}

func init() {
	boardCmd.Flags().IntVar(&boardPage, "page", overview.DefaultPage, "page number")
	boardCmd.Flags().IntVar(&boardLimit, "limit", overview.DefaultPageSize, "skills per page")
	boardCmd.Flags().StringVar(&boardSearch, "search", "", "case-insensitive text to match on skill and member names")
	boardCmd.Flags().StringVar(&boardCategory, "category", overview.AllCategory, "exact skill name to show")
	boardCmd.Flags().BoolVarP(&boardInteractive, "interactive", "i", false, "keep the board open")

	rootCmd.AddCommand(boardCmd)
}

func runBoard(cmd *cobra.Command, args []string) error {
	client, _, err := signedInClient()
	if err != nil {
		return err
	}

	ctx := cmd.Context()
	saved := loadSaved(ctx, client)

	var opts []coordinator.Option
	opts = append(opts,
		coordinator.WithPageSize(boardLimit),
		coordinator.WithRetry(retry.FetchOptions()...),
		coordinator.WithLogger(cliLogger()),
	)
	if boardInteractive {
		opts = append(opts, coordinator.WithOnChange(func(s coordinator.Snapshot) {
			if s.State == coordinator.StateSettled || s.State == coordinator.StateFailed {
				fmt.Print(render.Board(s, saved))
			}
		}))
	}

	co := coordinator.New(client, opts...)
	defer co.Close()

	if boardCategory != "" {
		co.SelectCategory(boardCategory)
	}
	if boardSearch != "" {
		co.TypeSearch(boardSearch)
		co.CommitSearch()
	}

	loadErr := co.Load(ctx, boardPage)
	if !boardInteractive {
		snap := co.Snapshot()
		if snap.Data == nil && loadErr != nil {
			return fmt.Errorf("cannot load board: %w", loadErr)
		}
		fmt.Print(render.Board(snap, saved))
		return nil
	}

	return boardLoop(ctx, co)
}

func boardLoop(ctx context.Context, co *coordinator.Coordinator) error {
	in := bufio.NewScanner(os.Stdin)
	for in.Scan() {
		line := strings.TrimSpace(in.Text())
		verb, arg, _ := strings.Cut(line, " ")
		arg = strings.TrimSpace(arg)

		switch verb {
		case "q", "quit":
			return nil
		case "n":
			if ok, _ := co.Next(ctx); !ok {
				fmt.Println("already on the last page")
			}
		case "p":
			if ok, _ := co.Prev(ctx); !ok {
				fmt.Println("already on the first page")
			}
		case "g":
			var page int
			if _, err := fmt.Sscanf(arg, "%d", &page); err != nil || page < 1 {
				fmt.Println("usage: g <page>")
				continue
			}
			co.GoToPage(ctx, page)
		case "/":
			co.TypeSearch(arg)
		case "c":
			co.SelectCategory(arg)
		case "x":
			co.ClearFilters()
		case "":
		default:
			fmt.Printf("unknown command %q\n", verb)
		}
	}
	return in.Err()
}
