package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
)

var flagScoresLimit int

var scoresCmd = &cobra.Command{
	Use:   "scores",
	Short: "Show results of finished games",
	Long: `Display win/loss/draw totals and the most recent finished games.

Examples:
  tictactoe scores
  tictactoe scores -n 25`,
	Args: cobra.NoArgs,
	Run:  runScores,
}

func init() {
	scoresCmd.Flags().IntVarP(&flagScoresLimit, "limit", "n", 10, "Number of recent games to show")
}

func runScores(_ *cobra.Command, _ []string) {
	cfg, _ := mustLoad()
	ctx := context.Background()

	st, err := openStores(ctx, cfg)
	if err != nil {
		fatal("%v", err)
	}
	defer st.Close()

	totals, err := st.results.Totals(ctx)
	if err != nil {
		fatal("retrieving totals: %v", err)
	}
	results, err := st.results.RecentResults(ctx, flagScoresLimit)
	if err != nil {
		fatal("retrieving results: %v", err)
	}

	fmt.Println("Results")
	fmt.Println()

	if totals.Games() == 0 {
		fmt.Println("No games finished yet.")
		fmt.Println()
		fmt.Println("Play 'tictactoe play' to get started!")
		return
	}

	fmt.Printf("  Won: %d  Lost: %d  Drawn: %d  (%d games)\n", totals.Wins, totals.Losses, totals.Draws, totals.Games())
	fmt.Println()

	fmt.Printf("  %-4s  %-6s  %-6s  %-5s  %s\n", "#", "Result", "Level", "Moves", "Date")
	fmt.Printf("  %-4s  %-6s  %-6s  %-5s  %s\n", "-", "------", "-----", "-----", "----")
	for i, r := range results {
		fmt.Printf("  %-4d  %-6s  %-6s  %-5d  %s\n", i+1, r.Outcome, r.Difficulty, r.Moves,
			r.FinishedAt.Local().Format("2006-01-02 15:04"))
	}
}
