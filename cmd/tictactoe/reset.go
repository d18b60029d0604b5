package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
)

var (
	flagResetUser    string
	flagResetResults bool
)

var resetCmd = &cobra.Command{
	Use:   "reset",
	Short: "Discard the saved game",
	Long: `Delete the saved game so the next run starts with an empty board and
zero scores. The result log is kept unless --results is given.

Examples:
  tictactoe reset
  tictactoe reset --user alice     # saved game of SSH user alice
  tictactoe reset --results        # also clear the result log`,
	Args: cobra.NoArgs,
	Run:  runReset,
}

func init() {
	resetCmd.Flags().StringVar(&flagResetUser, "user", "", "SSH user whose game to discard")
	resetCmd.Flags().BoolVar(&flagResetResults, "results", false, "Also clear the result log")
}

func runReset(_ *cobra.Command, _ []string) {
	cfg, logger := mustLoad()
	ctx := context.Background()

	st, err := openStores(ctx, cfg)
	if err != nil {
		fatal("%v", err)
	}
	defer st.Close()

	key := userKey(cfg, flagResetUser)
	if err := st.snapshots.DeleteSnapshot(ctx, key); err != nil {
		fatal("%v", err)
	}
	logger.Debug("snapshot deleted", "key", key)
	fmt.Printf("Saved game %q discarded.\n", key)

	if flagResetResults {
		n, err := st.results.ClearResults(ctx)
		if err != nil {
			fatal("%v", err)
		}
		fmt.Printf("Cleared %d results.\n", n)
	}
}
