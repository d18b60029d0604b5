// tictactoe is a single-player tic-tac-toe game against the computer.
//
// Usage:
//
//	tictactoe play            - Play in the terminal
//	tictactoe serve           - Start SSH server for remote play
//	tictactoe web             - Start the HTTP JSON API
//	tictactoe scores          - Show results of finished games
//	tictactoe reset           - Discard the saved game
//	tictactoe config          - Print the effective configuration
//
// Global flags:
//
//	--config <path>     - Config file (default search: ~/.tictactoe/config.yaml, ./configs/tictactoe.yaml)
//	--db <path>         - SQLite database path
//	--seed <value>      - RNG seed for reproducible opponents
//	--log-level <level> - debug, info, warn or error
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var (
	// Global flags
	flagConfig   string
	flagDBPath   string
	flagSeed     int64
	flagLogLevel string
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "tictactoe",
	Short: "Tic-tac-toe against the computer in your terminal",
	Long: `Play tic-tac-toe against a computer opponent with three difficulty
levels. Your game and scores are saved between runs.

Available commands:
  play     - Play in the terminal
  serve    - Start SSH server for remote play
  web      - Start the HTTP JSON API
  scores   - Show results of finished games
  reset    - Discard the saved game
  config   - Print the effective configuration

Examples:
  tictactoe play
  tictactoe play --difficulty hard
  tictactoe serve
  tictactoe scores -n 20`,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&flagConfig, "config", "", "Path to config YAML")
	rootCmd.PersistentFlags().StringVar(&flagDBPath, "db", "", "Path to SQLite database (overrides storage.path)")
	rootCmd.PersistentFlags().Int64Var(&flagSeed, "seed", 0, "RNG seed (0 = random based on time)")
	rootCmd.PersistentFlags().StringVar(&flagLogLevel, "log-level", "", "Log level (overrides log.level)")

	rootCmd.AddCommand(playCmd)
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(webCmd)
	rootCmd.AddCommand(scoresCmd)
	rootCmd.AddCommand(resetCmd)
	rootCmd.AddCommand(configCmd)
}

// fatal prints err and exits.
func fatal(format string, args ...any) {
	fmt.Fprintf(os.Stderr, "Error: "+format+"\n", args...)
	os.Exit(1)
}
