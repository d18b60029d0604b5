package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/tictactoe/internal/config"
)

var (
	flagShowEnv     bool
	flagShowDefault bool
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Print the effective configuration",
	Long: `Print the configuration after the config file, environment variables
and global flags are applied, as YAML.

Examples:
  tictactoe config
  tictactoe config --env       # list environment overrides
  tictactoe config --default > ~/.tictactoe/config.yaml`,
	Args: cobra.NoArgs,
	Run:  runConfig,
}

func init() {
	configCmd.Flags().BoolVar(&flagShowEnv, "env", false, "List supported environment variables")
	configCmd.Flags().BoolVar(&flagShowDefault, "default", false, "Print the built-in default config file")
}

func runConfig(_ *cobra.Command, _ []string) {
	switch {
	case flagShowDefault:
		os.Stdout.Write(config.DefaultYAML())
		return
	case flagShowEnv:
		help, err := config.EnvHelp()
		if err != nil {
			fatal("%v", err)
		}
		fmt.Println(help)
		return
	}

	cfg, err := loadConfig()
	if err != nil {
		fatal("%v", err)
	}
	data, err := config.Marshal(cfg)
	if err != nil {
		fatal("%v", err)
	}
	os.Stdout.Write(data)
}
