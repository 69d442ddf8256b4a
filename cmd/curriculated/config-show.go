package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/pauljbernard/content-sub002/pkg/config"
)

// configShowCmd represents the config show command
var configShowCmd = &cobra.Command{
	Use:   "config",
	Short: "Show the effective configuration",
	Long: `Show the effective configuration and where each value came from
(default, file or environment).

Example:
  curriculated config
  curriculated config --json`,
	Run: func(cmd *cobra.Command, args []string) {
		cfg, err := config.Load()
		if err != nil {
			fmt.Fprintln(os.Stderr, "Failed to load configuration:", err)
			os.Exit(1)
		}

		asJSON, _ := cmd.Flags().GetBool("json")
		if asJSON {
			out, err := cfg.FormatJSON()
			if err != nil {
				fmt.Fprintln(os.Stderr, "Failed to format configuration:", err)
				os.Exit(1)
			}
			fmt.Println(out)
			return
		}
		fmt.Print(cfg.FormatText())
	},
}

func init() {
	rootCmd.AddCommand(configShowCmd)
}
