package main

import (
	"os"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "curriculated",
	Short: "Curriculum content platform server and tooling",
	Long: `curriculated runs the curriculum content platform: a generic
content engine with schema validation, multi-tenant access control and
audited secret attributes, plus the knowledge base and standards import.`,
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func main() {
	Execute()
}
