package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "seed",
	Short: "Load development data into the course catalog",
	Long: `Seed prepares a development database.

Examples:
  seed subjects --file fixtures/subjects.yaml
  seed token --user 1 --role 2`,
	SilenceUsage: true,
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
