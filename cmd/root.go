package cmd

import (
	"fmt"
	"os"

	"github.com/common-nighthawk/go-figure"
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:           "marketstock",
	Short:         "Inventory state and sales reconciliation for marketplace sellers",
	SilenceUsage:  true,
	SilenceErrors: true,
}

// Execute applies registered commands and runs the CLI.
func Execute() {
	Apply()
	if len(os.Args) == 1 {
		figure.NewFigure("marketstock", "small", true).Print()
		fmt.Println()
	}
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}
