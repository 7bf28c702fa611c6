package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "ordersync",
	Short: "EDI order-file sync service",
	Long: `ordersync pulls tilde-delimited order files from a remote SFTP drop,
transforms them into commerce orders and submits them to the orders API.
Successfully processed files are recorded in a local ledger so they are
never submitted twice.`,
	Run: func(cmd *cobra.Command, args []string) {
		cmd.Help()
	},
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
