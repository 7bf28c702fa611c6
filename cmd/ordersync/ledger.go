package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/amscan/ordersync/internal/config"
	"github.com/amscan/ordersync/internal/ledger"
)

func openStore() (*ledger.Store, func(), error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, nil, err
	}
	db, err := ledger.InitDB(cfg.DBPath)
	if err != nil {
		return nil, nil, err
	}
	return ledger.NewStore(db), func() { db.Close() }, nil
}

var ledgerCmd = &cobra.Command{
	Use:   "ledger",
	Short: "Inspect and edit the processed-file ledger",
	Run: func(cmd *cobra.Command, args []string) {
		cmd.Help()
	},
}

var ledgerListCmd = &cobra.Command{
	Use:   "list",
	Short: "List all processed file names",
	RunE: func(cmd *cobra.Command, args []string) error {
		store, closeDB, err := openStore()
		if err != nil {
			return err
		}
		defer closeDB()

		files, err := store.All()
		if err != nil {
			return err
		}
		for _, f := range files {
			fmt.Println(f)
		}
		fmt.Printf("%d processed file(s)\n", len(files))
		return nil
	},
}

var ledgerClearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Remove every entry from the ledger",
	RunE: func(cmd *cobra.Command, args []string) error {
		store, closeDB, err := openStore()
		if err != nil {
			return err
		}
		defer closeDB()

		removed, err := store.Clear()
		if err != nil {
			return err
		}
		fmt.Printf("removed %d entries\n", removed)
		return nil
	},
}

var ledgerRemoveCmd = &cobra.Command{
	Use:   "remove <file-name>",
	Short: "Remove one file from the ledger so it is reprocessed",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		store, closeDB, err := openStore()
		if err != nil {
			return err
		}
		defer closeDB()

		removed, err := store.Remove(args[0])
		if err != nil {
			return err
		}
		if !removed {
			return fmt.Errorf("%q is not in the ledger", args[0])
		}
		fmt.Printf("removed %q\n", args[0])
		return nil
	},
}

func init() {
	ledgerCmd.AddCommand(ledgerListCmd, ledgerClearCmd, ledgerRemoveCmd)
	rootCmd.AddCommand(ledgerCmd)
}
