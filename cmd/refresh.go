package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

// refreshCmd represents the refresh command
var refreshCmd = &cobra.Command{
	Use:   "refresh",
	Short: "Force a new fetch and overwrite the cache",
	RunE: func(cmd *cobra.Command, args []string) error {
		store, err := openStore()
		if err != nil {
			return err
		}
		defer store.Close()

		prov := newProvider(store)
		prov.Refresh()

		fmt.Printf("%d repositories cached\n", len(prov.Repos()))
		return nil
	},
}

func init() {
	rootCmd.AddCommand(refreshCmd)
}
