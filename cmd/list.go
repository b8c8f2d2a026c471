package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

// listCmd represents the list command
var listCmd = &cobra.Command{
	Use:   "list",
	Short: "Print the current candidate repositories",
	Long:  "Prints every repository URL in the current candidate list, one per line. Uses the cache when fresh, fetches otherwise.",
	RunE: func(cmd *cobra.Command, args []string) error {
		store, err := openStore()
		if err != nil {
			return err
		}
		defer store.Close()

		prov := newProvider(store)
		prov.Ensure()

		for _, url := range prov.Repos() {
			fmt.Println(url)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(listCmd)
}
