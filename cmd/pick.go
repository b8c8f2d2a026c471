package cmd

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/remvze/gitscovery/internal/utils"
	"github.com/remvze/gitscovery/pkg/picker"
)

// pickCmd represents the pick command
var pickCmd = &cobra.Command{
	Use:   "pick",
	Short: "Open a random repository in your browser",
	Long:  "Picks one repository at random from the current candidate list (fetching it first if the cache is stale) and opens it in a new browser tab.",
	RunE: func(cmd *cobra.Command, args []string) error {
		printOnly, _ := cmd.Flags().GetBool("print")
		fresh, _ := cmd.Flags().GetBool("fresh")

		store, err := openStore()
		if err != nil {
			return err
		}
		defer store.Close()

		prov := newProvider(store)
		if fresh {
			prov.Refresh()
		} else {
			prov.Ensure()
		}

		control := picker.New(prov)

		if printOnly {
			url, err := control.Pick()
			if err != nil {
				return describeEmpty(err)
			}
			fmt.Println(url)
			return nil
		}

		url, err := control.Activate()
		if err != nil {
			if errors.Is(err, picker.ErrNoCandidates) {
				return describeEmpty(err)
			}
			// The pick succeeded but the browser refused; still print it.
			utils.Log.Warn("could not open browser: ", err)
			fmt.Println(url)
			return nil
		}
		fmt.Println(url)
		return nil
	},
}

func describeEmpty(err error) error {
	return fmt.Errorf("%w (the fetch may have failed, try again or run 'gitscovery refresh')", err)
}

func init() {
	rootCmd.AddCommand(pickCmd)

	pickCmd.Flags().BoolP("print", "p", false, "Print the picked URL instead of opening a browser")
	pickCmd.Flags().BoolP("fresh", "f", false, "Bypass the cache TTL and force a new fetch")
}
