package cmd

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/remvze/gitscovery/pkg/cache"
)

// cacheCmd represents the parent `cache` command.
var cacheCmd = &cobra.Command{
	Use:   "cache",
	Short: "Inspect or clear the local repository cache",
}

var cacheStatusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show cache location, size and freshness",
	RunE: func(cmd *cobra.Command, args []string) error {
		store, err := openStore()
		if err != nil {
			return err
		}
		defer store.Close()

		fmt.Println("path:", store.Path())

		entry, ok := cache.ReadEntry(store)
		if !ok {
			fmt.Println("state: empty")
			return nil
		}

		now := time.Now()
		fmt.Println("repositories:", len(entry.Repos))
		fmt.Println("written:", entry.WrittenAt.Format(time.RFC3339))
		fmt.Println("age:", entry.Age(now).Round(time.Second))
		if entry.Valid(now) {
			fmt.Println("state: fresh")
		} else {
			fmt.Println("state: stale")
		}
		return nil
	},
}

var cacheClearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Delete all cached data",
	RunE: func(cmd *cobra.Command, args []string) error {
		store, err := openStore()
		if err != nil {
			return err
		}
		defer store.Close()

		if err := store.Clear(); err != nil {
			return err
		}
		fmt.Println("cache cleared")
		return nil
	},
}

func init() {
	rootCmd.AddCommand(cacheCmd)
	cacheCmd.AddCommand(cacheStatusCmd)
	cacheCmd.AddCommand(cacheClearCmd)
}
