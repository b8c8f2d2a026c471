package cmd

import (
	"github.com/spf13/cobra"

	"github.com/remvze/gitscovery/internal/server"
	"github.com/remvze/gitscovery/pkg/picker"
)

// serveCmd represents the serve command
var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the discovery page on a local address",
	Long:  "Starts a local web server hosting the single-page discovery UI: one button that opens a random repository in a new tab.",
	RunE: func(cmd *cobra.Command, args []string) error {
		listenAddr, _ := cmd.Flags().GetString("listen")

		store, err := openStore()
		if err != nil {
			return err
		}
		defer store.Close()

		prov := newProvider(store)
		prov.Ensure()

		return server.New(prov, picker.New(prov)).Start(listenAddr)
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)
	serveCmd.Flags().String("listen", "127.0.0.1:7333", "HTTP listen address")
}
