package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/remvze/gitscovery/internal/utils"
	"github.com/remvze/gitscovery/pkg/cache"
	"github.com/remvze/gitscovery/pkg/github"
	"github.com/remvze/gitscovery/pkg/provider"
	"github.com/remvze/gitscovery/pkg/whttp"

	homedir "github.com/mitchellh/go-homedir"
	"github.com/spf13/viper"
)

var cfgFile string

const (
	LOGO = `        _ _
   __ _(_) |_ ___  ___ _____   _____ _ __ _   _
  / _` + "`" + ` | | __/ __|/ __/ _ \ \ / / _ \ '__| | | |
 | (_| | | |_\__ \ (_| (_) \ V /  __/ |  | |_| |
  \__, |_|\__|___/\___\___/ \_/ \___|_|   \__, |
  |___/                                   |___/

`
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "gitscovery",
	Short: "Discover a random interesting GitHub repository.",
	Long: LOGO + `gitscovery finds fresh, reasonably popular, actively maintained GitHub
repositories and opens one at random in your browser. Results are cached
locally for 30 minutes to stay clear of API rate limits.`,
	CompletionOptions: cobra.CompletionOptions{
		DisableDefaultCmd: true,
	},
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		proxy, _ := cmd.Root().PersistentFlags().GetString("proxy")
		if proxy != "" {
			return whttp.SetupProxy(proxy)
		}
		return nil
	},
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}

func init() {
	cobra.OnInitialize(initConfig)
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is $HOME/.gitscovery.yaml)")

	// Global flags
	rootCmd.PersistentFlags().StringP("proxy", "", "", "HTTP Proxy (Useful for debugging. Example: http://127.0.0.1:8080)")
	rootCmd.PersistentFlags().StringP("loglevel", "l", "info", "Set log level. Available: debug, info, warn, error, fatal")
}

// initConfig reads in config file and ENV variables if set.
func initConfig() {
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		home, err := homedir.Dir()
		if err != nil {
			fmt.Println(err)
			os.Exit(1)
		}
		viper.AddConfigPath(home)
		viper.SetConfigName(".gitscovery")
		viper.SetConfigType("yaml")
	}

	viper.AutomaticEnv()

	// Defaults go in before ReadInConfig so an auto-created config file
	// carries them instead of being empty.
	viper.SetDefault("cache.path", "")
	viper.SetDefault("github.token", "")
	viper.SetDefault("search.min_stars_choices", github.MinStarsChoices)

	// If a config file is found, read it in.
	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); ok {
			// Config file not found; create it with defaults.
			home, _ := homedir.Dir()
			configPath := home + "/.gitscovery.yaml"
			if err := viper.SafeWriteConfigAs(configPath); err != nil {
				fmt.Printf("Error creating config file: %s", err)
			}
		}
	}

	// Init log library
	levelString, _ := rootCmd.PersistentFlags().GetString("loglevel")
	utils.SetLogLevel(levelString)
}

// openStore opens the on-disk cache configured via cache.path.
func openStore() (*cache.SQLite, error) {
	return cache.OpenSQLite(viper.GetString("cache.path"))
}

// newProvider wires a provider against the real search API.
func newProvider(store cache.Store) *provider.Provider {
	return provider.New(store,
		&github.Client{
			Token: viper.GetString("github.token"),
		},
		provider.WithStarChoices(viper.GetIntSlice("search.min_stars_choices")),
	)
}
