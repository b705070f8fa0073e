// Package cmd wires up the foundbox command line interface.
package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"

	"github.com/foundbox/foundbox/cmd/classify"
	"github.com/foundbox/foundbox/cmd/game"
	"github.com/foundbox/foundbox/cmd/items"
	"github.com/foundbox/foundbox/cmd/serve"
	"github.com/foundbox/foundbox/internal/conf"
	"github.com/foundbox/foundbox/internal/logging"
)

// RootCommand creates and returns the root command.
func RootCommand() *cobra.Command {
	// Shared settings instance, populated before any subcommand runs.
	settings := &conf.Settings{}

	rootCmd := &cobra.Command{
		Use:   "foundbox",
		Short: "FoundBox lost-and-found desk",
		Long:  "FoundBox manages a lost-and-found desk: photograph found items,\nlet the classifier suggest a category, and keep a searchable record store.",
	}

	setupFlags(rootCmd)

	rootCmd.AddCommand(
		serve.Command(settings),
		classify.Command(settings),
		items.Command(settings),
		game.Command(settings),
		configCommand(settings),
	)

	rootCmd.PersistentPreRunE = func(cmd *cobra.Command, args []string) error {
		loaded, err := conf.Load()
		if err != nil {
			return err
		}
		// Command line flags take precedence over the config file.
		loaded.Debug = viper.GetBool("debug")
		*settings = *loaded

		logging.Init(settings.Debug)
		return nil
	}

	return rootCmd
}

// configCommand prints the effective configuration after defaults, config
// file and flags have been merged.
func configCommand(settings *conf.Settings) *cobra.Command {
	return &cobra.Command{
		Use:   "config",
		Short: "Print the effective configuration as YAML",
		RunE: func(cmd *cobra.Command, args []string) error {
			out, err := yaml.Marshal(settings)
			if err != nil {
				return err
			}
			fmt.Print(string(out))
			return nil
		},
	}
}

// setupFlags defines flags that are global to the command line interface.
func setupFlags(rootCmd *cobra.Command) {
	rootCmd.PersistentFlags().BoolP("debug", "d", false, "Enable debug output")
	_ = viper.BindPFlag("debug", rootCmd.PersistentFlags().Lookup("debug"))
}
