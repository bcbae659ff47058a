// Package app implements the main application commands.
package app

import (
	"github.com/spf13/cobra"

	"github.com/clay-auth/clay-auth/internal/config"
)

var (
	configPath string // Path to the configuration directory holding main.toml

	cfg config.Config

	rootCmd = &cobra.Command{
		Use:   "clay-auth",
		Short: "clay-auth authenticates the users of clay sites",
		Long: `clay-auth serves the login routes, sessions, api keys and the
users api of one or more clay sites.`,
		Args:          cobra.OnlyValidArgs,
		SilenceUsage:  true,
		SilenceErrors: false,
	}
)

func init() { //nolint: gochecknoinits
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "./etc/", "config directory containing main.toml")
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute() //nolint:wrapcheck
}

// readConfig loads the configuration of the --config flag.
func readConfig(_ *cobra.Command, _ []string) error {
	var err error

	cfg, err = config.ReadConfig(configPath)

	return err //nolint:wrapcheck
}
