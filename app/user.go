package app

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/clay-auth/clay-auth/internal/daemon"
	"github.com/clay-auth/clay-auth/internal/db/models"
	"github.com/clay-auth/clay-auth/internal/users"
)

func init() { //nolint: gochecknoinits
	userAddCmd.Flags().StringVar(&newUser.Username, "username", "", "username (required)")
	userAddCmd.Flags().StringVar(&newUser.Provider, "provider", "local", "provider of the user")
	userAddCmd.Flags().StringVar(&newUser.Auth, "auth", models.AuthWrite, "auth level, admin or write")
	userAddCmd.Flags().StringVar(&newUser.Password, "password", "", "password, stored as hash")
	userAddCmd.Flags().BoolVar(&generateAPIKey, "apikey", false, "generate an api key, printed once")

	_ = userAddCmd.MarkFlagRequired("username")

	userCmd.AddCommand(userAddCmd)
	rootCmd.AddCommand(userCmd)
}

var (
	newUser        users.Payload
	generateAPIKey bool

	userCmd = &cobra.Command{
		Use:   "user",
		Short: "Manage users",
	}

	userAddCmd = &cobra.Command{
		Use:     "add",
		Short:   "Create or replace a user and print it",
		PreRunE: readConfig,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if generateAPIKey {
				newUser.APIKey = json.RawMessage("true")
			}

			stores, err := daemon.OpenStores(cmd.Context(), &cfg)
			if err != nil {
				return err //nolint:wrapcheck
			}
			defer stores.Close()

			u, err := stores.Users().Save(cmd.Context(), &newUser)
			if err != nil {
				return err //nolint:wrapcheck
			}

			out, err := json.MarshalIndent(u, "", "  ")
			if err != nil {
				return err //nolint:wrapcheck
			}

			_, err = fmt.Fprintln(cmd.OutOrStdout(), string(out))

			return err //nolint:wrapcheck
		},
	}
)
