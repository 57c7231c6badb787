package cmd

import (
	"fmt"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"credvault/internal/domain/session"
	"credvault/internal/infrastructure/storage/postgres"
)

var tokenUserID int

var tokenCmd = &cobra.Command{
	Use:   "token",
	Short: "Issue a session token for a user",
	Long: `Creates a session for the given user and prints the bearer token.
Useful for service accounts and for smoke-testing a deployment without
going through the login flow.`,
	RunE: func(cmd *cobra.Command, _ []string) error {
		storage, err := postgres.New(cfg)
		if err != nil {
			return fmt.Errorf("init storage: %w", err)
		}
		defer storage.Close()

		user, err := postgres.NewUserRepository(storage, log).Get(cmd.Context(), tokenUserID)
		if err != nil {
			return fmt.Errorf("look up user: %w", err)
		}

		sessions := session.NewService(postgres.NewSessionRepository(storage, log), log)
		token, err := sessions.Create(cmd.Context(), user.ID)
		if err != nil {
			return fmt.Errorf("issue token: %w", err)
		}

		color.Green("token issued for %s (user %d)", user.Login, user.ID)
		fmt.Println(token)
		return nil
	},
}

func init() {
	tokenCmd.Flags().IntVar(&tokenUserID, "user", 0, "user id to issue the token for")
	_ = tokenCmd.MarkFlagRequired("user")
}
