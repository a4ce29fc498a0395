package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"pnlboard/internal/cli"
	"pnlboard/internal/config"
	"pnlboard/internal/workbook/google"
)

func newGoogleAuthCmd() *cobra.Command {
	var clientFile, tokenFile, port string

	cmd := &cobra.Command{
		Use:   "google-auth",
		Short: "Authorize read access to the statement spreadsheet as a Google user",
		Long: `Run the OAuth consent flow for an installed-app client and save the
token. Point GOOGLE_OAUTH_CLIENT_FILE and GOOGLE_OAUTH_TOKEN_FILE at the two
files to read the sheet without a service account.

Add http://localhost:<port>/callback to the client's authorized redirect URIs.`,
		Args: cobra.NoArgs,
		// No statement or remark store is needed here.
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			cli.LoadEnvFile()
			return nil
		},
		PersistentPostRunE: func(cmd *cobra.Command, args []string) error { return nil },
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := config.Load()
			if clientFile == "" {
				clientFile = cfg.GoogleOAuthClientFile
			}
			if tokenFile == "" {
				tokenFile = cfg.GoogleOAuthTokenFile
			}
			if tokenFile == "" {
				tokenFile = "token.json"
			}
			if port == "" {
				port = cfg.OAuthRedirectPort
			}
			if clientFile == "" {
				return errors.New("set --client or GOOGLE_OAUTH_CLIENT_FILE")
			}

			tok, err := google.Authorize(cmd.Context(), clientFile, port, cmd.OutOrStdout())
			if err != nil {
				return err
			}
			if err := google.SaveToken(tokenFile, tok); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Saved token to %s\n", tokenFile)
			return nil
		},
	}
	cmd.Flags().StringVar(&clientFile, "client", "", "OAuth client JSON file (GOOGLE_OAUTH_CLIENT_FILE)")
	cmd.Flags().StringVar(&tokenFile, "token", "", "Where to save the token (GOOGLE_OAUTH_TOKEN_FILE, default token.json)")
	cmd.Flags().StringVar(&port, "port", "", "Local callback port (OAUTH_REDIRECT_PORT, default 8085)")
	return cmd
}
