package cmd

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/spf13/cobra"

	authadapter "github.com/klyve/vodctl/internal/adapters/auth"
)

func newLoginCmd(app *app) *cobra.Command {
	var email, password string

	cmd := &cobra.Command{
		Use:   "login",
		Short: "Sign in to the admin console",
		RunE: func(cmd *cobra.Command, _ []string) error {
			if email == "" || password == "" {
				return errors.New("both --email and --password are required")
			}

			admin, err := app.sessions.SignIn(cmd.Context(), email, password)
			if err != nil {
				return err
			}

			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Signed in as %s\n", admin.DisplayName())
			return nil
		},
	}

	cmd.Flags().StringVar(&email, "email", "", "Admin email address")
	cmd.Flags().StringVar(&password, "password", "", "Admin password")

	cmd.AddCommand(newLoginGoogleCmd(app))

	return cmd
}

func newLoginGoogleCmd(app *app) *cobra.Command {
	return &cobra.Command{
		Use:   "google",
		Short: "Sign in with a Google account through the browser",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runGoogleLogin(cmd, app)
		},
	}
}

func runGoogleLogin(cmd *cobra.Command, app *app) error {
	if app.cfg.googleClientID == "" {
		return errors.New("google sign-in needs VODCTL_GOOGLE_CLIENT_ID")
	}

	pkce, err := authadapter.NewPKCEPair()
	if err != nil {
		return fmt.Errorf("generate pkce: %w", err)
	}
	state, err := authadapter.NewState()
	if err != nil {
		return fmt.Errorf("generate oauth state: %w", err)
	}

	server, err := authadapter.StartCallbackServer(app.cfg.googleListen, state)
	if err != nil {
		return fmt.Errorf("start callback server: %w", err)
	}

	authURL, err := authadapter.BuildAuthorizationURL(authadapter.AuthorizationRequest{
		AuthURL:       authadapter.GoogleAuthURL,
		ClientID:      app.cfg.googleClientID,
		RedirectURI:   server.RedirectURI(),
		State:         state,
		CodeChallenge: pkce.Challenge,
	})
	if err != nil {
		_ = server.Close()
		return fmt.Errorf("build authorization url: %w", err)
	}

	_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Open this URL to sign in with Google:\n%s\n", authURL)

	code, err := server.WaitForCode(app.cfg.googleTimeout)
	if err != nil {
		return fmt.Errorf("wait for oauth callback: %w", err)
	}

	tokens, err := authadapter.ExchangeCodeForTokens(http.DefaultClient, authadapter.TokenExchangeRequest{
		ClientID:     app.cfg.googleClientID,
		RedirectURI:  server.RedirectURI(),
		Code:         code,
		CodeVerifier: pkce.Verifier,
	})
	if err != nil {
		return fmt.Errorf("exchange code for tokens: %w", err)
	}

	admin, err := app.sessions.GoogleSignIn(cmd.Context(), tokens.AccessToken)
	if err != nil {
		return err
	}

	_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Signed in as %s\n", admin.DisplayName())
	return nil
}
