package cmd

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/klyve/vodctl/internal/adapters/render/dashboard"
	socketclient "github.com/klyve/vodctl/internal/adapters/socket"
	"github.com/klyve/vodctl/internal/application"
	"github.com/klyve/vodctl/internal/domain"
)

func newDashboardCmd(app *app) *cobra.Command {
	return &cobra.Command{
		Use:   "dashboard",
		Short: "Watch the realtime operations dashboard",
		RunE: func(cmd *cobra.Command, _ []string) error {
			if app.sessions.AccessToken() == "" {
				return dashboardConnectError(domain.ErrNoCredential)
			}
			// Rotate the session up front so the socket handshakes carry a
			// fresh token.
			if err := app.sessions.Refresh(cmd.Context()); err != nil {
				return err
			}
			credential := app.sessions.AccessToken()

			userCh, err := app.sockets.Connect(app.cfg.socketURL, socketclient.UserChannelPath, credential)
			if err != nil {
				return dashboardConnectError(err)
			}
			videoCh, err := app.sockets.Connect(app.cfg.socketURL, socketclient.VideoChannelPath, credential)
			if err != nil {
				return dashboardConnectError(err)
			}
			defer app.sockets.Disconnect()

			service := application.NewDashboardService(userCh, videoCh, app.log)
			defer service.Close()

			return dashboard.Run(service)
		},
	}
}

func dashboardConnectError(err error) error {
	if errors.Is(err, domain.ErrNoCredential) {
		return fmt.Errorf("%w: run \"vodctl login\" first", err)
	}
	return err
}
