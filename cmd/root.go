package cmd

import (
	"github.com/spf13/cobra"

	"github.com/klyve/vodctl/internal/logging"
)

func Execute() error {
	return newRootCmd().Execute()
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:           "vodctl",
		Short:         "vodctl: admin console for the video platform",
		Long:          "vodctl manages the video platform from the terminal: sign in as an admin, watch the realtime operations dashboard, and administer users, promotional videos, subscription plans, payments and sales reporting.",
		SilenceUsage:  true,
		SilenceErrors: false,
	}

	app, err := wireApp(logging.New())
	if err != nil {
		rootCmd.RunE = func(_ *cobra.Command, _ []string) error {
			return err
		}
		return rootCmd
	}

	rootCmd.AddCommand(
		newVersionCmd(),
		newLoginCmd(app),
		newLogoutCmd(app),
		newWhoamiCmd(app),
		newDashboardCmd(app),
		newUsersCmd(app),
		newVideosCmd(app),
		newPlansCmd(app),
		newPaymentsCmd(app),
		newSalesCmd(app),
	)

	return rootCmd
}
