package cmd

import (
	"errors"
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	apiclient "github.com/klyve/vodctl/internal/adapters/api"
)

func newUsersCmd(app *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "users",
		Short: "Manage platform users",
	}

	cmd.AddCommand(newUsersListCmd(app), newUsersBanCmd(app), newUsersUnbanCmd(app))

	return cmd
}

func newUsersListCmd(app *app) *cobra.Command {
	var (
		page          int
		limit         int
		search        string
		includeBanned bool
		asJSON        bool
	)

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List platform users",
		RunE: func(cmd *cobra.Command, _ []string) error {
			pageData, err := app.api.ListUsers(cmd.Context(), apiclient.UserQuery{
				Page:          page,
				Limit:         limit,
				Search:        search,
				IncludeBanned: includeBanned,
			})
			if err != nil {
				return err
			}

			if asJSON {
				return printJSON(cmd, pageData)
			}

			rows := make([][]string, 0, len(pageData.Users))
			for _, user := range pageData.Users {
				banned := ""
				if user.IsBanned {
					banned = "banned"
				}
				rows = append(rows, []string{user.ID, user.Email, user.FullName(), user.PlanName, banned})
			}
			if err := table(cmd, []string{"ID", "EMAIL", "NAME", "PLAN", ""}, rows); err != nil {
				return err
			}

			p := pageData.Pagination
			_, err = fmt.Fprintf(cmd.OutOrStdout(), "page %d/%d (%d users)\n", p.CurrentPage, p.TotalPages, p.Total)
			return err
		},
	}

	cmd.Flags().IntVar(&page, "page", 1, "Page number")
	cmd.Flags().IntVar(&limit, "limit", 20, "Users per page")
	cmd.Flags().StringVar(&search, "search", "", "Filter by name or email")
	cmd.Flags().BoolVar(&includeBanned, "include-banned", false, "Include banned users")
	cmd.Flags().BoolVar(&asJSON, "json", false, "Output as JSON")

	return cmd
}

func newUsersBanCmd(app *app) *cobra.Command {
	return &cobra.Command{
		Use:   "ban <user-id>",
		Short: "Ban a platform user",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return setBan(cmd, app, args[0], true)
		},
	}
}

func newUsersUnbanCmd(app *app) *cobra.Command {
	return &cobra.Command{
		Use:   "unban <user-id>",
		Short: "Lift a platform user's ban",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return setBan(cmd, app, args[0], false)
		},
	}
}

func setBan(cmd *cobra.Command, app *app, userID string, banned bool) error {
	if userID == "" {
		return errors.New("user id is required")
	}
	if err := app.api.SetUserBan(cmd.Context(), userID, banned); err != nil {
		return err
	}
	_, err := fmt.Fprintf(cmd.OutOrStdout(), "user %s banned=%s\n", userID, strconv.FormatBool(banned))
	return err
}
