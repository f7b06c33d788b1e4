package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	apiclient "github.com/klyve/vodctl/internal/adapters/api"
)

func newPaymentsCmd(app *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "payments",
		Short: "Inspect billing transactions",
	}

	cmd.AddCommand(newPaymentsListCmd(app), newPaymentsStatusCmd(app))

	return cmd
}

func newPaymentsListCmd(app *app) *cobra.Command {
	var (
		page   int
		limit  int
		status string
		asJSON bool
	)

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List payments",
		RunE: func(cmd *cobra.Command, _ []string) error {
			pageData, err := app.api.ListPayments(cmd.Context(), apiclient.PaymentQuery{
				Page:   page,
				Limit:  limit,
				Status: status,
			})
			if err != nil {
				return err
			}

			if asJSON {
				return printJSON(cmd, pageData)
			}

			rows := make([][]string, 0, len(pageData.Payments))
			for _, payment := range pageData.Payments {
				rows = append(rows, []string{
					payment.ID,
					payment.UserID,
					payment.PlanName,
					fmt.Sprintf("%.2f %s", payment.Amount, payment.Currency),
					payment.Status,
					payment.Date,
				})
			}
			if err := table(cmd, []string{"ID", "USER", "PLAN", "AMOUNT", "STATUS", "DATE"}, rows); err != nil {
				return err
			}

			p := pageData.Pagination
			_, err = fmt.Fprintf(cmd.OutOrStdout(), "page %d/%d (%d payments)\n", p.CurrentPage, p.TotalPages, p.Total)
			return err
		},
	}

	cmd.Flags().IntVar(&page, "page", 1, "Page number")
	cmd.Flags().IntVar(&limit, "limit", 20, "Payments per page")
	cmd.Flags().StringVar(&status, "status", "", "Filter by payment status")
	cmd.Flags().BoolVar(&asJSON, "json", false, "Output as JSON")

	return cmd
}

func newPaymentsStatusCmd(app *app) *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "status",
		Short: "Show payment counts by status",
		RunE: func(cmd *cobra.Command, _ []string) error {
			summary, err := app.api.PaymentStatus(cmd.Context())
			if err != nil {
				return err
			}

			if asJSON {
				return printJSON(cmd, summary)
			}

			return table(cmd, []string{"STATUS", "COUNT"}, [][]string{
				{"succeeded", fmt.Sprintf("%d", summary.Succeeded)},
				{"pending", fmt.Sprintf("%d", summary.Pending)},
				{"failed", fmt.Sprintf("%d", summary.Failed)},
				{"refunded", fmt.Sprintf("%d", summary.Refunded)},
			})
		},
	}

	cmd.Flags().BoolVar(&asJSON, "json", false, "Output as JSON")

	return cmd
}
