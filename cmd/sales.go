package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/klyve/vodctl/internal/domain"
)

func newSalesCmd(app *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "sales",
		Short: "Revenue and subscription reporting",
	}

	cmd.AddCommand(
		newSalesSummaryCmd(app),
		newSalesPlansCmd(app),
		newSalesFreeCmd(app),
		newSalesRevenueCmd(app),
		newSalesStatusCmd(app),
	)

	return cmd
}

func newSalesSummaryCmd(app *app) *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "summary",
		Short: "Headline revenue figures",
		RunE: func(cmd *cobra.Command, _ []string) error {
			summary, err := app.api.SalesSummary(cmd.Context())
			if err != nil {
				return err
			}

			if asJSON {
				return printJSON(cmd, summary)
			}

			_, err = fmt.Fprintf(cmd.OutOrStdout(),
				"total revenue: %.2f\nsubscriptions: %d (%d active)\nrefunded: %.2f\n",
				summary.TotalRevenue, summary.TotalSubscriptions, summary.ActiveSubscriptions, summary.RefundedAmount)
			return err
		},
	}

	cmd.Flags().BoolVar(&asJSON, "json", false, "Output as JSON")

	return cmd
}

func newSalesPlansCmd(app *app) *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "plans",
		Short: "Revenue grouped by plan",
		RunE: func(cmd *cobra.Command, _ []string) error {
			groups, err := app.api.PlanGroups(cmd.Context())
			if err != nil {
				return err
			}

			if asJSON {
				return printJSON(cmd, groups)
			}

			rows := make([][]string, 0, len(groups))
			for _, group := range groups {
				rows = append(rows, []string{
					group.PlanName,
					fmt.Sprintf("%d", group.Subscriptions),
					fmt.Sprintf("%.2f", group.Revenue),
				})
			}
			return table(cmd, []string{"PLAN", "SUBSCRIPTIONS", "REVENUE"}, rows)
		},
	}

	cmd.Flags().BoolVar(&asJSON, "json", false, "Output as JSON")

	return cmd
}

func newSalesFreeCmd(app *app) *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "free",
		Short: "Free-tier adoption",
		RunE: func(cmd *cobra.Command, _ []string) error {
			usage, err := app.api.FreePlanUsage(cmd.Context())
			if err != nil {
				return err
			}

			if asJSON {
				return printJSON(cmd, usage)
			}

			_, err = fmt.Fprintf(cmd.OutOrStdout(),
				"free users: %d\nvideos uploaded: %d\nconversion rate: %.2f%%\n",
				usage.Users, usage.VideosUploaded, usage.ConversionRate)
			return err
		},
	}

	cmd.Flags().BoolVar(&asJSON, "json", false, "Output as JSON")

	return cmd
}

func newSalesRevenueCmd(app *app) *cobra.Command {
	var (
		period string
		asJSON bool
	)

	cmd := &cobra.Command{
		Use:   "revenue",
		Short: "Revenue bucketed by period",
		RunE: func(cmd *cobra.Command, _ []string) error {
			p := domain.RevenuePeriod(period)
			if !p.Valid() {
				return fmt.Errorf("invalid period %q: want daily, weekly, monthly or yearly", period)
			}

			points, err := app.api.RevenueByPeriod(cmd.Context(), p)
			if err != nil {
				return err
			}

			if asJSON {
				return printJSON(cmd, points)
			}

			rows := make([][]string, 0, len(points))
			for _, point := range points {
				rows = append(rows, []string{
					point.Period,
					fmt.Sprintf("%.2f", point.Revenue),
					fmt.Sprintf("%d", point.Count),
				})
			}
			return table(cmd, []string{"PERIOD", "REVENUE", "PAYMENTS"}, rows)
		},
	}

	cmd.Flags().StringVar(&period, "period", string(domain.RevenueMonthly), "Bucket size: daily, weekly, monthly or yearly")
	cmd.Flags().BoolVar(&asJSON, "json", false, "Output as JSON")

	return cmd
}

func newSalesStatusCmd(app *app) *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "status",
		Short: "Subscription status breakdown",
		RunE: func(cmd *cobra.Command, _ []string) error {
			distribution, err := app.api.StatusDistribution(cmd.Context())
			if err != nil {
				return err
			}

			if asJSON {
				return printJSON(cmd, distribution)
			}

			rows := make([][]string, 0, len(distribution))
			for _, slice := range distribution {
				rows = append(rows, []string{slice.Status, fmt.Sprintf("%d", slice.Count)})
			}
			return table(cmd, []string{"STATUS", "COUNT"}, rows)
		},
	}

	cmd.Flags().BoolVar(&asJSON, "json", false, "Output as JSON")

	return cmd
}
