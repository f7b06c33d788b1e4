package cmd

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	apiclient "github.com/klyve/vodctl/internal/adapters/api"
	"github.com/klyve/vodctl/internal/domain"
)

func newPlansCmd(app *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "plans",
		Short: "Manage subscription plans",
	}

	cmd.AddCommand(
		newPlansListCmd(app),
		newPlansCreateCmd(app),
		newPlansToggleCmd(app),
		newPlansDeleteCmd(app),
	)

	return cmd
}

func newPlansListCmd(app *app) *cobra.Command {
	var (
		skip   int
		limit  int
		status string
		asJSON bool
	)

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List subscription plans",
		RunE: func(cmd *cobra.Command, _ []string) error {
			plans, err := app.api.ListPlans(cmd.Context(), apiclient.PlanQuery{
				Skip:   skip,
				Limit:  limit,
				Status: status,
			})
			if err != nil {
				return err
			}

			if asJSON {
				return printJSON(cmd, plans)
			}

			rows := make([][]string, 0, len(plans))
			for _, plan := range plans {
				state := "inactive"
				if plan.IsActive {
					state = "active"
				}
				rows = append(rows, []string{
					plan.ID,
					plan.Name,
					fmt.Sprintf("%.2f", plan.Price),
					fmt.Sprintf("%d %s", plan.Interval, plan.Period),
					strconv.Itoa(plan.VideoPerMonth),
					state,
				})
			}
			return table(cmd, []string{"ID", "NAME", "PRICE", "BILLING", "VIDEOS/MO", "STATE"}, rows)
		},
	}

	cmd.Flags().IntVar(&skip, "skip", 0, "Plans to skip")
	cmd.Flags().IntVar(&limit, "limit", 20, "Plans per page")
	cmd.Flags().StringVar(&status, "status", "all", "Filter: active, inactive or all")
	cmd.Flags().BoolVar(&asJSON, "json", false, "Output as JSON")

	return cmd
}

func newPlansCreateCmd(app *app) *cobra.Command {
	var (
		plan   domain.NewPlan
		period string
	)

	cmd := &cobra.Command{
		Use:   "create",
		Short: "Create a subscription plan",
		RunE: func(cmd *cobra.Command, _ []string) error {
			plan.Period = domain.PlanPeriod(period)

			created, err := app.api.CreatePlan(cmd.Context(), plan)
			if err != nil {
				return err
			}
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Created plan %s (%s)\n", created.Name, created.ID)
			return nil
		},
	}

	cmd.Flags().StringVar(&plan.Name, "name", "", "Plan name")
	cmd.Flags().Float64Var(&plan.Price, "price", 0, "Price per billing interval")
	cmd.Flags().IntVar(&plan.Interval, "interval", 1, "Billing interval count")
	cmd.Flags().StringVar(&period, "period", string(domain.PeriodMonthly), "Billing period: DAILY, WEEKLY, MONTHLY, QUARTERLY or YEARLY")
	cmd.Flags().StringVar(&plan.Description, "description", "", "Plan description")
	cmd.Flags().IntVar(&plan.VideoPerMonth, "videos-per-month", 0, "Included video uploads per month")
	cmd.Flags().IntVar(&plan.Duration, "duration", 0, "Plan duration in months, 0 for unlimited")
	cmd.Flags().IntVar(&plan.Workspace, "workspaces", 1, "Included workspaces")
	cmd.Flags().BoolVar(&plan.AIFeature, "ai-features", false, "Include AI features")
	_ = cmd.MarkFlagRequired("name")
	_ = cmd.MarkFlagRequired("price")

	return cmd
}

func newPlansToggleCmd(app *app) *cobra.Command {
	var activate, deactivate bool

	cmd := &cobra.Command{
		Use:   "toggle <plan-id>",
		Short: "Activate or deactivate a plan",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if activate == deactivate {
				return fmt.Errorf("pass exactly one of --activate or --deactivate")
			}

			plan, err := app.api.TogglePlan(cmd.Context(), args[0], activate)
			if err != nil {
				return err
			}
			state := "inactive"
			if plan.IsActive {
				state = "active"
			}
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Plan %s is now %s\n", plan.Name, state)
			return nil
		},
	}

	cmd.Flags().BoolVar(&activate, "activate", false, "Activate the plan")
	cmd.Flags().BoolVar(&deactivate, "deactivate", false, "Deactivate the plan")

	return cmd
}

func newPlansDeleteCmd(app *app) *cobra.Command {
	return &cobra.Command{
		Use:   "delete <plan-id>",
		Short: "Delete a subscription plan",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := app.api.DeletePlan(cmd.Context(), args[0]); err != nil {
				return err
			}
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Deleted plan %s\n", args[0])
			return nil
		},
	}
}
