package api

import (
	"context"
	"fmt"
	"net/url"
	"strconv"

	"github.com/klyve/vodctl/internal/domain"
)

const plansPath = "api/subscriptions/admin/plans"

type PlanQuery struct {
	Skip  int
	Limit int
	// Status filters by activation state: "active", "inactive" or "all".
	Status string
}

func (c *Client) ListPlans(ctx context.Context, q PlanQuery) ([]domain.SubscriptionPlan, error) {
	values := url.Values{}
	values.Set("skip", strconv.Itoa(q.Skip))
	if q.Limit > 0 {
		values.Set("limit", strconv.Itoa(q.Limit))
	}
	if q.Status != "" {
		values.Set("status", q.Status)
	}

	var out []domain.SubscriptionPlan
	if err := c.get(ctx, plansPath, values, &out); err != nil {
		return nil, fmt.Errorf("list plans: %w", err)
	}
	return out, nil
}

func (c *Client) CreatePlan(ctx context.Context, plan domain.NewPlan) (domain.SubscriptionPlan, error) {
	var out domain.SubscriptionPlan
	if err := c.post(ctx, plansPath, plan, &out); err != nil {
		return domain.SubscriptionPlan{}, fmt.Errorf("create plan: %w", err)
	}
	return out, nil
}

// TogglePlan flips a plan's activation state to the given value.
func (c *Client) TogglePlan(ctx context.Context, planID string, active bool) (domain.SubscriptionPlan, error) {
	body := map[string]bool{"isActive": active}
	var out domain.SubscriptionPlan
	if err := c.patch(ctx, plansPath+"/"+planID+"/toggle", body, &out); err != nil {
		return domain.SubscriptionPlan{}, fmt.Errorf("toggle plan: %w", err)
	}
	return out, nil
}

func (c *Client) DeletePlan(ctx context.Context, planID string) error {
	if err := c.delete(ctx, plansPath+"/"+planID); err != nil {
		return fmt.Errorf("delete plan: %w", err)
	}
	return nil
}
