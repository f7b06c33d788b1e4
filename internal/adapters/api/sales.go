package api

import (
	"context"
	"fmt"
	"net/url"

	"github.com/klyve/vodctl/internal/domain"
)

const salesPath = "api/admin/sales"

func (c *Client) SalesSummary(ctx context.Context) (domain.SalesSummary, error) {
	var out struct {
		Data domain.SalesSummary `json:"data"`
	}
	if err := c.get(ctx, salesPath+"/summary", nil, &out); err != nil {
		return domain.SalesSummary{}, fmt.Errorf("fetch sales summary: %w", err)
	}
	return out.Data, nil
}

func (c *Client) PlanGroups(ctx context.Context) ([]domain.PlanGroup, error) {
	var out struct {
		Data []domain.PlanGroup `json:"data"`
	}
	if err := c.get(ctx, salesPath+"/plan-group", nil, &out); err != nil {
		return nil, fmt.Errorf("fetch plan groups: %w", err)
	}
	return out.Data, nil
}

func (c *Client) FreePlanUsage(ctx context.Context) (domain.FreePlanUsage, error) {
	var out struct {
		Data domain.FreePlanUsage `json:"data"`
	}
	if err := c.get(ctx, salesPath+"/free-plan", nil, &out); err != nil {
		return domain.FreePlanUsage{}, fmt.Errorf("fetch free plan usage: %w", err)
	}
	return out.Data, nil
}

func (c *Client) RevenueByPeriod(ctx context.Context, period domain.RevenuePeriod) ([]domain.RevenuePoint, error) {
	if !period.Valid() {
		return nil, fmt.Errorf("invalid revenue period %q", period)
	}
	values := url.Values{}
	values.Set("period", string(period))

	var out struct {
		Data []domain.RevenuePoint `json:"data"`
	}
	if err := c.get(ctx, salesPath+"/revenue-by-period", values, &out); err != nil {
		return nil, fmt.Errorf("fetch revenue by period: %w", err)
	}
	return out.Data, nil
}

func (c *Client) StatusDistribution(ctx context.Context) ([]domain.StatusDistribution, error) {
	var out struct {
		Data []domain.StatusDistribution `json:"data"`
	}
	if err := c.get(ctx, salesPath+"/status-distribution", nil, &out); err != nil {
		return nil, fmt.Errorf("fetch status distribution: %w", err)
	}
	return out.Data, nil
}
