package api

import (
	"context"
	"fmt"
	"net/url"
	"strconv"

	"github.com/klyve/vodctl/internal/domain"
)

type PaymentQuery struct {
	Page   int
	Limit  int
	Status string
}

func (c *Client) ListPayments(ctx context.Context, q PaymentQuery) (domain.PaymentPage, error) {
	values := url.Values{}
	if q.Page > 0 {
		values.Set("page", strconv.Itoa(q.Page))
	}
	if q.Limit > 0 {
		values.Set("limit", strconv.Itoa(q.Limit))
	}
	if q.Status != "" {
		values.Set("status", q.Status)
	}

	var out domain.PaymentPage
	if err := c.get(ctx, "api/user/admin/payments", values, &out); err != nil {
		return domain.PaymentPage{}, fmt.Errorf("list payments: %w", err)
	}
	return out, nil
}

func (c *Client) PaymentStatus(ctx context.Context) (domain.PaymentStatusSummary, error) {
	var out domain.PaymentStatusSummary
	if err := c.get(ctx, "api/user/admin/payment-status", nil, &out); err != nil {
		return domain.PaymentStatusSummary{}, fmt.Errorf("fetch payment status: %w", err)
	}
	return out, nil
}
