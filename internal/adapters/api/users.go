package api

import (
	"context"
	"fmt"
	"net/url"
	"strconv"

	"github.com/klyve/vodctl/internal/domain"
)

type UserQuery struct {
	Page          int
	Limit         int
	Search        string
	IncludeBanned bool
}

func (c *Client) ListUsers(ctx context.Context, q UserQuery) (domain.UserPage, error) {
	values := url.Values{}
	if q.Page > 0 {
		values.Set("page", strconv.Itoa(q.Page))
	}
	if q.Limit > 0 {
		values.Set("limit", strconv.Itoa(q.Limit))
	}
	if q.Search != "" {
		values.Set("q", q.Search)
	}
	if q.IncludeBanned {
		values.Set("includeBanned", "true")
	}

	var out struct {
		Success bool            `json:"success"`
		Data    domain.UserPage `json:"data"`
	}
	if err := c.get(ctx, "api/admin/users", values, &out); err != nil {
		return domain.UserPage{}, fmt.Errorf("list users: %w", err)
	}
	return out.Data, nil
}

// SetUserBan bans or unbans a platform user.
func (c *Client) SetUserBan(ctx context.Context, userID string, banned bool) error {
	body := map[string]bool{"isBanned": banned}
	if err := c.put(ctx, "api/admin/users/"+userID+"/ban", body, nil); err != nil {
		return fmt.Errorf("set user ban: %w", err)
	}
	return nil
}
