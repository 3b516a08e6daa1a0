package client

import (
	"context"
	"fmt"

	domain "github.com/fretscout/fretscout/pkg/types"
)

// alertRequest contains only the fields the API accepts for create.
type alertRequest struct {
	Query    string   `json:"query"`
	MaxPrice *float64 `json:"max_price,omitempty"`
}

type alertListResponse struct {
	Alerts []domain.SavedAlert `json:"alerts"`
}

type eventListResponse struct {
	Events []domain.AlertEvent `json:"events"`
}

// CreateAlert saves a new alert.
func (c *Client) CreateAlert(ctx context.Context, query string, maxPrice *float64) (*domain.SavedAlert, error) {
	var created domain.SavedAlert
	req := alertRequest{Query: query, MaxPrice: maxPrice}
	if err := c.post(ctx, "/api/v1/alerts", req, &created); err != nil {
		return nil, err
	}
	return &created, nil
}

// ListAlerts returns all saved alerts.
func (c *Client) ListAlerts(ctx context.Context) ([]domain.SavedAlert, error) {
	var resp alertListResponse
	if err := c.get(ctx, "/api/v1/alerts", &resp); err != nil {
		return nil, err
	}
	return resp.Alerts, nil
}

// DeleteAlert deletes an alert by ID.
func (c *Client) DeleteAlert(ctx context.Context, id int64) error {
	return c.del(ctx, fmt.Sprintf("/api/v1/alerts/%d", id), nil)
}

// ListEvents returns the most recent alert events.
func (c *Client) ListEvents(ctx context.Context, limit int) ([]domain.AlertEvent, error) {
	path := "/api/v1/events"
	if limit > 0 {
		path = fmt.Sprintf("%s?limit=%d", path, limit)
	}
	var resp eventListResponse
	if err := c.get(ctx, path, &resp); err != nil {
		return nil, err
	}
	return resp.Events, nil
}
