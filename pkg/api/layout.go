package api

import (
	"context"

	"github.com/sguter90/switchmaestro/pkg/models"
)

// GetLayout returns the full customizable state
func (c *Client) GetLayout(ctx context.Context) (*models.Layout, error) {
	var l models.Layout
	if err := c.doRequest(ctx, "GET", "/api/v1/layout", nil, &l); err != nil {
		return nil, err
	}
	return &l, nil
}

// SaveLayout persists the layout on the server. A partial failure comes back
// as an *APIError whose Failures name the keys that were not written.
func (c *Client) SaveLayout(ctx context.Context) error {
	return c.doRequest(ctx, "POST", "/api/v1/layout/save", nil, &SaveResponse{})
}

// LoadLayout reloads the layout from server storage
func (c *Client) LoadLayout(ctx context.Context) (*LoadResponse, error) {
	var resp LoadResponse
	if err := c.doRequest(ctx, "POST", "/api/v1/layout/load", nil, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}
