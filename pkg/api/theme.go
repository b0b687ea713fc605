package api

import (
	"context"

	"github.com/sguter90/switchmaestro/pkg/models"
)

// GetTheme returns the current theme and its palette
func (c *Client) GetTheme(ctx context.Context) (*ThemeResponse, error) {
	var theme ThemeResponse
	if err := c.doRequest(ctx, "GET", "/api/v1/theme", nil, &theme); err != nil {
		return nil, err
	}
	return &theme, nil
}

// UpdateTheme merges patch into the theme
func (c *Client) UpdateTheme(ctx context.Context, patch models.ThemePatch) (*ThemeResponse, error) {
	var theme ThemeResponse
	if err := c.doRequest(ctx, "PATCH", "/api/v1/theme", patch, &theme); err != nil {
		return nil, err
	}
	return &theme, nil
}
