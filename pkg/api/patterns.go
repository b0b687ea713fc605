package api

import (
	"context"
	"net/url"

	"github.com/sguter90/switchmaestro/pkg/layout"
	"github.com/sguter90/switchmaestro/pkg/models"
)

// ListPatterns returns the pattern banks in creation order
func (c *Client) ListPatterns(ctx context.Context) ([]models.PatternBank, error) {
	var banks []models.PatternBank
	if err := c.doRequest(ctx, "GET", "/api/v1/patterns", nil, &banks); err != nil {
		return nil, err
	}
	return banks, nil
}

// AddPattern creates a pattern bank
func (c *Client) AddPattern(ctx context.Context, name string, switches []string, color string) (*models.PatternBank, error) {
	var bank models.PatternBank
	req := PatternRequest{Name: name, Switches: switches, Color: color}
	if err := c.doRequest(ctx, "POST", "/api/v1/patterns", req, &bank); err != nil {
		return nil, err
	}
	return &bank, nil
}

// RemovePattern deletes a pattern bank
func (c *Client) RemovePattern(ctx context.Context, id string) error {
	return c.doRequest(ctx, "DELETE", "/api/v1/patterns/"+url.PathEscape(id), nil, nil)
}

// ActivatePattern turns on every eligible switch of a bank
func (c *Client) ActivatePattern(ctx context.Context, id string) (*layout.ActivationResult, error) {
	var result layout.ActivationResult
	if err := c.doRequest(ctx, "POST", "/api/v1/patterns/"+url.PathEscape(id)+"/activate", nil, &result); err != nil {
		return nil, err
	}
	return &result, nil
}
