package api

import (
	"context"
	"net/url"

	"github.com/sguter90/switchmaestro/pkg/models"
)

// ListSwitches returns every switch of the controller
func (c *Client) ListSwitches(ctx context.Context) ([]models.Switch, error) {
	var switches []models.Switch
	if err := c.doRequest(ctx, "GET", "/api/v1/switches", nil, &switches); err != nil {
		return nil, err
	}
	return switches, nil
}

// ToggleSwitch flips a switch and returns its new state
func (c *Client) ToggleSwitch(ctx context.Context, id string) (*models.Switch, error) {
	var sw models.Switch
	if err := c.doRequest(ctx, "POST", "/api/v1/switches/"+url.PathEscape(id)+"/toggle", nil, &sw); err != nil {
		return nil, err
	}
	return &sw, nil
}

// SystemStatus returns the controller status
func (c *Client) SystemStatus(ctx context.Context) (*models.SystemStatus, error) {
	var status models.SystemStatus
	if err := c.doRequest(ctx, "GET", "/api/v1/system", nil, &status); err != nil {
		return nil, err
	}
	return &status, nil
}

// Connect asks the server to connect to the controller
func (c *Client) Connect(ctx context.Context) (*models.SystemStatus, error) {
	var status models.SystemStatus
	if err := c.doRequest(ctx, "POST", "/api/v1/system/connect", nil, &status); err != nil {
		return nil, err
	}
	return &status, nil
}

// Diagnostics returns the sample history
func (c *Client) Diagnostics(ctx context.Context) (*DiagnosticsResponse, error) {
	var diag DiagnosticsResponse
	if err := c.doRequest(ctx, "GET", "/api/v1/diagnostics", nil, &diag); err != nil {
		return nil, err
	}
	return &diag, nil
}
