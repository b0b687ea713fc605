package api

import (
	"context"
	"fmt"
	"net/url"

	"github.com/sguter90/switchmaestro/pkg/models"
)

func widgetPath(id string, suffix string) string {
	return fmt.Sprintf("/api/v1/widgets/%s%s", url.PathEscape(id), suffix)
}

// ListWidgets returns the placed widgets in render order
func (c *Client) ListWidgets(ctx context.Context) ([]models.Widget, error) {
	var widgets []models.Widget
	if err := c.doRequest(ctx, "GET", "/api/v1/widgets", nil, &widgets); err != nil {
		return nil, err
	}
	return widgets, nil
}

// GetWidget returns a single widget
func (c *Client) GetWidget(ctx context.Context, id string) (*models.Widget, error) {
	var widget models.Widget
	if err := c.doRequest(ctx, "GET", widgetPath(id, ""), nil, &widget); err != nil {
		return nil, err
	}
	return &widget, nil
}

// AddWidget places a widget and returns its id
func (c *Client) AddWidget(ctx context.Context, spec models.WidgetSpec) (string, error) {
	var resp IDResponse
	if err := c.doRequest(ctx, "POST", "/api/v1/widgets", spec, &resp); err != nil {
		return "", err
	}
	return resp.ID, nil
}

// MoveWidget sets the grid position of a widget
func (c *Client) MoveWidget(ctx context.Context, id string, x, y int) error {
	return c.doRequest(ctx, "PUT", widgetPath(id, "/position"), PositionRequest{X: x, Y: y}, nil)
}

// ResizeWidget sets the spans of a widget
func (c *Client) ResizeWidget(ctx context.Context, id string, width, height int) error {
	return c.doRequest(ctx, "PUT", widgetPath(id, "/size"), SizeRequest{Width: width, Height: height}, nil)
}

// UpdateWidgetConfig merges partial into the widget config
func (c *Client) UpdateWidgetConfig(ctx context.Context, id string, partial models.WidgetConfig) error {
	return c.doRequest(ctx, "PATCH", widgetPath(id, "/config"), partial, nil)
}

// RemoveWidget deletes a widget
func (c *Client) RemoveWidget(ctx context.Context, id string) error {
	return c.doRequest(ctx, "DELETE", widgetPath(id, ""), nil, nil)
}

// ReorderWidget moves a widget within the render order
func (c *Client) ReorderWidget(ctx context.Context, from, to int) error {
	return c.doRequest(ctx, "POST", "/api/v1/widgets/reorder", ReorderRequest{From: from, To: to}, nil)
}
