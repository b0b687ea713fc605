package api

import "context"

// HealthStatus represents the API health status
type HealthStatus struct {
	Status    string `json:"status"`
	Timestamp string `json:"timestamp"`
	Version   string `json:"version"`
	Storage   string `json:"storage"`
	// StorageError is set when Status is "degraded"
	StorageError string `json:"storageError,omitempty"`
}

// Health checks if the API is healthy
func (c *Client) Health(ctx context.Context) (*HealthStatus, error) {
	var health HealthStatus
	if err := c.doRequest(ctx, "GET", "/health", nil, &health); err != nil {
		return nil, err
	}
	return &health, nil
}
