package client

import "context"

// ModeInfo is the mode endpoint response.
type ModeInfo struct {
	Mode        string `json:"mode"`
	Environment string `json:"environment,omitempty"`
	Marketplace string `json:"marketplace,omitempty"`
}

// Mode returns the server's operating mode.
func (c *Client) Mode(ctx context.Context) (*ModeInfo, error) {
	var info ModeInfo
	if err := c.get(ctx, "/api/v1/mode", &info); err != nil {
		return nil, err
	}
	return &info, nil
}
