package client

import (
	"fmt"

	"github.com/StrungPattern-coder/SecureSight/pkg/models"
)

// GetCameras fetches the full camera collection.
func (c *SecureSightClient) GetCameras() ([]models.Camera, error) {
	var cameras []models.Camera

	resp, err := c.HTTP.R().
		SetResult(&cameras).
		Get("/api/cameras")

	if err != nil {
		return nil, err
	}

	if resp.IsError() {
		return nil, fmt.Errorf("failed to get cameras: %s", resp.String())
	}

	return cameras, nil
}
