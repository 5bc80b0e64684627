package client

import (
	"errors"
	"fmt"
	"strings"
)

// DownloadThumbnail fetches a camera or incident thumbnail image.
// Relative locators are resolved against the configured base URL,
// absolute URLs are fetched as-is.
func (c *SecureSightClient) DownloadThumbnail(locator string) ([]byte, error) {
	if locator == "" {
		return nil, errors.New("no thumbnail URL on record")
	}

	url := locator
	if !strings.HasPrefix(locator, "http://") && !strings.HasPrefix(locator, "https://") {
		url = strings.TrimRight(c.Config.BaseURL, "/") + "/" + strings.TrimLeft(locator, "/")
	}

	resp, err := c.HTTP.R().Get(url)
	if err != nil {
		return nil, err
	}

	if resp.IsError() {
		return nil, fmt.Errorf("failed to get thumbnail: %s", resp.Status())
	}

	if len(resp.Body()) == 0 {
		return nil, errors.New("response body is empty")
	}

	return resp.Body(), nil
}
