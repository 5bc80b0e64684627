package client

import (
	"errors"
	"fmt"
	"strconv"

	"github.com/StrungPattern-coder/SecureSight/pkg/models"
)

// ResolvedFilter narrows an incident fetch by resolution state.
type ResolvedFilter int

const (
	FilterAll ResolvedFilter = iota // no query parameter, resolved and unresolved
	FilterUnresolved
	FilterResolved
)

// GetIncidents fetches incidents, optionally filtered by resolution state.
// The API returns them newest-timestamp-first with the owning camera
// embedded.
func (c *SecureSightClient) GetIncidents(filter ResolvedFilter) ([]models.Incident, error) {
	var incidents []models.Incident

	req := c.HTTP.R().SetResult(&incidents)

	switch filter {
	case FilterUnresolved:
		req.SetQueryParam("resolved", "false")
	case FilterResolved:
		req.SetQueryParam("resolved", "true")
	}

	resp, err := req.Get("/api/incidents")

	if err != nil {
		return nil, err
	}

	if resp.IsError() {
		return nil, fmt.Errorf("failed to get incidents: %s", resp.String())
	}

	return incidents, nil
}

// ResolveIncident marks an incident resolved and returns the updated
// record. Resolving an already-resolved incident succeeds without error.
func (c *SecureSightClient) ResolveIncident(id int64) (*models.Incident, error) {
	var incident models.Incident

	resp, err := c.HTTP.R().
		SetResult(&incident).
		Patch("/api/incidents/" + strconv.FormatInt(id, 10) + "/resolve")

	if err != nil {
		return nil, err
	}

	if resp.IsError() {
		return nil, fmt.Errorf("failed to resolve incident %d: %s", id, resp.String())
	}

	if incident.ID == 0 {
		return nil, errors.New("resolve succeeded but response carried no incident")
	}

	return &incident, nil
}
