// Package verification queries an external advisor registry to enrich
// lead records with firm data. The registry is a best-effort collaborator:
// any failure degrades to an empty candidate list.
package verification

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"advisormatch_backend/platform/logger"
)

// Candidate is one registry hit for a name lookup.
type Candidate struct {
	FirmName  string `json:"firmName"`
	CRDNumber string `json:"crdNumber"`
}

// Config exposes the registry settings the client needs.
type Config interface {
	GetVerificationAPIURL() string
	GetVerificationTimeout() time.Duration
}

// Client looks up names in the external registry over HTTP.
type Client struct {
	baseURL string
	http    *http.Client
	log     *logger.Logger
}

func NewClient(cfg Config, log *logger.Logger) *Client {
	return &Client{
		baseURL: cfg.GetVerificationAPIURL(),
		http: &http.Client{
			Timeout: cfg.GetVerificationTimeout(),
		},
		log: log,
	}
}

// Enabled reports whether a registry endpoint is configured.
func (c *Client) Enabled() bool {
	return c.baseURL != ""
}

type searchResponse struct {
	Results []Candidate `json:"results"`
}

// Lookup returns registry candidates for a name. Timeouts, transport
// errors, non-200 responses and malformed bodies all return an empty list
// with a warning log; the caller proceeds without enrichment.
func (c *Client) Lookup(ctx context.Context, name string) []Candidate {
	if !c.Enabled() || name == "" {
		return nil
	}

	endpoint := fmt.Sprintf("%s/search?name=%s", c.baseURL, url.QueryEscape(name))
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		c.warn(name, err)
		return nil
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		c.warn(name, err)
		return nil
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		c.warn(name, fmt.Errorf("registry returned status %d", resp.StatusCode))
		return nil
	}

	var payload searchResponse
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		c.warn(name, err)
		return nil
	}
	return payload.Results
}

func (c *Client) warn(name string, err error) {
	c.log.Warn("verification lookup failed",
		"name", name,
		"error", err.Error(),
	)
}
