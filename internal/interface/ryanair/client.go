package ryanair

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"fare-tracker-service/internal/domain/entity"
	"fare-tracker-service/pkg/logger"
)

// ClientConfig holds the fixed query parameters of the one-way fare search
type ClientConfig struct {
	BaseURL  string
	Language string
	Market   string
	Limit    int
	Timeout  time.Duration
}

// Client queries the public one-way fare search endpoint
type Client struct {
	cfg        ClientConfig
	httpClient *http.Client
	logger     logger.Logger
}

// NewClient creates a new fare search client
func NewClient(cfg ClientConfig, logger logger.Logger) *Client {
	if cfg.Timeout <= 0 {
		cfg.Timeout = 30 * time.Second
	}
	return &Client{
		cfg:        cfg,
		httpClient: &http.Client{Timeout: cfg.Timeout},
		logger:     logger,
	}
}

// SearchOneWay fetches the fares departing on date (YYYY-MM-DD) for one route.
// The raw body is kept on the response for archiving.
func (c *Client) SearchOneWay(ctx context.Context, origin, destination, date string) (*entity.FareResponse, error) {
	endpoint, err := c.searchURL(origin, destination, date)
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create fare request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %s-%s %s: %v", entity.ErrNetwork, origin, destination, date, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("%w: reading body for %s-%s %s: %v", entity.ErrNetwork, origin, destination, date, err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("%w: %s-%s %s returned status %d", entity.ErrNetwork, origin, destination, date, resp.StatusCode)
	}

	var fares entity.FareResponse
	if err := json.Unmarshal(body, &fares); err != nil {
		return nil, fmt.Errorf("%w: %s-%s %s: %v", entity.ErrMalformedResponse, origin, destination, date, err)
	}
	fares.Raw = body

	c.logger.Debug("Fare search completed",
		"origin", origin,
		"destination", destination,
		"date", date,
		"total", fares.Total)

	return &fares, nil
}

func (c *Client) searchURL(origin, destination, date string) (string, error) {
	u, err := url.Parse(c.cfg.BaseURL)
	if err != nil {
		return "", fmt.Errorf("invalid fare api url %q: %w", c.cfg.BaseURL, err)
	}

	q := u.Query()
	q.Set("departureAirportIataCode", origin)
	q.Set("arrivalAirportIataCode", destination)
	q.Set("language", c.cfg.Language)
	q.Set("limit", strconv.Itoa(c.cfg.Limit))
	q.Set("market", c.cfg.Market)
	q.Set("offset", "0")
	q.Set("outboundDepartureDateFrom", date)
	q.Set("outboundDepartureDateTo", date)
	u.RawQuery = q.Encode()

	return u.String(), nil
}
