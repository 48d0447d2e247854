package api

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"github.com/viajeia/viajeia/internal/common/httpclient"
)

// Client represents a client for communicating with the ViajeIA planning
// service. It provides methods for requesting a plan, managing favorite
// destinations, and downloading the itinerary document.
type Client struct {
	http httpclient.RequestDoer
}

// NewClient creates a new Client for the service described by config.
func NewClient(config httpclient.Configurator) *Client {
	return &Client{
		http: httpclient.NewClient(config),
	}
}

// NewClientWithDoer creates a Client over an existing request doer.
// Useful for tests that need to intercept transport behavior.
func NewClientWithDoer(doer httpclient.RequestDoer) *Client {
	return &Client{http: doer}
}

// Plan submits a planning request and returns the service's full snapshot
// of the conversation for the session.
func (c *Client) Plan(ctx context.Context, req *PlanRequest) (*PlanResponse, error) {
	body, err := json.Marshal(req)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request: %v", err)
	}

	respBody, err := c.http.DoRequest(ctx, httpclient.RequestOptions{
		Method: http.MethodPost,
		Path:   "plan",
		Body:   body,
	})
	if err != nil {
		return nil, err
	}

	var resp PlanResponse
	if err := json.Unmarshal(respBody, &resp); err != nil {
		return nil, fmt.Errorf("failed to parse response: %v", err)
	}
	return &resp, nil
}

// ListFavorites fetches the favorite destinations saved for the session.
func (c *Client) ListFavorites(ctx context.Context, sessionID string) (*FavoritesResponse, error) {
	respBody, err := c.http.DoRequest(ctx, httpclient.RequestOptions{
		Method:      http.MethodGet,
		Path:        "favorites",
		QueryParams: map[string]string{"session_id": sessionID},
	})
	if err != nil {
		return nil, err
	}

	var resp FavoritesResponse
	if err := json.Unmarshal(respBody, &resp); err != nil {
		return nil, fmt.Errorf("failed to parse response: %v", err)
	}
	return &resp, nil
}

// SaveFavorite adds a destination to the session's favorites and returns
// the updated list as the server now holds it.
func (c *Client) SaveFavorite(ctx context.Context, req *FavoriteRequest) (*FavoritesResponse, error) {
	body, err := json.Marshal(req)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request: %v", err)
	}

	respBody, err := c.http.DoRequest(ctx, httpclient.RequestOptions{
		Method: http.MethodPost,
		Path:   "favorites",
		Body:   body,
	})
	if err != nil {
		return nil, err
	}

	var resp FavoritesResponse
	if err := json.Unmarshal(respBody, &resp); err != nil {
		return nil, fmt.Errorf("failed to parse response: %v", err)
	}
	return &resp, nil
}

// DownloadItinerary streams the itinerary PDF for the session.
// The caller is responsible for closing the returned reader.
func (c *Client) DownloadItinerary(ctx context.Context, sessionID string) (io.ReadCloser, error) {
	return c.http.StreamRequest(ctx, httpclient.RequestOptions{
		Method:      http.MethodGet,
		Path:        "itinerary/pdf",
		QueryParams: map[string]string{"session_id": sessionID},
	})
}

// Health checks that the planning service is reachable.
func (c *Client) Health(ctx context.Context) (*HealthResponse, error) {
	respBody, err := c.http.DoRequest(ctx, httpclient.RequestOptions{
		Method: http.MethodGet,
		Path:   "api/health",
	})
	if err != nil {
		return nil, err
	}

	var resp HealthResponse
	if err := json.Unmarshal(respBody, &resp); err != nil {
		return nil, fmt.Errorf("failed to parse response: %v", err)
	}
	return &resp, nil
}
