package catalog

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"
)

// Entry is a catalog product definition: everything needed to seed a
// customer's memory from a SKU alone.
type Entry struct {
	SKU      string    `json:"sku"`
	Category int       `json:"category"`
	Price    float64   `json:"price"`
	Features []float64 `json:"features"`
}

type Client interface {
	GetProduct(ctx context.Context, sku string) (*Entry, error)
}

type HTTPClient struct {
	baseURL    string
	httpClient *http.Client
}

func NewHTTPClient(baseURL string) *HTTPClient {
	return &HTTPClient{
		baseURL:    baseURL,
		httpClient: &http.Client{Timeout: 10 * time.Second},
	}
}

// GetProduct fetches one product definition. A 404 is reported as an error;
// callers seeding in bulk decide whether to skip or abort.
func (c *HTTPClient) GetProduct(ctx context.Context, sku string) (*Entry, error) {
	req, err := http.NewRequestWithContext(ctx, "GET", c.baseURL+"/api/v1/products/"+url.PathEscape(sku), nil)
	if err != nil {
		return nil, err
	}
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode >= 400 {
		return nil, fmt.Errorf("catalog: %d %s", resp.StatusCode, string(body))
	}

	var entry Entry
	if err := json.Unmarshal(body, &entry); err != nil {
		return nil, err
	}
	return &entry, nil
}
