package catalog

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/shopspring/decimal"
)

var ErrItemNotFound = errors.New("catalog item not found")

// Item is the catalog's view of a material at lookup time.
type Item struct {
	ID          int             `json:"id"`
	Name        string          `json:"name"`
	Price       decimal.Decimal `json:"price"`
	Stock       int             `json:"stock"`
	IsAvailable bool            `json:"isAvailable"`
}

type envelope struct {
	Success bool   `json:"success"`
	Data    *Item  `json:"data"`
	Message string `json:"message"`
}

// Client reads items from the catalog service over HTTP. Every lookup is
// bounded by the configured timeout, independent of the caller's deadline.
type Client struct {
	baseURL    string
	timeout    time.Duration
	httpClient *http.Client
}

func NewClient(baseURL string, timeout time.Duration) *Client {
	return &Client{
		baseURL:    baseURL,
		timeout:    timeout,
		httpClient: &http.Client{},
	}
}

func (c *Client) GetItem(ctx context.Context, itemID int) (*Item, error) {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	url := c.baseURL + "/api/products/" + strconv.Itoa(itemID)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("building catalog request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("calling catalog service: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return nil, ErrItemNotFound
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("catalog service responded with status %d", resp.StatusCode)
	}

	var out envelope
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return nil, fmt.Errorf("decoding catalog response: %w", err)
	}
	if !out.Success {
		if out.Message != "" {
			return nil, fmt.Errorf("catalog lookup unsuccessful: %s", out.Message)
		}
		return nil, errors.New("catalog lookup unsuccessful")
	}
	if out.Data == nil {
		return nil, ErrItemNotFound
	}

	return out.Data, nil
}
