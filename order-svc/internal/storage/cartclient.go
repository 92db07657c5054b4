package storage

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"github.com/nazarkrivolesov/kitchen-2.0/order-svc/internal/domain"
)

type HTTPClient interface {
	Do(req *http.Request) (*http.Response, error)
}

// HTTPCartClient reads and clears carts held by catalog-svc.
type HTTPCartClient struct {
	BaseURL string
	Client  HTTPClient
}

func NewHTTPCartClient(baseURL string, client HTTPClient) *HTTPCartClient {
	return &HTTPCartClient{BaseURL: strings.TrimRight(baseURL, "/"), Client: client}
}

type cartResponse struct {
	ID    string        `json:"id"`
	Items []domain.Item `json:"items"`
}

func (c *HTTPCartClient) GetCartItems(ctx context.Context, cartID string) ([]domain.Item, error) {
	resp, err := c.do(ctx, http.MethodGet, cartID)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	var cart cartResponse
	if err := json.NewDecoder(resp.Body).Decode(&cart); err != nil {
		return nil, fmt.Errorf("decode cart: %w", err)
	}
	return cart.Items, nil
}

func (c *HTTPCartClient) ClearCart(ctx context.Context, cartID string) error {
	resp, err := c.do(ctx, http.MethodDelete, cartID)
	if err != nil {
		return err
	}
	resp.Body.Close()
	return nil
}

func (c *HTTPCartClient) do(ctx context.Context, method, cartID string) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, method, c.BaseURL+"/api/carts/"+url.PathEscape(cartID), nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.Client.Do(req)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode == http.StatusNotFound {
		resp.Body.Close()
		return nil, domain.ErrCartNotFound
	}
	if resp.StatusCode >= 300 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		resp.Body.Close()
		return nil, fmt.Errorf("catalog-svc %s cart: status %d: %s", method, resp.StatusCode, strings.TrimSpace(string(body)))
	}
	return resp, nil
}
