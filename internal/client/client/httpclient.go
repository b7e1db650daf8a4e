package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/dmitrijs2005/cartkeeper/internal/client/models"
	"github.com/dmitrijs2005/cartkeeper/internal/common"
	"github.com/sethvargo/go-retry"
)

const requestTimeout = 10 * time.Second

// HTTPClient implements Client against the cart API's JSON endpoints.
// The bearer token is ambient state set after login and cleared on logout.
type HTTPClient struct {
	baseURL string
	http    *http.Client
	token   string
}

func NewHTTPClient(baseURL string) *HTTPClient {
	return &HTTPClient{
		baseURL: baseURL,
		http:    &http.Client{Timeout: requestTimeout},
	}
}

func (c *HTTPClient) Close() error {
	c.http.CloseIdleConnections()
	return nil
}

func (c *HTTPClient) SetToken(token string) {
	c.token = token
}

func (c *HTTPClient) ClearToken() {
	c.token = ""
}

func (c *HTTPClient) HasToken() bool {
	return c.token != ""
}

// cartResponse is the full snapshot the server returns on every call.
type cartResponse struct {
	Items []models.CartLine `json:"items"`
}

type addItemRequest struct {
	ProductID models.ProductID `json:"productId"`
	Quantity  int              `json:"quantity"`
}

type setQuantityRequest struct {
	Quantity int `json:"quantity"`
}

type syncRequest struct {
	Items []SyncItem `json:"items"`
}

// doJSON performs one request and decodes the cart snapshot from the
// response. Transport failures and 5xx map to ErrUnavailable, 401/403 to
// ErrUnauthorized.
func (c *HTTPClient) doJSON(ctx context.Context, method, path string, headers map[string]string, body any) (*cartResponse, error) {
	var reader *bytes.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("failed to encode request: %w", err)
		}
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return nil, err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.token != "" {
		req.Header.Set(common.AuthorizationHeaderName, common.BearerPrefix+c.token)
	}
	for k, v := range headers {
		req.Header.Set(k, v)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusUnauthorized, resp.StatusCode == http.StatusForbidden:
		return nil, ErrUnauthorized
	case resp.StatusCode >= 500:
		return nil, fmt.Errorf("%w: %s", ErrUnavailable, resp.Status)
	case resp.StatusCode >= 400:
		return nil, fmt.Errorf("cart api error: %s", resp.Status)
	}

	var out cartResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return nil, fmt.Errorf("failed to decode response: %w", err)
	}
	return &out, nil
}

// doJSONRetry wraps doJSON with bounded exponential backoff. Used only for
// calls that are safe to repeat: reads and the deduplicated sync.
func (c *HTTPClient) doJSONRetry(ctx context.Context, method, path string, headers map[string]string, body any) (*cartResponse, error) {
	var out *cartResponse
	backoff := retry.WithMaxRetries(2, retry.NewExponential(200*time.Millisecond))
	err := retry.Do(ctx, backoff, func(ctx context.Context) error {
		resp, err := c.doJSON(ctx, method, path, headers, body)
		if err != nil {
			if isRetryable(err) {
				return retry.RetryableError(err)
			}
			return err
		}
		out = resp
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

func isRetryable(err error) bool {
	// only transport-level failures are worth another attempt
	return errors.Is(err, ErrUnavailable)
}

func (c *HTTPClient) toSession(resp *cartResponse) *models.CartSession {
	return &models.CartSession{Mode: models.ModeAuthenticated, Lines: resp.Items}
}

func (c *HTTPClient) Ping(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/ping", nil)
	if err != nil {
		return err
	}
	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return ErrUnavailable
	}
	return nil
}

func (c *HTTPClient) GetCart(ctx context.Context) (*models.CartSession, error) {
	resp, err := c.doJSONRetry(ctx, http.MethodGet, "/api/cart", nil, nil)
	if err != nil {
		return nil, err
	}
	return c.toSession(resp), nil
}

func (c *HTTPClient) AddItem(ctx context.Context, productID models.ProductID, quantity int) (*models.CartSession, error) {
	body := addItemRequest{ProductID: productID, Quantity: quantity}
	resp, err := c.doJSON(ctx, http.MethodPost, "/api/cart/items", nil, body)
	if err != nil {
		return nil, err
	}
	return c.toSession(resp), nil
}

func (c *HTTPClient) RemoveItem(ctx context.Context, lineKey string) (*models.CartSession, error) {
	resp, err := c.doJSON(ctx, http.MethodDelete, "/api/cart/items/"+url.PathEscape(lineKey), nil, nil)
	if err != nil {
		return nil, err
	}
	return c.toSession(resp), nil
}

func (c *HTTPClient) SetQuantity(ctx context.Context, lineKey string, quantity int) (*models.CartSession, error) {
	body := setQuantityRequest{Quantity: quantity}
	resp, err := c.doJSON(ctx, http.MethodPut, "/api/cart/items/"+url.PathEscape(lineKey), nil, body)
	if err != nil {
		return nil, err
	}
	return c.toSession(resp), nil
}

func (c *HTTPClient) Clear(ctx context.Context) (*models.CartSession, error) {
	resp, err := c.doJSON(ctx, http.MethodDelete, "/api/cart", nil, nil)
	if err != nil {
		return nil, err
	}
	return c.toSession(resp), nil
}

// SyncCart merges anonymous cart lines into the server cart. The syncID
// header makes a retried merge a no-op on the server side.
func (c *HTTPClient) SyncCart(ctx context.Context, syncID string, items []SyncItem) (*models.CartSession, error) {
	headers := map[string]string{common.SyncIDHeaderName: syncID}
	resp, err := c.doJSONRetry(ctx, http.MethodPost, "/api/cart/sync", headers, syncRequest{Items: items})
	if err != nil {
		return nil, err
	}
	return c.toSession(resp), nil
}
