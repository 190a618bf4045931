package shopify

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"github.com/rs/zerolog/log"

	"github.com/aranyat/reviews-api/pkg/config"
	"github.com/aranyat/reviews-api/pkg/models"
)

const accessTokenHeader = "X-Shopify-Access-Token"

// APIError is returned for any non-2xx response from the Admin API.
type APIError struct {
	StatusCode int
	Body       string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("shopify api error %d", e.StatusCode)
}

// Client issues authenticated calls against the Admin REST API.
type Client struct {
	baseURL     string
	accessToken string
	httpClient  *http.Client
}

// NewClient builds a client from the Shopify section of the configuration.
// A zero Timeout leaves requests unbounded apart from the caller's context.
func NewClient(cfg *config.ShopifyConfig) *Client {
	return &Client{
		baseURL:     cfg.ShopifyBaseURL(),
		accessToken: cfg.AccessToken,
		httpClient: &http.Client{
			Timeout: cfg.Timeout,
		},
	}
}

// Request sends payload (if any) as JSON to path, relative to the API root,
// and returns the response body. A success response whose body is not valid
// JSON yields an empty object.
func (c *Client) Request(ctx context.Context, method, path string, payload interface{}) (json.RawMessage, error) {
	var body io.Reader
	if payload != nil {
		data, err := json.Marshal(payload)
		if err != nil {
			return nil, fmt.Errorf("encode %s %s: %w", method, path, err)
		}
		body = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+trimPath(path), body)
	if err != nil {
		return nil, err
	}
	req.Header.Set(accessTokenHeader, c.accessToken)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	text, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read %s %s: %w", method, path, err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		log.Error().
			Str("method", method).
			Str("path", path).
			Int("status", resp.StatusCode).
			Str("body", string(text)).
			Msg("Shopify error")
		return nil, &APIError{StatusCode: resp.StatusCode, Body: string(text)}
	}

	if !json.Valid(text) {
		return json.RawMessage(`{}`), nil
	}
	return json.RawMessage(text), nil
}

// FindMetafields lists the product metafields matching namespace and key.
// Only the first page is read.
func (c *Client) FindMetafields(ctx context.Context, ownerID int64, namespace, key string) ([]models.Metafield, error) {
	query := url.Values{}
	query.Set("metafield[owner_id]", fmt.Sprintf("%d", ownerID))
	query.Set("metafield[owner_resource]", models.OwnerResourceProduct)
	query.Set("metafield[namespace]", namespace)
	query.Set("metafield[key]", key)

	raw, err := c.Request(ctx, http.MethodGet, "/metafields.json?"+query.Encode(), nil)
	if err != nil {
		return nil, err
	}

	var out models.MetafieldListResponse
	if err := json.Unmarshal(raw, &out); err != nil {
		return nil, fmt.Errorf("decode metafields: %w", err)
	}
	return out.Metafields, nil
}

// CreateMetafield creates a metafield addressed by owner, namespace and key.
func (c *Client) CreateMetafield(ctx context.Context, input models.MetafieldInput) (*models.Metafield, error) {
	input.ID = 0
	raw, err := c.Request(ctx, http.MethodPost, "/metafields.json", models.MetafieldEnvelope{Metafield: input})
	if err != nil {
		return nil, err
	}
	return decodeMetafield(raw)
}

// UpdateMetafield replaces the value of the metafield with the given id.
func (c *Client) UpdateMetafield(ctx context.Context, id int64, input models.MetafieldInput) (*models.Metafield, error) {
	input.ID = id
	raw, err := c.Request(ctx, http.MethodPut, fmt.Sprintf("/metafields/%d.json", id), models.MetafieldEnvelope{Metafield: input})
	if err != nil {
		return nil, err
	}
	return decodeMetafield(raw)
}

func (c *Client) BaseURL() string {
	return c.baseURL
}

func decodeMetafield(raw json.RawMessage) (*models.Metafield, error) {
	var out models.MetafieldResponse
	if err := json.Unmarshal(raw, &out); err != nil {
		return nil, fmt.Errorf("decode metafield: %w", err)
	}
	if out.Metafield == nil {
		return &models.Metafield{}, nil
	}
	return out.Metafield, nil
}

func trimPath(path string) string {
	return "/" + strings.TrimLeft(path, "/")
}
