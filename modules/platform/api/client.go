// Package api is the REST client for the price-tracking backend.
// Read operations degrade to safe defaults on failure so the dashboard
// never hard-fails on a transient blip; write operations propagate
// failure to the caller.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/rs/zerolog"

	"github.com/Vigilant-co/nimble-trace-core/modules/core/catalog"
	"github.com/Vigilant-co/nimble-trace-core/modules/platform/logger"
)

// Notifier surfaces transient user-facing messages. Levels are
// "info", "success", "warning" or "error".
type Notifier interface {
	Notify(message, level string)
}

// Client issues pull requests against the REST surface
type Client struct {
	baseURL  string
	http     *http.Client
	notifier Notifier
	log      zerolog.Logger
}

// NewClient creates a REST client. notifier may be nil.
func NewClient(baseURL string, timeout time.Duration, notifier Notifier) *Client {
	return &Client{
		baseURL:  baseURL,
		http:     &http.Client{Timeout: timeout},
		notifier: notifier,
		log:      logger.With("api"),
	}
}

// ListQuery describes one page of the product list
type ListQuery struct {
	Page      int
	PageSize  int
	SortField string
	SortOrder string
	Search    string
	Site      string
}

// ListResult is the paginated response of the products endpoint
type ListResult struct {
	Products []catalog.Product `json:"products"`
	Total    int               `json:"total"`
	Pages    int               `json:"pages"`
}

// ListProducts fetches one page of products. It never returns an error:
// on any failure it logs, notifies, and returns the empty result with
// Pages=1 so pagination stays well-formed.
func (c *Client) ListProducts(ctx context.Context, q ListQuery) ListResult {
	params := url.Values{}
	params.Set("page", strconv.Itoa(q.Page))
	params.Set("limit", strconv.Itoa(q.PageSize))
	params.Set("sort", q.SortField)
	params.Set("order", q.SortOrder)
	params.Set("search", q.Search)
	params.Set("site", q.Site)

	var result ListResult
	if err := c.getJSON(ctx, "/products", params, &result); err != nil {
		c.log.Error().Err(err).Msg("failed to fetch products")
		c.notify("Failed to load products", "error")
		return ListResult{Products: nil, Total: 0, Pages: 1}
	}
	if result.Pages < 1 {
		result.Pages = 1
	}
	return result
}

// FetchMetrics fetches the aggregate metrics snapshot.
// Returns nil on failure; callers skip the update rather than clearing
// the displayed values.
func (c *Client) FetchMetrics(ctx context.Context) *catalog.MetricsSnapshot {
	var snapshot catalog.MetricsSnapshot
	if err := c.getJSON(ctx, "/metrics", nil, &snapshot); err != nil {
		c.log.Error().Err(err).Msg("failed to fetch metrics")
		return nil
	}
	return &snapshot
}

// FetchPriceHistory fetches the price history of a product.
// Returns an empty sequence on failure.
func (c *Client) FetchPriceHistory(ctx context.Context, productID, interval string) []catalog.PricePoint {
	if interval == "" {
		interval = "24h"
	}
	params := url.Values{}
	params.Set("interval", interval)

	var points []catalog.PricePoint
	path := "/products/" + url.PathEscape(productID) + "/history"
	if err := c.getJSON(ctx, path, params, &points); err != nil {
		c.log.Error().Err(err).Str("product_id", productID).Msg("failed to fetch price history")
		return nil
	}
	return points
}

// AddProduct registers a new product by URL. Unlike the read paths the
// error is propagated so the initiating action can react.
func (c *Client) AddProduct(ctx context.Context, productURL string) (catalog.Product, error) {
	body, err := json.Marshal(map[string]string{"url": productURL})
	if err != nil {
		return catalog.Product{}, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/products", bytes.NewReader(body))
	if err != nil {
		return catalog.Product{}, err
	}
	req.Header.Set("Content-Type", "application/json")

	var product catalog.Product
	if err := c.do(req, &product); err != nil {
		c.log.Error().Err(err).Msg("failed to add product")
		c.notify("Failed to add product", "error")
		return catalog.Product{}, err
	}

	c.notify("Product added successfully", "success")
	return product, nil
}

// DeleteProduct removes a tracked product. Reports success; failure is
// notified but not propagated.
func (c *Client) DeleteProduct(ctx context.Context, productID string) bool {
	req, err := http.NewRequestWithContext(ctx, http.MethodDelete, c.baseURL+"/products/"+url.PathEscape(productID), nil)
	if err != nil {
		c.log.Error().Err(err).Msg("failed to build delete request")
		return false
	}

	if err := c.do(req, nil); err != nil {
		c.log.Error().Err(err).Str("product_id", productID).Msg("failed to delete product")
		c.notify("Failed to delete product", "error")
		return false
	}

	c.notify("Product deleted", "success")
	return true
}

func (c *Client) getJSON(ctx context.Context, path string, params url.Values, v interface{}) error {
	u := c.baseURL + path
	if len(params) > 0 {
		u += "?" + params.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return err
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("Cache-Control", "no-cache")

	return c.do(req, v)
}

func (c *Client) do(req *http.Request, v interface{}) error {
	resp, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		io.Copy(io.Discard, resp.Body)
		return fmt.Errorf("HTTP %d", resp.StatusCode)
	}

	if v == nil {
		io.Copy(io.Discard, resp.Body)
		return nil
	}
	return json.NewDecoder(resp.Body).Decode(v)
}

func (c *Client) notify(message, level string) {
	if c.notifier != nil {
		c.notifier.Notify(message, level)
	}
}
