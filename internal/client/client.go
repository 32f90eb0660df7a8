// Package client talks to the quotation service the way the quotation page
// does.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"

	"vasavi/quotation/internal/domain/quote"
)

type Client struct {
	baseURL string
	http    *http.Client
}

// New returns a client for the service at baseURL. A nil hc uses a client
// with a 15 second timeout.
func New(baseURL string, hc *http.Client) *Client {
	if hc == nil {
		hc = &http.Client{Timeout: 15 * time.Second}
	}
	return &Client{baseURL: strings.TrimRight(baseURL, "/"), http: hc}
}

// APIError is an {error} body returned by the service.
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("server returned %d: %s", e.StatusCode, e.Message)
}

type Customer struct {
	ID      int64  `json:"id"`
	Name    string `json:"name"`
	Address string `json:"address"`
	GSTIN   string `json:"gstin"`
	State   string `json:"state"`
}

type Line struct {
	Basic float64 `json:"basic"`
	GST   float64 `json:"gst"`
	Total float64 `json:"total"`
}

type Totals struct {
	Basic float64 `json:"basic"`
	GST   float64 `json:"gst"`
	Grand float64 `json:"grand"`
	IGST  float64 `json:"igst"`
	CGST  float64 `json:"cgst"`
	SGST  float64 `json:"sgst"`
}

type TotalsResult struct {
	Lines   []Line        `json:"lines"`
	Totals  Totals        `json:"totals"`
	TaxMode quote.TaxMode `json:"tax_mode"`
}

func (c *Client) SearchCustomers(ctx context.Context, q string) ([]Customer, error) {
	var out []Customer
	if err := c.do(ctx, http.MethodGet, "/api/customers?q="+url.QueryEscape(q), nil, &out); err != nil {
		return nil, fmt.Errorf("search customers: %w", err)
	}
	return out, nil
}

// CreateQuotation submits d and returns the URL of the saved quotation.
func (c *Client) CreateQuotation(ctx context.Context, d quote.Draft) (string, error) {
	var out struct {
		Success     bool   `json:"success"`
		RedirectURL string `json:"redirect_url"`
	}
	if err := c.do(ctx, http.MethodPost, "/quotation/new", d, &out); err != nil {
		return "", fmt.Errorf("create quotation: %w", err)
	}
	if !out.Success {
		return "", fmt.Errorf("create quotation: server did not report success")
	}
	return out.RedirectURL, nil
}

func (c *Client) Totals(ctx context.Context, gstin string, items []quote.ItemInput) (TotalsResult, error) {
	req := struct {
		GSTIN string            `json:"gstin"`
		Items []quote.ItemInput `json:"items"`
	}{gstin, items}
	var out TotalsResult
	if err := c.do(ctx, http.MethodPost, "/api/totals", req, &out); err != nil {
		return TotalsResult{}, fmt.Errorf("totals: %w", err)
	}
	return out, nil
}

func (c *Client) do(ctx context.Context, method, path string, body, out any) error {
	var rd io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			return err
		}
		rd = bytes.NewReader(b)
	}
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, rd)
	if err != nil {
		return err
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("X-Request-ID", uuid.NewString())
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	b, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return err
	}
	if resp.StatusCode >= 300 {
		var e struct {
			Error string `json:"error"`
		}
		if json.Unmarshal(b, &e) != nil || e.Error == "" {
			e.Error = strings.TrimSpace(string(b))
		}
		return &APIError{StatusCode: resp.StatusCode, Message: e.Error}
	}
	if err := json.Unmarshal(b, out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}
