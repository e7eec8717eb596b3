package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/dmaia/balanco/internal/core/domain"
)

// Client talks to the counting server over HTTP. Errors are classified
// into domain kinds so the offline queue can decide what to retry: 4xx
// responses will never succeed by resending identical input, while
// network failures and 5xx responses are transient.
type Client struct {
	baseURL    string
	operatorID string
	http       *http.Client
}

func New(baseURL, operatorID string) *Client {
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		operatorID: operatorID,
		http:       &http.Client{Timeout: 15 * time.Second},
	}
}

type serverError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func (c *Client) do(ctx context.Context, method, path string, body, out any) error {
	var reader *bytes.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return domain.Fatal("ENCODE", "encode request: %v", err)
		}
		reader = bytes.NewReader(payload)
	} else {
		reader = bytes.NewReader(nil)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return domain.Fatal("REQUEST", "build request: %v", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Operator-ID", c.operatorID)

	resp, err := c.http.Do(req)
	if err != nil {
		return domain.Transient("NETWORK", "request %s %s: %v", method, path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		if out == nil {
			return nil
		}
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			return domain.Transient("DECODE", "decode response: %v", err)
		}
		return nil
	}

	var se serverError
	json.NewDecoder(resp.Body).Decode(&se)
	if se.Message == "" {
		se.Message = fmt.Sprintf("server returned %d", resp.StatusCode)
	}
	if se.Code == "" {
		se.Code = "UNKNOWN"
	}

	switch {
	case resp.StatusCode == http.StatusBadRequest || resp.StatusCode == http.StatusUnprocessableEntity:
		return domain.Validation(se.Code, "%s", se.Message)
	case resp.StatusCode == http.StatusNotFound:
		return domain.NotFound("%s", se.Message)
	case resp.StatusCode == http.StatusConflict:
		return &domain.Error{Kind: domain.KindConflict, Code: se.Code, Message: se.Message}
	default:
		return domain.Transient(se.Code, "%s", se.Message)
	}
}

type claimResponse struct {
	Status  string `json:"status"`
	HeldBy  string `json:"heldBy"`
	Warning string `json:"warning"`
}

// ClaimSector claims the sector for this client's operator and returns
// the advisory sequence warning, if any.
func (c *Client) ClaimSector(ctx context.Context, sectorID int64) (string, error) {
	var resp claimResponse
	err := c.do(ctx, http.MethodPost, fmt.Sprintf("/api/sectors/%d/claim", sectorID), nil, &resp)
	if err != nil {
		return "", err
	}
	return resp.Warning, nil
}

func (c *Client) ReleaseSector(ctx context.Context, sectorID int64) error {
	return c.do(ctx, http.MethodPost, fmt.Sprintf("/api/sectors/%d/release", sectorID), nil, nil)
}

// Send implements queue.Sender.
func (c *Client) Send(ctx context.Context, draft domain.CountDraft) error {
	return c.do(ctx, http.MethodPost, "/api/counts", draft, nil)
}

// ListProducts implements catalog.Source.
func (c *Client) ListProducts(ctx context.Context, inventoryID int64) ([]domain.Product, error) {
	var products []domain.Product
	err := c.do(ctx, http.MethodGet, fmt.Sprintf("/api/inventories/%d/products", inventoryID), nil, &products)
	if err != nil {
		return nil, err
	}
	return products, nil
}
