package datatable

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

	"github.com/hkennandya-dev/morning-glory-test-go/internal/dto"
	"github.com/hkennandya-dev/morning-glory-test-go/internal/infra"
)

// Client talks to the admin backend. All requests run through a circuit
// breaker so a failing backend trips to fast-fail instead of piling up
// timed-out requests.
type Client struct {
	baseURL string
	http    *http.Client
	cb      *infra.Breaker
}

// NewClient builds a Client for the given server base URL
// (e.g. "http://localhost:8000").
func NewClient(baseURL string) *Client {
	return &Client{
		baseURL: baseURL,
		http:    &http.Client{Timeout: 30 * time.Second},
		cb:      infra.NewBreaker("admin-api", 3, 30*time.Second),
	}
}

// ListResult is one decoded page.
type ListResult struct {
	Rows       []Row
	Pagination dto.Pagination
	Message    string
}

// List fetches one listing page.
func (c *Client) List(ctx context.Context, path string, query url.Values) (*ListResult, error) {
	env, err := c.do(ctx, http.MethodGet, path+"?"+query.Encode(), nil)
	if err != nil {
		return nil, err
	}
	var rows []Row
	if len(env.Data) > 0 {
		if err := json.Unmarshal(env.Data, &rows); err != nil {
			return nil, fmt.Errorf("decode rows: %w", err)
		}
	}
	res := &ListResult{Rows: Normalize(rows), Message: env.Message}
	if env.Pagination != nil {
		res.Pagination = *env.Pagination
	}
	return res, nil
}

// Get fetches one record by id.
func (c *Client) Get(ctx context.Context, path string, id int64) (Row, error) {
	env, err := c.do(ctx, http.MethodGet, path+"/"+strconv.FormatInt(id, 10), nil)
	if err != nil {
		return nil, err
	}
	var row Row
	if err := json.Unmarshal(env.Data, &row); err != nil {
		return nil, fmt.Errorf("decode row: %w", err)
	}
	return row, nil
}

// Create posts one record and returns the generated id.
func (c *Client) Create(ctx context.Context, path string, body any) (int64, error) {
	env, err := c.do(ctx, http.MethodPost, path, body)
	if err != nil {
		return 0, err
	}
	var created dto.CreatedID
	if err := json.Unmarshal(env.Data, &created); err != nil {
		return 0, fmt.Errorf("decode created id: %w", err)
	}
	return created.ID.Int64(), nil
}

// CreateBulk posts a batch; validation is all-or-nothing server-side.
func (c *Client) CreateBulk(ctx context.Context, path string, items []any) ([]int64, error) {
	env, err := c.do(ctx, http.MethodPost, path+"/bulk", map[string]any{"data": items})
	if err != nil {
		return nil, err
	}
	var created []dto.CreatedID
	if err := json.Unmarshal(env.Data, &created); err != nil {
		return nil, fmt.Errorf("decode created ids: %w", err)
	}
	ids := make([]int64, len(created))
	for i, c := range created {
		ids[i] = c.ID.Int64()
	}
	return ids, nil
}

// Update sends a partial update for one record.
func (c *Client) Update(ctx context.Context, path string, id int64, body any) error {
	_, err := c.do(ctx, http.MethodPut, path+"/"+strconv.FormatInt(id, 10), body)
	return err
}

// Recover reverses a soft delete.
func (c *Client) Recover(ctx context.Context, path string, id int64) error {
	_, err := c.do(ctx, http.MethodPut, path+"/"+strconv.FormatInt(id, 10)+"/recovery", nil)
	return err
}

// Delete soft-deletes an active record, or permanently removes an already
// soft-deleted one.
func (c *Client) Delete(ctx context.Context, path string, id int64) error {
	_, err := c.do(ctx, http.MethodDelete, path+"/"+strconv.FormatInt(id, 10), nil)
	return err
}

// DeleteBulk deletes a batch of ids.
func (c *Client) DeleteBulk(ctx context.Context, path string, ids []int64) error {
	strIDs := make([]string, len(ids))
	for i, id := range ids {
		strIDs[i] = strconv.FormatInt(id, 10)
	}
	_, err := c.do(ctx, http.MethodDelete, path+"/bulk", map[string]any{"id": strIDs})
	return err
}

// APIError is a non-2xx response decoded from the server envelope.
type APIError struct {
	Status  int
	Message string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("server returned %d: %s", e.Status, e.Message)
}

func (c *Client) do(ctx context.Context, method, path string, body any) (*dto.Envelope, error) {
	var env *dto.Envelope
	var apiErr *APIError
	err := c.cb.Execute(func() error {
		var payload io.Reader
		if body != nil {
			buf, err := json.Marshal(body)
			if err != nil {
				return err
			}
			payload = bytes.NewReader(buf)
		}
		req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, payload)
		if err != nil {
			return err
		}
		if body != nil {
			req.Header.Set("Content-Type", "application/json")
		}

		res, err := c.http.Do(req)
		if err != nil {
			return err
		}
		defer res.Body.Close()

		raw, err := io.ReadAll(res.Body)
		if err != nil {
			return err
		}

		var decoded dto.Envelope
		if err := json.Unmarshal(raw, &decoded); err != nil {
			return fmt.Errorf("decode response (%d): %w", res.StatusCode, err)
		}
		switch {
		case res.StatusCode >= 500:
			// Server failures count against the breaker.
			return &APIError{Status: res.StatusCode, Message: decoded.Message}
		case res.StatusCode >= 300:
			// Client errors are the caller's problem, not a backend outage.
			apiErr = &APIError{Status: res.StatusCode, Message: decoded.Message}
			return nil
		}
		env = &decoded
		return nil
	})
	if err != nil {
		return nil, err
	}
	if apiErr != nil {
		return nil, apiErr
	}
	return env, nil
}
